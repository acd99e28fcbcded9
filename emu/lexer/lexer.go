/*
 * Austro - Assembly source lexer
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package lexer tokenizes Austro assembly source into the token stream the
// assembler consumes: labels, opcodes, identifiers, numbers, memory
// references, and commas. Each Lexer is its own scanner instance over a
// string, so a caller can construct one per assemble call and never shares
// scan position across calls.
package lexer

import (
	"errors"
	"fmt"
)

// Kind identifies a token's lexical category.
type Kind int

const (
	LABEL Kind = iota
	OPCODE
	NAME
	REFERENCE
	NUMBER
	COMMA
	EOF
)

func (k Kind) String() string {
	switch k {
	case LABEL:
		return "LABEL"
	case OPCODE:
		return "OPCODE"
	case NAME:
		return "NAME"
	case REFERENCE:
		return "REFERENCE"
	case NUMBER:
		return "NUMBER"
	case COMMA:
		return "COMMA"
	case EOF:
		return "EOF"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit of assembly source. Text carries the raw
// identifier/label spelling for NAME, OPCODE, and LABEL; Value carries the
// decoded integer for NUMBER and REFERENCE. Line is the 1-based source line
// the token started on.
type Token struct {
	Kind  Kind
	Text  string
	Value int
	Line  int
}

// LexError reports an illegal character encountered while scanning.
type LexError struct {
	Char byte
	Line int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("lexer: illegal character %q at line %d", e.Char, e.Line)
}

var errUnexpectedEOF = errors.New("lexer: unexpected end of input")

// instructions is the reserved mnemonic set; a NAME token whose upper-cased
// spelling appears here is promoted to OPCODE.
var instructions = map[string]bool{
	"ADD": true, "AND": true, "CMP": true, "DEC": true, "DIV": true,
	"HALT": true, "ICMP": true, "IDIV": true, "IMOD": true, "IMUL": true,
	"INC": true, "JE": true, "JGE": true, "JGT": true, "JLE": true,
	"JLT": true, "JMP": true, "JN": true, "JNE": true, "JNZ": true,
	"JP": true, "JT": true, "JV": true, "JZ": true, "MOD": true,
	"MOV": true, "MUL": true, "NOP": true, "NOT": true, "OR": true,
	"SHL": true, "SHR": true, "SUB": true, "XOR": true, "ISUB": true,
	"IADD": true,
}

// Lexer scans a single assembly source string.
type Lexer struct {
	src  string
	pos  int
	line int
}

// New returns a scanner positioned at the start of src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' }
func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool   { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }
func isIdentStart(c byte) bool {
	return c == '_' || c == '.' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentCont(c byte) bool  { return isIdentStart(c) || isDigit(c) }
func isLabelCont(c byte) bool  { return isIdentCont(c) || c == '.' }

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}

func toUpper(s string) string {
	b := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		b[i] = upper(s[i])
	}
	return string(b)
}

// skipIgnored consumes spaces, tabs, and #-comments but stops at a newline
// so the caller can advance the line counter itself.
func (l *Lexer) skipIgnored() {
	for {
		c := l.peek()
		switch {
		case isSpace(c):
			l.pos++
		case c == '#':
			for l.peek() != 0 && l.peek() != '\n' && l.peek() != '\r' {
				l.pos++
			}
		default:
			return
		}
	}
}

// Next returns the next token, or a Kind of EOF at end of input.
func (l *Lexer) Next() (Token, error) {
	for {
		l.skipIgnored()
		c := l.peek()
		if c == 0 {
			return Token{Kind: EOF, Line: l.line}, nil
		}
		if c == '\n' {
			l.pos++
			l.line++
			continue
		}
		if c == '\r' && l.peekAt(1) == '\n' {
			l.pos += 2
			l.line++
			continue
		}
		break
	}

	startLine := l.line
	c := l.peek()

	switch {
	case c == ',':
		l.pos++
		return Token{Kind: COMMA, Line: startLine}, nil

	case c == '[':
		return l.scanReference(startLine)

	case isIdentStart(c):
		return l.scanIdent(startLine)

	case isDigit(c) || c == '-':
		return l.scanNumber(startLine)

	default:
		l.pos++
		return Token{}, &LexError{Char: c, Line: startLine}
	}
}

func (l *Lexer) scanIdent(line int) (Token, error) {
	start := l.pos
	l.pos++
	for isIdentCont(l.peek()) && l.peek() != '.' {
		l.pos++
	}
	// A label is an identifier (optionally with '.') followed by optional
	// whitespace and a colon.
	identEnd := l.pos
	for isLabelCont(l.peek()) {
		l.pos++
	}
	lookahead := l.pos
	for isSpace(l.peek()) {
		l.pos++
	}
	if l.peek() == ':' {
		name := l.src[start:l.pos]
		name = trimTrailing(name, " \t:")
		l.pos++
		return Token{Kind: LABEL, Text: name, Line: line}, nil
	}
	// Not a label: rewind to the plain identifier (no '.', no trailing ws
	// consumed) since labels are the only construct allowed to contain '.'.
	l.pos = identEnd
	_ = lookahead
	if l.src[start] == '.' {
		return Token{}, &LexError{Char: '.', Line: line}
	}
	name := l.src[start:l.pos]
	if instructions[toUpper(name)] {
		return Token{Kind: OPCODE, Text: toUpper(name), Line: line}, nil
	}
	return Token{Kind: NAME, Text: name, Line: line}, nil
}

func trimTrailing(s string, cut string) string {
	for len(s) > 0 {
		found := false
		for i := 0; i < len(cut); i++ {
			if s[len(s)-1] == cut[i] {
				found = true
				break
			}
		}
		if !found {
			break
		}
		s = s[:len(s)-1]
	}
	return s
}

func (l *Lexer) scanReference(line int) (Token, error) {
	l.pos++ // consume '['
	for isSpace(l.peek()) {
		l.pos++
	}
	numTok, err := l.scanNumber(line)
	if err != nil {
		return Token{}, err
	}
	for isSpace(l.peek()) {
		l.pos++
	}
	if l.peek() != ']' {
		return Token{}, &LexError{Char: l.peek(), Line: line}
	}
	l.pos++
	return Token{Kind: REFERENCE, Value: numTok.Value, Line: line}, nil
}

// scanNumber parses the shared numeric grammar: 0b-binary, 0x-hex,
// 0/0o-octal, or signed decimal.
func (l *Lexer) scanNumber(line int) (Token, error) {
	start := l.pos
	if l.peek() == '-' {
		l.pos++
	}
	if !isDigit(l.peek()) {
		c := l.peek()
		l.pos++
		return Token{}, &LexError{Char: c, Line: line}
	}

	neg := l.src[start] == '-'
	digitsStart := l.pos

	base := 10
	switch {
	case l.peek() == '0' && (l.peekAt(1) == 'b' || l.peekAt(1) == 'B'):
		base = 2
		l.pos += 2
		digitsStart = l.pos
		for l.peek() == '0' || l.peek() == '1' {
			l.pos++
		}
	case l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X'):
		base = 16
		l.pos += 2
		digitsStart = l.pos
		for isHexDigit(l.peek()) {
			l.pos++
		}
	case l.peek() == '0' && (l.peekAt(1) == 'o' || l.peekAt(1) == 'O'):
		base = 8
		l.pos += 2
		digitsStart = l.pos
		for l.peek() >= '0' && l.peek() <= '7' {
			l.pos++
		}
	case l.peek() == '0':
		base = 8
		digitsStart = l.pos
		for l.peek() >= '0' && l.peek() <= '7' {
			l.pos++
		}
	default:
		for isDigit(l.peek()) {
			l.pos++
		}
	}

	digits := l.src[digitsStart:l.pos]
	if digits == "" {
		return Token{}, errUnexpectedEOF
	}

	value, err := parseDigits(digits, base)
	if err != nil {
		return Token{}, &LexError{Char: l.src[digitsStart], Line: line}
	}
	if neg {
		value = -value
	}
	return Token{Kind: NUMBER, Value: value, Text: l.src[start:l.pos], Line: line}, nil
}

func parseDigits(digits string, base int) (int, error) {
	n := 0
	for i := 0; i < len(digits); i++ {
		c := digits[i]
		var d int
		switch {
		case c >= '0' && c <= '9':
			d = int(c - '0')
		case c >= 'a' && c <= 'f':
			d = int(c-'a') + 10
		case c >= 'A' && c <= 'F':
			d = int(c-'A') + 10
		default:
			return 0, errUnexpectedEOF
		}
		if d >= base {
			return 0, errUnexpectedEOF
		}
		n = n*base + d
	}
	return n, nil
}
