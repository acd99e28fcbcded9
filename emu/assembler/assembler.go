/*
 * Austro - two-operand assembler
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

// Package assembler turns Austro assembly source into a flat word sequence
// plus a label table. It lexes the whole program up front, then runs two
// logical passes over the resulting statement list: one to bind labels to
// word indices (sizes only depend on operand token kinds, never on label
// values, so this never needs a placeholder/patch step), and one to encode
// each statement once every label is known.
package assembler

import (
	"fmt"

	"github.com/austrosim/austro/emu/lexer"
	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
	"github.com/austrosim/austro/emu/word"
)

// AssembleErrorKind classifies an assembly failure, matching spec.md §7's
// AssembleError taxonomy.
type AssembleErrorKind int

const (
	DuplicateLabel AssembleErrorKind = iota
	UndefinedLabel
	InvalidInstruction
	BadRegister
	MissingOperand
	InvalidOperand
	MissingComma
	InvalidSyntax
)

func (k AssembleErrorKind) String() string {
	switch k {
	case DuplicateLabel:
		return "duplicate label"
	case UndefinedLabel:
		return "undefined label"
	case InvalidInstruction:
		return "invalid instruction"
	case BadRegister:
		return "bad register"
	case MissingOperand:
		return "missing operand"
	case InvalidOperand:
		return "invalid operand"
	case MissingComma:
		return "missing comma"
	case InvalidSyntax:
		return "invalid syntax"
	default:
		return "unknown"
	}
}

// AssembleError reports one assembly failure. Detail always names the
// offending token (register, label, or mnemonic) explicitly rather than
// relying on a bare error value, so nothing resembling original_source's
// unbound "e" in `except KeyError: ... % e.args` can happen here.
type AssembleError struct {
	Kind   AssembleErrorKind
	Detail string
	Line   int
}

func (e *AssembleError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("assembler: %s at line %d", e.Kind, e.Line)
	}
	return fmt.Sprintf("assembler: %s (%s) at line %d", e.Kind, e.Detail, e.Line)
}

// Result is the output of a successful assembly.
type Result struct {
	Words  []word.Word
	Labels map[string]int
}

// registerNames maps every assembly-visible register spelling to its
// logical index. PC/RI/MAR/MBR, the flag registers, and TMP are not
// reachable from assembly syntax.
var registerNames = map[string]int{
	"AL": registers.AL, "AH": registers.AH, "BL": registers.BL, "BH": registers.BH,
	"CL": registers.CL, "CH": registers.CH, "DL": registers.DL, "DH": registers.DH,
	"AX": registers.AX, "BX": registers.BX, "CX": registers.CX, "DX": registers.DX,
	"SP": registers.SP, "BP": registers.BP, "SI": registers.SI, "DI": registers.DI,
}

func regIndex(name string) (int, bool) {
	idx, ok := registerNames[upperASCII(name)]
	return idx, ok
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return string(b)
}

// statement is one parsed assembly instruction: mnemonic metadata, its raw
// operand tokens (0, 1, or 2 — COMMA tokens are consumed during grouping,
// not stored here), and the word index it will occupy.
type statement struct {
	meta      opcode.Mnemonic
	mnemonic  string
	operands  []lexer.Token
	hadComma  bool
	line      int
	wordIndex int
}

// Assemble lexes and assembles Austro source text in one call, returning
// the emitted word sequence and the label table. It aborts on the first
// error encountered, matching spec.md §7's no-recovery policy.
func Assemble(src string) (Result, error) {
	tokens, err := lexAll(src)
	if err != nil {
		return Result{}, err
	}

	statements, labels, err := parseStatements(tokens)
	if err != nil {
		return Result{}, err
	}

	var words []word.Word
	for _, st := range statements {
		ws, err := encode(st, labels)
		if err != nil {
			return Result{}, err
		}
		words = append(words, ws...)
	}

	return Result{Words: words, Labels: labels}, nil
}

func lexAll(src string) ([]lexer.Token, error) {
	l := lexer.New(src)
	var tokens []lexer.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		if tok.Kind == lexer.EOF {
			return tokens, nil
		}
		tokens = append(tokens, tok)
	}
}

func parseStatements(tokens []lexer.Token) ([]statement, map[string]int, error) {
	labels := map[string]int{}
	var pending []string
	var statements []statement
	wordIndex := 0

	i := 0
	for i < len(tokens) {
		tok := tokens[i]
		switch tok.Kind {
		case lexer.LABEL:
			pending = append(pending, tok.Text)
			i++

		case lexer.OPCODE:
			meta, ok := opcode.Table[tok.Text]
			if !ok {
				return nil, nil, &AssembleError{InvalidInstruction, tok.Text, tok.Line}
			}
			i++
			var ops []lexer.Token
			hadComma := false
			for i < len(tokens) && tokens[i].Kind != lexer.LABEL && tokens[i].Kind != lexer.OPCODE {
				if tokens[i].Kind == lexer.COMMA {
					hadComma = true
					i++
					continue
				}
				ops = append(ops, tokens[i])
				i++
			}

			size, err := validateShape(meta, ops, hadComma, tok.Line)
			if err != nil {
				return nil, nil, err
			}

			for _, name := range pending {
				if _, exists := labels[name]; exists {
					return nil, nil, &AssembleError{DuplicateLabel, name, tok.Line}
				}
				labels[name] = wordIndex
			}
			pending = nil

			statements = append(statements, statement{
				meta: meta, mnemonic: tok.Text, operands: ops,
				hadComma: hadComma, line: tok.Line, wordIndex: wordIndex,
			})
			wordIndex += size

		case lexer.NAME:
			// A statement-leading word that is not a reserved mnemonic.
			return nil, nil, &AssembleError{InvalidInstruction, tok.Text, tok.Line}

		default:
			return nil, nil, &AssembleError{InvalidSyntax, tok.Text, tok.Line}
		}
	}

	if len(pending) > 0 {
		return nil, nil, &AssembleError{InvalidSyntax, pending[0], 0}
	}

	return statements, labels, nil
}

// validateShape checks operand arity/kinds for meta's shape and returns how
// many words the statement will occupy. It never needs the label table:
// word count depends only on operand token kinds, not on resolved values.
func validateShape(meta opcode.Mnemonic, ops []lexer.Token, hadComma bool, line int) (int, error) {
	switch meta.Shape {
	case opcode.ShapeNoArg:
		if len(ops) != 0 {
			return 0, &AssembleError{InvalidOperand, "expected no operands", line}
		}
		return 1, nil

	case opcode.ShapeJump:
		if len(ops) == 0 {
			return 0, &AssembleError{MissingOperand, "", line}
		}
		if len(ops) > 1 {
			return 0, &AssembleError{InvalidOperand, "too many operands", line}
		}
		switch ops[0].Kind {
		case lexer.NAME, lexer.REFERENCE, lexer.NUMBER:
			return 1, nil
		default:
			return 0, &AssembleError{InvalidOperand, ops[0].Text, line}
		}

	case opcode.ShapeOp:
		if len(ops) == 0 {
			return 0, &AssembleError{MissingOperand, "", line}
		}
		if len(ops) > 1 {
			return 0, &AssembleError{InvalidOperand, "too many operands", line}
		}
		switch ops[0].Kind {
		case lexer.NAME, lexer.REFERENCE:
			return 1, nil
		default:
			return 0, &AssembleError{InvalidOperand, ops[0].Text, line}
		}

	case opcode.ShapeDstOri, opcode.ShapeOp1Op2:
		if len(ops) < 2 {
			return 0, &AssembleError{MissingOperand, "", line}
		}
		if len(ops) > 2 {
			return 0, &AssembleError{InvalidOperand, "too many operands", line}
		}
		if !hadComma {
			return 0, &AssembleError{MissingComma, "", line}
		}
		o1, o2 := ops[0], ops[1]
		switch {
		case o1.Kind == lexer.NAME && o2.Kind == lexer.NAME:
			return 1, nil
		case o1.Kind == lexer.NAME && o2.Kind == lexer.REFERENCE:
			return 2, nil
		case o1.Kind == lexer.NAME && o2.Kind == lexer.NUMBER:
			return 2, nil
		case o1.Kind == lexer.REFERENCE && o2.Kind == lexer.NAME:
			return 2, nil
		default:
			return 0, &AssembleError{InvalidOperand, "unsupported operand combination", line}
		}

	case opcode.ShapeOpQnt:
		if len(ops) < 2 {
			return 0, &AssembleError{MissingOperand, "", line}
		}
		if len(ops) > 2 {
			return 0, &AssembleError{InvalidOperand, "too many operands", line}
		}
		if !hadComma {
			return 0, &AssembleError{MissingComma, "", line}
		}
		o1, o2 := ops[0], ops[1]
		if o2.Kind != lexer.NUMBER {
			return 0, &AssembleError{InvalidOperand, "expected an immediate quantity", line}
		}
		switch o1.Kind {
		case lexer.NAME, lexer.REFERENCE:
			return 2, nil
		default:
			return 0, &AssembleError{InvalidOperand, o1.Text, line}
		}

	default:
		return 0, &AssembleError{InvalidSyntax, "", line}
	}
}

func inst(opc byte, flags byte, operand byte, line int) []word.Word {
	return []word.Word{word.NewInstruction(opc, flags, operand, line)}
}

func data(value int) word.Word {
	return word.NewData(uint16(int16(value)))
}

func encode(st statement, labels map[string]int) ([]word.Word, error) {
	meta := st.meta
	line := st.line

	switch meta.Shape {
	case opcode.ShapeNoArg:
		return inst(meta.Opcode, 0, 0, line), nil

	case opcode.ShapeJump:
		op := st.operands[0]
		switch op.Kind {
		case lexer.NAME:
			if idx, ok := regIndex(op.Text); ok {
				return inst(meta.Opcode, 0, byte(idx<<4), line), nil
			}
			addr, ok := labels[op.Text]
			if !ok {
				return nil, &AssembleError{UndefinedLabel, op.Text, op.Line}
			}
			if addr < 0 || addr > 0xFF {
				return nil, &AssembleError{InvalidOperand, op.Text, op.Line}
			}
			return inst(meta.Opcode, 2, byte(addr), line), nil
		case lexer.REFERENCE:
			if op.Value < 0 || op.Value > 0xFF {
				return nil, &AssembleError{InvalidOperand, "reference out of range", op.Line}
			}
			return inst(meta.Opcode, 1, byte(op.Value), line), nil
		case lexer.NUMBER:
			if op.Value < 0 || op.Value > 0xFF {
				return nil, &AssembleError{InvalidOperand, "immediate out of range", op.Line}
			}
			return inst(meta.Opcode, 2, byte(op.Value), line), nil
		}

	case opcode.ShapeOp:
		op := st.operands[0]
		switch op.Kind {
		case lexer.NAME:
			idx, ok := regIndex(op.Text)
			if !ok {
				return nil, &AssembleError{BadRegister, op.Text, op.Line}
			}
			return inst(meta.Opcode, 0, byte(idx<<4), line), nil
		case lexer.REFERENCE:
			if op.Value < 0 || op.Value > 0xFF {
				return nil, &AssembleError{InvalidOperand, "reference out of range", op.Line}
			}
			return inst(meta.Opcode, 1, byte(op.Value), line), nil
		}

	case opcode.ShapeDstOri, opcode.ShapeOp1Op2:
		var signedBit byte
		if meta.Signed {
			signedBit = 0b100
		}
		o1, o2 := st.operands[0], st.operands[1]
		switch {
		case o1.Kind == lexer.NAME && o2.Kind == lexer.NAME:
			r1, ok1 := regIndex(o1.Text)
			if !ok1 {
				return nil, &AssembleError{BadRegister, o1.Text, o1.Line}
			}
			r2, ok2 := regIndex(o2.Text)
			if !ok2 {
				return nil, &AssembleError{BadRegister, o2.Text, o2.Line}
			}
			operand := byte(r1<<4) | byte(r2)
			return inst(meta.Opcode, signedBit|0b000, operand, line), nil

		case o1.Kind == lexer.NAME && o2.Kind == lexer.REFERENCE:
			r1, ok1 := regIndex(o1.Text)
			if !ok1 {
				return nil, &AssembleError{BadRegister, o1.Text, o1.Line}
			}
			words := inst(meta.Opcode, signedBit|0b001, byte(r1<<4), line)
			return append(words, data(o2.Value)), nil

		case o1.Kind == lexer.NAME && o2.Kind == lexer.NUMBER:
			r1, ok1 := regIndex(o1.Text)
			if !ok1 {
				return nil, &AssembleError{BadRegister, o1.Text, o1.Line}
			}
			words := inst(meta.Opcode, signedBit|0b010, byte(r1<<4), line)
			return append(words, data(o2.Value)), nil

		case o1.Kind == lexer.REFERENCE && o2.Kind == lexer.NAME:
			r2, ok2 := regIndex(o2.Text)
			if !ok2 {
				return nil, &AssembleError{BadRegister, o2.Text, o2.Line}
			}
			words := inst(meta.Opcode, signedBit|0b011, byte(r2<<4), line)
			return append(words, data(o1.Value)), nil
		}

	case opcode.ShapeOpQnt:
		o1, o2 := st.operands[0], st.operands[1]
		switch o1.Kind {
		case lexer.NAME:
			r1, ok := regIndex(o1.Text)
			if !ok {
				return nil, &AssembleError{BadRegister, o1.Text, o1.Line}
			}
			words := inst(meta.Opcode, 0, byte(r1<<4), line)
			return append(words, data(o2.Value)), nil
		case lexer.REFERENCE:
			if o1.Value < 0 || o1.Value > 0xFF {
				return nil, &AssembleError{InvalidOperand, "reference out of range", o1.Line}
			}
			words := inst(meta.Opcode, 1, byte(o1.Value), line)
			return append(words, data(o2.Value)), nil
		}
	}

	return nil, &AssembleError{InvalidSyntax, st.mnemonic, line}
}
