/*
 * Austro - Command parser.
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

// Package parser dispatches debugger console lines (step, run, reset, show,
// load, trace, quit) against a session.Session, using prefix matching so an
// abbreviation that is unambiguous to its minimum length is accepted.
package parser

import (
	"errors"
	"strings"
	"unicode"

	"github.com/austrosim/austro/command/session"
)

type cmd struct {
	name    string
	min     int
	process func(*cmdLine, *session.Session) (bool, error)
}

type cmdLine struct {
	line string
	pos  int
}

var cmdList = []cmd{
	{name: "step", min: 1, process: step},
	{name: "run", min: 1, process: run},
	{name: "reset", min: 2, process: reset},
	{name: "show", min: 2, process: show},
	{name: "load", min: 1, process: load},
	{name: "trace", min: 2, process: traceCmd},
	{name: "quit", min: 1, process: quit},
}

// ProcessCommand runs one console line against sess. It reports whether the
// session should exit and any error encountered parsing or executing it.
func ProcessCommand(commandLine string, sess *session.Session) (bool, error) {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	match := matchList(name)
	if len(match) == 0 {
		return false, errors.New("command not found: " + name)
	}
	if len(match) > 1 {
		return false, errors.New("ambiguous command: " + name)
	}

	return match[0].process(&line, sess)
}

// CompleteCmd returns the set of command names that could complete the
// partial line under edit, for the console reader's tab completion.
func CompleteCmd(commandLine string) []string {
	line := cmdLine{line: commandLine}
	name := line.getWord()

	list := matchList(name)
	names := make([]string, len(list))
	for i, m := range list {
		names[i] = m.name
	}
	return names
}

// matchList returns every command whose name starts with name and whose
// minimum-match length is satisfied, mirroring a VMS-style CLI's
// abbreviation rule: "s" alone picks "step" (min 1), while "show" needs at
// least "sh" (min 2).
func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var out []cmd
	for _, c := range cmdList {
		if matchCommand(c, name) {
			out = append(out, c)
		}
	}
	return out
}

func matchCommand(c cmd, name string) bool {
	if len(name) > len(c.name) || len(name) < c.min {
		return false
	}
	return c.name[:len(name)] == name
}

func (l *cmdLine) skipSpace() {
	for l.pos < len(l.line) && unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
}

func (l *cmdLine) isEOL() bool {
	return l.pos >= len(l.line)
}

// getWord consumes and returns the next whitespace-delimited token,
// lower-cased, leaving pos just past any trailing space.
func (l *cmdLine) getWord() string {
	l.skipSpace()
	start := l.pos
	for l.pos < len(l.line) && !unicode.IsSpace(rune(l.line[l.pos])) {
		l.pos++
	}
	return strings.ToLower(l.line[start:l.pos])
}

// getRest returns everything remaining on the line after skipping leading
// space, unmodified (case preserved, for file paths and source text).
func (l *cmdLine) getRest() string {
	l.skipSpace()
	return l.line[l.pos:]
}
