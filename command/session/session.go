/*
 * Austro - Debugger session: one CPU plus the trace listener watching it.
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

// Package session ties a cpu.CPU to the trace listener and assembler so the
// command parser and console reader have one object to drive.
package session

import (
	"log/slog"

	"github.com/austrosim/austro/emu/assembler"
	"github.com/austrosim/austro/emu/cpu"
	"github.com/austrosim/austro/util/trace"
)

// Session is the debugger's view of one running machine.
type Session struct {
	CPU   *cpu.CPU
	Trace *trace.Listener
	Log   *slog.Logger
}

// New returns a Session with a fresh CPU and its trace listener attached.
func New(log *slog.Logger) *Session {
	t := trace.New(log)
	return &Session{
		CPU:   cpu.New(t),
		Trace: t,
		Log:   log,
	}
}

// LoadSource assembles src and loads the result into memory at address 0,
// resetting the machine first so a reload always starts from INITIAL.
func (s *Session) LoadSource(src string) error {
	res, err := assembler.Assemble(src)
	if err != nil {
		return err
	}
	s.CPU.Reset()
	return s.CPU.Load(res.Words, 0)
}
