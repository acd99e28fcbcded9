/*
 * Austro - Trace listener: logs register/memory state on every CPU fetch.
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

// Package trace implements a cpu.Listener that logs one line per fetch
// through log/slog, replacing the per-device debug masks of the machine
// this was adapted from with a single on/off flag: Austro has no devices
// to mask independently.
package trace

import (
	"log/slog"

	"github.com/austrosim/austro/emu/memory"
	"github.com/austrosim/austro/emu/registers"
)

// Listener logs PC, the fetched instruction word, and the flag register
// values on every CPU fetch, when enabled.
type Listener struct {
	log     *slog.Logger
	enabled bool
}

// New returns a Listener that logs through log.
func New(log *slog.Logger) *Listener {
	return &Listener{log: log}
}

// SetEnabled turns fetch tracing on or off.
func (l *Listener) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// OnFetch implements cpu.Listener.
func (l *Listener) OnFetch(regs registers.View, _ memory.View) {
	if !l.enabled {
		return
	}
	pc := regs.Get(registers.PC)
	ri := regs.Get(registers.RI)
	l.log.Debug("fetch",
		slog.Int("pc", int(pc)),
		slog.Int("ri", int(ri)),
		slog.Bool("n", regs.Flag(registers.N)),
		slog.Bool("z", regs.Flag(registers.Z)),
		slog.Bool("v", regs.Flag(registers.V)),
		slog.Bool("t", regs.Flag(registers.T)),
	)
}
