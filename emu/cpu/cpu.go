/*
 * Austro - CPU: main instruction fetch/decode/execute/store driver.
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

// Package cpu drives the Austro fetch/decode/execute/store cycle over a
// register file and a 256-word memory, dispatching each decoded
// instruction to the ALU, Shift, or Control unit.
package cpu

import (
	"errors"
	"sync/atomic"

	"github.com/austrosim/austro/emu/decode"
	"github.com/austrosim/austro/emu/memory"
	"github.com/austrosim/austro/emu/registers"
	"github.com/austrosim/austro/emu/units"
	"github.com/austrosim/austro/emu/word"
)

// Stage names a point in the fetch/decode/execute/store cycle.
type Stage int

const (
	Initial Stage = iota
	Fetch
	Decode
	Execute
	Store
	Halted
	Stopped
)

func (s Stage) String() string {
	switch s {
	case Initial:
		return "INITIAL"
	case Fetch:
		return "FETCH"
	case Decode:
		return "DECODE"
	case Execute:
		return "EXECUTE"
	case Store:
		return "STORE"
	case Halted:
		return "HALTED"
	case Stopped:
		return "STOPPED"
	default:
		return "UNKNOWN"
	}
}

// ErrPCOutOfRange is returned by FETCH when PC has run past the address space.
var ErrPCOutOfRange = errors.New("cpu: PC beyond address space")

// Listener observes the machine state at the moment of each successful
// FETCH. regs and mem are read-only views; views obtained this way stay
// live only for the duration of the callback.
type Listener interface {
	OnFetch(regs registers.View, mem memory.View)
}

// CPU is one Austro machine: a register file, memory, the current stage,
// and the listeners notified on every fetch. The zero value is not ready
// to use; call New.
type CPU struct {
	regs      *registers.RegisterFile
	mem       *memory.Memory
	stage     Stage
	listeners []Listener
	stopped   atomic.Bool

	// Cached across the Decode/Execute/Store legs of a single instruction.
	dcd    decode.Decoded
	op1Val uint16
	op2Val uint16
	result uint16
}

// New returns a CPU in the INITIAL stage with zeroed registers and memory.
func New(listeners ...Listener) *CPU {
	return &CPU{
		regs:      registers.New(),
		mem:       memory.New(),
		stage:     Initial,
		listeners: listeners,
	}
}

// Registers gives read/write access to the register file, for test setup
// and inspection between steps.
func (c *CPU) Registers() *registers.RegisterFile { return c.regs }

// Memory gives read/write access to memory, for test setup and inspection
// between steps.
func (c *CPU) Memory() *memory.Memory { return c.mem }

// CurrentStage reports the driver's current stage.
func (c *CPU) CurrentStage() Stage { return c.stage }

// Load copies words into memory starting at start, preserving each word's
// instruction tag and source line.
func (c *CPU) Load(words []word.Word, start int) error {
	return c.mem.LoadBlock(words, start)
}

// Stop requests a cooperative halt. It is safe to call from a goroutine
// other than the one driving Step/Start; the request is observed when the
// next Step call begins, never mid-instruction.
func (c *CPU) Stop() {
	c.stopped.Store(true)
}

// Reset zeroes memory and registers and returns to INITIAL, clearing any
// prior stop request.
func (c *CPU) Reset() {
	c.mem = memory.New()
	c.regs = registers.New()
	c.stage = Initial
	c.stopped.Store(false)
}

// Start drives Step until the machine reaches HALTED or STOPPED. It
// reports true if the machine halted normally, false if it stopped (by
// request or by error).
func (c *CPU) Start() (bool, error) {
	for c.stage != Halted && c.stage != Stopped {
		ok, err := c.Step()
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return c.stage == Halted, nil
}

// Step advances the machine by one driver call. Once STOPPED or HALTED it
// returns false without mutating state further. Any internal error stops
// the machine and is surfaced to the caller.
func (c *CPU) Step() (bool, error) {
	if c.stopped.Load() && c.stage != Stopped {
		c.stage = Stopped
	}
	if c.stage == Stopped || c.stage == Halted {
		return false, nil
	}
	if err := c.advance(); err != nil {
		c.stage = Stopped
		return false, err
	}
	return c.stage != Stopped, nil
}

// advance runs the cascade of stage transitions belonging to one Step
// call: INITIAL does just the first fetch; every other entry stage runs
// decode/execute/(store) through to the next fetch, mirroring how the
// original driver folds a whole instruction into one call once past the
// initial fetch.
func (c *CPU) advance() error {
	regs := c.regs

	if c.stage == Initial {
		regs.Set(registers.PC, 0)
		return c.fetch()
	}

	if c.stage == Decode {
		ri := regs.Word(registers.RI)
		dcd, err := decode.Decode(ri, regs, c.mem)
		if err != nil {
			return err
		}
		c.dcd = dcd
		c.op1Val = regs.Get(dcd.Op1)
		c.op2Val = regs.Get(dcd.Op2)
		c.stage = Execute
	}

	if c.stage == Execute {
		switch c.dcd.Unit {
		case decode.UnitALU:
			result, hasResult, err := units.ALU(c.dcd.Operation, c.op1Val, c.op2Val, regs)
			if err != nil {
				return err
			}
			c.result = result
			if !hasResult {
				c.dcd.Store = decode.Store{Kind: decode.StoreNone}
			}
		case decode.UnitShift:
			c.result = units.Shift(c.dcd.Operation, c.op1Val, c.op2Val, regs)
		case decode.UnitUC:
			outcome := units.Control(c.dcd.Operation, c.dcd.Op1, c.dcd.Op2, regs)
			if outcome.Halted {
				c.stage = Halted
				return nil
			}
			if outcome.Jumped {
				return c.fetch()
			}
		}

		if c.dcd.Store.Kind != decode.StoreNone {
			c.stage = Store
		} else {
			regs.Set(registers.PC, regs.Get(registers.PC)+1)
			return c.fetch()
		}
	}

	if c.stage == Store {
		if c.dcd.Unit != decode.UnitUC {
			units.Load(regs, c.dcd.Op1, c.result)
		}
		if c.dcd.Store.Kind == decode.StoreMemory {
			if err := c.mem.Set(int(c.dcd.Store.Addr), regs.Get(c.dcd.Op1)); err != nil {
				return err
			}
		}
		regs.Set(registers.PC, regs.Get(registers.PC)+1)
		return c.fetch()
	}

	return nil
}

// fetch reads the word at PC into MAR/MBR/RI, notifies listeners, and
// leaves the machine ready for the next advance() to decode it.
func (c *CPU) fetch() error {
	regs := c.regs
	mem := c.mem

	pc := regs.Get(registers.PC)
	if int(pc) >= memory.Size {
		return ErrPCOutOfRange
	}

	regs.Set(registers.MAR, pc)
	w, err := mem.GetWord(int(pc))
	if err != nil {
		return err
	}
	if err := regs.SetWord(registers.MBR, w); err != nil {
		return err
	}
	if err := regs.SetWord(registers.RI, w); err != nil {
		return err
	}

	for _, l := range c.listeners {
		l.OnFetch(regs, mem)
	}

	c.stage = Decode
	return nil
}
