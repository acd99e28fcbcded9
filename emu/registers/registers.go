/*
 * Austro - CPU register file
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

// Package registers implements the Austro register file: 16 user-visible
// general registers with overlapped 8/16-bit aliasing, the special PC/RI/
// MAR/MBR registers, the N/Z/V/T flag cells, and the decoder's internal
// TMP scratch register.
package registers

import (
	"errors"

	"github.com/austrosim/austro/emu/word"
)

// ErrReadOnly is returned by RegisterView.Set: a register word view
// obtained from GetWord is read-only.
var ErrReadOnly = errors.New("registers: word view is read-only")

// ErrWordTooWide is returned by SetWord when the source word's value does
// not fit in the destination register's width.
var ErrWordTooWide = errors.New("registers: word data too large for register")

// Logical register indices, matching spec.md's stable numbering.
const (
	AL = iota
	AH
	BL
	BH
	CL
	CH
	DL
	DH
	AX
	BX
	CX
	DX
	SP
	BP
	SI
	DI
	PC
	RI
	MAR
	MBR
	N
	Z
	V
	T
)

// TMP is the decoder's internal scratch register. It is never reachable
// from assembly syntax and has an index far outside the user-visible range
// so a stray assembler bug can't alias onto it by accident.
const TMP = 90

// numRegs sizes the backing array; indices above the user-visible range
// (N..T) up to TMP are simply unused padding, which is cheaper than a map
// for 24 hot registers plus one scratch cell.
const numRegs = TMP + 1

// xCellOf maps an 8-bit half register to the index of its owning 16-bit
// X cell (AL/AH -> AX, etc). Only valid for indices 0..7.
var xCellOf = [8]int{AX, AX, BX, BX, CX, CX, DX, DX}

// isHigh reports whether half register idx (0..7) is the high byte of its
// X cell (AH, BH, CH, DH) as opposed to the low byte.
func isHigh(idx int) bool {
	return idx%2 == 1
}

func width(idx int) int {
	if idx >= AL && idx <= DH {
		return 8
	}
	return 16
}

func mask(idx int) uint16 {
	if width(idx) == 8 {
		return 0xFF
	}
	return 0xFFFF
}

// RegisterFile holds the full set of Austro registers. Each cell stores a
// Word so registers that carry fetched instructions (RI, MBR) keep the
// instruction tag and source line alongside the raw value. The zero value
// is not ready to use; call New.
type RegisterFile struct {
	cells [numRegs]word.Word
}

// New returns a zero-initialized register file.
func New() *RegisterFile {
	return &RegisterFile{}
}

// Clear zeroes every register, including tags and line numbers.
func (r *RegisterFile) Clear() {
	for i := range r.cells {
		r.cells[i] = word.Word{}
	}
}

// Get returns the masked, unsigned value of register idx.
func (r *RegisterFile) Get(idx int) uint16 {
	if idx >= AL && idx <= DH {
		cell := r.cells[xCellOf[idx]].Value
		if isHigh(idx) {
			return cell >> 8
		}
		return cell & 0xFF
	}
	return r.cells[idx].Value & mask(idx)
}

// Set writes value into register idx, masking to the register's width and
// clearing any instruction tag the cell previously carried (a plain Set is
// always a data write). Writing an 8-bit half updates only that byte of
// the owning 16-bit cell, leaving the other half untouched; writing a
// 16-bit register updates both halves at once.
func (r *RegisterFile) Set(idx int, value uint16) {
	if idx >= AL && idx <= DH {
		cellIdx := xCellOf[idx]
		v := byte(value)
		cur := r.cells[cellIdx].Value
		var next uint16
		if isHigh(idx) {
			next = uint16(v)<<8 | (cur & 0xFF)
		} else {
			next = (cur &^ 0xFF) | uint16(v)
		}
		r.cells[cellIdx] = word.NewData(next)
		return
	}
	r.cells[idx] = word.NewData(value & mask(idx))
}

// RegisterView is a live, read-only window onto a register returned by
// GetWord: Value always reflects the register's current contents, even if
// the register changes after the view was obtained.
type RegisterView struct {
	regs *RegisterFile
	idx  int
}

// Value returns the register's current value.
func (v RegisterView) Value() uint16 {
	return v.regs.Get(v.idx)
}

// IsInstruction reports whether the register currently holds a word that
// was tagged as an instruction by SetWord.
func (v RegisterView) IsInstruction() bool {
	return v.regs.cellOf(v.idx).IsInstruction
}

// Lineno returns the source line associated with the register's current
// word, 0 if unknown or not an instruction.
func (v RegisterView) Lineno() int {
	return v.regs.cellOf(v.idx).Lineno
}

// Set always fails: a register word view is read-only by contract.
func (v RegisterView) Set(uint16) error {
	return ErrReadOnly
}

// cellOf returns the owning cell for idx, following X/H/L aliasing: an
// 8-bit half reports the tag of its parent 16-bit cell, since only the
// 16-bit cell physically stores one.
func (r *RegisterFile) cellOf(idx int) word.Word {
	if idx >= AL && idx <= DH {
		return r.cells[xCellOf[idx]]
	}
	return r.cells[idx]
}

// GetWord returns a live, read-only view of register idx.
func (r *RegisterFile) GetWord(idx int) RegisterView {
	return RegisterView{regs: r, idx: idx}
}

// Word returns the raw tagged word currently stored in register idx. Unlike
// GetWord's view, this is a snapshot; callers that need the instruction tag
// itself (the decoder, reading RI) use this directly rather than through
// the view indirection meant for listeners.
func (r *RegisterFile) Word(idx int) word.Word {
	return r.cellOf(idx)
}

// SetWord copies a word's value, instruction tag, and line number into
// register idx. The destination must be at least as wide as the value
// requires, matching spec.md's "destination must be >= source in
// bit-width" contract.
func (r *RegisterFile) SetWord(idx int, w word.Word) error {
	if w.Value > mask(idx) {
		return ErrWordTooWide
	}
	if idx >= AL && idx <= DH {
		cellIdx := xCellOf[idx]
		v := byte(w.Value)
		cur := r.cells[cellIdx].Value
		var next uint16
		if isHigh(idx) {
			next = uint16(v)<<8 | (cur & 0xFF)
		} else {
			next = (cur &^ 0xFF) | uint16(v)
		}
		r.cells[cellIdx] = word.Word{Value: next, IsInstruction: w.IsInstruction, Lineno: w.Lineno}
		return nil
	}
	r.cells[idx] = word.Word{Value: w.Value & mask(idx), IsInstruction: w.IsInstruction, Lineno: w.Lineno}
	return nil
}

// SetFlag sets flag register idx (N, Z, V, or T) to 1 or 0. Flags are
// stored in full 16-bit cells but only the low bit is meaningful.
func (r *RegisterFile) SetFlag(idx int, set bool) {
	if set {
		r.cells[idx] = word.NewData(1)
	} else {
		r.cells[idx] = word.NewData(0)
	}
}

// Flag reports whether flag register idx is set.
func (r *RegisterFile) Flag(idx int) bool {
	return r.cells[idx].Value&1 != 0
}

// View is a read-only snapshot-style accessor passed to Listener.OnFetch.
type View interface {
	Get(idx int) uint16
	Flag(idx int) bool
}

var _ View = (*RegisterFile)(nil)
