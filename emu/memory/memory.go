/*
 * Austro - 256-word memory
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

// Package memory implements the Austro simulator's fixed 256-word address
// space. Unlike a real memory bus, every cell individually remembers
// whether it currently holds an instruction or data word, and the source
// line that produced it, so a front-end can render the two differently.
package memory

import (
	"errors"

	"github.com/austrosim/austro/emu/word"
)

// Size is the fixed address-space size in words; spec.md §1 fixes this at
// 256 and treats a larger space as a non-goal.
const Size = 256

// ErrAddressOutOfRange is returned by any access outside [0, Size).
var ErrAddressOutOfRange = errors.New("memory: address out of range")

// ErrLoadBlockTooLarge is returned by LoadBlock when start+len(words)
// would run past the end of memory.
var ErrLoadBlockTooLarge = errors.New("memory: load block too large for address space")

// Memory is the 256-word address space. The zero value is not ready to
// use; call New.
type Memory struct {
	cells [Size]word.Word
}

// New returns a zero-initialized memory.
func New() *Memory {
	return &Memory{}
}

func checkAddr(addr int) error {
	if addr < 0 || addr >= Size {
		return ErrAddressOutOfRange
	}
	return nil
}

// GetWord returns the full tagged word at addr.
func (m *Memory) GetWord(addr int) (word.Word, error) {
	if err := checkAddr(addr); err != nil {
		return word.Word{}, err
	}
	return m.cells[addr], nil
}

// SetWord copies w's value, instruction tag, and line number into addr.
func (m *Memory) SetWord(addr int, w word.Word) error {
	if err := checkAddr(addr); err != nil {
		return err
	}
	m.cells[addr] = w
	return nil
}

// Get returns the raw 16-bit value at addr, ignoring its tag.
func (m *Memory) Get(addr int) (uint16, error) {
	if err := checkAddr(addr); err != nil {
		return 0, err
	}
	return m.cells[addr].Value, nil
}

// Set overwrites the value at addr, preserving the cell's existing
// instruction tag and line number.
func (m *Memory) Set(addr int, value uint16) error {
	if err := checkAddr(addr); err != nil {
		return err
	}
	m.cells[addr].Value = value
	return nil
}

// Clear zeroes every cell's value but leaves tags and line numbers alone,
// matching spec.md §3's memory reset contract (word identity/tag survive
// a value clear; only CPU.Reset fully re-zeroes tags via a fresh Memory).
func (m *Memory) Clear() {
	for i := range m.cells {
		m.cells[i].Value = 0
	}
}

// Size returns the number of addressable words.
func (m *Memory) Size() int {
	return Size
}

// LoadBlock copies words into memory starting at start, preserving each
// word's tag and line number.
func (m *Memory) LoadBlock(words []word.Word, start int) error {
	if start < 0 || start+len(words) > Size {
		return ErrLoadBlockTooLarge
	}
	for i, w := range words {
		m.cells[start+i] = w
	}
	return nil
}

// View is a read-only accessor passed to Listener.OnFetch.
type View interface {
	GetWord(addr int) (word.Word, error)
	Get(addr int) (uint16, error)
	Size() int
}

var _ View = (*Memory)(nil)
