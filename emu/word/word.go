/*
 * Austro - 16-bit instruction/data word codec
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

// Package word implements the 16-bit memory word used by the Austro
// simulator: a value that is either an instruction (opcode:5, flags:3,
// operand:8) or an opaque 16-bit data value.
package word

import "errors"

// ErrNotInstruction is returned by Opcode/Flags/Operand on a data word.
var ErrNotInstruction = errors.New("word: not an instruction word")

const (
	opcodeShift = 11
	flagsShift  = 8
	opcodeMask  = 0x1F
	flagsMask   = 0x07
	operandMask = 0xFF
)

// Word is a 16-bit cell. When IsInstruction is true, Value packs
// opcode:5 | flags:3 | operand:8 with opcode in the high bits. When false,
// Value is an opaque unsigned 16-bit quantity.
type Word struct {
	Value         uint16
	IsInstruction bool
	// Lineno is the 1-based source line that produced this word, 0 if
	// unknown. Only meaningful for instruction words.
	Lineno int
}

// NewInstruction builds an instruction word from its three fields.
func NewInstruction(opcode, flags, operand byte, lineno int) Word {
	v := uint16(opcode&opcodeMask)<<opcodeShift |
		uint16(flags&flagsMask)<<flagsShift |
		uint16(operand)&operandMask
	return Word{Value: v, IsInstruction: true, Lineno: lineno}
}

// NewData builds a data word from a raw 16-bit value.
func NewData(value uint16) Word {
	return Word{Value: value}
}

// Opcode returns the 5-bit opcode field, or ErrNotInstruction if w is a
// data word.
func (w Word) Opcode() (byte, error) {
	if !w.IsInstruction {
		return 0, ErrNotInstruction
	}
	return byte(w.Value>>opcodeShift) & opcodeMask, nil
}

// Flags returns the 3-bit flags field.
func (w Word) Flags() (byte, error) {
	if !w.IsInstruction {
		return 0, ErrNotInstruction
	}
	return byte(w.Value>>flagsShift) & flagsMask, nil
}

// Operand returns the 8-bit operand field.
func (w Word) Operand() (byte, error) {
	if !w.IsInstruction {
		return 0, ErrNotInstruction
	}
	return byte(w.Value) & operandMask, nil
}

// MustOpcode is like Opcode but panics on a data word; used where the
// caller has already checked IsInstruction (e.g. inside the decoder).
func (w Word) MustOpcode() byte {
	op, err := w.Opcode()
	if err != nil {
		panic(err)
	}
	return op
}

// MustFlags is like Flags but panics on a data word.
func (w Word) MustFlags() byte {
	f, err := w.Flags()
	if err != nil {
		panic(err)
	}
	return f
}

// MustOperand is like Operand but panics on a data word.
func (w Word) MustOperand() byte {
	o, err := w.Operand()
	if err != nil {
		panic(err)
	}
	return o
}
