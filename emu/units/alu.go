/*
 * Austro - Arithmetic and Logic Unit
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

package units

import (
	"errors"

	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
)

// ErrDivideByZero is returned by ALU on DIV/MOD with a zero divisor. The
// CPU driver treats this as a fatal run error, stopping the machine rather
// than producing a silent result.
var ErrDivideByZero = errors.New("units: division or modulus by zero")

// ALU executes one Arithmetic and Logic Unit operation. operation packs
// opcode<<2 | is8bit<<1 | signed, exactly as the decoder produces it.
// hasResult is false for CMP (flags only, no writeback) and for any
// operation code the ALU does not recognize, which the CPU driver treats
// like a NOP.
func ALU(operation int, in1, in2 uint16, regs *registers.RegisterFile) (result uint16, hasResult bool, err error) {
	opc := byte(operation >> 2)
	bits := 16
	if operation&0b10 != 0 {
		bits = 8
	}
	signed := operation&0b1 != 0

	var a, b int
	if signed {
		if bits == 8 {
			a, b = int(int8(in1)), int(int8(in2))
		} else {
			a, b = int(int16(in1)), int(int16(in2))
		}
	} else {
		a, b = int(in1), int(in2)
	}

	var res int
	have := true

	switch opc {
	case opcode.Or:
		res = a | b
	case opcode.And:
		res = a & b
	case opcode.Not:
		res = ^a
	case opcode.Inc:
		res = a + 1
		regs.SetFlag(registers.V, overflows(res, bits))
	case opcode.Dec:
		res = a - 1
		regs.SetFlag(registers.V, overflows(res, bits))
	case opcode.Xor:
		res = a ^ b
	case opcode.Add:
		res = a + b
		regs.SetFlag(registers.V, overflows(res, bits))
	case opcode.Sub:
		res = a - b
		regs.SetFlag(registers.V, overflows(res, bits))
	case opcode.Mul:
		res = a * b
		if !signed {
			transport := res >> bits
			regs.SetFlag(registers.T, transport > 0)
			if transport > 0 {
				regs.Set(registers.SP, uint16(transport))
			}
		} else {
			regs.SetFlag(registers.N, res < 0)
			regs.SetFlag(registers.V, overflows(res, bits))
		}
	case opcode.Div:
		if b == 0 {
			return 0, false, ErrDivideByZero
		}
		res, _ = floorDivMod(a, b)
		if signed {
			regs.SetFlag(registers.N, res < 0)
		}
	case opcode.Mod:
		if b == 0 {
			return 0, false, ErrDivideByZero
		}
		_, res = floorDivMod(a, b)
		if signed {
			regs.SetFlag(registers.N, res < 0)
		}
	case opcode.Cmp:
		tmp := a - b
		regs.SetFlag(registers.N, tmp < 0)
		regs.SetFlag(registers.Z, tmp == 0)
		have = false
	default:
		have = false
	}

	if !have {
		return 0, false, nil
	}

	mask := 0xFFFF
	if bits == 8 {
		mask = 0xFF
	}
	regs.SetFlag(registers.Z, res&mask == 0)
	return uint16(res & mask), true, nil
}

// overflows reports whether res carries any bit past the given width. The
// shift is arithmetic, so any negative result (a borrow below zero) also
// reads as overflow.
func overflows(res, bits int) bool {
	return res>>bits != 0
}

// floorDivMod returns the quotient and remainder of a/b rounded toward
// negative infinity (as opposed to Go's truncating / and %), matching the
// floor-division contract spec.md's ALU table states for DIV/MOD.
func floorDivMod(a, b int) (q, r int) {
	q = a / b
	r = a % b
	if r != 0 && (r < 0) != (b < 0) {
		q--
		r += b
	}
	return q, r
}
