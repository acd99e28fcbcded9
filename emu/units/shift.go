/*
 * Austro - Shift Unit
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
	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
)

// Shift executes SHR/SHL. operation packs opcode<<1 | is8bit, matching the
// decoder's convention for shift operations. Only Z is affected.
func Shift(operation int, value, count uint16, regs *registers.RegisterFile) uint16 {
	opc := byte(operation >> 1)
	is8 := operation&0b1 != 0

	var result uint16
	switch opc {
	case opcode.Shr:
		result = value >> count
	case opcode.Shl:
		result = value << count
	}

	mask := uint16(0xFFFF)
	if is8 {
		mask = 0xFF
	}
	regs.SetFlag(registers.Z, result&mask == 0)
	return result
}
