/*
 * Austro - Control Unit
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

// Outcome reports what Control decided, so the CPU driver can choose the
// next stage without Control itself reaching into driver state.
type Outcome struct {
	Halted bool
	Jumped bool
}

// Control executes one Control Unit operation: HALT, MOV, the jump family,
// or NOP. op1/op2 are register indices, following the decoder's convention
// (MOV's source and every jump's target are always register references,
// even when they hold an immediate or an indirectly-fetched value by the
// time EXECUTE runs).
func Control(operation int, op1, op2 int, regs *registers.RegisterFile) Outcome {
	switch byte(operation) {
	case opcode.Halt:
		return Outcome{Halted: true}
	case opcode.Mov:
		regs.Set(op1, regs.Get(op2))
	case opcode.Jz:
		if regs.Flag(registers.Z) {
			return jumpTo(regs, op1)
		}
	case opcode.Jnz:
		if !regs.Flag(registers.Z) {
			return jumpTo(regs, op1)
		}
	case opcode.Jn:
		if regs.Flag(registers.N) {
			return jumpTo(regs, op1)
		}
	case opcode.Jp:
		if !regs.Flag(registers.Z) && !regs.Flag(registers.N) {
			return jumpTo(regs, op1)
		}
	case opcode.Jge:
		if !regs.Flag(registers.N) {
			return jumpTo(regs, op1)
		}
	case opcode.Jle:
		if regs.Flag(registers.Z) || regs.Flag(registers.N) {
			return jumpTo(regs, op1)
		}
	case opcode.Jv:
		if regs.Flag(registers.V) {
			return jumpTo(regs, op1)
		}
	case opcode.Jt:
		if regs.Flag(registers.T) {
			return jumpTo(regs, op1)
		}
	case opcode.Jmp:
		return jumpTo(regs, op1)
	}
	return Outcome{}
}

func jumpTo(regs *registers.RegisterFile, target int) Outcome {
	regs.Set(registers.PC, regs.Get(target))
	return Outcome{Jumped: true}
}

// Load performs the synthetic UC_LOAD action: writing an ALU/Shift result
// back into a register during STORE. It is never reachable from assembly.
func Load(regs *registers.RegisterFile, dest int, value uint16) {
	regs.Set(dest, value)
}
