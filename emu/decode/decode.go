/*
 * Austro - instruction decoder
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

// Package decode classifies a fetched instruction word and prepares the
// register references an execution unit needs, including the indirect
// operand fetch ([addr]/immediate forms) that some argument shapes require.
package decode

import (
	"github.com/austrosim/austro/emu/memory"
	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
	"github.com/austrosim/austro/emu/word"
)

// Unit names an execution unit.
type Unit int

const (
	UnitALU Unit = iota
	UnitUC
	UnitShift
)

// StoreKind classifies where (if anywhere) an instruction's result is
// written back.
type StoreKind int

const (
	StoreNone StoreKind = iota
	StoreRegister
	StoreMemory
)

// Store is the EXECUTE/STORE writeback target. Addr is only meaningful
// when Kind is StoreMemory.
type Store struct {
	Kind StoreKind
	Addr uint16
}

// Decoded is the decoder's output: the unit and bit-packed operation to
// dispatch to, the register indices holding the operand values, and the
// writeback target.
type Decoded struct {
	Unit      Unit
	Operation int
	Op1       int
	Op2       int
	Store     Store
}

// Decode classifies the instruction currently in RI. It mutates regs'
// PC/MAR/MBR/TMP exactly as original_source's cpu.py decode() does when an
// argument shape needs to consume a following data word or follow an
// indirect memory reference — this is decode-time register movement, not a
// side effect the caller needs to replicate separately.
func Decode(ri word.Word, regs *registers.RegisterFile, mem *memory.Memory) (Decoded, error) {
	opc, err := ri.Opcode()
	if err != nil {
		return Decoded{}, err
	}
	flags := ri.MustFlags()
	operand := ri.MustOperand()

	shape, ok := opcode.ShapeOf(opc)
	if !ok {
		return Decoded{}, word.ErrNotInstruction
	}

	var dcd Decoded

	switch shape {
	case opcode.ShapeDstOri, opcode.ShapeOp1Op2:
		dcd.Store = Store{Kind: StoreRegister}
		order := flags & 0b011
		switch order {
		case 0: // reg, reg
			dcd.Op1 = int(operand >> 4)
			dcd.Op2 = int(operand & 0x0F)
		case 1: // reg, [addr]
			advancePastDataWord(regs, mem)
			dcd.Op1 = int(operand >> 4)
			fetchIndirect(regs, mem, regs.Get(registers.MBR))
			dcd.Op2 = registers.TMP
		case 2: // reg, imm
			advancePastDataWord(regs, mem)
			dcd.Op1 = int(operand >> 4)
			dcd.Op2 = registers.MBR
		default: // 3: [addr], reg
			advancePastDataWord(regs, mem)
			dcd.Op2 = int(operand >> 4)
			addr := regs.Get(registers.MBR)
			fetchIndirect(regs, mem, addr)
			dcd.Op1 = registers.TMP
			dcd.Store = Store{Kind: StoreMemory, Addr: addr}
		}

	case opcode.ShapeOpQnt:
		order := flags & 0b001
		if order == 0 {
			dcd.Op1 = int(operand >> 4)
			dcd.Store = Store{Kind: StoreRegister}
		} else {
			fetchIndirect(regs, mem, uint16(operand))
			dcd.Op1 = registers.TMP
			dcd.Store = Store{Kind: StoreMemory, Addr: uint16(operand)}
		}
		advancePastDataWord(regs, mem)
		dcd.Op2 = registers.MBR

	case opcode.ShapeJump:
		order := flags & 0b011
		switch order {
		case 0:
			dcd.Op1 = int(operand >> 4)
		case 1:
			fetchIndirect(regs, mem, uint16(operand))
			dcd.Op1 = registers.TMP
		case 2:
			regs.Set(registers.TMP, uint16(operand))
			dcd.Op1 = registers.TMP
		}

	case opcode.ShapeOp:
		order := flags & 0b001
		if order == 0 {
			dcd.Op1 = int(operand >> 4)
			dcd.Store = Store{Kind: StoreRegister}
		} else {
			fetchIndirect(regs, mem, uint16(operand))
			dcd.Op1 = registers.TMP
			dcd.Store = Store{Kind: StoreMemory, Addr: uint16(operand)}
		}

	case opcode.ShapeNoArg:
		// nothing to prepare
	}

	switch {
	case opcode.IsShift(opc):
		dcd.Unit = UnitShift
		is8 := dcd.Op1 < registers.AX
		operation := int(opc)<<1 | b2i(is8)
		dcd.Operation = operation
	case opcode.IsALU(opc):
		dcd.Unit = UnitALU
		signed := (flags & 0b100) >> 2
		is8 := dcd.Op1 < registers.AX
		dcd.Operation = int(opc)<<2 | b2i(is8)<<1 | int(signed)
	default:
		dcd.Unit = UnitUC
		dcd.Operation = int(opc)
		// The UC dispatches MOV's register-to-register copy itself during
		// EXECUTE but still honors a memory writeback if one was decoded
		// (see SPEC_FULL.md's resolved MOV-to-memory ambiguity); register
		// writeback, however, is redundant with UC's own assignment, so it
		// is suppressed here to avoid a duplicate UC_LOAD.
		if dcd.Store.Kind == StoreRegister {
			dcd.Store = Store{Kind: StoreNone}
		}
	}

	return dcd, nil
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// advancePastDataWord consumes the word following the current instruction
// (PC+1) into MBR, advancing PC to point at it. Several argument shapes
// carry their immediate/address operand in this follow-on data word.
func advancePastDataWord(regs *registers.RegisterFile, mem *memory.Memory) {
	pc := regs.Get(registers.PC) + 1
	regs.Set(registers.PC, pc)
	regs.Set(registers.MAR, pc)
	w, _ := mem.GetWord(int(pc))
	_ = regs.SetWord(registers.MBR, w)
}

// fetchIndirect reads the word at addr into TMP, preserving PC/MAR around
// the detour the way original_source's decode() does (it repoints PC at
// the operand address to perform the read, then restores it).
func fetchIndirect(regs *registers.RegisterFile, mem *memory.Memory, addr uint16) {
	savedPC := regs.Get(registers.PC)
	v, _ := mem.Get(int(addr))
	regs.Set(registers.TMP, v)
	regs.Set(registers.PC, savedPC)
}
