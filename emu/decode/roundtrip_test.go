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

package decode

import (
	"fmt"
	"testing"

	"github.com/austrosim/austro/emu/assembler"
	"github.com/austrosim/austro/emu/memory"
	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
)

// refAddr is the memory address used for every "[addr]" operand built in
// this file, outside the one or two words the assembled program itself
// occupies.
const refAddr = 200
const refContent = 0xABCD

// assembleAndDecode assembles src, loads it at address 0, seeds refAddr with
// refContent, and decodes the first instruction word.
func assembleAndDecode(t *testing.T, src string) (*registers.RegisterFile, Decoded) {
	t.Helper()
	res, err := assembler.Assemble(src)
	if err != nil {
		t.Fatalf("Assemble(%q): %v", src, err)
	}
	if len(res.Words) == 0 {
		t.Fatalf("Assemble(%q): produced no words", src)
	}

	regs := registers.New()
	mem := memory.New()
	if err := mem.LoadBlock(res.Words, 0); err != nil {
		t.Fatalf("LoadBlock: %v", err)
	}
	if err := mem.Set(refAddr, refContent); err != nil {
		t.Fatalf("Set(refAddr): %v", err)
	}
	regs.Set(registers.PC, 0)

	dcd, err := Decode(res.Words[0], regs, mem)
	if err != nil {
		t.Fatalf("Decode(%q): %v", src, err)
	}
	return regs, dcd
}

// storeKindIfNotUC returns StoreRegister for an ALU/Shift opcode (decode
// leaves the register writeback in place) and StoreNone for a Control Unit
// opcode (the UC dispatch suppresses the redundant register writeback —
// see Decode's UC default case).
func storeKindIfNotUC(op byte) StoreKind {
	if opcode.IsALU(op) || opcode.IsShift(op) {
		return StoreRegister
	}
	return StoreNone
}

// TestEncodeDecodeRoundTrip asserts, for every mnemonic in opcode.Table and
// every operand-order variant its shape supports, that decoding the word(s)
// assembler.Assemble produced recovers the same operand register indices
// (and memory addresses) the encoder intended. This is the property
// SPEC_FULL.md's data model section promises; previously no such test
// existed and the shift-into-high-nibble encoding for the "[addr], reg"
// DST_ORI order (assembler.go's `r2<<4`) had no direct assertion anywhere.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	for name, meta := range opcode.Table {
		meta := meta
		t.Run(name, func(t *testing.T) {
			switch meta.Shape {
			case opcode.ShapeNoArg:
				roundTripNoArg(t, name)
			case opcode.ShapeJump:
				roundTripJump(t, name)
			case opcode.ShapeOp:
				roundTripOp(t, name, meta)
			case opcode.ShapeDstOri, opcode.ShapeOp1Op2:
				roundTripDstOri(t, name, meta)
			case opcode.ShapeOpQnt:
				roundTripOpQnt(t, name, meta)
			default:
				t.Fatalf("unhandled shape %v for %s", meta.Shape, name)
			}
		})
	}
}

func roundTripNoArg(t *testing.T, name string) {
	_, dcd := assembleAndDecode(t, name)
	if dcd.Unit != UnitUC {
		t.Errorf("%s: expected UnitUC, got %v", name, dcd.Unit)
	}
}

func roundTripJump(t *testing.T, name string) {
	t.Run("register", func(t *testing.T) {
		_, dcd := assembleAndDecode(t, fmt.Sprintf("%s BX", name))
		if dcd.Op1 != registers.BX {
			t.Errorf("%s BX: Op1 = %d, want registers.BX", name, dcd.Op1)
		}
	})
	t.Run("reference", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s [%d]", name, refAddr))
		if dcd.Op1 != registers.TMP {
			t.Errorf("%s [addr]: Op1 = %d, want registers.TMP", name, dcd.Op1)
		}
		if got := regs.Get(registers.TMP); got != refContent {
			t.Errorf("%s [addr]: TMP = %#x, want %#x", name, got, refContent)
		}
	})
	t.Run("immediate", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s 17", name))
		if dcd.Op1 != registers.TMP {
			t.Errorf("%s 17: Op1 = %d, want registers.TMP", name, dcd.Op1)
		}
		if got := regs.Get(registers.TMP); got != 17 {
			t.Errorf("%s 17: TMP = %d, want 17", name, got)
		}
	})
}

func roundTripOp(t *testing.T, name string, meta opcode.Mnemonic) {
	t.Run("register", func(t *testing.T) {
		_, dcd := assembleAndDecode(t, fmt.Sprintf("%s BX", name))
		if dcd.Op1 != registers.BX {
			t.Errorf("%s BX: Op1 = %d, want registers.BX", name, dcd.Op1)
		}
		if dcd.Store.Kind != StoreRegister {
			t.Errorf("%s BX: Store.Kind = %v, want StoreRegister", name, dcd.Store.Kind)
		}
	})
	t.Run("reference", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s [%d]", name, refAddr))
		if dcd.Op1 != registers.TMP {
			t.Errorf("%s [addr]: Op1 = %d, want registers.TMP", name, dcd.Op1)
		}
		if got := regs.Get(registers.TMP); got != refContent {
			t.Errorf("%s [addr]: TMP = %#x, want %#x", name, got, refContent)
		}
		if dcd.Store != (Store{Kind: StoreMemory, Addr: refAddr}) {
			t.Errorf("%s [addr]: Store = %+v, want memory store at %d", name, dcd.Store, refAddr)
		}
	})
	_ = meta
}

func roundTripDstOri(t *testing.T, name string, meta opcode.Mnemonic) {
	wantStore := storeKindIfNotUC(meta.Opcode)

	t.Run("reg,reg", func(t *testing.T) {
		_, dcd := assembleAndDecode(t, fmt.Sprintf("%s AX, BX", name))
		if dcd.Op1 != registers.AX || dcd.Op2 != registers.BX {
			t.Errorf("%s AX,BX: Op1=%d Op2=%d, want AX,BX", name, dcd.Op1, dcd.Op2)
		}
		if dcd.Store.Kind != wantStore {
			t.Errorf("%s AX,BX: Store.Kind = %v, want %v", name, dcd.Store.Kind, wantStore)
		}
	})

	t.Run("reg,[addr]", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s AX, [%d]", name, refAddr))
		if dcd.Op1 != registers.AX {
			t.Errorf("%s AX,[addr]: Op1 = %d, want AX", name, dcd.Op1)
		}
		if dcd.Op2 != registers.TMP {
			t.Errorf("%s AX,[addr]: Op2 = %d, want TMP", name, dcd.Op2)
		}
		if got := regs.Get(registers.TMP); got != refContent {
			t.Errorf("%s AX,[addr]: TMP = %#x, want %#x", name, got, refContent)
		}
		if dcd.Store.Kind != wantStore {
			t.Errorf("%s AX,[addr]: Store.Kind = %v, want %v", name, dcd.Store.Kind, wantStore)
		}
	})

	t.Run("reg,imm", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s AX, 42", name))
		if dcd.Op1 != registers.AX {
			t.Errorf("%s AX,42: Op1 = %d, want AX", name, dcd.Op1)
		}
		if dcd.Op2 != registers.MBR {
			t.Errorf("%s AX,42: Op2 = %d, want MBR", name, dcd.Op2)
		}
		if got := regs.Get(registers.MBR); got != 42 {
			t.Errorf("%s AX,42: MBR = %d, want 42", name, got)
		}
		if dcd.Store.Kind != wantStore {
			t.Errorf("%s AX,42: Store.Kind = %v, want %v", name, dcd.Store.Kind, wantStore)
		}
	})

	// [addr], reg: the order this maintainer review called out specifically
	// — the encoder places the source register in the high nibble
	// (assembler.go's r2<<4) and decode must recover that same index as
	// Op2, with the destination routed through TMP for a memory writeback.
	t.Run("[addr],reg", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s [%d], BX", name, refAddr))
		if dcd.Op1 != registers.TMP {
			t.Errorf("%s [addr],BX: Op1 = %d, want TMP", name, dcd.Op1)
		}
		if dcd.Op2 != registers.BX {
			t.Errorf("%s [addr],BX: Op2 = %d, want BX (source register recovered from the high nibble)", name, dcd.Op2)
		}
		if got := regs.Get(registers.TMP); got != refContent {
			t.Errorf("%s [addr],BX: TMP = %#x, want %#x", name, got, refContent)
		}
		if dcd.Store != (Store{Kind: StoreMemory, Addr: refAddr}) {
			t.Errorf("%s [addr],BX: Store = %+v, want memory store at %d", name, dcd.Store, refAddr)
		}
	})
}

func roundTripOpQnt(t *testing.T, name string, meta opcode.Mnemonic) {
	_ = meta
	t.Run("reg,imm", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s BX, 3", name))
		if dcd.Op1 != registers.BX {
			t.Errorf("%s BX,3: Op1 = %d, want BX", name, dcd.Op1)
		}
		if dcd.Op2 != registers.MBR {
			t.Errorf("%s BX,3: Op2 = %d, want MBR", name, dcd.Op2)
		}
		if got := regs.Get(registers.MBR); got != 3 {
			t.Errorf("%s BX,3: MBR = %d, want 3", name, got)
		}
		if dcd.Store.Kind != StoreRegister {
			t.Errorf("%s BX,3: Store.Kind = %v, want StoreRegister", name, dcd.Store.Kind)
		}
	})

	t.Run("[addr],imm", func(t *testing.T) {
		regs, dcd := assembleAndDecode(t, fmt.Sprintf("%s [%d], 3", name, refAddr))
		if dcd.Op1 != registers.TMP {
			t.Errorf("%s [addr],3: Op1 = %d, want TMP", name, dcd.Op1)
		}
		if dcd.Op2 != registers.MBR {
			t.Errorf("%s [addr],3: Op2 = %d, want MBR", name, dcd.Op2)
		}
		if got := regs.Get(registers.TMP); got != refContent {
			t.Errorf("%s [addr],3: TMP = %#x, want %#x", name, got, refContent)
		}
		if dcd.Store != (Store{Kind: StoreMemory, Addr: refAddr}) {
			t.Errorf("%s [addr],3: Store = %+v, want memory store at %d", name, dcd.Store, refAddr)
		}
	})
}
