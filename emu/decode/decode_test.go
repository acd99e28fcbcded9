package decode

import (
	"testing"

	"github.com/austrosim/austro/emu/memory"
	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
	"github.com/austrosim/austro/emu/word"
)

func TestDecodeRegRegDstOri(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	// ADD ax, bx: operand = (AX<<4)|BX, flags=0 (reg,reg).
	ri := word.NewInstruction(opcode.Add, 0, byte(registers.AX<<4|registers.BX), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Unit != UnitALU {
		t.Errorf("expected ALU unit, got %v", dcd.Unit)
	}
	if dcd.Op1 != registers.AX || dcd.Op2 != registers.BX {
		t.Errorf("unexpected operands: op1=%d op2=%d", dcd.Op1, dcd.Op2)
	}
	if dcd.Store.Kind != StoreRegister {
		t.Errorf("expected register store, got %v", dcd.Store.Kind)
	}
}

func TestDecodeRegImmConsumesDataWord(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	_ = mem.SetWord(1, word.NewData(0x1234))
	regs.Set(registers.PC, 0)
	ri := word.NewInstruction(opcode.Add, 0b010, byte(registers.AX<<4), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if regs.Get(registers.PC) != 1 {
		t.Errorf("expected PC advanced to 1, got %d", regs.Get(registers.PC))
	}
	if regs.Get(dcd.Op2) != 0x1234 {
		t.Errorf("expected immediate operand 0x1234, got %#x", regs.Get(dcd.Op2))
	}
}

func TestDecodeMemToRegStoresAddress(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	_ = mem.SetWord(1, word.NewData(200))  // the address operand word
	_ = mem.SetWord(200, word.NewData(77)) // existing memory content at addr 200
	regs.Set(registers.PC, 0)
	// ADD [addr], ax -> order 3, operand = AX<<4 (source register).
	ri := word.NewInstruction(opcode.Add, 0b011, byte(registers.AX<<4), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Store.Kind != StoreMemory || dcd.Store.Addr != 200 {
		t.Errorf("expected memory store at 200, got %+v", dcd.Store)
	}
	if dcd.Op2 != registers.AX {
		t.Errorf("expected op2=AX, got %d", dcd.Op2)
	}
	if regs.Get(dcd.Op1) != 77 {
		t.Errorf("expected op1 to carry existing memory content 77, got %d", regs.Get(dcd.Op1))
	}
}

func TestDecodeJumpImmediatePlacedDirectlyInTMP(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	ri := word.NewInstruction(opcode.Jmp, 2, 42, 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Unit != UnitUC {
		t.Errorf("expected UC unit for JMP, got %v", dcd.Unit)
	}
	if regs.Get(registers.TMP) != 42 {
		t.Errorf("expected TMP=42, got %d", regs.Get(registers.TMP))
	}
}

func TestDecodeShiftUnitSelection(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	_ = mem.SetWord(1, word.NewData(3))
	regs.Set(registers.PC, 0)
	ri := word.NewInstruction(opcode.Shr, 0, byte(registers.AL<<4), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Unit != UnitShift {
		t.Errorf("expected Shift unit, got %v", dcd.Unit)
	}
}

func TestDecodeMovRegisterStoreSuppressedUnderUC(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	ri := word.NewInstruction(opcode.Mov, 0, byte(registers.AX<<4|registers.BX), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Unit != UnitUC {
		t.Errorf("expected UC unit for MOV, got %v", dcd.Unit)
	}
	if dcd.Store.Kind != StoreNone {
		t.Errorf("expected register store suppressed under UC, got %v", dcd.Store.Kind)
	}
}

func TestDecodeMovToMemoryKeepsMemoryStore(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	_ = mem.SetWord(1, word.NewData(128))
	regs.Set(registers.PC, 0)
	// MOV [addr], ax -> order 3.
	ri := word.NewInstruction(opcode.Mov, 0b011, byte(registers.AX<<4), 1)

	dcd, err := Decode(ri, regs, mem)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dcd.Store.Kind != StoreMemory || dcd.Store.Addr != 128 {
		t.Errorf("expected MOV-to-memory store preserved, got %+v", dcd.Store)
	}
}

func TestDecodeNonInstructionWordFails(t *testing.T) {
	regs := registers.New()
	mem := memory.New()
	_, err := Decode(word.NewData(0), regs, mem)
	if err != word.ErrNotInstruction {
		t.Errorf("expected ErrNotInstruction, got %v", err)
	}
}
