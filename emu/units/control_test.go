package units

import (
	"testing"

	"github.com/austrosim/austro/emu/opcode"
	"github.com/austrosim/austro/emu/registers"
)

func TestControlHalt(t *testing.T) {
	regs := registers.New()
	out := Control(opcode.Halt, 0, 0, regs)
	if !out.Halted {
		t.Errorf("expected Halted")
	}
}

func TestControlMovCopiesRegister(t *testing.T) {
	regs := registers.New()
	regs.Set(registers.BX, 0x42)
	out := Control(opcode.Mov, registers.AX, registers.BX, regs)
	if out.Halted || out.Jumped {
		t.Errorf("expected plain fallthrough, got %+v", out)
	}
	if regs.Get(registers.AX) != 0x42 {
		t.Errorf("expected AX=0x42, got %#x", regs.Get(registers.AX))
	}
}

func TestControlJumpTakenWhenZeroFlagSet(t *testing.T) {
	regs := registers.New()
	regs.SetFlag(registers.Z, true)
	regs.Set(registers.TMP, 17)
	out := Control(opcode.Jz, registers.TMP, 0, regs)
	if !out.Jumped {
		t.Errorf("expected jump taken")
	}
	if regs.Get(registers.PC) != 17 {
		t.Errorf("expected PC=17, got %d", regs.Get(registers.PC))
	}
}

func TestControlJumpNotTakenWhenConditionFails(t *testing.T) {
	regs := registers.New()
	regs.SetFlag(registers.Z, false)
	regs.Set(registers.PC, 5)
	regs.Set(registers.TMP, 17)
	out := Control(opcode.Jz, registers.TMP, 0, regs)
	if out.Jumped {
		t.Errorf("expected jump not taken")
	}
	if regs.Get(registers.PC) != 5 {
		t.Errorf("expected PC unchanged at 5, got %d", regs.Get(registers.PC))
	}
}

func TestControlJgeJleDistinctConditions(t *testing.T) {
	regs := registers.New()
	regs.SetFlag(registers.N, false)
	regs.SetFlag(registers.Z, false)
	regs.Set(registers.TMP, 9)

	out := Control(opcode.Jge, registers.TMP, 0, regs)
	if !out.Jumped {
		t.Errorf("expected JGE to take branch when N=0")
	}

	regs.Set(registers.PC, 0)
	out = Control(opcode.Jle, registers.TMP, 0, regs)
	if out.Jumped {
		t.Errorf("expected JLE not to take branch when Z=0 and N=0")
	}
}

func TestLoadWritesDestination(t *testing.T) {
	regs := registers.New()
	Load(regs, registers.CX, 99)
	if regs.Get(registers.CX) != 99 {
		t.Errorf("expected CX=99, got %d", regs.Get(registers.CX))
	}
}
