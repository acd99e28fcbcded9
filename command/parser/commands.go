/*
 * Austro - Command executer.
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

package parser

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/austrosim/austro/command/session"
	"github.com/austrosim/austro/emu/registers"
)

func step(_ *cmdLine, sess *session.Session) (bool, error) {
	ok, err := sess.CPU.Step()
	if err != nil {
		return false, err
	}
	printRegs(sess)
	if !ok {
		fmt.Println(sess.CPU.CurrentStage())
	}
	return false, nil
}

func run(_ *cmdLine, sess *session.Session) (bool, error) {
	halted, err := sess.CPU.Start()
	if err != nil {
		return false, err
	}
	printRegs(sess)
	if !halted {
		fmt.Println(sess.CPU.CurrentStage())
	}
	return false, nil
}

func reset(_ *cmdLine, sess *session.Session) (bool, error) {
	sess.CPU.Reset()
	return false, nil
}

func show(line *cmdLine, sess *session.Session) (bool, error) {
	switch line.getWord() {
	case "", "regs", "registers":
		printRegs(sess)
	case "mem", "memory":
		addrWord := line.getWord()
		addr, err := strconv.Atoi(addrWord)
		if err != nil {
			return false, fmt.Errorf("show memory: bad address %q", addrWord)
		}
		v, err := sess.CPU.Memory().Get(addr)
		if err != nil {
			return false, err
		}
		fmt.Printf("mem[%d] = %d (0x%04x)\n", addr, v, v)
	default:
		return false, errors.New("show: expected regs or mem")
	}
	return false, nil
}

func load(line *cmdLine, sess *session.Session) (bool, error) {
	path := line.getRest()
	if path == "" {
		return false, errors.New("load: missing file path")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return false, sess.LoadSource(string(data))
}

func traceCmd(line *cmdLine, sess *session.Session) (bool, error) {
	switch line.getWord() {
	case "on":
		sess.Trace.SetEnabled(true)
	case "off":
		sess.Trace.SetEnabled(false)
	default:
		return false, errors.New("trace: expected on or off")
	}
	return false, nil
}

func quit(_ *cmdLine, _ *session.Session) (bool, error) {
	return true, nil
}

func printRegs(sess *session.Session) {
	r := sess.CPU.Registers()
	fmt.Printf("PC=%02x AX=%04x BX=%04x CX=%04x DX=%04x SP=%04x BP=%04x SI=%04x DI=%04x N=%v Z=%v V=%v T=%v\n",
		r.Get(registers.PC), r.Get(registers.AX), r.Get(registers.BX), r.Get(registers.CX), r.Get(registers.DX),
		r.Get(registers.SP), r.Get(registers.BP), r.Get(registers.SI), r.Get(registers.DI),
		r.Flag(registers.N), r.Flag(registers.Z), r.Flag(registers.V), r.Flag(registers.T))
}
