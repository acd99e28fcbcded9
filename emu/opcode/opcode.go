/*
 * Austro - instruction opcodes for the assembler and decoder
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a
 * copy of this software and associated documentation files (the "Software"),
 * to deal in the Software without restriction, including without limitation
 * the rights to use, copy, modify, merge, publish, distribute, sublicense,
 * and/or sell copies of the Software, and to permit persons to whom the
 * Software is furnished to do so, subject to the following conditions:
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

// Package opcode holds the 5-bit Austro opcode constants and the argument
// shape classification the decoder and assembler both key off of.
package opcode

// Opcode definitions. Signed mnemonics (IADD, ISUB, ...) share their
// unsigned opcode; the assembler distinguishes them by setting the signed
// flag bit. JE is a pure alias of JZ: the only opcode table in original
// Austro sources that disagreed with itself, resolved in favor of treating
// JE/JZ as one opcode everywhere.
const (
	Nop  = 0b00000
	Halt = 0b00001
	Mov  = 0b00010
	Jz   = 0b00011 // JZ, JE
	Jnz  = 0b00110 // JNZ, JNE
	Jn   = 0b00111 // JN, JLT
	Jp   = 0b01000 // JP, JGT
	Jge  = 0b01001
	Jle  = 0b00101 // see Table's doc: resolved distinct from JGE
	Jv   = 0b01010
	Jt   = 0b01011
	Jmp  = 0b01100
	Shr  = 0b01101
	Shl  = 0b01110
	Add  = 0b10000 // ADD, IADD
	Inc  = 0b10001
	Dec  = 0b10010
	Sub  = 0b10011 // SUB, ISUB
	Mul  = 0b10100 // MUL, IMUL
	Or   = 0b10101
	And  = 0b10110
	Not  = 0b10111
	Xor  = 0b11000
	Div  = 0b11001 // DIV, IDIV
	Mod  = 0b11010 // MOD, IMOD
	Cmp  = 0b11011 // CMP, ICMP
)

// UCLoad is the code reserved for the synthetic Control Unit load that
// writes a computed result back into a register during STORE. The CPU
// driver performs that load by calling units.Load directly and does not
// reference this constant. It is never produced by the assembler and has
// no mnemonic.
const UCLoad = 128

// Shape classifies an opcode by the argument pattern the decoder expects.
type Shape int

const (
	ShapeNoArg Shape = iota
	ShapeDstOri
	ShapeOp1Op2
	ShapeOpQnt
	ShapeJump
	ShapeOp
)

// Mnemonic describes one assembler-visible mnemonic: its opcode, the
// argument shape it decodes as, and whether it carries the signed ("I...")
// alias spelling.
type Mnemonic struct {
	Opcode byte
	Shape  Shape
	Signed bool
}

// Table maps every reserved mnemonic (including signed/jump aliases) to its
// opcode and shape.
//
// JGE and JLE take different branch conditions (N=0 versus Z=1 or N=1), so
// unlike JZ/JE they cannot share one opcode the way one source table
// groups them ("JGE/JLE 0b01001"). That grouping is the same kind of
// documentation error as the JE/0b00101 discrepancy: this table keeps JGE
// at 0b01001 and gives JLE the adjacent unused code 0b00101, the gap the
// JE/JZ resolution left behind.
var Table = map[string]Mnemonic{
	"NOP":  {Nop, ShapeNoArg, false},
	"HALT": {Halt, ShapeNoArg, false},
	"MOV":  {Mov, ShapeDstOri, false},
	"JZ":   {Jz, ShapeJump, false},
	"JE":   {Jz, ShapeJump, false},
	"JNZ":  {Jnz, ShapeJump, false},
	"JNE":  {Jnz, ShapeJump, false},
	"JN":   {Jn, ShapeJump, false},
	"JLT":  {Jn, ShapeJump, false},
	"JP":   {Jp, ShapeJump, false},
	"JGT":  {Jp, ShapeJump, false},
	"JGE":  {Jge, ShapeJump, false},
	"JLE":  {Jle, ShapeJump, false},
	"JV":   {Jv, ShapeJump, false},
	"JT":   {Jt, ShapeJump, false},
	"JMP":  {Jmp, ShapeJump, false},
	"SHR":  {Shr, ShapeOpQnt, false},
	"SHL":  {Shl, ShapeOpQnt, false},
	"ADD":  {Add, ShapeDstOri, false},
	"IADD": {Add, ShapeDstOri, true},
	"INC":  {Inc, ShapeOp, false},
	"DEC":  {Dec, ShapeOp, false},
	"SUB":  {Sub, ShapeDstOri, false},
	"ISUB": {Sub, ShapeDstOri, true},
	"MUL":  {Mul, ShapeDstOri, false},
	"IMUL": {Mul, ShapeDstOri, true},
	"OR":   {Or, ShapeDstOri, false},
	"AND":  {And, ShapeDstOri, false},
	"NOT":  {Not, ShapeOp, false},
	"XOR":  {Xor, ShapeDstOri, false},
	"DIV":  {Div, ShapeDstOri, false},
	"IDIV": {Div, ShapeDstOri, true},
	"MOD":  {Mod, ShapeDstOri, false},
	"IMOD": {Mod, ShapeDstOri, true},
	"CMP":  {Cmp, ShapeOp1Op2, false},
	"ICMP": {Cmp, ShapeOp1Op2, true},
}

// shapeByOpcode lets the decoder classify a raw opcode byte without caring
// which mnemonic spelling the assembler used.
var shapeByOpcode = func() map[byte]Shape {
	m := make(map[byte]Shape, len(Table))
	for _, mn := range Table {
		m[mn.Opcode] = mn.Shape
	}
	return m
}()

// ShapeOf reports the argument shape a raw opcode decodes as.
func ShapeOf(op byte) (Shape, bool) {
	s, ok := shapeByOpcode[op]
	return s, ok
}

// IsALU reports whether op is dispatched to the ALU (opcode >= 16).
func IsALU(op byte) bool { return op >= 16 }

// IsShift reports whether op is SHR or SHL.
func IsShift(op byte) bool { return op == Shr || op == Shl }
