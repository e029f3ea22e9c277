/*
 * Copyright 2026 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package atm implements a small register bytecode used to drive the liveness
// analysis end to end: a program builder, a basic-block extractor and a def/use
// decoder.
package atm

import (
	"fmt"
	"strings"
)

type OpCode byte

const (
	OP_nop   OpCode = iota // no operation
	OP_iq                  // i64(Iv) -> Rx
	OP_mov                 // Rx -> Ry
	OP_add                 // Rx + Ry -> Rz
	OP_sub                 // Rx - Ry -> Rz
	OP_mul                 // Rx * Ry -> Rz
	OP_addi                // Rx + Iv -> Ry
	OP_ldarg               // arg[Iv] -> Rx
	OP_beq                 // if (Rx == Ry) Br -> PC
	OP_bne                 // if (Rx != Ry) Br -> PC
	OP_blt                 // if (Rx <  Ry) Br -> PC
	OP_jmp                 // Br -> PC
	OP_bsw                 // if (u(Rx) < len(Sw)) Sw[u(Rx)] -> PC
	OP_call                // Fn(Ar...) -> Rr...
	OP_ret                 // return Rx
	OP_halt                // halt the program
)

var opNames = [...]string{
	OP_nop:   "nop",
	OP_iq:    "iq",
	OP_mov:   "mov",
	OP_add:   "add",
	OP_sub:   "sub",
	OP_mul:   "mul",
	OP_addi:  "addi",
	OP_ldarg: "ldarg",
	OP_beq:   "beq",
	OP_bne:   "bne",
	OP_blt:   "blt",
	OP_jmp:   "jmp",
	OP_bsw:   "bsw",
	OP_call:  "call",
	OP_ret:   "ret",
	OP_halt:  "halt",
}

func (self OpCode) String() string {
	if int(self) < len(opNames) {
		return opNames[self]
	} else {
		return fmt.Sprintf("OpCode(0x%02x)", uint8(self))
	}
}

// ParseOpCode converts a mnemonic back to its OpCode.
func ParseOpCode(name string) (OpCode, bool) {
	for i, v := range opNames {
		if v == name {
			return OpCode(i), true
		}
	}
	return 0, false
}

// Register is a virtual register, which is also the operand index seen by the
// liveness analysis.
type Register uint16

const (
	RThis  Register = 0 // receiver of the current function
	RScope Register = 1 // closure scope of the current function
)

// NumSpecial is the number of special registers that precede the general ones.
const NumSpecial = 2

func (self Register) String() string {
	switch self {
	case RThis:
		return "this"
	case RScope:
		return "scope"
	default:
		return fmt.Sprintf("r%d", self)
	}
}

// AlwaysLive returns the special registers that stay live everywhere, since
// they may be captured implicitly.
func AlwaysLive() []int {
	return []int{int(RThis), int(RScope)}
}

type Instr struct {
	Op OpCode
	Rx Register
	Ry Register
	Rz Register
	Iv int64
	Br int
	Sw []int
	Ar []Register
	Rr []Register
	Fn string
}

func (self *Instr) rx(v Register) *Instr { self.Rx = v; return self }
func (self *Instr) ry(v Register) *Instr { self.Ry = v; return self }
func (self *Instr) rz(v Register) *Instr { self.Rz = v; return self }
func (self *Instr) iv(v int64) *Instr    { self.Iv = v; return self }

// IsBranch reports whether the instruction may transfer control to an
// explicit target.
func (self *Instr) IsBranch() bool {
	return self.Op >= OP_beq && self.Op <= OP_bsw
}

// IsTerminator reports whether the instruction ends a basic block.
func (self *Instr) IsTerminator() bool {
	return self.IsBranch() || self.Op == OP_ret || self.Op == OP_halt
}

// FallsThrough reports whether control may continue with the next
// instruction.
func (self *Instr) FallsThrough() bool {
	switch self.Op {
	case OP_jmp, OP_ret, OP_halt:
		return false
	default:
		return true
	}
}

// Targets returns the explicit branch targets of the instruction.
func (self *Instr) Targets() []int {
	switch self.Op {
	case OP_beq, OP_bne, OP_blt, OP_jmp:
		return []int{self.Br}
	case OP_bsw:
		return self.Sw
	default:
		return nil
	}
}

func formatRegs(rs []Register) string {
	ret := make([]string, len(rs))
	for i, r := range rs {
		ret[i] = "%" + r.String()
	}
	return strings.Join(ret, ", ")
}

func formatTable(sw []int, refs map[int]string) string {
	ret := make([]string, len(sw))
	for i, pc := range sw {
		ret[i] = refs[pc]
	}
	return strings.Join(ret, ", ")
}

func (self *Instr) disassemble(refs map[int]string) string {
	switch self.Op {
	case OP_nop:
		return "nop"
	case OP_iq:
		return fmt.Sprintf("iq      $%d, %%%s", self.Iv, self.Rx)
	case OP_mov:
		return fmt.Sprintf("mov     %%%s, %%%s", self.Rx, self.Ry)
	case OP_add:
		return fmt.Sprintf("add     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
	case OP_sub:
		return fmt.Sprintf("sub     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
	case OP_mul:
		return fmt.Sprintf("mul     %%%s, %%%s, %%%s", self.Rx, self.Ry, self.Rz)
	case OP_addi:
		return fmt.Sprintf("add     %%%s, $%d, %%%s", self.Rx, self.Iv, self.Ry)
	case OP_ldarg:
		return fmt.Sprintf("ldarg   $%d, %%%s", self.Iv, self.Rx)
	case OP_beq:
		return fmt.Sprintf("beq     %%%s, %%%s, %s", self.Rx, self.Ry, refs[self.Br])
	case OP_bne:
		return fmt.Sprintf("bne     %%%s, %%%s, %s", self.Rx, self.Ry, refs[self.Br])
	case OP_blt:
		return fmt.Sprintf("blt     %%%s, %%%s, %s", self.Rx, self.Ry, refs[self.Br])
	case OP_jmp:
		return fmt.Sprintf("jmp     %s", refs[self.Br])
	case OP_bsw:
		return fmt.Sprintf("bsw     %%%s, {%s}", self.Rx, formatTable(self.Sw, refs))
	case OP_call:
		return fmt.Sprintf("call    %s, {%s}, {%s}", self.Fn, formatRegs(self.Ar), formatRegs(self.Rr))
	case OP_ret:
		return fmt.Sprintf("ret     %%%s", self.Rx)
	case OP_halt:
		return "halt"
	default:
		panic(fmt.Sprintf("invalid OpCode: 0x%02x", uint8(self.Op)))
	}
}
