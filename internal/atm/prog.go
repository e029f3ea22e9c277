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

package atm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Program []Instr

// OperandCount returns the smallest operand universe covering every register
// referenced by the program, and never less than NumSpecial.
func (self Program) OperandCount() int {
	ret := NumSpecial
	for i := range self {
		du, us := self.DefsAndUses(i)
		for _, r := range du {
			if r >= ret {
				ret = r + 1
			}
		}
		for _, r := range us {
			if r >= ret {
				ret = r + 1
			}
		}
	}
	return ret
}

// Labels names every branch target as "L_<n>", numbered by offset.
func (self Program) Labels() map[int]string {
	var pcs []int
	ret := make(map[int]string)

	/* collect all targets */
	for i := range self {
		for _, pc := range self[i].Targets() {
			if _, ok := ret[pc]; !ok {
				ret[pc] = ""
				pcs = append(pcs, pc)
			}
		}
	}

	/* number them by offset */
	sort.Ints(pcs)
	for i, pc := range pcs {
		ret[pc] = "L_" + strconv.Itoa(i)
	}
	return ret
}

// Disassemble formats the instruction at pc.
func (self Program) Disassemble(pc int) string {
	return self.DisassembleWith(pc, self.Labels())
}

// DisassembleWith formats the instruction at pc, naming branch targets with
// refs, which is usually the result of a previous call to Labels.
func (self Program) DisassembleWith(pc int, refs map[int]string) string {
	return self[pc].disassemble(refs)
}

func (self Program) String() string {
	refs := self.Labels()
	buf := make([]string, 0, len(self))

	/* format every instruction, along with it's label */
	for i := range self {
		if lb, ok := refs[i]; ok {
			buf = append(buf, lb+":")
		}
		buf = append(buf, fmt.Sprintf("%4d    %s", i, self[i].disassemble(refs)))
	}
	return strings.Join(buf, "\n")
}

type _Patch struct {
	pc   int
	slot int
}

// ProgramBuilder assembles a Program, resolving labels for both forward and
// backward jumps.
type ProgramBuilder struct {
	i     int
	buf   Program
	refs  map[string]int
	pends map[string][]_Patch
}

func CreateProgramBuilder() *ProgramBuilder {
	return newProgramBuilder()
}

func (self *ProgramBuilder) add(ins *Instr) *Instr {
	self.buf = append(self.buf, *ins)
	return &self.buf[len(self.buf)-1]
}

func (self *ProgramBuilder) label(to string) string {
	if strings.Contains(to, "{n}") {
		return strings.ReplaceAll(to, "{n}", strconv.Itoa(self.i))
	} else {
		return to
	}
}

func (self *ProgramBuilder) link(to string, pc int, slot int) int {
	to = self.label(to)

	/* check for backward jumps */
	if lb, ok := self.refs[to]; ok {
		return lb
	}

	/* resolve it later */
	self.pends[to] = append(self.pends[to], _Patch{pc: pc, slot: slot})
	return -1
}

func (self *ProgramBuilder) jmp(ins *Instr, to string) {
	pc := len(self.buf)
	ins.Br = self.link(to, pc, -1)
	self.add(ins)
}

// Mark advances the counter substituted for "{n}" in label names.
func (self *ProgramBuilder) Mark() {
	self.i++
}

// Label binds a label to the next instruction.
func (self *ProgramBuilder) Label(to string) {
	to = self.label(to)
	pc := len(self.buf)

	/* check for duplications */
	if _, ok := self.refs[to]; ok {
		panic("label " + to + " has already been linked")
	}

	/* patch all the pending jumps */
	for _, p := range self.pends[to] {
		if p.slot < 0 {
			self.buf[p.pc].Br = pc
		} else {
			self.buf[p.pc].Sw[p.slot] = pc
		}
	}

	/* mark the label as resolved */
	self.refs[to] = pc
	delete(self.pends, to)
}

// Build finalizes the program. The builder must not be used afterwards.
func (self *ProgramBuilder) Build() Program {
	for key := range self.pends {
		panic("labels are not fully resolved: " + key)
	}

	/* every target must point at an instruction */
	for _, pc := range self.refs {
		if pc >= len(self.buf) {
			panic("labels pointing past the end of program")
		}
	}

	/* the ProgramBuilder's life-time ends here */
	ret := self.buf
	freeProgramBuilder(self)
	return ret
}

func (self *ProgramBuilder) NOP() {
	self.add(&Instr{Op: OP_nop})
}

func (self *ProgramBuilder) IQ(v int64, rx Register) {
	self.add(new(Instr).iv(v).rx(rx)).Op = OP_iq
}

func (self *ProgramBuilder) MOV(rx Register, ry Register) {
	self.add(new(Instr).rx(rx).ry(ry)).Op = OP_mov
}

func (self *ProgramBuilder) ADD(rx Register, ry Register, rz Register) {
	self.add(new(Instr).rx(rx).ry(ry).rz(rz)).Op = OP_add
}

func (self *ProgramBuilder) SUB(rx Register, ry Register, rz Register) {
	self.add(new(Instr).rx(rx).ry(ry).rz(rz)).Op = OP_sub
}

func (self *ProgramBuilder) MUL(rx Register, ry Register, rz Register) {
	self.add(new(Instr).rx(rx).ry(ry).rz(rz)).Op = OP_mul
}

func (self *ProgramBuilder) ADDI(rx Register, v int64, ry Register) {
	self.add(new(Instr).rx(rx).iv(v).ry(ry)).Op = OP_addi
}

func (self *ProgramBuilder) LDARG(i int64, rx Register) {
	self.add(new(Instr).iv(i).rx(rx)).Op = OP_ldarg
}

func (self *ProgramBuilder) BEQ(rx Register, ry Register, to string) {
	self.jmp(&Instr{Op: OP_beq, Rx: rx, Ry: ry}, to)
}

func (self *ProgramBuilder) BNE(rx Register, ry Register, to string) {
	self.jmp(&Instr{Op: OP_bne, Rx: rx, Ry: ry}, to)
}

func (self *ProgramBuilder) BLT(rx Register, ry Register, to string) {
	self.jmp(&Instr{Op: OP_blt, Rx: rx, Ry: ry}, to)
}

func (self *ProgramBuilder) JMP(to string) {
	self.jmp(&Instr{Op: OP_jmp}, to)
}

func (self *ProgramBuilder) BSW(rx Register, sw []string) {
	pc := len(self.buf)
	tab := make([]int, len(sw))

	/* link every case */
	for i, to := range sw {
		tab[i] = self.link(to, pc, i)
	}

	/* add to instruction buffer */
	self.add(&Instr{Op: OP_bsw, Rx: rx, Sw: tab})
}

func (self *ProgramBuilder) CALL(fn string, args []Register, rets []Register) {
	self.add(&Instr{Op: OP_call, Fn: fn, Ar: args, Rr: rets})
}

func (self *ProgramBuilder) RET(rx Register) {
	self.add(&Instr{Op: OP_ret, Rx: rx})
}

func (self *ProgramBuilder) HALT() {
	self.add(&Instr{Op: OP_halt})
}
