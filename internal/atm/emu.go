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
	"sync"

	"github.com/pkg/errors"
)

// CallProxy implements a function invoked by the "call" instruction.
type CallProxy func(args []int64) []int64

var (
	callLock sync.RWMutex
	callTab  = map[string]CallProxy{}
)

// RegisterCall makes fn callable by name from emulated programs.
func RegisterCall(name string, fn CallProxy) {
	callLock.Lock()
	callTab[name] = fn
	callLock.Unlock()
}

func lookupCall(name string) CallProxy {
	callLock.RLock()
	defer callLock.RUnlock()
	return callTab[name]
}

// Emulator interprets a Program. It is meant for testing, every register read
// can be observed through OnRead.
type Emulator struct {
	PC     int
	Gr     []int64
	Ar     []int64
	Rv     int64
	Ln     bool
	Steps  int
	OnRead func(pc int, r Register)
	prog   Program
}

// LoadProgram creates an emulator for p with nr registers, all zeroed.
func LoadProgram(p Program, nr int) *Emulator {
	return &Emulator{
		Gr:   make([]int64, nr),
		prog: p,
	}
}

var dispatchTab = [...]func(e *Emulator, p *Instr){
	OP_nop:   (*Emulator).emu_OP_nop,
	OP_iq:    (*Emulator).emu_OP_iq,
	OP_mov:   (*Emulator).emu_OP_mov,
	OP_add:   (*Emulator).emu_OP_add,
	OP_sub:   (*Emulator).emu_OP_sub,
	OP_mul:   (*Emulator).emu_OP_mul,
	OP_addi:  (*Emulator).emu_OP_addi,
	OP_ldarg: (*Emulator).emu_OP_ldarg,
	OP_beq:   (*Emulator).emu_OP_beq,
	OP_bne:   (*Emulator).emu_OP_bne,
	OP_blt:   (*Emulator).emu_OP_blt,
	OP_jmp:   (*Emulator).emu_OP_jmp,
	OP_bsw:   (*Emulator).emu_OP_bsw,
	OP_call:  (*Emulator).emu_OP_call,
	OP_ret:   (*Emulator).emu_OP_ret,
	OP_halt:  (*Emulator).emu_OP_halt,
}

func (self *Emulator) get(r Register) int64 {
	if self.OnRead != nil {
		self.OnRead(self.PC, r)
	}
	return self.Gr[r]
}

func (self *Emulator) jump(to int) {
	self.PC = to
	self.Ln = false
}

func (self *Emulator) emu_OP_nop(_ *Instr) {
	/* no operation */
}

func (self *Emulator) emu_OP_iq(p *Instr) {
	self.Gr[p.Rx] = p.Iv
}

func (self *Emulator) emu_OP_mov(p *Instr) {
	self.Gr[p.Ry] = self.get(p.Rx)
}

func (self *Emulator) emu_OP_add(p *Instr) {
	self.Gr[p.Rz] = self.get(p.Rx) + self.get(p.Ry)
}

func (self *Emulator) emu_OP_sub(p *Instr) {
	self.Gr[p.Rz] = self.get(p.Rx) - self.get(p.Ry)
}

func (self *Emulator) emu_OP_mul(p *Instr) {
	self.Gr[p.Rz] = self.get(p.Rx) * self.get(p.Ry)
}

func (self *Emulator) emu_OP_addi(p *Instr) {
	self.Gr[p.Ry] = self.get(p.Rx) + p.Iv
}

func (self *Emulator) emu_OP_ldarg(p *Instr) {
	if p.Iv < 0 || p.Iv >= int64(len(self.Ar)) {
		panic(fmt.Sprintf("ldarg: argument %d does not exist", p.Iv))
	} else {
		self.Gr[p.Rx] = self.Ar[p.Iv]
	}
}

func (self *Emulator) emu_OP_beq(p *Instr) {
	if self.get(p.Rx) == self.get(p.Ry) {
		self.jump(p.Br)
	}
}

func (self *Emulator) emu_OP_bne(p *Instr) {
	if self.get(p.Rx) != self.get(p.Ry) {
		self.jump(p.Br)
	}
}

func (self *Emulator) emu_OP_blt(p *Instr) {
	if self.get(p.Rx) < self.get(p.Ry) {
		self.jump(p.Br)
	}
}

func (self *Emulator) emu_OP_jmp(p *Instr) {
	self.jump(p.Br)
}

func (self *Emulator) emu_OP_bsw(p *Instr) {
	if v := uint64(self.get(p.Rx)); v < uint64(len(p.Sw)) {
		self.jump(p.Sw[v])
	}
}

func (self *Emulator) emu_OP_call(p *Instr) {
	fn := lookupCall(p.Fn)
	av := make([]int64, len(p.Ar))

	/* must be registered */
	if fn == nil {
		panic("call: function not registered: " + p.Fn)
	}

	/* load all the arguments */
	for i, r := range p.Ar {
		av[i] = self.get(r)
	}

	/* invoke the function, and store the results */
	rv := fn(av)
	if len(rv) != len(p.Rr) {
		panic(fmt.Sprintf("call: %s returned %d values, expected %d", p.Fn, len(rv), len(p.Rr)))
	}
	for i, r := range p.Rr {
		self.Gr[r] = rv[i]
	}
}

func (self *Emulator) emu_OP_ret(p *Instr) {
	self.Rv = self.get(p.Rx)
	self.jump(-1)
}

func (self *Emulator) emu_OP_halt(_ *Instr) {
	self.jump(-1)
}

// Run executes the program from the entry until it returns, halts, or falls
// off the end. It gives up after maxSteps instructions when maxSteps > 0.
func (self *Emulator) Run(maxSteps int) error {
	var ip *Instr
	var fn func(e *Emulator, p *Instr)

	/* run until end */
	for self.PC >= 0 && self.PC < len(self.prog) {
		if maxSteps > 0 && self.Steps >= maxSteps {
			return errors.Errorf("emulator: step limit %d exceeded at %d", maxSteps, self.PC)
		}

		/* fetch and decode */
		ip = &self.prog[self.PC]
		if int(ip.Op) >= len(dispatchTab) || dispatchTab[ip.Op] == nil {
			panic(fmt.Sprintf("illegal OpCode: %#02x", uint8(ip.Op)))
		} else {
			fn = dispatchTab[ip.Op]
		}

		/* execute and advance the PC if needed */
		self.Ln = true
		self.Steps++
		if fn(self, ip); self.Ln {
			self.PC++
		}
	}
	return nil
}
