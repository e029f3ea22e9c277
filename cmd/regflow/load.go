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

package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/cloudwego/regflow/internal/atm"
)

// programFile is the on-disk form of a reference bytecode program, either in
// YAML or, for files ending with ".toml", in TOML.
//
//	operands: 6            # optional, inferred from the code when omitted
//	always_live: [0, 1]    # optional, the special registers when omitted
//	code:
//	  - { op: ldarg, iv: 0, rx: 2 }
//	  - { label: loop, op: beq, rx: 2, ry: 5, to: done }
type programFile struct {
	Operands   int        `yaml:"operands,omitempty" toml:"operands"`
	AlwaysLive []int      `yaml:"always_live" toml:"always_live"`
	Code       []codeLine `yaml:"code" toml:"code"`
}

type codeLine struct {
	Label string   `yaml:"label,omitempty" toml:"label"`
	Op    string   `yaml:"op" toml:"op"`
	Rx    uint16   `yaml:"rx,omitempty" toml:"rx"`
	Ry    uint16   `yaml:"ry,omitempty" toml:"ry"`
	Rz    uint16   `yaml:"rz,omitempty" toml:"rz"`
	Iv    int64    `yaml:"iv,omitempty" toml:"iv"`
	To    string   `yaml:"to,omitempty" toml:"to"`
	Table []string `yaml:"table,omitempty" toml:"table"`
	Args  []uint16 `yaml:"args,omitempty" toml:"args"`
	Rets  []uint16 `yaml:"rets,omitempty" toml:"rets"`
	Fn    string   `yaml:"fn,omitempty" toml:"fn"`
}

type program struct {
	code       atm.Program
	operands   int
	alwaysLive []int
}

func loadProgram(path string) (*program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read program")
	}

	/* pick the decoder by extension */
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return parseTOML(data)
	} else {
		return parseProgram(data)
	}
}

func parseProgram(data []byte) (*program, error) {
	var pf programFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	/* decode the file, rejecting unknown fields */
	if err := dec.Decode(&pf); err != nil {
		return nil, errors.Wrap(err, "failed to parse program")
	} else {
		return pf.build()
	}
}

func parseTOML(data []byte) (*program, error) {
	var pf programFile
	md, err := toml.Decode(string(data), &pf)

	/* decode the file, rejecting unknown fields */
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse program")
	} else if keys := md.Undecoded(); len(keys) != 0 {
		return nil, errors.Errorf("failed to parse program: unknown field %q", keys[0].String())
	} else {
		return pf.build()
	}
}

func (self *programFile) build() (*program, error) {
	if self.Operands < 0 {
		return nil, errors.Errorf("invalid program: negative operand count %d", self.Operands)
	}

	/* always-live operands are indices */
	for _, r := range self.AlwaysLive {
		if r < 0 {
			return nil, errors.Errorf("invalid program: negative always-live operand %d", r)
		}
	}

	/* assemble the code */
	code, err := assemble(self.Code)
	if err != nil {
		return nil, err
	}

	/* fill in the defaults */
	ret := &program{code: code, operands: self.Operands, alwaysLive: self.AlwaysLive}
	if ret.operands == 0 {
		ret.operands = code.OperandCount()
	}
	if ret.alwaysLive == nil {
		ret.alwaysLive = atm.AlwaysLive()
	}
	return ret, nil
}

func regs(v []uint16) []atm.Register {
	ret := make([]atm.Register, len(v))
	for i, r := range v {
		ret[i] = atm.Register(r)
	}
	return ret
}

func assemble(lines []codeLine) (ret atm.Program, err error) {
	p := atm.CreateProgramBuilder()

	/* the builder reports label misuse by panicking */
	defer func() {
		if v := recover(); v != nil {
			ret, err = nil, fmt.Errorf("invalid program: %v", v)
		}
	}()

	/* emit every line */
	for i, ln := range lines {
		if ln.Label != "" {
			p.Label(ln.Label)
		}
		if err = emit(p, &ln); err != nil {
			return nil, errors.Wrapf(err, "line %d", i)
		}
	}

	/* resolve all the labels */
	return p.Build(), nil
}

func emit(p *atm.ProgramBuilder, ln *codeLine) error {
	op, ok := atm.ParseOpCode(ln.Op)
	if !ok {
		return fmt.Errorf("unknown instruction %q", ln.Op)
	}

	/* registers */
	rx := atm.Register(ln.Rx)
	ry := atm.Register(ln.Ry)
	rz := atm.Register(ln.Rz)

	/* branches need a target */
	switch op {
	case atm.OP_beq, atm.OP_bne, atm.OP_blt, atm.OP_jmp:
		if ln.To == "" {
			return fmt.Errorf("%s requires a target", op)
		}
	}

	/* emit the instruction */
	switch op {
	case atm.OP_nop:
		p.NOP()
	case atm.OP_iq:
		p.IQ(ln.Iv, rx)
	case atm.OP_mov:
		p.MOV(rx, ry)
	case atm.OP_add:
		p.ADD(rx, ry, rz)
	case atm.OP_sub:
		p.SUB(rx, ry, rz)
	case atm.OP_mul:
		p.MUL(rx, ry, rz)
	case atm.OP_addi:
		p.ADDI(rx, ln.Iv, ry)
	case atm.OP_ldarg:
		p.LDARG(ln.Iv, rx)
	case atm.OP_beq:
		p.BEQ(rx, ry, ln.To)
	case atm.OP_bne:
		p.BNE(rx, ry, ln.To)
	case atm.OP_blt:
		p.BLT(rx, ry, ln.To)
	case atm.OP_jmp:
		p.JMP(ln.To)
	case atm.OP_bsw:
		p.BSW(rx, ln.Table)
	case atm.OP_call:
		p.CALL(ln.Fn, regs(ln.Args), regs(ln.Rets))
	case atm.OP_ret:
		p.RET(rx)
	case atm.OP_halt:
		p.HALT()
	}
	return nil
}
