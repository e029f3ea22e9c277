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
)

func regs(rs ...Register) []int {
	ret := make([]int, len(rs))
	for i, r := range rs {
		ret[i] = int(r)
	}
	return ret
}

// DefsAndUses reports the registers written and read by the instruction at pc.
// A register may appear in both lists, in which case it is read before it is
// written.
func (self Program) DefsAndUses(pc int) (defs []int, uses []int) {
	ins := &self[pc]

	/* decode by opcode */
	switch ins.Op {
	case OP_nop, OP_jmp, OP_halt:
		return nil, nil
	case OP_iq, OP_ldarg:
		return regs(ins.Rx), nil
	case OP_mov, OP_addi:
		return regs(ins.Ry), regs(ins.Rx)
	case OP_add, OP_sub, OP_mul:
		return regs(ins.Rz), regs(ins.Rx, ins.Ry)
	case OP_beq, OP_bne, OP_blt:
		return nil, regs(ins.Rx, ins.Ry)
	case OP_bsw, OP_ret:
		return nil, regs(ins.Rx)
	case OP_call:
		return regs(ins.Rr...), regs(ins.Ar...)
	default:
		panic(fmt.Sprintf("invalid OpCode: 0x%02x", uint8(ins.Op)))
	}
}
