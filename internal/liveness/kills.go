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

package liveness

import (
	"sync/atomic"

	"github.com/cloudwego/regflow/bitvec"
	"github.com/cloudwego/regflow/internal/defs"
)

// Kills holds, for every instruction, the operands that are live right before
// it and dead right after it.
type Kills struct {
	n     int
	kills []*bitvec.BitSet
}

// ComputeKills derives the kill set of every instruction, in the same single
// backward replay per block as ComputeFullLiveness.
func (self *Analysis) ComputeKills() *Kills {
	ret := &Kills{
		n:     self.n,
		kills: make([]*bitvec.BitSet, self.g.InstructionCount()),
	}

	/* replay every block once */
	for i := range self.blocks {
		st := &self.blocks[i]
		after := st.out.Clone()
		before := bitvec.New(self.n)

		/* kills(pc) = live(pc) - live(pc+1) */
		for pc := st.end - 1; pc >= st.start; pc-- {
			before.CopyFrom(after)
			self.step(pc, before)
			k := before.Clone()
			k.Subtract(after)
			ret.kills[pc] = k
			after.CopyFrom(before)
		}
	}

	/* update the statistics */
	atomic.AddUint64(&KillCount, 1)
	return ret
}

func (self *Kills) Len() int {
	return len(self.kills)
}

// KilledAt returns the operands killed by the instruction at pc. The set is
// shared and must not be modified.
func (self *Kills) KilledAt(pc int) (*bitvec.BitSet, error) {
	if pc < 0 || pc >= len(self.kills) {
		return nil, defs.ERange("offset", pc, len(self.kills))
	} else {
		return self.kills[pc], nil
	}
}

func (self *Kills) OperandIsKilledAt(r int, pc int) (bool, error) {
	if r < 0 || r >= self.n {
		return false, defs.ERange("operand", r, self.n)
	} else if k, err := self.KilledAt(pc); err != nil {
		return false, err
	} else {
		return k.Test(r), nil
	}
}

// ForEachKilledAt calls fn with every operand killed by the instruction at pc
// in ascending order.
func (self *Kills) ForEachKilledAt(pc int, fn func(r int)) error {
	k, err := self.KilledAt(pc)
	if err != nil {
		return err
	}
	for r := range k.All() {
		fn(r)
	}
	return nil
}
