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

func (self *Analysis) locate(pc int) (*blockState, error) {
	if bb, ok := self.idx.Lookup(pc); !ok {
		return nil, defs.ERange("offset", pc, self.g.InstructionCount())
	} else {
		return &self.blocks[bb], nil
	}
}

// LiveSetAt returns the operands live immediately before the instruction at
// pc. The owning block is replayed backward from its live-out set every time,
// use ComputeFullLiveness to query many offsets.
func (self *Analysis) LiveSetAt(pc int) (*bitvec.BitSet, error) {
	st, err := self.locate(pc)
	if err != nil {
		return nil, err
	}

	/* replay from the tail of the block down to pc */
	live := st.out.Clone()
	for i := st.end - 1; i >= pc; i-- {
		self.step(i, live)
	}

	/* update the statistics */
	atomic.AddUint64(&QueryCount, 1)
	return live, nil
}

// OperandIsLiveAt reports whether operand r is live immediately before the
// instruction at pc.
func (self *Analysis) OperandIsLiveAt(r int, pc int) (bool, error) {
	if r < 0 || r >= self.n {
		return false, defs.ERange("operand", r, self.n)
	} else if live, err := self.LiveSetAt(pc); err != nil {
		return false, err
	} else {
		return live.Test(r), nil
	}
}

// FullLiveness holds the live set before every instruction.
type FullLiveness struct {
	n    int
	live []*bitvec.BitSet
}

// ComputeFullLiveness materializes the live set of every instruction with a
// single backward pass per block.
func (self *Analysis) ComputeFullLiveness() *FullLiveness {
	ret := &FullLiveness{
		n:    self.n,
		live: make([]*bitvec.BitSet, self.g.InstructionCount()),
	}

	/* replay every block once */
	for i := range self.blocks {
		st := &self.blocks[i]
		live := st.out.Clone()

		/* record the set before each instruction */
		for pc := st.end - 1; pc >= st.start; pc-- {
			self.step(pc, live)
			ret.live[pc] = live.Clone()
		}
	}

	/* update the statistics */
	atomic.AddUint64(&FullCount, 1)
	return ret
}

// Len returns the number of instructions covered.
func (self *FullLiveness) Len() int {
	return len(self.live)
}

// LiveAt returns the live set before the instruction at pc. The set is shared
// and must not be modified.
func (self *FullLiveness) LiveAt(pc int) (*bitvec.BitSet, error) {
	if pc < 0 || pc >= len(self.live) {
		return nil, defs.ERange("offset", pc, len(self.live))
	} else {
		return self.live[pc], nil
	}
}

func (self *FullLiveness) OperandIsLive(r int, pc int) (bool, error) {
	if r < 0 || r >= self.n {
		return false, defs.ERange("operand", r, self.n)
	} else if live, err := self.LiveAt(pc); err != nil {
		return false, err
	} else {
		return live.Test(r), nil
	}
}
