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
	"github.com/pkg/errors"

	"github.com/cloudwego/regflow/bitvec"
	"github.com/cloudwego/regflow/internal/defs"
)

// blockState caches the local transfer function of a block along with its
// boundary sets. defs never contains an always-live operand.
type blockState struct {
	start int
	end   int
	defs  *bitvec.BitSet
	uses  *bitvec.BitSet
	in    *bitvec.BitSet
	out   *bitvec.BitSet
}

func (self *Analysis) summarize() error {
	nb := self.g.BlockCount()
	self.blocks = make([]blockState, nb)

	/* build every block in a single backward pass */
	for bb := 0; bb < nb; bb++ {
		st := &self.blocks[bb]
		st.start, st.end = self.g.InstructionRange(bb)
		st.defs = bitvec.New(self.n)
		st.uses = bitvec.New(self.n)
		st.in = self.live.Clone()
		st.out = self.live.Clone()

		/* live(i-1) = use(i) ∪ (live(i) - { def(i) }) */
		for pc := st.end - 1; pc >= st.start; pc-- {
			du, us := self.d.DefsAndUses(pc)

			/* check the operands before touching any set */
			if err := self.checkOperands(pc, du, us); err != nil {
				return err
			}

			/* definitions first, then the usages */
			for _, r := range du {
				if !self.live.Test(r) {
					st.defs.Set(r)
					st.uses.Clear(r)
				}
			}

			/* usages see the value before the definitions */
			for _, r := range us {
				st.uses.Set(r)
			}
		}
	}
	return nil
}

func (self *Analysis) checkOperands(pc int, du []int, us []int) error {
	for _, r := range du {
		if r < 0 || r >= self.n {
			return errors.Wrapf(defs.ERange("operand", r, self.n), "definition at instruction %d", pc)
		}
	}
	for _, r := range us {
		if r < 0 || r >= self.n {
			return errors.Wrapf(defs.ERange("operand", r, self.n), "usage at instruction %d", pc)
		}
	}
	return nil
}

// step applies the transfer function of the instruction at pc to live, which
// becomes the set of operands live right before the instruction.
func (self *Analysis) step(pc int, live *bitvec.BitSet) {
	du, us := self.d.DefsAndUses(pc)

	/* remove the definitions, always-live operands stay */
	for _, r := range du {
		if !self.live.Test(r) {
			live.Clear(r)
		}
	}

	/* add the usages */
	for _, r := range us {
		live.Set(r)
	}
}
