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
	"fmt"

	"github.com/cloudwego/regflow/bitvec"
)

// update recomputes the boundary sets of block bb from its successors, and
// reports whether its live-in set has grown. Both sets only ever grow.
func (self *Analysis) update(bb int, tmp *bitvec.BitSet) bool {
	st := &self.blocks[bb]
	self.visits++

	/* live-out(p) = ∑(live-in(succ(p))) */
	for _, s := range self.g.Successors(bb) {
		st.out.UnionWith(self.blocks[s].in)
	}

	/* live-in(p) = use(p) ∪ (live-out(p) - def(p)) */
	tmp.CopyFrom(st.out)
	tmp.Subtract(st.defs)
	tmp.UnionWith(st.uses)
	return st.in.UnionWith(tmp)
}

// sweep updates every block once in backward order.
func (self *Analysis) sweep(tmp *bitvec.BitSet) bool {
	changed := false
	for _, bb := range self.order {
		if self.update(bb, tmp) {
			changed = true
		}
	}

	/* notify the observer if any */
	if self.sweeps++; self.hook != nil {
		self.hook(self.sweeps)
	}

	/* log every sweep */
	self.log.WithField("sweep", self.sweeps).WithField("changed", changed).Debug("liveness: sweep")
	return changed
}

func (self *Analysis) runSweeps() {
	tmp := bitvec.New(self.n)
	for self.sweep(tmp) {
	}
}

// check recomputes every data-flow equation of a converged analysis, and
// panics if any of them does not hold.
func (self *Analysis) check() {
	out := bitvec.New(self.n)
	tmp := bitvec.New(self.n)

	/* check every block */
	for bb := range self.blocks {
		st := &self.blocks[bb]
		out.CopyFrom(self.live)

		/* live-out is exactly the union of successors' live-in */
		for _, s := range self.g.Successors(bb) {
			out.UnionWith(self.blocks[s].in)
		}

		/* live-in is exactly the transfer of live-out */
		tmp.CopyFrom(out)
		tmp.Subtract(st.defs)
		tmp.UnionWith(st.uses)
		tmp.UnionWith(self.live)

		/* both must match what the fixpoint has found */
		if !out.Equal(st.out) {
			panic(fmt.Sprintf("liveness: live-out of bb_%d did not converge: %s != %s", bb, st.out, out))
		} else if !tmp.Equal(st.in) {
			panic(fmt.Sprintf("liveness: live-in of bb_%d did not converge: %s != %s", bb, st.in, tmp))
		}
	}
}
