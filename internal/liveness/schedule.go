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
	"sort"

	"github.com/oleiade/lane"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/cloudwego/regflow/bitvec"
)

// runWorklist updates blocks from a queue seeded with every block, and
// re-enqueues the predecessors of every block whose live-in set has grown.
func (self *Analysis) runWorklist() {
	q := lane.NewQueue()
	tmp := bitvec.New(self.n)
	inq := make([]bool, len(self.blocks))

	/* seed with every block */
	for _, bb := range self.order {
		inq[bb] = true
		q.Enqueue(bb)
	}

	/* process until the queue is drained */
	for !q.Empty() {
		bb := q.Dequeue().(int)
		inq[bb] = false

		/* predecessors must be revisited */
		if self.update(bb, tmp) {
			for _, p := range self.g.Predecessors(bb) {
				if !inq[p] {
					inq[p] = true
					q.Enqueue(p)
				}
			}
		}
	}
}

// runSCC solves every strongly connected component to a local fixpoint, sinks
// first, then finishes with full sweeps until nothing changes.
func (self *Analysis) runSCC() {
	tmp := bitvec.New(self.n)
	dg := simple.NewDirectedGraph()

	/* add every block */
	for bb := range self.blocks {
		dg.AddNode(simple.Node(bb))
	}

	/* add every edge, self loops are handled by the local fixpoint */
	for bb := range self.blocks {
		for _, s := range self.g.Successors(bb) {
			if s != bb {
				dg.SetEdge(simple.Edge{F: simple.Node(bb), T: simple.Node(s)})
			}
		}
	}

	/* components come out in reverse topological order */
	for _, scc := range topo.TarjanSCC(dg) {
		ids := make([]int, 0, len(scc))
		for _, v := range scc {
			ids = append(ids, int(v.ID()))
		}

		/* keep the order deterministic */
		sort.Sort(sort.Reverse(sort.IntSlice(ids)))

		/* iterate the component until it stops changing */
		for changed := true; changed; {
			changed = false
			for _, bb := range ids {
				if self.update(bb, tmp) {
					changed = true
				}
			}
		}
	}

	/* make sure nothing is left behind */
	for self.sweep(tmp) {
	}
}
