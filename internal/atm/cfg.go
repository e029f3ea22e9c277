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
	"sort"

	"github.com/cloudwego/regflow/flowgraph"
	"github.com/cloudwego/regflow/internal/defs"
)

// GraphBuilder splits a Program into basic blocks. Pin holds every offset that
// starts a new block; extra offsets may be pinned before calling Build.
type GraphBuilder struct {
	Pin map[int]bool
}

func CreateGraphBuilder() *GraphBuilder {
	return newGraphBuilder()
}

func (self *GraphBuilder) scan(p Program) error {
	np := len(p)

	/* the entry always starts a block */
	if np != 0 {
		self.Pin[0] = true
	}

	/* every branch target, and every instruction after a terminator */
	for i := range p {
		for _, pc := range p[i].Targets() {
			if pc < 0 || pc >= np {
				return defs.EGraph("branch at %d targets %d, which is not within [0, %d)", i, pc, np)
			}
			self.Pin[pc] = true
		}
		if p[i].IsTerminator() && i+1 < np {
			self.Pin[i+1] = true
		}
	}
	return nil
}

func (self *GraphBuilder) leaders(np int) []int {
	ret := make([]int, 0, len(self.Pin))
	for pc, ok := range self.Pin {
		if ok && pc >= 0 && pc < np {
			ret = append(ret, pc)
		}
	}
	sort.Ints(ret)
	return ret
}

// Build computes the basic blocks of p and links them. Blocks are numbered by
// their starting offset, so block 0 is always the entry.
func (self *GraphBuilder) Build(p Program) (*flowgraph.Graph, error) {
	defer freeGraphBuilder(self)
	if err := self.scan(p); err != nil {
		return nil, err
	}

	/* create all the blocks */
	np := len(p)
	ls := self.leaders(np)
	gb := flowgraph.NewBuilder()
	bm := make(map[int]int, len(ls))

	/* each block extends to the next leader */
	for i, pc := range ls {
		end := np
		if i+1 < len(ls) {
			end = ls[i+1]
		}
		bm[pc] = gb.AddBlock(pc, end)
	}

	/* link blocks by the last instruction */
	for i, pc := range ls {
		end := np
		bb := bm[pc]
		if i+1 < len(ls) {
			end = ls[i+1]
		}

		/* explicit branch targets */
		ins := &p[end-1]
		for _, to := range ins.Targets() {
			gb.AddEdge(bb, bm[to])
		}

		/* fallthrough into the next block, if any */
		if ins.FallsThrough() && end < np {
			gb.AddEdge(bb, bm[end])
		}
	}

	/* validate the result */
	return gb.Build()
}
