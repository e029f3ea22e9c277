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

package flowgraph

import (
	"sort"

	"github.com/oleiade/lane"
)

type _Frame struct {
	bb   int
	next int
}

// ReversePostorder returns every block of g in reverse postorder of a
// depth-first traversal starting from block 0. Blocks unreachable from the
// entry are appended afterwards in index order, so the result is always a
// permutation of [0, BlockCount()).
func ReversePostorder(g CFG) []int {
	nb := g.BlockCount()
	po := make([]int, 0, nb)
	vis := make([]bool, nb)

	/* empty graph */
	if nb == 0 {
		return po
	}

	/* traverse the graph with DFS */
	st := lane.NewStack()
	st.Push(&_Frame{bb: 0})
	vis[0] = true

	/* scan until the stack is empty */
	for !st.Empty() {
		tail := true
		this := st.Head().(*_Frame)
		succ := g.Successors(this.bb)

		/* push the next unvisited successor */
		for this.next < len(succ) {
			bb := succ[this.next]
			this.next++

			/* not visited yet */
			if !vis[bb] {
				tail = false
				vis[bb] = true
				st.Push(&_Frame{bb: bb})
				break
			}
		}

		/* all the successors are visited, pop the current node */
		if tail {
			st.Pop()
			po = append(po, this.bb)
		}
	}

	/* reverse the order */
	for i, j := 0, len(po)-1; i < j; i, j = i+1, j-1 {
		po[i], po[j] = po[j], po[i]
	}

	/* add the unreachable blocks */
	for bb := 0; bb < nb; bb++ {
		if !vis[bb] {
			po = append(po, bb)
		}
	}
	return po
}

// Reachable reports, for every block, whether it can be reached from the
// entry block.
func Reachable(g CFG) []bool {
	nb := g.BlockCount()
	ret := make([]bool, nb)

	/* empty graph */
	if nb == 0 {
		return ret
	}

	/* traverse the graph with BFS */
	q := lane.NewQueue()
	q.Enqueue(0)
	ret[0] = true

	/* mark every reached block */
	for !q.Empty() {
		for _, bb := range g.Successors(q.Dequeue().(int)) {
			if !ret[bb] {
				ret[bb] = true
				q.Enqueue(bb)
			}
		}
	}
	return ret
}

// BlockIndex maps instruction offsets back to their owning blocks.
type BlockIndex struct {
	ids    []int
	starts []int
	ends   []int
}

// NewBlockIndex builds the index of a validated graph. Empty blocks own no
// offsets and are left out.
func NewBlockIndex(g CFG) *BlockIndex {
	nb := g.BlockCount()
	ret := new(BlockIndex)

	/* collect non-empty blocks */
	for bb := 0; bb < nb; bb++ {
		if start, end := g.InstructionRange(bb); end > start {
			ret.ids = append(ret.ids, bb)
		}
	}

	/* sort by starting offset */
	sort.Slice(ret.ids, func(i int, j int) bool {
		si, _ := g.InstructionRange(ret.ids[i])
		sj, _ := g.InstructionRange(ret.ids[j])
		return si < sj
	})

	/* cache the ranges */
	for _, bb := range ret.ids {
		start, end := g.InstructionRange(bb)
		ret.starts = append(ret.starts, start)
		ret.ends = append(ret.ends, end)
	}
	return ret
}

// Lookup returns the block owning offset with a binary search.
func (self *BlockIndex) Lookup(offset int) (int, bool) {
	i := sort.Search(len(self.starts), func(i int) bool { return self.starts[i] > offset }) - 1

	/* before the first block, or past the end of the block */
	if i < 0 || offset >= self.ends[i] {
		return -1, false
	} else {
		return self.ids[i], true
	}
}
