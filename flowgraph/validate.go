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

	"github.com/cloudwego/regflow/internal/defs"
)

type _Range struct {
	bb    int
	start int
	end   int
}

// Validate checks that g is well-formed: instruction ranges partition
// [0, InstructionCount()), every edge refers to an existing block, and the
// successor and predecessor lists agree with each other. The returned error
// matches ErrInvalidGraph.
func Validate(g CFG) error {
	nb := g.BlockCount()
	ni := g.InstructionCount()

	/* counts must be sane */
	if nb < 0 {
		return defs.EGraph("negative block count %d", nb)
	} else if ni < 0 {
		return defs.EGraph("negative instruction count %d", ni)
	}

	/* check every range and every edge */
	if err := checkRanges(g, nb, ni); err != nil {
		return err
	} else {
		return checkEdges(g, nb)
	}
}

func checkRanges(g CFG, nb int, ni int) error {
	rs := make([]_Range, 0, nb)

	/* each range must be inside the instruction stream */
	for bb := 0; bb < nb; bb++ {
		start, end := g.InstructionRange(bb)
		if start < 0 || end < start || end > ni {
			return defs.EBlock(bb, "invalid instruction range [%d, %d) of %d instructions", start, end, ni)
		} else if end != start {
			rs = append(rs, _Range{bb: bb, start: start, end: end})
		}
	}

	/* sort by starting offset */
	sort.Slice(rs, func(i int, j int) bool {
		return rs[i].start < rs[j].start
	})

	/* ranges must be contiguous, without gaps or overlaps */
	pc := 0
	for _, r := range rs {
		if r.start < pc {
			return defs.EBlock(r.bb, "instruction %d belongs to more than one block", r.start)
		} else if r.start > pc {
			return defs.EGraph("instruction %d does not belong to any block", pc)
		} else {
			pc = r.end
		}
	}

	/* the tail must be covered as well */
	if pc != ni {
		return defs.EGraph("instruction %d does not belong to any block", pc)
	} else {
		return nil
	}
}

func checkEdges(g CFG, nb int) error {
	succ := make(map[[2]int]struct{})
	pred := make(map[[2]int]struct{})

	/* every edge must point at an existing block */
	for bb := 0; bb < nb; bb++ {
		for _, to := range g.Successors(bb) {
			if to < 0 || to >= nb {
				return defs.EEdge(bb, to, "successor does not exist")
			} else {
				succ[[2]int{bb, to}] = struct{}{}
			}
		}
		for _, from := range g.Predecessors(bb) {
			if from < 0 || from >= nb {
				return defs.EEdge(from, bb, "predecessor does not exist")
			} else {
				pred[[2]int{from, bb}] = struct{}{}
			}
		}
	}

	/* successor edges must be mirrored by predecessor edges */
	for e := range succ {
		if _, ok := pred[e]; !ok {
			return defs.EEdge(e[0], e[1], "successor edge without matching predecessor")
		}
	}

	/* and vice versa */
	for e := range pred {
		if _, ok := succ[e]; !ok {
			return defs.EEdge(e[0], e[1], "predecessor edge without matching successor")
		}
	}
	return nil
}
