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
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/regflow/flowgraph"
	"github.com/cloudwego/regflow/internal/opts"
)

type _Ins struct {
	defs []int
	uses []int
}

type _Prog []_Ins

func (self _Prog) DefsAndUses(pc int) ([]int, []int) {
	return self[pc].defs, self[pc].uses
}

func ins(defs []int, uses []int) _Ins {
	return _Ins{defs: defs, uses: uses}
}

func r(v ...int) []int {
	return v
}

func options(n int, always ...int) opts.Options {
	o := opts.GetDefaultOptions()
	o.OperandCount = n
	o.AlwaysLive = always
	o.Schedule = ScheduleSweep
	o.Verify = true
	o.Logger = logrus.New()
	return o
}

// graphOf builds a graph whose blocks own consecutive runs of the given
// lengths, linked by the given edges.
func graphOf(t *testing.T, lens []int, edges [][2]int) *flowgraph.Graph {
	pc := 0
	b := flowgraph.NewBuilder()
	for _, n := range lens {
		b.AddBlock(pc, pc+n)
		pc += n
	}
	for _, e := range edges {
		b.AddEdge(e[0], e[1])
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

type _Random struct {
	g *flowgraph.Graph
	p _Prog
	n int
	a []int
}

func randomCase(t *testing.T, seed int64) _Random {
	f := gofakeit.New(seed)
	nb := f.IntRange(1, 8)
	n := f.IntRange(1, 12)
	lens := make([]int, nb)
	var edges [][2]int
	var prog _Prog

	/* random operand list */
	operands := func(max int) []int {
		ret := make([]int, f.IntRange(0, max))
		for i := range ret {
			ret[i] = f.IntRange(0, n-1)
		}
		return ret
	}

	/* random blocks and instructions */
	for bb := range lens {
		lens[bb] = f.IntRange(0, 4)
		for i := 0; i < lens[bb]; i++ {
			prog = append(prog, ins(operands(2), operands(3)))
		}
		for i := f.IntRange(0, 2); i > 0; i-- {
			edges = append(edges, [2]int{bb, f.IntRange(0, nb-1)})
		}
	}

	/* random always-live operands */
	var always []int
	if f.Bool() {
		always = append(always, f.IntRange(0, n-1))
	}
	return _Random{g: graphOf(t, lens, edges), p: prog, n: n, a: always}
}

// naiveLiveness computes the live set before every instruction with plain
// per-instruction iteration over maps.
func naiveLiveness(g *flowgraph.Graph, p _Prog, n int, always []int) [][]int {
	nb := g.BlockCount()
	in := make([]map[int]bool, nb)
	before := make([]map[int]bool, len(p))
	al := make(map[int]bool)
	for _, v := range always {
		al[v] = true
	}

	/* transfer one block backward */
	transfer := func(bb int) map[int]bool {
		live := make(map[int]bool)
		for v := range al {
			live[v] = true
		}
		for _, s := range g.Successors(bb) {
			for v := range in[s] {
				live[v] = true
			}
		}
		blk := g.Blocks[bb]
		for pc := blk.End - 1; pc >= blk.Start; pc-- {
			next := make(map[int]bool, len(live))
			for v := range live {
				next[v] = true
			}
			for _, d := range p[pc].defs {
				if !al[d] {
					delete(next, d)
				}
			}
			for _, u := range p[pc].uses {
				next[u] = true
			}
			before[pc] = next
			live = next
		}
		return live
	}

	/* iterate until nothing changes */
	for changed := true; changed; {
		changed = false
		for bb := 0; bb < nb; bb++ {
			if live := transfer(bb); len(live) != len(in[bb]) {
				in[bb] = live
				changed = true
			}
		}
	}

	/* convert to sorted slices */
	ret := make([][]int, len(p))
	for pc, live := range before {
		ret[pc] = []int{}
		for v := range live {
			ret[pc] = append(ret[pc], v)
		}
		sort.Ints(ret[pc])
	}
	return ret
}
