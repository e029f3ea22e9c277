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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cloudwego/regflow/internal/defs"
)

func diamond(t *testing.T) *Graph {
	b := NewBuilder()
	b0 := b.AddBlock(0, 2)
	b1 := b.AddBlock(2, 3)
	b2 := b.AddBlock(3, 5)
	b3 := b.AddBlock(5, 6)
	b.AddEdge(b0, b1)
	b.AddEdge(b0, b2)
	b.AddEdge(b1, b3)
	b.AddEdge(b2, b3)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestBuilder_Build(t *testing.T) {
	g := diamond(t)
	require.Equal(t, 4, g.BlockCount())
	require.Equal(t, 6, g.InstructionCount())
	require.Equal(t, []int{1, 2}, g.Successors(0))
	require.Equal(t, []int{1, 2}, g.Predecessors(3))
	start, end := g.InstructionRange(2)
	require.Equal(t, 3, start)
	require.Equal(t, 5, end)
}

func TestBuilder_DuplicatedEdge(t *testing.T) {
	b := NewBuilder()
	b.AddBlock(0, 1)
	b.AddBlock(1, 2)
	b.AddEdge(0, 1)
	b.AddEdge(0, 1)
	g, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, []int{1}, g.Successors(0))
	require.Equal(t, []int{0}, g.Predecessors(1))
	require.Panics(t, func() { b.AddEdge(0, 7) })
}

func requireInvalid(t *testing.T, g CFG) {
	t.Helper()
	err := Validate(g)
	require.Error(t, err)
	require.True(t, errors.Is(err, defs.ErrInvalidGraph), err.Error())
	var ge defs.GraphError
	require.True(t, errors.As(err, &ge))
}

func TestValidate_Malformed(t *testing.T) {
	t.Run("successor out of range", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 1, Blocks: []Block{{Start: 0, End: 1, Succs: []int{3}}}})
	})
	t.Run("predecessor out of range", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 1, Blocks: []Block{{Start: 0, End: 1, Preds: []int{-1}}}})
	})
	t.Run("inconsistent edges", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 2, Blocks: []Block{
			{Start: 0, End: 1, Succs: []int{1}},
			{Start: 1, End: 2},
		}})
	})
	t.Run("dangling predecessor", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 2, Blocks: []Block{
			{Start: 0, End: 1},
			{Start: 1, End: 2, Preds: []int{0}},
		}})
	})
	t.Run("overlapping ranges", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 3, Blocks: []Block{{Start: 0, End: 2}, {Start: 1, End: 3}}})
	})
	t.Run("gap between ranges", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 3, Blocks: []Block{{Start: 0, End: 1}, {Start: 2, End: 3}}})
	})
	t.Run("uncovered tail", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 4, Blocks: []Block{{Start: 0, End: 3}}})
	})
	t.Run("inverted range", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: 2, Blocks: []Block{{Start: 2, End: 0}}})
	})
	t.Run("negative count", func(t *testing.T) {
		requireInvalid(t, &Graph{Count: -1})
	})
}

func TestValidate_EmptyBlocks(t *testing.T) {
	g := &Graph{Count: 2, Blocks: []Block{
		{Start: 0, End: 1, Succs: []int{1}},
		{Start: 1, End: 1, Succs: []int{2}, Preds: []int{0}},
		{Start: 1, End: 2, Preds: []int{1}},
	}}
	require.NoError(t, Validate(g))
	require.NoError(t, Validate(&Graph{}))
}

func TestReversePostorder(t *testing.T) {
	g := diamond(t)
	rpo := ReversePostorder(g)
	require.Len(t, rpo, 4)
	require.Equal(t, 0, rpo[0])
	require.Equal(t, 3, rpo[3])
	require.ElementsMatch(t, []int{1, 2}, rpo[1:3])
}

func TestReversePostorder_LoopsAndUnreachable(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 5; i++ {
		b.AddBlock(i, i+1)
	}
	b.AddEdge(0, 1)
	b.AddEdge(1, 1)
	b.AddEdge(1, 2)
	b.AddEdge(2, 1)
	b.AddEdge(4, 2)
	g, err := b.Build()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3, 4}, ReversePostorder(g))
	require.Equal(t, []bool{true, true, true, false, false}, Reachable(g))
	require.Empty(t, ReversePostorder(&Graph{}))
}

func TestBlockIndex_Lookup(t *testing.T) {
	g := &Graph{Count: 6, Blocks: []Block{
		{Start: 3, End: 6},
		{Start: 3, End: 3},
		{Start: 0, End: 3},
	}}
	require.NoError(t, Validate(g))
	idx := NewBlockIndex(g)
	for pc, want := range []int{2, 2, 2, 0, 0, 0} {
		bb, ok := idx.Lookup(pc)
		require.True(t, ok)
		require.Equal(t, want, bb, "pc = %d", pc)
	}
	_, ok := idx.Lookup(6)
	require.False(t, ok)
	_, ok = idx.Lookup(-1)
	require.False(t, ok)
}
