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

// Package flowgraph describes the control-flow graph consumed by the liveness
// analysis, together with an arena implementation of it.
//
// Blocks are identified by their index in [0, BlockCount()), and block 0 is
// the entry block. Each block owns the half-open instruction range
// [start, end); every instruction belongs to exactly one block, and empty
// blocks own no instruction at all.
package flowgraph

// CFG is the graph capability provided by the block-extraction collaborator.
type CFG interface {
	BlockCount() int
	InstructionCount() int
	InstructionRange(bb int) (start int, end int)
	Successors(bb int) []int
	Predecessors(bb int) []int
}

// Decoder decodes the operands an instruction writes (defs) and reads (uses).
// Operand indices must already be normalized into a single flat space.
type Decoder interface {
	DefsAndUses(offset int) (defs []int, uses []int)
}

// DecoderFunc adapts an ordinary function into a Decoder.
type DecoderFunc func(offset int) (defs []int, uses []int)

func (self DecoderFunc) DefsAndUses(offset int) ([]int, []int) {
	return self(offset)
}

type Block struct {
	Start int
	End   int
	Succs []int
	Preds []int
}

func (self *Block) Len() int {
	return self.End - self.Start
}

// Graph is an arena of basic blocks. Edges are block indices, never pointers.
type Graph struct {
	Blocks []Block
	Count  int
}

func (self *Graph) BlockCount() int {
	return len(self.Blocks)
}

func (self *Graph) InstructionCount() int {
	return self.Count
}

func (self *Graph) InstructionRange(bb int) (int, int) {
	return self.Blocks[bb].Start, self.Blocks[bb].End
}

func (self *Graph) Successors(bb int) []int {
	return self.Blocks[bb].Succs
}

func (self *Graph) Predecessors(bb int) []int {
	return self.Blocks[bb].Preds
}

// Builder assembles a Graph while keeping successor and predecessor lists
// consistent with each other.
type Builder struct {
	g Graph
	e map[[2]int]struct{}
}

func NewBuilder() *Builder {
	return &Builder{e: make(map[[2]int]struct{})}
}

// AddBlock appends a block owning [start, end), and returns its index.
func (self *Builder) AddBlock(start int, end int) int {
	self.g.Blocks = append(self.g.Blocks, Block{Start: start, End: end})
	return len(self.g.Blocks) - 1
}

// AddEdge adds an edge from block "from" to block "to". Duplicated edges are
// recorded only once.
func (self *Builder) AddEdge(from int, to int) {
	nb := len(self.g.Blocks)
	ek := [2]int{from, to}

	/* both ends must exist */
	if from < 0 || from >= nb || to < 0 || to >= nb {
		panic("flowgraph: edge between non-existing blocks")
	}

	/* already linked */
	if _, ok := self.e[ek]; ok {
		return
	}

	/* link both directions */
	self.e[ek] = struct{}{}
	self.g.Blocks[from].Succs = append(self.g.Blocks[from].Succs, to)
	self.g.Blocks[to].Preds = append(self.g.Blocks[to].Preds, from)
}

// Build finalizes the graph, which covers instructions up to the largest block
// end, and validates it.
func (self *Builder) Build() (*Graph, error) {
	ret := new(Graph)
	*ret = self.g

	/* find the instruction count */
	for _, bb := range ret.Blocks {
		if bb.End > ret.Count {
			ret.Count = bb.End
		}
	}

	/* make sure the graph is well-formed */
	if err := Validate(ret); err != nil {
		return nil, err
	} else {
		return ret, nil
	}
}
