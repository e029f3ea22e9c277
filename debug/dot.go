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

package debug

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/cloudwego/regflow/bitvec"
	"github.com/cloudwego/regflow/flowgraph"
)

// BlockSets is implemented by a converged liveness result.
type BlockSets interface {
	BlockCount() int
	LiveIn(bb int) (*bitvec.BitSet, error)
	LiveOut(bb int) (*bitvec.BitSet, error)
}

// WriteDOT writes g in Graphviz format, labelling every block with its
// instruction range along with its live-in and live-out sets.
func WriteDOT(w io.Writer, g flowgraph.CFG, lv BlockSets) error {
	if _, err := fmt.Fprintln(w, "digraph CFG {"); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, `    node [shape=box fontname="monospace"];`); err != nil {
		return err
	}

	/* dump every block */
	for bb := 0; bb < g.BlockCount(); bb++ {
		in, err := lv.LiveIn(bb)
		if err != nil {
			return err
		}
		out, err := lv.LiveOut(bb)
		if err != nil {
			return err
		}

		/* block label */
		start, end := g.InstructionRange(bb)
		if _, err = fmt.Fprintf(w, "    bb_%d [label=\"bb_%d [%d, %d)\\lin:  %s\\lout: %s\\l\"];\n", bb, bb, start, end, in, out); err != nil {
			return err
		}

		/* outgoing edges */
		for _, to := range g.Successors(bb) {
			if _, err = fmt.Fprintf(w, "    bb_%d -> bb_%d;\n", bb, to); err != nil {
				return err
			}
		}
	}

	/* end of graph */
	_, err := fmt.Fprintln(w, "}")
	return err
}

type _BlockDump struct {
	Block   int
	LiveIn  []int
	LiveOut []int
}

var dumper = spew.ConfigState{
	Indent:                  "    ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump formats the live-in and live-out sets of every block.
func Dump(lv BlockSets) string {
	ret := make([]_BlockDump, lv.BlockCount())
	for bb := range ret {
		in, err := lv.LiveIn(bb)
		if err != nil {
			panic(err)
		}
		out, err := lv.LiveOut(bb)
		if err != nil {
			panic(err)
		}
		ret[bb] = _BlockDump{Block: bb, LiveIn: in.Indices(), LiveOut: out.Indices()}
	}
	return dumper.Sdump(ret)
}
