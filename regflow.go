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

// Package regflow computes which virtual-register operands of a bytecode
// program may still be read later, at every program point.
//
// The analysis consumes a control-flow graph and a def/use decoder supplied by
// the caller (see package flowgraph), runs a backward data-flow fixpoint over
// it, and answers per-offset liveness and kill queries from the converged
// result. A result is immutable and may be queried from multiple goroutines.
package regflow

import (
	"github.com/cloudwego/regflow/flowgraph"
	"github.com/cloudwego/regflow/internal/liveness"
	"github.com/cloudwego/regflow/internal/opts"
)

type (
	// FullLiveness holds the live set before every instruction.
	FullLiveness = liveness.FullLiveness

	// Kills holds the set of operands dying at every instruction.
	Kills = liveness.Kills
)

// Liveness is the converged liveness of one graph.
type Liveness struct {
	*liveness.Analysis
}

// Analyze runs the liveness analysis over g, decoding instructions with d.
//
// WithOperandCount must be specified. The graph is validated before any work
// begins, an error matching ErrInvalidGraph is returned if it is malformed,
// and ErrOutOfRange if d decodes an operand outside of the operand universe.
func Analyze(g flowgraph.CFG, d flowgraph.Decoder, options ...Option) (*Liveness, error) {
	o := opts.GetDefaultOptions()

	/* apply the options */
	for _, fn := range options {
		fn(&o)
	}

	/* run the analysis */
	if lv, err := liveness.New(g, d, o); err != nil {
		return nil, err
	} else {
		return &Liveness{lv}, nil
	}
}
