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

// Package liveness implements the backward may-liveness analysis over a
// bytecode control-flow graph.
//
// live(i) = use(i) ∪ (live(i+1) - def(i)), evaluated from the tail of every
// block, with live-out(B) = ∪ live-in(succ(B)). Always-live operands are
// seeded into every set and are never removed by a definition.
package liveness

import (
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/cloudwego/regflow/bitvec"
	"github.com/cloudwego/regflow/flowgraph"
	"github.com/cloudwego/regflow/internal/defs"
	"github.com/cloudwego/regflow/internal/opts"
)

// Analysis is the converged result of one liveness run over one graph. It is
// immutable once New returns and may be queried concurrently.
type Analysis struct {
	n      int
	g      flowgraph.CFG
	d      flowgraph.Decoder
	log    logrus.FieldLogger
	idx    *flowgraph.BlockIndex
	live   *bitvec.BitSet
	order  []int
	blocks []blockState
	sched  opts.Schedule
	sweeps int
	visits int
	verify bool
	hook   func(sweep int)
}

// New analyses g, decoding instructions with d.
func New(g flowgraph.CFG, d flowgraph.Decoder, o opts.Options) (*Analysis, error) {
	if self, err := prepare(g, d, o); err != nil {
		return nil, err
	} else {
		self.solve()
		return self, nil
	}
}

func prepare(g flowgraph.CFG, d flowgraph.Decoder, o opts.Options) (*Analysis, error) {
	if o.OperandCount < 0 {
		return nil, errors.New("liveness: operand count is not specified")
	}

	/* the graph must be well-formed before any work begins */
	if err := flowgraph.Validate(g); err != nil {
		return nil, errors.Wrap(err, "liveness")
	}

	/* create the analysis */
	self := &Analysis{
		n:      o.OperandCount,
		g:      g,
		d:      d,
		log:    o.Logger,
		idx:    flowgraph.NewBlockIndex(g),
		live:   bitvec.New(o.OperandCount),
		order:  backwardOrder(g),
		sched:  o.Schedule,
		verify: o.Verify,
	}

	/* use the standard logger by default */
	if self.log == nil {
		self.log = logrus.StandardLogger()
	}

	/* collect the always-live operands */
	for _, r := range o.AlwaysLive {
		if r < 0 || r >= self.n {
			return nil, errors.Wrap(defs.ERange("always-live operand", r, self.n), "liveness")
		} else {
			self.live.Set(r)
		}
	}

	/* summarize every block */
	if err := self.summarize(); err != nil {
		return nil, errors.Wrap(err, "liveness")
	} else {
		return self, nil
	}
}

// backwardOrder is the reverse postorder of the forward graph, walked from its
// tail, so that successors are usually visited before their predecessors.
func backwardOrder(g flowgraph.CFG) []int {
	po := flowgraph.ReversePostorder(g)
	for i, j := 0, len(po)-1; i < j; i, j = i+1, j-1 {
		po[i], po[j] = po[j], po[i]
	}
	return po
}

func (self *Analysis) solve() {
	switch self.sched {
	case ScheduleSweep:
		self.runSweeps()
	case ScheduleWorklist:
		self.runWorklist()
	case ScheduleSCC:
		self.runSCC()
	default:
		panic("liveness: invalid schedule: " + self.sched.String())
	}

	/* double check the result if needed */
	if self.verify {
		self.check()
	}

	/* update the statistics */
	atomic.AddUint64(&AnalysisCount, 1)
	atomic.AddUint64(&SweepCount, uint64(self.sweeps))
	atomic.AddUint64(&VisitCount, uint64(self.visits))

	/* dump the result */
	self.log.WithFields(logrus.Fields{
		"blocks":   len(self.blocks),
		"operands": self.n,
		"schedule": self.sched.String(),
		"sweeps":   self.sweeps,
		"visits":   self.visits,
	}).Debug("liveness: converged")
}

const (
	ScheduleSweep    = opts.ScheduleSweep
	ScheduleWorklist = opts.ScheduleWorklist
	ScheduleSCC      = opts.ScheduleSCC
)

// OperandCount returns the size of the operand universe.
func (self *Analysis) OperandCount() int {
	return self.n
}

// InstructionCount returns the number of instructions covered by the graph.
func (self *Analysis) InstructionCount() int {
	return self.g.InstructionCount()
}

func (self *Analysis) BlockCount() int {
	return len(self.blocks)
}

// AlwaysLive returns a copy of the always-live set.
func (self *Analysis) AlwaysLive() *bitvec.BitSet {
	return self.live.Clone()
}

// Sweeps returns the number of full sweeps the fixpoint needed.
func (self *Analysis) Sweeps() int {
	return self.sweeps
}

// Visits returns the number of block updates the fixpoint performed.
func (self *Analysis) Visits() int {
	return self.visits
}

func (self *Analysis) Schedule() opts.Schedule {
	return self.sched
}

func (self *Analysis) block(bb int) (*blockState, error) {
	if bb < 0 || bb >= len(self.blocks) {
		return nil, defs.ERange("block", bb, len(self.blocks))
	} else {
		return &self.blocks[bb], nil
	}
}

// LiveIn returns a copy of the operands live at the entry of block bb.
func (self *Analysis) LiveIn(bb int) (*bitvec.BitSet, error) {
	if st, err := self.block(bb); err != nil {
		return nil, err
	} else {
		return st.in.Clone(), nil
	}
}

// LiveOut returns a copy of the operands live at the exit of block bb.
func (self *Analysis) LiveOut(bb int) (*bitvec.BitSet, error) {
	if st, err := self.block(bb); err != nil {
		return nil, err
	} else {
		return st.out.Clone(), nil
	}
}
