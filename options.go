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

package regflow

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/cloudwego/regflow/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// Schedule selects how the fixpoint visits blocks. Every schedule converges to
// the same result, they only differ in the amount of work needed.
type Schedule = opts.Schedule

const (
	// ScheduleSweep repeats full sweeps over every block in backward order.
	ScheduleSweep = opts.ScheduleSweep

	// ScheduleWorklist revisits only the predecessors of changed blocks.
	ScheduleWorklist = opts.ScheduleWorklist

	// ScheduleSCC solves strongly connected components one at a time.
	ScheduleSCC = opts.ScheduleSCC
)

// WithOperandCount sets the size of the operand universe. Every operand index
// must be within [0, n).
//
// This option is required.
func WithOperandCount(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("regflow: invalid operand count: %d", n))
	} else {
		return func(o *opts.Options) { o.OperandCount = n }
	}
}

// WithAlwaysLive marks operands as live at every program point regardless of
// the computed flow, such as receiver or scope registers that may be captured
// implicitly.
func WithAlwaysLive(operands ...int) Option {
	for _, r := range operands {
		if r < 0 {
			panic(fmt.Sprintf("regflow: invalid always-live operand: %d", r))
		}
	}
	return func(o *opts.Options) {
		o.AlwaysLive = append(o.AlwaysLive, operands...)
	}
}

// WithSchedule selects the fixpoint schedule.
//
// This value can also be configured with the `REGFLOW_SCHEDULE` environment
// variable.
//
// The default value of this option is "sweep".
func WithSchedule(s Schedule) Option {
	if _, ok := opts.ParseSchedule(s.String()); !ok {
		panic(fmt.Sprintf("regflow: invalid schedule: %d", s))
	} else {
		return func(o *opts.Options) { o.Schedule = s }
	}
}

// WithVerify makes the analysis recheck every data-flow equation once it has
// converged, and panic if any of them does not hold.
//
// This value can also be configured with the `REGFLOW_VERIFY` environment
// variable.
func WithVerify(v bool) Option {
	return func(o *opts.Options) { o.Verify = v }
}

// WithLogger sets the logger used to report the progress of the fixpoint.
//
// The default value of this option is the logrus standard logger.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("regflow: nil logger")
	} else {
		return func(o *opts.Options) { o.Logger = l }
	}
}

// SetDefaultSchedule sets the default fixpoint schedule for every analysis
// from now on.
//
// Returns the old default value.
func SetDefaultSchedule(s Schedule) Schedule {
	s, opts.DefaultSchedule = opts.DefaultSchedule, s
	return s
}

// ParseSchedule converts the name of a schedule ("sweep", "worklist" or "scc")
// back to its value.
func ParseSchedule(name string) (Schedule, bool) {
	return opts.ParseSchedule(name)
}
