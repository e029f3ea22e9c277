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

package opts

import (
	"github.com/sirupsen/logrus"
)

type Schedule uint8

const (
	ScheduleSweep Schedule = iota
	ScheduleWorklist
	ScheduleSCC
)

var scheduleNames = [...]string{
	ScheduleSweep:    "sweep",
	ScheduleWorklist: "worklist",
	ScheduleSCC:      "scc",
}

func (self Schedule) String() string {
	if int(self) < len(scheduleNames) {
		return scheduleNames[self]
	} else {
		return "schedule(?)"
	}
}

// ParseSchedule converts the name of a schedule back to its value.
func ParseSchedule(name string) (Schedule, bool) {
	for i, v := range scheduleNames {
		if v == name {
			return Schedule(i), true
		}
	}
	return 0, false
}

type Options struct {
	OperandCount int
	AlwaysLive   []int
	Schedule     Schedule
	Verify       bool
	Logger       logrus.FieldLogger
}

func GetDefaultOptions() Options {
	return Options{
		OperandCount: -1,
		Schedule:     DefaultSchedule,
		Verify:       DefaultVerify,
		Logger:       logrus.StandardLogger(),
	}
}
