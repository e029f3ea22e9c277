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

// Package debug exposes the global counters of the liveness analysis, and a few
// helpers to look into a converged result.
package debug

import (
	"sync/atomic"

	"github.com/cloudwego/regflow/internal/liveness"
)

// A Stats records statistics about the liveness analysis.
type Stats struct {
	Engine  EngineStats
	Queries QueryStats
}

// An EngineStats records how much work the fixpoint engine has done.
type EngineStats struct {
	Analyses    int
	Sweeps      int
	BlockVisits int
}

// A QueryStats records how many queries have been answered.
type QueryStats struct {
	Point        int
	FullLiveness int
	Kills        int
}

// GetStats returns statistics of the liveness analysis.
func GetStats() Stats {
	return Stats{
		Engine: EngineStats{
			Analyses:    int(atomic.LoadUint64(&liveness.AnalysisCount)),
			Sweeps:      int(atomic.LoadUint64(&liveness.SweepCount)),
			BlockVisits: int(atomic.LoadUint64(&liveness.VisitCount)),
		},
		Queries: QueryStats{
			Point:        int(atomic.LoadUint64(&liveness.QueryCount)),
			FullLiveness: int(atomic.LoadUint64(&liveness.FullCount)),
			Kills:        int(atomic.LoadUint64(&liveness.KillCount)),
		},
	}
}
