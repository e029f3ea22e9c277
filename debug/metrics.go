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
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "regflow"

type _Counter struct {
	desc *prometheus.Desc
	load func(s *Stats) int
}

func counter(name string, help string, load func(s *Stats) int) _Counter {
	return _Counter{
		desc: prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil),
		load: load,
	}
}

var counters = [...]_Counter{
	counter("analyses_total", "Number of completed liveness analyses.", func(s *Stats) int { return s.Engine.Analyses }),
	counter("sweeps_total", "Number of full sweeps over all blocks.", func(s *Stats) int { return s.Engine.Sweeps }),
	counter("block_visits_total", "Number of block updates in the fixpoint.", func(s *Stats) int { return s.Engine.BlockVisits }),
	counter("point_queries_total", "Number of single offset live set queries.", func(s *Stats) int { return s.Queries.Point }),
	counter("full_liveness_total", "Number of full liveness computations.", func(s *Stats) int { return s.Queries.FullLiveness }),
	counter("kills_total", "Number of kill set computations.", func(s *Stats) int { return s.Queries.Kills }),
}

// Collector exports the statistics returned by GetStats as Prometheus
// counters.
type Collector struct{}

// NewCollector creates a Collector, which is to be registered by the caller.
func NewCollector() *Collector {
	return new(Collector)
}

func (self *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range counters {
		ch <- c.desc
	}
}

func (self *Collector) Collect(ch chan<- prometheus.Metric) {
	st := GetStats()
	for _, c := range counters {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(c.load(&st)))
	}
}
