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
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	countdown(t)
	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(NewCollector())
	require.Equal(t, len(counters), testutil.CollectAndCount(NewCollector()))

	/* every counter is exported, and the analysis above is accounted for */
	mfs, err := reg.Gather()
	require.NoError(t, err)
	vals := make(map[string]float64, len(mfs))
	for _, mf := range mfs {
		require.Len(t, mf.GetMetric(), 1)
		vals[mf.GetName()] = mf.GetMetric()[0].GetCounter().GetValue()
	}
	require.Len(t, vals, len(counters))
	require.GreaterOrEqual(t, vals["regflow_analyses_total"], 1.0)
	require.GreaterOrEqual(t, vals["regflow_block_visits_total"], 1.0)
	require.Contains(t, vals, "regflow_kills_total")
}
