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

package liveness

import (
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/regflow/bitvec"
	"github.com/cloudwego/regflow/internal/defs"
	"github.com/cloudwego/regflow/internal/opts"
)

func analyze(t *testing.T, lens []int, edges [][2]int, p _Prog, o opts.Options) *Analysis {
	lv, err := New(graphOf(t, lens, edges), p, o)
	require.NoError(t, err)
	return lv
}

func mustIndices(s *bitvec.BitSet, err error) []int {
	if err != nil {
		panic(err)
	}
	return s.Indices()
}

func TestLiveness_DefBeforeUse(t *testing.T) {
	p := _Prog{ins(r(0), r(0))}
	lv := analyze(t, []int{1}, nil, p, options(4))
	require.Equal(t, []int{0}, mustIndices(lv.LiveSetAt(0)))
	require.Equal(t, []int{0}, mustIndices(lv.LiveIn(0)))
	require.Empty(t, mustIndices(lv.LiveOut(0)))
}

func TestLiveness_TwoBlocks(t *testing.T) {
	p := _Prog{
		ins(r(1), nil),
		ins(nil, r(1)),
	}
	lv := analyze(t, []int{1, 1}, [][2]int{{0, 1}}, p, options(4))
	require.Equal(t, []int{1}, mustIndices(lv.LiveOut(0)))
	require.Empty(t, mustIndices(lv.LiveIn(0)))
	require.Equal(t, []int{1}, mustIndices(lv.LiveIn(1)))
	require.Empty(t, mustIndices(lv.LiveOut(1)))

	k, err := lv.ComputeKills().KilledAt(1)
	require.NoError(t, err)
	require.Equal(t, []int{1}, k.Indices())
	k, err = lv.ComputeKills().KilledAt(0)
	require.NoError(t, err)
	require.False(t, k.Any())
}

func TestLiveness_DisjointBranches(t *testing.T) {
	p := _Prog{
		ins(r(2), nil),
		ins(nil, r(2)),
		ins(r(3), nil),
	}
	lv := analyze(t, []int{1, 1, 1}, [][2]int{{0, 1}, {0, 2}}, p, options(4))
	out, err := lv.LiveOut(0)
	require.NoError(t, err)
	require.True(t, out.Test(2))
	require.Empty(t, mustIndices(lv.LiveIn(2)))
	require.Equal(t, []int{2}, mustIndices(lv.LiveIn(1)))

	ok, err := lv.OperandIsLiveAt(2, 1)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = lv.OperandIsLiveAt(2, 2)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestLiveness_EmptyBlock(t *testing.T) {
	p := _Prog{
		ins(r(3), nil),
		ins(nil, r(3)),
	}
	lv := analyze(t, []int{1, 0, 1}, [][2]int{{0, 1}, {1, 2}}, p, options(4))
	in := mustIndices(lv.LiveIn(1))
	require.Equal(t, []int{3}, in)
	require.Equal(t, in, mustIndices(lv.LiveOut(1)))
}

func TestLiveness_SelfLoop(t *testing.T) {
	p := _Prog{
		ins(r(1), r(1, 2)),
		ins(r(3), r(0)),
	}
	lv := analyze(t, []int{2}, [][2]int{{0, 0}}, p, options(4))
	require.Equal(t, []int{0, 1, 2}, mustIndices(lv.LiveIn(0)))
	require.Equal(t, []int{0, 1, 2}, mustIndices(lv.LiveOut(0)))
	require.LessOrEqual(t, lv.Sweeps(), 4*1+1)
}

func TestLiveness_AlwaysLive(t *testing.T) {
	p := _Prog{
		ins(r(0, 2), nil),
		ins(nil, r(2)),
		ins(r(0), nil),
	}
	lv := analyze(t, []int{2, 1}, [][2]int{{0, 1}}, p, options(4, 0))
	for pc := 0; pc < len(p); pc++ {
		live, err := lv.LiveSetAt(pc)
		require.NoError(t, err)
		require.True(t, lv.AlwaysLive().IsSubsetOf(live), "pc = %d", pc)
	}
	for bb := 0; bb < lv.BlockCount(); bb++ {
		require.True(t, mustIndices(lv.LiveIn(bb))[0] == 0)
		require.True(t, mustIndices(lv.LiveOut(bb))[0] == 0)
	}
	kills := lv.ComputeKills()
	for pc := 0; pc < kills.Len(); pc++ {
		ok, err := kills.OperandIsKilledAt(0, pc)
		require.NoError(t, err)
		require.False(t, ok)
	}
}

func TestLiveness_Monotonicity(t *testing.T) {
	/* bb0 -> bb1 -> bb2 -> bb1, bb2 -> bb3, processed in an unfavourable order */
	p := _Prog{
		ins(r(0, 1, 2), nil),
		ins(r(3), r(1)),
		ins(r(1), r(2, 3)),
		ins(nil, r(0)),
	}
	g := graphOf(t, []int{1, 1, 1, 1}, [][2]int{{0, 1}, {1, 2}, {2, 1}, {2, 3}})
	lv, err := prepare(g, p, options(4))
	require.NoError(t, err)

	var prev [][2]*bitvec.BitSet
	lv.order = []int{0, 1, 2, 3}
	lv.hook = func(sweep int) {
		snap := make([][2]*bitvec.BitSet, len(lv.blocks))
		for bb, st := range lv.blocks {
			snap[bb] = [2]*bitvec.BitSet{st.in.Clone(), st.out.Clone()}
			if prev != nil {
				require.True(t, prev[bb][0].IsSubsetOf(st.in), "sweep %d live-in of bb_%d shrinks", sweep, bb)
				require.True(t, prev[bb][1].IsSubsetOf(st.out), "sweep %d live-out of bb_%d shrinks", sweep, bb)
			}
		}
		prev = snap
	}

	lv.solve()
	require.Greater(t, lv.Sweeps(), 2)
	require.Equal(t, []int{0, 1, 2}, mustIndices(lv.LiveIn(1)))
	require.Equal(t, []int{0}, mustIndices(lv.LiveIn(3)))
}

func TestLiveness_Errors(t *testing.T) {
	g := graphOf(t, []int{1}, nil)

	t.Run("operand count", func(t *testing.T) {
		o := options(4)
		o.OperandCount = -1
		_, err := New(g, _Prog{ins(nil, nil)}, o)
		require.Error(t, err)
	})

	t.Run("decoded operand", func(t *testing.T) {
		_, err := New(g, _Prog{ins(nil, r(4))}, options(4))
		require.True(t, errors.Is(err, defs.ErrOutOfRange), err)
		_, err = New(g, _Prog{ins(r(-1), nil)}, options(4))
		require.True(t, errors.Is(err, defs.ErrOutOfRange), err)
	})

	t.Run("always-live operand", func(t *testing.T) {
		_, err := New(g, _Prog{ins(nil, nil)}, options(4, 9))
		require.True(t, errors.Is(err, defs.ErrOutOfRange), err)
	})

	t.Run("invalid graph", func(t *testing.T) {
		bad := *g
		bad.Blocks = append(bad.Blocks[:0:0], bad.Blocks...)
		bad.Blocks[0].Succs = []int{5}
		_, err := New(&bad, _Prog{ins(nil, nil)}, options(4))
		require.True(t, errors.Is(err, defs.ErrInvalidGraph), err)
	})

	t.Run("queries", func(t *testing.T) {
		lv, err := New(g, _Prog{ins(nil, nil)}, options(4))
		require.NoError(t, err)
		_, err = lv.LiveSetAt(1)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
		_, err = lv.LiveSetAt(-1)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
		_, err = lv.OperandIsLiveAt(4, 0)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
		_, err = lv.LiveIn(1)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
		_, err = lv.ComputeFullLiveness().LiveAt(1)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
		_, err = lv.ComputeKills().OperandIsKilledAt(0, 3)
		require.True(t, errors.Is(err, defs.ErrOutOfRange))
	})
}

func TestLiveness_CheckDetectsCorruption(t *testing.T) {
	p := _Prog{ins(nil, r(1)), ins(nil, r(2))}
	lv := analyze(t, []int{1, 1}, [][2]int{{0, 1}}, p, options(4))
	lv.blocks[0].out.Clear(2)
	require.Panics(t, lv.check)
}

func TestLiveness_RandomGraphs(t *testing.T) {
	for seed := int64(1); seed <= 200; seed++ {
		checkRandom(t, seed)
	}
}

func FuzzLiveness(f *testing.F) {
	for seed := int64(1); seed <= 8; seed++ {
		f.Add(seed)
	}
	f.Fuzz(checkRandom)
}

// checkRandom analyses a random graph with every schedule, and compares the
// results against each other and against the naive solution.
func checkRandom(t *testing.T, seed int64) {
	rc := randomCase(t, seed)
	want := naiveLiveness(rc.g, rc.p, rc.n, rc.a)
	base := (*Analysis)(nil)

	for _, sched := range []opts.Schedule{ScheduleSweep, ScheduleWorklist, ScheduleSCC} {
		o := options(rc.n, rc.a...)
		o.Schedule = sched
		lv, err := New(rc.g, rc.p, o)
		require.NoError(t, err)

		full := lv.ComputeFullLiveness()
		kills := lv.ComputeKills()

		for pc := 0; pc < full.Len(); pc++ {
			point, err := lv.LiveSetAt(pc)
			require.NoError(t, err)
			batch, err := full.LiveAt(pc)
			require.NoError(t, err)

			/* batch and point queries agree exactly */
			if !point.Equal(batch) {
				t.Fatalf("seed %d pc %d: batch %s != point %s\n%s", seed, pc, batch, point, spew.Sdump(rc.p))
			}

			/* and both agree with the naive solution */
			if diff := cmp.Diff(want[pc], point.Indices()); diff != "" {
				t.Fatalf("seed %d pc %d (%s): mismatch (-want +got):\n%s", seed, pc, sched, diff)
			}

			/* kills are live before, and dead after */
			k, err := kills.KilledAt(pc)
			require.NoError(t, err)
			require.True(t, k.IsSubsetOf(point))
			require.False(t, k.Intersects(liveAfter(t, lv, full, pc)))
			require.False(t, k.Intersects(lv.AlwaysLive()))
		}

		/* every schedule converges to the same boundary sets */
		if base == nil {
			base = lv
			continue
		}
		for bb := 0; bb < lv.BlockCount(); bb++ {
			require.Equal(t, mustIndices(base.LiveIn(bb)), mustIndices(lv.LiveIn(bb)), "seed %d bb_%d", seed, bb)
			require.Equal(t, mustIndices(base.LiveOut(bb)), mustIndices(lv.LiveOut(bb)), "seed %d bb_%d", seed, bb)
		}
	}
}

func liveAfter(t *testing.T, lv *Analysis, full *FullLiveness, pc int) *bitvec.BitSet {
	st, err := lv.locate(pc)
	require.NoError(t, err)
	if pc == st.end-1 {
		return st.out
	}
	next, err := full.LiveAt(pc + 1)
	require.NoError(t, err)
	return next
}
