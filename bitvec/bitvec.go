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

// Package bitvec provides a fixed-capacity bit vector over an operand-index
// universe.
//
// A BitSet never grows: its capacity is decided by New and every index handed
// to it must lie within [0, Len()). Violations are programming errors and
// panic with a value matching ErrOutOfRange.
package bitvec

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/cloudwego/regflow/internal/defs"
)

// ErrOutOfRange is matched by the panic value of every out-of-range access.
var ErrOutOfRange = defs.ErrOutOfRange

// BitSet is a fixed-capacity set of operand indices.
type BitSet struct {
	n int
	b *bitset.BitSet
}

// New creates an empty BitSet able to hold indices in [0, n).
func New(n int) *BitSet {
	if n < 0 {
		panic(defs.ERange("capacity", n, 0))
	} else {
		return &BitSet{n: n, b: bitset.New(uint(n))}
	}
}

// Of creates a BitSet of capacity n containing the given indices.
func Of(n int, indices ...int) *BitSet {
	ret := New(n)
	for _, i := range indices {
		ret.Set(i)
	}
	return ret
}

func (self *BitSet) check(i int) uint {
	if i < 0 || i >= self.n {
		panic(defs.ERange("operand", i, self.n))
	} else {
		return uint(i)
	}
}

func (self *BitSet) same(other *BitSet) {
	if other.n != self.n {
		panic(fmt.Sprintf("bitvec: capacity mismatch: %d and %d", self.n, other.n))
	}
}

// Len returns the capacity of the set.
func (self *BitSet) Len() int {
	return self.n
}

func (self *BitSet) Set(i int) {
	self.b.Set(self.check(i))
}

func (self *BitSet) Clear(i int) {
	self.b.Clear(self.check(i))
}

func (self *BitSet) Test(i int) bool {
	return self.b.Test(self.check(i))
}

// UnionWith adds every index of other into the set, and reports whether the
// set has changed.
func (self *BitSet) UnionWith(other *BitSet) bool {
	self.same(other)
	nb := self.b.Count()
	self.b.InPlaceUnion(other.b)
	return self.b.Count() != nb
}

// Subtract removes every index of other from the set, and reports whether the
// set has changed.
func (self *BitSet) Subtract(other *BitSet) bool {
	self.same(other)
	nb := self.b.Count()
	self.b.InPlaceDifference(other.b)
	return self.b.Count() != nb
}

func (self *BitSet) Intersects(other *BitSet) bool {
	self.same(other)
	return self.b.IntersectionCardinality(other.b) != 0
}

func (self *BitSet) Equal(other *BitSet) bool {
	return self.n == other.n && self.b.Equal(other.b)
}

// IsSubsetOf reports whether every index of the set is also in other.
func (self *BitSet) IsSubsetOf(other *BitSet) bool {
	self.same(other)
	return self.b.IntersectionCardinality(other.b) == self.b.Count()
}

func (self *BitSet) Any() bool {
	return self.b.Any()
}

func (self *BitSet) Count() int {
	return int(self.b.Count())
}

// Reset clears every index.
func (self *BitSet) Reset() {
	self.b.ClearAll()
}

// CopyFrom overwrites the set with the contents of other.
func (self *BitSet) CopyFrom(other *BitSet) {
	self.same(other)
	other.b.Copy(self.b)
}

func (self *BitSet) Clone() *BitSet {
	return &BitSet{n: self.n, b: self.b.Clone()}
}

// All returns the set indices in ascending order. The sequence is evaluated
// lazily and may be ranged over any number of times.
func (self *BitSet) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, ok := self.b.NextSet(0); ok && i < uint(self.n); i, ok = self.b.NextSet(i + 1) {
			if !yield(int(i)) {
				return
			}
		}
	}
}

// ForEach calls fn with every set index in ascending order until fn returns
// false.
func (self *BitSet) ForEach(fn func(i int) bool) {
	for i := range self.All() {
		if !fn(i) {
			return
		}
	}
}

// Indices returns the set indices in ascending order.
func (self *BitSet) Indices() []int {
	ret := make([]int, 0, self.Count())
	for i := range self.All() {
		ret = append(ret, i)
	}
	return ret
}

func (self *BitSet) String() string {
	nb := self.Count()
	rs := make([]string, 0, nb)

	/* convert every index */
	for i := range self.All() {
		rs = append(rs, strconv.Itoa(i))
	}

	/* join them together */
	return fmt.Sprintf(
		"{%s}",
		strings.Join(rs, ", "),
	)
}
