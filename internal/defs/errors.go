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

package defs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidGraph = errors.New("invalid graph")
	ErrOutOfRange   = errors.New("out of range")
)

// GraphError occures when the control-flow graph handed to the analysis is
// malformed. Block and Target are -1 when they do not apply.
type GraphError struct {
	Block  int
	Target int
	Reason string
}

func (self GraphError) Error() string {
	if self.Target >= 0 {
		return fmt.Sprintf("InvalidGraph(bb_%d -> bb_%d): %s", self.Block, self.Target, self.Reason)
	} else if self.Block >= 0 {
		return fmt.Sprintf("InvalidGraph(bb_%d): %s", self.Block, self.Reason)
	} else {
		return fmt.Sprintf("InvalidGraph: %s", self.Reason)
	}
}

func (self GraphError) Is(err error) bool {
	return err == ErrInvalidGraph
}

// RangeError occures when an operand index or an instruction offset lies
// outside of the declared universe.
type RangeError struct {
	What  string
	Index int
	Limit int
}

func (self RangeError) Error() string {
	return fmt.Sprintf("OutOfRange(%s): %d is not within [0, %d)", self.What, self.Index, self.Limit)
}

func (self RangeError) Is(err error) bool {
	return err == ErrOutOfRange
}

func EGraph(reason string, args ...interface{}) GraphError {
	return GraphError{
		Block:  -1,
		Target: -1,
		Reason: fmt.Sprintf(reason, args...),
	}
}

func EBlock(bb int, reason string, args ...interface{}) GraphError {
	return GraphError{
		Block:  bb,
		Target: -1,
		Reason: fmt.Sprintf(reason, args...),
	}
}

func EEdge(bb int, to int, reason string, args ...interface{}) GraphError {
	return GraphError{
		Block:  bb,
		Target: to,
		Reason: fmt.Sprintf(reason, args...),
	}
}

func ERange(what string, index int, limit int) RangeError {
	return RangeError{
		What:  what,
		Index: index,
		Limit: limit,
	}
}
