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
	"github.com/cloudwego/regflow/internal/defs"
)

type (
	// GraphError occures when the control-flow graph is malformed.
	GraphError = defs.GraphError

	// RangeError occures when an operand index or an instruction offset is
	// outside of the declared universe.
	RangeError = defs.RangeError
)

var (
	// ErrInvalidGraph is matched by every GraphError.
	ErrInvalidGraph = defs.ErrInvalidGraph

	// ErrOutOfRange is matched by every RangeError.
	ErrOutOfRange = defs.ErrOutOfRange
)
