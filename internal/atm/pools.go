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

package atm

import (
	"sync"
)

var (
	builderPool      sync.Pool
	graphBuilderPool sync.Pool
)

func newProgramBuilder() *ProgramBuilder {
	if v := builderPool.Get(); v == nil {
		return allocProgramBuilder()
	} else {
		return resetProgramBuilder(v.(*ProgramBuilder))
	}
}

func freeProgramBuilder(p *ProgramBuilder) {
	builderPool.Put(p)
}

func allocProgramBuilder() (p *ProgramBuilder) {
	p = new(ProgramBuilder)
	p.refs = make(map[string]int, 64)
	p.pends = make(map[string][]_Patch, 64)
	return
}

func resetProgramBuilder(p *ProgramBuilder) *ProgramBuilder {
	p.i = 0
	p.buf = nil
	for k := range p.refs {
		delete(p.refs, k)
	}
	for k := range p.pends {
		delete(p.pends, k)
	}
	return p
}

func newGraphBuilder() *GraphBuilder {
	if v := graphBuilderPool.Get(); v == nil {
		return allocGraphBuilder()
	} else {
		return resetGraphBuilder(v.(*GraphBuilder))
	}
}

func freeGraphBuilder(p *GraphBuilder) {
	graphBuilderPool.Put(p)
}

func allocGraphBuilder() (p *GraphBuilder) {
	p = new(GraphBuilder)
	p.Pin = make(map[int]bool)
	return
}

func resetGraphBuilder(p *GraphBuilder) *GraphBuilder {
	for k := range p.Pin {
		delete(p.Pin, k)
	}
	return p
}
