// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package flow

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/topology"
)

// VisitedSet is the cycle-breaker enter/exit thread through one
// simulation: re-entering a node already in the set yields "no target"
// instead of recursing forever through a label/goto cycle. It is backed by
// a bitset over the topology's dense node ids rather than an
// identity-keyed map, since a single simulation marks a bounded,
// dense-ish subset of all nodes and bitset.Test/Set are allocation-free.
type VisitedSet struct {
	idx  *topology.Index
	bits *bitset.BitSet
}

// NewVisitedSet returns an empty visited set sized for idx's tree.
func NewVisitedSet(idx *topology.Index) *VisitedSet {
	return &VisitedSet{idx: idx, bits: bitset.New(uint(idx.NumNodes()))}
}

// Seeded returns a visited set pre-marked with seed. Package rewrite uses
// this for the "fresh visited set containing only G" that spec.md's
// classifier rules construct alongside the enter() call whose visited set
// starts empty.
func Seeded(idx *topology.Index, seed ast.Node) *VisitedSet {
	v := NewVisitedSet(idx)
	v.Mark(seed)
	return v
}

// Contains reports whether node is already in the set.
func (v *VisitedSet) Contains(node ast.Node) bool {
	id, ok := v.idx.NodeID(node)
	if !ok {
		return false
	}
	return v.bits.Test(uint(id))
}

// Mark adds node to the set.
func (v *VisitedSet) Mark(node ast.Node) {
	id, ok := v.idx.NodeID(node)
	if !ok {
		return
	}
	v.bits.Set(uint(id))
}
