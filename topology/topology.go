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

// Package topology builds the identity-keyed parent/next-sibling/label maps
// the rest of the goto-elimination pass runs on. It is built once per
// invocation of gotoelim.RemoveGotos and discarded when that call returns;
// the maps are never updated incrementally, only rebuilt from scratch.
package topology

import (
	"fmt"

	"github.com/liachmodded/procyon/ast"
)

// Index holds the four topology maps described by spec.md §3, plus a dense
// node-id assignment used by the flow simulator's visited-set bitsets
// (package flow) and the cleanup pass's live-label bitset (package
// cleanup) - both want a compact set-of-nodes-seen-this-walk structure,
// and an identity-keyed map[ast.Node]bool is the wrong tool for that: it
// bucket-hashes on pointer value for every single insert in what is
// otherwise a dense, single-pass traversal.
type Index struct {
	parent         map[ast.Node]ast.Node
	nextSibling    map[ast.Node]ast.Node
	labelBefore    map[ast.Node]*ast.Label
	nodeAfterLabel map[*ast.Label]ast.Node
	ids            map[ast.Node]int
	nextID         int
}

// Build constructs an Index over the tree rooted at root by a single
// recursive descent over GetChildren(). It fails with an error wrapping
// ErrLinkedFromMultipleLocations if the same node is reachable as a child
// of two different parents.
func Build(root *ast.Block) (*Index, error) {
	idx := &Index{
		parent:         map[ast.Node]ast.Node{},
		nextSibling:    map[ast.Node]ast.Node{},
		labelBefore:    map[ast.Node]*ast.Label{},
		nodeAfterLabel: map[*ast.Label]ast.Node{},
		ids:            map[ast.Node]int{},
	}
	idx.assignID(root)
	idx.parent[root] = ast.NullNode
	if err := idx.index(root); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *Index) assignID(node ast.Node) {
	if _, ok := idx.ids[node]; ok {
		return
	}
	idx.ids[node] = idx.nextID
	idx.nextID++
}

func (idx *Index) index(node ast.Node) error {
	children := ast.GetChildren(node)

	var prev ast.Node
	for _, c := range children {
		if c == nil {
			continue
		}
		idx.assignID(c)
		if _, exists := idx.parent[c]; exists {
			return fmt.Errorf("indexing topology: %w", ErrLinkedFromMultipleLocations(c))
		}
		idx.parent[c] = node
		if prev != nil {
			idx.nextSibling[prev] = c
			if label, ok := prev.(*ast.Label); ok {
				idx.labelBefore[c] = label
				idx.nodeAfterLabel[label] = c
			}
		}
		prev = c
	}
	if prev != nil {
		idx.nextSibling[prev] = ast.NullNode
	}

	for _, c := range children {
		if c == nil {
			continue
		}
		if err := idx.index(c); err != nil {
			return err
		}
	}
	return nil
}

// Parent returns node's structural parent, or ast.NullNode for the method
// root and for a node that was never indexed.
func (idx *Index) Parent(node ast.Node) ast.Node {
	if p, ok := idx.parent[node]; ok {
		return p
	}
	return ast.NullNode
}

// NextSibling returns the child immediately following node under the same
// parent, or ast.NullNode if node was the last child or was never indexed.
func (idx *Index) NextSibling(node ast.Node) ast.Node {
	if s, ok := idx.nextSibling[node]; ok {
		return s
	}
	return ast.NullNode
}

// LabelBefore returns the label immediately preceding node among its
// siblings, and whether one exists.
func (idx *Index) LabelBefore(node ast.Node) (*ast.Label, bool) {
	l, ok := idx.labelBefore[node]
	return l, ok
}

// NodeAfterLabel returns the node immediately following label among its
// siblings, and whether one exists.
func (idx *Index) NodeAfterLabel(label *ast.Label) (ast.Node, bool) {
	n, ok := idx.nodeAfterLabel[label]
	return n, ok
}

// NodeID returns the dense id assigned to node during Build, and whether
// node was reachable from the root (and therefore has one).
func (idx *Index) NodeID(node ast.Node) (int, bool) {
	id, ok := idx.ids[node]
	return id, ok
}

// NumNodes returns the number of nodes indexed, i.e. one past the largest
// id handed out.
func (idx *Index) NumNodes() int {
	return idx.nextID
}

// linkedFromMultipleLocationsError reports the structural-violation error
// from spec.md §7: the same node reachable as a child of two parents.
type linkedFromMultipleLocationsError struct {
	node ast.Node
}

func (e *linkedFromMultipleLocationsError) Error() string {
	return fmt.Sprintf("expression linked from multiple locations: %T at %p", e.node, e.node)
}

// ErrLinkedFromMultipleLocations builds the structural-violation error for
// node. It corresponds to the expressionLinkedFromMultipleLocations
// collaborator named in spec.md §6.
func ErrLinkedFromMultipleLocations(node ast.Node) error {
	return &linkedFromMultipleLocationsError{node: node}
}

// IsLinkedFromMultipleLocations reports whether err is (or wraps) the
// structural-violation error this package raises.
func IsLinkedFromMultipleLocations(err error) bool {
	var target *linkedFromMultipleLocationsError
	return asLinked(err, &target)
}

func asLinked(err error, target **linkedFromMultipleLocationsError) bool {
	for err != nil {
		if le, ok := err.(*linkedFromMultipleLocationsError); ok {
			*target = le
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
