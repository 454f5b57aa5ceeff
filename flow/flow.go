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

// Package flow implements the enter/exit simulation from spec.md §4.3: the
// mutually recursive pair of functions that answer "where does control
// land when we begin (or finish) executing this node?" under the
// structured semantics of the surrounding loops, conditions, blocks,
// switches and try/catch blocks. Neither function mutates the tree; both
// take the caller's visited set purely to detect cycles through labels.
package flow

import (
	"fmt"

	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/topology"
)

// Simulator runs enter/exit over a tree indexed by a single *topology.Index.
// It holds no other state; every call is a pure function of (node,
// visited, current tree shape).
type Simulator struct {
	idx *topology.Index
}

// NewSimulator returns a Simulator over idx.
func NewSimulator(idx *topology.Index) *Simulator {
	return &Simulator{idx: idx}
}

// Enter simulates where control lands when node begins executing. It
// returns (nil, nil) when the simulated path has no well-defined next
// point (a cycle, or control entering a forbidden region) - the
// classifier in package rewrite treats that as "this rule doesn't match",
// not as a failure.
func (s *Simulator) Enter(node ast.Node, visited *VisitedSet) (ast.Node, error) {
	if node == nil || ast.IsNull(node) {
		return nil, nil
	}
	if visited.Contains(node) {
		return nil, nil
	}
	visited.Mark(node)

	switch n := node.(type) {
	case *ast.Label:
		return s.Exit(n, visited)
	case *ast.Expression:
		if n.Code == ast.Goto {
			return s.enterGoto(n, visited)
		}
		return n, nil
	case *ast.Block:
		if n.EntryGoto != nil {
			return s.Enter(n.EntryGoto, visited)
		}
		if len(n.Body) == 0 {
			return s.Exit(n, visited)
		}
		return s.Enter(n.Body[0], visited)
	case *ast.Condition:
		return n.Cond, nil
	case *ast.Loop:
		if n.Cond != nil {
			return n.Cond, nil
		}
		return s.Enter(n.Body, visited)
	case *ast.TryCatchBlock:
		return n, nil
	case *ast.Switch:
		return n.Value, nil
	default:
		return nil, UnsupportedNode(node)
	}
}

// enterGoto implements the goto rule of spec.md §4.3: find where control
// lands when jumping to g's target label, accounting for try/catch
// boundaries that may not be jumped into except at their very start.
func (s *Simulator) enterGoto(g *ast.Expression, visited *VisitedSet) (ast.Node, error) {
	target, ok := g.Operand.(*ast.Label)
	if !ok || target == nil {
		return nil, nil
	}

	gTCB := topology.InnermostTryCatchBlock(s.idx, g)
	tTCB := topology.InnermostTryCatchBlock(s.idx, target)
	if gTCB == tTCB {
		return s.Enter(target, visited)
	}

	gChain := topology.TryCatchChain(s.idx, g)
	tChain := topology.TryCatchChain(s.idx, target)
	i := commonPrefixLen(gChain, tChain)
	if i == len(tChain) {
		// T's try-catch nesting is a prefix of (or equal to) G's: T lies in
		// an enclosing or identical set of try blocks.
		return s.Enter(target, visited)
	}

	ttb := tChain[i]
	return s.findTryEntry(ttb, target)
}

// findTryEntry walks tcb's try-body looking for target as a top-level
// label, skipping Nops, descending into a nested try if one intervenes.
// Any other intervening statement means the goto enters the middle of a
// try block, which has no structured representation.
func (s *Simulator) findTryEntry(tcb *ast.TryCatchBlock, target *ast.Label) (ast.Node, error) {
	for _, stmt := range tcb.Try.Body {
		if l, ok := stmt.(*ast.Label); ok && l == target {
			return tcb, nil
		}
		if e, ok := stmt.(*ast.Expression); ok && e.Code == ast.Nop {
			continue
		}
		if nested, ok := stmt.(*ast.TryCatchBlock); ok {
			return s.findTryEntry(nested, target)
		}
		return nil, nil
	}
	return nil, nil
}

// Exit simulates where control lands when node finishes executing
// normally.
func (s *Simulator) Exit(node ast.Node, visited *VisitedSet) (ast.Node, error) {
	parent := s.idx.Parent(node)
	if ast.IsNull(parent) {
		return nil, nil
	}

	switch p := parent.(type) {
	case *ast.Block:
		next := s.idx.NextSibling(node)
		if !ast.IsNull(next) && next != nil {
			return s.Enter(next, visited)
		}
		return s.Exit(p, visited)
	case *ast.CaseBlock:
		// Not named as a distinct parent kind in spec.md's exit table: a
		// case body shares a Block's nextSibling-chained fallthrough among
		// its own statements, but falling off the last statement reaches
		// exit(CaseBlock) whose own parent is the Switch, which returns
		// null below - so "no implicit fallthrough" still holds.
		next := s.idx.NextSibling(node)
		if !ast.IsNull(next) && next != nil {
			return s.Enter(next, visited)
		}
		return s.Exit(p, visited)
	case *ast.Condition:
		return s.Exit(p, visited)
	case *ast.TryCatchBlock:
		return s.Exit(p, visited)
	case *ast.CatchBlock:
		// Not named as a distinct parent kind in spec.md's exit table
		// either: a catch handler's completion falls through the same way
		// a try-block's does (finally ignored, entry forbidden), so it
		// gets the TryCatchBlock treatment.
		return s.Exit(p, visited)
	case *ast.Switch:
		return nil, nil
	case *ast.Loop:
		return s.Enter(p, visited)
	default:
		return nil, UnsupportedNode(parent)
	}
}

func commonPrefixLen(a, b []*ast.TryCatchBlock) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// unsupportedNodeError reports the unsupported-node-kind error from
// spec.md §7: enter/exit encountered a node variant the simulation does
// not know how to dispatch.
type unsupportedNodeError struct {
	node ast.Node
}

func (e *unsupportedNodeError) Error() string {
	return fmt.Sprintf("unsupported node kind in flow simulation: %T", e.node)
}

// UnsupportedNode builds the unsupported-node error for node. It
// corresponds to the unsupportedNode collaborator named in spec.md §6.
func UnsupportedNode(node ast.Node) error {
	return &unsupportedNodeError{node: node}
}
