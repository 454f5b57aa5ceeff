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

// Package cleanup implements the seven-step dead-code cleanup pass of
// spec.md §4.6: dead labels, nops/leaves, redundant trailing loop
// continues, switch case pruning, a trailing empty return, and unreachable
// statements after unconditional control flow - the last of which signals
// the driver (package gotoelim) to re-run the whole pass.
package cleanup

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/slices"

	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/topology"
)

// RemoveRedundantCode runs the seven cleanup steps over root using idx (the
// topology already built for this invocation of the pass) and reports
// whether step 6 deleted any unreachable statement - the signal package
// gotoelim uses to decide whether to rebuild topology and re-run the pass.
func RemoveRedundantCode(idx *topology.Index, root *ast.Block) bool {
	live := collectLiveLabels(idx, root)
	prune(idx, root, live)
	removeTrailingLoopContinues(root)
	cleanSwitches(root)
	removeTrailingEmptyReturn(root)
	return removeUnreachableStatements(root)
}

// collectLiveLabels performs step 1: folding finally/single-catch-entry
// gotos to Leave in place, and otherwise recording every branch target as
// live. The live set is a bitset over the topology's dense node ids (the
// same id space package flow's visited sets use), since this is, like
// those, a dense single-pass membership test built once and queried many
// times.
func collectLiveLabels(idx *topology.Index, root *ast.Block) *bitset.BitSet {
	live := bitset.New(uint(idx.NumNodes()))

	branches := ast.GetSelfAndChildrenRecursive(root, func(n ast.Node) bool {
		e, ok := n.(*ast.Expression)
		return ok && e.IsBranch()
	})

	for _, n := range branches {
		e := n.(*ast.Expression)
		targets := e.GetBranchTargets()
		if e.Code == ast.Goto && len(targets) == 1 {
			target := targets[0]
			if isFinallyEntry(idx, target) || isSoleCatchEntry(idx, target) {
				e.SetCode(ast.Leave)
				e.SetOperand(nil)
				continue
			}
		}
		for _, l := range targets {
			markLive(idx, live, l)
		}
	}
	return live
}

func markLive(idx *topology.Index, live *bitset.BitSet, l *ast.Label) {
	if id, ok := idx.NodeID(l); ok {
		live.Set(uint(id))
	}
}

func isLabelLive(idx *topology.Index, live *bitset.BitSet, l *ast.Label) bool {
	id, ok := idx.NodeID(l)
	return ok && live.Test(uint(id))
}

func isFinallyEntry(idx *topology.Index, target *ast.Label) bool {
	parentBlock, ok := idx.Parent(target).(*ast.Block)
	if !ok || len(parentBlock.Body) == 0 || parentBlock.Body[0] != ast.Node(target) {
		return false
	}
	tcb, ok := idx.Parent(parentBlock).(*ast.TryCatchBlock)
	return ok && tcb.Finally == parentBlock
}

func isSoleCatchEntry(idx *topology.Index, target *ast.Label) bool {
	parentBlock, ok := idx.Parent(target).(*ast.Block)
	if !ok || len(parentBlock.Body) == 0 || parentBlock.Body[0] != ast.Node(target) {
		return false
	}
	catchBlock, ok := idx.Parent(parentBlock).(*ast.CatchBlock)
	if !ok {
		return false
	}
	tcb, ok := idx.Parent(catchBlock).(*ast.TryCatchBlock)
	if !ok || tcb.Finally != nil || len(tcb.Catches) != 1 {
		return false
	}
	return tcb.Catches[0] == catchBlock
}

// prune performs step 2: from every Block, CaseBlock and CatchBlock body in
// the tree, remove Nop expressions, Leave expressions, and any Label not in
// the live set.
func prune(idx *topology.Index, root *ast.Block, live *bitset.BitSet) {
	walkBodies(root, func(body []ast.Node) []ast.Node {
		return filterStatements(body, func(n ast.Node) bool {
			if ast.Match(n, ast.Nop) || ast.Match(n, ast.Leave) {
				return false
			}
			if l, ok := n.(*ast.Label); ok {
				return isLabelLive(idx, live, l)
			}
			return true
		})
	})
}

// removeTrailingLoopContinues performs step 3: if a Loop's body ends with
// LoopContinue, drop that last statement (it is implied by simply falling
// off the loop body).
func removeTrailingLoopContinues(root *ast.Block) {
	ast.Walk(root, func(n ast.Node) bool {
		loop, ok := n.(*ast.Loop)
		if !ok {
			return true
		}
		body := loop.Body.Body
		if len(body) > 0 && ast.Match(body[len(body)-1], ast.LoopContinue) {
			loop.Body.SetBody(body[:len(body)-1])
		}
		return true
	})
}

// cleanSwitches performs step 4 over every Switch in the tree.
func cleanSwitches(root *ast.Block) {
	ast.Walk(root, func(n ast.Node) bool {
		sw, ok := n.(*ast.Switch)
		if !ok {
			return true
		}

		for _, c := range sw.Cases {
			body := c.Body
			if len(body) >= 2 &&
				isUnconditionalControlFlow(body[len(body)-2]) &&
				ast.Match(body[len(body)-1], ast.LoopOrSwitchBreak) {
				c.SetBody(body[:len(body)-1])
			}
		}

		var def *ast.CaseBlock
		for _, c := range sw.Cases {
			if len(c.Values) == 0 {
				def = c
				break
			}
		}
		// Dropping a case whose body is just a break only preserves behavior
		// if falling into default (or off the switch, with no default at
		// all) already does the same nothing - so the sweep, including of
		// default itself, only runs when that holds.
		if def == nil || isSoleUnlabeledBreakBody(def.Body) {
			kept := sw.Cases[:0]
			for _, c := range sw.Cases {
				if isSoleUnlabeledBreakBody(c.Body) {
					continue
				}
				kept = append(kept, c)
			}
			sw.SetCaseBlocks(kept)
		}
		return true
	})
}

func isUnconditionalControlFlow(n ast.Node) bool {
	e, ok := n.(*ast.Expression)
	return ok && e.IsUnconditionalControlFlow()
}

func isUnlabeledBreak(n ast.Node) bool {
	e, ok := n.(*ast.Expression)
	return ok && e.Code == ast.LoopOrSwitchBreak && e.Operand == nil
}

func isSoleUnlabeledBreakBody(body []ast.Node) bool {
	return len(body) == 1 && isUnlabeledBreak(body[0])
}

// removeTrailingEmptyReturn performs step 5: if root's last statement is an
// argument-less Return, drop it.
func removeTrailingEmptyReturn(root *ast.Block) {
	body := root.Body
	if len(body) == 0 {
		return
	}
	if e, ok := body[len(body)-1].(*ast.Expression); ok && e.Code == ast.Return && len(e.Arguments) == 0 {
		root.SetBody(body[:len(body)-1])
	}
}

// removeUnreachableStatements performs step 6 over every Block, CaseBlock
// and CatchBlock body: whenever statement i is unconditional control flow
// and statement i+1 is Return or AThrow, delete i+1. It reports whether any
// deletion occurred.
func removeUnreachableStatements(root *ast.Block) bool {
	deleted := false
	walkBodies(root, func(body []ast.Node) []ast.Node {
		for i := 0; i+1 < len(body); {
			if !isUnconditionalControlFlow(body[i]) {
				i++
				continue
			}
			next, ok := body[i+1].(*ast.Expression)
			if !ok || (next.Code != ast.Return && next.Code != ast.AThrow) {
				i++
				continue
			}
			// Don't advance i: the statement now at i+1 (previously i+2)
			// may itself be unreachable behind the same unconditional
			// statement and needs the same check.
			body = slices.Delete(body, i+1, i+2)
			deleted = true
		}
		return body
	})
	return deleted
}

// walkBodies applies rewrite to the statement slice of every Block,
// CaseBlock and CatchBlock's Block in the tree, writing the result back in
// place, then recurses into the (possibly rewritten) children.
func walkBodies(node ast.Node, rewrite func([]ast.Node) []ast.Node) {
	switch n := node.(type) {
	case *ast.Block:
		n.SetBody(rewrite(n.Body))
	case *ast.CaseBlock:
		n.SetBody(rewrite(n.Body))
	}
	for _, c := range ast.GetChildren(node) {
		walkBodies(c, rewrite)
	}
}

// filterStatements returns the statements in body for which keep is true,
// preserving order.
func filterStatements(body []ast.Node, keep func(ast.Node) bool) []ast.Node {
	out := body[:0]
	for _, n := range body {
		if keep(n) {
			out = append(out, n)
		}
	}
	return out
}
