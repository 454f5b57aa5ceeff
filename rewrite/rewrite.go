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

// Package rewrite implements the goto classifier (spec.md §4.4) and the
// leave transform (spec.md §4.5): the rules that turn a Goto expression
// into a Nop, a LoopOrSwitchBreak, a LoopContinue, an inlined Return/AThrow,
// or leave it untouched, using package flow's enter/exit simulation to
// decide which rule (if any) applies.
package rewrite

import (
	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/flow"
	"github.com/liachmodded/procyon/topology"
)

// TrySimplifyGoto attempts, in order, the six rewrites of spec.md §4.4 on
// the goto expression g. It reports whether g was rewritten; false with a
// nil error means no rule matched and g remains a goto.
func TrySimplifyGoto(idx *topology.Index, sim *flow.Simulator, g *ast.Expression) (bool, error) {
	if g.Code != ast.Goto {
		return false, nil
	}
	gotoLabel, _ := g.Operand.(*ast.Label)

	target, err := sim.Enter(g, flow.NewVisitedSet(idx))
	if err != nil {
		return false, err
	}
	if target == nil {
		// enter(G) has no well-defined next point (a cycle through G's own
		// label chain, a jump into the middle of a try block, or a path
		// that leaves the method). None of rules 1-5 compare
		// against a real node in that case - a nil on both sides of one of
		// their equality checks would be an accidental match, not a
		// genuine one - so the goto stays a goto.
		return false, nil
	}

	// Rule 1: natural fall-through.
	exitTarget, err := sim.Exit(g, flow.Seeded(idx, g))
	if err != nil {
		return false, err
	}
	if target == exitTarget {
		foldToNop(g, target)
		return true, nil
	}

	// Rule 2: redundant jump into an enclosing finally.
	matched, err := tryFinallyNop(idx, sim, g, target)
	if err != nil {
		return false, err
	}
	if matched {
		return true, nil
	}

	// Rule 3: break.
	matched, err = tryBreak(idx, sim, g, target, gotoLabel)
	if err != nil {
		return false, err
	}
	if matched {
		return true, nil
	}

	// Rule 4: continue.
	matched, err = tryContinue(idx, sim, g, target)
	if err != nil {
		return false, err
	}
	if matched {
		return true, nil
	}

	// Rule 5: inline return/throw.
	if tryInlineReturnOrThrow(idx, g, target) {
		return true, nil
	}

	// Rule 6: stays a goto.
	return false, nil
}

func foldToNop(g *ast.Expression, target ast.Node) {
	g.SetCode(ast.Nop)
	g.SetOperand(nil)
	if targetExpr, ok := target.(*ast.Expression); ok {
		targetExpr.MergeRanges(g)
	}
	g.SetRanges(nil)
}

func tryFinallyNop(idx *topology.Index, sim *flow.Simulator, g *ast.Expression, target ast.Node) (bool, error) {
	matched := false
	var rerr error
	topology.WalkAncestors(idx, g, topology.IsTryCatchBlock, func(n ast.Node) bool {
		tcb := n.(*ast.TryCatchBlock)
		if tcb.Finally == nil {
			return true
		}
		ft, err := sim.Enter(tcb.Finally, flow.Seeded(idx, g))
		if err != nil {
			rerr = err
			return false
		}
		if ft == target {
			foldToNop(g, target)
			matched = true
			return false
		}
		return true
	})
	return matched, rerr
}

func tryBreak(idx *topology.Index, sim *flow.Simulator, g *ast.Expression, target ast.Node, gotoLabel *ast.Label) (bool, error) {
	loopDepth, switchDepth := 0, 0
	var breakAncestor ast.Node
	var rerr error

	topology.WalkAncestors(idx, g, nil, func(n ast.Node) bool {
		switch anc := n.(type) {
		case *ast.Loop:
			loopDepth++
			e, err := sim.Exit(anc, flow.Seeded(idx, g))
			if err != nil {
				rerr = err
				return false
			}
			if e == target {
				breakAncestor = anc
				return false
			}
			if tcb, ok := e.(*ast.TryCatchBlock); ok {
				fe, err := sim.Enter(tcb.Try, flow.Seeded(idx, g))
				if err != nil {
					rerr = err
					return false
				}
				if fe == target {
					breakAncestor = anc
					return false
				}
			}
		case *ast.Switch:
			switchDepth++
			next := idx.NextSibling(anc)
			if lbl, ok := next.(*ast.Label); ok && gotoLabel != nil && lbl == gotoLabel {
				breakAncestor = anc
				return false
			}
		}
		return true
	})
	if rerr != nil {
		return false, rerr
	}
	if breakAncestor == nil {
		return false, nil
	}

	g.SetCode(ast.LoopOrSwitchBreak)
	if loopDepth+switchDepth > 1 {
		g.SetOperand(gotoLabel)
	} else {
		g.SetOperand(nil)
	}
	return true, nil
}

func tryContinue(idx *topology.Index, sim *flow.Simulator, g *ast.Expression, target ast.Node) (bool, error) {
	loopDepth := 0
	var continueLoop *ast.Loop
	var rerr error

	topology.WalkAncestors(idx, g, topology.IsLoop, func(n ast.Node) bool {
		loop := n.(*ast.Loop)
		loopDepth++
		en, err := sim.Enter(loop, flow.Seeded(idx, g))
		if err != nil {
			rerr = err
			return false
		}
		if en == target {
			continueLoop = loop
			return false
		}
		if tcb, ok := en.(*ast.TryCatchBlock); ok {
			fe, err := sim.Enter(tcb.Try, flow.Seeded(idx, g))
			if err != nil {
				rerr = err
				return false
			}
			if fe == target {
				continueLoop = loop
				return false
			}
		}
		return true
	})
	if rerr != nil {
		return false, rerr
	}
	if continueLoop == nil {
		return false, nil
	}

	gotoLabel, _ := g.Operand.(*ast.Label)
	g.SetCode(ast.LoopContinue)
	if loopDepth > 1 {
		g.SetOperand(gotoLabel)
	} else {
		g.SetOperand(nil)
	}
	return true, nil
}

func tryInlineReturnOrThrow(idx *topology.Index, g *ast.Expression, target ast.Node) bool {
	for _, code := range [...]ast.AstCode{ast.Return, ast.AThrow} {
		if e, ok := target.(*ast.Expression); ok && e.Code == code && len(e.Arguments) <= 1 {
			g.SetCode(code)
			g.SetOperand(nil)
			if len(e.Arguments) == 1 {
				g.SetArguments([]*ast.Expression{e.Arguments[0].Clone()})
			} else {
				g.SetArguments(nil)
			}
			return true
		}

		storeExpr, ok := target.(*ast.Expression)
		if !ok || storeExpr.Code != ast.Store || len(storeExpr.Arguments) != 1 {
			continue
		}
		v, ok := storeExpr.Operand.(*ast.Variable)
		if !ok || v == nil {
			continue
		}
		next, _ := ast.SkipLabels(nodeAndFollowingSiblings(idx, storeExpr), 1)
		retExpr, ok := next.(*ast.Expression)
		if !ok || retExpr.Code != code || len(retExpr.Arguments) != 1 {
			continue
		}
		loadExpr := retExpr.Arguments[0]
		lv, ok := loadExpr.Operand.(*ast.Variable)
		if loadExpr.Code != ast.Load || !ok || lv != v {
			continue
		}
		g.SetCode(code)
		g.SetOperand(nil)
		g.SetArguments([]*ast.Expression{storeExpr.Arguments[0].Clone()})
		return true
	}
	return false
}

// nodeAndFollowingSiblings returns node followed by its chain of next
// siblings, so ast.SkipLabels can walk past intervening labels the way
// spec.md §4.4 rule 5 describes ("skipping any Labels via nextSibling").
func nodeAndFollowingSiblings(idx *topology.Index, node ast.Node) []ast.Node {
	nodes := []ast.Node{node}
	cur := idx.NextSibling(node)
	for !ast.IsNull(cur) {
		nodes = append(nodes, cur)
		cur = idx.NextSibling(cur)
	}
	return nodes
}
