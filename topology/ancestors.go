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

package topology

import "github.com/liachmodded/procyon/ast"

// Predicate filters ancestors by node kind.
type Predicate func(ast.Node) bool

// IsLoop matches *ast.Loop ancestors.
func IsLoop(n ast.Node) bool { _, ok := n.(*ast.Loop); return ok }

// IsSwitch matches *ast.Switch ancestors.
func IsSwitch(n ast.Node) bool { _, ok := n.(*ast.Switch); return ok }

// IsTryCatchBlock matches *ast.TryCatchBlock ancestors.
func IsTryCatchBlock(n ast.Node) bool { _, ok := n.(*ast.TryCatchBlock); return ok }

// WalkAncestors calls fn for each strict ancestor of node that matches
// pred (innermost first), stopping as soon as fn returns false. A nil pred
// matches every ancestor. This is the lazy ancestor traversal spec.md §4.2
// describes: classifiers that only need the first matching loop or switch
// (the break/continue rules in package rewrite) never materialize the rest
// of the chain.
func WalkAncestors(idx *Index, node ast.Node, pred Predicate, fn func(ast.Node) bool) {
	cur := idx.Parent(node)
	for cur != nil && !ast.IsNull(cur) {
		if pred == nil || pred(cur) {
			if !fn(cur) {
				return
			}
		}
		cur = idx.Parent(cur)
	}
}

// TryCatchChain returns the chain of *ast.TryCatchBlock ancestors enclosing
// node, outermost first. Unlike WalkAncestors this always materializes the
// full chain, because the goto-entry rule in package flow needs to compare
// two chains' common prefix, not short-circuit on the first match.
func TryCatchChain(idx *Index, node ast.Node) []*ast.TryCatchBlock {
	var reversed []*ast.TryCatchBlock
	WalkAncestors(idx, node, IsTryCatchBlock, func(n ast.Node) bool {
		reversed = append(reversed, n.(*ast.TryCatchBlock))
		return true
	})
	chain := make([]*ast.TryCatchBlock, len(reversed))
	for i, tcb := range reversed {
		chain[len(reversed)-1-i] = tcb
	}
	return chain
}

// InnermostTryCatchBlock returns the nearest enclosing *ast.TryCatchBlock
// of node, or nil if node is not nested in one.
func InnermostTryCatchBlock(idx *Index, node ast.Node) *ast.TryCatchBlock {
	var found *ast.TryCatchBlock
	WalkAncestors(idx, node, IsTryCatchBlock, func(n ast.Node) bool {
		found = n.(*ast.TryCatchBlock)
		return false
	})
	return found
}
