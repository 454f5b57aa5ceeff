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

package gotoelim_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/gotoelim"
)

// fallThroughTree builds a fresh, independent copy of the scenario-1 goto
// fixture (goto to the very next statement) each time it's called, so two
// calls never share node identity.
func fallThroughTree() *ast.Block {
	label := &ast.Label{Name: "L"}
	g := &ast.Expression{Code: ast.Goto, Operand: label}
	value := &ast.Expression{Code: ast.LdC}
	ret := &ast.Expression{Code: ast.Return, Arguments: []*ast.Expression{value}}
	return &ast.Block{Body: []ast.Node{g, label, ret}}
}

// Scenario 1 end to end: a goto to the very next statement folds to Nop,
// then cleanup prunes both the Nop and the now-unreferenced label, leaving
// only the return.
func TestRemoveGotosFoldsFallThroughAndPrunesLabel(t *testing.T) {
	label := &ast.Label{Name: "L"}
	g := &ast.Expression{Code: ast.Goto, Operand: label}
	value := &ast.Expression{Code: ast.LdC}
	ret := &ast.Expression{Code: ast.Return, Arguments: []*ast.Expression{value}}
	root := &ast.Block{Body: []ast.Node{g, label, ret}}

	require.NoError(t, gotoelim.RemoveGotos(root))

	require.Equal(t, []ast.Node{ret}, root.Body)
}

// A labeled break two loops deep survives the full pass unchanged beyond the
// goto-to-break rewrite itself: cleanup finds nothing further to prune since
// the label after the loops is still referenced by the rewritten break.
func TestRemoveGotosProducesLabeledBreakAndKeepsItsLabel(t *testing.T) {
	afterOuter := &ast.Label{Name: "after"}
	g := &ast.Expression{Code: ast.Goto, Operand: afterOuter}

	innerLoop := &ast.Loop{Cond: &ast.Expression{Code: ast.CmpLt}}
	innerLoop.Body = &ast.Block{Body: []ast.Node{g}}

	outerLoop := &ast.Loop{Cond: &ast.Expression{Code: ast.CmpLt}}
	outerLoop.Body = &ast.Block{Body: []ast.Node{innerLoop}}

	value := &ast.Expression{Code: ast.LdC}
	tail := &ast.Expression{Code: ast.Return, Arguments: []*ast.Expression{value}}
	root := &ast.Block{Body: []ast.Node{outerLoop, afterOuter, tail}}

	require.NoError(t, gotoelim.RemoveGotos(root))

	require.Equal(t, ast.LoopOrSwitchBreak, g.Code)
	require.Same(t, afterOuter, g.Operand)
	require.Contains(t, root.Body, ast.Node(afterOuter))
}

// Idempotence (spec.md §8 property 1): removeGotos(removeGotos(M)) yields
// the same tree, modulo node identity, as removeGotos(M). Two structurally
// identical but node-distinct trees are run through the pass once and twice
// respectively, and go-cmp compares the resulting whole subtrees by value
// rather than by the pointer identity require.Equal's reflect.DeepEqual
// would otherwise key off incidentally.
func TestRemoveGotosIsIdempotent(t *testing.T) {
	oncePass := fallThroughTree()
	require.NoError(t, gotoelim.RemoveGotos(oncePass))

	twicePass := fallThroughTree()
	require.NoError(t, gotoelim.RemoveGotos(twicePass))
	require.NoError(t, gotoelim.RemoveGotos(twicePass))

	if diff := cmp.Diff(oncePass, twicePass); diff != "" {
		t.Errorf("second pass changed the tree beyond the first (-once +twice):\n%s", diff)
	}
}
