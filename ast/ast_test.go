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

package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liachmodded/procyon/ast"
)

func TestIsNull(t *testing.T) {
	require.True(t, ast.IsNull(ast.NullNode))
	require.False(t, ast.IsNull(&ast.Label{Name: "L"}))
}

func TestExpressionIsBranch(t *testing.T) {
	l := &ast.Label{Name: "L"}
	g := &ast.Expression{Code: ast.Goto, Operand: l}
	require.True(t, g.IsBranch())
	require.Equal(t, []*ast.Label{l}, g.GetBranchTargets())

	add := &ast.Expression{Code: ast.Add}
	require.False(t, add.IsBranch())
	require.Nil(t, add.GetBranchTargets())

	unlabeledBreak := &ast.Expression{Code: ast.LoopOrSwitchBreak}
	require.True(t, unlabeledBreak.IsBranch())
	require.Empty(t, unlabeledBreak.GetBranchTargets())
}

func TestExpressionIsUnconditionalControlFlow(t *testing.T) {
	for _, code := range []ast.AstCode{ast.Return, ast.AThrow, ast.Goto, ast.LoopContinue, ast.LoopOrSwitchBreak, ast.Leave} {
		e := &ast.Expression{Code: code}
		require.True(t, e.IsUnconditionalControlFlow(), "code %v", code)
	}
	require.False(t, (&ast.Expression{Code: ast.Add}).IsUnconditionalControlFlow())
}

func TestExpressionClone(t *testing.T) {
	arg := &ast.Expression{Code: ast.LdC}
	orig := &ast.Expression{
		Code:      ast.Return,
		Arguments: []*ast.Expression{arg},
		Ranges:    []ast.Range{{StartOffset: 1, EndOffset: 2}},
	}
	clone := orig.Clone()

	require.NotSame(t, orig, clone)
	require.Equal(t, orig.Code, clone.Code)
	require.Equal(t, orig.Arguments, clone.Arguments)
	require.Equal(t, orig.Ranges, clone.Ranges)

	clone.SetCode(ast.AThrow)
	require.Equal(t, ast.Return, orig.Code, "mutating the clone must not affect the original")
}

func TestBlockChildrenPrependsEntryGoto(t *testing.T) {
	label := &ast.Label{Name: "L"}
	entry := &ast.Expression{Code: ast.Goto, Operand: label}
	stmt := &ast.Expression{Code: ast.Nop}
	b := &ast.Block{EntryGoto: entry, Body: []ast.Node{stmt}}

	children := b.Children()
	require.Equal(t, []ast.Node{entry, stmt}, children)
}

func TestBlockChildrenWithoutEntryGoto(t *testing.T) {
	stmt := &ast.Expression{Code: ast.Nop}
	b := &ast.Block{Body: []ast.Node{stmt}}
	require.Equal(t, []ast.Node{stmt}, b.Children())
}

func TestWalkVisitsPreOrder(t *testing.T) {
	inner := &ast.Expression{Code: ast.Nop}
	outer := &ast.Expression{Code: ast.Return, Arguments: []*ast.Expression{inner}}
	root := &ast.Block{Body: []ast.Node{outer}}

	var visited []ast.Node
	ast.Walk(root, func(n ast.Node) bool {
		visited = append(visited, n)
		return true
	})

	require.Equal(t, []ast.Node{root, outer, inner}, visited)
}

func TestGetSelfAndChildrenRecursiveFilters(t *testing.T) {
	label := &ast.Label{Name: "L"}
	gotoExpr := &ast.Expression{Code: ast.Goto, Operand: label}
	root := &ast.Block{Body: []ast.Node{label, gotoExpr}}

	gotos := ast.GetSelfAndChildrenRecursive(root, func(n ast.Node) bool {
		return ast.Match(n, ast.Goto)
	})
	require.Equal(t, []ast.Node{gotoExpr}, gotos)
}
