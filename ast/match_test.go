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

func TestMatch(t *testing.T) {
	e := &ast.Expression{Code: ast.Nop}
	require.True(t, ast.Match(e, ast.Nop))
	require.False(t, ast.Match(e, ast.Goto))
	require.False(t, ast.Match(&ast.Label{}, ast.Nop))
}

func TestMatchGetOperand(t *testing.T) {
	v := &ast.Variable{Name: "x"}
	e := &ast.Expression{Code: ast.Load, Operand: v}

	operand, ok := ast.MatchGetOperand(e, ast.Load)
	require.True(t, ok)
	require.Same(t, v, operand)

	_, ok = ast.MatchGetOperand(e, ast.Store)
	require.False(t, ok)
}

func TestMatchGetArguments(t *testing.T) {
	arg := &ast.Expression{Code: ast.LdC}
	e := &ast.Expression{Code: ast.Return, Arguments: []*ast.Expression{arg}}

	args, ok := ast.MatchGetArguments(e, ast.Return)
	require.True(t, ok)
	require.Equal(t, []*ast.Expression{arg}, args)

	_, ok = ast.MatchGetArguments(e, ast.AThrow)
	require.False(t, ok)
}

func TestMatchLast(t *testing.T) {
	ret := &ast.Expression{Code: ast.Return}
	nodes := []ast.Node{&ast.Expression{Code: ast.Nop}, ret}

	got, ok := ast.MatchLast(nodes, ast.Return)
	require.True(t, ok)
	require.Same(t, ret, got)

	_, ok = ast.MatchLast(nodes, ast.AThrow)
	require.False(t, ok)

	_, ok = ast.MatchLast(nil, ast.Return)
	require.False(t, ok)
}

func TestSkipLabels(t *testing.T) {
	ret := &ast.Expression{Code: ast.Return}
	nodes := []ast.Node{
		&ast.Expression{Code: ast.Store},
		&ast.Label{Name: "L1"},
		&ast.Label{Name: "L2"},
		ret,
	}

	n, i := ast.SkipLabels(nodes, 1)
	require.Equal(t, 3, i)
	require.Same(t, ret, n)

	n, i = ast.SkipLabels(nodes, 0)
	require.Equal(t, 0, i)
	require.Same(t, nodes[0], n)

	n, i = ast.SkipLabels([]ast.Node{&ast.Label{Name: "only"}}, 0)
	require.Equal(t, -1, i)
	require.Nil(t, n)
}
