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

package topology_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/topology"
)

func TestWalkAncestorsStopsAtFirstMatch(t *testing.T) {
	target := &ast.Expression{Code: ast.Nop}
	innerLoop := &ast.Loop{Body: &ast.Block{Body: []ast.Node{target}}}
	outerLoop := &ast.Loop{Body: &ast.Block{Body: []ast.Node{innerLoop}}}
	root := &ast.Block{Body: []ast.Node{outerLoop}}

	idx, err := topology.Build(root)
	require.NoError(t, err)

	var seen []*ast.Loop
	topology.WalkAncestors(idx, target, topology.IsLoop, func(n ast.Node) bool {
		seen = append(seen, n.(*ast.Loop))
		return false
	})
	require.Equal(t, []*ast.Loop{innerLoop}, seen)
}

func TestTryCatchChainOutermostFirst(t *testing.T) {
	target := &ast.Expression{Code: ast.Nop}
	inner := &ast.TryCatchBlock{Try: &ast.Block{Body: []ast.Node{target}}}
	outer := &ast.TryCatchBlock{Try: &ast.Block{Body: []ast.Node{inner}}}
	root := &ast.Block{Body: []ast.Node{outer}}

	idx, err := topology.Build(root)
	require.NoError(t, err)

	chain := topology.TryCatchChain(idx, target)
	require.Equal(t, []*ast.TryCatchBlock{outer, inner}, chain)
}

func TestInnermostTryCatchBlock(t *testing.T) {
	target := &ast.Expression{Code: ast.Nop}
	tcb := &ast.TryCatchBlock{Try: &ast.Block{Body: []ast.Node{target}}}
	root := &ast.Block{Body: []ast.Node{tcb}}

	idx, err := topology.Build(root)
	require.NoError(t, err)

	require.Same(t, tcb, topology.InnermostTryCatchBlock(idx, target))

	outsider := &ast.Expression{Code: ast.Nop}
	root.Body = append(root.Body, outsider)
	idx, err = topology.Build(&ast.Block{Body: []ast.Node{outsider}})
	require.NoError(t, err)
	require.Nil(t, topology.InnermostTryCatchBlock(idx, outsider))
}
