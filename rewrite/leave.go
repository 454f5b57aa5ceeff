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

package rewrite

import (
	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/flow"
	"github.com/liachmodded/procyon/topology"
)

// LeaveTransform runs spec.md §4.5 over root before the fixed-point goto
// sweep: every goto G that is the last statement of a try-block,
// finally-block or catch handler's Block, and whose fresh exit() simulation already lands on a
// Leave, is rewritten to a bare Leave. This exists because the classifier's
// fall-through rule (rule 1 of TrySimplifyGoto) compares enter(G) against
// exit(G), and a goto that normalizes to Leave has no enter() target to
// compare against - it must be recognized before the sweep runs, not as one
// of its rules.
func LeaveTransform(idx *topology.Index, sim *flow.Simulator, root *ast.Block) error {
	gotos := ast.GetSelfAndChildrenRecursive(root, func(n ast.Node) bool {
		return ast.Match(n, ast.Goto)
	})
	for _, n := range gotos {
		g := n.(*ast.Expression)

		res, err := sim.Exit(g, flow.NewVisitedSet(idx))
		if err != nil {
			return err
		}
		if !ast.Match(res, ast.Leave) {
			continue
		}

		blk, ok := idx.Parent(g).(*ast.Block)
		if !ok || len(blk.Body) == 0 || blk.Body[len(blk.Body)-1] != ast.Node(g) {
			continue
		}

		switch idx.Parent(blk).(type) {
		case *ast.CatchBlock, *ast.TryCatchBlock:
			g.SetCode(ast.Leave)
			g.SetOperand(nil)
		}
	}
	return nil
}
