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

// Package gotoelim is the entry point of the pass: RemoveGotos builds the
// topology index, runs the leave transform, sweeps goto simplification to a
// fixed point, then runs cleanup - re-invoking the whole sequence, with
// fresh state, if cleanup deleted unreachable code.
package gotoelim

import (
	"github.com/liachmodded/procyon/ast"
	"github.com/liachmodded/procyon/cleanup"
	"github.com/liachmodded/procyon/flow"
	"github.com/liachmodded/procyon/rewrite"
	"github.com/liachmodded/procyon/topology"
)

// RemoveGotos eliminates unstructured gotos from root in place, per
// spec.md §5's ordering guarantees: topology is built fresh, the leave
// transform runs once, the goto sweep repeats until a pass makes no
// change, and cleanup then runs; if cleanup reports it deleted unreachable
// code, the whole sequence re-runs with fresh state.
func RemoveGotos(root *ast.Block) error {
	for {
		idx, err := topology.Build(root)
		if err != nil {
			return err
		}
		sim := flow.NewSimulator(idx)

		if err := rewrite.LeaveTransform(idx, sim, root); err != nil {
			return err
		}

		if err := sweepGotos(idx, sim, root); err != nil {
			return err
		}

		if !cleanup.RemoveRedundantCode(idx, root) {
			return nil
		}
		// Unreachable code was deleted: the tree changed shape underneath
		// the index just used, so rebuild from scratch and run again.
	}
}

// sweepGotos repeats TrySimplifyGoto over every goto in root until a full
// pass makes no change, matching the fixed-point sweep of spec.md §4.4.
func sweepGotos(idx *topology.Index, sim *flow.Simulator, root *ast.Block) error {
	for {
		changed := false
		gotos := ast.GetSelfAndChildrenRecursive(root, func(n ast.Node) bool {
			return ast.Match(n, ast.Goto)
		})
		for _, n := range gotos {
			g := n.(*ast.Expression)
			ok, err := rewrite.TrySimplifyGoto(idx, sim, g)
			if err != nil {
				return err
			}
			if ok {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}
