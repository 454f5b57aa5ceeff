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

package ast

// Match reports whether node is an *Expression with the given opcode. It is
// the building block the other match* helpers use so that callers never
// need to type-assert *Expression themselves in the rewrite/cleanup logic.
func Match(node Node, code AstCode) bool {
	e, ok := node.(*Expression)
	return ok && e.Code == code
}

// MatchGetOperand reports whether node is an *Expression with the given
// opcode and, if so, returns its operand.
func MatchGetOperand(node Node, code AstCode) (interface{}, bool) {
	e, ok := node.(*Expression)
	if !ok || e.Code != code {
		return nil, false
	}
	return e.Operand, true
}

// MatchGetArguments reports whether node is an *Expression with the given
// opcode and, if so, returns its argument list.
func MatchGetArguments(node Node, code AstCode) ([]*Expression, bool) {
	e, ok := node.(*Expression)
	if !ok || e.Code != code {
		return nil, false
	}
	return e.Arguments, true
}

// MatchLast reports whether the last element of nodes is an *Expression
// with the given opcode and, if so, returns it.
func MatchLast(nodes []Node, code AstCode) (*Expression, bool) {
	if len(nodes) == 0 {
		return nil, false
	}
	e, ok := nodes[len(nodes)-1].(*Expression)
	if !ok || e.Code != code {
		return nil, false
	}
	return e, true
}

// SkipLabels returns the first node in nodes starting at index i that is
// not a *Label, and the index it was found at. It returns (nil, -1) if
// every node from i onward is a label.
func SkipLabels(nodes []Node, i int) (Node, int) {
	for ; i < len(nodes); i++ {
		if _, ok := nodes[i].(*Label); !ok {
			return nodes[i], i
		}
	}
	return nil, -1
}
