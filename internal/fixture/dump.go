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

package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/liachmodded/procyon/ast"
)

// Dump renders root back into the fixture YAML format, the inverse of
// Method.Build. It gives the gotoelim CLI's run command a way to print the
// post-pass tree in the same notation fixtures are written in.
func Dump(name string, root *ast.Block) ([]byte, error) {
	d := &dumper{names: map[interface{}]string{}}
	body, err := d.nodes(root.Children())
	if err != nil {
		return nil, err
	}
	m := &Method{Name: name, Body: body}
	out, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("dumping fixture: %w", err)
	}
	return out, nil
}

// dumper assigns stable names to labels and variables the first time it
// encounters them, by identity, so round-tripped fixtures read the same
// label/variable name at every occurrence.
type dumper struct {
	names map[interface{}]string
}

func (d *dumper) labelName(l *ast.Label) string {
	if n, ok := d.names[l]; ok {
		return n
	}
	n := l.Name
	if n == "" {
		n = fmt.Sprintf("L%d", len(d.names))
	}
	d.names[l] = n
	return n
}

func (d *dumper) variableName(v *ast.Variable) string {
	if n, ok := d.names[v]; ok {
		return n
	}
	n := v.Name
	if n == "" {
		n = fmt.Sprintf("v%d", len(d.names))
	}
	d.names[v] = n
	return n
}

func (d *dumper) nodes(in []ast.Node) ([]Node, error) {
	out := make([]Node, 0, len(in))
	for _, n := range in {
		dn, err := d.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, dn)
	}
	return out, nil
}

var opcodeNames = func() map[ast.AstCode]string {
	m := make(map[ast.AstCode]string, len(opcodes))
	for name, code := range opcodes {
		m[code] = name
	}
	return m
}()

func (d *dumper) node(n ast.Node) (Node, error) {
	switch v := n.(type) {
	case *ast.Label:
		return Node{Op: "label", Label: d.labelName(v)}, nil
	case *ast.Expression:
		return d.expression(v)
	case *ast.Condition:
		trueBody, err := d.nodes(v.True.Children())
		if err != nil {
			return Node{}, err
		}
		var falseBody []Node
		if v.False != nil {
			falseBody, err = d.nodes(v.False.Children())
			if err != nil {
				return Node{}, err
			}
		}
		cond, err := d.expression(v.Cond)
		if err != nil {
			return Node{}, err
		}
		return Node{Op: "condition", Cond: &cond, True: trueBody, False: falseBody}, nil
	case *ast.Loop:
		body, err := d.nodes(v.Body.Body)
		if err != nil {
			return Node{}, err
		}
		result := Node{Op: "loop", Body: body}
		if v.Body.EntryGoto != nil {
			entry, err := d.expression(v.Body.EntryGoto)
			if err != nil {
				return Node{}, err
			}
			result.EntryGoto = &entry
		}
		if v.Cond != nil {
			cond, err := d.expression(v.Cond)
			if err != nil {
				return Node{}, err
			}
			result.Cond = &cond
		}
		return result, nil
	case *ast.Switch:
		value, err := d.expression(v.Value)
		if err != nil {
			return Node{}, err
		}
		cases := make([]Node, 0, len(v.Cases))
		for _, c := range v.Cases {
			values := make([]int, 0, len(c.Values))
			for _, raw := range c.Values {
				if iv, ok := raw.(int); ok {
					values = append(values, iv)
				}
			}
			body, err := d.nodes(c.Body)
			if err != nil {
				return Node{}, err
			}
			cases = append(cases, Node{Values: values, Body: body})
		}
		return Node{Op: "switch", Cond: &value, Cases: cases}, nil
	case *ast.TryCatchBlock:
		tryBody, err := d.nodes(v.Try.Children())
		if err != nil {
			return Node{}, err
		}
		catches := make([]Node, 0, len(v.Catches))
		for _, c := range v.Catches {
			body, err := d.nodes(c.Body.Children())
			if err != nil {
				return Node{}, err
			}
			catches = append(catches, Node{Body: body})
		}
		result := Node{Op: "trycatch", Try: tryBody, Catches: catches}
		if v.Finally != nil {
			result.Finally, err = d.nodes(v.Finally.Children())
			if err != nil {
				return Node{}, err
			}
		}
		return result, nil
	default:
		return Node{}, fmt.Errorf("fixture dump: unsupported node kind %T", n)
	}
}

func (d *dumper) expression(e *ast.Expression) (Node, error) {
	name, ok := opcodeNames[e.Code]
	if !ok {
		return Node{}, fmt.Errorf("fixture dump: unknown opcode %v", e.Code)
	}
	args, err := d.nodes(exprNodes(e.Arguments))
	if err != nil {
		return Node{}, err
	}
	result := Node{Op: name, Args: args}
	switch v := e.Operand.(type) {
	case *ast.Label:
		result.Label = d.labelName(v)
	case *ast.Variable:
		result.Var = d.variableName(v)
	}
	return result, nil
}

func exprNodes(exprs []*ast.Expression) []ast.Node {
	out := make([]ast.Node, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}
	return out
}
