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

// Package fixture loads method-body ASTs from a small declarative YAML
// format, so tests and the gotoelim CLI can describe trees (including
// shared Label/Variable identity and goto targets) without hand-wiring Go
// struct literals for every case.
package fixture

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/liachmodded/procyon/ast"
)

// Node is one YAML-decoded statement. Which of its fields beyond Op are
// populated depends on Op; see Build for the mapping.
type Node struct {
	Op string `yaml:"op"`

	// Label / Goto / LoopOrSwitchBreak / LoopContinue / branch operand.
	Label string `yaml:"label,omitempty"`

	// Store / Load variable name.
	Var string `yaml:"var,omitempty"`

	// Return / AThrow / arbitrary-opcode arguments, and Store's single value.
	Args []Node `yaml:"args,omitempty"`

	// Block-shaped constructs.
	Body      []Node  `yaml:"body,omitempty"`
	EntryGoto *Node   `yaml:"entryGoto,omitempty"`
	Cond      *Node   `yaml:"cond,omitempty"`
	True      []Node  `yaml:"true,omitempty"`
	False     []Node  `yaml:"false,omitempty"`
	Values    []int   `yaml:"values,omitempty"`
	Cases     []Node  `yaml:"cases,omitempty"`
	Catches   []Node  `yaml:"catches,omitempty"`
	Finally   []Node  `yaml:"finally,omitempty"`
	Try       []Node  `yaml:"try,omitempty"`
}

// Method is the top-level fixture document: a method body plus a name that
// Dump writes back out and that only labels output.
type Method struct {
	Name string `yaml:"name"`
	Body []Node `yaml:"body"`
}

// Parse decodes a YAML document into a Method.
func Parse(data []byte) (*Method, error) {
	var m Method
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing fixture: %w", err)
	}
	return &m, nil
}

// builder tracks labels and variables by name so fixtures can refer to the
// same *ast.Label or *ast.Variable from multiple statements and have it
// resolve to one shared identity, matching the AST's identity semantics.
type builder struct {
	labels    map[string]*ast.Label
	variables map[string]*ast.Variable
}

// Build constructs the ast.Block the method describes. Labels and
// variables are shared by name across the whole method.
func (m *Method) Build() (*ast.Block, error) {
	b := &builder{labels: map[string]*ast.Label{}, variables: map[string]*ast.Variable{}}
	return b.block(m.Body, nil)
}

func (b *builder) label(name string) *ast.Label {
	if l, ok := b.labels[name]; ok {
		return l
	}
	l := &ast.Label{Name: name}
	b.labels[name] = l
	return l
}

func (b *builder) variable(name string) *ast.Variable {
	if v, ok := b.variables[name]; ok {
		return v
	}
	v := &ast.Variable{Name: name}
	b.variables[name] = v
	return v
}

func (b *builder) block(body []Node, entryGoto *Node) (*ast.Block, error) {
	blk := &ast.Block{}
	if entryGoto != nil {
		eg, err := b.node(*entryGoto)
		if err != nil {
			return nil, err
		}
		expr, ok := eg.(*ast.Expression)
		if !ok {
			return nil, fmt.Errorf("entryGoto must be an expression, got %T", eg)
		}
		blk.EntryGoto = expr
	}
	nodes, err := b.nodes(body)
	if err != nil {
		return nil, err
	}
	blk.Body = nodes
	return blk, nil
}

func (b *builder) nodes(in []Node) ([]ast.Node, error) {
	out := make([]ast.Node, 0, len(in))
	for _, n := range in {
		built, err := b.node(n)
		if err != nil {
			return nil, err
		}
		out = append(out, built)
	}
	return out, nil
}

func (b *builder) expressions(in []Node) ([]*ast.Expression, error) {
	out := make([]*ast.Expression, 0, len(in))
	for _, n := range in {
		built, err := b.node(n)
		if err != nil {
			return nil, err
		}
		e, ok := built.(*ast.Expression)
		if !ok {
			return nil, fmt.Errorf("expected expression, got %T", built)
		}
		out = append(out, e)
	}
	return out, nil
}

var opcodes = map[string]ast.AstCode{
	"nop":           ast.Nop,
	"goto":          ast.Goto,
	"leave":         ast.Leave,
	"return":        ast.Return,
	"athrow":        ast.AThrow,
	"store":         ast.Store,
	"load":          ast.Load,
	"break":         ast.LoopOrSwitchBreak,
	"continue":      ast.LoopContinue,
	"add":           ast.Add,
	"sub":           ast.Sub,
	"cmpeq":         ast.CmpEq,
	"cmpne":         ast.CmpNe,
	"cmplt":         ast.CmpLt,
	"cmpge":         ast.CmpGe,
	"ldc":           ast.LdC,
	"invokevirtual": ast.InvokeVirtual,
	"invokestatic":  ast.InvokeStatic,
	"getfield":      ast.GetField,
	"putfield":      ast.PutField,
}

func (b *builder) node(n Node) (ast.Node, error) {
	switch n.Op {
	case "label":
		return b.label(n.Label), nil
	case "condition":
		trueBlk, err := b.block(n.True, nil)
		if err != nil {
			return nil, err
		}
		var falseBlk *ast.Block
		if n.False != nil {
			falseBlk, err = b.block(n.False, nil)
			if err != nil {
				return nil, err
			}
		}
		cond, err := b.expression(n.Cond)
		if err != nil {
			return nil, err
		}
		return &ast.Condition{Cond: cond, True: trueBlk, False: falseBlk}, nil
	case "loop":
		body, err := b.block(n.Body, n.EntryGoto)
		if err != nil {
			return nil, err
		}
		var cond *ast.Expression
		if n.Cond != nil {
			cond, err = b.expression(n.Cond)
			if err != nil {
				return nil, err
			}
		}
		return &ast.Loop{Cond: cond, Body: body}, nil
	case "switch":
		value, err := b.expression(n.Cond)
		if err != nil {
			return nil, err
		}
		cases := make([]*ast.CaseBlock, 0, len(n.Cases))
		for _, c := range n.Cases {
			values := make([]interface{}, len(c.Values))
			for i, v := range c.Values {
				values[i] = v
			}
			body, err := b.nodes(c.Body)
			if err != nil {
				return nil, err
			}
			cases = append(cases, &ast.CaseBlock{Values: values, Body: body})
		}
		return &ast.Switch{Value: value, Cases: cases}, nil
	case "trycatch":
		tryBlk, err := b.block(n.Try, nil)
		if err != nil {
			return nil, err
		}
		catches := make([]*ast.CatchBlock, 0, len(n.Catches))
		for _, c := range n.Catches {
			body, err := b.block(c.Body, nil)
			if err != nil {
				return nil, err
			}
			catches = append(catches, &ast.CatchBlock{Body: body})
		}
		var finallyBlk *ast.Block
		if n.Finally != nil {
			finallyBlk, err = b.block(n.Finally, nil)
			if err != nil {
				return nil, err
			}
		}
		return &ast.TryCatchBlock{Try: tryBlk, Catches: catches, Finally: finallyBlk}, nil
	case "":
		return nil, fmt.Errorf("fixture node missing op")
	default:
		return b.expressionNode(n)
	}
}

func (b *builder) expression(n *Node) (*ast.Expression, error) {
	if n == nil {
		return nil, nil
	}
	built, err := b.node(*n)
	if err != nil {
		return nil, err
	}
	e, ok := built.(*ast.Expression)
	if !ok {
		return nil, fmt.Errorf("expected expression, got %T", built)
	}
	return e, nil
}

func (b *builder) expressionNode(n Node) (ast.Node, error) {
	code, ok := opcodes[n.Op]
	if !ok {
		return nil, fmt.Errorf("unknown fixture op %q", n.Op)
	}
	args, err := b.expressions(n.Args)
	if err != nil {
		return nil, err
	}
	e := &ast.Expression{Code: code, Arguments: args}
	switch code {
	case ast.Goto, ast.LoopOrSwitchBreak, ast.LoopContinue:
		if n.Label != "" {
			e.Operand = b.label(n.Label)
		}
	case ast.Store, ast.Load:
		e.Operand = b.variable(n.Var)
	}
	return e, nil
}
