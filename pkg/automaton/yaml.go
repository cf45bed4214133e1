// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package automaton

import (
	"fmt"
	"math/big"
	"os"
	"regexp"

	"github.com/consensys/go-verimon/pkg/constraint"
	"github.com/consensys/go-verimon/pkg/util"
	"github.com/goccy/go-yaml"
)

// Declarations mirroring the YAML property format.  The format is
// deliberately structural (one key per pattern/guard/action field) rather
// than a little expression language, keeping the loader a plain compiler from
// declarations to a Machine.

type propertyDecl struct {
	Property    string           `yaml:"property"`
	Registers   []string         `yaml:"registers"`
	Vertices    []vertexDecl     `yaml:"vertices"`
	Transitions []transitionDecl `yaml:"transitions"`
}

type vertexDecl struct {
	Name    string `yaml:"name"`
	Start   bool   `yaml:"start"`
	Error   bool   `yaml:"error"`
	Message string `yaml:"message"`
}

type transitionDecl struct {
	From       string           `yaml:"from"`
	To         string           `yaml:"to"`
	Any        bool             `yaml:"any"`
	Call       *callPatternDecl `yaml:"call"`
	ArrayWrite *arrayWriteDecl  `yaml:"arraywrite"`
	Guard      []guardDecl      `yaml:"guard"`
	Action     []assignmentDecl `yaml:"action"`
}

type callPatternDecl struct {
	Procedure string   `yaml:"procedure"`
	Return    string   `yaml:"return"`
	Params    []string `yaml:"params"`
}

type arrayWriteDecl struct {
	Array string `yaml:"array"`
	Index string `yaml:"index"`
}

type guardDecl struct {
	Op     string `yaml:"op"`
	Left   string `yaml:"left"`
	Right  string `yaml:"right"`
	Truthy string `yaml:"truthy"`
}

type assignmentDecl struct {
	Register string `yaml:"register"`
	From     string `yaml:"from"`
}

// ParsePropertyFile reads and compiles a YAML property file.
func ParsePropertyFile(filename string) (*Machine, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return ParseProperty(bytes)
}

// ParseProperty compiles YAML property source into a Machine.
func ParseProperty(source []byte) (*Machine, error) {
	var decl propertyDecl
	//
	if err := yaml.Unmarshal(source, &decl); err != nil {
		return nil, fmt.Errorf("malformed property: %w", err)
	} else if len(decl.Vertices) == 0 {
		return nil, fmt.Errorf("property %q declares no vertices", decl.Property)
	}
	// Map vertex names to indices.
	names := make([]string, len(decl.Vertices))
	index := make(map[string]Vertex, len(decl.Vertices))
	//
	for i, v := range decl.Vertices {
		if _, ok := index[v.Name]; ok {
			return nil, fmt.Errorf("duplicate vertex %q", v.Name)
		}
		//
		names[i] = v.Name
		index[v.Name] = Vertex(i)
	}
	//
	machine := NewMachine(decl.Property, names, decl.Registers)
	//
	for i, v := range decl.Vertices {
		if v.Start {
			machine.MarkStart(Vertex(i))
		}
		//
		if v.Error {
			machine.MarkError(Vertex(i), v.Message)
		}
	}
	//
	for i, t := range decl.Transitions {
		source, ok := index[t.From]
		if !ok {
			return nil, fmt.Errorf("transition %d: unknown vertex %q", i, t.From)
		}
		//
		target, ok := index[t.To]
		if !ok {
			return nil, fmt.Errorf("transition %d: unknown vertex %q", i, t.To)
		}
		//
		label, err := compileLabel(t)
		if err != nil {
			return nil, fmt.Errorf("transition %d: %w", i, err)
		}
		//
		machine.AddTransition(source, target, label)
	}
	//
	return machine, nil
}

// compileLabel turns a transition declaration into a label (or nil for "any"
// transitions).
func compileLabel(t transitionDecl) (*Label, error) {
	var pattern Pattern
	//
	switch {
	case t.Any:
		if t.Call != nil || t.ArrayWrite != nil {
			return nil, fmt.Errorf("'any' transition cannot also declare a pattern")
		} else if len(t.Guard) != 0 || len(t.Action) != 0 {
			return nil, fmt.Errorf("'any' transition cannot declare guards or actions")
		}
		//
		return nil, nil
	case t.Call != nil && t.ArrayWrite != nil:
		return nil, fmt.Errorf("transition declares both call and arraywrite patterns")
	case t.Call != nil:
		p, err := compileCallPattern(*t.Call)
		if err != nil {
			return nil, err
		}
		//
		pattern = p
	case t.ArrayWrite != nil:
		pattern = &ArrayWritePattern{t.ArrayWrite.Array, t.ArrayWrite.Index}
	default:
		return nil, fmt.Errorf("transition declares no pattern")
	}
	//
	guards, err := compileGuards(t.Guard)
	if err != nil {
		return nil, err
	}
	//
	actions := make([]Assignment, len(t.Action))
	//
	for i, a := range t.Action {
		if a.Register == "" || a.From == "" {
			return nil, fmt.Errorf("incomplete action (register %q, from %q)", a.Register, a.From)
		}
		//
		actions[i] = Assignment{a.Register, a.From}
	}
	//
	return &Label{pattern, guards, actions}, nil
}

func compileCallPattern(decl callPatternDecl) (*CallPattern, error) {
	// Anchor the procedure pattern, so "free" does not match "unfree".
	re, err := regexp.Compile("^(?:" + decl.Procedure + ")$")
	if err != nil {
		return nil, fmt.Errorf("bad procedure pattern %q: %w", decl.Procedure, err)
	}
	//
	ret := util.None[string]()
	if decl.Return != "" {
		ret = util.Some(decl.Return)
	}
	//
	return &CallPattern{
		Procedure:  re,
		Formals:    decl.Return != "" || decl.Params != nil,
		Return:     ret,
		Parameters: decl.Params,
	}, nil
}

func compileGuards(decls []guardDecl) ([]Guard, error) {
	var guards []Guard
	//
	for _, g := range decls {
		if g.Truthy != "" {
			guards = append(guards, Truthy(g.Truthy))
			continue
		}
		//
		op, err := parseRelOp(g.Op)
		if err != nil {
			return nil, err
		}
		//
		guards = append(guards, Compare(op, parseOperand(g.Left), parseOperand(g.Right)))
	}
	//
	return guards, nil
}

func parseOperand(s string) Operand {
	var k big.Int
	// Integer literals become constants; anything else is a name.
	if _, ok := k.SetString(s, 10); ok {
		return Operand{Constant: k}
	}
	//
	return Name(s)
}

func parseRelOp(s string) (constraint.RelOp, error) {
	switch s {
	case "==", "=":
		return constraint.EQ, nil
	case "!=", "≠":
		return constraint.NEQ, nil
	case "<":
		return constraint.LT, nil
	case "<=", "≤":
		return constraint.LTEQ, nil
	case ">":
		return constraint.GT, nil
	case ">=", "≥":
		return constraint.GTEQ, nil
	}
	//
	return 0, fmt.Errorf("unknown relational operator %q", s)
}
