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
package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/consensys/go-verimon/pkg/automaton"
	"github.com/consensys/go-verimon/pkg/diag"
	"github.com/consensys/go-verimon/pkg/symbolic"
	"github.com/consensys/go-verimon/pkg/util"
	"github.com/goccy/go-yaml"
)

// Declarations mirroring the YAML event-trace format.  A trace names its
// values symbolically; each distinct name is minted one abstract value on
// first use.

type traceDecl struct {
	Events []eventDecl `yaml:"events"`
}

type eventDecl struct {
	Call       *callEventDecl       `yaml:"call"`
	ArrayWrite *arrayWriteEventDecl `yaml:"arraywrite"`
}

type callEventDecl struct {
	Procedure string   `yaml:"procedure"`
	Return    string   `yaml:"return"`
	Args      []string `yaml:"args"`
	Loc       string   `yaml:"loc"`
}

type arrayWriteEventDecl struct {
	Array string `yaml:"array"`
	Index string `yaml:"index"`
	Loc   string `yaml:"loc"`
}

// valueTable maps the trace's symbolic value names onto abstract values,
// minting one per distinct name.
type valueTable struct {
	alloc  symbolic.Allocator
	values map[string]symbolic.Value
}

func newValueTable(alloc symbolic.Allocator) *valueTable {
	return &valueTable{alloc, make(map[string]symbolic.Value)}
}

func (p *valueTable) value(name string) symbolic.Value {
	if v, ok := p.values[name]; ok {
		return v
	}
	//
	v := p.alloc.Fresh()
	p.values[name] = v
	//
	return v
}

// live returns the set of every value the trace names, which stands in for
// the host's live-value set during replay.
func (p *valueTable) live() symbolic.Set {
	set := symbolic.NewSet()
	//
	for _, v := range p.values {
		set.Insert(v)
	}
	//
	return set
}

// parseTrace decodes YAML event-trace source into events, minting values
// through the given table.
func parseTrace(source []byte, table *valueTable) ([]automaton.Event, error) {
	var decl traceDecl
	//
	if err := yaml.Unmarshal(source, &decl); err != nil {
		return nil, fmt.Errorf("malformed trace: %w", err)
	}
	//
	events := make([]automaton.Event, len(decl.Events))
	//
	for i, e := range decl.Events {
		ev, err := parseEvent(e, table)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		//
		events[i] = ev
	}
	//
	return events, nil
}

func parseEvent(e eventDecl, table *valueTable) (automaton.Event, error) {
	switch {
	case e.Call != nil && e.ArrayWrite != nil:
		return nil, fmt.Errorf("event declares both call and arraywrite")
	case e.Call != nil:
		ret := util.None[symbolic.Value]()
		if e.Call.Return != "" {
			ret = util.Some(table.value(e.Call.Return))
		}
		//
		args := make([]symbolic.Value, len(e.Call.Args))
		for i, a := range e.Call.Args {
			args[i] = table.value(a)
		}
		//
		return &automaton.Call{
			Procedure: e.Call.Procedure,
			Return:    ret,
			Arguments: args,
			Loc:       parseLocation(e.Call.Loc),
		}, nil
	case e.ArrayWrite != nil:
		return &automaton.ArrayWrite{
			Array: table.value(e.ArrayWrite.Array),
			Index: table.value(e.ArrayWrite.Index),
			Loc:   parseLocation(e.ArrayWrite.Loc),
		}, nil
	}
	//
	return nil, fmt.Errorf("event declares no kind")
}

// parseLocation reads a "file:line" location, tolerating absent or partial
// forms.
func parseLocation(s string) diag.Location {
	i := strings.LastIndexByte(s, ':')
	if i < 0 {
		return diag.Location{File: s}
	}
	//
	line, err := strconv.ParseUint(s[i+1:], 10, 32)
	if err != nil {
		return diag.Location{File: s}
	}
	//
	return diag.Location{File: s[:i], Line: uint(line)}
}
