// Copyright 2024 The varelim Authors
//
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

// Package initializer implements the Initializer Analysis pass: for every
// single-def binding, it inspects the initializer to
// decide whether it is built entirely from pure node kinds, and seeds the
// affects graph (package depgraph) with an edge from every free name the
// initializer reads to the binding being analyzed.
package initializer

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/binding"
	"github.com/varelim/varelim/config"
	"github.com/varelim/varelim/depgraph"
	"github.com/varelim/varelim/walk"
)

// pureKinds are node kinds that cannot, in the generated-code dialect, issue
// a call, construct, throw, or reassign.
// Built from config.PureNodeKinds.
var pureKinds = func() map[string]bool {
	m := make(map[string]bool, len(config.PureNodeKinds))
	for _, k := range config.PureNodeKinds {
		m[k] = true
	}
	return m
}()

// Analyze runs the Initializer Analysis pass over every single-def binding
// in t, recording edges into g.
func Analyze(t *binding.Table, g *depgraph.Graph) {
	for _, name := range t.Names() {
		info, _ := t.Lookup(name)
		if !info.IsSingleDef {
			continue
		}
		analyzeOne(name, info, t, g)
	}
}

func analyzeOne(name string, info *binding.Info, t *binding.Table, g *depgraph.Graph) {
	info.UsesOnlySimpleNodes = true

	walk.Walk(info.InitialValue, func(n ast.Node) (ast.Node, walk.Action) {
		if !pureKinds[n.Kind()] {
			info.UsesOnlySimpleNodes = false
		}

		ref, ok := n.(*ast.Name)
		if !ok || ref.Value == "undefined" {
			return nil, walk.Continue
		}

		g.AddEdge(ref.Value, name)
		if dep, ok := t.Lookup(ref.Value); !ok || !dep.IsLocal {
			info.DependsOnGlobal = true
		}
		return nil, walk.Continue
	})
}
