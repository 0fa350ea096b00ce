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

package liveness

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/walk"
)

// namesIn returns every distinct name syntactically referenced inside n,
// used by the control-flow-node kill rule: first collect the set of names
// syntactically appearing inside the node.
func namesIn(n ast.Node) map[string]bool {
	found := make(map[string]bool)
	walk.Walk(n, func(m ast.Node) (ast.Node, walk.Action) {
		if name, ok := m.(*ast.Name); ok {
			found[name.Value] = true
		}
		return nil, walk.Continue
	})
	return found
}

// baseName walks down the left-hand side of a mutation (assign or
// increment/decrement target) until the first name: `a.b`
// and `a[i]` both mutate through base name `a`.
func baseName(n ast.Node) (string, bool) {
	for {
		switch v := n.(type) {
		case *ast.Name:
			return v.Value, true
		case *ast.Sub:
			n = v.Expr
		default:
			return "", false
		}
	}
}
