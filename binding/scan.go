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

package binding

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/walk"
)

// Scan performs the Basic Variable Scan over body, a function's statement
// list, and returns the populated binding table.
func Scan(body []ast.Node) *Table {
	t := New()
	for _, stmt := range body {
		walk.Walk(stmt, t.observe)
	}
	return t
}

// observe is the walk.Observer driving the scan. It never replaces or
// aborts; it only records facts, always returning walk.Continue so the
// walker descends into every subtree (including initializers, so that the
// `name` occurrences they contain are counted the same way as any other
// use).
func (t *Table) observe(n ast.Node) (ast.Node, walk.Action) {
	switch v := n.(type) {
	case *ast.Var:
		for _, d := range v.Decls {
			init := d.Init
			if init == nil {
				init = &ast.Undefined{}
			}
			t.declare(d.Name, init)
		}
	case *ast.Name:
		t.use(v.Value)
	case *ast.Assign:
		if name, ok := v.Left.(*ast.Name); ok {
			t.assign(name.Value)
		}
	case *ast.UnaryPrefix:
		if name, ok := v.Expr.(*ast.Name); ok && (v.Op == "++" || v.Op == "--") {
			t.assign(name.Value)
		}
	case *ast.UnaryPostfix:
		if name, ok := v.Expr.(*ast.Name); ok {
			t.assign(name.Value)
		}
	}
	return nil, walk.Continue
}
