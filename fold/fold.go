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

// Package fold implements the Expression Optimizer: in an additive
// chain made only of numeric literals and name references, the literals
// are folded together and the names are preserved in their original
// relative order; a chain holding any other operand is left unchanged.
// It runs after the Rewriter so it also folds the constants the
// rewriter's substitutions exposed.
package fold

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/walk"
)

// Apply walks every statement in body, folding additive chains wherever a
// `binary '+'` node is found.
func Apply(body []ast.Node) {
	for i, stmt := range body {
		replaced, _ := walk.Walk(stmt, observe)
		body[i] = replaced
	}
}

func observe(n ast.Node) (ast.Node, walk.Action) {
	b, ok := n.(*ast.Binary)
	if !ok || b.Op != "+" {
		return nil, walk.Continue
	}
	folded := foldChain(b)
	if folded == n {
		return nil, walk.Continue
	}
	return folded, walk.Replace
}

// foldChain flattens the additive chain rooted at b into its leaves (the
// "num, name, or binary '+'" leaf set), sums the numeric leaves into
// a single constant, and rebuilds a left-associative chain with the folded
// constant innermost, folding the non-constant leaves onto it in their
// original encounter order (`1 + 2 + x` folds to `3 + x`, not `x + 3`).
// A chain with any leaf outside that set (a string, a call, a non-'+'
// operator, ...) is returned unchanged; walk.Walk then descends into it,
// so additive chains nested inside such leaves are still folded.
func foldChain(root *ast.Binary) ast.Node {
	var leaves []ast.Node
	var sum float64
	hasConst := false
	aborted := false

	var collect func(n ast.Node)
	collect = func(n ast.Node) {
		b, ok := n.(*ast.Binary)
		if !ok || b.Op != "+" {
			if num, ok := n.(*ast.Num); ok {
				sum += num.Value
				hasConst = true
				return
			}
			if _, ok := n.(*ast.Name); !ok {
				aborted = true
			}
			leaves = append(leaves, n)
			return
		}
		collect(b.Left)
		collect(b.Right)
	}
	collect(root)

	if aborted || !hasConst {
		return root
	}
	if len(leaves) == 0 {
		return &ast.Num{Value: sum}
	}

	result := ast.Node(&ast.Num{Value: sum})
	for _, l := range leaves {
		result = &ast.Binary{Op: "+", Left: result, Right: l}
	}
	return result
}
