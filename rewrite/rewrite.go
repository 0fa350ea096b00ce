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

// Package rewrite decides which bindings are eliminable and performs the
// Rewriter pass: it deletes
// their declarations, collapses mutually-referential eliminated initializers
// to a fixed point, and substitutes every remaining use with a clone of the
// collapsed initializer.
package rewrite

import (
	"errors"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/binding"
	"github.com/varelim/varelim/walk"
)

// ErrCollapseCycle is returned by Apply if collapsing eliminated
// initializers fails to reach a fixed point within a bounded number of
// iterations. This cannot happen under the single-def invariant (a binding
// cannot appear in its own initializer in well-formed input), but Apply
// still guards against it rather than looping forever, since that
// assumption is about the input, not about this code.
var ErrCollapseCycle = errors.New("rewrite: eliminated initializers do not converge (cyclic reference?)")

// MaxUses is the largest use count a binding may have and still be a
// candidate for elimination: used at most once.
const MaxUses = 1

// Eliminable reports whether info describes a binding that may be removed
// and substituted: single-def, a pure initializer, and either never read or
// read at most once with no live-range mutation of anything it depends on.
func Eliminable(info *binding.Info) bool {
	if !info.IsSingleDef || !info.UsesOnlySimpleNodes {
		return false
	}
	if info.UseCount == 0 {
		return true
	}
	return info.UseCount <= MaxUses && !info.DepsMutatedInLiveRange
}

// Reason explains, for diagnostics, why info's binding is not eliminable.
// It returns "" if info is in fact eliminable.
func Reason(info *binding.Info) string {
	switch {
	case !info.IsSingleDef:
		return "reassigned or multiply declared"
	case !info.UsesOnlySimpleNodes:
		return "initializer contains a call, new, or throw"
	case info.UseCount == 0:
		return ""
	case info.UseCount > MaxUses:
		return "used more than once"
	case info.DepsMutatedInLiveRange:
		return "a dependency may be mutated before the use"
	default:
		return ""
	}
}

// Apply runs the full Rewriter pass over body: it computes the eliminable
// set, collapses eliminated initializers that reference other eliminated
// bindings to a fixed point, removes their declarations, and substitutes
// every surviving use of an eliminated name with a clone of its collapsed
// initializer. It returns the number of bindings eliminated. onDecision, if
// non-nil, is called once per binding with the eliminability verdict and
// (when retained) the reason, for the CLI's --verbose diagnostics.
func Apply(body []ast.Node, t *binding.Table, onDecision func(name string, eliminated bool, reason string)) (int, error) {
	eliminated := make(map[string]bool)
	for _, name := range t.Names() {
		info, _ := t.Lookup(name)
		ok := Eliminable(info)
		if onDecision != nil {
			onDecision(name, ok, Reason(info))
		}
		if ok {
			eliminated[name] = true
		}
	}
	if len(eliminated) == 0 {
		return 0, nil
	}

	collapsed, err := collapseInitializers(t, eliminated)
	if err != nil {
		return 0, err
	}
	removeDeclarations(body, eliminated)
	substituteUses(body, eliminated, collapsed)

	return len(eliminated), nil
}

// collapseInitializers resolves, for every eliminated name, the initializer
// that should replace its uses, substituting references to other eliminated
// names inside it until a fixed point is reached. Eliminated initializers
// are assumed acyclic, so this always terminates. The
// iteration count is bounded at one pass per eliminated binding, the most a
// correctly acyclic chain could ever need.
func collapseInitializers(t *binding.Table, eliminated map[string]bool) (map[string]ast.Node, error) {
	collapsed := make(map[string]ast.Node, len(eliminated))
	for name := range eliminated {
		info, _ := t.Lookup(name)
		collapsed[name] = ast.Clone(info.InitialValue)
	}

	limit := len(eliminated) + 1
	for changed := true; changed; limit-- {
		if limit < 0 {
			return nil, ErrCollapseCycle
		}
		changed = false
		for name, init := range collapsed {
			replaced, didReplace := substitute(init, eliminated, collapsed)
			if didReplace {
				collapsed[name] = replaced
				changed = true
			}
		}
	}
	return collapsed, nil
}

// removeDeclarations deletes every VarDecl whose name is in eliminated. A
// Var statement left with other surviving decls is kept, emptied of just
// those decls; a Var statement whose every decl is eliminated is replaced
// wholesale with an *ast.EmptyStatement, since a declaration-less `var` is
// not a statement the printer (or any downstream reader) should ever see.
func removeDeclarations(body []ast.Node, eliminated map[string]bool) {
	for i, stmt := range body {
		replaced, _ := walk.Walk(stmt, func(n ast.Node) (ast.Node, walk.Action) {
			v, ok := n.(*ast.Var)
			if !ok {
				return nil, walk.Continue
			}
			kept := v.Decls[:0]
			for _, d := range v.Decls {
				if !eliminated[d.Name] {
					kept = append(kept, d)
				}
			}
			v.Decls = kept
			if len(kept) == 0 {
				empty := &ast.EmptyStatement{}
				empty.SetPos(v.Pos())
				return empty, walk.Replace
			}
			return nil, walk.Continue
		})
		body[i] = replaced
	}
}

// substituteUses replaces every remaining `name` node referencing an
// eliminated binding with a fresh clone of its collapsed initializer
// by cloning rather than sharing.
func substituteUses(body []ast.Node, eliminated map[string]bool, collapsed map[string]ast.Node) {
	for i, stmt := range body {
		replaced, _ := walk.Walk(stmt, func(n ast.Node) (ast.Node, walk.Action) {
			name, ok := n.(*ast.Name)
			if !ok || !eliminated[name.Value] {
				return nil, walk.Continue
			}
			return ast.Clone(collapsed[name.Value]), walk.Replace
		})
		body[i] = replaced
	}
}

// substitute returns a copy of n with every eliminated-name reference
// replaced by a clone of its current collapsed initializer, and whether any
// replacement was made.
func substitute(n ast.Node, eliminated map[string]bool, collapsed map[string]ast.Node) (ast.Node, bool) {
	did := false
	replaced, _ := walk.Walk(ast.Clone(n), func(m ast.Node) (ast.Node, walk.Action) {
		name, ok := m.(*ast.Name)
		if !ok || !eliminated[name.Value] {
			return nil, walk.Continue
		}
		did = true
		return ast.Clone(collapsed[name.Value]), walk.Replace
	})
	return replaced, did
}
