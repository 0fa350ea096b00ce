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

// Package liveness implements the Live-Range Mutation Analyzer, the heart
// of varelim. It walks a function body with a liveness set
// L of currently-live single-def bindings, applying block discipline at
// structured constructs (switch/if/try join by intersection; loops reset L
// to empty on entry and exit) and per-node effects everywhere else (var
// declaration, assignment/increment, control-flow nodes, name use).
package liveness

import (
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/binding"
	"github.com/varelim/varelim/depgraph"
)

// analyzer carries the per-function state the traversal needs: the binding
// table (read for single-def/DependsOnGlobal, written for
// DepsMutatedInLiveRange) and the already-closed affects graph.
type analyzer struct {
	table *binding.Table
	graph *depgraph.Graph
	live  set
}

// Analyze runs the Live-Range Mutation Analyzer over body (a function's
// statement list), updating DepsMutatedInLiveRange on t's entries. t and g
// must already have been populated by the binding, initializer, and
// depgraph passes.
func Analyze(body []ast.Node, t *binding.Table, g *depgraph.Graph) {
	a := &analyzer{table: t, graph: g, live: newSet()}
	a.sequence(body)
}

// sequence processes a straight-line list of statements, threading the
// current liveness set through each in order. A bare statement list is not
// itself one of the "structured constructs"; it is the default
// discipline every block body (function body, if/else arm, loop body,
// switch case, try/catch/finally clause) reduces to.
func (a *analyzer) sequence(stmts []ast.Node) {
	for _, s := range stmts {
		a.visit(s)
	}
}

// visit applies either block discipline or the per-node effect table to n,
// recursing into n's children along the way.
func (a *analyzer) visit(n ast.Node) {
	if n == nil {
		return
	}

	switch v := n.(type) {
	case *ast.If:
		a.visit(v.Cond)
		snap := a.live.snapshot()
		a.live = snap.snapshot()
		a.visit(v.Then)
		thenResult := a.live
		if v.Else != nil {
			a.live = snap.snapshot()
			a.visit(v.Else)
			a.live = intersect(thenResult, a.live)
		} else {
			a.live = intersect(thenResult, snap)
		}

	case *ast.Switch:
		a.visit(v.Disc)
		base := a.live.snapshot()
		var merged set
		for i, c := range v.Cases {
			a.live = base.snapshot()
			if c.Expr != nil {
				a.visit(c.Expr)
			}
			a.sequence(c.Body)
			if i == 0 {
				merged = a.live
			} else {
				merged = intersect(merged, a.live)
			}
		}
		if merged == nil {
			merged = base
		}
		a.live = merged

	case *ast.Try:
		base := a.live.snapshot()
		a.live = base.snapshot()
		a.sequence(v.Body)
		result := a.live
		if v.Catch != nil {
			a.live = base.snapshot()
			a.sequence(v.Catch.Body)
			result = intersect(result, a.live)
		}
		a.live = result
		if v.Finally != nil {
			a.sequence(v.Finally)
		}

	case *ast.Do:
		a.live = newSet()
		a.visit(v.Body)
		a.visit(v.Cond)
		a.live = newSet()

	case *ast.While:
		a.live = newSet()
		a.visit(v.Cond)
		a.visit(v.Body)
		a.live = newSet()

	case *ast.For:
		a.live = newSet()
		a.visit(v.Init)
		a.visit(v.Cond)
		a.visit(v.Body)
		a.visit(v.Step)
		a.live = newSet()

	case *ast.ForIn:
		a.live = newSet()
		// v.Var is opaque; it is never visited by any pass.
		a.visit(v.Obj)
		a.visit(v.Body)
		a.live = newSet()

	case *ast.Var:
		for _, d := range v.Decls {
			a.visit(d.Init)
			if info, ok := a.table.Lookup(d.Name); ok && info.IsSingleDef {
				a.live.add(d.Name)
			}
			a.killDependents(d.Name)
		}

	case *ast.Assign:
		a.visit(v.Left)
		a.visit(v.Right)
		if base, ok := baseName(v.Left); ok {
			a.killDependents(base)
		}
		a.killGlobalsUnlessUsed(v)

	case *ast.UnaryPrefix:
		a.visit(v.Expr)
		if v.Op == "++" || v.Op == "--" {
			if base, ok := baseName(v.Expr); ok {
				a.killDependents(base)
			}
		}

	case *ast.UnaryPostfix:
		a.visit(v.Expr)
		if base, ok := baseName(v.Expr); ok {
			a.killDependents(base)
		}

	case *ast.Call:
		a.visit(v.Callee)
		for _, arg := range v.Args {
			a.visit(arg)
		}
		a.killControlFlow(v)

	case *ast.New:
		a.visit(v.Callee)
		for _, arg := range v.Args {
			a.visit(arg)
		}
		a.killControlFlow(v)

	case *ast.Throw:
		a.visit(v.Expr)
		a.killControlFlow(v)

	case *ast.Label:
		a.visit(v.Stmt)
		a.killControlFlow(v)

	case *ast.Debugger:
		a.killControlFlow(v)

	case *ast.Name:
		if info, ok := a.table.Lookup(v.Value); ok && info.IsSingleDef {
			if !a.live.contains(v.Value) {
				info.DepsMutatedInLiveRange = true
			}
		}

	case *ast.Binary:
		a.visit(v.Left)
		a.visit(v.Right)

	case *ast.Sub:
		a.visit(v.Expr)
		a.visit(v.Index)

	case *ast.Block:
		a.sequence(v.Stmts)

	case *ast.Return:
		a.visit(v.Expr)

	case *ast.ExprStmt:
		a.visit(v.Expr)

	case *ast.Defun:
		a.sequence(v.Body)

	case *ast.Function:
		a.sequence(v.Body)

	case *ast.Toplevel:
		a.sequence(v.Body)

	case *ast.Num, *ast.String, *ast.Undefined:
		// leaves, no effect

	default:
		panic("liveness: unrecognized node kind " + n.Kind())
	}
}

// killDependents kills every live binding whose initializer transitively
// reads name: name has just been (re)defined or mutated, so any earlier
// live binding referring to it would refer to a stale or undefined slot.
func (a *analyzer) killDependents(name string) {
	for _, t := range a.graph.Targets(name) {
		a.live.kill(t)
	}
}

// killControlFlow applies the "any control-flow node" rule (new, throw,
// call, label, debugger): a call/throw/new may mutate globals and may not
// return at all, so only bindings fully captured by locals and consumed on
// this very statement survive.
func (a *analyzer) killControlFlow(n ast.Node) {
	used := namesIn(n)
	for _, name := range a.table.Names() {
		if !a.live.contains(name) {
			continue
		}
		info, _ := a.table.Lookup(name)
		if info.DependsOnGlobal || !used[name] {
			a.live.kill(name)
		}
	}
}

// killGlobalsUnlessUsed applies assign's additional kill rule: a global
// read through an assignment may also have observable side effects via
// setters or coercions.
func (a *analyzer) killGlobalsUnlessUsed(n ast.Node) {
	used := namesIn(n)
	for _, name := range a.table.Names() {
		if !a.live.contains(name) {
			continue
		}
		info, _ := a.table.Lookup(name)
		if info.DependsOnGlobal && !used[name] {
			a.live.kill(name)
		}
	}
}
