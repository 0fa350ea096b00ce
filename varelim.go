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

// Package varelim implements a post-pass optimizer for machine-generated,
// JavaScript-like source: it identifies single-assignment local bindings
// whose initializer can be substituted safely at every use site, erases the
// declaration, substitutes the initializer, and constant-folds additive
// chains left behind. OptimizeFunction and FoldAdditions are the two entry
// points a caller drives per function body; everything else (binding
// table, affects graph, liveness analysis, rewriting) is internal
// machinery wired together by OptimizeFunction.
package varelim

import (
	"fmt"
	"log/slog"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/binding"
	"github.com/varelim/varelim/depgraph"
	"github.com/varelim/varelim/diagnostics"
	"github.com/varelim/varelim/fold"
	"github.com/varelim/varelim/initializer"
	"github.com/varelim/varelim/liveness"
	"github.com/varelim/varelim/rewrite"
)

// SyntaxError is a position-carrying error type for input-shape errors.
// No pass in this module returns it: an AST node of unrecognized kind
// reaching a pass panics instead.
type SyntaxError struct {
	Pos     ast.Position
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Col, e.Message)
}

// Option configures an OptimizeFunction call. The zero value for every
// option is the default: no logging.
type Option func(*settings)

type settings struct {
	log      *slog.Logger
	function string
}

// WithDiagnostics attaches a logger and the enclosing function's name, so
// every eliminability decision is reported through package diagnostics
// (wired to the CLI's --verbose flag).
func WithDiagnostics(log *slog.Logger, functionName string) Option {
	return func(s *settings) {
		s.log = log
		s.function = functionName
	}
}

// OptimizeFunction runs the full variable-elimination analysis over body (a
// function's statement list), mutating it in place, and returns the number
// of bindings eliminated. body is a *ast.Defun or *ast.Function's Body
// field; passes run in the fixed order the analysis depends on: Basic
// Variable Scan, Initializer Analysis, Transitive Closure, Live-Range
// Mutation Analysis, then the Rewriter.
//
// Any malformed input reaching the walker (an unrecognized node kind) comes
// back as a panic from the offending package's exhaustive type switch; such
// trees are a contract violation by the caller's parser and are not
// recoverable here: they are fatal programmer errors, not
// something OptimizeFunction can itself detect in advance without its own
// redundant type switch.
func OptimizeFunction(body []ast.Node, opts ...Option) (eliminated int, err error) {
	s := &settings{log: diagnostics.New(false)}
	for _, opt := range opts {
		opt(s)
	}

	table := binding.Scan(body)
	graph := depgraph.New()

	initializer.Analyze(table, graph)

	graph.Close(
		func(name string) bool {
			info, ok := table.Lookup(name)
			return !ok || !info.IsLocal
		},
		func(target string) {
			if info, ok := table.Lookup(target); ok {
				info.DependsOnGlobal = true
			}
		},
	)

	liveness.Analyze(body, table, graph)

	return rewrite.Apply(body, table, func(name string, eliminated bool, reason string) {
		if eliminated {
			info, _ := table.Lookup(name)
			diagnostics.Eliminated(s.log, s.function, name, info.InitialValue)
		} else if reason != "" {
			diagnostics.Retained(s.log, s.function, name, reason)
		}
	})
}

// FoldAdditions runs the auxiliary constant-folding pass over body in
// place.
func FoldAdditions(body []ast.Node) {
	fold.Apply(body)
}
