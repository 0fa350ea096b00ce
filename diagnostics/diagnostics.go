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

// Package diagnostics surfaces the "negative facts" every pass records when
// it cannot prove a property: analytical conservatism is not an error, it
// records the negative fact and processing continues. These are structured,
// leveled log lines using the standard library's log/slog; see DESIGN.md
// for why this one ambient concern stays on the standard library.
package diagnostics

import (
	"io"
	"log/slog"
	"os"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/util/asthelper"
)

// New returns a logger that writes leveled text lines to os.Stderr when
// verbose is true, or discards everything otherwise (the CLI's default).
func New(verbose bool) *slog.Logger {
	var h slog.Handler
	if verbose {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		h = slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1})
	}
	return slog.New(h)
}

// Retained logs that a binding was analyzed but could not be proven
// eliminable, naming the withheld reason so a --verbose run explains every
// binding the rewriter left untouched.
func Retained(log *slog.Logger, function, name, reason string) {
	log.Debug("binding retained", "function", function, "binding", name, "reason", reason)
}

// Eliminated logs that a binding was substituted away, including a
// shortened rendering of the initializer that replaced its uses.
func Eliminated(log *slog.Logger, function, name string, initializer ast.Node) {
	log.Debug("binding eliminated", "function", function, "binding", name,
		"initializer", asthelper.PrintExpr(initializer, true))
}

// FunctionSkipped logs that a top-level function was not in the generated
// set and was left untouched.
func FunctionSkipped(log *slog.Logger, name string) {
	log.Debug("function skipped, not in generated set", "function", name)
}
