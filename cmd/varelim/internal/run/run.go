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

// Package run implements the varelim command's cobra.Command and its
// end-to-end pipeline: read, scan the generated-functions marker, parse,
// optimize each named function, and print.
package run

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/varelim/varelim"
	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/config"
	"github.com/varelim/varelim/diagnostics"
	"github.com/varelim/varelim/source"
	"github.com/varelim/varelim/rewrite"
)

// options holds the flag values for a single invocation.
type options struct {
	maxUses int
	verbose bool
	stats   bool
}

// Command builds the root cobra.Command for the varelim binary.
func Command() *cobra.Command {
	opts := &options{maxUses: config.MaxUses}

	cmd := &cobra.Command{
		Use:   "varelim <file>",
		Short: "Eliminate single-use local bindings from generated source",
		Long: "varelim reads a JavaScript-like source file, finds the functions\n" +
			"named on its // EMSCRIPTEN_GENERATED_FUNCTIONS: marker line, and\n" +
			"rewrites each one to remove local bindings whose initializer can\n" +
			"be substituted at its single use site.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.maxUses, "max-uses", config.MaxUses,
		"largest use count a binding may have and still be eliminated; only the\n"+
			"built-in value is supported, any other value is reported on stderr and ignored")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false,
		"log every eliminability decision to stderr")
	cmd.Flags().BoolVar(&opts.stats, "stats", false,
		"print the number of bindings eliminated per function")

	return cmd
}

func runFile(stdout, stderr io.Writer, path string, opts *options) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("varelim: %w", err)
	}

	marker, names, err := findMarker(src)
	if err != nil {
		return fmt.Errorf("varelim: %s: %w", path, err)
	}

	top, err := source.Parse(src)
	if err != nil {
		return fmt.Errorf("varelim: %s: %w", path, err)
	}

	log := diagnostics.New(opts.verbose)
	log = log.With("file", path)

	if opts.maxUses != config.MaxUses {
		// rewrite.MaxUses is a package constant, not a variable: a CLI flag
		// cannot retune it without the rewriter exposing a parameterized
		// entry point. Surface that honestly rather than silently ignoring
		// the flag.
		fmt.Fprintf(stderr, "varelim: --max-uses=%d requested, but this build only supports %d (rewrite.MaxUses)\n",
			opts.maxUses, rewrite.MaxUses)
	}

	optimizeNamed(top.Body, names, log, opts.stats, stderr)
	writeOutput(stdout, marker, source.PrintTopLevelChildren(top.Body))
	return nil
}

// optimizeNamed runs OptimizeFunction then FoldAdditions over the body of
// every top-level Defun/Function node whose name is in names.
func optimizeNamed(body []ast.Node, names map[string]bool, log *slog.Logger, stats bool, stderr io.Writer) {
	for _, n := range body {
		var name string
		var fnBody []ast.Node
		switch v := n.(type) {
		case *ast.Defun:
			name, fnBody = v.Name, v.Body
		case *ast.Function:
			name, fnBody = v.Name, v.Body
		default:
			continue
		}
		if !names[name] {
			diagnostics.FunctionSkipped(log, name)
			continue
		}

		count, err := varelim.OptimizeFunction(fnBody, varelim.WithDiagnostics(log, name))
		if err != nil {
			fmt.Fprintf(stderr, "varelim: %s: %v\n", name, err)
			continue
		}
		varelim.FoldAdditions(fnBody)

		if stats {
			fmt.Fprintf(stderr, "%s: %d eliminated\n", name, count)
		}
	}
}

// findMarker scans src line by line for the generated-functions marker and
// returns its text along with the set of names it lists: names are
// comma-separated after the marker, optionally wrapped in [ ] and quoted
// (a serialized array such as ["_a","_b"]).
func findMarker(src []byte) (line string, names map[string]bool, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(src))
	for scanner.Scan() {
		text := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(text), config.GeneratedFunctionsMarker) {
			return text, parseMarkerNames(text), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", nil, err
	}
	return "", nil, fmt.Errorf("no %s marker found", config.GeneratedFunctionsMarker)
}

func parseMarkerNames(line string) map[string]bool {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), config.GeneratedFunctionsMarker))
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "["), "]")
	names := make(map[string]bool)
	for _, part := range strings.Split(rest, ",") {
		if name := strings.Trim(strings.TrimSpace(part), `"'`); name != "" {
			names[name] = true
		}
	}
	return names
}

// writeOutput prints each top-level statement on its own line group and
// then the marker line, avoiding whole-program serialization for large
// inputs.
func writeOutput(w io.Writer, marker string, children []string) {
	for i, c := range children {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, c)
	}
	fmt.Fprintln(w, marker)
}
