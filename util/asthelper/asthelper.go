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

// Package asthelper implements utility functions for printing varelim's own
// AST nodes in diagnostic output (the --verbose logging path) without
// pulling in the full source printer.
package asthelper

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/varelim/varelim/ast"
)

// _shortenExprLen is the maximum length of a leaf expression printed in
// full before PrintExpr collapses its arguments/index to an ellipsis.
const _shortenExprLen = 3

// PrintExpr renders e as a short, single-line diagnostic string. When
// isShortenExpr is true, a subscript index or a call's sole argument is
// printed only if it is a name, number or string of at most
// _shortenExprLen characters and is otherwise collapsed to "...", and a
// call with two or more arguments always prints "(...)", so that logging a binding whose
// initializer is a large call expression doesn't flood the log line.
func PrintExpr(e ast.Node, isShortenExpr bool) string {
	if !isShortenExpr {
		return exprToString(e)
	}

	var s strings.Builder
	printExprHelper(e, &s)
	return s.String()
}

// fullExpr returns the node's text and true if it is short enough
// (<= _shortenExprLen) to print in full.
func fullExpr(n ast.Node) (string, bool) {
	switch v := n.(type) {
	case *ast.Name:
		if len(v.Value) <= _shortenExprLen {
			return v.Value, true
		}
	case *ast.Num:
		lit := strconv.FormatFloat(v.Value, 'g', -1, 64)
		if len(lit) <= _shortenExprLen {
			return lit, true
		}
	case *ast.String:
		if len(v.Value) <= _shortenExprLen {
			return strconv.Quote(v.Value), true
		}
	}
	return "", false
}

func printExprHelper(n ast.Node, s *strings.Builder) {
	switch v := n.(type) {
	case *ast.Name:
		s.WriteString(v.Value)

	case *ast.Sub:
		printExprHelper(v.Expr, s)
		s.WriteString("[")
		if lit, ok := fullExpr(v.Index); ok {
			s.WriteString(lit)
		} else {
			s.WriteString("...")
		}
		s.WriteString("]")

	case *ast.Call:
		printExprHelper(v.Callee, s)
		s.WriteString("(")
		switch {
		case len(v.Args) == 0:
			// no-op
		case len(v.Args) == 1:
			if lit, ok := fullExpr(v.Args[0]); ok {
				s.WriteString(lit)
			} else {
				s.WriteString("...")
			}
		default:
			s.WriteString("...")
		}
		s.WriteString(")")

	default:
		s.WriteString(exprToString(n))
	}
}

// exprToString renders any node kind in full, used both as PrintExpr's
// non-shortening path and as printExprHelper's fallback for kinds it
// doesn't special-case.
func exprToString(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Name:
		return v.Value
	case *ast.Num:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.String:
		return strconv.Quote(v.Value)
	case *ast.Undefined:
		return "undefined"
	case *ast.Binary:
		return fmt.Sprintf("%s %s %s", exprToString(v.Left), v.Op, exprToString(v.Right))
	case *ast.UnaryPrefix:
		return v.Op + exprToString(v.Expr)
	case *ast.UnaryPostfix:
		return exprToString(v.Expr) + v.Op
	case *ast.Sub:
		return fmt.Sprintf("%s[%s]", exprToString(v.Expr), exprToString(v.Index))
	case *ast.Assign:
		return fmt.Sprintf("%s %s %s", exprToString(v.Left), v.Op, exprToString(v.Right))
	case *ast.Call:
		return fmt.Sprintf("%s(%s)", exprToString(v.Callee), joinExprs(v.Args))
	case *ast.New:
		return fmt.Sprintf("new %s(%s)", exprToString(v.Callee), joinExprs(v.Args))
	default:
		return n.Kind()
	}
}

func joinExprs(ns []ast.Node) string {
	parts := make([]string, len(ns))
	for i, n := range ns {
		parts[i] = exprToString(n)
	}
	return strings.Join(parts, ", ")
}
