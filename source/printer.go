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

package source

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/varelim/varelim/ast"
)

// Print renders n as source text. Operator precedence is tracked only to
// the degree the closed grammar requires (binary '+'/other binary ops,
// unary prefix/postfix, call/new/subscript), by parenthesizing a Binary
// child of another Binary whose operator binds less tightly and any Binary
// or Assign operand of a unary, call, new or subscript, a conservative
// approximation that may print a redundant pair.
func Print(n ast.Node) string {
	var b strings.Builder
	printNode(&b, n, 0)
	return b.String()
}

// PrintTopLevelChildren renders each statement in body as its own string,
// avoiding whole-program serialization for large inputs.
func PrintTopLevelChildren(body []ast.Node) []string {
	out := make([]string, len(body))
	for i, n := range body {
		out[i] = Print(n)
	}
	return out
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString("  ")
	}
}

func printNode(b *strings.Builder, n ast.Node, depth int) {
	switch v := n.(type) {
	case *ast.Name:
		b.WriteString(v.Value)
	case *ast.Num:
		b.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	case *ast.String:
		b.WriteString(strconv.Quote(v.Value))
	case *ast.Undefined:
		b.WriteString("undefined")

	case *ast.Var:
		b.WriteString("var ")
		for i, d := range v.Decls {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(d.Name)
			if _, isUndef := d.Init.(*ast.Undefined); !isUndef && d.Init != nil {
				b.WriteString(" = ")
				printExprChild(b, d.Init, v, 0)
			}
		}
		b.WriteString(";")

	case *ast.Binary:
		printExprChild(b, v.Left, v, 0)
		fmt.Fprintf(b, " %s ", v.Op)
		printExprChild(b, v.Right, v, 1)

	case *ast.UnaryPrefix:
		b.WriteString(v.Op)
		printExprChild(b, v.Expr, v, 0)

	case *ast.UnaryPostfix:
		printExprChild(b, v.Expr, v, 0)
		b.WriteString(v.Op)

	case *ast.Sub:
		printExprChild(b, v.Expr, v, 0)
		if s, ok := v.Index.(*ast.String); ok && isIdentifierLike(s.Value) {
			b.WriteString(".")
			b.WriteString(s.Value)
		} else {
			b.WriteString("[")
			printNode(b, v.Index, depth)
			b.WriteString("]")
		}

	case *ast.Assign:
		printExprChild(b, v.Left, v, 0)
		b.WriteString(" = ")
		printExprChild(b, v.Right, v, 1)

	case *ast.Call:
		printExprChild(b, v.Callee, v, 0)
		printArgs(b, v.Args)

	case *ast.New:
		b.WriteString("new ")
		printExprChild(b, v.Callee, v, 0)
		printArgs(b, v.Args)

	case *ast.Throw:
		b.WriteString("throw ")
		printNode(b, v.Expr, depth)
		b.WriteString(";")

	case *ast.Label:
		b.WriteString(v.Name)
		b.WriteString(": ")
		printNode(b, v.Stmt, depth)

	case *ast.Debugger:
		b.WriteString("debugger;")

	case *ast.EmptyStatement:
		b.WriteString(";")

	case *ast.If:
		b.WriteString("if (")
		printNode(b, v.Cond, depth)
		b.WriteString(") ")
		printNode(b, v.Then, depth)
		if v.Else != nil {
			b.WriteString(" else ")
			printNode(b, v.Else, depth)
		}

	case *ast.Switch:
		b.WriteString("switch (")
		printNode(b, v.Disc, depth)
		b.WriteString(") {\n")
		for _, c := range v.Cases {
			indent(b, depth+1)
			if c.Expr != nil {
				b.WriteString("case ")
				printNode(b, c.Expr, depth)
			} else {
				b.WriteString("default")
			}
			b.WriteString(":\n")
			for _, s := range c.Body {
				indent(b, depth+2)
				printNode(b, s, depth+2)
				b.WriteString("\n")
			}
		}
		indent(b, depth)
		b.WriteString("}")

	case *ast.Try:
		b.WriteString("try ")
		printBlockStmts(b, v.Body, depth)
		if v.Catch != nil {
			b.WriteString(" catch (")
			b.WriteString(v.Catch.Name)
			b.WriteString(") ")
			printBlockStmts(b, v.Catch.Body, depth)
		}
		if v.Finally != nil {
			b.WriteString(" finally ")
			printBlockStmts(b, v.Finally, depth)
		}

	case *ast.Do:
		b.WriteString("do ")
		printNode(b, v.Body, depth)
		b.WriteString(" while (")
		printNode(b, v.Cond, depth)
		b.WriteString(");")

	case *ast.While:
		b.WriteString("while (")
		printNode(b, v.Cond, depth)
		b.WriteString(") ")
		printNode(b, v.Body, depth)

	case *ast.For:
		b.WriteString("for (")
		if v.Init != nil {
			// Both *ast.Var and *ast.ExprStmt (the two legal Init shapes)
			// print their own trailing ';'.
			printNode(b, v.Init, depth)
		} else {
			b.WriteString(";")
		}
		b.WriteString(" ")
		if v.Cond != nil {
			printNode(b, v.Cond, depth)
		}
		b.WriteString("; ")
		if v.Step != nil {
			printNode(b, v.Step, depth)
		}
		b.WriteString(") ")
		printNode(b, v.Body, depth)

	case *ast.ForIn:
		b.WriteString("for (")
		printNode(b, v.Var, depth)
		b.WriteString(" in ")
		printNode(b, v.Obj, depth)
		b.WriteString(") ")
		printNode(b, v.Body, depth)

	case *ast.Block:
		printBlockStmts(b, v.Stmts, depth)

	case *ast.Return:
		b.WriteString("return")
		if v.Expr != nil {
			b.WriteString(" ")
			printNode(b, v.Expr, depth)
		}
		b.WriteString(";")

	case *ast.ExprStmt:
		printNode(b, v.Expr, depth)
		b.WriteString(";")

	case *ast.Defun:
		printFunctionLike(b, v.Name, v.Params, v.Body, depth)

	case *ast.Function:
		printFunctionLike(b, v.Name, v.Params, v.Body, depth)

	case *ast.Toplevel:
		for i, stmt := range v.Body {
			if i > 0 {
				b.WriteString("\n\n")
			}
			printNode(b, stmt, depth)
		}

	default:
		panic("source: unrecognized node kind " + n.Kind())
	}
}

func printFunctionLike(b *strings.Builder, name string, params []string, body []ast.Node, depth int) {
	b.WriteString("function ")
	b.WriteString(name)
	b.WriteString("(")
	b.WriteString(strings.Join(params, ", "))
	b.WriteString(") ")
	printBlockStmts(b, body, depth)
}

func printBlockStmts(b *strings.Builder, stmts []ast.Node, depth int) {
	b.WriteString("{\n")
	for _, s := range stmts {
		indent(b, depth+1)
		printNode(b, s, depth+1)
		b.WriteString("\n")
	}
	indent(b, depth)
	b.WriteString("}")
}

func printArgs(b *strings.Builder, args []ast.Node) {
	b.WriteString("(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		printNode(b, a, 0)
	}
	b.WriteString(")")
}

func isIdentifierLike(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

// precedenceByOp mirrors binaryPrecedence for the printer's own parenthesization
// decisions; it does not need operator text for non-Binary nodes since
// those are handled by their own parenthesization rules below.
var precedenceByOp = map[string]int{
	"||": 1, "&&": 2, "|": 3, "^": 4, "&": 5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7,
	"<<": 8, ">>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
	",": 0,
}

// printExprChild prints child in the context of parent, parenthesizing it
// when its own precedence is lower than what parent requires at that
// operand position (side: 0 for left/only, 1 for right).
func printExprChild(b *strings.Builder, child ast.Node, parent ast.Node, side int) {
	needsParens := false
	if cb, ok := child.(*ast.Binary); ok {
		switch pb := parent.(type) {
		case *ast.Binary:
			childPrec := precedenceByOp[cb.Op]
			parentPrec := precedenceByOp[pb.Op]
			if childPrec < parentPrec || (childPrec == parentPrec && side == 1) {
				needsParens = true
			}
		case *ast.UnaryPrefix, *ast.UnaryPostfix, *ast.Sub, *ast.Call, *ast.New:
			needsParens = true
		case *ast.Var, *ast.Assign:
			needsParens = cb.Op == ","
		}
	}
	if _, ok := child.(*ast.Assign); ok {
		switch parent.(type) {
		case *ast.Binary, *ast.UnaryPrefix, *ast.UnaryPostfix, *ast.Sub, *ast.Call, *ast.New:
			needsParens = true
		}
	}
	if cu, ok := child.(*ast.UnaryPrefix); ok {
		if pu, ok := parent.(*ast.UnaryPrefix); ok && (pu.Op == "-" || pu.Op == "+") && strings.HasPrefix(cu.Op, pu.Op) {
			needsParens = true
		}
	}
	if needsParens {
		b.WriteString("(")
		printNode(b, child, 0)
		b.WriteString(")")
		return
	}
	printNode(b, child, 0)
}
