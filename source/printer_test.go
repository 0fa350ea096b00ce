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

package source_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/source"
)

func TestPrintVarDecl(t *testing.T) {
	n := &ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: &ast.Num{Value: 1}}}}
	assert.Equal(t, "var x = 1;", source.Print(n))
}

func TestPrintVarDeclOmitsUndefinedInitializer(t *testing.T) {
	n := &ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: &ast.Undefined{}}}}
	assert.Equal(t, "var x;", source.Print(n))
}

func TestPrintEmptyStatement(t *testing.T) {
	assert.Equal(t, ";", source.Print(&ast.EmptyStatement{}))
}

func TestPrintBinaryAddsSpaces(t *testing.T) {
	n := &ast.Binary{Op: "+", Left: &ast.Name{Value: "a"}, Right: &ast.Name{Value: "b"}}
	assert.Equal(t, "a + b", source.Print(n))
}

func TestPrintDoesNotOverParenthesizeAssignment(t *testing.T) {
	n := &ast.Assign{Op: "=", Left: &ast.Name{Value: "a"}, Right: &ast.Binary{Op: "+", Left: &ast.Name{Value: "x"}, Right: &ast.Num{Value: 1}}}
	assert.Equal(t, "a = x + 1", source.Print(n))
}

func TestPrintParenthesizesLowerPrecedenceChild(t *testing.T) {
	// (a + b) * c must keep its parens; a * b + c must not.
	withParens := &ast.Binary{Op: "*", Left: &ast.Binary{Op: "+", Left: &ast.Name{Value: "a"}, Right: &ast.Name{Value: "b"}}, Right: &ast.Name{Value: "c"}}
	assert.Equal(t, "(a + b) * c", source.Print(withParens))

	noParens := &ast.Binary{Op: "+", Left: &ast.Binary{Op: "*", Left: &ast.Name{Value: "a"}, Right: &ast.Name{Value: "b"}}, Right: &ast.Name{Value: "c"}}
	assert.Equal(t, "a * b + c", source.Print(noParens))
}

func TestPrintParenthesizesUnaryOperandBinary(t *testing.T) {
	n := &ast.UnaryPrefix{Op: "-", Expr: &ast.Binary{Op: "+", Left: &ast.Name{Value: "a"}, Right: &ast.Name{Value: "b"}}}
	assert.Equal(t, "-(a + b)", source.Print(n))
}

func TestPrintMemberAccessUsesDotForIdentifierLikeStrings(t *testing.T) {
	n := &ast.Sub{Expr: &ast.Name{Value: "a"}, Index: &ast.String{Value: "b"}}
	assert.Equal(t, "a.b", source.Print(n))
}

func TestPrintSubscriptUsesBracketsForNonIdentifierStrings(t *testing.T) {
	n := &ast.Sub{Expr: &ast.Name{Value: "a"}, Index: &ast.String{Value: "1x"}}
	assert.Equal(t, `a["1x"]`, source.Print(n))
}

func TestPrintCallWithArgs(t *testing.T) {
	n := &ast.Call{Callee: &ast.Name{Value: "f"}, Args: []ast.Node{&ast.Name{Value: "a"}, &ast.Num{Value: 1}}}
	assert.Equal(t, "f(a, 1)", source.Print(n))
}

func TestPrintNewExpression(t *testing.T) {
	n := &ast.New{Callee: &ast.Name{Value: "Foo"}, Args: []ast.Node{&ast.Num{Value: 1}}}
	assert.Equal(t, "new Foo(1)", source.Print(n))
}

func TestPrintIfElse(t *testing.T) {
	n := &ast.If{
		Cond: &ast.Name{Value: "c"},
		Then: &ast.Block{Stmts: []ast.Node{&ast.Debugger{}}},
		Else: &ast.Block{Stmts: []ast.Node{&ast.Debugger{}}},
	}
	out := source.Print(n)
	assert.Contains(t, out, "if (c) {")
	assert.Contains(t, out, "} else {")
}

func TestPrintForLoopSingleSemicolonBetweenClauses(t *testing.T) {
	n := &ast.For{
		Init: &ast.Var{Decls: []ast.VarDecl{{Name: "i", Init: &ast.Num{Value: 0}}}},
		Cond: &ast.Binary{Op: "<", Left: &ast.Name{Value: "i"}, Right: &ast.Num{Value: 10}},
		Step: &ast.UnaryPostfix{Op: "++", Expr: &ast.Name{Value: "i"}},
		Body: &ast.Block{},
	}
	out := source.Print(n)
	assert.Equal(t, "for (var i = 0; i < 10; i++) {\n}", out)
}

func TestPrintForLoopWithExprStmtInit(t *testing.T) {
	n := &ast.For{
		Init: &ast.ExprStmt{Expr: &ast.Assign{Op: "=", Left: &ast.Name{Value: "i"}, Right: &ast.Num{Value: 0}}},
		Cond: &ast.Binary{Op: "<", Left: &ast.Name{Value: "i"}, Right: &ast.Num{Value: 10}},
		Body: &ast.Block{},
	}
	out := source.Print(n)
	assert.Equal(t, "for (i = 0; i < 10; ) {\n}", out)
}

func TestPrintForLoopWithNilInit(t *testing.T) {
	n := &ast.For{
		Cond: &ast.Name{Value: "c"},
		Body: &ast.Block{},
	}
	out := source.Print(n)
	assert.Equal(t, "for (; c; ) {\n}", out)
}

func TestPrintFunctionDeclaration(t *testing.T) {
	n := &ast.Defun{Name: "f", Params: []string{"a", "b"}, Body: []ast.Node{&ast.Return{Expr: &ast.Name{Value: "a"}}}}
	out := source.Print(n)
	assert.Equal(t, "function f(a, b) {\n  return a;\n}", out)
}

func TestPrintStringLiteralQuotes(t *testing.T) {
	n := &ast.String{Value: "hi\nthere"}
	assert.Equal(t, `"hi\nthere"`, source.Print(n))
}

func TestPrintTopLevelChildrenOneEntryPerStatement(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: &ast.Num{Value: 1}}}},
		&ast.Return{Expr: &ast.Name{Value: "x"}},
	}
	out := source.PrintTopLevelChildren(body)
	require.Len(t, out, 2)
	assert.Equal(t, "var x = 1;", out[0])
	assert.Equal(t, "return x;", out[1])
}

func TestPrintRoundTripsThroughParse(t *testing.T) {
	src := "function f(a, b) {\n  var x = a + b;\n  return x;\n}"
	top, err := source.Parse([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, src, source.Print(top.Body[0]))
}

func TestPrintPanicsOnUnrecognizedKind(t *testing.T) {
	assert.Panics(t, func() {
		source.Print(fakeNode{})
	})
}

type fakeNode struct{}

func (fakeNode) Kind() string      { return "fake" }
func (fakeNode) Pos() ast.Position { return ast.Position{} }
