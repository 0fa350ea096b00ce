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

package binding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/varelim/varelim/ast"
	"github.com/varelim/varelim/binding"
)

// scanSource builds: var x = 1; var y = x + 1; return y;
func scanSource() []ast.Node {
	return []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: &ast.Num{Value: 1}}}},
		&ast.Var{Decls: []ast.VarDecl{{Name: "y", Init: &ast.Binary{
			Op:    "+",
			Left:  &ast.Name{Value: "x"},
			Right: &ast.Num{Value: 1},
		}}}},
		&ast.Return{Expr: &ast.Name{Value: "y"}},
	}
}

func TestScanBasicBindings(t *testing.T) {
	tbl := binding.Scan(scanSource())

	x, ok := tbl.Lookup("x")
	require.True(t, ok)
	assert.True(t, x.IsSingleDef)
	assert.Equal(t, 1, x.UseCount)

	y, ok := tbl.Lookup("y")
	require.True(t, ok)
	assert.True(t, y.IsSingleDef)
	assert.Equal(t, 1, y.UseCount)
}

func TestScanIncrementTargetIsNotSingleDef(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "i", Init: &ast.Num{Value: 0}}}},
		&ast.ExprStmt{Expr: &ast.UnaryPostfix{Op: "++", Expr: &ast.Name{Value: "i"}}},
	}
	tbl := binding.Scan(body)

	i, ok := tbl.Lookup("i")
	require.True(t, ok)
	assert.False(t, i.IsSingleDef)
}

func TestScanPrefixIncrementTargetIsNotSingleDef(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "i", Init: &ast.Num{Value: 0}}}},
		&ast.ExprStmt{Expr: &ast.UnaryPrefix{Op: "++", Expr: &ast.Name{Value: "i"}}},
	}
	tbl := binding.Scan(body)

	i, ok := tbl.Lookup("i")
	require.True(t, ok)
	assert.False(t, i.IsSingleDef)
}

func TestScanNegationPrefixDoesNotMutate(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "i", Init: &ast.Num{Value: 0}}}},
		&ast.ExprStmt{Expr: &ast.UnaryPrefix{Op: "-", Expr: &ast.Name{Value: "i"}}},
	}
	tbl := binding.Scan(body)

	i, ok := tbl.Lookup("i")
	require.True(t, ok)
	assert.True(t, i.IsSingleDef)
}

func TestScanAssignTargetIsNotSingleDef(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: &ast.Num{Value: 0}}}},
		&ast.ExprStmt{Expr: &ast.Assign{Op: "=", Left: &ast.Name{Value: "x"}, Right: &ast.Num{Value: 1}}},
	}
	tbl := binding.Scan(body)

	x, ok := tbl.Lookup("x")
	require.True(t, ok)
	assert.False(t, x.IsSingleDef)
}

func TestScanOmittedInitializerIsUndefined(t *testing.T) {
	body := []ast.Node{
		&ast.Var{Decls: []ast.VarDecl{{Name: "x", Init: nil}}},
	}
	tbl := binding.Scan(body)

	x, ok := tbl.Lookup("x")
	require.True(t, ok)
	assert.Equal(t, ast.KindName, x.InitialValue.Kind())
	_, isUndefined := x.InitialValue.(*ast.Undefined)
	assert.True(t, isUndefined)
}

func TestScanNamesInsideInitializerCountAsUses(t *testing.T) {
	tbl := binding.Scan(scanSource())

	x, _ := tbl.Lookup("x")
	assert.Equal(t, 1, x.UseCount, "x is read inside y's initializer")
}
