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

// Package walk implements the single generic AST traversal every other pass
// in varelim is expressed as a visitor over. It is a
// pre-order traversal with an in-place replacement protocol, following the
// shape of go/ast's own Apply/ApplyFunc (see src/go/ast/apply.go in the Go
// project): an observer can leave a node alone, replace it wholesale, or
// abort the whole traversal.
package walk

import "github.com/varelim/varelim/ast"

// Action is the observer's verdict for the node it was just given.
type Action int

const (
	// Continue means no replacement; descend into the node's children.
	Continue Action = iota
	// Replace means the returned node is spliced into the parent slot in
	// place of the visited node; the replacement's own subtree is not
	// traversed.
	Replace
	// Stop aborts the entire traversal immediately.
	Stop
)

// Observer is called for every node, pre-order. It returns the node to
// splice in for Replace (ignored otherwise) and the Action to take.
type Observer func(n ast.Node) (ast.Node, Action)

// Walk traverses n pre-order, calling obs on every node reached and
// splicing in any replacement in place of that node; a replacement is not
// itself descended into. It returns the
// (possibly-replaced) node and whether the traversal was aborted via Stop.
func Walk(n ast.Node, obs Observer) (ast.Node, bool) {
	if n == nil {
		return nil, false
	}

	repl, action := obs(n)
	switch action {
	case Stop:
		return n, true
	case Replace:
		return repl, false
	}

	return descend(n, obs)
}

// walkSlice walks each element of ns in order, splicing in replacements and
// returning immediately (with stopped=true) if any element's traversal is
// aborted.
func walkSlice(ns []ast.Node, obs Observer) ([]ast.Node, bool) {
	for i, c := range ns {
		nc, stopped := Walk(c, obs)
		ns[i] = nc
		if stopped {
			return ns, true
		}
	}
	return ns, false
}

// descend visits the children of n, a node for which the observer already
// returned Continue. Each child slot is overwritten in place with the
// traversal's result, mirroring the "replacement subtree is spliced into
// the parent slot" protocol.
func descend(n ast.Node, obs Observer) (ast.Node, bool) {
	switch v := n.(type) {
	case *ast.Name, *ast.Num, *ast.String, *ast.Undefined, *ast.Debugger, *ast.EmptyStatement:
		// leaf nodes, no children

	case *ast.Var:
		for i := range v.Decls {
			nc, stopped := Walk(v.Decls[i].Init, obs)
			v.Decls[i].Init = nc
			if stopped {
				return v, true
			}
		}

	case *ast.Binary:
		if nc, stopped := Walk(v.Left, obs); stopped {
			v.Left = nc
			return v, true
		} else {
			v.Left = nc
		}
		if nc, stopped := Walk(v.Right, obs); stopped {
			v.Right = nc
			return v, true
		} else {
			v.Right = nc
		}

	case *ast.UnaryPrefix:
		nc, stopped := Walk(v.Expr, obs)
		v.Expr = nc
		if stopped {
			return v, true
		}

	case *ast.UnaryPostfix:
		nc, stopped := Walk(v.Expr, obs)
		v.Expr = nc
		if stopped {
			return v, true
		}

	case *ast.Sub:
		if nc, stopped := Walk(v.Expr, obs); stopped {
			v.Expr = nc
			return v, true
		} else {
			v.Expr = nc
		}
		nc, stopped := Walk(v.Index, obs)
		v.Index = nc
		if stopped {
			return v, true
		}

	case *ast.Assign:
		if nc, stopped := Walk(v.Left, obs); stopped {
			v.Left = nc
			return v, true
		} else {
			v.Left = nc
		}
		nc, stopped := Walk(v.Right, obs)
		v.Right = nc
		if stopped {
			return v, true
		}

	case *ast.Call:
		if nc, stopped := Walk(v.Callee, obs); stopped {
			v.Callee = nc
			return v, true
		} else {
			v.Callee = nc
		}
		args, stopped := walkSlice(v.Args, obs)
		v.Args = args
		if stopped {
			return v, true
		}

	case *ast.New:
		if nc, stopped := Walk(v.Callee, obs); stopped {
			v.Callee = nc
			return v, true
		} else {
			v.Callee = nc
		}
		args, stopped := walkSlice(v.Args, obs)
		v.Args = args
		if stopped {
			return v, true
		}

	case *ast.Throw:
		nc, stopped := Walk(v.Expr, obs)
		v.Expr = nc
		if stopped {
			return v, true
		}

	case *ast.Label:
		nc, stopped := Walk(v.Stmt, obs)
		v.Stmt = nc
		if stopped {
			return v, true
		}

	case *ast.If:
		if nc, stopped := Walk(v.Cond, obs); stopped {
			v.Cond = nc
			return v, true
		} else {
			v.Cond = nc
		}
		if nc, stopped := Walk(v.Then, obs); stopped {
			v.Then = nc
			return v, true
		} else {
			v.Then = nc
		}
		if v.Else != nil {
			nc, stopped := Walk(v.Else, obs)
			v.Else = nc
			if stopped {
				return v, true
			}
		}

	case *ast.Switch:
		if nc, stopped := Walk(v.Disc, obs); stopped {
			v.Disc = nc
			return v, true
		} else {
			v.Disc = nc
		}
		for i := range v.Cases {
			if v.Cases[i].Expr != nil {
				nc, stopped := Walk(v.Cases[i].Expr, obs)
				v.Cases[i].Expr = nc
				if stopped {
					return v, true
				}
			}
			body, stopped := walkSlice(v.Cases[i].Body, obs)
			v.Cases[i].Body = body
			if stopped {
				return v, true
			}
		}

	case *ast.Try:
		body, stopped := walkSlice(v.Body, obs)
		v.Body = body
		if stopped {
			return v, true
		}
		if v.Catch != nil {
			cbody, stopped := walkSlice(v.Catch.Body, obs)
			v.Catch.Body = cbody
			if stopped {
				return v, true
			}
		}
		fbody, stopped := walkSlice(v.Finally, obs)
		v.Finally = fbody
		if stopped {
			return v, true
		}

	case *ast.Do:
		if nc, stopped := Walk(v.Body, obs); stopped {
			v.Body = nc
			return v, true
		} else {
			v.Body = nc
		}
		nc, stopped := Walk(v.Cond, obs)
		v.Cond = nc
		if stopped {
			return v, true
		}

	case *ast.While:
		if nc, stopped := Walk(v.Cond, obs); stopped {
			v.Cond = nc
			return v, true
		} else {
			v.Cond = nc
		}
		nc, stopped := Walk(v.Body, obs)
		v.Body = nc
		if stopped {
			return v, true
		}

	case *ast.For:
		if v.Init != nil {
			nc, stopped := Walk(v.Init, obs)
			v.Init = nc
			if stopped {
				return v, true
			}
		}
		if v.Cond != nil {
			nc, stopped := Walk(v.Cond, obs)
			v.Cond = nc
			if stopped {
				return v, true
			}
		}
		if v.Step != nil {
			nc, stopped := Walk(v.Step, obs)
			v.Step = nc
			if stopped {
				return v, true
			}
		}
		nc, stopped := Walk(v.Body, obs)
		v.Body = nc
		if stopped {
			return v, true
		}

	case *ast.ForIn:
		// The iterated binding is opaque to every pass: if it is itself a
		// `var` declaration, it is not visited at all.
		if v.Var != nil && v.Var.Kind() != ast.KindVar {
			nc, stopped := Walk(v.Var, obs)
			v.Var = nc
			if stopped {
				return v, true
			}
		}
		if nc, stopped := Walk(v.Obj, obs); stopped {
			v.Obj = nc
			return v, true
		} else {
			v.Obj = nc
		}
		nc, stopped := Walk(v.Body, obs)
		v.Body = nc
		if stopped {
			return v, true
		}

	case *ast.Block:
		stmts, stopped := walkSlice(v.Stmts, obs)
		v.Stmts = stmts
		if stopped {
			return v, true
		}

	case *ast.Return:
		if v.Expr != nil {
			nc, stopped := Walk(v.Expr, obs)
			v.Expr = nc
			if stopped {
				return v, true
			}
		}

	case *ast.ExprStmt:
		nc, stopped := Walk(v.Expr, obs)
		v.Expr = nc
		if stopped {
			return v, true
		}

	case *ast.Defun:
		body, stopped := walkSlice(v.Body, obs)
		v.Body = body
		if stopped {
			return v, true
		}

	case *ast.Function:
		body, stopped := walkSlice(v.Body, obs)
		v.Body = body
		if stopped {
			return v, true
		}

	case *ast.Toplevel:
		body, stopped := walkSlice(v.Body, obs)
		v.Body = body
		if stopped {
			return v, true
		}

	default:
		panic("walk: unrecognized node kind " + n.Kind())
	}

	return n, false
}
