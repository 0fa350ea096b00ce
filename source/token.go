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

// Package source implements the external collaborators kept out of the
// core analysis packages: a lexer and recursive-descent parser that
// accept exactly the surface syntax needed to produce varelim's closed AST
// node set, and a printer that regenerates source text from it. It exists
// only so the CLI (cmd/varelim) has a concrete front end to drive; it is
// intentionally not a general JavaScript implementation.
package source

import "github.com/varelim/varelim/ast"

// Kind identifies a lexical token category.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Comment

	// Keywords.
	KwVar
	KwFunction
	KwReturn
	KwIf
	KwElse
	KwSwitch
	KwCase
	KwDefault
	KwTry
	KwCatch
	KwFinally
	KwDo
	KwWhile
	KwFor
	KwIn
	KwNew
	KwThrow
	KwDebugger
	KwBreak
	KwContinue

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Semicolon
	Comma
	Colon
	Dot

	Assign   // =
	OpAssign // e.g. += -= *= /=
	Eq
	NotEq
	Lt
	Gt
	Le
	Ge
	Plus
	Minus
	Star
	Slash
	Percent
	Amp
	Pipe
	Caret
	Shl
	Shr
	AndAnd
	OrOr
	Not
	Tilde
	Inc // ++
	Dec // --
)

var keywords = map[string]Kind{
	"var": KwVar, "function": KwFunction, "return": KwReturn,
	"if": KwIf, "else": KwElse, "switch": KwSwitch, "case": KwCase,
	"default": KwDefault, "try": KwTry, "catch": KwCatch, "finally": KwFinally,
	"do": KwDo, "while": KwWhile, "for": KwFor, "in": KwIn,
	"new": KwNew, "throw": KwThrow, "debugger": KwDebugger,
	"break": KwBreak, "continue": KwContinue,
}

// Token is one lexical unit, stamped with its source position.
type Token struct {
	Kind Kind
	Text string
	Pos  ast.Position
}
