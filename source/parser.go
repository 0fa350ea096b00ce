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
	"strconv"

	"github.com/varelim/varelim/ast"
)

// Parser consumes a Token stream (produced by Tokenize) via a
// Position-stamped cursor and builds the closed ast.Node tree, following
// the lexer/parser layering of cuelang.org/go/cue/scanner and
// cuelang.org/go/cue/parser. It is a plain recursive-descent parser with
// no backtracking; it looks one token ahead, except that a statement
// starting with a name peeks at the following token to detect a label.
type Parser struct {
	toks []Token
	pos  int
}

// Parse lexes and parses src into a *ast.Toplevel. A malformed input
// reaching an unexpected token returns a *Error (see Error below); this is the one place in varelim whose errors
// are genuinely recoverable (an upstream author's typo), unlike the
// optimizer's own input-shape panics.
func Parse(src []byte) (toplevel *ast.Toplevel, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*Error); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	p := &Parser{toks: Tokenize(src)}
	body := p.parseStatements(EOF)
	return &ast.Toplevel{Body: body}, nil
}

// Error reports a parse failure at a source position.
type Error struct {
	Pos     ast.Position
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (p *Parser) fail(pos ast.Position, msg string) {
	panic(&Error{Pos: pos, Message: msg})
}

// stamp records where n started in the source, for error messages and
// round-tripping through the printer.
func stamp(n ast.Node, pos ast.Position) ast.Node {
	if p, ok := n.(ast.Positioner); ok {
		p.SetPos(pos)
	}
	return n
}

func (p *Parser) cur() Token { return p.toks[p.pos] }

func (p *Parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k Kind, what string) Token {
	if !p.at(k) {
		p.fail(p.cur().Pos, "expected "+what)
	}
	return p.advance()
}

// skipComments drops Comment tokens (they carry no AST meaning for the
// optimizer; the CLI rediscovers the marker line from the raw source
// instead, see cmd/varelim).
func (p *Parser) skipComments() {
	for p.at(Comment) {
		p.advance()
	}
}

func (p *Parser) parseStatements(end Kind) []ast.Node {
	var stmts []ast.Node
	for {
		p.skipComments()
		if p.at(end) || p.at(EOF) {
			return stmts
		}
		stmts = append(stmts, p.parseStatement())
	}
}

func (p *Parser) parseStatement() ast.Node {
	p.skipComments()
	pos := p.cur().Pos
	return stamp(p.parseStatementInner(pos), pos)
}

func (p *Parser) parseStatementInner(pos ast.Position) ast.Node {
	switch p.cur().Kind {
	case KwVar:
		v := p.parseVar(pos)
		p.consumeSemi()
		return v

	case KwFunction:
		return p.parseFunctionDecl(pos)

	case KwReturn:
		p.advance()
		var expr ast.Node
		if !p.at(Semicolon) && !p.at(RBrace) {
			expr = p.parseExpression()
		}
		p.consumeSemi()
		return &ast.Return{Expr: expr}

	case KwIf:
		return p.parseIf(pos)

	case KwSwitch:
		return p.parseSwitch(pos)

	case KwTry:
		return p.parseTry(pos)

	case KwDo:
		return p.parseDo(pos)

	case KwWhile:
		return p.parseWhile(pos)

	case KwFor:
		return p.parseFor(pos)

	case KwThrow:
		p.advance()
		expr := p.parseExpression()
		p.consumeSemi()
		return &ast.Throw{Expr: expr}

	case KwDebugger:
		p.advance()
		p.consumeSemi()
		return &ast.Debugger{}

	case LBrace:
		return p.parseBlock()

	case Semicolon:
		p.advance()
		return &ast.ExprStmt{Expr: &ast.Undefined{}}

	case Ident:
		if p.toks[p.pos+1].Kind == Colon {
			name := p.advance().Text
			p.advance() // colon
			return &ast.Label{Name: name, Stmt: p.parseStatement()}
		}
		fallthrough

	default:
		expr := p.parseExpression()
		p.consumeSemi()
		return &ast.ExprStmt{Expr: expr}
	}
}

func (p *Parser) consumeSemi() {
	if p.at(Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	p.expect(LBrace, "'{'")
	stmts := p.parseStatements(RBrace)
	p.expect(RBrace, "'}'")
	return &ast.Block{Stmts: stmts}
}

func (p *Parser) parseVar(pos ast.Position) *ast.Var {
	p.advance() // 'var'
	var decls []ast.VarDecl
	for {
		name := p.expect(Ident, "identifier").Text
		var init ast.Node
		if p.at(Assign) {
			p.advance()
			init = p.parseAssignExpr()
		}
		decls = append(decls, ast.VarDecl{Name: name, Init: init})
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	return &ast.Var{Decls: decls}
}

func (p *Parser) parseFunctionDecl(pos ast.Position) ast.Node {
	p.advance() // 'function'
	name := ""
	if p.at(Ident) {
		name = p.advance().Text
	}
	params := p.parseParams()
	body := p.parseBlock()
	if name != "" {
		return &ast.Defun{Name: name, Params: params, Body: body.Stmts}
	}
	return &ast.Function{Name: name, Params: params, Body: body.Stmts}
}

func (p *Parser) parseParams() []string {
	p.expect(LParen, "'('")
	var params []string
	for !p.at(RParen) {
		params = append(params, p.expect(Ident, "identifier").Text)
		if p.at(Comma) {
			p.advance()
		}
	}
	p.expect(RParen, "')'")
	return params
}

func (p *Parser) parseIf(pos ast.Position) ast.Node {
	p.advance()
	p.expect(LParen, "'('")
	cond := p.parseExpression()
	p.expect(RParen, "')'")
	then := p.parseStatement()
	var els ast.Node
	if p.at(KwElse) {
		p.advance()
		els = p.parseStatement()
	}
	return &ast.If{Cond: cond, Then: then, Else: els}
}

func (p *Parser) parseSwitch(pos ast.Position) ast.Node {
	p.advance()
	p.expect(LParen, "'('")
	disc := p.parseExpression()
	p.expect(RParen, "')'")
	p.expect(LBrace, "'{'")

	var cases []ast.SwitchCase
	for !p.at(RBrace) {
		var expr ast.Node
		if p.at(KwCase) {
			p.advance()
			expr = p.parseExpression()
		} else {
			p.expect(KwDefault, "'case' or 'default'")
		}
		p.expect(Colon, "':'")
		var body []ast.Node
		for !p.at(KwCase) && !p.at(KwDefault) && !p.at(RBrace) {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, ast.SwitchCase{Expr: expr, Body: body})
	}
	p.expect(RBrace, "'}'")
	return &ast.Switch{Disc: disc, Cases: cases}
}

func (p *Parser) parseTry(pos ast.Position) ast.Node {
	p.advance()
	body := p.parseBlock()
	t := &ast.Try{Body: body.Stmts}
	if p.at(KwCatch) {
		p.advance()
		name := ""
		if p.at(LParen) {
			p.advance()
			name = p.expect(Ident, "identifier").Text
			p.expect(RParen, "')'")
		}
		cbody := p.parseBlock()
		t.Catch = &ast.Catch{Name: name, Body: cbody.Stmts}
	}
	if p.at(KwFinally) {
		p.advance()
		fbody := p.parseBlock()
		t.Finally = fbody.Stmts
	}
	return t
}

func (p *Parser) parseDo(pos ast.Position) ast.Node {
	p.advance()
	body := p.parseStatement()
	p.expect(KwWhile, "'while'")
	p.expect(LParen, "'('")
	cond := p.parseExpression()
	p.expect(RParen, "')'")
	p.consumeSemi()
	return &ast.Do{Body: body, Cond: cond}
}

func (p *Parser) parseWhile(pos ast.Position) ast.Node {
	p.advance()
	p.expect(LParen, "'('")
	cond := p.parseExpression()
	p.expect(RParen, "')'")
	body := p.parseStatement()
	return &ast.While{Cond: cond, Body: body}
}

// parseFor disambiguates `for (var x in obj) body` from a C-style
// `for (init; cond; step) body` by checking, after parsing a leading `var`
// clause, whether the next token is `in` rather than `;`.
func (p *Parser) parseFor(pos ast.Position) ast.Node {
	p.advance()
	p.expect(LParen, "'('")

	if p.at(KwVar) {
		varPos := p.cur().Pos
		v := p.parseVar(varPos)
		if p.at(KwIn) {
			p.advance()
			obj := p.parseExpression()
			p.expect(RParen, "')'")
			body := p.parseStatement()
			return &ast.ForIn{Var: v, Obj: obj, Body: body}
		}
		p.expect(Semicolon, "';'")
		return p.finishCStyleFor(v)
	}

	var init ast.Node
	if !p.at(Semicolon) {
		init = &ast.ExprStmt{Expr: p.parseExpression()}
	}
	p.expect(Semicolon, "';'")
	return p.finishCStyleFor(init)
}

func (p *Parser) finishCStyleFor(init ast.Node) ast.Node {
	var cond, step ast.Node
	if !p.at(Semicolon) {
		cond = p.parseExpression()
	}
	p.expect(Semicolon, "';'")
	if !p.at(RParen) {
		step = p.parseExpression()
	}
	p.expect(RParen, "')'")
	body := p.parseStatement()
	return &ast.For{Init: init, Cond: cond, Step: step, Body: body}
}

// Expression parsing: precedence-climbing binary operators over unary and
// postfix forms, the minimum needed for the closed grammar.

var binaryPrecedence = map[Kind]int{
	OrOr: 1, AndAnd: 2, Pipe: 3, Caret: 4, Amp: 5,
	Eq: 6, NotEq: 6,
	Lt: 7, Gt: 7, Le: 7, Ge: 7,
	Shl: 8, Shr: 8,
	Plus: 9, Minus: 9,
	Star: 10, Slash: 10, Percent: 10,
}

var binaryOpText = map[Kind]string{
	OrOr: "||", AndAnd: "&&", Pipe: "|", Caret: "^", Amp: "&",
	Eq: "==", NotEq: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	Shl: "<<", Shr: ">>", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
}

func (p *Parser) parseExpression() ast.Node {
	expr := p.parseAssignExpr()
	for p.at(Comma) {
		p.advance()
		expr = &ast.Binary{Op: ",", Left: expr, Right: p.parseAssignExpr()}
	}
	return expr
}

func (p *Parser) parseAssignExpr() ast.Node {
	left := p.parseBinary(0)
	if p.at(Assign) {
		p.advance()
		return &ast.Assign{Op: "=", Left: left, Right: p.parseAssignExpr()}
	}
	if p.at(OpAssign) {
		// The lexer folds `+=`, `-=`, etc. into one OpAssign token; its
		// concrete operator text isn't preserved distinctly from plain '=',
		// since assign's effect on liveness does not depend on which
		// compound operator was used.
		p.advance()
		return &ast.Assign{Op: "op=", Left: left, Right: p.parseAssignExpr()}
	}
	return left
}

func (p *Parser) parseBinary(minPrec int) ast.Node {
	left := p.parseUnary()
	for {
		prec, ok := binaryPrecedence[p.cur().Kind]
		if !ok || prec < minPrec {
			return left
		}
		op := binaryOpText[p.cur().Kind]
		p.advance()
		right := p.parseBinary(prec + 1)
		left = &ast.Binary{Op: op, Left: left, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Node {
	switch p.cur().Kind {
	case Plus:
		p.advance()
		return &ast.UnaryPrefix{Op: "+", Expr: p.parseUnary()}
	case Minus:
		p.advance()
		return &ast.UnaryPrefix{Op: "-", Expr: p.parseUnary()}
	case Not:
		p.advance()
		return &ast.UnaryPrefix{Op: "!", Expr: p.parseUnary()}
	case Tilde:
		p.advance()
		return &ast.UnaryPrefix{Op: "~", Expr: p.parseUnary()}
	case Inc:
		p.advance()
		return &ast.UnaryPrefix{Op: "++", Expr: p.parseUnary()}
	case Dec:
		p.advance()
		return &ast.UnaryPrefix{Op: "--", Expr: p.parseUnary()}
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Node {
	expr := p.parseCallOrMember()
	if p.at(Inc) {
		p.advance()
		return &ast.UnaryPostfix{Op: "++", Expr: expr}
	}
	if p.at(Dec) {
		p.advance()
		return &ast.UnaryPostfix{Op: "--", Expr: expr}
	}
	return expr
}

func (p *Parser) parseCallOrMember() ast.Node {
	var expr ast.Node
	if p.at(KwNew) {
		p.advance()
		callee := p.parseCallOrMemberNoCall()
		args := p.parseArgsIfPresent()
		expr = &ast.New{Callee: callee, Args: args}
	} else {
		expr = p.parsePrimary()
	}

	for {
		switch {
		case p.at(Dot):
			p.advance()
			name := p.expect(Ident, "identifier").Text
			expr = &ast.Sub{Expr: expr, Index: &ast.String{Value: name}}
		case p.at(LBracket):
			p.advance()
			idx := p.parseExpression()
			p.expect(RBracket, "']'")
			expr = &ast.Sub{Expr: expr, Index: idx}
		case p.at(LParen):
			expr = &ast.Call{Callee: expr, Args: p.parseArgs()}
		default:
			return expr
		}
	}
}

// parseCallOrMemberNoCall parses the callee of a `new` expression: member
// access binds tighter than the constructor's own argument list.
func (p *Parser) parseCallOrMemberNoCall() ast.Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.at(Dot):
			p.advance()
			name := p.expect(Ident, "identifier").Text
			expr = &ast.Sub{Expr: expr, Index: &ast.String{Value: name}}
		case p.at(LBracket):
			p.advance()
			idx := p.parseExpression()
			p.expect(RBracket, "']'")
			expr = &ast.Sub{Expr: expr, Index: idx}
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgsIfPresent() []ast.Node {
	if !p.at(LParen) {
		return nil
	}
	return p.parseArgs()
}

func (p *Parser) parseArgs() []ast.Node {
	p.expect(LParen, "'('")
	var args []ast.Node
	for !p.at(RParen) {
		args = append(args, p.parseAssignExpr())
		if p.at(Comma) {
			p.advance()
		}
	}
	p.expect(RParen, "')'")
	return args
}

func (p *Parser) parsePrimary() ast.Node {
	tok := p.cur()
	return stamp(p.parsePrimaryInner(tok), tok.Pos)
}

func (p *Parser) parsePrimaryInner(tok Token) ast.Node {
	switch tok.Kind {
	case Ident:
		p.advance()
		return &ast.Name{Value: tok.Text}
	case Number:
		p.advance()
		v, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.fail(tok.Pos, "malformed number literal "+tok.Text)
		}
		return &ast.Num{Value: v}
	case String:
		p.advance()
		return &ast.String{Value: tok.Text}
	case LParen:
		p.advance()
		expr := p.parseExpression()
		p.expect(RParen, "')'")
		return expr
	case KwFunction:
		return p.parseFunctionDecl(tok.Pos)
	default:
		p.fail(tok.Pos, "unexpected token in expression")
		return nil
	}
}
