// Package parser implements the minimal concrete recursive-descent parser
// needed to drive the core pipeline end to end. The surface grammar itself
// is out of scope (delegated, in the real system, to an external LALR
// tool); this parser exists only to produce the lang/ast shapes that tool
// would hand to lowering.
package parser

import (
	"strconv"

	"github.com/InAnYan/loop/lang/ast"
	"github.com/InAnYan/loop/lang/diag"
	"github.com/InAnYan/loop/lang/scanner"
	"github.com/InAnYan/loop/lang/token"
)

// Parser turns a token stream into a Module.
type Parser struct {
	file *token.File
	errs diag.Listener
	toks []scanner.TokenAndValue
	pos  int
}

// Parse scans and parses f's contents into a Module, reporting lexical and
// syntax errors to errs. The returned Module is always non-nil, even if
// errs.HadError() is true afterwards, so callers can keep walking it for
// further diagnostics (the way semantic_check.py expects to run even over
// a partially-broken parse in tests that only check error counts).
func Parse(f *token.File, errs diag.Listener) *ast.Module {
	s := scanner.New(f, errs)
	p := &Parser{file: f, errs: errs, toks: s.ScanAll()}
	var stmts []ast.Stmt
	for !p.at(token.EOF) {
		if st := p.statement(); st != nil {
			stmts = append(stmts, st)
		}
	}
	return &ast.Module{Path: f.Path, Stmts: stmts}
}

func (p *Parser) cur() scanner.TokenAndValue { return p.toks[p.pos] }
func (p *Parser) at(t token.Token) bool      { return p.cur().Token == t }

func (p *Parser) advance() scanner.TokenAndValue {
	tv := p.toks[p.pos]
	if tv.Token != token.EOF {
		p.pos++
	}
	return tv
}

func (p *Parser) span(start token.Pos) token.Span {
	return token.Span{File: p.file, Start: start, End: p.cur().Start}
}

func (p *Parser) expect(t token.Token) scanner.TokenAndValue {
	if p.cur().Token != t {
		p.errs.Errorf(p.span(p.cur().Start), "expected %v, got %v", t, p.cur().Token)
		return p.cur()
	}
	return p.advance()
}

func (p *Parser) ident() *ast.Identifier {
	start := p.cur().Start
	tv := p.expect(token.IDENT)
	return &ast.Identifier{SpanVal: p.span(start), Text: tv.Lit}
}

// synchronize skips tokens until a likely statement boundary, so one
// syntax error doesn't cascade into a wall of follow-on diagnostics.
func (p *Parser) synchronize() {
	for !p.at(token.EOF) {
		if p.at(token.SEMI) {
			p.advance()
			return
		}
		switch p.cur().Token {
		case token.VAR, token.LET, token.FUNC, token.CLASS, token.IF, token.WHILE,
			token.FOR, token.RETURN, token.PRINT, token.RBRACE:
			return
		}
		p.advance()
	}
}

func (p *Parser) statement() ast.Stmt {
	start := p.cur().Start
	export := false
	if p.at(token.EXPORT) {
		p.advance()
		export = true
	}

	switch p.cur().Token {
	case token.PRINT:
		p.advance()
		v := p.expression()
		p.expect(token.SEMI)
		return &ast.PrintStmt{SpanVal: p.span(start), Value: v}
	case token.VAR:
		return p.varDecl(start, export)
	case token.LET:
		return p.letDecl(start, export)
	case token.LBRACE:
		return p.block()
	case token.IF:
		return p.ifStmt(start)
	case token.WHILE:
		return p.whileStmt(start)
	case token.FUNC:
		return p.funcDecl(start, export)
	case token.RETURN:
		p.advance()
		var v ast.Expr
		if !p.at(token.SEMI) {
			v = p.expression()
		}
		p.expect(token.SEMI)
		return &ast.ReturnStmt{SpanVal: p.span(start), Value: v}
	case token.CLASS:
		return p.classDecl(start, export)
	case token.TRY:
		return p.tryStmt(start)
	case token.THROW:
		p.advance()
		var v ast.Expr
		if !p.at(token.SEMI) {
			v = p.expression()
		}
		p.expect(token.SEMI)
		return &ast.ThrowStmt{SpanVal: p.span(start), Value: v}
	case token.FOR:
		return p.forInStmt(start)
	case token.BREAK:
		p.advance()
		p.expect(token.SEMI)
		return &ast.BreakStmt{SpanVal: p.span(start)}
	case token.CONTINUE:
		p.advance()
		p.expect(token.SEMI)
		return &ast.ContinueStmt{SpanVal: p.span(start)}
	case token.IMPORT:
		return p.importAsStmt(start)
	case token.FROM:
		return p.importFromStmt(start)
	default:
		if export {
			p.errs.Errorf(p.span(start), "'export' is only valid before var, let, func or class")
		}
		v := p.expression()
		p.expect(token.SEMI)
		return &ast.ExprStmt{SpanVal: p.span(start), Value: v}
	}
}

func (p *Parser) pattern() ast.Pattern {
	start := p.cur().Start
	if p.at(token.LBRACK) {
		p.advance()
		var pats []ast.Pattern
		if !p.at(token.RBRACK) {
			pats = append(pats, p.pattern())
			for p.at(token.COMMA) {
				p.advance()
				pats = append(pats, p.pattern())
			}
		}
		p.expect(token.RBRACK)
		return &ast.ListPattern{SpanVal: p.span(start), Patterns: pats}
	}
	return &ast.IdentifierPattern{Ident: p.ident()}
}

func (p *Parser) varDecl(start token.Pos, export bool) ast.Stmt {
	p.advance() // 'var'
	target := p.pattern()
	var init ast.Expr
	if p.at(token.EQ) {
		p.advance()
		init = p.expression()
	}
	p.expect(token.SEMI)
	return &ast.VarDecl{SpanVal: p.span(start), Export: export, Target: target, Init: init}
}

func (p *Parser) letDecl(start token.Pos, export bool) ast.Stmt {
	p.advance() // 'let'
	target := p.pattern()
	var init ast.Expr
	if p.at(token.EQ) {
		p.advance()
		init = p.expression()
	}
	p.expect(token.SEMI)
	return &ast.LetDecl{SpanVal: p.span(start), Export: export, Target: target, Init: init}
}

func (p *Parser) block() *ast.BlockStmt {
	start := p.cur().Start
	p.expect(token.LBRACE)
	var stmts []ast.Stmt
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		if st := p.statement(); st != nil {
			stmts = append(stmts, st)
		}
	}
	p.expect(token.RBRACE)
	return &ast.BlockStmt{SpanVal: p.span(start), Stmts: stmts}
}

func (p *Parser) ifStmt(start token.Pos) ast.Stmt {
	p.advance() // 'if'
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	then := p.block()
	var els *ast.BlockStmt
	if p.at(token.ELSE) {
		p.advance()
		els = p.block()
	}
	return &ast.IfStmt{SpanVal: p.span(start), Cond: cond, Then: then, Else: els}
}

func (p *Parser) whileStmt(start token.Pos) ast.Stmt {
	p.advance() // 'while'
	p.expect(token.LPAREN)
	cond := p.expression()
	p.expect(token.RPAREN)
	body := p.block()
	return &ast.WhileStmt{SpanVal: p.span(start), Cond: cond, Body: body}
}

func (p *Parser) params() []*ast.Identifier {
	p.expect(token.LPAREN)
	var params []*ast.Identifier
	if !p.at(token.RPAREN) {
		params = append(params, p.ident())
		for p.at(token.COMMA) {
			p.advance()
			params = append(params, p.ident())
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) funcDecl(start token.Pos, export bool) ast.Stmt {
	p.advance() // 'func'
	name := p.ident()
	params := p.params()
	body := p.block()
	return &ast.FuncDecl{SpanVal: p.span(start), Export: export, Name: name, Params: params, Body: body}
}

func (p *Parser) method() *ast.Method {
	start := p.cur().Start
	if p.at(token.FUNC) {
		p.advance() // optional 'func' before the method name
	}
	name := p.ident()
	params := p.params()
	body := p.block()
	return &ast.Method{SpanVal: p.span(start), Name: name, Params: params, Body: body}
}

func (p *Parser) classDecl(start token.Pos, export bool) ast.Stmt {
	p.advance() // 'class'
	name := p.ident()
	var parent *ast.Identifier
	if p.at(token.COLON) {
		p.advance()
		parent = p.ident()
	}
	p.expect(token.LBRACE)
	var methods []*ast.Method
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		methods = append(methods, p.method())
	}
	p.expect(token.RBRACE)
	return &ast.ClassDecl{SpanVal: p.span(start), Export: export, Name: name, Parent: parent, Methods: methods}
}

func (p *Parser) tryStmt(start token.Pos) ast.Stmt {
	p.advance() // 'try'
	tryBlock := p.block()
	p.expect(token.CATCH)
	p.expect(token.LPAREN)
	catchName := p.ident()
	p.expect(token.RPAREN)
	catchBlock := p.block()
	return &ast.TryStmt{SpanVal: p.span(start), Try: tryBlock, CatchName: catchName, Catch: catchBlock}
}

func (p *Parser) forInStmt(start token.Pos) ast.Stmt {
	p.advance() // 'for'
	target := p.pattern()
	p.expect(token.IN)
	iterable := p.expression()
	body := p.block()
	return &ast.ForInStmt{SpanVal: p.span(start), Target: target, Iterable: iterable, Body: body}
}

func (p *Parser) importAsStmt(start token.Pos) ast.Stmt {
	p.advance() // 'import'
	pathTok := p.expect(token.STRING)
	p.expect(token.AS)
	name := p.ident()
	p.expect(token.SEMI)
	return &ast.ImportAsStmt{SpanVal: p.span(start), Path: pathTok.Lit, Name: name}
}

func (p *Parser) importFromStmt(start token.Pos) ast.Stmt {
	p.advance() // 'from'
	pathTok := p.expect(token.STRING)
	p.expect(token.IMPORT)
	var names []*ast.Identifier
	if p.at(token.IDENT) {
		names = append(names, p.ident())
		for p.at(token.COMMA) {
			p.advance()
			names = append(names, p.ident())
		}
	} else {
		p.errs.Errorf(p.span(start), "empty import list")
	}
	p.expect(token.SEMI)
	return &ast.ImportFromStmt{SpanVal: p.span(start), Names: names, Path: pathTok.Lit}
}

// --- expressions, by ascending precedence ---

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	start := p.cur().Start
	target := p.or()
	if p.at(token.EQ) {
		p.advance()
		value := p.assignment()
		return &ast.Assignment{SpanVal: p.span(start), Target: target, Value: value}
	}
	return target
}

func (p *Parser) or() ast.Expr {
	start := p.cur().Start
	left := p.and()
	for p.at(token.OR) {
		p.advance()
		right := p.and()
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: ast.BinLogicalOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) and() ast.Expr {
	start := p.cur().Start
	left := p.equality()
	for p.at(token.AND) {
		p.advance()
		right := p.equality()
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: ast.BinLogicalAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) equality() ast.Expr {
	start := p.cur().Start
	left := p.comparison()
	for p.at(token.EQL) || p.at(token.NEQ) || p.at(token.IS) {
		op := p.advance().Token
		right := p.comparison()
		kind := ast.BinEqual
		switch op {
		case token.NEQ:
			kind = ast.BinNotEqual
		case token.IS:
			kind = ast.BinIs
		}
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) comparison() ast.Expr {
	start := p.cur().Start
	left := p.term()
	for p.at(token.LT) || p.at(token.GT) || p.at(token.LE) || p.at(token.GE) {
		op := p.advance().Token
		right := p.term()
		var kind ast.BinaryOpType
		switch op {
		case token.LT:
			kind = ast.BinLess
		case token.GT:
			kind = ast.BinGreater
		case token.LE:
			kind = ast.BinLessEqual
		case token.GE:
			kind = ast.BinGreaterEqual
		}
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) term() ast.Expr {
	start := p.cur().Start
	left := p.factor()
	for p.at(token.PLUS) || p.at(token.MINUS) {
		op := p.advance().Token
		right := p.factor()
		kind := ast.BinAdd
		if op == token.MINUS {
			kind = ast.BinSubtract
		}
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) factor() ast.Expr {
	start := p.cur().Start
	left := p.unary()
	for p.at(token.STAR) || p.at(token.SLASH) {
		op := p.advance().Token
		right := p.unary()
		kind := ast.BinMultiply
		if op == token.SLASH {
			kind = ast.BinDivide
		}
		left = &ast.BinaryOp{SpanVal: p.span(start), Op: kind, Left: left, Right: right}
	}
	return left
}

func (p *Parser) unary() ast.Expr {
	start := p.cur().Start
	switch p.cur().Token {
	case token.BANG:
		p.advance()
		return &ast.UnaryOp{SpanVal: p.span(start), Op: ast.UnaryNot, Operand: p.unary()}
	case token.MINUS:
		p.advance()
		return &ast.UnaryOp{SpanVal: p.span(start), Op: ast.UnaryNegate, Operand: p.unary()}
	case token.PLUS:
		p.advance()
		return &ast.UnaryOp{SpanVal: p.span(start), Op: ast.UnaryPlus, Operand: p.unary()}
	default:
		return p.call()
	}
}

func (p *Parser) call() ast.Expr {
	start := p.cur().Start
	e := p.primary()
	for {
		switch p.cur().Token {
		case token.LPAREN:
			p.advance()
			var args []ast.Expr
			if !p.at(token.RPAREN) {
				args = append(args, p.expression())
				for p.at(token.COMMA) {
					p.advance()
					args = append(args, p.expression())
				}
			}
			p.expect(token.RPAREN)
			e = &ast.CallExpr{SpanVal: p.span(start), Callee: e, Args: args}
		case token.DOT:
			p.advance()
			name := p.ident()
			e = &ast.GetAttrExpr{SpanVal: p.span(start), Obj: e, Name: name}
		case token.LBRACK:
			p.advance()
			var idx []ast.Expr
			idx = append(idx, p.expression())
			for p.at(token.COMMA) {
				p.advance()
				idx = append(idx, p.expression())
			}
			p.expect(token.RBRACK)
			e = &ast.GetItemExpr{SpanVal: p.span(start), Obj: e, Index: idx}
		default:
			return e
		}
	}
}

func (p *Parser) primary() ast.Expr {
	start := p.cur().Start
	switch p.cur().Token {
	case token.INT:
		tv := p.advance()
		n, err := strconv.ParseInt(tv.Lit, 10, 64)
		if err != nil {
			p.errs.Errorf(p.span(start), "invalid integer literal %q", tv.Lit)
		}
		return &ast.IntegerLiteral{SpanVal: p.span(start), Value: n}
	case token.STRING:
		tv := p.advance()
		return &ast.StringLiteral{SpanVal: p.span(start), Value: tv.Lit}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{SpanVal: p.span(start), Value: true}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{SpanVal: p.span(start), Value: false}
	case token.NULL:
		p.advance()
		return &ast.NullLiteral{SpanVal: p.span(start)}
	case token.THIS:
		p.advance()
		return &ast.VarExpr{Ident: &ast.Identifier{SpanVal: p.span(start), Text: "this"}}
	case token.SUPER:
		p.advance()
		return &ast.VarExpr{Ident: &ast.Identifier{SpanVal: p.span(start), Text: "super"}}
	case token.IDENT:
		return &ast.VarExpr{Ident: p.ident()}
	case token.LPAREN:
		p.advance()
		e := p.expression()
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		p.advance()
		var elems []ast.Expr
		if !p.at(token.RBRACK) {
			elems = append(elems, p.expression())
			for p.at(token.COMMA) {
				p.advance()
				elems = append(elems, p.expression())
			}
		}
		p.expect(token.RBRACK)
		return &ast.ListLiteral{SpanVal: p.span(start), Elements: elems}
	case token.LBRACE:
		p.advance()
		var pairs []ast.DictionaryPair
		if !p.at(token.RBRACE) {
			pairs = append(pairs, p.dictPair())
			for p.at(token.COMMA) {
				p.advance()
				pairs = append(pairs, p.dictPair())
			}
		}
		p.expect(token.RBRACE)
		return &ast.DictionaryLiteral{SpanVal: p.span(start), Pairs: pairs}
	default:
		p.errs.Errorf(p.span(start), "expected expression, got %v", p.cur().Token)
		p.synchronize()
		return &ast.NullLiteral{SpanVal: p.span(start)}
	}
}

func (p *Parser) dictPair() ast.DictionaryPair {
	key := p.expression()
	p.expect(token.COLON)
	value := p.expression()
	return ast.DictionaryPair{Key: key, Value: value}
}
