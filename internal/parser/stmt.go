package parser

import (
	"fmt"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
)

// parseBlockExpr parses `{ <stmt>* }`. If no statement matches, a
// synthetic Void is appended so a block is never empty.
func (p *Parser) parseBlockExpr() *ast.Block {
	start := p.expect(lexer.LBrace)
	var stmts []ast.Stmt

	for p.curTok.Kind != lexer.RBrace {
		if p.curTok.Kind == lexer.Semicolon {
			p.abort("stray `;` is not a valid statement", p.curTok.Span)
		}
		stmt := p.tryParseStmt()
		if stmt == nil {
			break
		}
		stmts = append(stmts, stmt)
	}

	if len(stmts) == 0 {
		stmts = append(stmts, ast.NewVoid(p.curTok.Span))
	}
	end := p.expect(lexer.RBrace)

	blk := ast.NewBlock(mergeSpan(start.Span, end.Span), stmts)
	p.setOwner(blk)
	for _, s := range stmts {
		p.setOwner(s)
	}
	return blk
}

// tryParseStmt parses one statement: VarDecl, if-or-Block, return, or a
// bare expression statement (covers assignment). Returns nil at `}` or eof
// (the caller stops, appending the synthetic Void if the block is still
// empty); any other token is parsed as an expression, which aborts if the
// token cannot start one.
func (p *Parser) tryParseStmt() ast.Stmt {
	switch p.curTok.Kind {
	case lexer.KwLet:
		return p.parseVarDecl()
	case lexer.KwIf:
		return p.parseIfStmt()
	case lexer.LBrace:
		return p.parseBlockExpr()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.RBrace, lexer.EOF:
		return nil
	default:
		expr := p.parseExpr(precLowest)
		n := ast.NewExprStmt(expr.Span(), expr)
		p.setOwner(n)
		return n
	}
}

// parseVarDecl parses `let (mut)? ident ((: Type) | (= expr) | (: Type = expr))`.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.expect(lexer.KwLet)
	isMut := false
	if p.curTok.Kind == lexer.KwMut {
		isMut = true
		p.nextToken()
	}
	nameTok := p.expect(lexer.Ident)
	name := ast.NewIdent(nameTok.Span, nameTok.Text)
	p.setOwner(name)

	var typ ast.TypeExpr
	var value ast.Expr
	end := nameTok.Span

	if p.curTok.Kind == lexer.Colon {
		p.nextToken()
		typ = p.parseType()
		end = typ.Span()
	}
	if p.curTok.Kind == lexer.Assign {
		p.nextToken()
		value = p.parseExpr(precLowest)
		end = value.Span()
	}
	if typ == nil && value == nil {
		p.abort("`let` requires a type annotation or an initializer", p.curTok.Span)
	}

	n := ast.NewVarDecl(mergeSpan(start.Span, end), name, isMut, typ, value)
	p.setOwner(n)
	return n
}

func (p *Parser) parseReturn() *ast.Return {
	start := p.expect(lexer.KwReturn)
	var value ast.Expr
	end := start.Span
	if p.curTok.Kind != lexer.RBrace && p.curTok.Kind != lexer.Semicolon && p.curTok.Kind != lexer.EOF {
		value = p.parseExpr(precLowest)
		end = value.Span()
	}
	n := ast.NewReturn(mergeSpan(start.Span, end), value)
	p.setOwner(n)
	return n
}

// parseIfStmt parses `if expr block (else (if | block))?`, unfolding
// `else if` chains as nested If nodes in the else slot.
func (p *Parser) parseIfStmt() *ast.If {
	start := p.expect(lexer.KwIf)
	cond := p.parseExpr(precLowest)
	then := p.parseBlockExpr()

	var els ast.Stmt
	end := then.Span()
	if p.curTok.Kind == lexer.KwElse {
		p.nextToken()
		switch p.curTok.Kind {
		case lexer.KwIf:
			elsIf := p.parseIfStmt()
			els = elsIf
			end = elsIf.Span()
		case lexer.LBrace:
			elsBlk := p.parseBlockExpr()
			els = elsBlk
			end = elsBlk.Span()
		default:
			p.abort(fmt.Sprintf("expected `if` or `{`, found %s", p.curTok.Kind), p.curTok.Span)
		}
	}

	n := ast.NewIf(mergeSpan(start.Span, end), cond, then, els)
	p.setOwner(n)
	return n
}
