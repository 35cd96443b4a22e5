package parser

import (
	"fmt"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
)

// parseExpr is the priority-climbing entry point: parse a prefix, then
// keep folding in infix operators whose precedence exceeds minPrec.
func (p *Parser) parseExpr(minPrec int) ast.Expr {
	prefix, ok := p.prefixFns[p.curTok.Kind]
	if !ok {
		p.abort(fmt.Sprintf("unexpected token %s in expression", p.curTok.Kind), p.curTok.Span)
	}
	left := prefix()

	for minPrec < p.curPrecedence() {
		infix, ok := p.infixFns[p.curTok.Kind]
		if !ok {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdent() ast.Expr {
	tok := p.curTok
	p.nextToken()
	n := ast.NewIdent(tok.Span, tok.Text)
	p.setOwner(n)
	return n
}

func (p *Parser) parseIntLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	n := ast.NewIntLit(tok.Span, tok.Text)
	p.setOwner(n)
	return n
}

func (p *Parser) parseStringLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	n := ast.NewStringLit(tok.Span, tok.Text)
	p.setOwner(n)
	return n
}

func (p *Parser) parseBoolLit() ast.Expr {
	tok := p.curTok
	p.nextToken()
	n := ast.NewBoolLit(tok.Span, tok.Kind == lexer.KwTrue)
	p.setOwner(n)
	return n
}

func (p *Parser) parseVoidExpr() ast.Expr {
	tok := p.curTok
	p.nextToken()
	n := ast.NewVoid(tok.Span)
	p.setOwner(n)
	return n
}

// parsePrefixOrNoReturn handles `!`: as a prefix operator on an operand,
// or — when nothing valid follows as an operand — as the bare `!` never-
// type atom. The grammar in spec form treats `!` as both a unary operator
// and a primary atom; since every token that can start an operand also
// has a prefix entry, we try the operator form first and fall back to the
// atom when the next token cannot start an expression.
func (p *Parser) parsePrefixOrNoReturn() ast.Expr {
	tok := p.curTok
	p.nextToken()
	if _, ok := p.prefixFns[p.curTok.Kind]; !ok {
		n := ast.NewNoReturn(tok.Span)
		p.setOwner(n)
		return n
	}
	operand := p.parseExpr(precPrefix)
	n := ast.NewUnOp(mergeSpan(tok.Span, operand.Span()), ast.UnLogNot, operand)
	p.setOwner(n)
	return n
}

func (p *Parser) parsePrefix() ast.Expr {
	tok := p.curTok
	op := ast.UnNeg
	if tok.Kind == lexer.Tilde {
		op = ast.UnBitNot
	}
	p.nextToken()
	operand := p.parseExpr(precPrefix)
	n := ast.NewUnOp(mergeSpan(tok.Span, operand.Span()), op, operand)
	p.setOwner(n)
	return n
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	p.nextToken() // consume (
	expr := p.parseExpr(precLowest)
	p.expect(lexer.RParen)
	return expr
}

var binOpKinds = map[lexer.TokenType]ast.BinOpKind{
	lexer.Plus:    ast.BinAdd,
	lexer.Minus:   ast.BinSub,
	lexer.Star:    ast.BinMul,
	lexer.Slash:   ast.BinDiv,
	lexer.Percent: ast.BinMod,
	lexer.EqEq:    ast.BinEq,
	lexer.NotEq:   ast.BinNotEq,
	lexer.Lt:      ast.BinLt,
	lexer.Gt:      ast.BinGt,
	lexer.Le:      ast.BinLe,
	lexer.Ge:      ast.BinGe,
	lexer.Amp:     ast.BinBitAnd,
	lexer.Pipe:    ast.BinBitOr,
	lexer.Caret:   ast.BinBitXor,
	lexer.Shl:     ast.BinShl,
	lexer.Shr:     ast.BinShr,
	lexer.AndAnd:  ast.BinLogAnd,
	lexer.OrOr:    ast.BinLogOr,
}

func (p *Parser) parseBinOp(left ast.Expr) ast.Expr {
	tok := p.curTok
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpr(prec)
	n := ast.NewBinOp(mergeSpan(left.Span(), right.Span()), binOpKinds[tok.Kind], left, right)
	p.setOwner(n)
	return n
}

// parseAssign is a single right-hand step (non-associative per the
// grammar table): `target = value`.
func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	p.nextToken() // consume =
	right := p.parseExpr(precAssign)
	n := ast.NewBinOp(mergeSpan(left.Span(), right.Span()), ast.BinAssign, left, right)
	p.setOwner(n)
	return n
}

func (p *Parser) parseCast(left ast.Expr) ast.Expr {
	p.nextToken() // consume `as`
	target := p.parseType()
	n := ast.NewCast(mergeSpan(left.Span(), target.Span()), left, target)
	p.setOwner(n)
	return n
}

// parseCallOrIndex implements the postfix level. The receiver must be an
// Ident; any other expression kind is a diagnostic at the receiver's span.
func (p *Parser) parseCallOrIndex(left ast.Expr) ast.Expr {
	recv, ok := left.(*ast.Ident)
	if !ok {
		p.abort("call and index targets must be a plain identifier", left.Span())
	}

	if p.curTok.Kind == lexer.LParen {
		p.nextToken()
		var args []ast.Expr
		for p.curTok.Kind != lexer.RParen {
			args = append(args, p.parseExpr(precLowest))
			if p.curTok.Kind == lexer.Comma {
				p.nextToken()
				continue
			}
			break
		}
		end := p.expect(lexer.RParen)
		n := ast.NewCall(mergeSpan(recv.Span(), end.Span), recv, args)
		p.setOwner(n)
		return n
	}

	// LBracket
	p.nextToken()
	index := p.parseExpr(precLowest)
	end := p.expect(lexer.RBracket)
	n := ast.NewArrayIndex(mergeSpan(recv.Span(), end.Span), recv, index)
	p.setOwner(n)
	return n
}
