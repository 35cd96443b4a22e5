package parser

import (
	"fmt"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
)

// parseRoot is the parser's entry point: parse_attrs, then repeatedly try
// fn def / extern / import until none match and the attribute buffer is
// empty; any leftover tokens besides eof are an error.
func (p *Parser) parseRoot() *ast.Root {
	start := p.curTok.Span
	var items []ast.Decl

	for {
		p.parseAttrs()

		switch p.curTok.Kind {
		case lexer.KwPub, lexer.KwFn:
			items = append(items, p.parseFnDef())
			continue
		case lexer.KwExtern:
			items = append(items, p.parseExtern())
			continue
		case lexer.KwImport:
			items = append(items, p.parseImport())
			continue
		}

		if len(p.attrBuf) > 0 {
			p.abort("unexpected attribute", p.attrBuf[0].Span())
		}
		break
	}

	if p.curTok.Kind != lexer.EOF {
		p.abort(fmt.Sprintf("unexpected token %s", p.curTok.Kind), p.curTok.Span)
	}

	root := ast.NewRoot(mergeSpan(start, p.curTok.Span), items)
	p.setOwner(root)
	for _, it := range items {
		p.setOwner(it)
	}
	return root
}

// parseAttrs consumes zero or more `@name("arg")` attributes, appending
// them to the parser's pending buffer. The buffer is flushed into the
// next FnProto or Extern that gets parsed.
func (p *Parser) parseAttrs() {
	for p.curTok.Kind == lexer.At {
		start := p.curTok.Span
		p.nextToken()
		nameTok := p.expect(lexer.Ident)
		p.expect(lexer.LParen)
		var arg *string
		if p.curTok.Kind == lexer.StringLit {
			v := p.curTok.Text
			arg = &v
			p.nextToken()
		}
		end := p.expect(lexer.RParen)
		a := ast.NewAttr(mergeSpan(start, end.Span), nameTok.Text, arg)
		p.setOwner(a)
		p.attrBuf = append(p.attrBuf, a)
	}
}

func (p *Parser) takeAttrs() []*ast.Attr {
	attrs := p.attrBuf
	p.attrBuf = nil
	return attrs
}

func (p *Parser) parseImport() *ast.Import {
	start := p.curTok.Span
	p.nextToken() // import
	pathTok := p.expect(lexer.StringLit)
	path := ast.NewStringLit(pathTok.Span, pathTok.Text)
	p.setOwner(path)
	n := ast.NewImport(mergeSpan(start, pathTok.Span), path)
	p.setOwner(n)
	return n
}

func (p *Parser) parseExtern() *ast.Extern {
	start := p.curTok.Span
	attrs := p.takeAttrs()
	p.nextToken() // extern
	p.expect(lexer.LBrace)

	var decls []*ast.FnDecl
	for p.curTok.Kind != lexer.RBrace {
		p.parseAttrs()
		decls = append(decls, p.parseFnDecl())
	}
	end := p.expect(lexer.RBrace)

	n := ast.NewExtern(mergeSpan(start, end.Span), attrs, decls)
	p.setOwner(n)
	for _, d := range decls {
		p.setOwner(d)
	}
	return n
}

func (p *Parser) parseFnDecl() *ast.FnDecl {
	proto := p.parseFnProto()
	end := p.expect(lexer.Semicolon)
	n := ast.NewFnDecl(mergeSpan(proto.Span(), end.Span), proto)
	p.setOwner(n)
	return n
}

func (p *Parser) parseFnDef() *ast.FnDef {
	proto := p.parseFnProto()
	body := p.parseBlockExpr()
	n := ast.NewFnDef(mergeSpan(proto.Span(), body.Span()), proto, body)
	p.setOwner(n)
	return n
}

// parseFnProto parses `(pub)? fn ident ( params ) (-> type)?`, flushing
// any buffered attributes onto the resulting proto.
func (p *Parser) parseFnProto() *ast.FnProto {
	attrs := p.takeAttrs()
	start := p.curTok.Span
	isPub := false
	if p.curTok.Kind == lexer.KwPub {
		isPub = true
		p.nextToken()
	}
	p.expect(lexer.KwFn)
	nameTok := p.expect(lexer.Ident)
	name := ast.NewIdent(nameTok.Span, nameTok.Text)
	p.setOwner(name)

	p.expect(lexer.LParen)
	params, isVariadic := p.parseParamList()
	rparen := p.expect(lexer.RParen)

	var ret ast.TypeExpr
	end := rparen.Span
	if p.curTok.Kind == lexer.Arrow {
		p.nextToken()
		ret = p.parseType()
		end = ret.Span()
	} else {
		voidName := ast.NewIdent(rparen.Span, "void")
		p.setOwner(voidName)
		ret = ast.NewPrimitiveType(rparen.Span, voidName)
		p.setOwner(ret)
	}

	proto := ast.NewFnProto(mergeSpan(start, end), name, params, ret, attrs, isPub, isVariadic)
	p.setOwner(proto)
	for _, pr := range params {
		p.setOwner(pr)
	}
	for _, a := range attrs {
		p.setOwner(a)
	}
	return proto
}

// parseParamList parses a comma-separated `ident: Type` list. A lone
// `...` anywhere in the list sets isVariadic and forbids further
// parameters.
func (p *Parser) parseParamList() ([]*ast.FnParam, bool) {
	var params []*ast.FnParam
	isVariadic := false

	for p.curTok.Kind != lexer.RParen {
		if p.curTok.Kind == lexer.Ellipsis {
			if isVariadic {
				p.abort("`...` may appear at most once in a parameter list", p.curTok.Span)
			}
			p.nextToken()
			isVariadic = true
		} else {
			if isVariadic {
				p.abort("no parameters may follow `...`", p.curTok.Span)
			}
			start := p.curTok.Span
			nameTok := p.expect(lexer.Ident)
			name := ast.NewIdent(nameTok.Span, nameTok.Text)
			p.setOwner(name)
			p.expect(lexer.Colon)
			typ := p.parseType()
			param := ast.NewFnParam(mergeSpan(start, typ.Span()), name, typ)
			p.setOwner(param)
			params = append(params, param)
		}

		if p.curTok.Kind == lexer.Comma {
			p.nextToken()
			continue
		}
		break
	}
	return params, isVariadic
}

// parseType implements the type grammar: `!`, `void`, ident, pointer, array.
func (p *Parser) parseType() ast.TypeExpr {
	start := p.curTok.Span
	switch p.curTok.Kind {
	case lexer.Bang:
		p.nextToken()
		name := ast.NewIdent(start, "!")
		p.setOwner(name)
		t := ast.NewPrimitiveType(start, name)
		p.setOwner(t)
		return t
	case lexer.KwVoid:
		p.nextToken()
		name := ast.NewIdent(start, "void")
		p.setOwner(name)
		t := ast.NewPrimitiveType(start, name)
		p.setOwner(t)
		return t
	case lexer.Ident:
		nameTok := p.curTok
		p.nextToken()
		name := ast.NewIdent(nameTok.Span, nameTok.Text)
		p.setOwner(name)
		t := ast.NewPrimitiveType(nameTok.Span, name)
		p.setOwner(t)
		return t
	case lexer.Star:
		p.nextToken()
		isMut := false
		switch p.curTok.Kind {
		case lexer.KwConst:
			p.nextToken()
		case lexer.KwMut:
			isMut = true
			p.nextToken()
		default:
			p.abort(fmt.Sprintf("expected `const` or `mut`, found %s", p.curTok.Kind), p.curTok.Span)
		}
		elem := p.parseType()
		t := ast.NewPointerType(mergeSpan(start, elem.Span()), elem, isMut)
		p.setOwner(t)
		return t
	case lexer.LBracket:
		p.nextToken()
		elem := p.parseType()
		p.expect(lexer.Semicolon)
		sizeTok := p.expect(lexer.IntLit)
		size := ast.NewIntLit(sizeTok.Span, sizeTok.Text)
		p.setOwner(size)
		end := p.expect(lexer.RBracket)
		t := ast.NewArrayType(mergeSpan(start, end.Span), elem, size)
		p.setOwner(t)
		return t
	default:
		p.abort(fmt.Sprintf("unrecognized type kind at %s", p.curTok.Kind), p.curTok.Span)
		return nil
	}
}
