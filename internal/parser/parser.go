// Package parser implements a recursive-descent, priority-climbing parser
// that turns a Dal token stream into an ast.Root.
package parser

import (
	"fmt"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/diag"
	"github.com/dal-lang/dalc/internal/lexer"
)

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

const (
	precLowest = iota
	precAssign
	precLogOr
	precLogAnd
	precComparison
	precBitOr
	precBitXor
	precBitAnd
	precShift
	precAdditive
	precMultiplicative
	precCast
	precPrefix
	precPostfix
)

var precedences = map[lexer.TokenType]int{
	lexer.Assign:   precAssign,
	lexer.OrOr:     precLogOr,
	lexer.AndAnd:   precLogAnd,
	lexer.EqEq:     precComparison,
	lexer.NotEq:    precComparison,
	lexer.Lt:       precComparison,
	lexer.Gt:       precComparison,
	lexer.Le:       precComparison,
	lexer.Ge:       precComparison,
	lexer.Pipe:     precBitOr,
	lexer.Caret:    precBitXor,
	lexer.Amp:      precBitAnd,
	lexer.Shl:      precShift,
	lexer.Shr:      precShift,
	lexer.Plus:     precAdditive,
	lexer.Minus:    precAdditive,
	lexer.Star:     precMultiplicative,
	lexer.Slash:    precMultiplicative,
	lexer.Percent:  precMultiplicative,
	lexer.KwAs:     precCast,
	lexer.LParen:   precPostfix,
	lexer.LBracket: precPostfix,
}

// parseAbort is the private sentinel panicked on any syntax error. It is
// caught only by Parse, giving call sites flat, unwrapped control flow
// while honoring the single-shot, fatal-on-first-error contract.
type parseAbort struct {
	diag diag.Diagnostic
}

// Parser turns a token stream into an ast.Root. Construct with New and
// call Parse exactly once.
type Parser struct {
	toks []lexer.Token
	pos  int

	curTok  lexer.Token
	peekTok lexer.Token

	path  string
	owner ast.Owner

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	attrBuf []*ast.Attr

	lastDiag *diag.Diagnostic
}

// New constructs a parser over toks (including the trailing eof token).
// owner is attached to every node produced; path is used only for
// diagnostics.
func New(toks []lexer.Token, path string, owner ast.Owner) *Parser {
	filtered := make([]lexer.Token, 0, len(toks))
	for _, t := range toks {
		if t.Kind != lexer.Comment {
			filtered = append(filtered, t)
		}
	}
	p := &Parser{toks: filtered, path: path, owner: owner}
	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.Ident:     p.parseIdent,
		lexer.IntLit:    p.parseIntLit,
		lexer.StringLit: p.parseStringLit,
		lexer.KwTrue:    p.parseBoolLit,
		lexer.KwFalse:   p.parseBoolLit,
		lexer.KwVoid:    p.parseVoidExpr,
		lexer.Bang:      p.parsePrefixOrNoReturn,
		lexer.Minus:     p.parsePrefix,
		lexer.Tilde:     p.parsePrefix,
		lexer.LParen:    p.parseGroupedExpr,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.Assign:   p.parseAssign,
		lexer.OrOr:     p.parseBinOp,
		lexer.AndAnd:   p.parseBinOp,
		lexer.EqEq:     p.parseBinOp,
		lexer.NotEq:    p.parseBinOp,
		lexer.Lt:       p.parseBinOp,
		lexer.Gt:       p.parseBinOp,
		lexer.Le:       p.parseBinOp,
		lexer.Ge:       p.parseBinOp,
		lexer.Pipe:     p.parseBinOp,
		lexer.Caret:    p.parseBinOp,
		lexer.Amp:      p.parseBinOp,
		lexer.Shl:      p.parseBinOp,
		lexer.Shr:      p.parseBinOp,
		lexer.Plus:     p.parseBinOp,
		lexer.Minus:    p.parseBinOp,
		lexer.Star:     p.parseBinOp,
		lexer.Slash:    p.parseBinOp,
		lexer.Percent:  p.parseBinOp,
		lexer.KwAs:     p.parseCast,
		lexer.LParen:   p.parseCallOrIndex,
		lexer.LBracket: p.parseCallOrIndex,
	}
	if len(p.toks) == 0 {
		p.toks = []lexer.Token{{Kind: lexer.EOF}}
	}
	p.curTok = p.toks[0]
	if len(p.toks) > 1 {
		p.peekTok = p.toks[1]
	} else {
		p.peekTok = p.toks[0]
	}
	return p
}

// Parse runs the parser to completion, recovering a parseAbort panic into
// a returned error. On success it returns the root node with err == nil.
func (p *Parser) Parse() (root *ast.Root, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ab, ok := r.(parseAbort); ok {
				err = fmt.Errorf("%s", ab.diag.Message)
				root = nil
				p.lastDiag = &ab.diag
				return
			}
			panic(r)
		}
	}()
	root = p.parseRoot()
	return root, nil
}

// LastDiagnostic returns the diagnostic behind the most recent error
// returned from Parse, with full span/path context (Parse itself only
// returns a plain error for the standard error interface).
func (p *Parser) LastDiagnostic() *diag.Diagnostic { return p.lastDiag }

func (p *Parser) abort(msg string, span lexer.Span) {
	d := diag.Diagnostic{
		Stage:    diag.StageParser,
		Severity: diag.SeverityError,
		Message:  msg,
		Path:     p.path,
		Span: diag.Span{
			StartPos: span.StartPos, EndPos: span.EndPos,
			StartLine: span.StartLine, EndLine: span.EndLine,
			StartCol: span.StartCol, EndCol: span.EndCol,
		},
	}
	panic(parseAbort{diag: d})
}

func (p *Parser) nextToken() {
	p.pos++
	p.curTok = p.peekTok
	if p.pos+1 < len(p.toks) {
		p.peekTok = p.toks[p.pos+1]
	} else {
		p.peekTok = p.toks[len(p.toks)-1]
	}
}

func (p *Parser) expect(tt lexer.TokenType) lexer.Token {
	if p.curTok.Kind != tt {
		p.abort(fmt.Sprintf("expected %s, found %s", tt, p.curTok.Kind), p.curTok.Span)
	}
	tok := p.curTok
	p.nextToken()
	return tok
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curTok.Kind]; ok {
		return pr
	}
	return precLowest
}

func mergeSpan(a, b lexer.Span) lexer.Span { return lexer.Merge(a, b) }

func (p *Parser) setOwner(n ast.Node) { n.SetOwner(p.owner) }
