package ast_test

import (
	"testing"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
)

type stubOwner struct{ path string }

func (s stubOwner) Path() string { return s.path }

func TestWalkVisitsEveryIdent(t *testing.T) {
	span := lexer.Span{}
	a := ast.NewIdent(span, "a")
	b := ast.NewIdent(span, "b")
	bin := ast.NewBinOp(span, ast.BinAdd, a, b)
	ret := ast.NewReturn(span, bin)
	block := ast.NewBlock(span, []ast.Stmt{ret})

	idents := ast.Capture[*ast.Ident](block)
	if len(idents) != 2 {
		t.Fatalf("got %d idents, want 2", len(idents))
	}
	if idents[0].Name != "a" || idents[1].Name != "b" {
		t.Fatalf("got %q, %q; want a, b", idents[0].Name, idents[1].Name)
	}
}

func TestOwnerBackReference(t *testing.T) {
	span := lexer.Span{}
	id := ast.NewIdent(span, "x")
	owner := stubOwner{path: "f.dal"}
	id.SetOwner(owner)

	if id.Owner().Path() != "f.dal" {
		t.Fatalf("got %q, want f.dal", id.Owner().Path())
	}
}

func TestCaptureFindsNoMatches(t *testing.T) {
	span := lexer.Span{}
	v := ast.NewVoid(span)
	calls := ast.Capture[*ast.Call](v)
	if len(calls) != 0 {
		t.Fatalf("got %d calls, want 0", len(calls))
	}
}
