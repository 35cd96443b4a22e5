package parser

import (
	"testing"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
)

type stubOwner struct{ path string }

func (s stubOwner) Path() string { return s.path }

func parse(t *testing.T, src string) *ast.Root {
	t.Helper()
	toks := lexer.New(src, "test.dal").Tokenize()
	p := New(toks, "test.dal", stubOwner{path: "test.dal"})
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v (%+v)", err, p.LastDiagnostic())
	}
	return root
}

func TestParseEmptySource(t *testing.T) {
	root := parse(t, "")
	if len(root.Items) != 0 {
		t.Fatalf("got %d items, want 0", len(root.Items))
	}
}

func TestParsePubFnAdd(t *testing.T) {
	root := parse(t, `pub fn add(a: u8, b: u8) -> u8 { return a + b }`)
	if len(root.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(root.Items))
	}
	def, ok := root.Items[0].(*ast.FnDef)
	if !ok {
		t.Fatalf("got %T, want *ast.FnDef", root.Items[0])
	}
	if !def.Proto.IsPub {
		t.Errorf("expected IsPub")
	}
	if def.Proto.IsVariadic {
		t.Errorf("expected not variadic")
	}
	if len(def.Proto.Params) != 2 {
		t.Fatalf("got %d params, want 2", len(def.Proto.Params))
	}
	ret, ok := def.Proto.ReturnType.(*ast.Type)
	if !ok || ret.Kind != ast.TypePrimitive || ret.Name.Name != "u8" {
		t.Fatalf("got return type %+v, want primitive u8", def.Proto.ReturnType)
	}
	if len(def.Body.Stmts) != 1 {
		t.Fatalf("got %d body stmts, want 1", len(def.Body.Stmts))
	}
	ret2, ok := def.Body.Stmts[0].(*ast.Return)
	if !ok {
		t.Fatalf("got %T, want *ast.Return", def.Body.Stmts[0])
	}
	bin, ok := ret2.Value.(*ast.BinOp)
	if !ok || bin.Op != ast.BinAdd {
		t.Fatalf("got %+v, want BinOp(+)", ret2.Value)
	}
}

func TestParseVariadicDefinitionParses(t *testing.T) {
	// Grammar-level acceptance; rejection of variadic definitions is a
	// semantic-analysis concern (spec scenario 3), not a parse error.
	root := parse(t, `fn f(a: u8, ...) { }`)
	def := root.Items[0].(*ast.FnDef)
	if !def.Proto.IsVariadic {
		t.Fatalf("expected IsVariadic")
	}
	if len(def.Proto.Params) != 1 {
		t.Fatalf("got %d params, want 1", len(def.Proto.Params))
	}
}

func TestParseEmptyBlockGetsSyntheticVoid(t *testing.T) {
	root := parse(t, `fn f() { }`)
	def := root.Items[0].(*ast.FnDef)
	if len(def.Body.Stmts) != 1 {
		t.Fatalf("got %d stmts, want 1 synthetic void", len(def.Body.Stmts))
	}
	if _, ok := def.Body.Stmts[0].(*ast.Void); !ok {
		t.Fatalf("got %T, want *ast.Void", def.Body.Stmts[0])
	}
}

func TestParseElseIfChainNestsRightAssociatively(t *testing.T) {
	root := parse(t, `fn f() { if true { } else if false { } else { } }`)
	def := root.Items[0].(*ast.FnDef)
	ifStmt := def.Body.Stmts[0].(*ast.If)
	elseIf, ok := ifStmt.Else.(*ast.If)
	if !ok {
		t.Fatalf("got %T, want nested *ast.If", ifStmt.Else)
	}
	if _, ok := elseIf.Else.(*ast.Block); !ok {
		t.Fatalf("got %T, want *ast.Block", elseIf.Else)
	}
}

func TestParseVarDeclRequiresTypeOrInit(t *testing.T) {
	toks := lexer.New(`fn f() { let x }`, "test.dal").Tokenize()
	p := New(toks, "test.dal", stubOwner{path: "test.dal"})
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("expected a parse error for `let x` with neither type nor init")
	}
}

func TestParseCallReceiverMustBeIdent(t *testing.T) {
	toks := lexer.New(`fn f() { (1)(2) }`, "test.dal").Tokenize()
	p := New(toks, "test.dal", stubOwner{path: "test.dal"})
	_, err := p.Parse()
	if err == nil {
		t.Fatalf("expected a parse error for a non-identifier call receiver")
	}
}

func TestParsePointerAndArrayTypes(t *testing.T) {
	root := parse(t, `extern { fn f(a: *const u8, b: *mut i32, c: [u8; 4]); }`)
	ext := root.Items[0].(*ast.Extern)
	decl := ext.Decls[0]
	params := decl.Proto.Params

	ptrConst := params[0].Type.(*ast.Type)
	if ptrConst.Kind != ast.TypePointer || ptrConst.IsMut {
		t.Fatalf("got %+v, want const pointer", ptrConst)
	}
	ptrMut := params[1].Type.(*ast.Type)
	if ptrMut.Kind != ast.TypePointer || !ptrMut.IsMut {
		t.Fatalf("got %+v, want mut pointer", ptrMut)
	}
	arr := params[2].Type.(*ast.Type)
	if arr.Kind != ast.TypeArray || arr.Size.Text != "4" {
		t.Fatalf("got %+v, want array of size 4", arr)
	}
}

func TestParseImport(t *testing.T) {
	root := parse(t, `import "nope"`)
	imp := root.Items[0].(*ast.Import)
	if imp.Path.Value != "nope" {
		t.Fatalf("got %q, want %q", imp.Path.Value, "nope")
	}
}
