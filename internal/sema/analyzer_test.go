package sema

import (
	"testing"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/lexer"
	"github.com/dal-lang/dalc/internal/parser"
)

func mkLLVMFactory() LLVMFactory {
	return LLVMFactory{
		PointerSize: 8,
		NewPointer:  func(elem interface{}) interface{} { return elem },
		NewArray:    func(elem interface{}, n int) interface{} { return elem },
	}
}

func seedBuiltins(types TypeMap) {
	types["invalid"] = &TypeTable{Kind: TypeInvalid, Name: "invalid"}
	types["void"] = &TypeTable{Kind: TypeVoid, Name: "void"}
	types["bool"] = &TypeTable{Kind: TypeBool, Name: "bool", Size: 1, Align: 1}
	types["!"] = &TypeTable{Kind: TypeNoReturn, Name: "!"}
	types["u8"] = &TypeTable{Kind: TypeInt, Name: "u8", Size: 1, Align: 1}
	types["i32"] = &TypeTable{Kind: TypeInt, Name: "i32", Size: 4, Align: 4, IsSigned: true}
	types["isize"] = &TypeTable{Kind: TypeInt, Name: "isize", Size: 8, Align: 8, IsSigned: true}
}

func mustParse(t *testing.T, src string) *ast.Root {
	t.Helper()
	toks := lexer.New(src, "t.dal").Tokenize()
	imp := NewImportTable(src, "t.dal")
	p := parser.New(toks, "t.dal", imp)
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v (%+v)", err, p.LastDiagnostic())
	}
	imp.RootAST = root
	return root
}

func newAnalyzerWithImport(t *testing.T, src, moduleName string) (*Analyzer, *ImportTable) {
	t.Helper()
	toks := lexer.New(src, "t.dal").Tokenize()
	imp := NewImportTable(src, "t.dal")
	p := parser.New(toks, "t.dal", imp)
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	root.ModuleName = moduleName
	imp.RootAST = root

	types := make(TypeMap)
	seedBuiltins(types)
	imports := map[string]*ImportTable{"t.dal": imp}
	a := NewAnalyzer(imports, types, mkLLVMFactory())
	return a, imp
}

func TestAnalyzeRejectsVariadicDefinition(t *testing.T) {
	a, imp := newAnalyzerWithImport(t, `fn f(a: u8, ...) { }`, "m")
	a.Run()

	if len(a.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(a.Diagnostics), a.Diagnostics)
	}
	if _, ok := imp.FnTable["f"]; ok {
		t.Fatalf("expected no FnTable published for a rejected variadic definition")
	}
	def := imp.RootAST.Items[0].(*ast.FnDef)
	if !def.Skip {
		t.Fatalf("expected Skip = true")
	}
}

func TestAnalyzeDuplicateFnDefInSameImport(t *testing.T) {
	a, imp := newAnalyzerWithImport(t, `fn f() { } fn f() { }`, "m")
	a.Run()

	if len(a.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %+v", len(a.Diagnostics), a.Diagnostics)
	}
	if len(imp.FnTable) != 1 {
		t.Fatalf("got %d fn table entries, want 1", len(imp.FnTable))
	}
	second := imp.RootAST.Items[1].(*ast.FnDef)
	if !second.Skip {
		t.Fatalf("expected the second definition to be skipped")
	}
	first := imp.RootAST.Items[0].(*ast.FnDef)
	if first.Skip {
		t.Fatalf("expected the first definition to survive")
	}
}

func TestAnalyzeParamLocalsSeededInOrder(t *testing.T) {
	a, imp := newAnalyzerWithImport(t, `pub fn add(a: u8, b: u8) -> u8 { return a + b }`, "m")
	a.Run()

	if len(a.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", a.Diagnostics)
	}
	def := imp.RootAST.Items[0].(*ast.FnDef)
	cg := def.Cg.(*CgFnDef)
	if len(cg.Blocks) != 1 {
		t.Fatalf("got %d root blocks, want 1", len(cg.Blocks))
	}
	root := cg.Blocks[0]
	for i, name := range []string{"a", "b"} {
		local, ok := root.GetLocal(name)
		if !ok {
			t.Fatalf("missing local %q", name)
		}
		if local.ArgIndex != i {
			t.Errorf("local %q: got ArgIndex %d, want %d", name, local.ArgIndex, i)
		}
		if !local.IsConst {
			t.Errorf("local %q: expected IsConst", name)
		}
	}

	key := "m.add"
	if _, ok := a.GlobalFns[key]; !ok {
		t.Fatalf("expected global function key %q", key)
	}
}

func TestInternPointerTypesReturnSameEntry(t *testing.T) {
	types := make(TypeMap)
	seedBuiltins(types)
	u8 := types["u8"]

	factory := mkLLVMFactory()
	p1 := u8.GetPointerTo(true, factory.PointerSize, factory.NewPointer)
	p2 := u8.GetPointerTo(true, factory.PointerSize, factory.NewPointer)
	if p1 != p2 {
		t.Fatalf("expected identical *TypeTable on repeated GetPointerTo calls")
	}
	if p1.Name != "*const u8" {
		t.Fatalf("got name %q, want *const u8", p1.Name)
	}

	mut := u8.GetPointerTo(false, factory.PointerSize, factory.NewPointer)
	if mut == p1 {
		t.Fatalf("const and mut pointers must be distinct entries")
	}
}

func TestInternArrayTypesReturnSameEntry(t *testing.T) {
	types := make(TypeMap)
	seedBuiltins(types)
	u8 := types["u8"]
	factory := mkLLVMFactory()

	a1 := u8.GetArray(4, factory.NewArray)
	a2 := u8.GetArray(4, factory.NewArray)
	if a1 != a2 {
		t.Fatalf("expected identical *TypeTable on repeated GetArray calls")
	}
	if a1.Size != 4 {
		t.Fatalf("got size %d, want 4 (1-byte elements * 4)", a1.Size)
	}
}

func TestResolveTypeRejectsNoReturnParam(t *testing.T) {
	a, imp := newAnalyzerWithImport(t, `extern { fn f(a: !); }`, "m")
	a.Run()
	if len(a.Diagnostics) == 0 {
		t.Fatalf("expected a diagnostic for a `!`-typed parameter")
	}
	_ = imp
}
