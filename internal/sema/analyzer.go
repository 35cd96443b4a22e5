package sema

import (
	"fmt"
	"strconv"

	"github.com/dal-lang/dalc/internal/ast"
	"github.com/dal-lang/dalc/internal/diag"
)

// LLVMFactory supplies the LLVM type-construction calls TypeTable
// interning needs, without sema importing an LLVM library directly. The
// orchestrator wires in the real llir/llvm-backed implementation.
type LLVMFactory struct {
	PointerSize int
	NewPointer  func(elem interface{}) interface{}
	NewArray    func(elem interface{}, n int) interface{}
}

// Analyzer runs the two-pass semantic analysis over every registered
// import's root AST: pass 1 declares function prototypes and resolves
// their types; pass 2 seeds per-function root block contexts with
// parameter locals.
type Analyzer struct {
	Imports   map[string]*ImportTable
	Types     TypeMap
	GlobalFns map[string]*FnTable
	LinkTable map[string]bool

	Diagnostics []diag.Diagnostic

	llvm LLVMFactory
}

// NewAnalyzer constructs an analyzer sharing the orchestrator's global
// type map (already seeded with built-ins) and import table.
func NewAnalyzer(imports map[string]*ImportTable, types TypeMap, llvm LLVMFactory) *Analyzer {
	return &Analyzer{
		Imports:   imports,
		Types:     types,
		GlobalFns: make(map[string]*FnTable),
		LinkTable: make(map[string]bool),
		llvm:      llvm,
	}
}

func (a *Analyzer) addError(path string, msg string, span ast.Node) {
	var s diag.Span
	if span != nil {
		sp := span.Span()
		s = diag.Span{
			StartPos: sp.StartPos, EndPos: sp.EndPos,
			StartLine: sp.StartLine, EndLine: sp.EndLine,
			StartCol: sp.StartCol, EndCol: sp.EndCol,
		}
	}
	a.Diagnostics = append(a.Diagnostics, diag.Diagnostic{
		Stage:    diag.StageAnalyzer,
		Severity: diag.SeverityError,
		Message:  msg,
		Path:     path,
		Span:     s,
	})
}

// Run executes both passes over every registered import.
func (a *Analyzer) Run() {
	for _, imp := range a.Imports {
		a.analyzeTopLevel(imp)
	}
	for _, imp := range a.Imports {
		for _, item := range imp.RootAST.Items {
			if def, ok := item.(*ast.FnDef); ok && !def.Skip {
				a.setupFnContext(imp, def)
			}
		}
	}
}

// analyzeTopLevel is pass 1 for one import: declare every Extern and
// FnDef at the top level.
func (a *Analyzer) analyzeTopLevel(imp *ImportTable) {
	for _, item := range imp.RootAST.Items {
		switch decl := item.(type) {
		case *ast.Extern:
			a.analyzeExtern(imp, decl)
		case *ast.FnDef:
			a.analyzeFnDecl(imp, decl)
		}
	}
}

func (a *Analyzer) analyzeExtern(imp *ImportTable, ext *ast.Extern) {
	for _, attr := range ext.Attrs {
		switch attr.Name {
		case "link":
			if attr.Arg != nil {
				a.LinkTable[*attr.Arg] = true
			} else {
				a.addError(imp.Path(), "`link` attribute requires a string argument", attr)
			}
		default:
			a.addError(imp.Path(), fmt.Sprintf("unknown attribute `%s` on extern block", attr.Name), attr)
		}
	}

	for _, decl := range ext.Decls {
		table := &FnTable{
			Proto:       decl.Proto,
			Import:      imp,
			CallingConv: "c",
			IsExternal:  true,
		}
		a.resolveFnProto(imp, decl.Proto, table)

		name := decl.Proto.Name.Name
		if _, exists := imp.FnTable[name]; exists {
			a.addError(imp.Path(), fmt.Sprintf("function `%s` is already declared", name), decl)
			continue
		}
		imp.FnTable[name] = table
		decl.Proto.Cg = &CgFnProto{Table: table}

		if decl.Proto.IsPub {
			key := globalFnKey(imp.RootAST.ModuleName, name)
			if key == "" {
				a.addError(imp.Path(), "exported function requires a `module` clause at the file head", decl)
			} else if _, exists := a.GlobalFns[key]; exists {
				a.addError(imp.Path(), fmt.Sprintf("function `%s` is already exported", key), decl)
			} else {
				a.GlobalFns[key] = table
			}
		}
	}
}

// analyzeFnDecl is pass 1's handling of a single top-level FnDef.
func (a *Analyzer) analyzeFnDecl(imp *ImportTable, def *ast.FnDef) {
	name := def.Proto.Name.Name
	if _, exists := imp.FnTable[name]; exists {
		a.addError(imp.Path(), fmt.Sprintf("function `%s` is already defined", name), def)
		def.Skip = true
		def.Cg = &CgFnDef{Skip: true}
		return
	}
	if def.Proto.IsVariadic {
		a.addError(imp.Path(), "variadic functions are not supported", def)
		def.Skip = true
		def.Cg = &CgFnDef{Skip: true}
		return
	}

	table := &FnTable{
		Proto:       def.Proto,
		Def:         def,
		Import:      imp,
		CallingConv: "fast",
		IsExternal:  false,
	}
	a.resolveFnProto(imp, def.Proto, table)

	imp.FnTable[name] = table
	def.Proto.Cg = &CgFnProto{Table: table}
	def.Cg = &CgFnDef{Skip: false}

	if def.Proto.IsPub {
		key := globalFnKey(imp.RootAST.ModuleName, name)
		if key == "" {
			a.addError(imp.Path(), "exported function requires a `module` clause at the file head", def)
		} else if _, exists := a.GlobalFns[key]; exists {
			a.addError(imp.Path(), fmt.Sprintf("function `%s` is already exported", key), def)
		} else {
			a.GlobalFns[key] = table
		}
	}
}

func globalFnKey(module, name string) string {
	if module == "" {
		return ""
	}
	return module + "." + name
}

// resolveFnProto validates the proto's attributes and resolves every
// parameter type plus the return type.
func (a *Analyzer) resolveFnProto(imp *ImportTable, proto *ast.FnProto, table *FnTable) {
	isDef := !table.IsExternal
	for _, attr := range proto.Attrs {
		if isDef && (attr.Name == "inline" || attr.Name == "always_inline") {
			table.Attrs = append(table.Attrs, attr.Name)
			continue
		}
		a.addError(imp.Path(), fmt.Sprintf("unknown attribute `%s` on function prototype", attr.Name), attr)
	}

	for _, param := range proto.Params {
		typ := a.resolveType(imp, param.Type)
		if typ != nil && typ.Kind == TypeNoReturn {
			a.addError(imp.Path(), "parameters may not be typed `!`", param)
		}
	}
	a.resolveType(imp, proto.ReturnType)
}

// resolveType populates typ's Cg side-table with its interned TypeTable
// entry and returns that entry. On an error it records a diagnostic and
// uses the invalid type as the entry. It returns nil without a diagnostic
// when typ is not an *ast.Type.
func (a *Analyzer) resolveType(imp *ImportTable, typ ast.TypeExpr) *TypeTable {
	t, ok := typ.(*ast.Type)
	if !ok {
		return nil
	}

	var table *TypeTable
	switch t.Kind {
	case ast.TypePrimitive:
		name := t.Name.Name
		if entry, ok := a.Types[name]; ok {
			table = entry
		} else {
			a.addError(imp.Path(), fmt.Sprintf("unknown primitive type `%s`", name), t)
			table = a.Types["invalid"]
		}
	case ast.TypePointer:
		elem := a.resolveType(imp, t.Elem)
		if elem != nil && elem.Kind == TypeNoReturn {
			a.addError(imp.Path(), "pointer target may not be `!`", t)
			table = a.Types["invalid"]
		} else if elem == nil {
			table = a.Types["invalid"]
		} else {
			table = elem.GetPointerTo(!t.IsMut, a.llvm.PointerSize, a.llvm.NewPointer)
			a.Types[table.Name] = table
		}
	case ast.TypeArray:
		elem := a.resolveType(imp, t.Elem)
		size := a.getArrayType(imp, t)
		if elem != nil && elem.Kind == TypeNoReturn {
			a.addError(imp.Path(), "array element may not be `!`", t)
			table = a.Types["invalid"]
		} else if elem == nil || size < 0 {
			table = a.Types["invalid"]
		} else {
			table = elem.GetArray(size, a.llvm.NewArray)
			a.Types[table.Name] = table
		}
	}

	t.Cg = &CgType{Table: table}
	return table
}

// getArrayType resolves an array type-expression's size literal, which
// must be an integer literal; a non-integer size is a diagnostic and
// yields -1 (matching an invalid array type's sentinel size).
func (a *Analyzer) getArrayType(imp *ImportTable, t *ast.Type) int {
	if t.Size == nil {
		a.addError(imp.Path(), "array size must be an integer literal", t)
		return -1
	}
	n, err := strconv.Atoi(t.Size.Text)
	if err != nil {
		a.addError(imp.Path(), "array size must be an integer literal", t.Size)
		return -1
	}
	return n
}

// setupFnContext is pass 2 for one FnDef: create its root BlockContext and
// seed one LocalVarTable per parameter.
func (a *Analyzer) setupFnContext(imp *ImportTable, def *ast.FnDef) *BlockContext {
	bc := NewRootBlockContext(def.Body)

	for i, param := range def.Proto.Params {
		var typ *TypeTable
		if side, ok := param.Type.(*ast.Type); ok {
			if cg, ok := side.Cg.(*CgType); ok {
				typ = cg.Table
			}
		}

		local := &LocalVarTable{
			Name:     param.Name.Name,
			Type:     typ,
			IsConst:  true,
			DeclNode: param,
			ArgIndex: i,
		}
		if !bc.AddLocal(local) {
			a.addError(imp.Path(), fmt.Sprintf("duplicate parameter name `%s`", param.Name.Name), param)
			if existing, ok := bc.GetLocal(local.Name); ok && existing.Type != typ {
				existing.Type = a.Types["invalid"]
			}
		}
	}

	if cg, ok := def.Cg.(*CgFnDef); ok {
		cg.Blocks = append(cg.Blocks, bc)
	} else {
		def.Cg = &CgFnDef{Blocks: []*BlockContext{bc}}
	}
	return bc
}
