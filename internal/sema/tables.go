// Package sema implements Dal's symbol/type tables, block contexts, and
// the two-pass semantic analyzer that resolves function prototypes.
package sema

import (
	"strconv"

	"github.com/dal-lang/dalc/internal/ast"
)

// TypeKind enumerates the TypeTable's discriminant.
type TypeKind int

const (
	TypeInvalid TypeKind = iota
	TypeVoid
	TypeBool
	TypeNoReturn
	TypeInt
	TypePtr
	TypeArray
)

// TypeTable is one interned type entry. Pointer and array types cache
// their derived forms directly on the element type rather than in a
// side map, mirroring the const/mut-pointee split of the original
// design: at most one cached const-pointer and one cached mut-pointer
// per element type.
type TypeTable struct {
	Kind     TypeKind
	Name     string
	LLVMType interface{} // concrete LLVM type, set by the orchestrator
	Size     int
	Align    int
	IsSigned bool

	// Pointer interning, cached on the pointee.
	ConstParentPtr *TypeTable
	MutParentPtr   *TypeTable

	// Array interning, cached on the element type.
	ArrayBySize map[int]*TypeTable
	ElemType    *TypeTable // set when Kind == TypeArray
}

// GetPointerTo returns the interned pointer-to-t type, constructing and
// caching it on t on first use. Repeated calls with the same (t, isConst)
// return the identical *TypeTable.
func (t *TypeTable) GetPointerTo(isConst bool, ptrSize int, mkLLVMPtr func(interface{}) interface{}) *TypeTable {
	if isConst {
		if t.ConstParentPtr != nil {
			return t.ConstParentPtr
		}
	} else {
		if t.MutParentPtr != nil {
			return t.MutParentPtr
		}
	}

	name := "*mut " + t.Name
	if isConst {
		name = "*const " + t.Name
	}
	ptr := &TypeTable{
		Kind:     TypePtr,
		Name:     name,
		Size:     ptrSize,
		Align:    ptrSize,
		LLVMType: mkLLVMPtr(t.LLVMType),
	}
	if isConst {
		t.ConstParentPtr = ptr
	} else {
		t.MutParentPtr = ptr
	}
	return ptr
}

// GetArray returns the interned [t; n] array type, constructing and
// caching it on t on first use.
func (t *TypeTable) GetArray(n int, mkLLVMArray func(interface{}, int) interface{}) *TypeTable {
	if t.ArrayBySize == nil {
		t.ArrayBySize = make(map[int]*TypeTable)
	}
	if existing, ok := t.ArrayBySize[n]; ok {
		return existing
	}
	arr := &TypeTable{
		Kind:     TypeArray,
		Name:     typeArrayName(t.Name, n),
		Size:     t.Size * n,
		Align:    t.Align,
		ElemType: t,
		LLVMType: mkLLVMArray(t.LLVMType, n),
	}
	t.ArrayBySize[n] = arr
	return arr
}

func typeArrayName(elem string, n int) string {
	return "[" + elem + "; " + strconv.Itoa(n) + "]"
}

// TypeMap is the global, compilation-wide map from type name to its
// interned TypeTable entry. Primitive lookups and built-in seeding both
// go through this.
type TypeMap map[string]*TypeTable

// FnTable records one resolved function: its prototype, optional
// definition, owning import, and any attributes recognized during
// resolution.
type FnTable struct {
	Proto       *ast.FnProto
	Def         *ast.FnDef // nil when IsExternal
	Import      *ImportTable
	Attrs       []string
	CallingConv string
	IsExternal  bool
}

// ImportTable is the per-file symbol table: one per distinct absolute
// path, shared by every AST node parsed from that file.
type ImportTable struct {
	Source  string
	path    string
	RootAST *ast.Root
	FnTable map[string]*FnTable
}

// Path satisfies ast.Owner.
func (i *ImportTable) Path() string { return i.path }

// NewImportTable constructs an import table for path with its source text.
func NewImportTable(source, path string) *ImportTable {
	return &ImportTable{
		Source:  source,
		path:    path,
		FnTable: make(map[string]*FnTable),
	}
}

// LocalVarTable records one local (parameter or block-declared variable).
// ArgIndex is -1 for a block-declared local; otherwise it is the index
// into the owning function's parameter list.
type LocalVarTable struct {
	Name       string
	Type       *TypeTable
	LLVMValue  interface{}
	IsConst    bool
	IsPointer  bool
	DeclNode   ast.Node
	ArgIndex   int
}

// BlockContext is one lexical scope during analysis/code-gen.
type BlockContext struct {
	Node   ast.Node
	Parent *BlockContext
	Root   *BlockContext
	Locals map[string]*LocalVarTable
}

// NewRootBlockContext constructs a function's top-level context: it is
// its own Root, and has no Parent.
func NewRootBlockContext(node ast.Node) *BlockContext {
	bc := &BlockContext{Node: node, Locals: make(map[string]*LocalVarTable)}
	bc.Root = bc
	return bc
}

// NewChildBlockContext constructs a nested context inheriting parent's Root.
func NewChildBlockContext(node ast.Node, parent *BlockContext) *BlockContext {
	return &BlockContext{
		Node:   node,
		Parent: parent,
		Root:   parent.Root,
		Locals: make(map[string]*LocalVarTable),
	}
}

// AddLocal inserts a local, returning false if the name already exists in
// this context.
func (b *BlockContext) AddLocal(l *LocalVarTable) bool {
	if _, exists := b.Locals[l.Name]; exists {
		return false
	}
	b.Locals[l.Name] = l
	return true
}

// GetLocal looks up name in this context only (no parent walk — callers
// that need lexical scoping walk Parent themselves).
func (b *BlockContext) GetLocal(name string) (*LocalVarTable, bool) {
	l, ok := b.Locals[name]
	return l, ok
}
