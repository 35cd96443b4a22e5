// Package ast defines the Dal abstract syntax tree: a tagged-variant node
// set produced by the parser and consumed by the semantic analyzer.
package ast

import "github.com/dal-lang/dalc/internal/lexer"

// Owner is the back-reference every node carries to the import that
// produced it. It is implemented by internal/sema.ImportTable; the ast
// package only needs enough of its shape to avoid an import cycle.
type Owner interface {
	Path() string
}

// CgNode is the optional code-gen side-table an analyzer pass attaches to
// a node. It is intentionally untyped here — internal/sema defines the
// concrete side-table shapes (CgType, CgFnProto, CgFnDef) and nodes just
// carry a slot for whichever one applies to their kind.
type CgNode interface{}

// Node is the common interface every AST variant satisfies.
type Node interface {
	Span() lexer.Span
	SetOwner(Owner)
	Owner() Owner

	// NodeKind names the variant, e.g. "Ident" or "BinOp".
	NodeKind() string
	// Dump renders the node and its children as newline-terminated,
	// indented text (two spaces per level), for debugging. It is
	// deterministic: the same tree always renders to the same text.
	Dump(indent int) string
}

// Decl is a top-level declaration: FnDecl, FnDef, Extern, or Import.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement inside a Block.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression. Expr does not embed Stmt; a bare expression in
// statement position is wrapped in an ExprStmt.
type Expr interface {
	Node
	exprNode()
}

// TypeExpr is a type annotation: primitive, pointer, or array.
type TypeExpr interface {
	Node
	typeNode()
}

type base struct {
	span  lexer.Span
	owner Owner
	Cg    CgNode
}

func (b *base) Span() lexer.Span  { return b.span }
func (b *base) SetOwner(o Owner)  { b.owner = o }
func (b *base) Owner() Owner      { return b.owner }

// Root is the top of one file's AST: an ordered list of top-level items.
type Root struct {
	base
	ModuleName string // "" after parsing; the import resolver sets it from the file's base name
	Items      []Decl
}

func NewRoot(span lexer.Span, items []Decl) *Root {
	r := &Root{Items: items}
	r.span = span
	return r
}

// Import is a top-level `import "path"` item.
type Import struct {
	base
	Path *StringLit
}

func NewImport(span lexer.Span, path *StringLit) *Import {
	n := &Import{Path: path}
	n.span = span
	return n
}
func (*Import) declNode() {}

// Extern is a top-level `extern { ... }` block of declarations.
type Extern struct {
	base
	Attrs []*Attr
	Decls []*FnDecl
}

func NewExtern(span lexer.Span, attrs []*Attr, decls []*FnDecl) *Extern {
	n := &Extern{Attrs: attrs, Decls: decls}
	n.span = span
	return n
}
func (*Extern) declNode() {}

// FnDecl is a function declaration with no body (only valid inside Extern).
type FnDecl struct {
	base
	Proto *FnProto
}

func NewFnDecl(span lexer.Span, proto *FnProto) *FnDecl {
	n := &FnDecl{Proto: proto}
	n.span = span
	return n
}
func (*FnDecl) declNode() {}

// FnDef is a top-level function definition: a prototype plus a body.
type FnDef struct {
	base
	Proto *FnProto
	Body  *Block
	Skip  bool // set true by the analyzer on a duplicate-name or variadic-definition diagnostic
}

func NewFnDef(span lexer.Span, proto *FnProto, body *Block) *FnDef {
	n := &FnDef{Proto: proto, Body: body}
	n.span = span
	return n
}
func (*FnDef) declNode() {}

// FnProto is a function's signature: name, parameters, return type, and
// the attribute/pub/variadic metadata attached before it.
type FnProto struct {
	base
	Name       *Ident
	Params     []*FnParam
	ReturnType TypeExpr
	Attrs      []*Attr
	IsPub      bool
	IsVariadic bool
}

func NewFnProto(span lexer.Span, name *Ident, params []*FnParam, ret TypeExpr, attrs []*Attr, isPub, isVariadic bool) *FnProto {
	n := &FnProto{Name: name, Params: params, ReturnType: ret, Attrs: attrs, IsPub: isPub, IsVariadic: isVariadic}
	n.span = span
	return n
}

// FnParam is a single `name: Type` entry in a parameter list.
type FnParam struct {
	base
	Name *Ident
	Type TypeExpr
}

func NewFnParam(span lexer.Span, name *Ident, typ TypeExpr) *FnParam {
	n := &FnParam{Name: name, Type: typ}
	n.span = span
	return n
}

// Attr is a `@name("arg")` attribute; Arg is nil when no argument was given.
type Attr struct {
	base
	Name string
	Arg  *string
}

func NewAttr(span lexer.Span, name string, arg *string) *Attr {
	n := &Attr{Name: name, Arg: arg}
	n.span = span
	return n
}

// TypeKind discriminates the three type-expression shapes.
type TypeKind int

const (
	TypePrimitive TypeKind = iota
	TypePointer
	TypeArray
)

// Type is a type-expression node: primitive, pointer, or array.
type Type struct {
	base
	Kind      TypeKind
	Name      *Ident   // set when Kind == TypePrimitive
	Elem      TypeExpr // set when Kind == TypePointer or TypeArray
	IsMut     bool     // set when Kind == TypePointer
	Size      *IntLit  // set when Kind == TypeArray
}

func NewPrimitiveType(span lexer.Span, name *Ident) *Type {
	n := &Type{Kind: TypePrimitive, Name: name}
	n.span = span
	return n
}

func NewPointerType(span lexer.Span, elem TypeExpr, isMut bool) *Type {
	n := &Type{Kind: TypePointer, Elem: elem, IsMut: isMut}
	n.span = span
	return n
}

func NewArrayType(span lexer.Span, elem TypeExpr, size *IntLit) *Type {
	n := &Type{Kind: TypeArray, Elem: elem, Size: size}
	n.span = span
	return n
}
func (*Type) typeNode() {}

// Block is an ordered list of statements; never empty (the parser appends
// a synthetic Void when none were written).
type Block struct {
	base
	Stmts []Stmt
}

func NewBlock(span lexer.Span, stmts []Stmt) *Block {
	n := &Block{Stmts: stmts}
	n.span = span
	return n
}
func (*Block) stmtNode() {}
func (*Block) exprNode() {}

// VarDecl is `let (mut)? name (: Type)? (= expr)?`.
type VarDecl struct {
	base
	Name  *Ident
	IsMut bool
	Type  TypeExpr // nil if absent
	Value Expr     // nil if absent
}

func NewVarDecl(span lexer.Span, name *Ident, isMut bool, typ TypeExpr, value Expr) *VarDecl {
	n := &VarDecl{Name: name, IsMut: isMut, Type: typ, Value: value}
	n.span = span
	return n
}
func (*VarDecl) stmtNode() {}

// Return is `return (expr)?`.
type Return struct {
	base
	Value Expr // nil if absent
}

func NewReturn(span lexer.Span, value Expr) *Return {
	n := &Return{Value: value}
	n.span = span
	return n
}
func (*Return) stmtNode() {}

// ExprStmt wraps an expression used in statement position (an assignment
// or any other bare expression inside a block).
type ExprStmt struct {
	base
	X Expr
}

func NewExprStmt(span lexer.Span, x Expr) *ExprStmt {
	n := &ExprStmt{X: x}
	n.span = span
	return n
}
func (*ExprStmt) stmtNode() {}

// If is `if cond then (else (If | Block))?`.
type If struct {
	base
	Cond Expr
	Then *Block
	// Else holds either an *If (else-if chain) or a *Block, or nil.
	Else Stmt
}

func NewIf(span lexer.Span, cond Expr, then *Block, els Stmt) *If {
	n := &If{Cond: cond, Then: then, Else: els}
	n.span = span
	return n
}
func (*If) stmtNode() {}
func (*If) exprNode() {}

// BinOpKind enumerates the binary operators, including assignment.
type BinOpKind string

const (
	BinAdd    BinOpKind = "+"
	BinSub    BinOpKind = "-"
	BinMul    BinOpKind = "*"
	BinDiv    BinOpKind = "/"
	BinMod    BinOpKind = "%"
	BinEq     BinOpKind = "=="
	BinNotEq  BinOpKind = "!="
	BinLt     BinOpKind = "<"
	BinGt     BinOpKind = ">"
	BinLe     BinOpKind = "<="
	BinGe     BinOpKind = ">="
	BinBitAnd BinOpKind = "&"
	BinBitOr  BinOpKind = "|"
	BinBitXor BinOpKind = "^"
	BinShl    BinOpKind = "<<"
	BinShr    BinOpKind = ">>"
	BinAssign BinOpKind = "="
	BinLogAnd BinOpKind = "&&"
	BinLogOr  BinOpKind = "||"
)

// BinOp is a binary operator expression, including assignment.
type BinOp struct {
	base
	Op  BinOpKind
	Lhs Expr
	Rhs Expr
}

func NewBinOp(span lexer.Span, op BinOpKind, lhs, rhs Expr) *BinOp {
	n := &BinOp{Op: op, Lhs: lhs, Rhs: rhs}
	n.span = span
	return n
}
func (*BinOp) exprNode() {}
func (*BinOp) stmtNode() {}

// UnOpKind enumerates the unary prefix operators.
type UnOpKind string

const (
	UnNeg    UnOpKind = "neg"
	UnBitNot UnOpKind = "bit-not"
	UnLogNot UnOpKind = "log-not"
)

// UnOp is a unary prefix expression.
type UnOp struct {
	base
	Op      UnOpKind
	Operand Expr
}

func NewUnOp(span lexer.Span, op UnOpKind, operand Expr) *UnOp {
	n := &UnOp{Op: op, Operand: operand}
	n.span = span
	return n
}
func (*UnOp) exprNode() {}

// Cast is `expr as Type`.
type Cast struct {
	base
	Operand Expr
	Target  TypeExpr
}

func NewCast(span lexer.Span, operand Expr, target TypeExpr) *Cast {
	n := &Cast{Operand: operand, Target: target}
	n.span = span
	return n
}
func (*Cast) exprNode() {}

// Call is `callee(args...)`; the callee is restricted to an identifier.
type Call struct {
	base
	Callee *Ident
	Args   []Expr
}

func NewCall(span lexer.Span, callee *Ident, args []Expr) *Call {
	n := &Call{Callee: callee, Args: args}
	n.span = span
	return n
}
func (*Call) exprNode() {}

// ArrayIndex is `array[index]`; the array operand is restricted to an
// identifier.
type ArrayIndex struct {
	base
	Array *Ident
	Index Expr
}

func NewArrayIndex(span lexer.Span, array *Ident, index Expr) *ArrayIndex {
	n := &ArrayIndex{Array: array, Index: index}
	n.span = span
	return n
}
func (*ArrayIndex) exprNode() {}

// Ident is a bare identifier reference.
type Ident struct {
	base
	Name string
}

func NewIdent(span lexer.Span, name string) *Ident {
	n := &Ident{Name: name}
	n.span = span
	return n
}
func (*Ident) exprNode() {}

// IntLit is a decimal integer literal.
type IntLit struct {
	base
	Text string
}

func NewIntLit(span lexer.Span, text string) *IntLit {
	n := &IntLit{Text: text}
	n.span = span
	return n
}
func (*IntLit) exprNode() {}

// StringLit is a string literal with escapes already decoded.
type StringLit struct {
	base
	Value string
}

func NewStringLit(span lexer.Span, value string) *StringLit {
	n := &StringLit{Value: value}
	n.span = span
	return n
}
func (*StringLit) exprNode() {}

// BoolLit is `true` or `false`.
type BoolLit struct {
	base
	Value bool
}

func NewBoolLit(span lexer.Span, value bool) *BoolLit {
	n := &BoolLit{Value: value}
	n.span = span
	return n
}
func (*BoolLit) exprNode() {}

// Void is the `void` primary expression/type atom.
type Void struct {
	base
}

func NewVoid(span lexer.Span) *Void {
	n := &Void{}
	n.span = span
	return n
}
func (*Void) exprNode() {}
func (*Void) stmtNode() {}

// NoReturn is the `!` primary expression atom (the never type used as a value).
type NoReturn struct {
	base
}

func NewNoReturn(span lexer.Span) *NoReturn {
	n := &NoReturn{}
	n.span = span
	return n
}
func (*NoReturn) exprNode() {}
