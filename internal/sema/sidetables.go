package sema

// CgType is the code-gen side-table attached to an ast.Type node once its
// TypeTable entry has been resolved.
type CgType struct {
	Table *TypeTable
}

// CgFnProto is the code-gen side-table attached to an ast.FnProto node
// once its FnTable entry has been constructed.
type CgFnProto struct {
	Table *FnTable
}

// CgFnDef is the code-gen side-table attached to an ast.FnDef node. Skip
// mirrors ast.FnDef.Skip for callers that only see the side-table.
type CgFnDef struct {
	Skip   bool
	Blocks []*BlockContext
}
