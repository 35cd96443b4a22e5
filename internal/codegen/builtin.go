package codegen

import (
	"github.com/llir/llvm/ir/types"

	"github.com/dal-lang/dalc/internal/sema"
)

// BuiltinTypes mirrors the eight required built-in entries as named
// fields, so each is reached by field name rather than by map key. A
// field that is never assigned stays nil; the compiler does not flag it.
type BuiltinTypes struct {
	Invalid    *sema.TypeTable
	Void       *sema.TypeTable
	Bool       *sema.TypeTable
	NoReturn   *sema.TypeTable
	U8         *sema.TypeTable
	I32        *sema.TypeTable
	Isize      *sema.TypeTable
	StrLiteral *sema.TypeTable // *const u8, derived
}

// seedBuiltinTypes populates o.types with the eight built-ins and returns
// them as a BuiltinTypes struct for direct access by the orchestrator and
// (later) the emitter.
func (o *Orchestrator) seedBuiltinTypes() BuiltinTypes {
	ptrSize := 8 // host pointer width; a 32-bit target would override this

	bt := BuiltinTypes{
		Invalid:  &sema.TypeTable{Kind: sema.TypeInvalid, Name: "invalid"},
		Void:     &sema.TypeTable{Kind: sema.TypeVoid, Name: "void", LLVMType: types.Void},
		Bool:     &sema.TypeTable{Kind: sema.TypeBool, Name: "bool", Size: 1, Align: 1, LLVMType: types.I1},
		NoReturn: &sema.TypeTable{Kind: sema.TypeNoReturn, Name: "!"},
		U8: &sema.TypeTable{
			Kind: sema.TypeInt, Name: "u8", Size: 1, Align: 1, IsSigned: false, LLVMType: types.I8,
		},
		I32: &sema.TypeTable{
			Kind: sema.TypeInt, Name: "i32", Size: 4, Align: 4, IsSigned: true, LLVMType: types.I32,
		},
		Isize: &sema.TypeTable{
			Kind: sema.TypeInt, Name: "isize", Size: ptrSize, Align: ptrSize, IsSigned: true, LLVMType: types.NewInt(uint64(ptrSize) * 8),
		},
	}

	o.types["invalid"] = bt.Invalid
	o.types["void"] = bt.Void
	o.types["bool"] = bt.Bool
	o.types["!"] = bt.NoReturn
	o.types["u8"] = bt.U8
	o.types["i32"] = bt.I32
	o.types["isize"] = bt.Isize

	bt.StrLiteral = bt.U8.GetPointerTo(true, ptrSize, o.newLLVMPointer)
	o.types[bt.StrLiteral.Name] = bt.StrLiteral

	return bt
}

func (o *Orchestrator) newLLVMPointer(elem interface{}) interface{} {
	t, ok := elem.(types.Type)
	if !ok {
		return types.NewPointer(types.I8)
	}
	return types.NewPointer(t)
}

func (o *Orchestrator) newLLVMArray(elem interface{}, n int) interface{} {
	t, ok := elem.(types.Type)
	if !ok {
		t = types.I8
	}
	return types.NewArray(uint64(n), t)
}
