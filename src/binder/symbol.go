package binder

import (
	"github.com/aodai/taipu/src/syntax"
)

type (
	// SymbolFlags classifies what a name was declared as. A symbol accumulates
	// the flags of every declaration merged into it. Bit positions follow
	// TypeScript's SymbolFlags where it has them; SymConst rides the symbol
	// here where tsc keeps const on the declaration list node.
	SymbolFlags uint32

	// Symbol is one declared name. Symbols live in the Binder's arena and are
	// addressed by types.SymbolID.
	Symbol struct {
		Name  string
		Flags SymbolFlags
		Decls []syntax.Node
	}
)

const (
	// SymNone is the zero flag set.
	SymNone SymbolFlags = 0
	// SymFunctionScopedVariable is a var declaration or a parameter.
	SymFunctionScopedVariable SymbolFlags = 1 << 0
	// SymBlockScopedVariable is a let or const declaration.
	SymBlockScopedVariable SymbolFlags = 1 << 1
	// SymProperty is an object member or a predeclared constant such as undefined.
	SymProperty SymbolFlags = 1 << 2
	// SymFunction is a function declaration.
	SymFunction SymbolFlags = 1 << 4
	// SymInterface is an interface declaration.
	SymInterface SymbolFlags = 1 << 6
	// SymTypeAlias is a type alias declaration.
	SymTypeAlias SymbolFlags = 1 << 19
	// SymConst marks a block scoped variable declared with const.
	SymConst SymbolFlags = 1 << 28
)

const (
	// SymVariable matches every variable declaration.
	SymVariable = SymFunctionScopedVariable | SymBlockScopedVariable
	// SymValue matches symbols that name a value.
	SymValue = SymVariable | SymProperty | SymFunction
	// SymType matches symbols that name a type.
	SymType = SymTypeAlias | SymInterface
)

// Excludes masks decide which existing flags a new declaration cannot merge
// with. Same-mask pairs merge silently, anything else is a redeclaration.
const (
	functionScopedVariableExcludes = SymValue &^ SymFunctionScopedVariable
	blockScopedVariableExcludes    = SymValue
	functionExcludes               = SymValue &^ SymFunction
	typeAliasExcludes              = SymType
	interfaceExcludes              = SymType &^ SymInterface
)

// Has reports whether every bit of mask is set.
func (f SymbolFlags) Has(mask SymbolFlags) bool { return f&mask == mask }

// HasAny reports whether at least one bit of mask is set.
func (f SymbolFlags) HasAny(mask SymbolFlags) bool { return f&mask != 0 }
