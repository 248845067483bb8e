package types

type (
	// TypeID is an opaque handle to a type record in a Table. IDs are allocated
	// densely from zero in creation order and are only meaningful within the
	// session that created them. They are never reused or invalidated while the
	// session lives.
	TypeID int32
	// SymbolID is an opaque handle to a declared name. Symbols are owned by the
	// binder; type records only ever reference them.
	SymbolID int32
	// ScopeID is an opaque handle to a lexical scope owned by the binder.
	ScopeID int32
)

const (
	// NoType marks the absence of a type.
	NoType TypeID = -1
	// NoSymbol marks the absence of a symbol.
	NoSymbol SymbolID = -1
	// NoScope marks the absence of a scope.
	NoScope ScopeID = -1
)
