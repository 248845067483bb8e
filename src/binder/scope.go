package binder

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/aodai/taipu/src/types"
)

type (
	scopeKind uint8

	// scope is one node of the scope tree. Scopes live in the Binder's arena
	// and are addressed by types.ScopeID.
	scope struct {
		parent  types.ScopeID
		kind    scopeKind
		symbols map[string]types.SymbolID
	}
)

const (
	scopeUniverse scopeKind = iota
	scopeFile
	scopeFunction
	scopeBlock
)

func (b *Binder) newScope(parent types.ScopeID, kind scopeKind) types.ScopeID {
	id := types.ScopeID(len(b.scopes))
	b.scopes = append(b.scopes, scope{
		parent:  parent,
		kind:    kind,
		symbols: map[string]types.SymbolID{},
	})
	return id
}

// hoistTarget finds the scope a var declaration lands in, skipping blocks up
// to the enclosing function or file.
func (b *Binder) hoistTarget(from types.ScopeID) types.ScopeID {
	for b.scopes[from].kind == scopeBlock {
		from = b.scopes[from].parent
	}
	return from
}

// FileScope returns the scope file level statements bind in.
func (b *Binder) FileScope() types.ScopeID { return b.file }

// Resolve searches scope and its ancestors for name and returns the symbol it
// binds to, or NoSymbol when nothing in sight declares it.
func (b *Binder) Resolve(name string, scope types.ScopeID) types.SymbolID {
	for scope != types.NoScope {
		if id, ok := b.scopes[scope].symbols[name]; ok {
			return id
		}
		scope = b.scopes[scope].parent
	}
	return types.NoSymbol
}

// Names returns every name visible from scope, sorted. Shadowed names appear
// once.
func (b *Binder) Names(scope types.ScopeID) []string {
	visible := map[string]struct{}{}
	for s := scope; s != types.NoScope; s = b.scopes[s].parent {
		for name := range b.scopes[s].symbols {
			visible[name] = struct{}{}
		}
	}
	names := maps.Keys(visible)
	slices.Sort(names)
	return names
}
