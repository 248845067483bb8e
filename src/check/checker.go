// Package check computes types. A Checker owns one checking session: it wraps
// a types.Builder, resolves annotations, infers expression types, and collects
// diagnostics and degradations without ever failing the walk. TypeIDs handed
// out by a Checker are valid only against its own Table.
package check

import (
	"fmt"

	"github.com/aodai/taipu/src/binder"
	"github.com/aodai/taipu/src/conf"
	"github.com/aodai/taipu/src/diag"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

type (
	// Bindings is the name resolution surface the checker consumes. It is
	// satisfied by *binder.Binder but kept narrow so another resolver can be
	// substituted.
	Bindings interface {
		ScopeOf(n syntax.Node) types.ScopeID
		Resolve(name string, scope types.ScopeID) types.SymbolID
		SymbolName(id types.SymbolID) string
		SymbolFlags(id types.SymbolID) binder.SymbolFlags
		DeclarationsOf(id types.SymbolID) []syntax.Node
	}

	// Settings are the behavior knobs of a session. The zero value is the
	// default strict configuration.
	Settings struct {
		// NoImplicitAny reports variables whose type cannot be determined.
		NoImplicitAny bool
		// SourceIsJS marks the source as a JavaScript file, which relaxes the
		// object keyword to any unless NoImplicitAny is set.
		SourceIsJS bool
	}

	// Degradation records one construct that resolved to any because the
	// session does not model it. Degradations are informational, not errors,
	// and appending one never stops the walk.
	Degradation struct {
		Pos    syntax.LineInfo
		Node   syntax.Node
		Reason string
	}

	// Checker is one checking session. It is the only writer of its Builder
	// and must not be shared between goroutines; the Table it exposes is safe
	// to read concurrently once checking is done.
	Checker struct {
		bindings Bindings
		settings Settings
		filename string

		builder *types.Builder
		table   *types.Table
		intr    types.Intrinsics

		links          map[syntax.Node]types.TypeID
		symbolTypes    map[types.SymbolID]types.TypeID
		aliasTypes     map[types.SymbolID]types.TypeID
		resolvingValue map[types.SymbolID]bool
		resolvingAlias map[types.SymbolID]bool

		diags        []error
		degradations []Degradation
	}
)

// New creates a checking session over bindings. The session starts with every
// intrinsic type already interned.
func New(bindings Bindings, settings Settings) *Checker {
	b := types.NewBuilder()
	return &Checker{
		bindings:       bindings,
		settings:       settings,
		builder:        b,
		table:          b.Table(),
		intr:           b.Intrinsics(),
		links:          map[syntax.Node]types.TypeID{},
		symbolTypes:    map[types.SymbolID]types.TypeID{},
		aliasTypes:     map[types.SymbolID]types.TypeID{},
		resolvingValue: map[types.SymbolID]bool{},
		resolvingAlias: map[types.SymbolID]bool{},
	}
}

// CheckFile checks every statement of file in order.
func (c *Checker) CheckFile(file *syntax.File) {
	c.filename = file.Filename
	for _, stmt := range file.Stmts {
		c.CheckStatement(stmt)
	}
}

// Table returns the session's type table.
func (c *Checker) Table() *types.Table { return c.table }

// Render returns the display text of a type in this session.
func (c *Checker) Render(id types.TypeID) string { return c.table.Render(id) }

// Diagnostics returns the type complaints found so far, capped at
// conf.MAXERRORS.
func (c *Checker) Diagnostics() []error { return c.diags }

// Degradations returns every construct that resolved to any so far.
func (c *Checker) Degradations() []Degradation { return c.degradations }

// TypeOfSymbol returns the value type of a symbol, computing and caching it on
// first use.
func (c *Checker) TypeOfSymbol(sym types.SymbolID) types.TypeID {
	return c.valueType(sym, nil)
}

// DeclaredTypeOfSymbol returns the type a type alias symbol names, computing
// and caching it on first use.
func (c *Checker) DeclaredTypeOfSymbol(sym types.SymbolID) types.TypeID {
	return c.declaredType(sym, nil)
}

func (c *Checker) degrade(n syntax.Node, reason string) types.TypeID {
	c.degradations = append(c.degradations, Degradation{Pos: n.Pos(), Node: n, Reason: reason})
	return c.intr.Any
}

func (c *Checker) errorAt(n syntax.Node, err error) {
	if len(c.diags) >= conf.MAXERRORS {
		return
	}
	cErr := &diag.Error{Kind: diag.CheckErr, Err: err, Filename: c.filename}
	if n != nil {
		cErr.Line = n.Pos().Line
		cErr.Column = n.Pos().Column
	}
	c.diags = append(c.diags, cErr)
}

func (c *Checker) valueType(sym types.SymbolID, at syntax.Node) types.TypeID {
	if id, ok := c.symbolTypes[sym]; ok {
		return id
	}
	id := c.computeValueType(sym, at)
	c.symbolTypes[sym] = id
	return id
}

func (c *Checker) computeValueType(sym types.SymbolID, at syntax.Node) types.TypeID {
	decls := c.bindings.DeclarationsOf(sym)
	if at == nil && len(decls) > 0 {
		at = decls[0]
	}
	if len(decls) == 0 {
		// universe names carry no declarations
		switch c.bindings.SymbolName(sym) {
		case "undefined":
			return c.intr.Undefined
		case "NaN", "Infinity":
			return c.intr.Number
		}
		return c.intr.Any
	}
	flags := c.bindings.SymbolFlags(sym)
	if !flags.HasAny(binder.SymValue) {
		c.errorAt(at, fmt.Errorf("'%s' only refers to a type, but is being used as a value here", c.bindings.SymbolName(sym)))
		return c.intr.Err
	}
	if flags.HasAny(binder.SymFunction) {
		return c.degrade(at, "function value")
	}
	if c.resolvingValue[sym] {
		c.errorAt(at, fmt.Errorf("'%s' is referenced directly or indirectly in its own initializer", c.bindings.SymbolName(sym)))
		return c.intr.Err
	}
	c.resolvingValue[sym] = true
	defer delete(c.resolvingValue, sym)

	var decl *syntax.VarDecl
	for _, d := range decls {
		if vd, ok := d.(*syntax.VarDecl); ok {
			decl = vd
			break
		}
	}
	if decl == nil {
		return c.intr.Any
	}
	if decl.Annotation != nil {
		return c.ResolveTypeNode(decl.Annotation)
	}
	if decl.Init != nil {
		init := c.CheckExpression(decl.Init)
		return c.widenInitializer(init, flags.HasAny(binder.SymConst))
	}
	return c.intr.Any
}

// widenInitializer maps an initializer type to the declared type of the
// variable it initializes. A fresh object literal widens member literals to
// their base primitives. A const declaration keeps regular literal types, let
// and var widen them away.
func (c *Checker) widenInitializer(id types.TypeID, isConst bool) types.TypeID {
	if c.table.Is(id, types.FlagObject) && c.table.ObjectFlags(id).Has(types.ObjFlagFreshLiteral) {
		props := c.table.Properties(id)
		widened := make([]types.Property, len(props))
		for i, p := range props {
			widened[i] = types.Property{Name: p.Name, Type: c.builder.WidenLiteral(p.Type), Optional: p.Optional}
		}
		return c.builder.Object(widened, c.table.ObjectFlags(id)&^types.ObjFlagFreshLiteral)
	}
	if isConst {
		return c.builder.RegularType(id)
	}
	return c.builder.WidenLiteral(c.builder.RegularType(id))
}

// declaredType resolves the type a type alias symbol declares, caching per
// symbol. A union alias gets the alias symbol attached so renders show the
// declared name.
func (c *Checker) declaredType(sym types.SymbolID, at syntax.Node) types.TypeID {
	if id, ok := c.aliasTypes[sym]; ok {
		return id
	}
	if at == nil {
		if decls := c.bindings.DeclarationsOf(sym); len(decls) > 0 {
			at = decls[0]
		}
	}
	if c.resolvingAlias[sym] {
		c.errorAt(at, fmt.Errorf("type alias '%s' circularly references itself", c.bindings.SymbolName(sym)))
		return c.intr.Err
	}
	var decl *syntax.TypeAliasDecl
	for _, d := range c.bindings.DeclarationsOf(sym) {
		if alias, ok := d.(*syntax.TypeAliasDecl); ok {
			decl = alias
			break
		}
	}
	if decl == nil {
		return c.degrade(at, "type reference without alias declaration")
	}
	c.resolvingAlias[sym] = true
	var id types.TypeID
	if u, ok := decl.Type.(*syntax.UnionType); ok {
		members := make([]types.TypeID, 0, len(u.Members))
		for _, m := range u.Members {
			members = append(members, c.ResolveTypeNode(m))
		}
		id = c.builder.UnionWithAlias(members, types.ReduceLiteral, sym, decl.Name)
	} else {
		id = c.ResolveTypeNode(decl.Type)
	}
	delete(c.resolvingAlias, sym)
	c.aliasTypes[sym] = id
	return id
}
