// Package binder resolves names. Bind walks a parsed file once and builds the
// scope tree and symbol arena that the checker reads through id handles.
package binder

import (
	"fmt"

	"github.com/aodai/taipu/src/diag"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// Binder holds the result of binding one file. After Bind returns the Binder
// is read only and safe for concurrent use.
type Binder struct {
	filename  string
	file      types.ScopeID
	scopes    []scope
	symbols   []Symbol
	nodeScope map[syntax.Node]types.ScopeID
	errs      []error
}

// Bind builds the scope tree and symbol table for file. Binding never fails,
// redeclarations are collected as diagnostics and the symbols merge anyway so
// later stages stay deterministic.
func Bind(file *syntax.File) *Binder {
	b := &Binder{
		filename:  file.Filename,
		nodeScope: map[syntax.Node]types.ScopeID{},
	}
	universe := b.newScope(types.NoScope, scopeUniverse)
	b.predeclare(universe, "undefined", SymProperty)
	b.predeclare(universe, "NaN", SymFunctionScopedVariable)
	b.predeclare(universe, "Infinity", SymFunctionScopedVariable)
	b.file = b.newScope(universe, scopeFile)
	for _, stmt := range file.Stmts {
		b.bindStmt(b.file, stmt)
	}
	return b
}

// ScopeOf returns the scope node n occurs in, or NoScope for a node that was
// not part of the bound file.
func (b *Binder) ScopeOf(n syntax.Node) types.ScopeID {
	if id, ok := b.nodeScope[n]; ok {
		return id
	}
	return types.NoScope
}

// SymbolName returns the declared name of id.
func (b *Binder) SymbolName(id types.SymbolID) string { return b.symbols[id].Name }

// SymbolFlags returns the accumulated declaration flags of id.
func (b *Binder) SymbolFlags(id types.SymbolID) SymbolFlags { return b.symbols[id].Flags }

// DeclarationsOf returns the declaration nodes merged into id in source
// order. Predeclared names have none.
func (b *Binder) DeclarationsOf(id types.SymbolID) []syntax.Node { return b.symbols[id].Decls }

// Diagnostics returns the redeclaration errors found while binding.
func (b *Binder) Diagnostics() []error { return b.errs }

// predeclare seeds a name with no declaration node, for the universe scope.
func (b *Binder) predeclare(sid types.ScopeID, name string, flags SymbolFlags) {
	id := types.SymbolID(len(b.symbols))
	b.symbols = append(b.symbols, Symbol{Name: name, Flags: flags})
	b.scopes[sid].symbols[name] = id
}

// declare adds one declaration of name to sid, merging into an existing
// symbol when the excludes mask allows it.
func (b *Binder) declare(sid types.ScopeID, name string, node syntax.Node, includes, excludes SymbolFlags) types.SymbolID {
	sc := &b.scopes[sid]
	if id, ok := sc.symbols[name]; ok {
		sym := &b.symbols[id]
		if sym.Flags.HasAny(excludes) {
			var err error
			if (sym.Flags | includes).HasAny(SymBlockScopedVariable) {
				err = fmt.Errorf("cannot redeclare block-scoped variable '%s'", name)
			} else {
				err = fmt.Errorf("duplicate identifier '%s'", name)
			}
			b.errs = append(b.errs, &diag.Error{
				Line:     node.Pos().Line,
				Column:   node.Pos().Column,
				Kind:     diag.CheckErr,
				Err:      err,
				Filename: b.filename,
			})
		}
		sym.Flags |= includes
		sym.Decls = append(sym.Decls, node)
		return id
	}
	id := types.SymbolID(len(b.symbols))
	b.symbols = append(b.symbols, Symbol{Name: name, Flags: includes, Decls: []syntax.Node{node}})
	sc.symbols[name] = id
	return id
}

func (b *Binder) bindStmt(sc types.ScopeID, stmt syntax.Stmt) {
	b.nodeScope[stmt] = sc
	switch stmt := stmt.(type) {
	case *syntax.VarDecl:
		includes, excludes := SymBlockScopedVariable, blockScopedVariableExcludes
		target := sc
		switch stmt.Keyword {
		case syntax.DeclConst:
			includes |= SymConst
		case syntax.DeclVar:
			includes, excludes = SymFunctionScopedVariable, functionScopedVariableExcludes
			target = b.hoistTarget(sc)
		}
		b.declare(target, stmt.Name, stmt, includes, excludes)
		if stmt.Annotation != nil {
			b.bindType(sc, stmt.Annotation)
		}
		if stmt.Init != nil {
			b.bindExpr(sc, stmt.Init)
		}
	case *syntax.TypeAliasDecl:
		b.declare(sc, stmt.Name, stmt, SymTypeAlias, typeAliasExcludes)
		b.bindType(sc, stmt.Type)
	case *syntax.FuncDecl:
		b.declare(sc, stmt.Name, stmt, SymFunction, functionExcludes)
		inner := b.newScope(sc, scopeFunction)
		for i := range stmt.Params {
			p := stmt.Params[i]
			b.declare(inner, p.Name, stmt, SymFunctionScopedVariable, functionScopedVariableExcludes)
			if p.Annotation != nil {
				b.bindType(inner, p.Annotation)
			}
		}
		if stmt.Return != nil {
			b.bindType(inner, stmt.Return)
		}
		if stmt.Body != nil {
			b.nodeScope[stmt.Body] = inner
			for _, s := range stmt.Body.Stmts {
				b.bindStmt(inner, s)
			}
		}
	case *syntax.InterfaceDecl:
		b.declare(sc, stmt.Name, stmt, SymInterface, interfaceExcludes)
		for i := range stmt.Members {
			if stmt.Members[i].Type != nil {
				b.bindType(sc, stmt.Members[i].Type)
			}
		}
	case *syntax.BlockStmt:
		inner := b.newScope(sc, scopeBlock)
		for _, s := range stmt.Stmts {
			b.bindStmt(inner, s)
		}
	case *syntax.IfStmt:
		b.bindExpr(sc, stmt.Cond)
		b.bindStmt(sc, stmt.Then)
		if stmt.Else != nil {
			b.bindStmt(sc, stmt.Else)
		}
	case *syntax.ReturnStmt:
		if stmt.X != nil {
			b.bindExpr(sc, stmt.X)
		}
	case *syntax.ExprStmt:
		b.bindExpr(sc, stmt.X)
	}
}

func (b *Binder) bindExpr(sc types.ScopeID, e syntax.Expr) {
	b.nodeScope[e] = sc
	switch e := e.(type) {
	case *syntax.ParenExpr:
		b.bindExpr(sc, e.Inner)
	case *syntax.UnaryExpr:
		b.bindExpr(sc, e.Operand)
	case *syntax.BinaryExpr:
		b.bindExpr(sc, e.Left)
		b.bindExpr(sc, e.Right)
	case *syntax.CondExpr:
		b.bindExpr(sc, e.Cond)
		b.bindExpr(sc, e.Then)
		b.bindExpr(sc, e.Else)
	case *syntax.ObjectLit:
		for i := range e.Props {
			b.bindExpr(sc, e.Props[i].Value)
		}
	case *syntax.ArrayLit:
		for _, item := range e.Items {
			b.bindExpr(sc, item)
		}
	case *syntax.PropAccess:
		b.bindExpr(sc, e.Object)
	case *syntax.ElemAccess:
		b.bindExpr(sc, e.Object)
		b.bindExpr(sc, e.Index)
	case *syntax.CallExpr:
		b.bindExpr(sc, e.Callee)
		for _, arg := range e.Args {
			b.bindExpr(sc, arg)
		}
	}
}

func (b *Binder) bindType(sc types.ScopeID, t syntax.TypeNode) {
	b.nodeScope[t] = sc
	switch t := t.(type) {
	case *syntax.UnionType:
		for _, m := range t.Members {
			b.bindType(sc, m)
		}
	case *syntax.IntersectionType:
		for _, m := range t.Members {
			b.bindType(sc, m)
		}
	case *syntax.ParenType:
		b.bindType(sc, t.Inner)
	case *syntax.TypeRef:
		for _, arg := range t.Args {
			b.bindType(sc, arg)
		}
	case *syntax.TypeLit:
		for i := range t.Members {
			if t.Members[i].Type != nil {
				b.bindType(sc, t.Members[i].Type)
			}
		}
	case *syntax.ArrayType:
		b.bindType(sc, t.Elem)
	case *syntax.TupleType:
		for _, el := range t.Elems {
			b.bindType(sc, el)
		}
	case *syntax.FuncType:
		for i := range t.Params {
			if t.Params[i].Annotation != nil {
				b.bindType(sc, t.Params[i].Annotation)
			}
		}
		if t.Return != nil {
			b.bindType(sc, t.Return)
		}
	case *syntax.KeyofType:
		b.bindType(sc, t.Operand)
	case *syntax.TypeofType:
		b.bindExpr(sc, t.X)
	case *syntax.IndexedAccessType:
		b.bindType(sc, t.Object)
		b.bindType(sc, t.Index)
	case *syntax.MappedType:
		b.bindType(sc, t.Constraint)
		b.bindType(sc, t.Value)
	}
}
