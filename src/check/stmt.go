package check

import (
	"fmt"

	"github.com/aodai/taipu/src/binder"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// CheckStatement checks one statement. Declarations resolve their symbol
// types eagerly so that initializer errors surface even when nothing ever
// references the name.
func (c *Checker) CheckStatement(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.VarDecl:
		c.checkVarDecl(s)
	case *syntax.TypeAliasDecl:
		c.checkTypeAliasDecl(s)
	case *syntax.FuncDecl:
		c.degrade(s, "function declaration")
	case *syntax.InterfaceDecl:
		c.degrade(s, "interface declaration")
	case *syntax.ExprStmt:
		c.CheckExpression(s.X)
	case *syntax.BlockStmt:
		for _, stmt := range s.Stmts {
			c.CheckStatement(stmt)
		}
	case *syntax.IfStmt:
		c.CheckExpression(s.Cond)
		c.CheckStatement(s.Then)
		if s.Else != nil {
			c.CheckStatement(s.Else)
		}
	case *syntax.ReturnStmt:
		if s.X != nil {
			c.CheckExpression(s.X)
		}
	case *syntax.EmptyStmt:
	default:
		c.degrade(s, "unsupported statement")
	}
}

func (c *Checker) checkVarDecl(s *syntax.VarDecl) {
	var annotation types.TypeID
	if s.Annotation != nil {
		annotation = c.ResolveTypeNode(s.Annotation)
	}
	if s.Init != nil {
		init := c.CheckExpression(s.Init)
		if s.Annotation != nil && !c.isAssignableTo(init, annotation) {
			c.errorAt(s, fmt.Errorf("type '%s' is not assignable to type '%s'",
				c.table.Render(c.displaySource(init, annotation)), c.table.Render(annotation)))
		}
	}
	if s.Annotation == nil && s.Init == nil && c.settings.NoImplicitAny {
		c.errorAt(s, fmt.Errorf("variable '%s' implicitly has an 'any' type", s.Name))
	}
	if sym := c.bindings.Resolve(s.Name, c.bindings.ScopeOf(s)); sym != types.NoSymbol {
		c.valueType(sym, s)
	}
}

func (c *Checker) checkTypeAliasDecl(s *syntax.TypeAliasDecl) {
	sym := c.bindings.Resolve(s.Name, c.bindings.ScopeOf(s))
	if sym == types.NoSymbol || !c.bindings.SymbolFlags(sym).HasAny(binder.SymTypeAlias) {
		c.ResolveTypeNode(s.Type)
		return
	}
	c.declaredType(sym, s)
}

// displaySource picks the type an assignability complaint shows for its
// source. A literal source generalizes to its base primitive unless the
// target could hold literal members, so string = 5 complains about number
// while "a" = "b" keeps the literal.
func (c *Checker) displaySource(source, target types.TypeID) types.TypeID {
	if !c.table.Is(source, types.FlagLiteral) || c.hasUnitTargets(target) {
		return source
	}
	return c.builder.WidenLiteral(source)
}

func (c *Checker) hasUnitTargets(target types.TypeID) bool {
	if c.table.Is(target, types.FlagUnit) {
		return true
	}
	if c.table.Is(target, types.FlagUnion) {
		for _, m := range c.table.UnionMembers(target) {
			if c.table.Is(m, types.FlagUnit) {
				return true
			}
		}
	}
	return false
}

// isAssignableTo implements the assignability slice the checker needs for
// declaration checking. Identity and any short-circuit first, then the
// fresh and regular halves of a literal pair are treated as the same type,
// then a literal reaches its base primitive. Union sources distribute over
// the target before a union target is searched, which is what makes a
// narrower union assignable to a wider one.
func (c *Checker) isAssignableTo(source, target types.TypeID) bool {
	if source == target {
		return true
	}
	if c.table.Is(source, types.FlagAny) || c.table.Is(target, types.FlagAny) {
		return true
	}
	if c.table.Regular(source) == c.table.Regular(target) {
		return true
	}
	if c.table.Is(source, types.FlagLiteral) && c.table.LiteralBase(source) == target {
		return true
	}
	if c.table.Is(target, types.FlagUnknown) {
		return true
	}
	if c.table.Is(source, types.FlagUndefined) && c.table.Is(target, types.FlagVoid) {
		return true
	}
	if c.table.Is(source, types.FlagUnion) {
		for _, m := range c.table.UnionMembers(source) {
			if !c.isAssignableTo(m, target) {
				return false
			}
		}
		return true
	}
	if c.table.Is(target, types.FlagUnion) {
		for _, m := range c.table.UnionMembers(target) {
			if c.isAssignableTo(source, m) {
				return true
			}
		}
		return false
	}
	if c.table.Is(source, types.FlagObject) && c.table.Is(target, types.FlagNonPrimitive) {
		return true
	}
	if c.table.Is(source, types.FlagObject) && c.table.Is(target, types.FlagObject) {
		return c.objectAssignableTo(source, target)
	}
	return false
}

// objectAssignableTo is a structural property walk. A fresh object literal
// source additionally rejects properties the target does not know about.
func (c *Checker) objectAssignableTo(source, target types.TypeID) bool {
	if c.table.ObjectFlags(source).Has(types.ObjFlagFreshLiteral) {
		for _, prop := range c.table.Properties(source) {
			if _, ok := c.table.Member(target, prop.Name); !ok {
				return false
			}
		}
	}
	for _, prop := range c.table.Properties(target) {
		got, ok := c.table.Member(source, prop.Name)
		if !ok {
			if prop.Optional {
				continue
			}
			return false
		}
		if !c.isAssignableTo(got, prop.Type) {
			return false
		}
	}
	return true
}
