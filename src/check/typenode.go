package check

import (
	"fmt"

	"github.com/aodai/taipu/src/binder"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// keywordIntrinsics are the annotation keywords that map straight onto an
// interned intrinsic. object is absent because it depends on Settings.
var keywordIntrinsics = map[string]bool{
	"any":       true,
	"unknown":   true,
	"string":    true,
	"number":    true,
	"boolean":   true,
	"bigint":    true,
	"symbol":    true,
	"void":      true,
	"undefined": true,
	"null":      true,
	"never":     true,
}

// ResolveTypeNode maps a type annotation to a TypeID without evaluating any
// expression. Results are cached per node, so resolving the same annotation
// again returns the same id. Unsupported annotation kinds resolve to any and
// record one degradation; the caller always gets a usable id.
func (c *Checker) ResolveTypeNode(n syntax.TypeNode) types.TypeID {
	if id, ok := c.links[n]; ok {
		return id
	}
	id := c.resolveTypeNode(n)
	c.links[n] = id
	return id
}

func (c *Checker) resolveTypeNode(n syntax.TypeNode) types.TypeID {
	switch n := n.(type) {
	case *syntax.KeywordType:
		return c.keywordType(n)
	case *syntax.LiteralType:
		return c.literalTypeNode(n)
	case *syntax.UnionType:
		members := make([]types.TypeID, 0, len(n.Members))
		for _, m := range n.Members {
			members = append(members, c.ResolveTypeNode(m))
		}
		return c.builder.Union(members, types.ReduceLiteral)
	case *syntax.ParenType:
		return c.ResolveTypeNode(n.Inner)
	case *syntax.TypeRef:
		return c.typeRefType(n)
	case *syntax.TypeLit:
		return c.typeLitType(n)
	case *syntax.IntersectionType:
		return c.degrade(n, "intersection type")
	case *syntax.ArrayType:
		return c.degrade(n, "array type")
	case *syntax.TupleType:
		return c.degrade(n, "tuple type")
	case *syntax.FuncType:
		return c.degrade(n, "function type")
	case *syntax.KeyofType:
		return c.degrade(n, "keyof type")
	case *syntax.TypeofType:
		return c.degrade(n, "typeof type query")
	case *syntax.IndexedAccessType:
		return c.degrade(n, "indexed access type")
	case *syntax.MappedType:
		return c.degrade(n, "mapped type")
	}
	return c.degrade(n, "unsupported type annotation")
}

func (c *Checker) keywordType(n *syntax.KeywordType) types.TypeID {
	if n.Name == "object" {
		if c.settings.SourceIsJS && !c.settings.NoImplicitAny {
			return c.intr.Any
		}
		return c.intr.NonPrimitive
	}
	if keywordIntrinsics[n.Name] {
		return c.builder.Intrinsic(n.Name)
	}
	return c.degrade(n, fmt.Sprintf("keyword type '%s'", n.Name))
}

// literalTypeNode resolves a literal annotation to the regular half of its
// literal pair, annotations are not fresh contexts.
func (c *Checker) literalTypeNode(n *syntax.LiteralType) types.TypeID {
	switch lit := n.Lit.(type) {
	case *syntax.StringLit:
		_, regular := c.builder.StringLiteral(lit.Value)
		return regular
	case *syntax.TemplateLit:
		_, regular := c.builder.StringLiteral(lit.Text)
		return regular
	case *syntax.NumberLit:
		_, regular := c.builder.NumberLiteral(lit.Value)
		return regular
	case *syntax.BoolLit:
		_, regular := c.builder.BooleanLiteral(lit.Value)
		return regular
	case *syntax.NullLit:
		return c.intr.Null
	}
	return c.degrade(n, "unsupported literal type")
}

func (c *Checker) typeRefType(n *syntax.TypeRef) types.TypeID {
	if len(n.Args) > 0 {
		return c.degrade(n, fmt.Sprintf("generic type reference '%s'", n.Name))
	}
	sym := c.bindings.Resolve(n.Name, c.bindings.ScopeOf(n))
	if sym == types.NoSymbol {
		c.errorAt(n, fmt.Errorf("cannot find name '%s'", n.Name))
		return c.intr.Err
	}
	flags := c.bindings.SymbolFlags(sym)
	switch {
	case flags.HasAny(binder.SymTypeAlias):
		return c.declaredType(sym, n)
	case flags.HasAny(binder.SymInterface):
		return c.degrade(n, fmt.Sprintf("interface type '%s'", n.Name))
	}
	c.errorAt(n, fmt.Errorf("'%s' refers to a value, but is being used as a type here", n.Name))
	return c.intr.Err
}

func (c *Checker) typeLitType(n *syntax.TypeLit) types.TypeID {
	if n.IndexSig {
		return c.degrade(n, "index signature")
	}
	props := make([]types.Property, 0, len(n.Members))
	for i := range n.Members {
		m := &n.Members[i]
		memberType := c.intr.Any
		if m.Type != nil {
			memberType = c.ResolveTypeNode(m.Type)
		}
		props = append(props, types.Property{Name: m.Name, Type: memberType, Optional: m.Optional})
	}
	return c.builder.Object(props, types.ObjFlagAnonymous)
}
