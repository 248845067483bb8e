package check

import (
	"errors"
	"fmt"

	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// CheckExpression computes the type of an expression. The result is cached
// per node, so the same node always yields the same TypeID and a literal's
// freshness is decided exactly once. Unsupported expression kinds resolve to
// any and record a degradation instead of failing.
func (c *Checker) CheckExpression(e syntax.Expr) types.TypeID {
	if id, ok := c.links[e]; ok {
		return id
	}
	id := c.checkExpression(e)
	c.links[e] = id
	return id
}

func (c *Checker) checkExpression(e syntax.Expr) types.TypeID {
	switch e := e.(type) {
	case *syntax.StringLit:
		fresh, _ := c.builder.StringLiteral(e.Value)
		return fresh
	case *syntax.NumberLit:
		fresh, _ := c.builder.NumberLiteral(e.Value)
		return fresh
	case *syntax.BoolLit:
		fresh, _ := c.builder.BooleanLiteral(e.Value)
		return fresh
	case *syntax.NullLit:
		return c.intr.Null
	case *syntax.UndefinedLit:
		return c.intr.Undefined
	case *syntax.TemplateLit:
		if e.Subst {
			return c.intr.String
		}
		fresh, _ := c.builder.StringLiteral(e.Text)
		return fresh
	case *syntax.Ident:
		return c.identType(e)
	case *syntax.ParenExpr:
		return c.CheckExpression(e.Inner)
	case *syntax.UnaryExpr:
		return c.unaryType(e)
	case *syntax.BinaryExpr:
		return c.binaryType(e)
	case *syntax.CondExpr:
		c.CheckExpression(e.Cond)
		thenType := c.CheckExpression(e.Then)
		elseType := c.CheckExpression(e.Else)
		return c.builder.Union([]types.TypeID{thenType, elseType}, types.ReduceLiteral)
	case *syntax.ObjectLit:
		return c.objectLitType(e)
	case *syntax.PropAccess:
		return c.propAccessType(e)
	case *syntax.ArrayLit:
		for _, item := range e.Items {
			c.CheckExpression(item)
		}
		return c.degrade(e, "array literal")
	case *syntax.ElemAccess:
		c.CheckExpression(e.Object)
		c.CheckExpression(e.Index)
		return c.degrade(e, "element access")
	case *syntax.CallExpr:
		c.CheckExpression(e.Callee)
		for _, arg := range e.Args {
			c.CheckExpression(arg)
		}
		return c.degrade(e, "call expression")
	}
	return c.degrade(e, "unsupported expression")
}

func (c *Checker) identType(e *syntax.Ident) types.TypeID {
	sym := c.bindings.Resolve(e.Name, c.bindings.ScopeOf(e))
	if sym == types.NoSymbol {
		c.errorAt(e, fmt.Errorf("cannot find name '%s'", e.Name))
		return c.intr.Err
	}
	return c.valueType(sym, e)
}

func (c *Checker) unaryType(e *syntax.UnaryExpr) types.TypeID {
	switch e.Op {
	case syntax.OpNeg:
		if num, ok := e.Operand.(*syntax.NumberLit); ok {
			fresh, _ := c.builder.NumberLiteral(-num.Value)
			return fresh
		}
		return c.arithmeticUnary(e)
	case syntax.OpPlus, syntax.OpBitNot:
		return c.arithmeticUnary(e)
	case syntax.OpNot:
		c.CheckExpression(e.Operand)
		return c.intr.Boolean
	case syntax.OpTypeof:
		c.CheckExpression(e.Operand)
		return c.builder.TypeofOperandUnion()
	case syntax.OpVoid:
		c.CheckExpression(e.Operand)
		return c.intr.Undefined
	}
	return c.degrade(e, "unsupported unary operator")
}

func (c *Checker) arithmeticUnary(e *syntax.UnaryExpr) types.TypeID {
	operand := c.CheckExpression(e.Operand)
	if !c.operandOfKind(operand, types.FlagNumberLike|types.FlagBigIntLike|types.FlagAny) {
		c.errorAt(e.Operand, errors.New("an arithmetic operand must be of type 'any', 'number', or 'bigint'"))
	}
	if c.operandOfKind(operand, types.FlagBigIntLike) {
		return c.intr.BigInt
	}
	return c.intr.Number
}

// operandOfKind reports whether id satisfies mask, distributing over unions.
func (c *Checker) operandOfKind(id types.TypeID, mask types.TypeFlags) bool {
	if c.table.Is(id, mask) {
		return true
	}
	if c.table.Is(id, types.FlagUnion) {
		for _, m := range c.table.UnionMembers(id) {
			if !c.operandOfKind(m, mask) {
				return false
			}
		}
		return true
	}
	return false
}

func (c *Checker) binaryType(e *syntax.BinaryExpr) types.TypeID {
	switch e.Op {
	case syntax.OpAdd:
		return c.addType(e)
	case syntax.OpSub, syntax.OpMul, syntax.OpDiv, syntax.OpMod, syntax.OpPow:
		return c.arithmeticType(e)
	case syntax.OpLt, syntax.OpGt, syntax.OpLe, syntax.OpGe:
		return c.relationalType(e)
	case syntax.OpEq, syntax.OpNe, syntax.OpStrictEq, syntax.OpStrictNe:
		c.CheckExpression(e.Left)
		c.CheckExpression(e.Right)
		return c.intr.Boolean
	case syntax.OpAnd, syntax.OpOr, syntax.OpNullish:
		left := c.CheckExpression(e.Left)
		right := c.CheckExpression(e.Right)
		return c.builder.Union([]types.TypeID{left, right}, types.ReduceLiteral)
	}
	return c.degrade(e, "unsupported binary operator")
}

// addType follows the reference rules for +. Number meets number before
// string concatenation wins, and a remaining any side keeps the result any.
// Operands are taken at their base primitive, which is also what the error
// renders, so 1 + true complains about number and boolean.
func (c *Checker) addType(e *syntax.BinaryExpr) types.TypeID {
	left := c.builder.WidenLiteral(c.CheckExpression(e.Left))
	right := c.builder.WidenLiteral(c.CheckExpression(e.Right))
	switch {
	case c.operandOfKind(left, types.FlagNumberLike) && c.operandOfKind(right, types.FlagNumberLike):
		return c.intr.Number
	case c.operandOfKind(left, types.FlagBigIntLike) && c.operandOfKind(right, types.FlagBigIntLike):
		return c.intr.BigInt
	case c.operandOfKind(left, types.FlagStringLike) || c.operandOfKind(right, types.FlagStringLike):
		return c.intr.String
	case c.table.Is(left, types.FlagAny) || c.table.Is(right, types.FlagAny):
		return c.intr.Any
	}
	c.errorAt(e, fmt.Errorf("operator '+' cannot be applied to types '%s' and '%s'",
		c.table.Render(left), c.table.Render(right)))
	return c.intr.Err
}

func (c *Checker) arithmeticType(e *syntax.BinaryExpr) types.TypeID {
	left := c.CheckExpression(e.Left)
	right := c.CheckExpression(e.Right)
	allowed := types.FlagNumberLike | types.FlagBigIntLike | types.FlagAny
	if !c.operandOfKind(left, allowed) {
		c.errorAt(e.Left, errors.New("the left-hand side of an arithmetic operation must be of type 'any', 'number', or 'bigint'"))
	}
	if !c.operandOfKind(right, allowed) {
		c.errorAt(e.Right, errors.New("the right-hand side of an arithmetic operation must be of type 'any', 'number', or 'bigint'"))
	}
	if c.operandOfKind(left, types.FlagBigIntLike) && c.operandOfKind(right, types.FlagBigIntLike) {
		return c.intr.BigInt
	}
	return c.intr.Number
}

func (c *Checker) relationalType(e *syntax.BinaryExpr) types.TypeID {
	left := c.builder.WidenLiteral(c.CheckExpression(e.Left))
	right := c.builder.WidenLiteral(c.CheckExpression(e.Right))
	ok := c.table.Is(left, types.FlagAny) || c.table.Is(right, types.FlagAny) ||
		(c.operandOfKind(left, types.FlagNumberLike) && c.operandOfKind(right, types.FlagNumberLike)) ||
		(c.operandOfKind(left, types.FlagStringLike) && c.operandOfKind(right, types.FlagStringLike)) ||
		(c.operandOfKind(left, types.FlagBigIntLike) && c.operandOfKind(right, types.FlagBigIntLike))
	if !ok {
		c.errorAt(e, fmt.Errorf("operator '%s' cannot be applied to types '%s' and '%s'",
			e.Op, c.table.Render(left), c.table.Render(right)))
	}
	return c.intr.Boolean
}

// objectLitType infers a fresh anonymous object type. Member types are stored
// in regular form, the object itself carries the fresh literal flag until a
// widening context removes it.
func (c *Checker) objectLitType(e *syntax.ObjectLit) types.TypeID {
	props := make([]types.Property, 0, len(e.Props))
	for i := range e.Props {
		p := &e.Props[i]
		id := c.CheckExpression(p.Value)
		props = append(props, types.Property{Name: p.Key, Type: c.builder.RegularType(id)})
	}
	flags := types.ObjFlagAnonymous | types.ObjFlagObjectLiteral | types.ObjFlagFreshLiteral
	return c.builder.Object(props, flags)
}

func (c *Checker) propAccessType(e *syntax.PropAccess) types.TypeID {
	obj := c.CheckExpression(e.Object)
	switch {
	case c.table.Is(obj, types.FlagAny):
		return c.intr.Any
	case c.table.Is(obj, types.FlagObject):
		if id, ok := c.table.Member(obj, e.Name); ok {
			return id
		}
		c.errorAt(e, fmt.Errorf("property '%s' does not exist on type '%s'", e.Name, c.table.Render(obj)))
		return c.intr.Err
	}
	// apparent members of primitives and unions are not modeled
	return c.degrade(e, fmt.Sprintf("property access on '%s'", c.table.Render(obj)))
}
