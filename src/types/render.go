package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Render returns the display text of a type in TypeScript's hover
// format. Intrinsics render as their keyword, string literals in double
// quotes, numbers in ES number notation, unions joined with " | " in canonical
// member order, and object types as "{ a: string; }". A type created under an
// alias declaration renders as the alias name.
func (t *Table) Render(id TypeID) string {
	if _, name := t.Alias(id); name != "" {
		return name
	}
	flags := t.Flags(id)
	switch {
	case flags.HasAny(FlagStringLiteral):
		return strconv.Quote(t.Literal(id).String)
	case flags.HasAny(FlagNumberLiteral):
		return esNumber(t.Literal(id).Number)
	case flags.HasAny(FlagBooleanLiteral):
		return strconv.FormatBool(t.Literal(id).Bool)
	case flags.HasAny(FlagUnion):
		parts := lo.Map(t.UnionMembers(id), func(m TypeID, _ int) string { return t.Render(m) })
		return strings.Join(parts, " | ")
	case flags.HasAny(FlagObject):
		return t.renderObject(id)
	}
	return t.IntrinsicName(id)
}

// RenderExpanded is Render with an alias name on id itself ignored, so an
// aliased union displays its member list. Aliases on nested types still render
// by name.
func (t *Table) RenderExpanded(id TypeID) string {
	flags := t.Flags(id)
	switch {
	case flags.HasAny(FlagUnion):
		parts := lo.Map(t.UnionMembers(id), func(m TypeID, _ int) string { return t.Render(m) })
		return strings.Join(parts, " | ")
	case flags.HasAny(FlagObject):
		return t.renderObject(id)
	}
	return t.Render(id)
}

func (t *Table) renderObject(id TypeID) string {
	props := t.Properties(id)
	if len(props) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{ ")
	for _, prop := range props {
		sb.WriteString(prop.Name)
		if prop.Optional {
			sb.WriteByte('?')
		}
		sb.WriteString(": ")
		sb.WriteString(t.Render(prop.Type))
		sb.WriteString("; ")
	}
	sb.WriteByte('}')
	return sb.String()
}

// esNumber formats a float the way ES number to string conversion does, which
// is what literal types display as. Integral values print with no fraction,
// very large and very small magnitudes switch to exponent notation, and
// negative zero prints as plain zero.
func esNumber(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	abs := math.Abs(v)
	if abs >= 1e21 || abs < 1e-6 {
		text := strconv.FormatFloat(v, 'e', -1, 64)
		// ES prints e-7, never e-07.
		return strings.Replace(text, "e-0", "e-", 1)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// DebugString returns a single line description of a record for debug
// listings, with the payload kind spelled out.
func (t *Table) DebugString(id TypeID) string {
	t.check(id)
	return fmt.Sprintf("%v %v %v", id, payloadNames[t.payload[id].kind], t.Render(id))
}
