package types

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/aodai/taipu/src/conf"
)

type (
	// UnionReduction selects how much normalization Union applies on top of the
	// always on steps of flattening, never removal, any and unknown collapse,
	// dedup, canonical ordering, and singleton unwrap.
	UnionReduction int

	// Intrinsics hands the builder's owner a direct TypeID for every type that
	// is interned up front, so the hot paths never go through the name map.
	Intrinsics struct {
		// Any is the top type that absorbs every union it appears in.
		Any TypeID
		// Unknown is the safe top type.
		Unknown TypeID
		// String is the string primitive.
		String TypeID
		// Number is the number primitive.
		Number TypeID
		// Boolean is the boolean primitive.
		Boolean TypeID
		// BigInt is the bigint primitive.
		BigInt TypeID
		// Symbol is the symbol primitive.
		Symbol TypeID
		// Void is the void type.
		Void TypeID
		// Undefined is the undefined type.
		Undefined TypeID
		// Null is the null type.
		Null TypeID
		// Never is the empty type dropped from every union.
		Never TypeID
		// NonPrimitive is the object keyword type.
		NonPrimitive TypeID
		// True is the regular true literal type.
		True TypeID
		// False is the regular false literal type.
		False TypeID
		// Err is the type handed back where checking failed. It is the any
		// type under a second name, the way tsc's errorType behaves for the
		// checked subset.
		Err TypeID
	}

	// Builder is the only value that creates types. It owns the interning maps
	// and appends records into its Table, which stays private to one goroutine
	// until building is done. Callers hold on to the Table for reads and the
	// Builder for writes, never sharing the Builder.
	Builder struct {
		table       *Table
		byName      map[string]TypeID
		strLits     map[string]TypeID
		numLits     map[float64]TypeID
		unions      map[string]TypeID
		typeofUnion TypeID
		intr        Intrinsics
	}
)

const (
	// ReduceNone applies only the always on normalization steps.
	ReduceNone UnionReduction = iota
	// ReduceLiteral also drops literal members whose base primitive is present,
	// so "a" disappears when string is in the set. This is the reduction used
	// for annotations and inferred expression unions.
	ReduceLiteral
)

var intrinsicFlags = map[string]TypeFlags{
	"any":       FlagAny,
	"unknown":   FlagUnknown,
	"string":    FlagString,
	"number":    FlagNumber,
	"boolean":   FlagBoolean,
	"bigint":    FlagBigInt,
	"symbol":    FlagESSymbol,
	"void":      FlagVoid,
	"undefined": FlagUndefined,
	"null":      FlagNull,
	"never":     FlagNever,
	"object":    FlagNonPrimitive,
}

// results the typeof operator can produce, in display order.
var typeofResults = []string{"string", "number", "bigint", "boolean", "symbol", "undefined", "object", "function"}

// NewBuilder returns a builder with a fresh table that already holds every
// intrinsic type and the two boolean literal pairs.
func NewBuilder() *Builder {
	b := &Builder{
		table:       newTable(),
		byName:      map[string]TypeID{},
		strLits:     map[string]TypeID{},
		numLits:     map[float64]TypeID{},
		unions:      map[string]TypeID{},
		typeofUnion: NoType,
	}
	b.intr = Intrinsics{
		Any:          b.Intrinsic("any"),
		Unknown:      b.Intrinsic("unknown"),
		String:       b.Intrinsic("string"),
		Number:       b.Intrinsic("number"),
		Boolean:      b.Intrinsic("boolean"),
		BigInt:       b.Intrinsic("bigint"),
		Symbol:       b.Intrinsic("symbol"),
		Void:         b.Intrinsic("void"),
		Undefined:    b.Intrinsic("undefined"),
		Null:         b.Intrinsic("null"),
		Never:        b.Intrinsic("never"),
		NonPrimitive: b.Intrinsic("object"),
	}
	_, b.intr.True = b.literalPair(FlagBooleanLiteral, LiteralValue{Bool: true}, b.intr.Boolean)
	_, b.intr.False = b.literalPair(FlagBooleanLiteral, LiteralValue{Bool: false}, b.intr.Boolean)
	b.intr.Err = b.intr.Any
	return b
}

// Table returns the table this builder writes into.
func (b *Builder) Table() *Table { return b.table }

// Intrinsics returns the handles of the types interned at construction.
func (b *Builder) Intrinsics() Intrinsics { return b.intr }

// Intrinsic interns an intrinsic type by keyword. Interning the same keyword
// again returns the id of the first call. Keywords outside the fixed set are a
// caller defect and panic.
func (b *Builder) Intrinsic(name string) TypeID {
	if id, ok := b.byName[name]; ok {
		return id
	}
	flags, ok := intrinsicFlags[name]
	if !ok {
		panic(fmt.Sprintf("types: unknown intrinsic %q", name))
	}
	id := b.table.add(flags, 0, payloadRef{kind: payloadIntrinsic, index: int32(len(b.table.intrinsics))})
	b.table.intrinsics = append(b.table.intrinsics, intrinsicData{name: name})
	b.byName[name] = id
	return id
}

// StringLiteral interns the literal type of a string value and returns its
// fresh and regular ids.
func (b *Builder) StringLiteral(v string) (TypeID, TypeID) {
	if regular, ok := b.strLits[v]; ok {
		return b.table.Fresh(regular), regular
	}
	fresh, regular := b.literalPair(FlagStringLiteral, LiteralValue{String: v}, b.intr.String)
	b.strLits[v] = regular
	return fresh, regular
}

// NumberLiteral interns the literal type of a number value and returns its
// fresh and regular ids.
func (b *Builder) NumberLiteral(v float64) (TypeID, TypeID) {
	if regular, ok := b.numLits[v]; ok {
		return b.table.Fresh(regular), regular
	}
	fresh, regular := b.literalPair(FlagNumberLiteral, LiteralValue{Number: v}, b.intr.Number)
	b.numLits[v] = regular
	return fresh, regular
}

// BooleanLiteral returns the fresh and regular ids of the true or false
// literal type.
func (b *Builder) BooleanLiteral(v bool) (TypeID, TypeID) {
	regular := b.intr.False
	if v {
		regular = b.intr.True
	}
	return b.table.Fresh(regular), regular
}

// literalPair appends the linked fresh and regular records of one literal
// value. Both halves share the value and base and point at each other, and
// neither link ever changes.
func (b *Builder) literalPair(flags TypeFlags, value LiteralValue, base TypeID) (TypeID, TypeID) {
	index := int32(len(b.table.literals))
	fresh := b.table.add(flags, 0, payloadRef{kind: payloadLiteral, index: index})
	regular := b.table.add(flags, 0, payloadRef{kind: payloadLiteral, index: index + 1})
	data := literalData{value: value, base: base, fresh: fresh, regular: regular}
	b.table.literals = append(b.table.literals, data, data)
	return fresh, regular
}

// Union creates the union of members. Nested unions are flattened, never
// disappears, any absorbs the whole set, unknown absorbs everything but any,
// duplicates collapse, and members are held in canonical ascending id order so
// the same set always interns to the same TypeID. An empty set is never and a
// single survivor is returned directly without a union record.
func (b *Builder) Union(members []TypeID, reduction UnionReduction) TypeID {
	return b.union(members, reduction, NoSymbol, "")
}

// UnionWithAlias is Union and additionally records the declared alias when the
// normalized set creates a new union record.
func (b *Builder) UnionWithAlias(members []TypeID, reduction UnionReduction, symbol SymbolID, name string) TypeID {
	return b.union(members, reduction, symbol, name)
}

func (b *Builder) union(members []TypeID, reduction UnionReduction, symbol SymbolID, aliasName string) TypeID {
	flat := make([]TypeID, 0, len(members))
	for _, id := range members {
		flat = b.flatten(flat, id)
	}
	sawUnknown := false
	set := make([]TypeID, 0, len(flat))
	for _, id := range flat {
		switch {
		case b.table.Is(id, FlagAny):
			return b.intr.Any
		case b.table.Is(id, FlagUnknown):
			sawUnknown = true
		case b.table.Is(id, FlagNever):
		default:
			set = append(set, id)
		}
	}
	if sawUnknown {
		return b.intr.Unknown
	}
	slices.Sort(set)
	set = lo.Uniq(set)
	if reduction == ReduceLiteral {
		set = b.removeSubsumedLiterals(set)
	}
	switch {
	case len(set) == 0:
		return b.intr.Never
	case len(set) == 1:
		return set[0]
	case len(set) > conf.MAXUNIONMEMBERS:
		return b.intr.Any
	}
	key := unionKey(set)
	if id, ok := b.unions[key]; ok {
		return id
	}
	var objFlags ObjectFlags
	if b.allPrimitive(set) {
		objFlags |= ObjFlagPrimitiveUnion
	}
	id := b.table.add(FlagUnion, objFlags, payloadRef{kind: payloadUnion, index: int32(len(b.table.unions))})
	b.table.unions = append(b.table.unions, unionData{members: set})
	b.unions[key] = id
	if symbol != NoSymbol {
		b.table.alias[id] = aliasRef{symbol: symbol, name: aliasName}
	}
	return id
}

func (b *Builder) flatten(dst []TypeID, id TypeID) []TypeID {
	if b.table.Is(id, FlagUnion) {
		for _, member := range b.table.UnionMembers(id) {
			dst = b.flatten(dst, member)
		}
		return dst
	}
	return append(dst, id)
}

func (b *Builder) removeSubsumedLiterals(set []TypeID) []TypeID {
	var present TypeFlags
	for _, id := range set {
		present |= b.table.flags[id]
	}
	if !present.HasAny(FlagLiteral) {
		return set
	}
	return lo.Filter(set, func(id TypeID, _ int) bool {
		flags := b.table.flags[id]
		switch {
		case flags.HasAny(FlagStringLiteral):
			return !present.HasAny(FlagString)
		case flags.HasAny(FlagNumberLiteral):
			return !present.HasAny(FlagNumber)
		case flags.HasAny(FlagBooleanLiteral):
			return !present.HasAny(FlagBoolean)
		case flags.HasAny(FlagBigIntLiteral):
			return !present.HasAny(FlagBigInt)
		}
		return true
	})
}

func (b *Builder) allPrimitive(set []TypeID) bool {
	for _, id := range set {
		if !b.table.flags[id].HasAny(FlagPrimitive) {
			return false
		}
	}
	return true
}

func unionKey(set []TypeID) string {
	var sb strings.Builder
	for i, id := range set {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(strconv.Itoa(int(id)))
	}
	return sb.String()
}

// Object creates an anonymous object type with the given members in
// declaration order. Object types are never interned, two identical literals
// get two ids just as they do in TypeScript.
func (b *Builder) Object(props []Property, objFlags ObjectFlags) TypeID {
	id := b.table.add(FlagObject, objFlags, payloadRef{kind: payloadObject, index: int32(len(b.table.objects))})
	b.table.objects = append(b.table.objects, objectData{props: props})
	return id
}

// RegularType maps a literal type to its regular half and a union to the union
// of its members' regular halves. Every other type is returned unchanged.
func (b *Builder) RegularType(id TypeID) TypeID {
	switch {
	case b.table.Is(id, FlagFreshable):
		return b.table.Regular(id)
	case b.table.Is(id, FlagUnion):
		members := b.table.UnionMembers(id)
		mapped := lo.Map(members, func(m TypeID, _ int) TypeID { return b.table.Regular(m) })
		return b.Union(mapped, ReduceNone)
	}
	return id
}

// WidenLiteral maps a literal type to its base primitive and a union to the
// union of its widened members, so 1 | 2 widens to number. Every other type is
// returned unchanged.
func (b *Builder) WidenLiteral(id TypeID) TypeID {
	switch {
	case b.table.Is(id, FlagFreshable):
		return b.table.LiteralBase(id)
	case b.table.Is(id, FlagUnion):
		members := b.table.UnionMembers(id)
		mapped := lo.Map(members, func(m TypeID, _ int) TypeID { return b.WidenLiteral(m) })
		return b.Union(mapped, ReduceNone)
	}
	return id
}

// TypeofOperandUnion returns the union of string literals the typeof operator
// can evaluate to. The union is built once per session and cached.
func (b *Builder) TypeofOperandUnion() TypeID {
	if b.typeofUnion != NoType {
		return b.typeofUnion
	}
	members := make([]TypeID, 0, len(typeofResults))
	for _, name := range typeofResults {
		_, regular := b.StringLiteral(name)
		members = append(members, regular)
	}
	b.typeofUnion = b.Union(members, ReduceNone)
	return b.typeofUnion
}
