package types

import (
	"fmt"

	"github.com/aodai/taipu/src/conf"
)

type (
	payloadKind uint8

	// payloadRef points a TypeID at its kind specific payload column.
	payloadRef struct {
		kind  payloadKind
		index int32
	}

	aliasRef struct {
		symbol SymbolID
		name   string
	}

	intrinsicData struct {
		name string
	}

	// LiteralValue is the value a literal type stands for. The field to read is
	// picked by the record's flags, the others are zero.
	LiteralValue struct {
		String string
		Number float64
		Bool   bool
	}

	literalData struct {
		value   LiteralValue
		base    TypeID
		fresh   TypeID
		regular TypeID
	}

	unionData struct {
		members []TypeID
	}

	// Property is a single named member of an object type.
	Property struct {
		Name     string
		Type     TypeID
		Optional bool
	}

	objectData struct {
		props []Property
	}

	// Table is the store of every type created during one checking session. The
	// classification columns are indexed directly by TypeID and the payload
	// columns are reached through one indirection, so predicates never load
	// payloads and payload reads never scan. Records are immutable once created,
	// which makes all Table methods safe for concurrent readers after the
	// Builder's owner has finished creating types.
	Table struct {
		flags    []TypeFlags
		objFlags []ObjectFlags
		payload  []payloadRef
		alias    map[TypeID]aliasRef

		intrinsics []intrinsicData
		literals   []literalData
		unions     []unionData
		objects    []objectData
	}

	// KindMismatchError is the panic value raised when a payload accessor is
	// called on a TypeID of a different kind. It always signals a defect in the
	// calling code rather than bad source input, which is why it is a panic and
	// not a returned error.
	KindMismatchError struct {
		ID   TypeID
		Want string
		Got  string
	}
)

const (
	payloadIntrinsic payloadKind = iota
	payloadLiteral
	payloadUnion
	payloadObject
)

var payloadNames = map[payloadKind]string{
	payloadIntrinsic: "intrinsic",
	payloadLiteral:   "literal",
	payloadUnion:     "union",
	payloadObject:    "object",
}

func (err *KindMismatchError) Error() string {
	return fmt.Sprintf("type %v is a %v type, not a %v type", err.ID, err.Got, err.Want)
}

func newTable() *Table {
	return &Table{
		flags:    make([]TypeFlags, 0, conf.INITIALTABLECAP),
		objFlags: make([]ObjectFlags, 0, conf.INITIALTABLECAP),
		payload:  make([]payloadRef, 0, conf.INITIALTABLECAP),
		alias:    map[TypeID]aliasRef{},
	}
}

// Len returns how many types the table holds.
func (t *Table) Len() int { return len(t.flags) }

// Flags returns the classification bits of a type.
func (t *Table) Flags(id TypeID) TypeFlags {
	t.check(id)
	return t.flags[id]
}

// ObjectFlags returns the secondary classification bits of a type.
func (t *Table) ObjectFlags(id TypeID) ObjectFlags {
	t.check(id)
	return t.objFlags[id]
}

// Is reports whether the type has at least one bit of mask set.
func (t *Table) Is(id TypeID, mask TypeFlags) bool {
	t.check(id)
	return t.flags[id].HasAny(mask)
}

// IsUnion reports whether id is a union type.
func (t *Table) IsUnion(id TypeID) bool { return t.Is(id, FlagUnion) }

// IsLiteral reports whether id is a literal type.
func (t *Table) IsLiteral(id TypeID) bool { return t.Is(id, FlagLiteral) }

// IsFreshable reports whether id carries a fresh and regular pair.
func (t *Table) IsFreshable(id TypeID) bool { return t.Is(id, FlagFreshable) }

// IsObjectLike reports whether id is an object type or the object keyword.
func (t *Table) IsObjectLike(id TypeID) bool { return t.Is(id, FlagObject|FlagNonPrimitive) }

// IsIntrinsic reports whether id is the intrinsic type interned under name.
func (t *Table) IsIntrinsic(id TypeID, name string) bool {
	t.check(id)
	if t.payload[id].kind != payloadIntrinsic {
		return false
	}
	return t.intrinsics[t.payload[id].index].name == name
}

// Alias returns the alias symbol and name a type was declared under, or
// NoSymbol and an empty string when the type is unaliased.
func (t *Table) Alias(id TypeID) (SymbolID, string) {
	t.check(id)
	ref, ok := t.alias[id]
	if !ok {
		return NoSymbol, ""
	}
	return ref.symbol, ref.name
}

// IntrinsicName returns the keyword an intrinsic type was interned under.
func (t *Table) IntrinsicName(id TypeID) string {
	return t.intrinsics[t.ref(id, payloadIntrinsic)].name
}

// Literal returns the value of a literal type.
func (t *Table) Literal(id TypeID) LiteralValue {
	return t.literals[t.ref(id, payloadLiteral)].value
}

// LiteralBase returns the primitive a literal type widens to.
func (t *Table) LiteralBase(id TypeID) TypeID {
	return t.literals[t.ref(id, payloadLiteral)].base
}

// Fresh returns the fresh counterpart of a literal type and any other type
// unchanged.
func (t *Table) Fresh(id TypeID) TypeID {
	if !t.Is(id, FlagFreshable) {
		return id
	}
	return t.literals[t.ref(id, payloadLiteral)].fresh
}

// Regular returns the regular counterpart of a literal type and any other type
// unchanged.
func (t *Table) Regular(id TypeID) TypeID {
	if !t.Is(id, FlagFreshable) {
		return id
	}
	return t.literals[t.ref(id, payloadLiteral)].regular
}

// IsFresh reports whether id is the fresh half of a literal pair.
func (t *Table) IsFresh(id TypeID) bool {
	return t.Is(id, FlagFreshable) && t.literals[t.ref(id, payloadLiteral)].fresh == id
}

// UnionMembers returns the normalized members of a union in canonical order.
// The slice is owned by the table and must not be mutated.
func (t *Table) UnionMembers(id TypeID) []TypeID {
	return t.unions[t.ref(id, payloadUnion)].members
}

// Properties returns the members of an object type in declaration order. The
// slice is owned by the table and must not be mutated.
func (t *Table) Properties(id TypeID) []Property {
	return t.objects[t.ref(id, payloadObject)].props
}

// Member returns the type of the named member of an object type.
func (t *Table) Member(id TypeID, name string) (TypeID, bool) {
	for _, prop := range t.Properties(id) {
		if prop.Name == name {
			return prop.Type, true
		}
	}
	return NoType, false
}

// CountWhere returns how many types have at least one bit of mask set. It is a
// single pass over the flags column.
func (t *Table) CountWhere(mask TypeFlags) int {
	count := 0
	for _, flags := range t.flags {
		if flags.HasAny(mask) {
			count++
		}
	}
	return count
}

// EachWhere calls fn for every type with at least one bit of mask set, in id
// order.
func (t *Table) EachWhere(mask TypeFlags, fn func(TypeID)) {
	for id, flags := range t.flags {
		if flags.HasAny(mask) {
			fn(TypeID(id))
		}
	}
}

func (t *Table) check(id TypeID) {
	if id < 0 || int(id) >= len(t.flags) {
		panic(fmt.Sprintf("types: invalid TypeID %v with table size %v", id, len(t.flags)))
	}
}

func (t *Table) ref(id TypeID, want payloadKind) int32 {
	t.check(id)
	ref := t.payload[id]
	if ref.kind != want {
		panic(&KindMismatchError{ID: id, Want: payloadNames[want], Got: payloadNames[ref.kind]})
	}
	return ref.index
}

func (t *Table) add(flags TypeFlags, objFlags ObjectFlags, ref payloadRef) TypeID {
	id := TypeID(len(t.flags))
	t.flags = append(t.flags, flags)
	t.objFlags = append(t.objFlags, objFlags)
	t.payload = append(t.payload, ref)
	return id
}
