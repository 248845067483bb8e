package types

type (
	// TypeFlags is a bitset classifying every type in a Table. A record carries
	// exactly one kind bit plus whatever combined masks that bit belongs to, so
	// predicates are single mask tests with no payload loads. Bit positions
	// follow TypeScript's TypeFlags so flag dumps compare one to one.
	TypeFlags uint32
	// ObjectFlags is a secondary bitset refining object and union records.
	ObjectFlags uint32
)

const (
	// FlagAny is the any type.
	FlagAny TypeFlags = 1 << 0
	// FlagUnknown is the unknown type.
	FlagUnknown TypeFlags = 1 << 1
	// FlagString is the string primitive.
	FlagString TypeFlags = 1 << 2
	// FlagNumber is the number primitive.
	FlagNumber TypeFlags = 1 << 3
	// FlagBoolean is the boolean primitive.
	FlagBoolean TypeFlags = 1 << 4
	// FlagEnum is reserved for enum types.
	FlagEnum TypeFlags = 1 << 5
	// FlagBigInt is the bigint primitive.
	FlagBigInt TypeFlags = 1 << 6
	// FlagStringLiteral is a string literal type such as "red".
	FlagStringLiteral TypeFlags = 1 << 7
	// FlagNumberLiteral is a number literal type such as 1.
	FlagNumberLiteral TypeFlags = 1 << 8
	// FlagBooleanLiteral is the true or false literal type.
	FlagBooleanLiteral TypeFlags = 1 << 9
	// FlagEnumLiteral is reserved for enum member types.
	FlagEnumLiteral TypeFlags = 1 << 10
	// FlagBigIntLiteral is a bigint literal type.
	FlagBigIntLiteral TypeFlags = 1 << 11
	// FlagESSymbol is the symbol primitive.
	FlagESSymbol TypeFlags = 1 << 12
	// FlagUniqueESSymbol is reserved for unique symbol types.
	FlagUniqueESSymbol TypeFlags = 1 << 13
	// FlagVoid is the void type.
	FlagVoid TypeFlags = 1 << 14
	// FlagUndefined is the undefined type.
	FlagUndefined TypeFlags = 1 << 15
	// FlagNull is the null type.
	FlagNull TypeFlags = 1 << 16
	// FlagNever is the never type.
	FlagNever TypeFlags = 1 << 17
	// FlagTypeParameter is reserved for type parameters.
	FlagTypeParameter TypeFlags = 1 << 18
	// FlagObject is any object like type, including type literals.
	FlagObject TypeFlags = 1 << 19
	// FlagUnion is a union type.
	FlagUnion TypeFlags = 1 << 20
	// FlagIntersection is reserved for intersection types.
	FlagIntersection TypeFlags = 1 << 21
	// FlagNonPrimitive is the object keyword type.
	FlagNonPrimitive TypeFlags = 1 << 26
)

const (
	// FlagLiteral matches every literal type.
	FlagLiteral = FlagStringLiteral | FlagNumberLiteral | FlagBigIntLiteral | FlagBooleanLiteral
	// FlagFreshable matches types that carry a fresh and regular pair.
	FlagFreshable = FlagLiteral
	// FlagUnit matches types with exactly one value.
	FlagUnit = FlagLiteral | FlagUniqueESSymbol | FlagNullable
	// FlagNullable matches undefined and null.
	FlagNullable = FlagUndefined | FlagNull
	// FlagStringLike matches string and string literals.
	FlagStringLike = FlagString | FlagStringLiteral
	// FlagNumberLike matches number and number literals.
	FlagNumberLike = FlagNumber | FlagNumberLiteral | FlagEnum
	// FlagBigIntLike matches bigint and bigint literals.
	FlagBigIntLike = FlagBigInt | FlagBigIntLiteral
	// FlagBooleanLike matches boolean and boolean literals.
	FlagBooleanLike = FlagBoolean | FlagBooleanLiteral
	// FlagAnyOrUnknown matches the two top types.
	FlagAnyOrUnknown = FlagAny | FlagUnknown
	// FlagPrimitive matches every primitive and literal type.
	FlagPrimitive = FlagString | FlagNumber | FlagBigInt | FlagBoolean | FlagEnum |
		FlagEnumLiteral | FlagESSymbol | FlagVoid | FlagUndefined | FlagNull |
		FlagLiteral | FlagUniqueESSymbol
	// FlagStructured matches types with member payloads.
	FlagStructured = FlagObject | FlagUnion | FlagIntersection
)

const (
	// ObjFlagClass is reserved for class instance types.
	ObjFlagClass ObjectFlags = 1 << 0
	// ObjFlagInterface marks a type declared as an interface.
	ObjFlagInterface ObjectFlags = 1 << 1
	// ObjFlagReference is reserved for generic type references.
	ObjFlagReference ObjectFlags = 1 << 2
	// ObjFlagTuple is reserved for tuple types.
	ObjFlagTuple ObjectFlags = 1 << 3
	// ObjFlagAnonymous marks a type with no declared name, such as a type literal.
	ObjFlagAnonymous ObjectFlags = 1 << 4
	// ObjFlagMapped is reserved for mapped types.
	ObjFlagMapped ObjectFlags = 1 << 5
	// ObjFlagObjectLiteral marks a type inferred from an object literal expression.
	ObjFlagObjectLiteral ObjectFlags = 1 << 7
	// ObjFlagFreshLiteral marks a fresh object literal type.
	ObjFlagFreshLiteral ObjectFlags = 1 << 13
	// ObjFlagArrayLiteral marks a type inferred from an array literal expression.
	ObjFlagArrayLiteral ObjectFlags = 1 << 14
	// ObjFlagPrimitiveUnion marks a union whose members are all primitives or literals.
	ObjFlagPrimitiveUnion ObjectFlags = 1 << 15
)

// Has reports whether every bit of mask is set.
func (f TypeFlags) Has(mask TypeFlags) bool { return f&mask == mask }

// HasAny reports whether at least one bit of mask is set.
func (f TypeFlags) HasAny(mask TypeFlags) bool { return f&mask != 0 }

// Has reports whether every bit of mask is set.
func (f ObjectFlags) Has(mask ObjectFlags) bool { return f&mask == mask }

// HasAny reports whether at least one bit of mask is set.
func (f ObjectFlags) HasAny(mask ObjectFlags) bool { return f&mask != 0 }
