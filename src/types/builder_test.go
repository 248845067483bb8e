package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInternIntrinsic(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	first := b.Intrinsic("string")
	assert.Equal(t, first, b.Intrinsic("string"))
	assert.Equal(t, b.Intrinsics().String, first)
	assert.NotEqual(t, first, b.Intrinsic("number"))
	assert.True(t, b.Table().Is(first, FlagString))
	assert.Equal(t, "string", b.Table().IntrinsicName(first))
	assert.Panics(t, func() { b.Intrinsic("float") })
}

func TestLiteralPair(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	tbl := b.Table()
	fresh, regular := b.StringLiteral("red")
	require.NotEqual(t, fresh, regular)

	assert.Equal(t, regular, tbl.Regular(fresh))
	assert.Equal(t, regular, tbl.Regular(regular))
	assert.Equal(t, fresh, tbl.Fresh(regular))
	assert.Equal(t, fresh, tbl.Fresh(fresh))
	assert.True(t, tbl.IsFresh(fresh))
	assert.False(t, tbl.IsFresh(regular))
	assert.Equal(t, tbl.Render(fresh), tbl.Render(regular))
	assert.Equal(t, b.Intrinsics().String, tbl.LiteralBase(fresh))
	assert.Equal(t, "red", tbl.Literal(regular).String)

	again, regularAgain := b.StringLiteral("red")
	assert.Equal(t, fresh, again)
	assert.Equal(t, regular, regularAgain)

	numFresh, numRegular := b.NumberLiteral(1)
	assert.NotEqual(t, numFresh, numRegular)
	assert.Equal(t, b.Intrinsics().Number, tbl.LiteralBase(numFresh))

	trueFresh, trueRegular := b.BooleanLiteral(true)
	assert.Equal(t, b.Intrinsics().True, trueRegular)
	assert.Equal(t, trueFresh, tbl.Fresh(trueRegular))
	assert.Equal(t, b.Intrinsics().Boolean, tbl.LiteralBase(trueRegular))
}

func TestUnionNormalization(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	tbl := b.Table()
	_, red := b.StringLiteral("red")
	_, green := b.StringLiteral("green")

	t.Run("duplicates collapse", func(t *testing.T) {
		id := b.Union([]TypeID{red, red, green}, ReduceNone)
		require.True(t, tbl.Is(id, FlagUnion))
		assert.Len(t, tbl.UnionMembers(id), 2)
	})
	t.Run("never disappears", func(t *testing.T) {
		assert.Equal(t, intr.String, b.Union([]TypeID{intr.Never, intr.String}, ReduceNone))
	})
	t.Run("any absorbs", func(t *testing.T) {
		assert.Equal(t, intr.Any, b.Union([]TypeID{intr.String, intr.Any, red}, ReduceNone))
	})
	t.Run("unknown absorbs", func(t *testing.T) {
		assert.Equal(t, intr.Unknown, b.Union([]TypeID{intr.String, intr.Unknown}, ReduceNone))
	})
	t.Run("any beats unknown", func(t *testing.T) {
		assert.Equal(t, intr.Any, b.Union([]TypeID{intr.Unknown, intr.Any}, ReduceNone))
	})
	t.Run("empty set is never", func(t *testing.T) {
		assert.Equal(t, intr.Never, b.Union(nil, ReduceNone))
		assert.Equal(t, intr.Never, b.Union([]TypeID{intr.Never, intr.Never}, ReduceNone))
	})
	t.Run("single survivor unwraps", func(t *testing.T) {
		assert.Equal(t, red, b.Union([]TypeID{red}, ReduceNone))
	})
	t.Run("same set same id", func(t *testing.T) {
		first := b.Union([]TypeID{intr.String, intr.Number}, ReduceNone)
		second := b.Union([]TypeID{intr.Number, intr.String}, ReduceNone)
		assert.Equal(t, first, second)
	})
	t.Run("nested unions flatten", func(t *testing.T) {
		left := b.Union([]TypeID{red, green}, ReduceNone)
		nested := b.Union([]TypeID{left, intr.Number}, ReduceNone)
		direct := b.Union([]TypeID{red, green, intr.Number}, ReduceNone)
		assert.Equal(t, direct, nested)
		assert.Len(t, tbl.UnionMembers(nested), 3)
	})
	t.Run("fresh and regular are distinct members", func(t *testing.T) {
		fresh := tbl.Fresh(red)
		id := b.Union([]TypeID{fresh, red}, ReduceNone)
		assert.Len(t, tbl.UnionMembers(id), 2)
	})
	t.Run("primitive union flag", func(t *testing.T) {
		id := b.Union([]TypeID{intr.String, intr.Number}, ReduceNone)
		assert.True(t, tbl.ObjectFlags(id).Has(ObjFlagPrimitiveUnion))
		obj := b.Object(nil, ObjFlagAnonymous)
		mixed := b.Union([]TypeID{intr.String, obj}, ReduceNone)
		assert.False(t, tbl.ObjectFlags(mixed).Has(ObjFlagPrimitiveUnion))
	})
}

func TestUnionLiteralReduction(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	_, red := b.StringLiteral("red")
	_, one := b.NumberLiteral(1)

	assert.Equal(t, intr.String, b.Union([]TypeID{red, intr.String}, ReduceLiteral))
	assert.Equal(t, intr.Boolean, b.Union([]TypeID{intr.True, intr.Boolean}, ReduceLiteral))

	kept := b.Union([]TypeID{red, intr.Number}, ReduceLiteral)
	require.True(t, b.Table().Is(kept, FlagUnion))
	assert.Len(t, b.Table().UnionMembers(kept), 2)

	mixed := b.Union([]TypeID{red, one, intr.String}, ReduceLiteral)
	require.True(t, b.Table().Is(mixed, FlagUnion))
	assert.Equal(t, []TypeID{intr.String, one}, b.Table().UnionMembers(mixed))
}

func TestUnionAlias(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	tbl := b.Table()
	_, red := b.StringLiteral("red")
	_, green := b.StringLiteral("green")

	id := b.UnionWithAlias([]TypeID{red, green}, ReduceLiteral, SymbolID(3), "Color")
	sym, name := tbl.Alias(id)
	assert.Equal(t, SymbolID(3), sym)
	assert.Equal(t, "Color", name)
	assert.Equal(t, "Color", tbl.Render(id))

	// a set that collapses to an existing type never takes the alias
	collapsed := b.UnionWithAlias([]TypeID{intr.String, intr.Never}, ReduceLiteral, SymbolID(4), "Str")
	assert.Equal(t, intr.String, collapsed)
	sym, name = tbl.Alias(collapsed)
	assert.Equal(t, NoSymbol, sym)
	assert.Empty(t, name)

	// re-interning an aliased set keeps the first alias
	again := b.UnionWithAlias([]TypeID{green, red}, ReduceLiteral, SymbolID(9), "Color2")
	assert.Equal(t, id, again)
	_, name = tbl.Alias(again)
	assert.Equal(t, "Color", name)
}

func TestRegularType(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	tbl := b.Table()
	freshRed, red := b.StringLiteral("red")
	freshGreen, green := b.StringLiteral("green")

	assert.Equal(t, red, b.RegularType(freshRed))
	assert.Equal(t, red, b.RegularType(red))
	assert.Equal(t, intr.String, b.RegularType(intr.String))

	freshUnion := b.Union([]TypeID{freshRed, freshGreen}, ReduceNone)
	regularUnion := b.RegularType(freshUnion)
	assert.NotEqual(t, freshUnion, regularUnion)
	assert.Equal(t, []TypeID{red, green}, tbl.UnionMembers(regularUnion))
}

func TestWidenLiteral(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	freshOne, one := b.NumberLiteral(1)
	_, two := b.NumberLiteral(2)
	_, red := b.StringLiteral("red")

	assert.Equal(t, intr.Number, b.WidenLiteral(freshOne))
	assert.Equal(t, intr.Number, b.WidenLiteral(one))
	assert.Equal(t, intr.String, b.WidenLiteral(red))
	assert.Equal(t, intr.Boolean, b.WidenLiteral(intr.True))
	assert.Equal(t, intr.String, b.WidenLiteral(intr.String))
	assert.Equal(t, intr.Any, b.WidenLiteral(intr.Any))

	// 1 | 2 widens member wise and collapses to number
	union := b.Union([]TypeID{one, two}, ReduceNone)
	assert.Equal(t, intr.Number, b.WidenLiteral(union))

	mixed := b.Union([]TypeID{one, red}, ReduceNone)
	widened := b.WidenLiteral(mixed)
	assert.Equal(t, []TypeID{intr.String, intr.Number}, b.Table().UnionMembers(widened))
}

func TestTypeofOperandUnion(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	first := b.TypeofOperandUnion()
	assert.Equal(t, first, b.TypeofOperandUnion())
	expected := `"string" | "number" | "bigint" | "boolean" | "symbol" | "undefined" | "object" | "function"`
	assert.Equal(t, expected, b.Table().Render(first))
}
