package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableBounds(t *testing.T) {
	t.Parallel()
	tbl := NewBuilder().Table()
	assert.Panics(t, func() { tbl.Flags(NoType) })
	assert.Panics(t, func() { tbl.Flags(TypeID(tbl.Len())) })
	assert.Panics(t, func() { tbl.Render(TypeID(9999)) })
}

func TestPayloadKindMismatch(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	_, red := b.StringLiteral("red")
	union := b.Union([]TypeID{red, intr.String}, ReduceNone)

	assert.Panics(t, func() { b.Table().UnionMembers(intr.String) })
	assert.Panics(t, func() { b.Table().Literal(union) })
	assert.Panics(t, func() { b.Table().IntrinsicName(red) })
	assert.Panics(t, func() { b.Table().Properties(red) })
}

func TestKindMismatchValue(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	defer func() {
		err, ok := recover().(*KindMismatchError)
		require.True(t, ok)
		assert.Equal(t, b.Intrinsics().String, err.ID)
		assert.Equal(t, "union", err.Want)
		assert.Equal(t, "intrinsic", err.Got)
		assert.Contains(t, err.Error(), "not a union type")
	}()
	b.Table().UnionMembers(b.Intrinsics().String)
}

func TestMemberLookup(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	obj := b.Object([]Property{
		{Name: "name", Type: intr.String},
		{Name: "age", Type: intr.Number, Optional: true},
	}, ObjFlagAnonymous)

	typ, ok := b.Table().Member(obj, "name")
	require.True(t, ok)
	assert.Equal(t, intr.String, typ)

	typ, ok = b.Table().Member(obj, "grade")
	assert.False(t, ok)
	assert.Equal(t, NoType, typ)

	props := b.Table().Properties(obj)
	require.Len(t, props, 2)
	assert.Equal(t, "name", props[0].Name)
	assert.True(t, props[1].Optional)
	assert.True(t, b.Table().ObjectFlags(obj).Has(ObjFlagAnonymous))
}

func TestFlagScans(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	// the boolean pairs interned at construction are literals too
	base := b.Table().CountWhere(FlagLiteral)
	b.StringLiteral("a")
	b.StringLiteral("b")
	b.NumberLiteral(1)
	// every literal is a fresh and regular pair of records
	assert.Equal(t, base+6, b.Table().CountWhere(FlagLiteral))
	assert.Equal(t, 4, b.Table().CountWhere(FlagStringLiteral))

	var seen []TypeID
	b.Table().EachWhere(FlagNumberLiteral, func(id TypeID) { seen = append(seen, id) })
	require.Len(t, seen, 2)
	assert.True(t, seen[0] < seen[1])
}

func TestNamedPredicates(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	fresh, red := b.StringLiteral("red")
	_, green := b.StringLiteral("green")
	union := b.Union([]TypeID{red, green}, ReduceNone)
	obj := b.Object([]Property{{Name: "a", Type: intr.String}}, ObjFlagAnonymous)
	tbl := b.Table()

	assert.True(t, tbl.IsUnion(union))
	assert.False(t, tbl.IsUnion(red))

	assert.True(t, tbl.IsLiteral(red))
	assert.True(t, tbl.IsLiteral(fresh))
	assert.False(t, tbl.IsLiteral(intr.String))
	assert.False(t, tbl.IsLiteral(union))

	assert.True(t, tbl.IsFreshable(fresh))
	assert.True(t, tbl.IsFreshable(tbl.Regular(fresh)))
	assert.False(t, tbl.IsFreshable(intr.Number))

	assert.True(t, tbl.IsObjectLike(obj))
	assert.True(t, tbl.IsObjectLike(intr.NonPrimitive))
	assert.False(t, tbl.IsObjectLike(union))

	assert.True(t, tbl.IsIntrinsic(intr.String, "string"))
	assert.False(t, tbl.IsIntrinsic(intr.String, "number"))
	assert.False(t, tbl.IsIntrinsic(red, "string"))
	assert.True(t, tbl.IsIntrinsic(intr.Err, "any"))
}

func TestConcurrentReads(t *testing.T) {
	t.Parallel()
	b := NewBuilder()
	intr := b.Intrinsics()
	_, red := b.StringLiteral("red")
	_, green := b.StringLiteral("green")
	union := b.Union([]TypeID{red, green, intr.String}, ReduceNone)
	tbl := b.Table()

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				assert.Equal(t, `string | "red" | "green"`, tbl.Render(union))
				assert.True(t, tbl.Is(union, FlagUnion))
			}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
}
