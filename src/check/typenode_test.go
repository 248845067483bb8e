package check

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

func annotationOf(t *testing.T, file *syntax.File, index int) syntax.TypeNode {
	t.Helper()
	decl, ok := file.Stmts[index].(*syntax.VarDecl)
	require.True(t, ok)
	require.NotNil(t, decl.Annotation)
	return decl.Annotation
}

func TestResolveKeywordAnnotations(t *testing.T) {
	t.Parallel()
	keywords := []string{
		"any", "unknown", "string", "number", "boolean", "bigint",
		"symbol", "void", "undefined", "null", "never", "object",
	}
	for _, kw := range keywords {
		t.Run(kw, func(t *testing.T) {
			t.Parallel()
			c, b, _ := checkChunk(t, fmt.Sprintf("let x: %s;", kw))
			assert.Equal(t, kw, renderOf(t, c, b, "x"))
			assert.Empty(t, c.Diagnostics())
			assert.Empty(t, c.Degradations())
		})
	}
}

func TestResolveObjectKeywordSettings(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		settings Settings
		want     string
	}{
		{"typescript default", Settings{}, "object"},
		{"javascript loose", Settings{SourceIsJS: true}, "any"},
		{"javascript strict", Settings{SourceIsJS: true, NoImplicitAny: true}, "object"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, b, _ := checkChunkWith(t, `let x: object;`, tt.settings)
			assert.Equal(t, tt.want, renderOf(t, c, b, "x"))
		})
	}
}

func TestResolveLiteralAnnotations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{`let x: "red";`, `"red"`},
		{`let x: 42;`, "42"},
		{`let x: -1;`, "-1"},
		{`let x: true;`, "true"},
		{`let x: false;`, "false"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			id := c.ResolveTypeNode(annotationOf(t, file, 0))
			assert.Equal(t, tt.want, c.Render(id))
			assert.False(t, c.Table().IsFresh(id), "annotations are not fresh contexts")
		})
	}
}

func TestResolveUnionAnnotations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"duplicates collapse", `let x: "a" | "b" | "a";`, `"a" | "b"`},
		{"literal subsumed by base", `let x: string | "a";`, "string"},
		{"boolean literal subsumed", `let x: boolean | true;`, "boolean"},
		{"nested parens flatten", `let x: ("a" | ("b" | "c"));`, `"a" | "b" | "c"`},
		{"any absorbs", `let x: any | string;`, "any"},
		{"unknown absorbs", `let x: unknown | string;`, "unknown"},
		{"never drops", `let x: never | string;`, "string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, b, _ := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, renderOf(t, c, b, "x"))
		})
	}

	t.Run("member count", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let x: "a" | "b" | "a";`)
		id := c.ResolveTypeNode(annotationOf(t, file, 0))
		assert.Len(t, c.Table().UnionMembers(id), 2)
	})
}

func TestResolveAliasReferences(t *testing.T) {
	t.Parallel()
	t.Run("union alias renders its name", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `type Color = "red" | "green"; let c: Color;`)
		sym := b.Resolve("c", b.FileScope())
		id := c.TypeOfSymbol(sym)
		assert.Equal(t, "Color", c.Render(id))
		assert.Len(t, c.Table().UnionMembers(id), 2)
		aliasSym, aliasName := c.Table().Alias(id)
		assert.Equal(t, b.Resolve("Color", b.FileScope()), aliasSym)
		assert.Equal(t, "Color", aliasName)
	})

	t.Run("alias declaration node resolves to the aliased id", func(t *testing.T) {
		t.Parallel()
		c, b, file := checkChunk(t, `type Color = "red" | "green"; let c: Color;`)
		alias := file.Stmts[0].(*syntax.TypeAliasDecl)
		assert.Equal(t, c.TypeOfSymbol(b.Resolve("c", b.FileScope())), c.ResolveTypeNode(alias.Type))
	})

	t.Run("non union alias renders the target", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `type S = string; let s: S;`)
		assert.Equal(t, "string", renderOf(t, c, b, "s"))
	})

	t.Run("alias of alias keeps the first name", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `type A = "x" | "y"; type B = A; let v: B;`)
		assert.Equal(t, "A", renderOf(t, c, b, "v"))
	})
}

func TestResolveTypeRefErrors(t *testing.T) {
	t.Parallel()
	t.Run("unknown name", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `let x: Missing;`)
		require.Len(t, c.Diagnostics(), 1)
		assert.ErrorContains(t, c.Diagnostics()[0], "cannot find name 'Missing'")
		assert.Equal(t, "any", renderOf(t, c, b, "x"))
	})
	t.Run("value used as type", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `let v = 1; let x: v;`)
		require.Len(t, c.Diagnostics(), 1)
		assert.ErrorContains(t, c.Diagnostics()[0], "'v' refers to a value, but is being used as a type here")
		assert.Equal(t, "any", renderOf(t, c, b, "x"))
	})
}

func TestResolveTypeLiterals(t *testing.T) {
	t.Parallel()
	c, b, file := checkChunk(t, `let p: { name: string; age?: number };`)
	assert.Equal(t, "{ name: string; age?: number; }", renderOf(t, c, b, "p"))
	id := c.ResolveTypeNode(annotationOf(t, file, 0))
	props := c.Table().Properties(id)
	require.Len(t, props, 2)
	assert.False(t, props[0].Optional)
	assert.True(t, props[1].Optional)

	t.Run("index signature degrades", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `let m: { [k: string]: number };`)
		assert.Equal(t, "any", renderOf(t, c, b, "m"))
		require.Len(t, c.Degradations(), 1)
		assert.Equal(t, "index signature", c.Degradations()[0].Reason)
	})
}

func TestResolveDegradedAnnotations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src    string
		reason string
	}{
		{`let x: string[];`, "array type"},
		{`let x: [string, number];`, "tuple type"},
		{`let x: (a: number) => string;`, "function type"},
		{`let x: keyof { a: string };`, "keyof type"},
		{`let n = 1; let x: typeof n;`, "typeof type query"},
		{`let x: { a: string }["a"];`, "indexed access type"},
		{`let x: { [K in "a" | "b"]: number };`, "mapped type"},
		{`let x: { a: string } & { b: number };`, "intersection type"},
		{`let x: Array<string>;`, "generic type reference 'Array'"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			t.Parallel()
			c, b, _ := checkChunk(t, tt.src)
			assert.Equal(t, "any", renderOf(t, c, b, "x"))
			require.Len(t, c.Degradations(), 1)
			assert.Equal(t, tt.reason, c.Degradations()[0].Reason)
			assert.Empty(t, c.Diagnostics())
		})
	}

	t.Run("interface reference", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `interface I { a: number } let x: I;`)
		assert.Equal(t, "any", renderOf(t, c, b, "x"))
		reasons := make([]string, 0, len(c.Degradations()))
		for _, deg := range c.Degradations() {
			reasons = append(reasons, deg.Reason)
		}
		assert.Equal(t, []string{"interface declaration", "interface type 'I'"}, reasons)
	})
}
