package taipu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aodai/taipu/src/check"
	"github.com/aodai/taipu/src/diag"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

func TestCheckStringRendersDeclarations(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", `type Color = "red" | "green" | "red";
let paint: Color = "red";
const mode = "dark";
let n = 1 + 2;`)
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Empty(t, res.Degradations)
	assert.Equal(t, []Binding{
		{Name: "Color", Type: `"red" | "green"`},
		{Name: "paint", Type: "Color"},
		{Name: "mode", Type: `"dark"`},
		{Name: "n", Type: "number"},
	}, res.Bindings)
}

func TestCheckStringCollapsesDuplicateUnionMembers(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", `let d: "red" | "green" | "red";`)
	require.NoError(t, err)
	require.Equal(t, []Binding{{Name: "d", Type: `"red" | "green"`}}, res.Bindings)

	sym := res.Binder.Resolve("d", res.Binder.FileScope())
	id := res.Checker.TypeOfSymbol(sym)
	assert.Len(t, res.Checker.Table().UnionMembers(id), 2)
	assert.False(t, res.Checker.Table().IsFresh(id))
}

func TestCheckStringInternsAcrossDeclarations(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", `let a: string;
let b: string;
const c = "x";
const d = "x";`)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics)

	tab := res.Checker.Table()
	assert.Equal(t, 1, tab.CountWhere(types.FlagString),
		"every string annotation shares the one intrinsic record")
	assert.Equal(t, 2, tab.CountWhere(types.FlagStringLiteral),
		"both \"x\" initializers share one fresh and regular pair")

	cSym := res.Binder.Resolve("c", res.Binder.FileScope())
	dSym := res.Binder.Resolve("d", res.Binder.FileScope())
	assert.Equal(t, res.Checker.TypeOfSymbol(cSym), res.Checker.TypeOfSymbol(dSym))
}

func TestCheckStringFreshLiteralPair(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", "\"lit\";\n\"lit\";")
	require.NoError(t, err)

	first := res.File.Stmts[0].(*syntax.ExprStmt).X
	second := res.File.Stmts[1].(*syntax.ExprStmt).X
	a := res.Checker.CheckExpression(first)
	b := res.Checker.CheckExpression(second)
	assert.Equal(t, a, b)

	tab := res.Checker.Table()
	assert.True(t, tab.IsFresh(a))
	assert.Equal(t, a, tab.Fresh(tab.Regular(a)))
}

func TestCheckStringSortsDiagnosticsByPosition(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", "nope;\nlet x = 1;\nlet x = 2;")
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 2)
	assert.ErrorContains(t, res.Diagnostics[0], "cannot find name 'nope'")
	assert.ErrorContains(t, res.Diagnostics[1], "cannot redeclare block-scoped variable 'x'")
}

func TestCheckStringDegradationsAreNotFatal(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", "let xs = [1, 2];\nlet n: number = 3;")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	require.Len(t, res.Degradations, 1)
	assert.Equal(t, "array literal", res.Degradations[0].Reason)
	assert.Equal(t, []Binding{
		{Name: "xs", Type: "any"},
		{Name: "n", Type: "number"},
	}, res.Bindings)
}

func TestCheckStringMergedNamespaces(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", "let v = 1;\ntype v = string;\nlet s: v = \"a\";")
	require.NoError(t, err)
	assert.Empty(t, res.Diagnostics)
	assert.Equal(t, []Binding{
		{Name: "v", Type: "number"},
		{Name: "v", Type: "string"},
		{Name: "s", Type: "string"},
	}, res.Bindings)
}

func TestCheckSettingsPropagate(t *testing.T) {
	t.Parallel()
	res, err := Check("<e2e>", strings.NewReader("let x;"), check.Settings{NoImplicitAny: true})
	require.NoError(t, err)
	require.Len(t, res.Diagnostics, 1)
	assert.ErrorContains(t, res.Diagnostics[0], "variable 'x' implicitly has an 'any' type")
	assert.Equal(t, []Binding{{Name: "x", Type: "any"}}, res.Bindings)
}

func TestCheckStringParseError(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", "let = 5;")
	require.Error(t, err)
	assert.Nil(t, res)

	var dErr *diag.Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, diag.ParserErr, dErr.Kind)
	assert.Equal(t, "<e2e>", dErr.Filename)
}

func TestCheckStringLexError(t *testing.T) {
	t.Parallel()
	res, err := CheckString("<e2e>", `let s = "unterminated`)
	require.Error(t, err)
	assert.Nil(t, res)

	var dErr *diag.Error
	require.ErrorAs(t, err, &dErr)
	assert.Equal(t, diag.LexerErr, dErr.Kind)
}

func TestCheckFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "colors.ts")
	require.NoError(t, os.WriteFile(path, []byte("let n: number = 1;\n"), 0o644))

	res, err := CheckFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, res.File.Filename)
	assert.Equal(t, []Binding{{Name: "n", Type: "number"}}, res.Bindings)

	_, err = CheckFile(filepath.Join(dir, "missing.ts"))
	assert.Error(t, err)
}
