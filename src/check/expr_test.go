package check

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// exprOf returns the expression of the last statement, which sources in these
// tests always end with.
func exprOf(t *testing.T, file *syntax.File) syntax.Expr {
	t.Helper()
	es, ok := file.Stmts[len(file.Stmts)-1].(*syntax.ExprStmt)
	require.True(t, ok, "last statement must be an expression statement")
	return es.X
}

func TestCheckLiteralExpressions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		src   string
		want  string
		fresh bool
	}{
		{"string", `"hi";`, `"hi"`, true},
		{"number", `1.5;`, "1.5", true},
		{"negative number", `-2;`, "-2", true},
		{"true", `true;`, "true", true},
		{"false", `false;`, "false", true},
		{"null", `null;`, "null", false},
		{"undefined", `undefined;`, "undefined", false},
		{"template", "`tpl`;", `"tpl"`, true},
		{"template with substitution", "let x = 1; `a${x}b`;", "string", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			id := c.CheckExpression(exprOf(t, file))
			assert.Equal(t, tt.want, c.Render(id))
			assert.Equal(t, tt.fresh, c.Table().IsFresh(id))
			assert.Empty(t, c.Diagnostics())
		})
	}
}

func TestCheckIdentifiers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"let widens literal init", `let x = "a"; x;`, "string"},
		{"var widens literal init", `var n = 2; n;`, "number"},
		{"const keeps literal init", `const k = "a"; k;`, `"a"`},
		{"annotation wins over init", `let x: string | number = 2; x;`, "string | number"},
		{"nan is number", `NaN;`, "number"},
		{"infinity is number", `Infinity;`, "number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, c.Render(c.CheckExpression(exprOf(t, file))))
			assert.Empty(t, c.Diagnostics())
		})
	}

	t.Run("const reference is not fresh", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `const k = "a"; k;`)
		assert.False(t, c.Table().IsFresh(c.CheckExpression(exprOf(t, file))))
	})
}

func TestCheckUnaryOperators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
		errs []string
	}{
		{"negate variable", `let n = 1; -n;`, "number", nil},
		{"unary plus", `let n = 1; +n;`, "number", nil},
		{"bitwise not", `let n = 1; ~n;`, "number", nil},
		{"negate bigint", `let b: bigint; -b;`, "bigint", nil},
		{"not", `let n = 1; !n;`, "boolean", nil},
		{"void", `let n = 1; void n;`, "undefined", nil},
		{"typeof", `let n = 1; typeof n;`,
			`"string" | "number" | "bigint" | "boolean" | "symbol" | "undefined" | "object" | "function"`, nil},
		{"negate string", `let s = "a"; -s;`, "number",
			[]string{"an arithmetic operand must be of type 'any', 'number', or 'bigint'"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, c.Render(c.CheckExpression(exprOf(t, file))))
			require.Len(t, c.Diagnostics(), len(tt.errs))
			for i, want := range tt.errs {
				assert.ErrorContains(t, c.Diagnostics()[i], want)
			}
		})
	}
}

func TestCheckAddOperator(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		want    string
		wantErr string
	}{
		{"numbers", `1 + 2;`, "number", ""},
		{"strings", `"a" + "b";`, "string", ""},
		{"string and number", `"a" + 1;`, "string", ""},
		{"number and string", `1 + "a";`, "string", ""},
		{"bigints", `let b: bigint; let c: bigint; b + c;`, "bigint", ""},
		{"any absorbs", `let a; a + 1;`, "any", ""},
		{"number and boolean", `1 + true;`, "any",
			"operator '+' cannot be applied to types 'number' and 'boolean'"},
		{"bigint and number", `let b: bigint; b + 1;`, "any",
			"operator '+' cannot be applied to types 'bigint' and 'number'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, c.Render(c.CheckExpression(exprOf(t, file))))
			if tt.wantErr == "" {
				assert.Empty(t, c.Diagnostics())
			} else {
				require.Len(t, c.Diagnostics(), 1)
				assert.ErrorContains(t, c.Diagnostics()[0], tt.wantErr)
			}
		})
	}
}

func TestCheckArithmeticOperators(t *testing.T) {
	t.Parallel()
	leftErr := "the left-hand side of an arithmetic operation must be of type 'any', 'number', or 'bigint'"
	rightErr := "the right-hand side of an arithmetic operation must be of type 'any', 'number', or 'bigint'"
	tests := []struct {
		name string
		src  string
		want string
		errs []string
	}{
		{"multiply", `2 * 3;`, "number", nil},
		{"subtract", `5 - 1;`, "number", nil},
		{"divide", `6 / 2;`, "number", nil},
		{"modulo", `7 % 3;`, "number", nil},
		{"power", `2 ** 8;`, "number", nil},
		{"bigint product", `let b: bigint; b * b;`, "bigint", nil},
		{"string left operand", `let s = "a"; s * 2;`, "number", []string{leftErr}},
		{"string right operand", `2 * "a";`, "number", []string{rightErr}},
		{"both operands bad", `let s = "a"; s / s;`, "number", []string{leftErr, rightErr}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, c.Render(c.CheckExpression(exprOf(t, file))))
			require.Len(t, c.Diagnostics(), len(tt.errs))
			for i, want := range tt.errs {
				assert.ErrorContains(t, c.Diagnostics()[i], want)
			}
		})
	}
}

func TestCheckRelationalOperators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"numbers", `1 < 2;`, ""},
		{"strings", `"a" < "b";`, ""},
		{"greater or equal", `2 >= 2;`, ""},
		{"any side", `let a; a > 1;`, ""},
		{"mixed", `1 < "a";`, "operator '<' cannot be applied to types 'number' and 'string'"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, "boolean", c.Render(c.CheckExpression(exprOf(t, file))))
			if tt.wantErr == "" {
				assert.Empty(t, c.Diagnostics())
			} else {
				require.Len(t, c.Diagnostics(), 1)
				assert.ErrorContains(t, c.Diagnostics()[0], tt.wantErr)
			}
		})
	}
}

func TestCheckEqualityOperators(t *testing.T) {
	t.Parallel()
	for _, src := range []string{`1 == "a";`, `1 != 2;`, `1 === 2;`, `"a" !== "b";`} {
		c, _, file := checkChunk(t, src)
		assert.Equal(t, "boolean", c.Render(c.CheckExpression(exprOf(t, file))))
		assert.Empty(t, c.Diagnostics())
	}
}

func TestCheckLogicalOperators(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"or unions branches", `let n = 1; let s = "x"; n || s;`, "string | number"},
		{"and dedupes", `let n = 1; n && n;`, "number"},
		{"nullish flattens", `let u: number | undefined; let n = 1; u ?? n;`, "number | undefined"},
		{"literal branches survive", `const a = "x"; const b = "y"; a || b;`, `"x" | "y"`},
		{"literal reduced by base", `let c: boolean; let s = "s"; c ? s : "a";`, "string"},
		{"conditional unions branches", `let c: boolean; c ? "a" : "b";`, `"a" | "b"`},
		{"conditional dedupes", `let c: boolean; c ? "a" : "a";`, `"a"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, tt.want, c.Render(c.CheckExpression(exprOf(t, file))))
			assert.Empty(t, c.Diagnostics())
		})
	}
}

func TestCheckObjectLiterals(t *testing.T) {
	t.Parallel()
	c, b, file := checkChunk(t, `let o = { a: 1, b: "s" };`)
	lit := c.CheckExpression(file.Stmts[0].(*syntax.VarDecl).Init)
	assert.Equal(t, `{ a: 1; b: "s"; }`, c.Render(lit))
	flags := c.Table().ObjectFlags(lit)
	assert.True(t, flags.Has(types.ObjFlagFreshLiteral))
	assert.True(t, flags.Has(types.ObjFlagObjectLiteral))
	assert.True(t, flags.Has(types.ObjFlagAnonymous))

	declared := c.TypeOfSymbol(b.Resolve("o", b.FileScope()))
	assert.Equal(t, "{ a: number; b: string; }", c.Render(declared))
	assert.False(t, c.Table().ObjectFlags(declared).Has(types.ObjFlagFreshLiteral),
		"widening must clear freshness")

	t.Run("empty object", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let e = {}; e;`)
		assert.Equal(t, "{}", c.Render(c.CheckExpression(exprOf(t, file))))
	})

	t.Run("const widens members too", func(t *testing.T) {
		t.Parallel()
		c, b, _ := checkChunk(t, `const o = { a: 1 };`)
		assert.Equal(t, "{ a: number; }", renderOf(t, c, b, "o"))
	})
}

func TestCheckPropertyAccess(t *testing.T) {
	t.Parallel()
	t.Run("member hit", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let o = { a: 1 }; o.a;`)
		assert.Equal(t, "number", c.Render(c.CheckExpression(exprOf(t, file))))
		assert.Empty(t, c.Diagnostics())
	})
	t.Run("member miss", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let o = { a: 1 }; o.b;`)
		assert.Equal(t, "any", c.Render(c.CheckExpression(exprOf(t, file))))
		require.Len(t, c.Diagnostics(), 1)
		assert.ErrorContains(t, c.Diagnostics()[0], "property 'b' does not exist on type '{ a: number; }'")
	})
	t.Run("any receiver", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let a; a.b;`)
		assert.Equal(t, "any", c.Render(c.CheckExpression(exprOf(t, file))))
		assert.Empty(t, c.Diagnostics())
		assert.Empty(t, c.Degradations())
	})
	t.Run("primitive receiver degrades", func(t *testing.T) {
		t.Parallel()
		c, _, file := checkChunk(t, `let s = "x"; s.length;`)
		assert.Equal(t, "any", c.Render(c.CheckExpression(exprOf(t, file))))
		require.Len(t, c.Degradations(), 1)
		assert.Equal(t, "property access on 'string'", c.Degradations()[0].Reason)
	})
}

func TestCheckExpressionDegradations(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src    string
		reason string
	}{
		{`[1];`, "array literal"},
		{`let o = { a: 1 }; o["a"];`, "element access"},
		{`let a; a(1);`, "call expression"},
	}
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			t.Parallel()
			c, _, file := checkChunk(t, tt.src)
			assert.Equal(t, "any", c.Render(c.CheckExpression(exprOf(t, file))))
			require.Len(t, c.Degradations(), 1)
			assert.Equal(t, tt.reason, c.Degradations()[0].Reason)
			assert.Empty(t, c.Diagnostics())
		})
	}
}
