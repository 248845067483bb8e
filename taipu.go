package taipu

import (
	"cmp"
	"io"
	"slices"
	"strings"

	"github.com/aodai/taipu/src/binder"
	"github.com/aodai/taipu/src/check"
	"github.com/aodai/taipu/src/diag"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

type (
	// Binding is one top level declaration and the rendered type it ended up
	// with. Variable declarations render the variable's type, alias
	// declarations render the structure the alias names.
	Binding struct {
		Name string
		Type string
	}

	// Result is one checked file. The Checker, Binder, and File are the live
	// session objects, kept so callers can resolve names and render further
	// types; renders and TypeIDs are only meaningful against this Result's
	// own Checker.
	Result struct {
		File         *syntax.File
		Binder       *binder.Binder
		Checker      *check.Checker
		Bindings     []Binding
		Diagnostics  []error
		Degradations []check.Degradation
	}
)

// Check parses, binds, and checks one source file read from src. Type
// complaints and degradations land on the Result; the error return is
// reserved for source that does not parse.
func Check(filename string, src io.Reader, settings check.Settings) (*Result, error) {
	file, err := syntax.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	return newResult(file, settings), nil
}

// CheckString checks source held in a string under default settings.
func CheckString(filename, src string) (*Result, error) {
	return Check(filename, strings.NewReader(src), check.Settings{})
}

// CheckFile reads and checks the file at path under default settings.
func CheckFile(path string) (*Result, error) {
	file, err := syntax.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return newResult(file, check.Settings{}), nil
}

func newResult(file *syntax.File, settings check.Settings) *Result {
	b := binder.Bind(file)
	c := check.New(b, settings)
	c.CheckFile(file)

	diags := make([]error, 0, len(b.Diagnostics())+len(c.Diagnostics()))
	diags = append(diags, b.Diagnostics()...)
	diags = append(diags, c.Diagnostics()...)
	slices.SortStableFunc(diags, byPosition)

	return &Result{
		File:         file,
		Binder:       b,
		Checker:      c,
		Bindings:     bindingList(file, b, c),
		Diagnostics:  diags,
		Degradations: c.Degradations(),
	}
}

// bindingList collects the file level variable and type alias declarations in
// source order, one entry per name per namespace. Function and interface
// declarations are outside the checked subset and do not list.
func bindingList(file *syntax.File, b *binder.Binder, c *check.Checker) []Binding {
	var out []Binding
	seen := map[string]bool{}
	for _, stmt := range file.Stmts {
		switch decl := stmt.(type) {
		case *syntax.VarDecl:
			if seen["v:"+decl.Name] {
				continue
			}
			seen["v:"+decl.Name] = true
			sym := b.Resolve(decl.Name, b.ScopeOf(decl))
			if sym == types.NoSymbol {
				continue
			}
			out = append(out, Binding{Name: decl.Name, Type: c.Render(c.TypeOfSymbol(sym))})
		case *syntax.TypeAliasDecl:
			if seen["t:"+decl.Name] {
				continue
			}
			seen["t:"+decl.Name] = true
			sym := b.Resolve(decl.Name, b.ScopeOf(decl))
			if sym == types.NoSymbol || !b.SymbolFlags(sym).HasAny(binder.SymTypeAlias) {
				continue
			}
			out = append(out, Binding{Name: decl.Name, Type: c.Table().RenderExpanded(c.DeclaredTypeOfSymbol(sym))})
		}
	}
	return out
}

// byPosition orders diagnostics by source position so binder and checker
// complaints interleave the way they appear in the file.
func byPosition(a, b error) int {
	ae, aok := a.(*diag.Error)
	be, bok := b.(*diag.Error)
	if !aok || !bok {
		return 0
	}
	if n := cmp.Compare(ae.Line, be.Line); n != 0 {
		return n
	}
	return cmp.Compare(ae.Column, be.Column)
}
