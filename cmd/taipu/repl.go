package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/chzyer/readline"

	"github.com/aodai/taipu"
	"github.com/aodai/taipu/src/check"
	"github.com/aodai/taipu/src/diag"
	"github.com/aodai/taipu/src/syntax"
	"github.com/aodai/taipu/src/types"
)

// repl is one interactive session. Accepted statements accumulate in src and
// the whole buffer is rechecked after every input, so later lines see earlier
// declarations the way one growing file would. lines counts accepted source
// lines, which is how output for old statements is filtered out.
type repl struct {
	settings check.Settings
	src      strings.Builder
	lines    int64
	last     *taipu.Result
}

func runREPL(settings check.Settings) {
	printVersion()
	fmt.Fprint(os.Stderr, "Press ctrl-c to quit or clear current buffer.\n")
	r := &repl{settings: settings}
	checkErr(r.run())
}

func (r *repl) run() error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "> ", AutoComplete: r})
	if err != nil {
		return err
	}
	defer func() { _ = rl.Close() }()

	buf := bytes.NewBuffer(nil)
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if buf.Len() > 0 {
					rl.SetPrompt("> ")
					buf.Reset()
					fmt.Fprint(os.Stderr, "Press ctrl-c again to quit.\n")
					continue
				}
				break
			}
			if errors.Is(err, io.EOF) {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		buf.WriteString(line + "\n")
		if _, err := syntax.TryStat(buf.String()); err != nil {
			if errors.Is(err, io.EOF) {
				rl.SetPrompt("...> ")
				continue
			}
			rl.SetPrompt("> ")
			buf.Reset()
			fmt.Fprintln(os.Stderr, err)
			continue
		}

		rl.SetPrompt("> ")
		r.accept(buf.String())
		buf.Reset()
	}
	return nil
}

// accept rechecks the session with chunk appended and prints the diagnostics,
// warnings, and types the new statements produced.
func (r *repl) accept(chunk string) {
	res, err := taipu.Check("<repl>", strings.NewReader(r.src.String()+chunk), r.settings)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	r.last = res

	for _, d := range res.Diagnostics {
		var dErr *diag.Error
		if errors.As(d, &dErr) && dErr.Line <= r.lines {
			continue
		}
		fmt.Fprintln(os.Stderr, d)
	}
	if warningsOn {
		for _, d := range res.Degradations {
			if d.Pos.Line <= r.lines {
				continue
			}
			fmt.Fprintf(os.Stderr, "warning: %v resolves to any\n", d.Reason)
		}
	}
	for _, stmt := range res.File.Stmts {
		if stmt.Pos().Line <= r.lines {
			continue
		}
		r.printStmt(res, stmt)
	}

	r.src.WriteString(chunk)
	r.lines += int64(strings.Count(chunk, "\n"))
}

func (r *repl) printStmt(res *taipu.Result, stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.ExprStmt:
		fmt.Fprintln(os.Stderr, res.Checker.Render(res.Checker.CheckExpression(s.X)))
	case *syntax.VarDecl:
		sym := res.Binder.Resolve(s.Name, res.Binder.ScopeOf(s))
		if sym == types.NoSymbol {
			return
		}
		fmt.Fprintf(os.Stderr, "%v: %v\n", s.Name, res.Checker.Render(res.Checker.TypeOfSymbol(sym)))
	case *syntax.TypeAliasDecl:
		sym := res.Binder.Resolve(s.Name, res.Binder.ScopeOf(s))
		if sym == types.NoSymbol {
			return
		}
		fmt.Fprintf(os.Stderr, "type %v = %v\n", s.Name, res.Checker.Table().RenderExpanded(res.Checker.DeclaredTypeOfSymbol(sym)))
	}
}

// Do completes declared names and keywords at the cursor. It satisfies
// readline.AutoCompleter.
func (r *repl) Do(line []rune, pos int) ([][]rune, int) {
	word := string(line[:pos])
	if idx := strings.LastIndexFunc(word, func(ch rune) bool {
		return !unicode.IsLetter(ch) && !unicode.IsDigit(ch) && ch != '_' && ch != '$'
	}); idx >= 0 {
		word = word[idx+1:]
	}
	var out [][]rune
	for _, name := range r.completions() {
		if strings.HasPrefix(name, word) && name != word {
			out = append(out, []rune(name[len(word):]))
		}
	}
	return out, len(word)
}

func (r *repl) completions() []string {
	names := []string{
		"any", "bigint", "boolean", "const", "false", "function", "interface",
		"let", "never", "null", "number", "object", "string", "symbol", "true",
		"type", "typeof", "undefined", "unknown", "var", "void",
	}
	if r.last != nil {
		names = append(names, r.last.Binder.Names(r.last.Binder.FileScope())...)
	}
	return names
}
