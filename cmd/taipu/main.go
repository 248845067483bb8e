// Package main is the main entrypoint to the taipu application.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
	"github.com/sanity-io/litter"

	"github.com/aodai/taipu"
	"github.com/aodai/taipu/src/check"
	"github.com/aodai/taipu/src/conf"
	"github.com/aodai/taipu/src/types"
)

var (
	executeSrc    string
	listTypes     bool
	dumpTree      bool
	showSummary   bool
	showVersion   bool
	interactive   bool
	warningsOn    bool
	noImplicitAny bool
	sourceIsJS    bool
)

func init() {
	flag.StringVar(&executeSrc, "e", "", "check source 'src'")
	flag.BoolVar(&listTypes, "t", false, "list file level declarations with their types")
	flag.BoolVar(&dumpTree, "a", false, "dump the syntax tree")
	flag.BoolVar(&showSummary, "s", false, "print a session summary")
	flag.BoolVar(&showVersion, "v", false, "show version information")
	flag.BoolVar(&interactive, "i", false, "enter interactive mode after checking")
	flag.BoolVar(&warningsOn, "W", false, "print degradation warnings")
	flag.BoolVar(&noImplicitAny, "no-implicit-any", false, "report declarations that fall back to any")
	flag.BoolVar(&sourceIsJS, "js", false, "treat source as javascript")
}

func main() {
	if os.Getenv("TAIPU_PROFILE") != "" {
		defer runProfiling(os.Getenv("TAIPU_PROFILE"))()
	}
	flag.Usage = printUsage
	flag.Parse()

	if showVersion {
		printVersion()
	}

	args := flag.Args()
	failed := false
	if stat, _ := os.Stdin.Stat(); (stat.Mode() & os.ModeCharDevice) == 0 {
		data, err := io.ReadAll(os.Stdin)
		checkErr(err)
		failed = checkSrc("<stdin>", strings.NewReader(string(data)))
	} else if executeSrc != "" {
		failed = checkSrc("<string>", strings.NewReader(executeSrc))
	} else if len(args) > 0 {
		for _, path := range args {
			src, err := os.Open(path)
			checkErr(err)
			if checkSrc(path, src) {
				failed = true
			}
			_ = src.Close()
		}
	} else if !showVersion {
		runREPL(settings())
		return
	}

	if interactive {
		runREPL(settings())
	}
	if failed {
		os.Exit(1)
	}
}

func settings() check.Settings {
	return check.Settings{NoImplicitAny: noImplicitAny, SourceIsJS: sourceIsJS}
}

// checkSrc checks one source and prints whatever the flags ask for. It
// reports whether the source had type complaints.
func checkSrc(path string, src io.Reader) bool {
	res, err := taipu.Check(path, src, settings())
	checkErr(err)
	if dumpTree {
		litter.Dump(res.File)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	if warningsOn {
		for _, d := range res.Degradations {
			fmt.Fprintf(os.Stderr, "%s:%d:%d warning: %s resolves to any\n", path, d.Pos.Line, d.Pos.Column, d.Reason)
		}
	}
	if listTypes {
		for _, b := range res.Bindings {
			fmt.Fprintf(os.Stdout, "%s: %s\n", b.Name, b.Type)
		}
	}
	if showSummary {
		printSummary(res)
	}
	return len(res.Diagnostics) > 0
}

func printSummary(res *taipu.Result) {
	strf, err := strftime.New("%Y-%m-%d %H:%M:%S")
	checkErr(err)
	tab := res.Checker.Table()
	fmt.Fprintf(os.Stderr, "%v checked %v\n", strf.FormatString(time.Now()), res.File.Filename)
	fmt.Fprintf(os.Stderr, "  types interned  %v\n", tab.Len())
	fmt.Fprintf(os.Stderr, "  literal types   %v\n", tab.CountWhere(types.FlagLiteral))
	fmt.Fprintf(os.Stderr, "  union types     %v\n", tab.CountWhere(types.FlagUnion))
	fmt.Fprintf(os.Stderr, "  object types    %v\n", tab.CountWhere(types.FlagObject))
	fmt.Fprintf(os.Stderr, "  complaints      %v\n", len(res.Diagnostics))
	fmt.Fprintf(os.Stderr, "  degradations    %v\n", len(res.Degradations))
}

func printVersion() {
	fmt.Fprintf(os.Stderr, "%v\n", conf.FullVersion())
}

func printUsage() {
	printVersion()
	fmt.Fprint(os.Stderr, "\nUsage: taipu [options] [script]\n")
	flag.PrintDefaults()
}

func checkErr(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func runProfiling(filename string) func() {
	f, err := os.Create(filename)
	checkErr(err)
	checkErr(pprof.StartCPUProfile(f))
	return pprof.StopCPUProfile
}
