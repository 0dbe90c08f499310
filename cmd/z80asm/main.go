package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/config"
	"github.com/lookbusy1344/z80asm/lexer"
	"github.com/lookbusy1344/z80asm/tools"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

type searchPaths []string

func (s *searchPaths) String() string { return fmt.Sprint([]string(*s)) }
func (s *searchPaths) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var (
		output      = flag.String("o", "", "output file (default: input with .bin extension)")
		configPath  = flag.String("config", "", "path to a TOML config file")
		dumpSymbols = flag.Bool("dump-symbols", false, "print the final symbol table to stderr")
		lint        = flag.Bool("lint", false, "run lint checks after assembling")
		showVersion = flag.Bool("version", false, "print version information and exit")
	)
	var includes searchPaths
	flag.Var(&includes, "I", "additional @include search path (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("z80asm %s (%s, %s)\n", Version, Commit, Date)
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: z80asm [flags] <input.asm>")
		flag.PrintDefaults()
		os.Exit(2)
	}
	input := flag.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	a := asm.NewAssembler(append([]string(includes), cfg.Assembler.SearchPaths...))
	module, diags := a.AssembleFile(input)

	for _, w := range diags.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s: %s\n", w.Pos, w.Msg)
	}
	if diags.HasErrors() {
		fmt.Fprintln(os.Stderr, diags.Error())
		os.Exit(1)
	}

	if *lint {
		for _, f := range tools.Lint(module, cfg.Lint.WarnUnusedSymbols) {
			fmt.Fprintln(os.Stderr, f.Message)
		}
	}

	if *dumpSymbols {
		dumpSymbolTable(module.Symbols)
	}

	outPath := *output
	if outPath == "" {
		outPath = defaultOutputPath(input)
	}
	if err := os.WriteFile(outPath, module.Bytes, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", outPath, err)
		os.Exit(1)
	}
}

func defaultOutputPath(input string) string {
	for i := len(input) - 1; i >= 0 && input[i] != '/'; i-- {
		if input[i] == '.' {
			return input[:i] + ".bin"
		}
	}
	return input + ".bin"
}

func dumpSymbolTable(st *asm.SymbolTable) {
	for name, sym := range st.All() {
		if sym.Pos == (lexer.Position{}) {
			continue
		}
		fmt.Fprintf(os.Stderr, "%-24s 0x%04X  %s\n", name, uint16(sym.Value), sym.Pos)
	}
}
