package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lookbusy1344/z80asm/asm"
	"github.com/lookbusy1344/z80asm/config"
	"github.com/lookbusy1344/z80asm/inspector"
	"github.com/lookbusy1344/z80asm/vdc"
)

// z80dbg assembles a source file and opens a read-only terminal browser
// over the finished symbol table and (if the config file seeds one) a VDC
// register file. There is no live CPU to step here, unlike the teacher's
// debugger: the inspector shows a single static snapshot taken once at
// launch.
func main() {
	var (
		configPath = flag.String("config", "", "path to a TOML config file")
	)
	var includes searchPaths
	flag.Var(&includes, "I", "additional @include search path (repeatable)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: z80dbg [flags] <input.asm>")
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

	var video *vdc.Vdc
	if len(cfg.VDC.InitialRegisters) > 0 {
		video = vdc.New()
		if err := video.LoadRegisters(cfg.VDC.InitialRegisters); err != nil {
			fmt.Fprintf(os.Stderr, "vdc config: %v\n", err)
			os.Exit(1)
		}
	}

	if err := inspector.New(module, video).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "inspector: %v\n", err)
		os.Exit(1)
	}
}

type searchPaths []string

func (s *searchPaths) String() string { return fmt.Sprint([]string(*s)) }
func (s *searchPaths) Set(v string) error {
	*s = append(*s, v)
	return nil
}
