package tools

import (
	"fmt"

	"github.com/lookbusy1344/z80asm/asm"
)

// LintFinding is one lint-level (non-fatal) observation about a finished
// assembly: an unused label, or unreachable code after an unconditional
// jump/ret. A symbol referenced but left undefined would already be a hard
// assembler error, so it never reaches the linter.
type LintFinding struct {
	Symbol  string
	Message string
}

// Lint inspects mod for unused symbols and unreachable code. warnUnused
// gates the unused-symbol pass, matching config.LintConfig.WarnUnusedSymbols;
// the unreachable-code pass always runs, since it flags a real dead-code
// mistake rather than a style preference.
//
// A third category, range-violation, was considered and dropped: every Link
// kind's patch step (see asm.Linker.patch) already range-checks its value
// and reports ErrRangeOverflow as a hard assembly error, so there is no
// value left in range that would still be worth a separate, softer lint
// warning.
func Lint(mod *asm.Module, warnUnused bool) []LintFinding {
	var findings []LintFinding
	if warnUnused {
		for _, sym := range mod.Symbols.UnusedSymbols() {
			findings = append(findings, LintFinding{
				Symbol:  sym.Name,
				Message: fmt.Sprintf("%s: %q is defined but never referenced", sym.Pos, sym.Name),
			})
		}
	}
	findings = append(findings, checkUnreachable(mod)...)
	return findings
}

// checkUnreachable flags the first instruction immediately following an
// unconditional jp/jr/ret/reti/retn that is not itself the target of any
// label, matching the teacher's checkUnreachableCode: only one finding per
// dead-code block, since every instruction after the first is unreachable
// for the same reason.
func checkUnreachable(mod *asm.Module) []LintFinding {
	targets := mod.Symbols.DefinedAddresses()

	var findings []LintFinding
	instrs := mod.Instructions
	for i := 0; i+1 < len(instrs); i++ {
		if !instrs[i].Unconditional {
			continue
		}
		next := instrs[i+1]
		if targets[next.Addr] {
			continue
		}
		findings = append(findings, LintFinding{
			Message: fmt.Sprintf("%s: unreachable code after unconditional %s", next.Pos, instrs[i].Mnemonic),
		})
	}
	return findings
}
