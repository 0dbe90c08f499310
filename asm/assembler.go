package asm

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/lookbusy1344/z80asm/encoder"
	"github.com/lookbusy1344/z80asm/lexer"
)

// Module is the result of a successful assembly run: the flat byte image,
// the address it was laid out at, and the final symbol table (useful for
// -dump-symbols and the inspector).
type Module struct {
	Bytes        []byte
	Origin       int32
	Symbols      *SymbolTable
	Instructions []InstrInfo
}

// InstrInfo records one emitted instruction's address and whether it
// unconditionally transfers control away (an unconditional jp/jr/ret/reti/
// retn), for the linter's unreachable-code-after-jump check. @db/@dw/@ds
// data and directives don't appear here; only instruction() calls record
// one.
type InstrInfo struct {
	Addr          int32
	Len           int
	Mnemonic      string
	Unconditional bool
	Pos           lexer.Position
}

// Assembler is the top-level driver: it owns the shared string/path
// interners, symbol table, macro table, and linker, and walks a stack of
// Parsers (one per nested @include) emitting bytes and deferred Links as
// it goes. Unlike a two-pass assembler, this one needs only a single pass
// over the token stream: every forward reference becomes a Link, resolved
// once at the end of AssembleFile.
type Assembler struct {
	fm      *FileManager
	strs    *lexer.Interner
	symtab  *SymbolTable
	macros  *MacroTable
	macroExp *MacroExpander
	linker  *Linker
	diags   *Diagnostics

	here int32
	base int32

	output []byte
	instrs []InstrInfo

	structs map[string]*StructDef
	enums   map[string]*EnumDef

	activeGlobal string

	p      *Parser
	pstack []*Parser
	dirs   []string // current-file directory stack, parallel to pstack+p
	dir    string
}

// NewAssembler creates an Assembler ready to assemble a root file.
// searchPaths are additional directories @include searches after the
// including file's own directory.
func NewAssembler(searchPaths []string) *Assembler {
	return &Assembler{
		fm:      NewFileManager(searchPaths),
		strs:    lexer.NewInterner(),
		symtab:  NewSymbolTable(),
		macros:  NewMacroTable(),
		linker:  &Linker{},
		diags:   &Diagnostics{},
		structs: make(map[string]*StructDef),
		enums:   make(map[string]*EnumDef),
	}
}

// AssembleFile assembles path (and everything it transitively @includes)
// and returns the finished Module. A non-nil Diagnostics with HasErrors()
// true means the Module's Bytes are not trustworthy.
func (a *Assembler) AssembleFile(path string) (*Module, *Diagnostics) {
	a.macroExp = NewMacroExpander(a.macros)
	abs, err := filepath.Abs(path)
	if err != nil {
		a.diags.AddError(&Error{Kind: ErrIncludeNotFound, Msg: err.Error()})
		return nil, a.diags
	}
	if err := a.pushFile(abs, lexer.Position{}); err != nil {
		a.diags.AddError(err.(*Error))
		return nil, a.diags
	}

	a.run()

	if !a.diags.HasErrors() {
		a.linker.Resolve(a.output, a.symtab, a.base, a.diags)
	}
	return &Module{Bytes: a.output, Origin: a.base, Symbols: a.symtab, Instructions: a.instrs}, a.diags
}

func (a *Assembler) pushFile(path string, at lexer.Position) error {
	h, err := a.fm.Push(path, at)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return &Error{Pos: at, Kind: ErrIncludeNotFound, Msg: err.Error()}
	}
	defer f.Close()

	l := lexer.New(f, h, a.strs)
	toks, err := l.TokenizeAll()
	if err != nil {
		if le, ok := err.(*lexer.Error); ok {
			return &Error{Pos: le.Pos, Kind: ErrSyntax, Msg: le.Error()}
		}
		return &Error{Pos: at, Kind: ErrSyntax, Msg: err.Error()}
	}

	if a.p != nil {
		a.pstack = append(a.pstack, a.p)
		a.dirs = append(a.dirs, a.dir)
	}
	a.p = NewParser(toks, a.strs)
	a.p.qualify = a.qualifyLabel
	a.p.touch = a.symtab.Reference
	a.dir = filepath.Dir(path)
	return nil
}

func (a *Assembler) qualifyLabel(name string) string {
	if strings.HasPrefix(name, ".") {
		return a.activeGlobal + name
	}
	return name
}

func (a *Assembler) popFileIfDone() bool {
	if a.p.peek().Type != lexer.TokenEOF || len(a.pstack) == 0 {
		return false
	}
	a.fm.Pop()
	n := len(a.pstack)
	a.p = a.pstack[n-1]
	a.pstack = a.pstack[:n-1]
	a.dir = a.dirs[len(a.dirs)-1]
	a.dirs = a.dirs[:len(a.dirs)-1]
	return true
}

// run is the single-pass statement loop: skip blank lines, then dispatch
// each statement by its leading token. It stops at the first statement
// error.
func (a *Assembler) run() {
	for {
		for a.popFileIfDone() {
		}
		t := a.p.peek()
		if t.Type == lexer.TokenEOF {
			return
		}
		if t.Type == lexer.TokenNewLine || t.Type == lexer.TokenComment {
			a.p.next()
			continue
		}
		if err := a.statement(); err != nil {
			if ae, ok := err.(*Error); ok {
				a.diags.AddError(ae)
			} else {
				a.diags.AddError(&Error{Pos: t.Pos, Kind: ErrSyntax, Msg: err.Error()})
			}
			return
		}
	}
}

// recover discards tokens up to the next newline after a statement-level
// error, so one bad line doesn't cascade into dozens of spurious errors.
func (a *Assembler) recover() {
	for {
		t := a.p.peek()
		if t.Type == lexer.TokenEOF || t.Type == lexer.TokenNewLine {
			return
		}
		a.p.next()
	}
}

func (a *Assembler) statement() error {
	t := a.p.peek()
	switch t.Type {
	case lexer.TokenLabel:
		return a.labelOrExpressionStatement()
	case lexer.TokenDirective:
		a.p.next()
		return a.directive(t)
	case lexer.TokenOperation:
		a.p.next()
		return a.instruction(t)
	default:
		return a.p.errSyntaxf(t, "expected label, directive, or instruction, got %s", t)
	}
}

func (a *Assembler) labelOrExpressionStatement() error {
	t := a.p.next()
	if colon := a.p.peek(); colon.Type == lexer.TokenSymbol && colon.Literal == ":" {
		a.p.next()
		return a.defineLabel(t)
	}
	// A macro invocation: name(args...).
	if m, ok := a.macros.Lookup(t.Literal); ok {
		return a.expandMacroCall(m, t)
	}
	return a.p.errSyntaxf(t, "unexpected label %q outside of a definition or macro call", t.Literal)
}

func (a *Assembler) defineLabel(t lexer.Token) error {
	name := t.Literal
	switch t.LabelKind {
	case lexer.LabelGlobal:
		a.activeGlobal = name
	case lexer.LabelLocal:
		name = a.qualifyLabel(name)
	}
	return a.symtab.Define(name, t.Pos, a.here)
}

func (a *Assembler) expandMacroCall(m *Macro, nameTok lexer.Token) error {
	var args [][]lexer.Token
	if _, err := a.p.expectSymbol("("); err == nil {
		for {
			if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == ")" {
				a.p.next()
				break
			}
			var run []lexer.Token
			for {
				t := a.p.peek()
				if t.Type == lexer.TokenSymbol && (t.Literal == "," || t.Literal == ")") {
					break
				}
				run = append(run, a.p.next())
			}
			args = append(args, run)
			if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
				a.p.next()
			}
		}
	}
	expanded, err := a.macroExp.Expand(m, args, nameTok.Pos)
	if err != nil {
		return err
	}
	rest := a.p.toks[a.p.pos:]
	merged := make([]lexer.Token, 0, len(expanded)+len(rest))
	merged = append(merged, expanded...)
	merged = append(merged, rest...)
	a.p.toks = merged
	a.p.pos = 0
	return nil
}

// checkHere reports a hard error if here has advanced past the top of
// the 16-bit address space. Called after every here-advancing emission.
func (a *Assembler) checkHere(pos lexer.Position) error {
	if a.here > 0xFFFF {
		return &Error{Pos: pos, Kind: ErrAddressOverflow, Msg: "emission overflows the 16-bit address space"}
	}
	return nil
}

func (a *Assembler) emitBytes(pos lexer.Position, bs []byte) error {
	a.output = append(a.output, bs...)
	a.here += int32(len(bs))
	return a.checkHere(pos)
}

// emitDeferred reserves size bytes in the output and records a Link to
// patch them once expr resolves. @db/@dw values go through here;
// instruction() and @ds record their Links directly. Either way every
// reserved byte is covered by at most one Link.
func (a *Assembler) emitDeferred(pos lexer.Position, kind LinkKind, expr Expr, size int) error {
	offset := len(a.output)
	a.output = append(a.output, make([]byte, size)...)
	a.here += int32(size)
	a.linker.Add(Link{Pos: pos, Kind: kind, Offset: offset, Expr: expr})
	return a.checkHere(pos)
}

func (a *Assembler) instruction(mnemonicTok lexer.Token) error {
	var ops []Operand
	condContext := conditionMnemonics[mnemonicTok.Literal]
	if t := a.p.peek(); t.Type != lexer.TokenNewLine && t.Type != lexer.TokenEOF {
		for {
			// Only the first operand of jp/jr/call/ret can be a condition;
			// a second operand (jp c,nn's target) is never one, and ret's
			// sole operand is index 0, so gating on len(ops)==0 is exact.
			op, err := a.p.ParseOperand(condContext && len(ops) == 0)
			if err != nil {
				return err
			}
			ops = append(ops, op)
			if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
				a.p.next()
				continue
			}
			break
		}
	}

	encOps := make([]encoder.Operand, len(ops))
	var pendingImm Expr
	var pendingDisp Expr
	for i, op := range ops {
		eo := encoder.Operand{Register: op.Register}
		switch op.Kind {
		case OperandRegister:
			eo.Kind = encoder.Register
		case OperandCondition:
			eo.Kind = encoder.Condition
		case OperandIndirect:
			eo.Kind = encoder.Indirect
			if op.Disp != nil {
				eo.HasDisp = true
				pendingDisp = op.Disp
			}
			if op.Expr != nil {
				pendingImm = op.Expr
			}
		case OperandImmediate:
			eo.Kind = encoder.Immediate
			v, ok := a.tryEval(op.Expr)
			if ok {
				eo.Imm = v
			} else if i == 0 && requiresEagerImmediate(mnemonicTok.Literal) {
				return &Error{Pos: op.Pos, Kind: ErrUndefinedSymbol, Msg: "this operand cannot be a forward reference"}
			}
			pendingImm = op.Expr
		}
		encOps[i] = eo
	}

	res, err := encoder.Encode(mnemonicTok.Literal, encOps)
	if err != nil {
		return &Error{Pos: mnemonicTok.Pos, Kind: ErrBadOperand, Msg: err.Error()}
	}

	offset := len(a.output)
	addr := a.here
	a.output = append(a.output, res.Bytes...)
	a.here += int32(len(res.Bytes))

	a.instrs = append(a.instrs, InstrInfo{
		Addr:          addr,
		Len:           len(res.Bytes),
		Mnemonic:      mnemonicTok.Literal,
		Unconditional: isUnconditionalTransfer(mnemonicTok.Literal, ops),
		Pos:           mnemonicTok.Pos,
	})

	if res.DispOff >= 0 {
		expr := pendingDisp
		if expr == nil {
			expr = Expr{ExprNode{Op: OpNum, Number: 0}}
		}
		a.linker.Add(Link{Pos: mnemonicTok.Pos, Kind: LinkSignedByte, Offset: offset + res.DispOff, Expr: expr})
	}
	switch {
	case res.ImmByteOff >= 0 && pendingImm != nil:
		a.linker.Add(Link{Pos: mnemonicTok.Pos, Kind: LinkByte, Offset: offset + res.ImmByteOff, Expr: pendingImm})
	case res.ImmWordOff >= 0 && pendingImm != nil:
		a.linker.Add(Link{Pos: mnemonicTok.Pos, Kind: LinkWord, Offset: offset + res.ImmWordOff, Expr: pendingImm})
	case res.RelOff >= 0 && pendingImm != nil:
		// jr/djnz targets are relative: the displacement is target - here,
		// where here is the address immediately after this instruction
		// (a.here has already been advanced by its full length above).
		relExpr := make(Expr, 0, len(pendingImm)+2)
		relExpr = append(relExpr, pendingImm...)
		relExpr = append(relExpr, ExprNode{Op: OpNum, Number: a.here, Pos: mnemonicTok.Pos})
		relExpr = append(relExpr, ExprNode{Op: OpSub, Pos: mnemonicTok.Pos})
		a.linker.Add(Link{Pos: mnemonicTok.Pos, Kind: LinkSignedByte, Offset: offset + res.RelOff, Expr: relExpr})
	}
	return a.checkHere(mnemonicTok.Pos)
}

// isUnconditionalTransfer reports whether mnemonic (with its already-parsed
// operands) unconditionally hands control elsewhere, never falling through
// to the next instruction: jp/jr/ret/reti/retn with no condition operand.
// djnz is deliberately excluded, since the loop falls through once b hits
// zero.
func isUnconditionalTransfer(mnemonic string, ops []Operand) bool {
	switch mnemonic {
	case "JP", "JR":
		return len(ops) == 0 || ops[0].Kind != OperandCondition
	case "RET", "RETI", "RETN":
		return len(ops) == 0
	}
	return false
}

// requiresEagerImmediate reports whether mnemonic's first operand (a bit
// index, interrupt mode, or restart target) must be a resolvable
// constant at the point it's encoded, rather than a deferred Link.
func requiresEagerImmediate(mnemonic string) bool {
	switch mnemonic {
	case "BIT", "SET", "RES", "IM", "RST":
		return true
	}
	return false
}

func (a *Assembler) tryEval(e Expr) (int32, bool) {
	v, err := Evaluate(e, a.symtab.Resolver(a.here), a.here)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (a *Assembler) includeFile(relPath string, at lexer.Position) error {
	abs, err := a.fm.Resolve(relPath, a.dir)
	if err != nil {
		return err
	}
	return a.pushFile(abs, at)
}
