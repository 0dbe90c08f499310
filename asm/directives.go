package asm

import (
	"github.com/lookbusy1344/z80asm/lexer"
)

// StructField is one member of an @struct block: a name and its byte
// offset within the struct, computed from the cumulative size of the
// fields declared before it.
type StructField struct {
	Name   string
	Offset int
}

// StructDef is a compile-time-only record of field layout; @struct never
// emits bytes on its own; it exists so later @db/@dw references to
// "point.x" resolve through the Direct-label form to a constant offset.
type StructDef struct {
	Name   string
	Pos    lexer.Position
	Size   int
	Fields []StructField
}

// EnumDef assigns successive integer values (0, 1, 2, ... unless a member
// gives an explicit value) to a block of @enum names.
type EnumDef struct {
	Name    string
	Pos     lexer.Position
	Members map[string]int32
}

// directive dispatches a single @directive token already consumed by the
// statement loop in assembler.go. tok is the TokenDirective token itself,
// used for position reporting.
func (a *Assembler) directive(tok lexer.Token) error {
	switch tok.Literal {
	case "ORG":
		return a.directiveOrg(tok)
	case "ECHO":
		return a.directiveEcho(tok)
	case "DIE":
		return a.directiveDie(tok)
	case "ASSERT":
		return a.directiveAssert(tok)
	case "SYMBOL":
		return a.directiveSymbol(tok)
	case "DB":
		return a.directiveDB(tok)
	case "DW":
		return a.directiveDW(tok)
	case "DS":
		return a.directiveDS(tok)
	case "INCLUDE":
		return a.directiveInclude(tok)
	case "STRUCT":
		return a.directiveStruct(tok)
	case "ENUM":
		return a.directiveEnum(tok)
	case "MACRO":
		return a.directiveMacroDef(tok)
	default:
		return a.p.errSyntaxf(tok, "directive @%s not valid here", tok.Literal)
	}
}

func (a *Assembler) directiveOrg(tok lexer.Token) error {
	expr, err := a.p.ParseExpr()
	if err != nil {
		return err
	}
	v, err := Evaluate(expr, a.symtab.Resolver(a.here), a.here)
	if err != nil {
		return err
	}
	if v < 0 || v > 0xFFFF {
		return &Error{Pos: tok.Pos, Kind: ErrRangeOverflow, Msg: "@org target must fit in 16 bits"}
	}
	a.here = v
	a.base = v
	return nil
}

func (a *Assembler) directiveEcho(tok lexer.Token) error {
	t := a.p.peek()
	if t.Type != lexer.TokenString {
		return a.p.errSyntaxf(t, "@echo expects a string literal")
	}
	a.p.next()
	a.diags.AddWarning(Warning{Pos: tok.Pos, Msg: a.p.strs.Lookup(t.Str)})
	return nil
}

func (a *Assembler) directiveDie(tok lexer.Token) error {
	msg := "die"
	if t := a.p.peek(); t.Type == lexer.TokenString {
		a.p.next()
		msg = a.p.strs.Lookup(t.Str)
	}
	return &Error{Pos: tok.Pos, Kind: ErrUserDie, Msg: msg}
}

func (a *Assembler) directiveAssert(tok lexer.Token) error {
	expr, err := a.p.ParseExpr()
	if err != nil {
		return err
	}
	msg := ""
	if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
		a.p.next()
		st := a.p.peek()
		if st.Type != lexer.TokenString {
			return a.p.errSyntaxf(st, "@assert message must be a string literal")
		}
		a.p.next()
		msg = a.p.strs.Lookup(st.Str)
	}
	a.linker.Add(Link{Pos: tok.Pos, Kind: LinkAssert, Offset: len(a.output), Expr: expr, Msg: msg})
	return nil
}

func (a *Assembler) directiveSymbol(tok lexer.Token) error {
	nameTok := a.p.peek()
	if nameTok.Type != lexer.TokenLabel {
		return a.p.errSyntaxf(nameTok, "@symbol expects a name")
	}
	a.p.next()
	if _, err := a.p.expectSymbol(","); err != nil {
		return err
	}
	expr, err := a.p.ParseExpr()
	if err != nil {
		return err
	}
	return a.symtab.DefineExpr(nameTok.Literal, nameTok.Pos, expr)
}

func (a *Assembler) directiveDB(tok lexer.Token) error {
	return a.emitList(tok, 1)
}

func (a *Assembler) directiveDW(tok lexer.Token) error {
	return a.emitList(tok, 2)
}

// emitList parses a comma-separated list of expressions or string
// literals and writes them as unitSize-byte values (or raw bytes, for a
// string operand to @db). Every expression value is reserved and written
// through a deferred Link, whether or not it resolves immediately.
func (a *Assembler) emitList(tok lexer.Token, unitSize int) error {
	for {
		if t := a.p.peek(); t.Type == lexer.TokenString && unitSize == 1 {
			a.p.next()
			if err := a.emitBytes(tok.Pos, []byte(a.p.strs.Lookup(t.Str))); err != nil {
				return err
			}
		} else {
			expr, err := a.p.ParseExpr()
			if err != nil {
				return err
			}
			kind := LinkByte
			if unitSize == 2 {
				kind = LinkWord
			}
			if err := a.emitDeferred(tok.Pos, kind, expr, unitSize); err != nil {
				return err
			}
		}
		if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
			a.p.next()
			continue
		}
		return nil
	}
}

func (a *Assembler) directiveDS(tok lexer.Token) error {
	lenExpr, err := a.p.ParseExpr()
	if err != nil {
		return err
	}
	n, err := Evaluate(lenExpr, a.symtab.Resolver(a.here), a.here)
	if err != nil {
		return err
	}
	if n < 0 || n > 0xFFFF {
		return &Error{Pos: tok.Pos, Kind: ErrRangeOverflow, Msg: "@ds length must fit in 16 bits"}
	}
	fillExpr := Expr{ExprNode{Op: OpNum, Number: 0, Pos: tok.Pos}}
	if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
		a.p.next()
		fillExpr, err = a.p.ParseExpr()
		if err != nil {
			return err
		}
	}
	offset := len(a.output)
	a.output = append(a.output, make([]byte, n)...)
	a.here += n
	a.linker.Add(Link{Pos: tok.Pos, Kind: LinkSpace, Offset: offset, Len: int(n), Expr: fillExpr})
	return a.checkHere(tok.Pos)
}

func (a *Assembler) directiveInclude(tok lexer.Token) error {
	t := a.p.peek()
	if t.Type != lexer.TokenString {
		return a.p.errSyntaxf(t, "@include expects a string literal")
	}
	a.p.next()
	path := a.p.strs.Lookup(t.Str)
	return a.includeFile(path, tok.Pos)
}

func (a *Assembler) directiveStruct(tok lexer.Token) error {
	nameTok := a.p.peek()
	if nameTok.Type != lexer.TokenLabel {
		return a.p.errSyntaxf(nameTok, "@struct expects a name")
	}
	a.p.next()
	a.p.skipNewlines()

	def := &StructDef{Name: nameTok.Literal, Pos: nameTok.Pos}
	offset := 0
	for {
		t := a.p.peek()
		if t.Type == lexer.TokenDirective && t.Literal == "ENDS" {
			a.p.next()
			break
		}
		if t.Type == lexer.TokenNewLine {
			a.p.next()
			continue
		}
		if t.Type != lexer.TokenLabel {
			return a.p.errSyntaxf(t, "expected field name or @ends")
		}
		a.p.next()
		if _, err := a.p.expectSymbol(","); err != nil {
			return err
		}
		sizeExpr, err := a.p.ParseExpr()
		if err != nil {
			return err
		}
		size, err := Evaluate(sizeExpr, a.symtab.Resolver(a.here), a.here)
		if err != nil {
			return err
		}
		def.Fields = append(def.Fields, StructField{Name: t.Literal, Offset: offset})
		if err := a.symtab.Define(def.Name+"."+t.Literal, t.Pos, int32(offset)); err != nil {
			return err
		}
		offset += int(size)
		a.p.skipNewlines()
	}
	def.Size = offset
	a.structs[def.Name] = def
	return a.symtab.Define(def.Name, nameTok.Pos, int32(def.Size))
}

func (a *Assembler) directiveEnum(tok lexer.Token) error {
	nameTok := a.p.peek()
	if nameTok.Type != lexer.TokenLabel {
		return a.p.errSyntaxf(nameTok, "@enum expects a name")
	}
	a.p.next()
	a.p.skipNewlines()

	def := &EnumDef{Name: nameTok.Literal, Pos: nameTok.Pos, Members: map[string]int32{}}
	next := int32(0)
	for {
		t := a.p.peek()
		if t.Type == lexer.TokenDirective && t.Literal == "ENDE" {
			a.p.next()
			break
		}
		if t.Type == lexer.TokenNewLine {
			a.p.next()
			continue
		}
		if t.Type != lexer.TokenLabel {
			return a.p.errSyntaxf(t, "expected member name or @ende")
		}
		a.p.next()
		val := next
		if v := a.p.peek(); v.Type == lexer.TokenSymbol && v.Literal == "," {
			a.p.next()
			e, err := a.p.ParseExpr()
			if err != nil {
				return err
			}
			val, err = Evaluate(e, a.symtab.Resolver(a.here), a.here)
			if err != nil {
				return err
			}
		}
		def.Members[t.Literal] = val
		if err := a.symtab.Define(t.Literal, t.Pos, val); err != nil {
			return err
		}
		next = val + 1
		a.p.skipNewlines()
	}
	a.enums[def.Name] = def
	return nil
}

func (a *Assembler) directiveMacroDef(tok lexer.Token) error {
	nameTok := a.p.peek()
	if nameTok.Type != lexer.TokenLabel {
		return a.p.errSyntaxf(nameTok, "@macro expects a name")
	}
	a.p.next()
	m := &Macro{Name: nameTok.Literal, Pos: nameTok.Pos}
	if _, err := a.p.expectSymbol("("); err == nil {
		for {
			if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == ")" {
				a.p.next()
				break
			}
			pt := a.p.peek()
			if pt.Type != lexer.TokenLabel {
				return a.p.errSyntaxf(pt, "expected macro parameter name")
			}
			a.p.next()
			m.Params = append(m.Params, pt.Literal)
			if t := a.p.peek(); t.Type == lexer.TokenSymbol && t.Literal == "," {
				a.p.next()
			}
		}
	}
	a.p.skipNewlines()
	for {
		t := a.p.peek()
		if t.Type == lexer.TokenDirective && t.Literal == "ENDM" {
			a.p.next()
			break
		}
		if t.Type == lexer.TokenEOF {
			return a.p.errSyntaxf(t, "@macro %s missing @endm", m.Name)
		}
		m.Body = append(m.Body, a.p.next())
	}
	return a.macros.Define(m)
}
