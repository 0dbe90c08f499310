package encoder

// encodeJP handles JP nn, JP cc,nn, JP (HL)/(IX)/(IY).
func encodeJP(ops []Operand) (Result, error) {
	switch len(ops) {
	case 1:
		o := ops[0]
		if o.Kind == Indirect && o.Register == "HL" {
			return noSlots(0xE9), nil
		}
		if o.Kind == Indirect && (o.Register == "IX" || o.Register == "IY") {
			return noSlots(indexPrefix(o.Register), 0xE9), nil
		}
		if o.Kind == Immediate {
			return Result{Bytes: []byte{0xC3, 0, 0}, ImmByteOff: -1, RelOff: -1, DispOff: -1, ImmWordOff: 1}, nil
		}
	case 2:
		if ops[0].Kind == Condition && ops[1].Kind == Immediate {
			cc := condition[ops[0].Register]
			return Result{Bytes: []byte{0xC2 | cc<<3, 0, 0}, ImmByteOff: -1, RelOff: -1, DispOff: -1, ImmWordOff: 1}, nil
		}
	}
	return Result{}, &Error{Mnemonic: "JP", Msg: "unsupported operand"}
}

// encodeJR handles JR e and JR cc,e for cc in {NZ,Z,NC,C} only.
func encodeJR(ops []Operand) (Result, error) {
	switch len(ops) {
	case 1:
		if ops[0].Kind == Immediate {
			return Result{Bytes: []byte{0x18, 0}, ImmByteOff: -1, ImmWordOff: -1, DispOff: -1, RelOff: 1}, nil
		}
	case 2:
		if ops[0].Kind == Condition {
			var base byte
			switch ops[0].Register {
			case "NZ":
				base = 0x20
			case "Z":
				base = 0x28
			case "NC":
				base = 0x30
			case "C":
				base = 0x38
			default:
				return Result{}, &Error{Mnemonic: "JR", Msg: "condition must be NZ, Z, NC, or C"}
			}
			return Result{Bytes: []byte{base, 0}, ImmByteOff: -1, ImmWordOff: -1, DispOff: -1, RelOff: 1}, nil
		}
	}
	return Result{}, &Error{Mnemonic: "JR", Msg: "unsupported operand"}
}

func encodeDJNZ(ops []Operand) (Result, error) {
	if len(ops) != 1 || ops[0].Kind != Immediate {
		return Result{}, &Error{Mnemonic: "DJNZ", Msg: "expects one target operand"}
	}
	return Result{Bytes: []byte{0x10, 0}, ImmByteOff: -1, ImmWordOff: -1, DispOff: -1, RelOff: 1}, nil
}

func encodeCALL(ops []Operand) (Result, error) {
	switch len(ops) {
	case 1:
		if ops[0].Kind == Immediate {
			return Result{Bytes: []byte{0xCD, 0, 0}, ImmByteOff: -1, RelOff: -1, DispOff: -1, ImmWordOff: 1}, nil
		}
	case 2:
		if ops[0].Kind == Condition && ops[1].Kind == Immediate {
			cc := condition[ops[0].Register]
			return Result{Bytes: []byte{0xC4 | cc<<3, 0, 0}, ImmByteOff: -1, RelOff: -1, DispOff: -1, ImmWordOff: 1}, nil
		}
	}
	return Result{}, &Error{Mnemonic: "CALL", Msg: "unsupported operand"}
}

func encodeRET(ops []Operand) (Result, error) {
	switch len(ops) {
	case 0:
		return noSlots(0xC9), nil
	case 1:
		if ops[0].Kind == Condition {
			return noSlots(0xC0 | condition[ops[0].Register]<<3), nil
		}
	}
	return Result{}, &Error{Mnemonic: "RET", Msg: "unsupported operand"}
}

// validRST is the set of byte offsets RST accepts: the eight 8-byte
// interrupt-vector slots, 0x00 through 0x38.
var validRST = map[int32]byte{
	0x00: 0, 0x08: 1, 0x10: 2, 0x18: 3, 0x20: 4, 0x28: 5, 0x30: 6, 0x38: 7,
}

func encodeRST(ops []Operand) (Result, error) {
	if len(ops) != 1 || ops[0].Kind != Immediate {
		return Result{}, &Error{Mnemonic: "RST", Msg: "expects one immediate operand"}
	}
	code, ok := validRST[ops[0].Imm]
	if !ok {
		return Result{}, &Error{Mnemonic: "RST", Msg: "target must be one of 0x00,0x08,...,0x38"}
	}
	return noSlots(0xC7 | code<<3), nil
}
