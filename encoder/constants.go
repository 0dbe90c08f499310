package encoder

// reg8 maps the eight 3-bit register codes used throughout the Z80 opcode
// map. "(HL)" occupies code 6 and is handled specially by callers, since
// whether it's legal varies per instruction.
var reg8 = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "H": 4, "L": 5, "A": 7,
}

// reg8IX / reg8IY substitute IXH/IXL/IYH/IYL for H/L when an operand uses
// an indexed half-register directly (no displacement), which requires the
// DD/FD prefix but keeps the same 3-bit code as H/L.
var reg8IX = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "IXH": 4, "IXL": 5, "A": 7,
}

var reg8IY = map[string]byte{
	"B": 0, "C": 1, "D": 2, "E": 3, "IYH": 4, "IYL": 5, "A": 7,
}

// reg16 maps the four 2-bit register-pair codes used by most 16-bit
// instruction forms (BC, DE, HL/IX/IY, SP).
var reg16 = map[string]byte{
	"BC": 0, "DE": 1, "HL": 2, "SP": 3,
}

// reg16Stack maps the register-pair codes used by PUSH/POP, which use AF
// in place of SP at code 3.
var reg16Stack = map[string]byte{
	"BC": 0, "DE": 1, "HL": 2, "AF": 3,
}

// condition maps the eight 3-bit condition codes used by conditional
// JP/CALL/RET.
var condition = map[string]byte{
	"NZ": 0, "Z": 1, "NC": 2, "C": 3, "PO": 4, "PE": 5, "P": 6, "M": 7,
}

// aluOp maps each 8-bit ALU mnemonic to its 3-bit opcode field, shared by
// the register, immediate, and (HL)/(IX+d)/(IY+d) forms.
var aluOp = map[string]byte{
	"ADD": 0, "ADC": 1, "SUB": 2, "SBC": 3, "AND": 4, "XOR": 5, "OR": 6, "CP": 7,
}

// rotOp maps each CB-prefixed rotate/shift mnemonic to its 3-bit opcode
// field.
var rotOp = map[string]byte{
	"RLC": 0, "RRC": 1, "RL": 2, "RR": 3, "SLA": 4, "SRA": 5, "SRL": 7,
}

const (
	prefixIX byte = 0xDD
	prefixIY byte = 0xFD
	prefixED byte = 0xED
	prefixCB byte = 0xCB
)
