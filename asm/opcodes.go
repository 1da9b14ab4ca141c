package asm

// AddrMode mirrors cpu.AddrMode's 13 addressing modes. The assembler keeps
// its own copy rather than importing cpu: the two packages are peers (one
// encodes source to bytes, the other executes bytes) and neither needs the
// other's internals, only the wire format they agree on.
type AddrMode uint8

const (
	Implicit AddrMode = iota
	Accumulator
	Immediate
	ZeroPage
	ZeroPageX
	ZeroPageY
	Absolute
	AbsoluteX
	AbsoluteY
	Indirect
	IndirectX
	IndirectY
	Relative
)

func (m AddrMode) sizeBytes() int {
	switch m {
	case Implicit, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

var branchMnemonics = map[string]bool{
	"BCC": true, "BCS": true, "BEQ": true, "BNE": true,
	"BMI": true, "BPL": true, "BVC": true, "BVS": true,
}

// opcodeTable maps mnemonic -> addressing mode -> opcode byte. Only entries
// that are valid for a given mnemonic are present; an absent (mnemonic,
// mode) pair means that combination doesn't exist on real hardware and is
// an InvalidAddressingMode error.
var opcodeTable = map[string]map[AddrMode]uint8{
	"LDA": {Immediate: 0xA9, ZeroPage: 0xA5, ZeroPageX: 0xB5, Absolute: 0xAD, AbsoluteX: 0xBD, AbsoluteY: 0xB9, IndirectX: 0xA1, IndirectY: 0xB1},
	"LDX": {Immediate: 0xA2, ZeroPage: 0xA6, ZeroPageY: 0xB6, Absolute: 0xAE, AbsoluteY: 0xBE},
	"LDY": {Immediate: 0xA0, ZeroPage: 0xA4, ZeroPageX: 0xB4, Absolute: 0xAC, AbsoluteX: 0xBC},
	"STA": {ZeroPage: 0x85, ZeroPageX: 0x95, Absolute: 0x8D, AbsoluteX: 0x9D, AbsoluteY: 0x99, IndirectX: 0x81, IndirectY: 0x91},
	"STX": {ZeroPage: 0x86, ZeroPageY: 0x96, Absolute: 0x8E},
	"STY": {ZeroPage: 0x84, ZeroPageX: 0x94, Absolute: 0x8C},

	"TAX": {Implicit: 0xAA}, "TAY": {Implicit: 0xA8},
	"TXA": {Implicit: 0x8A}, "TYA": {Implicit: 0x98},
	"TSX": {Implicit: 0xBA}, "TXS": {Implicit: 0x9A},

	"PHA": {Implicit: 0x48}, "PHP": {Implicit: 0x08},
	"PLA": {Implicit: 0x68}, "PLP": {Implicit: 0x28},

	"ADC": {Immediate: 0x69, ZeroPage: 0x65, ZeroPageX: 0x75, Absolute: 0x6D, AbsoluteX: 0x7D, AbsoluteY: 0x79, IndirectX: 0x61, IndirectY: 0x71},
	"SBC": {Immediate: 0xE9, ZeroPage: 0xE5, ZeroPageX: 0xF5, Absolute: 0xED, AbsoluteX: 0xFD, AbsoluteY: 0xF9, IndirectX: 0xE1, IndirectY: 0xF1},

	"AND": {Immediate: 0x29, ZeroPage: 0x25, ZeroPageX: 0x35, Absolute: 0x2D, AbsoluteX: 0x3D, AbsoluteY: 0x39, IndirectX: 0x21, IndirectY: 0x31},
	"ORA": {Immediate: 0x09, ZeroPage: 0x05, ZeroPageX: 0x15, Absolute: 0x0D, AbsoluteX: 0x1D, AbsoluteY: 0x19, IndirectX: 0x01, IndirectY: 0x11},
	"EOR": {Immediate: 0x49, ZeroPage: 0x45, ZeroPageX: 0x55, Absolute: 0x4D, AbsoluteX: 0x5D, AbsoluteY: 0x59, IndirectX: 0x41, IndirectY: 0x51},
	"BIT": {ZeroPage: 0x24, Absolute: 0x2C},

	"ASL": {Accumulator: 0x0A, ZeroPage: 0x06, ZeroPageX: 0x16, Absolute: 0x0E, AbsoluteX: 0x1E},
	"LSR": {Accumulator: 0x4A, ZeroPage: 0x46, ZeroPageX: 0x56, Absolute: 0x4E, AbsoluteX: 0x5E},
	"ROL": {Accumulator: 0x2A, ZeroPage: 0x26, ZeroPageX: 0x36, Absolute: 0x2E, AbsoluteX: 0x3E},
	"ROR": {Accumulator: 0x6A, ZeroPage: 0x66, ZeroPageX: 0x76, Absolute: 0x6E, AbsoluteX: 0x7E},

	"INC": {ZeroPage: 0xE6, ZeroPageX: 0xF6, Absolute: 0xEE, AbsoluteX: 0xFE},
	"DEC": {ZeroPage: 0xC6, ZeroPageX: 0xD6, Absolute: 0xCE, AbsoluteX: 0xDE},
	"INX": {Implicit: 0xE8}, "INY": {Implicit: 0xC8},
	"DEX": {Implicit: 0xCA}, "DEY": {Implicit: 0x88},

	"BCC": {Relative: 0x90}, "BCS": {Relative: 0xB0},
	"BEQ": {Relative: 0xF0}, "BNE": {Relative: 0xD0},
	"BMI": {Relative: 0x30}, "BPL": {Relative: 0x10},
	"BVC": {Relative: 0x50}, "BVS": {Relative: 0x70},

	"JMP": {Absolute: 0x4C, Indirect: 0x6C},
	"JSR": {Absolute: 0x20},
	"RTS": {Implicit: 0x60},
	"RTI": {Implicit: 0x40},

	"CLC": {Implicit: 0x18}, "SEC": {Implicit: 0x38},
	"CLI": {Implicit: 0x58}, "SEI": {Implicit: 0x78},
	"CLD": {Implicit: 0xD8}, "SED": {Implicit: 0xF8},
	"CLV": {Implicit: 0xB8},

	"CMP": {Immediate: 0xC9, ZeroPage: 0xC5, ZeroPageX: 0xD5, Absolute: 0xCD, AbsoluteX: 0xDD, AbsoluteY: 0xD9, IndirectX: 0xC1, IndirectY: 0xD1},
	"CPX": {Immediate: 0xE0, ZeroPage: 0xE4, Absolute: 0xEC},
	"CPY": {Immediate: 0xC0, ZeroPage: 0xC4, Absolute: 0xCC},

	"BRK": {Implicit: 0x00},
	"NOP": {Implicit: 0xEA},
}
