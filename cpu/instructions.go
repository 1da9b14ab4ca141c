package cpu

// handlerFunc executes one opcode's side effects given its resolved
// operand. It returns any cycle count beyond the instruction's base cost
// that isn't already covered by the generic page-cross penalty in Step
// (used only by branch instructions, for the taken/taken-and-crossed cases).
type handlerFunc func(c *CPU, op operand) uint8

// instruction is one row of the 256-entry dispatch table.
type instruction struct {
	mnemonic     string
	mode         AddrMode
	cycles       uint8 // base cycle cost
	size         uint8 // encoded length in bytes
	crossPenalty bool  // this opcode's reads take the generic page-cross +1
	setsPC       bool  // handler sets PC explicitly (JMP/JSR/RTS/RTI/BRK/branches)
	implemented  bool
	handler      handlerFunc
}

var instructionTable [256]instruction

func def(opcode uint8, mnemonic string, mode AddrMode, cycles uint8, crossPenalty bool, h handlerFunc) {
	setsPC := mnemonic == "JMP" || mnemonic == "JSR" || mnemonic == "RTS" || mnemonic == "RTI" || mnemonic == "BRK" || isBranch(mnemonic)
	instructionTable[opcode] = instruction{
		mnemonic:     mnemonic,
		mode:         mode,
		cycles:       cycles,
		size:         mode.sizeBytes(),
		crossPenalty: crossPenalty,
		setsPC:       setsPC,
		implemented:  true,
		handler:      h,
	}
}

func isBranch(mnemonic string) bool {
	switch mnemonic {
	case "BCC", "BCS", "BEQ", "BNE", "BMI", "BPL", "BVC", "BVS":
		return true
	default:
		return false
	}
}

// Mnemonic returns the decoded opcode's mnemonic, for diagnostics. Returns
// "???" for unimplemented bytes.
func Mnemonic(opcode uint8) string {
	if !instructionTable[opcode].implemented {
		return "???"
	}
	return instructionTable[opcode].mnemonic
}

func init() {
	defineLoadStore()
	defineTransfer()
	defineStack()
	defineArithmetic()
	defineLogic()
	defineShifts()
	defineIncDec()
	defineBranches()
	defineJumps()
	defineFlags()
	defineCompare()
	defineMisc()
}

// --- Load/Store -------------------------------------------------------

func defineLoadStore() {
	def(0xA9, "LDA", Immediate, 2, false, opLDA)
	def(0xA5, "LDA", ZeroPage, 3, false, opLDA)
	def(0xB5, "LDA", ZeroPageX, 4, false, opLDA)
	def(0xAD, "LDA", Absolute, 4, false, opLDA)
	def(0xBD, "LDA", AbsoluteX, 4, true, opLDA)
	def(0xB9, "LDA", AbsoluteY, 4, true, opLDA)
	def(0xA1, "LDA", IndirectX, 6, false, opLDA)
	def(0xB1, "LDA", IndirectY, 5, true, opLDA)

	def(0xA2, "LDX", Immediate, 2, false, opLDX)
	def(0xA6, "LDX", ZeroPage, 3, false, opLDX)
	def(0xB6, "LDX", ZeroPageY, 4, false, opLDX)
	def(0xAE, "LDX", Absolute, 4, false, opLDX)
	def(0xBE, "LDX", AbsoluteY, 4, true, opLDX)

	def(0xA0, "LDY", Immediate, 2, false, opLDY)
	def(0xA4, "LDY", ZeroPage, 3, false, opLDY)
	def(0xB4, "LDY", ZeroPageX, 4, false, opLDY)
	def(0xAC, "LDY", Absolute, 4, false, opLDY)
	def(0xBC, "LDY", AbsoluteX, 4, true, opLDY)

	def(0x85, "STA", ZeroPage, 3, false, opSTA)
	def(0x95, "STA", ZeroPageX, 4, false, opSTA)
	def(0x8D, "STA", Absolute, 4, false, opSTA)
	def(0x9D, "STA", AbsoluteX, 5, false, opSTA)
	def(0x99, "STA", AbsoluteY, 5, false, opSTA)
	def(0x81, "STA", IndirectX, 6, false, opSTA)
	def(0x91, "STA", IndirectY, 6, false, opSTA)

	def(0x86, "STX", ZeroPage, 3, false, opSTX)
	def(0x96, "STX", ZeroPageY, 4, false, opSTX)
	def(0x8E, "STX", Absolute, 4, false, opSTX)

	def(0x84, "STY", ZeroPage, 3, false, opSTY)
	def(0x94, "STY", ZeroPageX, 4, false, opSTY)
	def(0x8C, "STY", Absolute, 4, false, opSTY)
}

func opLDA(c *CPU, op operand) uint8 { c.a = c.zn(c.bus.Read(op.addr)); return 0 }
func opLDX(c *CPU, op operand) uint8 { c.x = c.zn(c.bus.Read(op.addr)); return 0 }
func opLDY(c *CPU, op operand) uint8 { c.y = c.zn(c.bus.Read(op.addr)); return 0 }
func opSTA(c *CPU, op operand) uint8 { c.bus.Write(op.addr, c.a); return 0 }
func opSTX(c *CPU, op operand) uint8 { c.bus.Write(op.addr, c.x); return 0 }
func opSTY(c *CPU, op operand) uint8 { c.bus.Write(op.addr, c.y); return 0 }

// --- Register transfer -------------------------------------------------

func defineTransfer() {
	def(0xAA, "TAX", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.x = c.zn(c.a); return 0 })
	def(0xA8, "TAY", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.y = c.zn(c.a); return 0 })
	def(0x8A, "TXA", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.a = c.zn(c.x); return 0 })
	def(0x98, "TYA", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.a = c.zn(c.y); return 0 })
	def(0xBA, "TSX", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.x = c.zn(c.sp); return 0 })
	// TXS touches no flags, distinguishing it from TSX.
	def(0x9A, "TXS", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.sp = c.x; return 0 })
}

// --- Stack ---------------------------------------------------------------

func defineStack() {
	def(0x48, "PHA", Implicit, 3, false, func(c *CPU, _ operand) uint8 { c.push(c.a); return 0 })
	def(0x08, "PHP", Implicit, 3, false, func(c *CPU, _ operand) uint8 {
		c.push(c.p | flagUnused | FlagBreak)
		return 0
	})
	def(0x68, "PLA", Implicit, 4, false, func(c *CPU, _ operand) uint8 { c.a = c.zn(c.pull()); return 0 })
	def(0x28, "PLP", Implicit, 4, false, func(c *CPU, _ operand) uint8 {
		c.p = c.pull() &^ (flagUnused | FlagBreak)
		return 0
	})
}

// --- Arithmetic (ADC/SBC) -------------------------------------------------

func defineArithmetic() {
	def(0x69, "ADC", Immediate, 2, false, opADC)
	def(0x65, "ADC", ZeroPage, 3, false, opADC)
	def(0x75, "ADC", ZeroPageX, 4, false, opADC)
	def(0x6D, "ADC", Absolute, 4, false, opADC)
	def(0x7D, "ADC", AbsoluteX, 4, true, opADC)
	def(0x79, "ADC", AbsoluteY, 4, true, opADC)
	def(0x61, "ADC", IndirectX, 6, false, opADC)
	def(0x71, "ADC", IndirectY, 5, true, opADC)

	def(0xE9, "SBC", Immediate, 2, false, opSBC)
	def(0xE5, "SBC", ZeroPage, 3, false, opSBC)
	def(0xF5, "SBC", ZeroPageX, 4, false, opSBC)
	def(0xED, "SBC", Absolute, 4, false, opSBC)
	def(0xFD, "SBC", AbsoluteX, 4, true, opSBC)
	def(0xF9, "SBC", AbsoluteY, 4, true, opSBC)
	def(0xE1, "SBC", IndirectX, 6, false, opSBC)
	def(0xF1, "SBC", IndirectY, 5, true, opSBC)
}

// opADC implements binary (non-BCD) addition with carry regardless of the D
// flag: decimal-mode ADC/SBC is explicitly out of scope (spec.md's Open
// Questions). N, Z, C, V are all touched.
func opADC(c *CPU, op operand) uint8 {
	v := c.bus.Read(op.addr)
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.a) + uint16(v) + carry
	result := uint8(sum)
	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (c.a^v)&0x80 == 0 && (c.a^result)&0x80 != 0)
	c.a = c.zn(result)
	return 0
}

// opSBC is ADC with the operand's one's complement, the standard 6502
// identity (SBC = ADC(A, ~v, C)).
func opSBC(c *CPU, op operand) uint8 {
	v := ^c.bus.Read(op.addr)
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.a) + uint16(v) + carry
	result := uint8(sum)
	c.setFlag(FlagCarry, sum > 0xFF)
	c.setFlag(FlagOverflow, (c.a^v)&0x80 == 0 && (c.a^result)&0x80 != 0)
	c.a = c.zn(result)
	return 0
}

// --- Logic (AND/ORA/EOR/BIT) ----------------------------------------------

func defineLogic() {
	def(0x29, "AND", Immediate, 2, false, opAND)
	def(0x25, "AND", ZeroPage, 3, false, opAND)
	def(0x35, "AND", ZeroPageX, 4, false, opAND)
	def(0x2D, "AND", Absolute, 4, false, opAND)
	def(0x3D, "AND", AbsoluteX, 4, true, opAND)
	def(0x39, "AND", AbsoluteY, 4, true, opAND)
	def(0x21, "AND", IndirectX, 6, false, opAND)
	def(0x31, "AND", IndirectY, 5, true, opAND)

	def(0x09, "ORA", Immediate, 2, false, opORA)
	def(0x05, "ORA", ZeroPage, 3, false, opORA)
	def(0x15, "ORA", ZeroPageX, 4, false, opORA)
	def(0x0D, "ORA", Absolute, 4, false, opORA)
	def(0x1D, "ORA", AbsoluteX, 4, true, opORA)
	def(0x19, "ORA", AbsoluteY, 4, true, opORA)
	def(0x01, "ORA", IndirectX, 6, false, opORA)
	def(0x11, "ORA", IndirectY, 5, true, opORA)

	def(0x49, "EOR", Immediate, 2, false, opEOR)
	def(0x45, "EOR", ZeroPage, 3, false, opEOR)
	def(0x55, "EOR", ZeroPageX, 4, false, opEOR)
	def(0x4D, "EOR", Absolute, 4, false, opEOR)
	def(0x5D, "EOR", AbsoluteX, 4, true, opEOR)
	def(0x59, "EOR", AbsoluteY, 4, true, opEOR)
	def(0x41, "EOR", IndirectX, 6, false, opEOR)
	def(0x51, "EOR", IndirectY, 5, true, opEOR)

	def(0x24, "BIT", ZeroPage, 3, false, opBIT)
	def(0x2C, "BIT", Absolute, 4, false, opBIT)
}

func opAND(c *CPU, op operand) uint8 { c.a = c.zn(c.a & c.bus.Read(op.addr)); return 0 }
func opORA(c *CPU, op operand) uint8 { c.a = c.zn(c.a | c.bus.Read(op.addr)); return 0 }
func opEOR(c *CPU, op operand) uint8 { c.a = c.zn(c.a ^ c.bus.Read(op.addr)); return 0 }

// opBIT sets N and V directly from the operand's bits 7 and 6, and Z from
// A AND operand — it never touches A itself.
func opBIT(c *CPU, op operand) uint8 {
	v := c.bus.Read(op.addr)
	c.setFlag(FlagNegative, v&0x80 != 0)
	c.setFlag(FlagOverflow, v&0x40 != 0)
	c.setFlag(FlagZero, c.a&v == 0)
	return 0
}

// --- Shifts/rotates (ASL/LSR/ROL/ROR) -------------------------------------

func defineShifts() {
	def(0x0A, "ASL", Accumulator, 2, false, opASL)
	def(0x06, "ASL", ZeroPage, 5, false, opASL)
	def(0x16, "ASL", ZeroPageX, 6, false, opASL)
	def(0x0E, "ASL", Absolute, 6, false, opASL)
	def(0x1E, "ASL", AbsoluteX, 7, false, opASL)

	def(0x4A, "LSR", Accumulator, 2, false, opLSR)
	def(0x46, "LSR", ZeroPage, 5, false, opLSR)
	def(0x56, "LSR", ZeroPageX, 6, false, opLSR)
	def(0x4E, "LSR", Absolute, 6, false, opLSR)
	def(0x5E, "LSR", AbsoluteX, 7, false, opLSR)

	def(0x2A, "ROL", Accumulator, 2, false, opROL)
	def(0x26, "ROL", ZeroPage, 5, false, opROL)
	def(0x36, "ROL", ZeroPageX, 6, false, opROL)
	def(0x2E, "ROL", Absolute, 6, false, opROL)
	def(0x3E, "ROL", AbsoluteX, 7, false, opROL)

	def(0x6A, "ROR", Accumulator, 2, false, opROR)
	def(0x66, "ROR", ZeroPage, 5, false, opROR)
	def(0x76, "ROR", ZeroPageX, 6, false, opROR)
	def(0x6E, "ROR", Absolute, 6, false, opROR)
	def(0x7E, "ROR", AbsoluteX, 7, false, opROR)
}

func (c *CPU) rmwOperand(op operand, mode AddrMode, fn func(uint8) uint8) {
	if mode == Accumulator {
		c.a = fn(c.a)
		return
	}
	v := c.bus.Read(op.addr)
	c.bus.Write(op.addr, fn(v)) // only the result is written; the hardware's spurious write of the original is not modelled
}

func opASL(c *CPU, op operand) uint8 {
	mode := currentInstructionMode(c)
	c.rmwOperand(op, mode, func(v uint8) uint8 {
		c.setFlag(FlagCarry, v&0x80 != 0)
		return c.zn(v << 1)
	})
	return 0
}

func opLSR(c *CPU, op operand) uint8 {
	mode := currentInstructionMode(c)
	c.rmwOperand(op, mode, func(v uint8) uint8 {
		c.setFlag(FlagCarry, v&0x01 != 0)
		return c.zn(v >> 1)
	})
	return 0
}

func opROL(c *CPU, op operand) uint8 {
	mode := currentInstructionMode(c)
	c.rmwOperand(op, mode, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flag(FlagCarry) {
			oldCarry = 1
		}
		c.setFlag(FlagCarry, v&0x80 != 0)
		return c.zn(v<<1 | oldCarry)
	})
	return 0
}

func opROR(c *CPU, op operand) uint8 {
	mode := currentInstructionMode(c)
	c.rmwOperand(op, mode, func(v uint8) uint8 {
		oldCarry := uint8(0)
		if c.flag(FlagCarry) {
			oldCarry = 0x80
		}
		c.setFlag(FlagCarry, v&0x01 != 0)
		return c.zn(v>>1 | oldCarry)
	})
	return 0
}

// currentInstructionMode recovers the addressing mode of the opcode Step is
// currently executing, so the shared RMW helper can special-case
// Accumulator without each opcode definition needing to close over it.
func currentInstructionMode(c *CPU) AddrMode {
	return instructionTable[c.bus.Read(c.pc)].mode
}

// --- Increment/decrement ---------------------------------------------------

func defineIncDec() {
	def(0xE6, "INC", ZeroPage, 5, false, opINC)
	def(0xF6, "INC", ZeroPageX, 6, false, opINC)
	def(0xEE, "INC", Absolute, 6, false, opINC)
	def(0xFE, "INC", AbsoluteX, 7, false, opINC)

	def(0xC6, "DEC", ZeroPage, 5, false, opDEC)
	def(0xD6, "DEC", ZeroPageX, 6, false, opDEC)
	def(0xCE, "DEC", Absolute, 6, false, opDEC)
	def(0xDE, "DEC", AbsoluteX, 7, false, opDEC)

	def(0xE8, "INX", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.x = c.zn(c.x + 1); return 0 })
	def(0xC8, "INY", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.y = c.zn(c.y + 1); return 0 })
	def(0xCA, "DEX", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.x = c.zn(c.x - 1); return 0 })
	def(0x88, "DEY", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.y = c.zn(c.y - 1); return 0 })
}

func opINC(c *CPU, op operand) uint8 {
	c.bus.Write(op.addr, c.zn(c.bus.Read(op.addr)+1))
	return 0
}

func opDEC(c *CPU, op operand) uint8 {
	c.bus.Write(op.addr, c.zn(c.bus.Read(op.addr)-1))
	return 0
}

// --- Branches ---------------------------------------------------------------

func defineBranches() {
	def(0x90, "BCC", Relative, 2, false, branchHandler(func(c *CPU) bool { return !c.flag(FlagCarry) }))
	def(0xB0, "BCS", Relative, 2, false, branchHandler(func(c *CPU) bool { return c.flag(FlagCarry) }))
	def(0xF0, "BEQ", Relative, 2, false, branchHandler(func(c *CPU) bool { return c.flag(FlagZero) }))
	def(0xD0, "BNE", Relative, 2, false, branchHandler(func(c *CPU) bool { return !c.flag(FlagZero) }))
	def(0x30, "BMI", Relative, 2, false, branchHandler(func(c *CPU) bool { return c.flag(FlagNegative) }))
	def(0x10, "BPL", Relative, 2, false, branchHandler(func(c *CPU) bool { return !c.flag(FlagNegative) }))
	def(0x50, "BVC", Relative, 2, false, branchHandler(func(c *CPU) bool { return !c.flag(FlagOverflow) }))
	def(0x70, "BVS", Relative, 2, false, branchHandler(func(c *CPU) bool { return c.flag(FlagOverflow) }))
}

// branchHandler builds a handler for a conditional branch: not taken costs
// the base 2 cycles (handler returns 0 extra and sets PC to the next
// instruction itself, since Step skips its +size_bytes advance for branches —
// branches are 2-byte instructions regardless of whether they're taken);
// taken costs 3 (or 4 if the target is on a different page than the
// post-instruction PC).
func branchHandler(taken func(c *CPU) bool) handlerFunc {
	return func(c *CPU, op operand) uint8 {
		next := c.pc + 2
		if !taken(c) {
			c.pc = next
			return 0
		}
		extra := uint8(1)
		if pageCrossed16(next, op.addr) {
			extra = 2
		}
		c.pc = op.addr
		return extra
	}
}

// --- Jumps/calls/returns -----------------------------------------------------

func defineJumps() {
	def(0x4C, "JMP", Absolute, 3, false, func(c *CPU, op operand) uint8 { c.pc = op.addr; return 0 })
	def(0x6C, "JMP", Indirect, 5, false, func(c *CPU, op operand) uint8 { c.pc = op.addr; return 0 })

	def(0x20, "JSR", Absolute, 6, false, func(c *CPU, op operand) uint8 {
		ret := c.pc + 2 // address of the last byte of JSR, per 6502 convention
		c.push(uint8(ret >> 8))
		c.push(uint8(ret))
		c.pc = op.addr
		return 0
	})

	def(0x60, "RTS", Implicit, 6, false, func(c *CPU, _ operand) uint8 {
		lo := uint16(c.pull())
		hi := uint16(c.pull())
		c.pc = (hi<<8 | lo) + 1
		return 0
	})

	def(0x40, "RTI", Implicit, 6, false, func(c *CPU, _ operand) uint8 {
		c.p = c.pull() &^ (flagUnused | FlagBreak)
		lo := uint16(c.pull())
		hi := uint16(c.pull())
		c.pc = hi<<8 | lo
		return 0
	})
}

// --- Flag instructions ---------------------------------------------------

func defineFlags() {
	def(0x18, "CLC", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagCarry, false); return 0 })
	def(0x38, "SEC", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagCarry, true); return 0 })
	def(0x58, "CLI", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagInterrupt, false); return 0 })
	def(0x78, "SEI", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagInterrupt, true); return 0 })
	def(0xD8, "CLD", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagDecimal, false); return 0 })
	def(0xF8, "SED", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagDecimal, true); return 0 })
	def(0xB8, "CLV", Implicit, 2, false, func(c *CPU, _ operand) uint8 { c.setFlag(FlagOverflow, false); return 0 })
}

// --- Compare ---------------------------------------------------------------

func defineCompare() {
	def(0xC9, "CMP", Immediate, 2, false, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xC5, "CMP", ZeroPage, 3, false, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xD5, "CMP", ZeroPageX, 4, false, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xCD, "CMP", Absolute, 4, false, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xDD, "CMP", AbsoluteX, 4, true, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xD9, "CMP", AbsoluteY, 4, true, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xC1, "CMP", IndirectX, 6, false, cmpWith(func(c *CPU) uint8 { return c.a }))
	def(0xD1, "CMP", IndirectY, 5, true, cmpWith(func(c *CPU) uint8 { return c.a }))

	def(0xE0, "CPX", Immediate, 2, false, cmpWith(func(c *CPU) uint8 { return c.x }))
	def(0xE4, "CPX", ZeroPage, 3, false, cmpWith(func(c *CPU) uint8 { return c.x }))
	def(0xEC, "CPX", Absolute, 4, false, cmpWith(func(c *CPU) uint8 { return c.x }))

	def(0xC0, "CPY", Immediate, 2, false, cmpWith(func(c *CPU) uint8 { return c.y }))
	def(0xC4, "CPY", ZeroPage, 3, false, cmpWith(func(c *CPU) uint8 { return c.y }))
	def(0xCC, "CPY", Absolute, 4, false, cmpWith(func(c *CPU) uint8 { return c.y }))
}

// cmpWith builds a compare handler: N, Z, C only (the subtraction result is
// discarded). C is set iff no borrow occurred, i.e. register >= operand.
func cmpWith(reg func(c *CPU) uint8) handlerFunc {
	return func(c *CPU, op operand) uint8 {
		v := c.bus.Read(op.addr)
		r := reg(c)
		result := r - v
		c.setFlag(FlagCarry, r >= v)
		c.zn(result)
		return 0
	}
}

// --- Misc: BRK, NOP ----------------------------------------------------------

func defineMisc() {
	def(0x00, "BRK", Implicit, 7, false, func(c *CPU, _ operand) uint8 {
		ret := c.pc + 2
		c.push(uint8(ret >> 8))
		c.push(uint8(ret))
		c.push(c.p | flagUnused | FlagBreak)
		c.setFlag(FlagInterrupt, true)
		c.pc = c.readWord(IRQVector)
		return 0
	})
	def(0xEA, "NOP", Implicit, 2, false, func(c *CPU, _ operand) uint8 { return 0 })
}
