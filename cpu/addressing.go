package cpu

// AddrMode identifies one of the 13 6502 addressing modes.
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
	Indirect // JMP only
	IndirectX
	IndirectY
	Relative
)

// sizeBytes is the encoded instruction length for each mode, per spec's
// invariant: Implicit/Accumulator=1, Immediate/ZP/ZP,X/ZP,Y/Relative/
// (Ind,X)/(Ind),Y=2, Absolute/Abs,X/Abs,Y/Indirect=3.
func (m AddrMode) sizeBytes() uint8 {
	switch m {
	case Implicit, Accumulator:
		return 1
	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		return 3
	default:
		return 2
	}
}

// pageCrossPenaltyEligible reports whether this mode can ever contribute a
// page-cross penalty cycle. It does not by itself mean the penalty applies:
// the instruction table additionally gates this per opcode, since stores
// and read-modify-write instructions on the same addressing mode never take
// the penalty (only reads do).
func (m AddrMode) pageCrossPenaltyEligible() bool {
	switch m {
	case AbsoluteX, AbsoluteY, IndirectY:
		return true
	default:
		return false
	}
}

// operand carries the effective address (where meaningful for the mode)
// plus whether resolving it crossed a page boundary, for the subset of
// modes that can.
type operand struct {
	addr        uint16
	pageCrossed bool
}

func pageCrossed16(base, final uint16) bool {
	return base&0xFF00 != final&0xFF00
}

// resolveOperand computes the effective address for mode, reading whatever
// bytes follow the opcode at c.pc. It does not advance PC: Step() does that
// after execution using the instruction's declared size, for every
// instruction whose handler does not set PC itself.
func (c *CPU) resolveOperand(mode AddrMode) operand {
	switch mode {
	case Implicit, Accumulator:
		return operand{}

	case Immediate:
		return operand{addr: c.pc + 1}

	case ZeroPage:
		return operand{addr: uint16(c.bus.Read(c.pc + 1))}

	case ZeroPageX:
		return operand{addr: uint16(c.bus.Read(c.pc+1) + c.x)}

	case ZeroPageY:
		return operand{addr: uint16(c.bus.Read(c.pc+1) + c.y)}

	case Absolute:
		return operand{addr: c.readWord(c.pc + 1)}

	case AbsoluteX:
		base := c.readWord(c.pc + 1)
		final := base + uint16(c.x)
		return operand{addr: final, pageCrossed: pageCrossed16(base, final)}

	case AbsoluteY:
		base := c.readWord(c.pc + 1)
		final := base + uint16(c.y)
		return operand{addr: final, pageCrossed: pageCrossed16(base, final)}

	case Indirect:
		ptr := c.readWord(c.pc + 1)
		// Hardware page-boundary bug: the high byte is fetched from
		// (ptr & 0xFF00) | ((ptr+1) & 0x00FF), never crossing into the
		// next page, so JMP ($10FF) reads its high byte from $1000.
		lo := uint16(c.bus.Read(ptr))
		hiAddr := (ptr & 0xFF00) | ((ptr + 1) & 0x00FF)
		hi := uint16(c.bus.Read(hiAddr))
		return operand{addr: lo | hi<<8}

	case IndirectX:
		ptr := uint16(c.bus.Read(c.pc+1) + c.x) // zero-page wraparound
		lo := uint16(c.bus.Read(ptr))
		hi := uint16(c.bus.Read((ptr + 1) & 0x00FF))
		return operand{addr: lo | hi<<8}

	case IndirectY:
		zp := uint16(c.bus.Read(c.pc + 1))
		lo := uint16(c.bus.Read(zp))
		hi := uint16(c.bus.Read((zp + 1) & 0x00FF))
		base := lo | hi<<8
		final := base + uint16(c.y)
		return operand{addr: final, pageCrossed: pageCrossed16(base, final)}

	case Relative:
		offset := int8(c.bus.Read(c.pc + 1))
		next := c.pc + 2
		return operand{addr: uint16(int32(next) + int32(offset))}

	default:
		return operand{}
	}
}
