package asm

import "fmt"

// Segment is a contiguous run of assembled bytes starting at Base, as
// delimited by .org directives.
type Segment struct {
	Base  uint16
	Bytes []byte
}

// AssembledOutput is everything Assemble produces on success.
type AssembledOutput struct {
	Bytes       []byte
	Segments    []Segment
	SymbolTable []Symbol
	SourceMap   *SourceMap
}

type encoder struct {
	items        []Item
	symtab       *SymbolTable
	sourceMap    *SourceMap
	resolvedMode []AddrMode
	errs         []AssemblyError
}

// Encode runs both assembler passes over items and produces the assembled
// output, or the ordered list of errors of the pass that reported them: pass
// 2 runs only when pass 1 found no errors.
func Encode(items []Item) (AssembledOutput, []AssemblyError) {
	e := &encoder{
		items:        items,
		symtab:       NewSymbolTable(),
		sourceMap:    NewSourceMap(),
		resolvedMode: make([]AddrMode, len(items)),
	}
	e.pass1()
	if len(e.errs) > 0 {
		return AssembledOutput{}, e.errs
	}
	out := e.pass2()
	if len(e.errs) > 0 {
		return AssembledOutput{}, e.errs
	}
	return out, nil
}

func (e *encoder) itemSize(it Item, idx int) int {
	switch v := it.(type) {
	case Instruction:
		mode := decideMode(v, e.symtab)
		if _, ok := opcodeTable[v.Mnemonic]; !ok {
			e.errs = append(e.errs, AssemblyError{Line: v.Line, Column: v.Column, Kind: KindInvalidAddressingMode, Message: fmt.Sprintf("unknown mnemonic %s", v.Mnemonic)})
			e.resolvedMode[idx] = Implicit
			return 0
		}
		if _, ok := opcodeTable[v.Mnemonic][mode]; !ok {
			e.errs = append(e.errs, AssemblyError{Line: v.Line, Column: v.Column, Kind: KindInvalidAddressingMode, Message: fmt.Sprintf("%s does not support this addressing mode", v.Mnemonic)})
			e.resolvedMode[idx] = Implicit
			return 0
		}
		e.resolvedMode[idx] = mode
		return mode.sizeBytes()

	case Directive:
		switch v.Kind {
		case DirectiveOrg:
			return 0
		case DirectiveByte:
			n := 0
			for _, a := range v.Args {
				if s, ok := a.(StringLit); ok {
					n += len(s.Value)
					continue
				}
				n++
			}
			return n
		case DirectiveWord:
			for _, a := range v.Args {
				if _, ok := a.(StringLit); ok {
					e.errs = append(e.errs, AssemblyError{Line: v.Line, Column: v.Column, Kind: KindParseError, Message: "String literals are not supported in .word directive"})
				}
			}
			return 2 * len(v.Args)
		}
	}
	return 0
}

// pass1 walks items in order, assigning label addresses and constant
// values and sizing every instruction and directive. Duplicate symbol
// names and unresolvable constant expressions are reported here.
func (e *encoder) pass1() {
	cursor := uint16(0)
	for idx, it := range e.items {
		switch v := it.(type) {
		case LabelDef:
			if existing, ok := e.symtab.AddSymbol(v.Name, cursor, SymbolLabel, v.Line); !ok {
				e.errs = append(e.errs, AssemblyError{
					Line: v.Line, Column: v.Column, Kind: KindDuplicateSymbol,
					Message: fmt.Sprintf("%s already defined at line %d", v.Name, existing.DefinedAt),
				})
			}

		case ConstantDef:
			val, err := evalExpr(v.Expr, e.symtab)
			if err != nil {
				e.errs = append(e.errs, *err)
				continue
			}
			if existing, ok := e.symtab.AddSymbol(v.Name, uint16(val), SymbolConstant, v.Line); !ok {
				e.errs = append(e.errs, AssemblyError{
					Line: v.Line, Column: v.Column, Kind: KindDuplicateSymbol,
					Message: fmt.Sprintf("%s already defined at line %d", v.Name, existing.DefinedAt),
				})
			}

		case Directive:
			if v.Kind == DirectiveOrg {
				val, err := evalExpr(v.Args[0], e.symtab)
				if err != nil {
					e.errs = append(e.errs, *err)
					continue
				}
				cursor = uint16(val)
				continue
			}
			cursor += uint16(e.itemSize(v, idx))

		case Instruction:
			cursor += uint16(e.itemSize(v, idx))
		}
	}
}

// pass2 re-walks items with every symbol now defined, emitting bytes,
// building the segment list and flat byte stream, and populating the
// source map. Undefined symbols, out-of-range branches, and addressing
// values that don't fit their resolved mode are reported here.
func (e *encoder) pass2() AssembledOutput {
	var segments []Segment
	var flat []byte
	cursor := uint16(0)
	haveSegment := false

	emit := func(bytes []byte) {
		if !haveSegment {
			segments = append(segments, Segment{Base: cursor})
			haveSegment = true
		}
		seg := &segments[len(segments)-1]
		seg.Bytes = append(seg.Bytes, bytes...)
		flat = append(flat, bytes...)
		cursor += uint16(len(bytes))
	}

	for idx, it := range e.items {
		switch v := it.(type) {
		case LabelDef, ConstantDef:
			continue

		case Directive:
			switch v.Kind {
			case DirectiveOrg:
				val, err := evalExpr(v.Args[0], e.symtab)
				if err != nil {
					e.errs = append(e.errs, *err)
					continue
				}
				cursor = uint16(val)
				haveSegment = false

			case DirectiveByte:
				start := cursor
				var bytes []byte
				for _, a := range v.Args {
					if s, ok := a.(StringLit); ok {
						bytes = append(bytes, []byte(s.Value)...)
						continue
					}
					val, err := evalExpr(a, e.symtab)
					if err != nil {
						e.errs = append(e.errs, *err)
						continue
					}
					if val > 0xFF {
						e.errs = append(e.errs, AssemblyError{Line: v.Line, Column: v.Column, Kind: KindValueOutOfRange, Message: fmt.Sprintf(".byte value %d exceeds 255", val)})
						continue
					}
					bytes = append(bytes, byte(val))
				}
				emit(bytes)
				e.sourceMap.AddAddressRange(v.Line, AddressRange{Start: start, End: cursor})

			case DirectiveWord:
				start := cursor
				var bytes []byte
				for _, a := range v.Args {
					if _, ok := a.(StringLit); ok {
						continue // already reported in pass1
					}
					val, err := evalExpr(a, e.symtab)
					if err != nil {
						e.errs = append(e.errs, *err)
						continue
					}
					if val > 0xFFFF {
						e.errs = append(e.errs, AssemblyError{Line: v.Line, Column: v.Column, Kind: KindValueOutOfRange, Message: fmt.Sprintf(".word value %d exceeds 65535", val)})
						continue
					}
					bytes = append(bytes, byte(val), byte(val>>8))
				}
				emit(bytes)
				e.sourceMap.AddAddressRange(v.Line, AddressRange{Start: start, End: cursor})
			}

		case Instruction:
			mode := e.resolvedMode[idx]
			opcode, ok := opcodeTable[v.Mnemonic][mode]
			if !ok {
				continue // already reported in pass1
			}
			instrAddr := cursor
			bytes, err := e.encodeOperand(v, mode, opcode, instrAddr)
			if err != nil {
				e.errs = append(e.errs, *err)
				continue
			}
			emit(bytes)
			length := v.Length
			if length == 0 {
				length = len(v.Mnemonic)
			}
			e.sourceMap.AddMapping(instrAddr, SourceLocation{Line: v.Line, Column: v.Column, Length: length})
			e.sourceMap.AddAddressRange(v.Line, AddressRange{Start: instrAddr, End: cursor})
		}
	}

	e.sourceMap.Finalize()
	if len(segments) == 0 {
		segments = []Segment{}
	}
	return AssembledOutput{
		Bytes:       flat,
		Segments:    segments,
		SymbolTable: e.symtab.Symbols(),
		SourceMap:   e.sourceMap,
	}
}

func (e *encoder) encodeOperand(v Instruction, mode AddrMode, opcode uint8, instrAddr uint16) ([]byte, *AssemblyError) {
	switch mode {
	case Implicit, Accumulator:
		return []byte{opcode}, nil

	case Immediate:
		val, err := evalExpr(v.Operand.expr, e.symtab)
		if err != nil {
			return nil, err
		}
		if val > 0xFF {
			return nil, &AssemblyError{Line: v.Line, Column: v.Column, Kind: KindValueOutOfRange, Message: fmt.Sprintf("immediate value %d exceeds 255", val)}
		}
		return []byte{opcode, byte(val)}, nil

	case ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY:
		val, err := evalExpr(v.Operand.expr, e.symtab)
		if err != nil {
			return nil, err
		}
		if val > 0xFF {
			return nil, &AssemblyError{Line: v.Line, Column: v.Column, Kind: KindValueOutOfRange, Message: fmt.Sprintf("zero-page address %d does not fit in one byte", val)}
		}
		return []byte{opcode, byte(val)}, nil

	case Absolute, AbsoluteX, AbsoluteY, Indirect:
		val, err := evalExpr(v.Operand.expr, e.symtab)
		if err != nil {
			return nil, err
		}
		return []byte{opcode, byte(val), byte(val >> 8)}, nil

	case Relative:
		target, err := evalExpr(v.Operand.expr, e.symtab)
		if err != nil {
			return nil, err
		}
		delta := int32(target) - int32(instrAddr+2)
		if delta < -128 || delta > 127 {
			return nil, &AssemblyError{Line: v.Line, Column: v.Column, Kind: KindBranchOutOfRange, Message: fmt.Sprintf("branch target %d out of range (delta %d)", target, delta)}
		}
		return []byte{opcode, byte(int8(delta))}, nil

	default:
		return []byte{opcode}, nil
	}
}

// decideMode narrows an operand's surface syntax to a concrete addressing
// mode. For syntaxes ambiguous between zero-page and absolute forms, the
// decision is made once (using whatever symbols are already defined) and
// is never revisited: a forward reference to a label not yet in the table
// is always treated as absolute, since the assembled size it committed to
// during pass 1 cannot change in pass 2.
func decideMode(inst Instruction, symtab *SymbolTable) AddrMode {
	syn := inst.Operand
	switch syn.kind {
	case synNone:
		if accumulatorDefaultMnemonics[inst.Mnemonic] {
			return Accumulator
		}
		return Implicit
	case synAccumulator:
		return Accumulator
	case synImmediate:
		return Immediate
	case synIndirect:
		return Indirect
	case synIndirectX:
		return IndirectX
	case synIndirectY:
		return IndirectY
	case synIndexedX:
		if hasMode(inst.Mnemonic, ZeroPageX) && fitsZeroPage(syn.expr, symtab) {
			return ZeroPageX
		}
		return AbsoluteX
	case synIndexedY:
		if hasMode(inst.Mnemonic, ZeroPageY) && fitsZeroPage(syn.expr, symtab) {
			return ZeroPageY
		}
		return AbsoluteY
	case synPlain:
		if branchMnemonics[inst.Mnemonic] {
			return Relative
		}
		if hasMode(inst.Mnemonic, ZeroPage) && fitsZeroPage(syn.expr, symtab) {
			return ZeroPage
		}
		return Absolute
	default:
		return Implicit
	}
}

// accumulatorDefaultMnemonics assemble in Accumulator mode when written
// with no operand at all ("ASL" alone), not Implicit: these four have no
// Implicit form on real hardware.
var accumulatorDefaultMnemonics = map[string]bool{
	"ASL": true, "LSR": true, "ROL": true, "ROR": true,
}

func hasMode(mnemonic string, mode AddrMode) bool {
	_, ok := opcodeTable[mnemonic][mode]
	return ok
}

func fitsZeroPage(expr Expr, symtab *SymbolTable) bool {
	val, err := evalExpr(expr, symtab)
	if err != nil {
		return false
	}
	return val <= 0xFF
}

// evalExpr evaluates an expression against the symbols defined so far.
// Used both for the best-effort pass-1 zero-page/absolute decision (where
// an error is tolerated and treated as "not yet known") and for pass 2's
// authoritative evaluation (where an error is a real UndefinedSymbol
// diagnostic).
func evalExpr(expr Expr, symtab *SymbolTable) (uint32, *AssemblyError) {
	switch v := expr.(type) {
	case NumberLit:
		return v.Value, nil

	case IdentExpr:
		sym, ok := symtab.LookupSymbol(v.Name)
		if !ok {
			return 0, &AssemblyError{Line: v.Line, Column: v.Col, Kind: KindUndefinedSymbol, Message: fmt.Sprintf("undefined symbol %s", v.Name)}
		}
		return uint32(sym.Value), nil

	case LowByteExpr:
		val, err := evalExpr(v.Inner, symtab)
		if err != nil {
			return 0, err
		}
		return val & 0xFF, nil

	case HighByteExpr:
		val, err := evalExpr(v.Inner, symtab)
		if err != nil {
			return 0, err
		}
		return (val >> 8) & 0xFF, nil

	case StringLit:
		return 0, &AssemblyError{Line: v.Line, Column: v.Col, Kind: KindParseError, Message: "string literal is not valid in a numeric expression"}

	default:
		return 0, &AssemblyError{Kind: KindParseError, Message: "unrecognized expression"}
	}
}
