package asm

import "fmt"

// AssemblyErrorKind classifies an AssemblyError for tooling that wants to
// filter or group diagnostics (e.g. an editor integration).
type AssemblyErrorKind int

const (
	KindLexError AssemblyErrorKind = iota
	KindParseError
	KindUndefinedSymbol
	KindDuplicateSymbol
	KindBranchOutOfRange
	KindValueOutOfRange
	KindInvalidAddressingMode
)

func (k AssemblyErrorKind) String() string {
	switch k {
	case KindLexError:
		return "LexError"
	case KindParseError:
		return "ParseError"
	case KindUndefinedSymbol:
		return "UndefinedSymbol"
	case KindDuplicateSymbol:
		return "DuplicateSymbol"
	case KindBranchOutOfRange:
		return "BranchOutOfRange"
	case KindValueOutOfRange:
		return "ValueOutOfRange"
	case KindInvalidAddressingMode:
		return "InvalidAddressingMode"
	default:
		return "Unknown"
	}
}

// AssemblyError is one diagnostic produced by a failed assembly. Assemble
// returns an ordered, non-empty slice of these on failure; the assembler
// recovers locally (to end of line / next item) rather than aborting after
// the first one, so a single source file surfaces as many diagnostics as
// possible in one pass.
type AssemblyError struct {
	Line    int
	Column  int
	Kind    AssemblyErrorKind
	Message string
}

func (e AssemblyError) Error() string {
	return fmt.Sprintf("%s at line %d column %d: %s", e.Kind, e.Line, e.Column, e.Message)
}
