package asm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleSimpleProgram(t *testing.T) {
	out, errs := Assemble(`
		LDA #$42
		STA $8000
		JMP $8000
	`)
	require.Empty(t, errs)
	require.Equal(t, []byte{0xA9, 0x42, 0x8D, 0x00, 0x80, 0x4C, 0x00, 0x80}, out.Bytes)
}

func TestAssembleConstantsAndLabels(t *testing.T) {
	out, errs := Assemble(`
UART_DATA = $8000
UART_STATUS = $8001

START:
	LDA #0
	STA START
MAIN_LOOP:
	LDA UART_STATUS
	AND #1
	BEQ MAIN_LOOP
	LDA UART_DATA
	JMP MAIN_LOOP
`)
	require.Empty(t, errs)

	var constants, labels int
	for _, sym := range out.SymbolTable {
		switch sym.Kind {
		case SymbolConstant:
			constants++
		case SymbolLabel:
			labels++
		}
	}
	assert.Equal(t, 2, constants)
	assert.Equal(t, 2, labels)
}

func TestLowAndHighByteOperators(t *testing.T) {
	out, errs := Assemble(`
		.org $1234
handler:
		RTI
main:
		LDA #<handler
		LDX #>handler
	`)
	require.Empty(t, errs)
	assert.Equal(t, byte(0xA9), out.Bytes[1])
	assert.Equal(t, byte(0x34), out.Bytes[2]) // low byte of $1234
	assert.Equal(t, byte(0xA2), out.Bytes[3])
	assert.Equal(t, byte(0x12), out.Bytes[4]) // high byte of $1234
}

func TestStringLiteralInByteDirective(t *testing.T) {
	out, errs := Assemble(`
		.org $8000
		.byte "Hello", $0D, $0A
	`)
	require.Empty(t, errs)
	assert.Equal(t, []byte("Hello"), out.Bytes[:5])
	assert.Equal(t, byte(0x0D), out.Bytes[5])
	assert.Equal(t, byte(0x0A), out.Bytes[6])
}

func TestEmptyStringContributesNoBytes(t *testing.T) {
	out, errs := Assemble(`
		.org $8000
		.byte ""
	`)
	require.Empty(t, errs)
	assert.Empty(t, out.Bytes)
}

func TestStringInWordDirectiveErrors(t *testing.T) {
	_, errs := Assemble(`
		.org $8000
		.word "test"
	`)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "String literals are not supported in .word directive")
}

func TestZeroPageVsAbsoluteSelection(t *testing.T) {
	out, errs := Assemble(`
		LDA $20
		LDA $2000
	`)
	require.Empty(t, errs)
	assert.Equal(t, byte(0xA5), out.Bytes[0]) // LDA zero page
	assert.Equal(t, byte(0xAD), out.Bytes[2]) // LDA absolute
}

func TestIndirectXAndIndirectYAddressing(t *testing.T) {
	out, errs := Assemble(`
		LDA ($20,X)
		LDA ($20),Y
	`)
	require.Empty(t, errs)
	assert.Equal(t, []byte{0xA1, 0x20, 0xB1, 0x20}, out.Bytes)
}

func TestBranchOutOfRangeIsAnError(t *testing.T) {
	src := "LOOP:\n"
	for i := 0; i < 200; i++ {
		src += "\tNOP\n"
	}
	src += "\tBEQ LOOP\n"
	_, errs := Assemble(src)
	require.NotEmpty(t, errs)
	assert.Equal(t, KindBranchOutOfRange, errs[0].Kind)
}

func TestDuplicateSymbolIsAnError(t *testing.T) {
	_, errs := Assemble(`
START:
	NOP
START:
	NOP
`)
	require.NotEmpty(t, errs)
	assert.Equal(t, KindDuplicateSymbol, errs[0].Kind)
}

func TestUndefinedSymbolIsAnError(t *testing.T) {
	_, errs := Assemble(`
		LDA UNDEFINED_LABEL
	`)
	require.NotEmpty(t, errs)
	assert.Equal(t, KindUndefinedSymbol, errs[0].Kind)
}

func TestJMPIndirectRoundTripsThroughSourceMap(t *testing.T) {
	out, errs := Assemble(`
		.org $8000
vector:
		.word $9000
start:
		JMP (vector)
	`)
	require.Empty(t, errs)

	loc, ok := out.SourceMap.GetSourceLocation(0x8002)
	require.True(t, ok)
	rng, ok := out.SourceMap.GetAddressRange(loc.Line)
	require.True(t, ok)
	assert.True(t, rng.Start <= 0x8002 && 0x8002 < rng.End)
}

func TestSegmentsSplitAtOrgBoundaries(t *testing.T) {
	out, errs := Assemble(`
		.org $0200
		NOP
		.org $8000
		NOP
	`)
	require.Empty(t, errs)
	require.Len(t, out.Segments, 2)
	assert.Equal(t, uint16(0x0200), out.Segments[0].Base)
	assert.Equal(t, uint16(0x8000), out.Segments[1].Base)
}

func TestUartHelloPattern(t *testing.T) {
	out, errs := Assemble(`
		.org $8000
UART_DATA = $A000

		LDX #$00
print_loop:
		LDA message,X
		BEQ done
		STA UART_DATA
		INX
		JMP print_loop
done:
		BRK

message:
		.byte "Hello, 6502!"
		.byte $0D, $0A
		.byte $00
	`)
	require.Empty(t, errs)

	hello := []byte("Hello, 6502!")
	found := false
	for i := 0; i+len(hello) <= len(out.Bytes); i++ {
		match := true
		for j, b := range hello {
			if out.Bytes[i+j] != b {
				match = false
				break
			}
		}
		if match {
			found = true
			assert.Equal(t, byte(0x0D), out.Bytes[i+len(hello)])
			assert.Equal(t, byte(0x0A), out.Bytes[i+len(hello)+1])
			assert.Equal(t, byte(0x00), out.Bytes[i+len(hello)+2])
			break
		}
	}
	assert.True(t, found, "message bytes should appear in the assembled output")
}
