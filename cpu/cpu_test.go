package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrobus6502/c64core/memory"
)

func newTestCPU(t *testing.T) (*CPU, *memory.FlatMemory) {
	t.Helper()
	m := memory.NewFlatMemory()
	// Reset vector points at 0x0200, where tests load their programs.
	m.Write(0xFFFC, 0x00)
	m.Write(0xFFFD, 0x02)
	c := New(m)
	return c, m
}

func TestResetState(t *testing.T) {
	c, _ := newTestCPU(t)
	assert.Equal(t, uint8(0), c.A())
	assert.Equal(t, uint8(0), c.X())
	assert.Equal(t, uint8(0), c.Y())
	assert.Equal(t, uint8(0xFD), c.SP())
	assert.Equal(t, uint16(0x0200), c.PC())
	assert.True(t, c.FlagInterrupt())
	assert.Equal(t, uint64(0), c.Cycles())
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xA9) // LDA #$00
	m.Write(0x0201, 0x00)
	require.NoError(t, c.Step(), "state: %s", spew.Sdump(c))
	assert.Equal(t, uint8(0), c.A())
	assert.True(t, c.FlagZero())
	assert.False(t, c.FlagNegative())
	assert.Equal(t, uint64(2), c.Cycles())
	assert.Equal(t, uint16(0x0202), c.PC())
}

func TestLDAImmediateNegative(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xA9) // LDA #$FF
	m.Write(0x0201, 0xFF)
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(0xFF), c.A())
	assert.True(t, c.FlagNegative())
	assert.False(t, c.FlagZero())
}

func TestAbsoluteXPageCrossPenalty(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xBD) // LDA $20FF,X
	m.Write(0x0201, 0xFF)
	m.Write(0x0202, 0x20)
	c.SetX(1)
	m.Write(0x2100, 0x42)
	require.NoError(t, c.Step(), "state: %s", spew.Sdump(c))
	assert.Equal(t, uint8(0x42), c.A())
	assert.Equal(t, uint64(5), c.Cycles(), "base 4 + 1 page-cross penalty: %s", spew.Sdump(c))
}

func TestAbsoluteXNoPenaltyWithinPage(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xBD) // LDA $2000,X
	m.Write(0x0201, 0x00)
	m.Write(0x0202, 0x20)
	c.SetX(1)
	m.Write(0x2001, 0x42)
	require.NoError(t, c.Step())
	assert.Equal(t, uint64(4), c.Cycles())
}

func TestSTADoesNotTakePageCrossPenalty(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x9D) // STA $20FF,X
	m.Write(0x0201, 0xFF)
	m.Write(0x0202, 0x20)
	c.SetX(1)
	c.SetA(0x77)
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(0x77), m.Read(0x2100))
	assert.Equal(t, uint64(5), c.Cycles(), "STA Abs,X is fixed 5 cycles regardless of crossing")
}

func TestJMPIndirectPageBoundaryBug(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x6C) // JMP ($10FF)
	m.Write(0x0201, 0xFF)
	m.Write(0x0202, 0x10)
	m.Write(0x10FF, 0x00) // low byte of target
	m.Write(0x1000, 0x40) // high byte, wrongly fetched from $1000 not $1100
	m.Write(0x1100, 0x99) // if the bug were absent, this would be used instead
	require.NoError(t, c.Step(), "state: %s", spew.Sdump(c))
	assert.Equal(t, uint16(0x4000), c.PC(), "state: %s", spew.Sdump(c))
}

func TestJSRAndRTSRoundTrip(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x20) // JSR $0300
	m.Write(0x0201, 0x00)
	m.Write(0x0202, 0x03)
	m.Write(0x0300, 0x60) // RTS

	require.NoError(t, c.Step()) // JSR
	assert.Equal(t, uint16(0x0300), c.PC())
	assert.Equal(t, uint8(0xFB), c.SP())

	require.NoError(t, c.Step()) // RTS
	assert.Equal(t, uint16(0x0203), c.PC())
	assert.Equal(t, uint8(0xFD), c.SP())
}

func TestBRKPushesPCPlusTwoAndSetsBreakOnStack(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0xFFFE, 0x00) // IRQ vector
	m.Write(0xFFFF, 0x40)
	m.Write(0x0200, 0x00) // BRK

	require.NoError(t, c.Step(), "state: %s", spew.Sdump(c))
	assert.Equal(t, uint16(0x4000), c.PC())
	assert.True(t, c.FlagInterrupt())

	sp := c.SP()
	pushedP := m.Read(0x0100 | uint16(sp+1))
	pcLo := m.Read(0x0100 | uint16(sp+2))
	pcHi := m.Read(0x0100 | uint16(sp+3))
	assert.Equal(t, uint16(0x0202), uint16(pcLo)|uint16(pcHi)<<8)
	assert.NotZero(t, pushedP&FlagBreak, "B is set in the byte BRK pushes: %s", spew.Sdump(c))
}

func TestIRQServicedAtInstructionBoundary(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0xFFFE, 0x00)
	m.Write(0xFFFF, 0x40)
	m.Write(0x0200, 0xEA) // NOP
	c.SetP(c.P() &^ FlagInterrupt)

	dev := &alwaysIRQDevice{}
	busWithIRQ := &flatWithDevice{FlatMemory: m, dev: dev}
	c2 := New(busWithIRQ)
	c2.SetPC(0x0200)
	c2.SetP(c2.P() &^ FlagInterrupt)

	require.NoError(t, c2.Step(), "state: %s", spew.Sdump(c2))
	assert.Equal(t, uint16(0x4000), c2.PC())
	assert.True(t, c2.FlagInterrupt(), "I is set once the interrupt is serviced")
}

type alwaysIRQDevice struct{}

type flatWithDevice struct {
	*memory.FlatMemory
	dev *alwaysIRQDevice
}

func (f *flatWithDevice) IRQActive() bool { return f.dev != nil }

func TestUnimplementedOpcodeLeavesStateUntouched(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x02) // no official opcode uses 0x02
	pc, cycles := c.PC(), c.Cycles()
	err := c.Step()
	require.Error(t, err)
	var unimpl UnimplementedOpcode
	require.ErrorAs(t, err, &unimpl)
	assert.Equal(t, uint8(0x02), unimpl.Opcode)
	assert.Equal(t, pc, c.PC())
	assert.Equal(t, cycles, c.Cycles())
}

func TestBranchTakenCrossingPageCosts4Cycles(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x02F0, 0xF0) // BEQ $10 at 0x02F0: next=0x02F2, target=0x0302, different page
	m.Write(0x02F1, 0x10)
	c.SetPC(0x02F0)
	c.SetP(c.P() | FlagZero)
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0302), c.PC())
	assert.Equal(t, uint64(4), c.Cycles())
}

func TestBranchTakenSamePageCosts3Cycles(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xF0) // BEQ +2
	m.Write(0x0201, 0x02)
	c.SetP(c.P() | FlagZero)
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0204), c.PC())
	assert.Equal(t, uint64(3), c.Cycles())
}

func TestBranchNotTakenCosts2Cycles(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xF0) // BEQ +2, Z clear
	m.Write(0x0201, 0x02)
	require.NoError(t, c.Step())
	assert.Equal(t, uint16(0x0202), c.PC())
	assert.Equal(t, uint64(2), c.Cycles())
}

func TestADCSetsCarryAndOverflow(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x69) // ADC #$01
	m.Write(0x0201, 0x01)
	c.SetA(0x7F) // +1 overflows into negative: classic signed overflow case
	require.NoError(t, c.Step(), "state: %s", spew.Sdump(c))
	assert.Equal(t, uint8(0x80), c.A())
	assert.True(t, c.FlagOverflow())
	assert.True(t, c.FlagNegative())
	assert.False(t, c.FlagCarry())
}

func TestSBCBorrow(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xE9) // SBC #$01
	m.Write(0x0201, 0x01)
	c.SetA(0x00)
	c.SetP(c.P() | FlagCarry) // carry set means "no borrow" going in
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(0xFF), c.A())
	assert.False(t, c.FlagCarry(), "borrow occurred")
	assert.True(t, c.FlagNegative())
}

func TestCompareSetsCarryWhenRegisterGreaterOrEqual(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xC9) // CMP #$10
	m.Write(0x0201, 0x10)
	c.SetA(0x10)
	require.NoError(t, c.Step())
	assert.True(t, c.FlagCarry())
	assert.True(t, c.FlagZero())
}

func TestPHPSetsBreakAndUnusedInPushedByteOnly(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0x08) // PHP
	require.NoError(t, c.Step())
	pushed := m.Read(0x0100 | uint16(c.SP()+1))
	assert.NotZero(t, pushed&FlagBreak)
	assert.NotZero(t, pushed&flagUnused)
	assert.Zero(t, c.P()&FlagBreak, "B is never retained in the live register")
}

func TestStackWrapsWithinPage(t *testing.T) {
	c, m := newTestCPU(t)
	c.SetSP(0x00)
	m.Write(0x0200, 0x48) // PHA
	c.SetA(0x11)
	require.NoError(t, c.Step())
	assert.Equal(t, uint8(0xFF), c.SP())
	assert.Equal(t, uint8(0x11), m.Read(0x0100))
}

func TestRunForCyclesStopsAtInstructionBoundary(t *testing.T) {
	c, m := newTestCPU(t)
	m.Write(0x0200, 0xEA) // NOP x3, 2 cycles each
	m.Write(0x0201, 0xEA)
	m.Write(0x0202, 0xEA)
	spent, err := c.RunForCycles(5)
	require.NoError(t, err)
	assert.Equal(t, uint64(6), spent, "stops only once >=5 cycles have elapsed, never mid-instruction")
}
