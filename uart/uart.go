// Package uart implements a 6551-style ACIA device: the memory-mapped,
// interrupt-capable serial chip used as the canonical "shared device" in
// this core (its receive FIFO must mutate on read). Adapted from the
// register/interrupt-enable shape of pia6532.Chip, with the specific
// register semantics taken from the 6551 reference in original_source
// (src/devices/interrupts.rs's worked example, examples/uart_echo.rs, and
// tests/uart_tests.rs).
package uart

// Register offsets within the device's 4-byte window.
const (
	RegData    = uint16(0)
	RegStatus  = uint16(1)
	RegCommand = uint16(2)
	RegControl = uint16(3)
)

// Status register bits.
const (
	StatusRDRF = uint8(0x08) // Receive Data Register Full.
	StatusTDRE = uint8(0x10) // Transmit Data Register Empty.
)

// Command register bits. Bit positions beyond these are accepted and stored
// (the control/command registers are otherwise opaque pass-through storage)
// but have no behavior wired to them, matching spec's note that this core
// doesn't model baud rate or parity.
const (
	CmdRxIRQEnable = uint8(0x01) // Enable IRQ on RDRF.
	CmdTxIRQEnable = uint8(0x02) // Enable IRQ on TDRE (never fires: TDRE is always set).
	CmdEcho        = uint8(0x08) // Loop received bytes back out the transmit callback.
)

// TransmitFunc is installed by the host to receive bytes written to the
// data register.
type TransmitFunc func(b uint8)

// UART is a 4-register 6551-style ACIA. The zero value is not usable; use
// New.
type UART struct {
	rx      []uint8 // receive FIFO, oldest first
	command uint8
	control uint8
	tx      TransmitFunc
}

// New returns a UART with TDRE set (infinite transmit window, per spec) and
// an empty receive FIFO.
func New() *UART {
	return &UART{}
}

// SetTransmitCallback installs fn to be called for every byte written to
// the data register (including bytes emitted by echo mode).
func (u *UART) SetTransmitCallback(fn TransmitFunc) {
	u.tx = fn
}

// ReceiveByte pushes b onto the receive FIFO, setting RDRF. If echo mode is
// enabled in the command register, b is transmitted immediately, before
// being enqueued for the CPU to read.
func (u *UART) ReceiveByte(b uint8) {
	if u.command&CmdEcho != 0 && u.tx != nil {
		u.tx(b)
	}
	u.rx = append(u.rx, b)
}

// Status returns the live status register value: RDRF reflects whether the
// receive FIFO is non-empty, TDRE is always set.
func (u *UART) Status() uint8 {
	s := StatusTDRE
	if len(u.rx) > 0 {
		s |= StatusRDRF
	}
	return s
}

// RxBufferLen reports the number of bytes currently queued in the receive FIFO.
func (u *UART) RxBufferLen() int {
	return len(u.rx)
}

// Read implements memory.Device. Reading the data register pops the oldest
// queued byte (returning 0 if the FIFO is empty); reading the status
// register returns the live status byte. Both offsets observe (and, for
// data, mutate) the same state a status-register read would report,
// matching spec's "clears RDRF" rule for whichever register acknowledges it.
func (u *UART) Read(offset uint16) uint8 {
	switch offset {
	case RegData:
		if len(u.rx) == 0 {
			return 0
		}
		b := u.rx[0]
		u.rx = u.rx[1:]
		return b
	case RegStatus:
		return u.Status()
	case RegCommand:
		return u.command
	case RegControl:
		return u.control
	default:
		return 0
	}
}

// Write implements memory.Device. Writes to the data register transmit the
// byte via the installed callback (TDRE stays set: infinite transmit
// window). Writes to the status register are ignored (it is read-only on
// real hardware). Command and control registers are opaque read/write
// storage except for the bits this device interprets (CmdEcho, the IRQ
// enables).
func (u *UART) Write(offset uint16, val uint8) {
	switch offset {
	case RegData:
		if u.tx != nil {
			u.tx(val)
		}
	case RegStatus:
		// Read-only on real 6551 hardware; ignored.
	case RegCommand:
		u.command = val
	case RegControl:
		u.control = val
	}
}

// Size implements memory.Device: four registers.
func (u *UART) Size() uint16 {
	return 4
}

// HasInterrupt implements memory.InterruptDevice. The receive interrupt
// fires when enabled in the command register and RDRF is asserted. The
// transmit-interrupt enable bit is tracked but never contributes, since
// TDRE never clears (see spec's "infinite transmit window").
func (u *UART) HasInterrupt() bool {
	if u.command&CmdRxIRQEnable == 0 {
		return false
	}
	return len(u.rx) > 0
}
