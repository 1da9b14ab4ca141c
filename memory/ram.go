package memory

import "fmt"

// RAM is a zero-initialized, readable and writable Device of fixed size.
type RAM struct {
	data []uint8
}

// NewRAM returns a RAM device of the given size, all bytes zeroed.
func NewRAM(size uint16) *RAM {
	return &RAM{data: make([]uint8, size)}
}

// Read implements Device.
func (r *RAM) Read(offset uint16) uint8 {
	if int(offset) >= len(r.data) {
		return UnmappedFill
	}
	return r.data[offset]
}

// Write implements Device. Out-of-range offsets are a no-op.
func (r *RAM) Write(offset uint16, val uint8) {
	if int(offset) >= len(r.data) {
		return
	}
	r.data[offset] = val
}

// Size implements Device.
func (r *RAM) Size() uint16 {
	return uint16(len(r.data))
}

// LoadBytes copies data into the RAM starting at offset. Returns an error
// without modifying the RAM if offset+len(data) exceeds the device size.
func (r *RAM) LoadBytes(offset uint16, data []uint8) error {
	end := int(offset) + len(data)
	if end > len(r.data) {
		return fmt.Errorf("memory: load of %d bytes at offset 0x%04X exceeds RAM size %d", len(data), offset, len(r.data))
	}
	copy(r.data[offset:end], data)
	return nil
}
