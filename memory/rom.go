package memory

// ROM is a read-only Device. Its size is fixed at construction by the length
// of the backing data; writes are silently ignored.
type ROM struct {
	data []uint8
}

// NewROM returns a ROM backed by data. len(data) becomes the device's size.
func NewROM(data []uint8) *ROM {
	cp := make([]uint8, len(data))
	copy(cp, data)
	return &ROM{data: cp}
}

// Read implements Device.
func (r *ROM) Read(offset uint16) uint8 {
	if int(offset) >= len(r.data) {
		return UnmappedFill
	}
	return r.data[offset]
}

// Write implements Device. ROM writes are always a no-op.
func (r *ROM) Write(offset uint16, val uint8) {}

// Size implements Device.
func (r *ROM) Size() uint16 {
	return uint16(len(r.data))
}
