package memory

// FlatMemory is a 64KiB array implementing MemoryBus directly, with no
// device routing. Intended for tests and simple hosts that don't need a
// device map.
type FlatMemory struct {
	data [1 << 16]uint8
}

// NewFlatMemory returns a zero-initialized 64KiB flat memory.
func NewFlatMemory() *FlatMemory {
	return &FlatMemory{}
}

// Read implements MemoryBus.
func (f *FlatMemory) Read(addr uint16) uint8 {
	return f.data[addr]
}

// Write implements MemoryBus.
func (f *FlatMemory) Write(addr uint16, val uint8) {
	f.data[addr] = val
}

// IRQActive implements MemoryBus. FlatMemory has no devices so it is always false.
func (f *FlatMemory) IRQActive() bool {
	return false
}

// LoadBytes copies data into the flat address space starting at offset,
// wrapping modulo 2^16 the same way a real address bus would. There is no
// size to exceed, unlike memory.RAM, since FlatMemory always spans 0x0000-0xFFFF.
func (f *FlatMemory) LoadBytes(offset uint16, data []uint8) {
	for i, b := range data {
		f.data[offset+uint16(i)] = b
	}
}
