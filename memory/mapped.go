package memory

import "sort"

// entry is one routing-table row: a device occupying [base, base+size).
type entry struct {
	base   uint16
	size   uint16
	device Device
}

// MappedMemory is a routing table of non-overlapping (base, size, device)
// entries implementing MemoryBus. Lookups are O(log N) over a slice kept
// sorted by base, located via binary search.
type MappedMemory struct {
	entries []entry
}

// NewMappedMemory returns an empty device map.
func NewMappedMemory() *MappedMemory {
	return &MappedMemory{}
}

// AddDevice registers dev at base. Returns OverlapError if [base,
// base+dev.Size()) intersects any existing entry (touching is fine), or
// DeviceTooLargeError if base+dev.Size() would wrap past 0xFFFF.
func (m *MappedMemory) AddDevice(base uint16, dev Device) error {
	return m.insert(base, dev)
}

// AddSharedDevice registers dev at base exactly as AddDevice does. It exists
// as a distinct entry point because devices that mutate on read (the UART
// receive FIFO) are typically constructed and held by the caller under a
// separate typed handle used to drive them directly (ReceiveByte,
// SetTransmitCallback) while the same pointer is also routed through the
// bus. Since Go devices are always reference types, there is no analogue of
// Rust's Rc<RefCell<_>> required here — both entry points store the same
// pointer — but the name documents that sharing intent at the call site.
func (m *MappedMemory) AddSharedDevice(base uint16, dev Device) error {
	return m.insert(base, dev)
}

func (m *MappedMemory) insert(base uint16, dev Device) error {
	size := dev.Size()
	if uint32(base)+uint32(size) > 1<<16 {
		return DeviceTooLargeError{Base: base, Size: size}
	}
	idx := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].base >= base })
	if idx < len(m.entries) && rangesOverlap(base, size, m.entries[idx].base, m.entries[idx].size) {
		return OverlapError{ExistingBase: m.entries[idx].base, ExistingSize: m.entries[idx].size, NewBase: base, NewSize: size}
	}
	if idx > 0 && rangesOverlap(base, size, m.entries[idx-1].base, m.entries[idx-1].size) {
		return OverlapError{ExistingBase: m.entries[idx-1].base, ExistingSize: m.entries[idx-1].size, NewBase: base, NewSize: size}
	}
	m.entries = append(m.entries, entry{})
	copy(m.entries[idx+1:], m.entries[idx:])
	m.entries[idx] = entry{base: base, size: size, device: dev}
	return nil
}

func rangesOverlap(baseA, sizeA, baseB, sizeB uint16) bool {
	endA := uint32(baseA) + uint32(sizeA)
	endB := uint32(baseB) + uint32(sizeB)
	return uint32(baseA) < endB && uint32(baseB) < endA
}

// find returns the entry index containing addr, or -1.
func (m *MappedMemory) find(addr uint16) int {
	idx := sort.Search(len(m.entries), func(i int) bool { return m.entries[i].base > addr }) - 1
	if idx < 0 {
		return -1
	}
	e := m.entries[idx]
	if uint32(addr) >= uint32(e.base)+uint32(e.size) {
		return -1
	}
	return idx
}

// Read implements MemoryBus. An address with no owning device returns the
// floating-bus sentinel 0xFF.
func (m *MappedMemory) Read(addr uint16) uint8 {
	idx := m.find(addr)
	if idx < 0 {
		return UnmappedFill
	}
	e := m.entries[idx]
	return e.device.Read(addr - e.base)
}

// Write implements MemoryBus. A write to an address with no owning device is
// silently dropped.
func (m *MappedMemory) Write(addr uint16, val uint8) {
	idx := m.find(addr)
	if idx < 0 {
		return
	}
	e := m.entries[idx]
	e.device.Write(addr-e.base, val)
}

// IRQActive implements MemoryBus: the logical OR of HasInterrupt() over
// every registered device that implements InterruptDevice.
func (m *MappedMemory) IRQActive() bool {
	for _, e := range m.entries {
		if id, ok := e.device.(InterruptDevice); ok && id.HasInterrupt() {
			return true
		}
	}
	return false
}

// GetDeviceAt returns the device registered at exactly base, downcast to T,
// along with whether both the lookup and the downcast succeeded. This is the
// Go analogue of spec's get_device_at_mut::<T>(addr): Go has no trait-object
// downcast, so the type assertion stands in for it.
func GetDeviceAt[T any](m *MappedMemory, base uint16) (T, bool) {
	var zero T
	for _, e := range m.entries {
		if e.base == base {
			t, ok := e.device.(T)
			if !ok {
				return zero, false
			}
			return t, true
		}
	}
	return zero, false
}
