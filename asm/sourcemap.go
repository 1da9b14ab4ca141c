package asm

import "sort"

// SourceLocation is a position in source text: a 1-indexed line, a
// 0-indexed column where the mapped instruction starts, and its length in
// source characters.
type SourceLocation struct {
	Line   int
	Column int
	Length int
}

// AddressRange is a half-open range of assembled addresses, [Start, End).
type AddressRange struct {
	Start uint16
	End   uint16
}

// SourceMap is a bidirectional index between assembled addresses and
// source locations. Entries are added during encoding and the map must be
// finalized (sorted for binary search) before either lookup method is
// used. Symbols and SourceMap entries are immutable after assembly
// completes.
type SourceMap struct {
	addrToSource []addrSourceEntry
	lineToAddr   []lineAddrEntry
}

type addrSourceEntry struct {
	addr     uint16
	location SourceLocation
}

type lineAddrEntry struct {
	line  int
	rng   AddressRange
}

func NewSourceMap() *SourceMap {
	return &SourceMap{}
}

// AddMapping records that the instruction at addr starts at location.
func (m *SourceMap) AddMapping(addr uint16, location SourceLocation) {
	m.addrToSource = append(m.addrToSource, addrSourceEntry{addr: addr, location: location})
}

// AddAddressRange records that source line line assembled to the address
// range rng. Label-only and comment-only lines never call this; an empty
// .byte line records an empty range.
func (m *SourceMap) AddAddressRange(line int, rng AddressRange) {
	m.lineToAddr = append(m.lineToAddr, lineAddrEntry{line: line, rng: rng})
}

// Finalize sorts both indexes for binary search. Call once, after encoding
// completes and before any lookup.
func (m *SourceMap) Finalize() {
	sort.Slice(m.addrToSource, func(i, j int) bool { return m.addrToSource[i].addr < m.addrToSource[j].addr })
	sort.Slice(m.lineToAddr, func(i, j int) bool { return m.lineToAddr[i].line < m.lineToAddr[j].line })
}

// GetSourceLocation returns the source location whose instruction begins
// at addr, if any.
func (m *SourceMap) GetSourceLocation(addr uint16) (SourceLocation, bool) {
	i := sort.Search(len(m.addrToSource), func(i int) bool { return m.addrToSource[i].addr >= addr })
	if i < len(m.addrToSource) && m.addrToSource[i].addr == addr {
		return m.addrToSource[i].location, true
	}
	return SourceLocation{}, false
}

// GetAddressRange returns the address range assembled from source line
// line, if any.
func (m *SourceMap) GetAddressRange(line int) (AddressRange, bool) {
	i := sort.Search(len(m.lineToAddr), func(i int) bool { return m.lineToAddr[i].line >= line })
	if i < len(m.lineToAddr) && m.lineToAddr[i].line == line {
		return m.lineToAddr[i].rng, true
	}
	return AddressRange{}, false
}
