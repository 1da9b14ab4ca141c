package memory

import "fmt"

// LoadPRG decodes a C64-style PRG image: the first two bytes are the
// little-endian load address, the remainder is the program data to be
// placed there. It performs no I/O and no truncation; callers decide how
// (and whether) the result fits into a given device. Adapted from the
// load-address framing convertprg.go converts on disk, trimmed to the pure
// decode with no file handling.
func LoadPRG(data []uint8) (load uint16, program []uint8, err error) {
	if len(data) < 2 {
		return 0, nil, fmt.Errorf("memory: PRG image too short (%d bytes), need at least 2 for the load address", len(data))
	}
	load = uint16(data[0]) | uint16(data[1])<<8
	program = data[2:]
	return load, program, nil
}
