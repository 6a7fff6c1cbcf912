// Package rds implements the RDS (IEC 62106 / EN 50067) group encoder: a
// state machine that produces a continuous stream of 104-bit groups for
// BPSK-modulating the 57 kHz subcarrier of an FM multiplex signal.
package rds

// Fixed field widths (§6.4).
const (
	PSLength   = 8
	RTLength   = 64
	PTYNLength = 8
)

// MaxODAs bounds the ODA registry (§6.4: "implementation-defined, >= 8
// recommended").
const MaxODAs = 8

// RTPlusAID is the registered Open Data Application identifier for Radio
// Text Plus (§6.4).
const RTPlusAID = 0x4BD7

// Group version, placed in bit 11 of block 1.
const (
	VersionA = 0
	VersionB = 1
)

// Group type codes used by the scheduler: the 4-bit type number only, as
// written into bits 15..12 of block 1. encodeGroup packs one with a version
// into the type<<1 | version form the ODA registry stores.
const (
	groupTypePS     = 0  // 0A
	groupTypeRT     = 2  // 2A
	groupTypeODA    = 3  // 3A
	groupTypePTYN   = 10 // 10A
	groupTypeRTPlus = 11 // 11A (default RT+ carrier group)
	groupTypeCT     = 4  // 4A
)

// DI nibble value matching the original encoder's default ("stereo").
const DIStereo = 0b0001

// encodeGroup packs a group type and version into the single-byte form the
// ODA registry stores and compares against (type<<1 | version).
func encodeGroup(groupType uint8, version uint8) uint8 {
	return (groupType << 1) | (version & 1)
}

// Block holds the 16 information bits of one RDS block, prior to checkword
// attachment.
type Block = uint16

// Blocks is one RDS group's four information blocks, in transmission order
// 0 (PI), 1 (group type/flags), 2, 3.
type Blocks [4]Block

// GroupBits is a fully serialized 104-bit group, one bit per byte (values 0
// or 1), MSB-first per block, in block order 0,1,2,3 (§6.1).
type GroupBits = [104]byte
