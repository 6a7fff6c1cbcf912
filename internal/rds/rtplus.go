package rds

// rtPlusTagger holds the two RT+ content tags plus running/toggle flags and
// the group it rides on (§4.5). The default carrier is group 11A.
type rtPlusTagger struct {
	group   uint8 // groupType<<1 | version, default groupTypeRTPlus<<1|VersionA
	running uint8
	toggle  uint8
	ctype   [2]uint8 // content type, 0..63
	start   [2]uint8 // 0..63
	length  [2]uint8 // length[0]: 0..63, length[1]: 0..31
}

func newRTPlusTagger() rtPlusTagger {
	return rtPlusTagger{group: encodeGroup(groupTypeRTPlus, VersionA)}
}

func (t *rtPlusTagger) setTags(ctype0, start0, len0, ctype1, start1, len1 uint8) {
	t.ctype[0] = ctype0 & 0x3F
	t.start[0] = start0 & 0x3F
	t.length[0] = len0 & 0x3F
	t.ctype[1] = ctype1 & 0x3F
	t.start[1] = start1 & 0x3F
	t.length[1] = len1 & 0x1F
}

func (t *rtPlusTagger) setFlags(running, toggle uint8) {
	t.running = running & 1
	t.toggle = toggle & 1
}

// emit packs the RT+ fields into blocks 1..3, per the bit layout in §4.5:
//
//	B1[15..12]=type  B1[11]=ver  B1[4]=toggle  B1[3]=running  B1[2..0]=type[0][5..3]
//	B2[15..13]=type[0][2..0]  B2[12..7]=start[0]  B2[6..1]=length[0]  B2[0]=type[1][5]
//	B3[15..11]=type[1][4..0]  B3[10..5]=start[1]  B3[4..0]=length[1]
func (t *rtPlusTagger) emit(blocks *Blocks) {
	groupType := t.group >> 1
	version := t.group & 1

	blocks[1] |= uint16(groupType) << 12
	blocks[1] |= uint16(version) << 11
	blocks[1] |= uint16(t.toggle) << 4
	blocks[1] |= uint16(t.running) << 3
	blocks[1] |= uint16((t.ctype[0]>>3)&0x7) << 0

	blocks[2] = uint16(t.ctype[0]&0x7) << 13
	blocks[2] |= uint16(t.start[0]&0x3F) << 7
	blocks[2] |= uint16(t.length[0]&0x3F) << 1
	blocks[2] |= uint16((t.ctype[1]>>5)&0x1) << 0

	blocks[3] = uint16(t.ctype[1]&0x1F) << 11
	blocks[3] |= uint16(t.start[1]&0x3F) << 5
	blocks[3] |= uint16(t.length[1] & 0x1F)
}
