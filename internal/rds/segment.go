package rds

// Field segmenters (§4.3). Each holds a shadow copy of its text plus a
// cursor; a setter stages new text into the live field and raises the
// update flag. The PS and PTYN segmenters only snapshot the shadow from the
// live field when cursor == 0 and update is pending; the RT segmenter takes
// a pending update on its next emission and rewinds its cursor to 0. Either
// way no segment of a new text is ever sent mid-sequence of the old one.

// psField is the Program Service name segmenter: 4 segments of 2 chars.
type psField struct {
	live   [PSLength]byte
	shadow [PSLength]byte
	state  uint8 // 0..3
	update bool
}

func (f *psField) set(text string) {
	padInto(f.live[:], text)
	f.update = true
}

// segment snapshots the shadow if due, then returns the two characters for
// the current segment and advances the cursor.
func (f *psField) segment() (lo, hi byte, segAddr uint8) {
	if f.state == 0 && f.update {
		f.shadow = f.live
		f.update = false
	}
	segAddr = f.state
	lo, hi = f.shadow[f.state*2], f.shadow[f.state*2+1]
	f.state++
	if f.state == 4 {
		f.state = 0
	}
	return lo, hi, segAddr
}

// rtField is the Radio Text segmenter: up to 16 segments of 4 chars, with
// burst-repeat and A/B toggle semantics (§4.3, §9).
type rtField struct {
	live     [RTLength]byte
	shadow   [RTLength]byte
	state    uint8 // 0..15
	segments uint8 // 1..16, active segment count
	bursting uint8 // countdown while scheduler repeats 2A
	ab       uint8 // 0 or 1
	update   bool
}

// set stages new RT text, computing the segment count and (if the text is
// shorter than RTLength) the '\r' terminator position (§4.3).
func (f *rtField) set(text string) {
	var buf [RTLength]byte
	padInto(buf[:], text)
	n := len(text)
	if n > RTLength {
		n = RTLength
	}

	if n < RTLength {
		buf[n] = '\r'
		f.segments = uint8((n + 1 + 3) / 4) // ceil((len+1)/4)
	} else {
		f.segments = 16
	}

	f.live = buf
	f.update = true
	f.ab ^= 1
	f.bursting = f.segments
}

// segment returns the 4 characters for the current RT segment, the segment
// address, and the current A/B flag, and advances the cursor. Matches the
// reference encoder's exact ordering: bursting is decremented at the top of
// every 2A emission, and update/rewind is applied before the segment is
// read (§9: "replicate exactly to preserve the burst length semantics").
func (f *rtField) segment() (c0, c1, c2, c3 byte, segAddr, ab uint8) {
	if f.bursting > 0 {
		f.bursting--
	}

	if f.update {
		f.shadow = f.live
		f.update = false
		f.state = 0
	}

	segAddr = f.state
	ab = f.ab
	base := int(f.state) * 4
	c0, c1, c2, c3 = f.shadow[base], f.shadow[base+1], f.shadow[base+2], f.shadow[base+3]

	f.state++
	if f.state == f.segments {
		f.state = 0
	}
	return
}

// ptynField is the Program Type Name segmenter: 2 segments of 4 chars, or
// disabled entirely when empty (§4.3, §4.7.1).
type ptynField struct {
	live    [PTYNLength]byte
	shadow  [PTYNLength]byte
	state   uint8 // 0 or 1
	enabled bool
	update  bool
}

// set stages new PTYN text, or disables PTYN transmission if text is empty
// (the `-` sentinel in the ASCII command protocol, §6.2).
func (f *ptynField) set(text string) {
	if text == "" {
		f.enabled = false
		f.live = [PTYNLength]byte{}
		f.shadow = [PTYNLength]byte{}
		return
	}
	padInto(f.live[:], text)
	f.enabled = true
	f.update = true
}

func (f *ptynField) segment() (c0, c1, c2, c3 byte, segAddr uint8) {
	if f.state == 0 && f.update {
		f.shadow = f.live
		f.update = false
	}
	segAddr = f.state
	base := int(f.state) * 4
	c0, c1, c2, c3 = f.shadow[base], f.shadow[base+1], f.shadow[base+2], f.shadow[base+3]
	f.state++
	if f.state == 2 {
		f.state = 0
	}
	return
}

// padInto space-pads (and truncates) text into dst (§3 invariant).
func padInto(dst []byte, text string) {
	for i := range dst {
		dst[i] = ' '
	}
	copy(dst, text)
}
