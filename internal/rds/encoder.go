package rds

import "sync"

// InitParams seeds a new Encoder (§6.3).
type InitParams struct {
	PI       uint16
	PS       string
	RT       string
	PTY      uint8
	PTYN     string
	TP       bool
	AF       AFList
	RBDSMode bool
	CallSign string // used for PI derivation when RBDSMode is set
}

// Encoder is the owned aggregate holding all persistent broadcaster and
// scheduler state (§3, §9: "static mutable state -> owned encoder value").
// A single instance is constructed once and driven by one consumer calling
// NextBits at the RDS bit cadence while one control thread calls the
// setters; mu serializes the two per §5.
type Encoder struct {
	mu sync.Mutex

	pi  uint16
	pty uint8
	tp  bool
	ta  bool
	ms  bool
	di  uint8

	txCTime bool

	ps   psField
	rt   rtField
	ptyn ptynField
	af   afCursor

	oda     odaRegistry
	rtplus  rtPlusTagger
	ct      ctEmitter
	lowPrio lowPrioritySchedule

	// state alternates 0 (emit PS/0A) / 1 (emit RT/2A), §3, §4.7.
	state uint8
}

// New constructs an Encoder from InitParams, replicating the reference
// encoder's init order (§9 supplemented features): AF list first, then PI/
// PS/RT/PTY/PTYN/TP, defaulting AB to 1, CT on, MS on, DI to stereo, and
// finally registering the RT+ ODA on group 11A.
func New(params InitParams, clock ClockProvider) *Encoder {
	if clock == nil {
		clock = SystemClock{}
	}

	e := &Encoder{
		ct:      newCTEmitter(clock),
		rtplus:  newRTPlusTagger(),
		txCTime: true,
		ms:      true,
		di:      DIStereo,
	}

	e.af.set(params.AF)

	pi := params.PI
	if params.RBDSMode {
		if derived := CallSignToPI(params.CallSign); derived != 0 {
			pi = derived
		}
	}
	e.pi = pi

	e.ps.set(params.PS)
	e.rt.ab = 1
	e.rt.set(params.RT)
	e.pty = params.PTY & 0x1F
	if params.PTYN != "" {
		e.ptyn.set(params.PTYN)
	}
	e.tp = params.TP

	e.oda.register(encodeGroup(groupTypeRTPlus, VersionA), RTPlusAID, 0)

	return e
}

// --- Control surface (§4.9, §6.2) ---

// PI returns the current 16-bit program identifier.
func (e *Encoder) PI() uint16 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pi
}

// SetPI sets the 16-bit program identifier.
func (e *Encoder) SetPI(pi uint16) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pi = pi
}

// SetPS sets the program service name, space-padded/truncated to 8 chars
// and raising the PS update flag.
func (e *Encoder) SetPS(ps string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ps.set(ps)
}

// SetRT sets the radio text, computing segmentation, arming the burst
// repeat, and toggling the A/B flag.
func (e *Encoder) SetRT(rt string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rt.set(rt)
}

// SetPTY sets the 5-bit program type code.
func (e *Encoder) SetPTY(pty uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pty = pty & 0x1F
}

// SetPTYN sets the program type name, or clears/disables it if text is
// empty or "-".
func (e *Encoder) SetPTYN(ptyn string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ptyn == "-" {
		ptyn = ""
	}
	e.ptyn.set(ptyn)
}

// SetTA sets the Traffic Announcement flag.
func (e *Encoder) SetTA(ta bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ta = ta
}

// SetTP sets the Traffic Program flag.
func (e *Encoder) SetTP(tp bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tp = tp
}

// SetMS sets the Music/Speech flag.
func (e *Encoder) SetMS(ms bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.ms = ms
}

// SetDI sets the 4-bit Decoder Identification nibble.
func (e *Encoder) SetDI(di uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.di = di & 0xF
}

// SetCT enables or disables clock-time (4A) emission.
func (e *Encoder) SetCT(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.txCTime = on
}

// SetAF replaces the alternative-frequency list.
func (e *Encoder) SetAF(list AFList) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.af.set(list)
}

// ClearAF empties the alternative-frequency list.
func (e *Encoder) ClearAF() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.af.set(AFList{})
}

// SetRTPlusTags sets the two RT+ content-type/start/length tuples (§4.5).
func (e *Encoder) SetRTPlusTags(ctype0, start0, len0, ctype1, start1, len1 uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rtplus.setTags(ctype0, start0, len0, ctype1, start1, len1)
}

// SetRTPlusFlags sets the RT+ running/toggle flags.
func (e *Encoder) SetRTPlusFlags(running, toggle uint8) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rtplus.setFlags(running, toggle)
}

// RegisterODA adds an application to the ODA registry, returning whether it
// was accepted (the registry silently rejects registrations past MaxODAs,
// §4.4, §7).
func (e *Encoder) RegisterODA(groupType, version uint8, aid, scb uint16) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.oda.register(encodeGroup(groupType, version), aid, scb)
}

// --- Scheduler / bit production (§4.7, §6.1) ---

// NextBits produces one 104-bit group (§6.1). Safe to call concurrently
// with the setters above; calls are serialized against them but not against
// each other beyond that guarantee (a single consumer is expected, §5).
func (e *Encoder) NextBits() GroupBits {
	e.mu.Lock()
	blocks := e.getGroupLocked()
	e.mu.Unlock()

	versionB := (blocks[1]>>11)&1 == 1
	return serialize(blocks, versionB)
}

// getGroupLocked implements §4.7's get_group algorithm. Caller must hold mu.
func (e *Encoder) getGroupLocked() Blocks {
	var blocks Blocks
	blocks[0] = e.pi
	tp := uint16(0)
	if e.tp {
		tp = 1
	}
	blocks[1] = tp<<10 | uint16(e.pty&0x1F)<<5

	if e.txCTime && e.ct.maybeEmit(&blocks) {
		return e.finishVersionB(blocks)
	}

	if e.emitLowPriority(&blocks) {
		return e.finishVersionB(blocks)
	}

	switch e.state {
	case 0:
		e.emitPS(&blocks)
		e.state = 1
	default:
		e.emitRT(&blocks)
		if e.rt.bursting == 0 {
			e.state = 0
		}
	}

	return e.finishVersionB(blocks)
}

// finishVersionB sets block 2 = PI for version-B groups (§4.7 step 5).
func (e *Encoder) finishVersionB(blocks Blocks) Blocks {
	if (blocks[1]>>11)&1 == 1 {
		blocks[2] = e.pi
	}
	return blocks
}

// emitLowPriority tries the §4.7.1 low-priority insertion. Returns true if
// a group was emitted in place of the default 0A/2A cadence.
func (e *Encoder) emitLowPriority(blocks *Blocks) bool {
	group, due := e.lowPrio.tick(e.ptyn.enabled)
	if !due {
		return false
	}

	switch group {
	case groupTypeODA:
		if !e.oda.emit(blocks) {
			return false
		}
		blocks[1] |= uint16(groupTypeODA) << 12
		return true
	case groupTypePTYN:
		e.emitPTYN(blocks)
		return true
	case groupTypeRTPlus:
		e.rtplus.emit(blocks)
		return true
	}
	return false
}

// emitPS fills a 0A group (§4.3, §4.7, §4.8).
func (e *Encoder) emitPS(blocks *Blocks) {
	lo, hi, segAddr := e.ps.segment()

	ta := uint16(0)
	if e.ta {
		ta = 1
	}
	ms := uint16(0)
	if e.ms {
		ms = 1
	}
	diBit := uint16((e.di >> (3 - segAddr)) & 1)

	blocks[1] |= ta << 4
	blocks[1] |= ms << 3
	blocks[1] |= diBit << 2
	blocks[1] |= uint16(segAddr) & 0x3

	blocks[2] = e.af.nextPair()
	blocks[3] = uint16(lo)<<8 | uint16(hi)
}

// emitRT fills a 2A group (§4.3, §4.7, §4.8).
func (e *Encoder) emitRT(blocks *Blocks) {
	c0, c1, c2, c3, segAddr, ab := e.rt.segment()

	blocks[1] |= uint16(groupTypeRT) << 12
	blocks[1] |= uint16(ab) << 4
	blocks[1] |= uint16(segAddr) & 0xF
	blocks[2] = uint16(c0)<<8 | uint16(c1)
	blocks[3] = uint16(c2)<<8 | uint16(c3)
}

// emitPTYN fills a 10A group (§4.3, §4.7.1).
func (e *Encoder) emitPTYN(blocks *Blocks) {
	c0, c1, c2, c3, segAddr := e.ptyn.segment()

	blocks[1] |= uint16(groupTypePTYN)<<12 | uint16(segAddr)&0x3
	blocks[2] = uint16(c0)<<8 | uint16(c1)
	blocks[3] = uint16(c2)<<8 | uint16(c3)
}
