package rds

// Low-priority insertion thresholds (§4.7.1). Evaluated in this order;
// at most one low-priority group is emitted per tick.
const (
	threshold3A  = 20
	threshold10A = 10
	threshold11A = 30
)

// lowPrioritySchedule tracks the three low-priority counters. The 10A
// counter only advances while PTYN is enabled and freezes at its last value
// while disabled, matching the reference encoder's `if (rds_data.ptyn[0])`
// gate around the counter increment itself (§4.7.1, §9 open question —
// kept deliberately, not "fixed"): re-enabling PTYN resumes from where the
// counter was frozen rather than restarting its phase from zero.
type lowPrioritySchedule struct {
	counter3A  int
	counter10A int
	counter11A int
}

// tick advances the counters in order 3A, 10A (only while PTYN is enabled),
// 11A, and reports which group (if any) should preempt the default 0A/2A
// cadence this call. It stops at the first counter that reaches its
// threshold, so the counters after it do not advance on that tick.
func (s *lowPrioritySchedule) tick(ptynEnabled bool) (group uint8, due bool) {
	s.counter3A++
	if s.counter3A >= threshold3A {
		s.counter3A = 0
		return groupTypeODA, true
	}

	if ptynEnabled {
		s.counter10A++
		if s.counter10A >= threshold10A {
			s.counter10A = 0
			return groupTypePTYN, true
		}
	}

	s.counter11A++
	if s.counter11A >= threshold11A {
		s.counter11A = 0
		return groupTypeRTPlus, true
	}

	return 0, false
}
