package rds

import "strings"

// CallSignToPI derives a 16-bit PI code from a 4-character North American
// call sign, per the documented RBDS mapping (§6.3, §9 "Open Question" —
// the filtered original_source retained the call site but not
// callsign2pi's body, so the standard public RBDS call-sign algorithm is
// used here: first letter K/W selects a base PI, and the remaining three
// letters contribute base-26 digits).
//
// Returns 0 if sign is not a 4-character call sign starting with K or W,
// matching the reference encoder's "non-zero result overrides" contract
// (§6.3): a zero result means "no override".
func CallSignToPI(sign string) uint16 {
	sign = strings.ToUpper(strings.TrimSpace(sign))
	if len(sign) != 4 {
		return 0
	}

	var base uint16
	switch sign[0] {
	case 'K':
		base = 0x1000
	case 'W':
		base = 0x0000
	default:
		return 0
	}

	for _, r := range sign[1:] {
		if r < 'A' || r > 'Z' {
			return 0
		}
	}

	base += uint16(sign[1]-'A') * 26 * 26
	base += uint16(sign[2]-'A') * 26
	base += uint16(sign[3] - 'A')
	return base
}
