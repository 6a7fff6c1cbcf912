package rds

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPSFieldNoMidSequenceUpdate(t *testing.T) {
	var f psField
	f.set("FIRST")

	// Consume one full 4-segment cycle so the shadow snapshot is the one
	// we'll assert about.
	var got strings.Builder
	for i := 0; i < 4; i++ {
		lo, hi, segAddr := f.segment()
		assert.Equal(t, uint8(i), segAddr)
		got.WriteByte(lo)
		got.WriteByte(hi)
	}
	assert.Equal(t, "FIRST   ", got.String())

	// Stage a new PS mid-cycle; it must not appear until segment 0.
	lo0, hi0, _ := f.segment() // segment 0 already snapshotted the old text
	f.set("SECOND")
	assert.Equal(t, byte('F'), lo0)
	assert.Equal(t, byte('I'), hi0)

	for i := 0; i < 3; i++ {
		lo, hi, _ := f.segment()
		_ = lo
		_ = hi
	}
	// Now back at segment 0: the update must be visible in full, atomically.
	var second strings.Builder
	for i := 0; i < 4; i++ {
		lo, hi, _ := f.segment()
		second.WriteByte(lo)
		second.WriteByte(hi)
	}
	assert.Equal(t, "SECOND  ", second.String())
}

func TestRTFieldShortTextSegmentsAndTerminator(t *testing.T) {
	var f rtField
	f.set("HELLO")

	require.Equal(t, uint8(2), f.segments) // ceil((5+1)/4) = 2
	require.Equal(t, uint8(2), f.bursting)

	c0, c1, c2, c3, seg0, _ := f.segment()
	assert.Equal(t, uint8(0), seg0)
	assert.Equal(t, "HELL", string([]byte{c0, c1, c2, c3}))

	c0, c1, c2, c3, seg1, _ := f.segment()
	assert.Equal(t, uint8(1), seg1)
	assert.Equal(t, "O\r  ", string([]byte{c0, c1, c2, c3}))

	// Wraps back to segment 0.
	_, _, _, _, seg2, _ := f.segment()
	assert.Equal(t, uint8(0), seg2)
}

func TestRTFieldABTogglesOnEverySet(t *testing.T) {
	var f rtField
	f.set("A")
	first := f.ab
	f.set("B")
	assert.NotEqual(t, first, f.ab)
}

func TestRTFieldFullLengthUsesAllSixteenSegments(t *testing.T) {
	var f rtField
	f.set(strings.Repeat("X", RTLength))
	assert.Equal(t, uint8(16), f.segments)
}

func TestPTYNDisableClearsEnabledFlag(t *testing.T) {
	var f ptynField
	f.set("NEWS")
	assert.True(t, f.enabled)
	f.set("")
	assert.False(t, f.enabled)
}

const testAlphabet = "ABCDEFGHIJ "

func randomText(rt *rapid.T, n int) string {
	buf := make([]byte, n)
	for i := range buf {
		idx := rapid.IntRange(0, len(testAlphabet)-1).Draw(rt, "ch")
		buf[i] = testAlphabet[idx]
	}
	return string(buf)
}

// TestRTRoundTrip is the property-based scenario from spec §8: for any RT
// of length <= 64, after at most rt_segments consecutive emissions the
// reconstructed text equals the published text, padded and terminated.
func TestRTRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, RTLength).Draw(rt, "len")
		text := randomText(rt, n)

		var f rtField
		f.set(text)

		reconstructed := make([]byte, 0, RTLength)
		for i := 0; i < int(f.segments); i++ {
			c0, c1, c2, c3, _, _ := f.segment()
			reconstructed = append(reconstructed, c0, c1, c2, c3)
		}

		var want [RTLength]byte
		padInto(want[:], text)
		if n < RTLength {
			want[n] = '\r'
		}

		require.Equal(rt, want[:len(reconstructed)], reconstructed)
	})
}

func TestPSRoundTripAcrossFourSegments(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, PSLength).Draw(rt, "len")
		text := randomText(rt, n)

		var f psField
		f.set(text)

		reconstructed := make([]byte, 0, PSLength)
		for i := 0; i < 4; i++ {
			lo, hi, segAddr := f.segment()
			require.Equal(rt, uint8(i), segAddr)
			reconstructed = append(reconstructed, lo, hi)
		}

		var want [PSLength]byte
		padInto(want[:], text)
		require.Equal(rt, want[:], reconstructed)
	})
}
