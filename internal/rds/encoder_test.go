package rds

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScenarioPIOnly replicates §8 scenario 1.
func TestScenarioPIOnly(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := New(InitParams{PI: 0xF00F, PS: "TEST", RT: ""}, clock)
	e.SetCT(false) // isolate the 0A scenario from CT preemption

	blocks := e.getGroupLocked()

	assert.Equal(t, uint16(0xF00F), blocks[0])
	assert.Equal(t, uint16(0), blocks[1]>>12) // type 0A
	assert.Equal(t, uint16(0), (blocks[1]>>10)&1)
	assert.Equal(t, uint16(0), (blocks[1]>>5)&0x1F)
	assert.Equal(t, uint16(afCodeNoAF)<<8|uint16(afCodeFiller), blocks[2])
	assert.Equal(t, uint16('T')<<8|uint16('E'), blocks[3])
}

// TestScenarioRTBurst replicates §8 scenario 2.
func TestScenarioRTBurst(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := New(InitParams{PI: 0xF00F, PS: "TEST", RT: ""}, clock)
	e.SetCT(false)
	e.SetRT("HELLO")

	require.Equal(t, uint8(2), e.rt.segments)

	// Drain the 0A group first (scheduler alternates starting at state 0).
	first := e.getGroupLocked()
	require.Equal(t, uint16(0), first[1]>>12)

	seg0 := e.getGroupLocked()
	assert.Equal(t, uint16(2), seg0[1]>>12)
	assert.Equal(t, uint16(0), seg0[1]&0xF)
	assert.Equal(t, uint16('H')<<8|uint16('E'), seg0[2])
	assert.Equal(t, uint16('L')<<8|uint16('L'), seg0[3])

	seg1 := e.getGroupLocked()
	assert.Equal(t, uint16(1), seg1[1]&0xF)
	assert.Equal(t, uint16('O')<<8|uint16('\r'), seg1[2])
	assert.Equal(t, uint16(' ')<<8|uint16(' '), seg1[3])
}

// TestScenarioPTYNDisableStopsEmission replicates §8 scenario 4.
func TestScenarioPTYNDisableStopsEmission(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := New(InitParams{PI: 0x1234, PS: "TEST", RT: "", PTYN: "NEWS"}, clock)
	e.SetCT(false)
	e.SetPTYN("-")

	for i := 0; i < 500; i++ {
		blocks := e.getGroupLocked()
		assert.NotEqual(t, uint16(groupTypePTYN), blocks[1]>>12)
	}
	// The 10A counter is frozen while PTYN is disabled; PTYN was disabled
	// before the first tick, so it is still 0.
	assert.Equal(t, 0, e.lowPrio.counter10A)
}

// TestScenarioODAFull replicates §8 scenario 5.
func TestScenarioODAFull(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	e := New(InitParams{PI: 0x1234, PS: "TEST"}, clock)
	e.SetCT(false)

	// One ODA is already registered (RT+) by New. Fill to capacity and
	// confirm the overflow registration is rejected.
	for i := 0; i < MaxODAs; i++ {
		ok := e.RegisterODA(5, 0, uint16(0x5000+i), 0)
		if i < MaxODAs-1 {
			assert.True(t, ok)
		} else {
			assert.False(t, ok)
		}
	}

	seen := map[uint16]bool{}
	for i := 0; i < 2000; i++ {
		blocks := e.getGroupLocked()
		if blocks[1]>>12 == groupTypeODA {
			seen[blocks[3]] = true
		}
	}
	assert.Len(t, seen, MaxODAs)
}

// TestScenarioCTRollover replicates §8 scenario 3.
func TestScenarioCTRollover(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 15, 12, 29, 59, 0, time.UTC)}
	e := New(InitParams{PI: 0x1234, PS: "TEST"}, clock)

	first := e.getGroupLocked()
	// A fresh encoder has emitted no minute yet, so this first pull is itself
	// a CT group; this only checks that bits 15..10 of block 1 do not read 4.
	assert.NotEqual(t, uint16(groupTypeCT), first[1]>>10)

	clock.now = time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)
	rolled := e.getGroupLocked()
	assert.Equal(t, uint16(0x4400), rolled[1]&0xFF00)
}

func TestEncoderNextBitsReturns104Bits(t *testing.T) {
	e := New(InitParams{PI: 0xABCD, PS: "HELLO", RT: "test message"}, nil)
	bits := e.NextBits()
	assert.Len(t, bits, 104)
}
