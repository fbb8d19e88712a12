// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "time"

// pullSettleDelay is held after each step of the GPPUD/GPPUDCLK sequence.
//
// The datasheet asks for 150 cycles of the peripheral clock; this is well
// above that on every known board. Do not shorten it.
const pullSettleDelay = 10 * time.Microsecond

type pullState int

const (
	pullIdle pullState = iota
	pullAsserted
	clockLatched
	pullCleared
)

func (s pullState) String() string {
	switch s {
	case pullIdle:
		return "Idle"
	case pullAsserted:
		return "PullAsserted"
	case clockLatched:
		return "ClockLatched"
	case pullCleared:
		return "Cleared"
	default:
		return "pullState(?)"
	}
}

// pullSequence programs the pull resistor of one pin on BCM2835 to BCM2837.
//
// The control signal is written to GPPUD, then clocked into the pins whose
// bit is set in GPPUDCLKn, then both registers are cleared. The caller must
// hold the GPPUD lock for the whole sequence since GPPUD is global.
type pullSequence struct {
	regs  Registers
	code  uint32
	bank  int
	mask  uint32
	sleep func(time.Duration)
	state pullState
}

func newPullSequence(regs Registers, pin int, r Resistor, sleep func(time.Duration)) *pullSequence {
	return &pullSequence{
		regs:  regs,
		code:  uint32(r),
		bank:  pin / 32,
		mask:  1 << uint(pin%32),
		sleep: sleep,
	}
}

// step performs the transition out of the current state. It returns false
// once the sequence is complete.
func (s *pullSequence) step() bool {
	switch s.state {
	case pullIdle:
		s.regs.Store(pudReg, s.code)
		s.sleep(pullSettleDelay)
		s.state = pullAsserted
	case pullAsserted:
		s.regs.Store(pudClkReg+s.bank, s.mask)
		s.sleep(pullSettleDelay)
		s.state = clockLatched
	case clockLatched:
		s.regs.Store(pudReg, 0)
		s.regs.Store(pudClkReg+s.bank, 0)
		s.state = pullCleared
	default:
		return false
	}
	return true
}

func (s *pullSequence) run() {
	for s.step() {
	}
}

// pupPdnCode returns the 2 bits GPIO_PUP_PDN_CNTRL encoding of r. It differs
// from the GPPUD encoding.
func pupPdnCode(r Resistor) uint32 {
	switch r {
	case PullUp:
		return 1
	case PullDown:
		return 2
	default:
		return 0
	}
}
