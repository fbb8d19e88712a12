// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "sync"

// Write is a register store recorded by Sim.
type Write struct {
	Index int
	Value uint32
}

// Sim is an in-memory GPIO register block that behaves like the hardware
// closely enough to exercise a Controller without a board.
//
// The set and clear registers drive an output latch. The level registers
// report the latch for output pins. Input pins report the level of the
// output pin they are connected to, else their pull resistor, else Low.
// Write only registers read back as 0.
//
// Sim records every store and counts every load. It is safe for concurrent
// use.
type Sim struct {
	mu     sync.Mutex
	regs   [numRegisters]uint32
	latch  [2]uint32
	pud    uint32
	pulls  [64]Resistor
	links  map[int]int
	writes []Write
	reads  int
}

// NewSim returns a register block in reset state: every pin is an input
// without pull.
func NewSim() *Sim {
	return &Sim{links: map[int]int{}}
}

// Load implements Registers.
func (s *Sim) Load(index int) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	switch {
	case index == levReg || index == levReg+1:
		return s.levelsLocked(index - levReg)
	case index >= setReg && index < setReg+2,
		index >= clrReg && index < clrReg+2,
		index >= pudClkReg && index < pudClkReg+2:
		return 0
	}
	return s.regs[index]
}

// Store implements Registers.
func (s *Sim) Store(index int, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Write{Index: index, Value: v})
	switch {
	case index >= setReg && index < setReg+2:
		s.latch[index-setReg] |= v
	case index >= clrReg && index < clrReg+2:
		s.latch[index-clrReg] &^= v
	case index == pudReg:
		s.pud = v & 3
		s.regs[index] = v
	case index >= pudClkReg && index < pudClkReg+2:
		base := (index - pudClkReg) * 32
		for i := 0; i < 32; i++ {
			if v&(1<<uint(i)) != 0 {
				s.pulls[base+i] = Resistor(s.pud)
			}
		}
	case index >= pupPdnReg && index < pupPdnReg+numPupPdnRegs:
		s.regs[index] = v
		base := (index - pupPdnReg) * 16
		for i := 0; i < 16; i++ {
			switch v >> (uint(i) * 2) & 3 {
			case 1:
				s.pulls[base+i] = PullUp
			case 2:
				s.pulls[base+i] = PullDown
			default:
				s.pulls[base+i] = None
			}
		}
	default:
		s.regs[index] = v
	}
}

// Connect wires input pin in to pin out, as a jumper would. The input reads
// the output's level while out is configured as Output.
func (s *Sim) Connect(in, out int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[in] = out
}

// Pull returns the pull resistor latched for pin.
func (s *Sim) Pull(pin int) Resistor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pulls[pin]
}

// Writes returns a copy of the recorded stores, oldest first.
func (s *Sim) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

// Reads returns the number of loads.
func (s *Sim) Reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

// ResetLog clears the recorded stores and the load count.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.reads = 0
}

func (s *Sim) levelsLocked(bank int) uint32 {
	var out uint32
	for i := 0; i < 32; i++ {
		if s.levelLocked(bank*32 + i) {
			out |= 1 << uint(i)
		}
	}
	return out
}

func (s *Sim) levelLocked(pin int) bool {
	if s.isOutputLocked(pin) {
		return s.latchedLocked(pin)
	}
	if out, ok := s.links[pin]; ok && s.isOutputLocked(out) {
		return s.latchedLocked(out)
	}
	return s.pulls[pin] == PullUp
}

func (s *Sim) isOutputLocked(pin int) bool {
	if pin/10 >= numFselRegs {
		return false
	}
	return Function(s.regs[fselReg+pin/10]>>(uint(pin%10)*3)&7) == Output
}

func (s *Sim) latchedLocked(pin int) bool {
	return s.latch[pin/32]>>uint(pin%32)&1 == 1
}

var _ Registers = &Sim{}
