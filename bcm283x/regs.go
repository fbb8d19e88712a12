// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import "sync/atomic"

// Register word indexes within the GPIO block.
const (
	fselReg   = 0x00 / 4 // GPFSEL0..5, 10 pins per register, 3 bits each
	setReg    = 0x1C / 4 // GPSET0..1, write only
	clrReg    = 0x28 / 4 // GPCLR0..1, write only
	levReg    = 0x34 / 4 // GPLEV0..1, read only
	pudReg    = 0x94 / 4 // GPPUD, BCM2835..BCM2837
	pudClkReg = 0x98 / 4 // GPPUDCLK0..1, BCM2835..BCM2837
	pupPdnReg = 0xE4 / 4 // GPIO_PUP_PDN_CNTRL_REG0..3, BCM2711, 16 pins per register

	numRegisters = 0xF4 / 4
)

const (
	numFselRegs   = 6
	numPupPdnRegs = 4
)

// Registers is the 32 bits register block of the GPIO controller.
//
// Index is a word index, not a byte offset.
type Registers interface {
	Load(index int) uint32
	Store(index int, v uint32)
}

// mappedRegisters accesses memory mapped hardware registers.
//
// Atomic accesses guarantee each access is a single 32 bits load or store
// that the compiler will not elide or merge.
type mappedRegisters struct {
	regs []uint32
}

func (m *mappedRegisters) Load(index int) uint32 {
	return atomic.LoadUint32(&m.regs[index])
}

func (m *mappedRegisters) Store(index int, v uint32) {
	atomic.StoreUint32(&m.regs[index], v)
}
