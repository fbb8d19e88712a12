// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"path/filepath"
	"sync"
	"time"

	"periph.io/x/gpyo/pmem"
)

// DefaultDevice is the device file mapped by Open when none is specified.
//
// It exposes only the GPIO block and is usually accessible to the gpio group.
const DefaultDevice = "/dev/gpiomem"

// Opts is the configuration of Open.
type Opts struct {
	// Device is the device file to map. It defaults to DefaultDevice. A
	// device other than a gpiomem one is assumed to expose the whole physical
	// address space, like /dev/mem.
	Device string
	// Platform overrides detection from the device tree.
	Platform *Platform
}

// Controller owns the GPIO register block.
//
// All methods are safe for concurrent use.
type Controller struct {
	// state is held shared by every operation and exclusively by Close, so the
	// registers are never unmapped under a running operation.
	state    sync.RWMutex
	regs     Registers
	closer   io.Closer
	release  func()
	platform Platform

	// Locks keyed by register word, matching how pins alias in hardware.
	fsel   [numFselRegs]sync.Mutex
	pupPdn [numPupPdnRegs]sync.Mutex
	pud    sync.Mutex

	sleep func(time.Duration)
}

// Open maps the hardware register block.
//
// Only one hardware mapping may be held per process; Open fails with
// ErrUnavailable until the previous Controller is closed. The returned
// Controller must be closed.
func Open(opts *Opts) (*Controller, error) {
	var o Opts
	if opts != nil {
		o = *opts
	}
	if o.Device == "" {
		o.Device = DefaultDevice
	}
	if !acquireMapping() {
		return nil, fmt.Errorf("bcm283x-gpio: %w: already mapped by this process", ErrUnavailable)
	}
	c, err := openMapping(&o)
	if err != nil {
		releaseMapping()
		return nil, err
	}
	return c, nil
}

func openMapping(o *Opts) (*Controller, error) {
	var p Platform
	if o.Platform != nil {
		p = *o.Platform
	} else {
		var err error
		if p, err = DetectPlatform(); err != nil {
			log.Printf("bcm283x-gpio: %v; assuming %s", err, BCM2835)
			p = BCM2835
		}
	}
	var offset int64
	if !isGPIOMem(o.Device) {
		offset = int64(gpioPhysAddr(p))
	}
	m, err := pmem.Map(o.Device, offset, pmem.PageSize)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("bcm283x-gpio: %w: %w", ErrPermission, err)
		}
		return nil, fmt.Errorf("bcm283x-gpio: %w: %w", ErrUnavailable, err)
	}
	c := New(&mappedRegisters{regs: m.Uint32()}, p)
	c.closer = m
	c.release = releaseMapping
	return c, nil
}

// isGPIOMem returns true for the device files mapping the GPIO block at
// offset 0.
func isGPIOMem(dev string) bool {
	return filepath.Base(dev) == "gpiomem"
}

// New returns an open Controller over a caller provided register block, for
// example a Sim.
//
// A zero Platform is treated as BCM2835. MaxPin is capped to the pins the
// register block can address.
func New(regs Registers, p Platform) *Controller {
	if p.MaxPin == 0 {
		p = BCM2835
	}
	if p.MaxPin >= maxPins {
		p.MaxPin = maxPins - 1
	}
	return &Controller{regs: regs, platform: p, sleep: time.Sleep}
}

// Platform returns the SoC the Controller was opened for.
func (c *Controller) Platform() Platform {
	return c.platform
}

// SetFunction selects the function of a pin.
//
// Only the 3 bits of this pin within its function select register are
// modified.
func (c *Controller) SetFunction(pin int, f Function) error {
	const op = "SetFunction"
	if err := c.checkPin(pin); err != nil {
		return &PinError{Op: op, Pin: pin, Err: err}
	}
	if !f.valid() {
		return &PinError{Op: op, Pin: pin, Err: fmt.Errorf("unknown function %d", f)}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	reg, shift := pin/10, uint(pin%10)*3
	c.fsel[reg].Lock()
	defer c.fsel[reg].Unlock()
	v := c.regs.Load(fselReg + reg)
	c.regs.Store(fselReg+reg, v&^(7<<shift)|uint32(f)<<shift)
	return nil
}

// Function returns the function currently selected for a pin.
func (c *Controller) Function(pin int) (Function, error) {
	const op = "Function"
	if err := c.checkPin(pin); err != nil {
		return 0, &PinError{Op: op, Pin: pin, Err: err}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return 0, &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	c.fsel[pin/10].Lock()
	defer c.fsel[pin/10].Unlock()
	return c.function(pin), nil
}

// SetResistor configures the internal pull resistor of a pin.
//
// On BCM2835 to BCM2837 this runs the GPPUD/GPPUDCLK sequence, which includes
// two short fixed delays. If the process dies in the middle of the sequence,
// the pull control may be left asserted until the next call to SetResistor.
func (c *Controller) SetResistor(pin int, r Resistor) error {
	const op = "SetResistor"
	if err := c.checkPin(pin); err != nil {
		return &PinError{Op: op, Pin: pin, Err: err}
	}
	if !r.valid() {
		return &PinError{Op: op, Pin: pin, Err: fmt.Errorf("unknown resistor %d", r)}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	if c.platform.PullRegisters {
		reg, shift := pin/16, uint(pin%16)*2
		c.pupPdn[reg].Lock()
		defer c.pupPdn[reg].Unlock()
		v := c.regs.Load(pupPdnReg + reg)
		c.regs.Store(pupPdnReg+reg, v&^(3<<shift)|pupPdnCode(r)<<shift)
		return nil
	}
	c.pud.Lock()
	defer c.pud.Unlock()
	newPullSequence(c.regs, pin, r, c.sleep).run()
	return nil
}

// WriteLevel drives an output pin.
//
// It fails with ErrInvalidFunction, without writing any register, if the pin
// is not configured as Output.
func (c *Controller) WriteLevel(pin int, l Level) error {
	const op = "WriteLevel"
	if err := c.checkPin(pin); err != nil {
		return &PinError{Op: op, Pin: pin, Err: err}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	// Hold the function select lock so the pin cannot be switched away from
	// output between the check and the write.
	c.fsel[pin/10].Lock()
	defer c.fsel[pin/10].Unlock()
	if f := c.function(pin); f != Output {
		return &PinError{Op: op, Pin: pin, Err: fmt.Errorf("%w; it is %s", ErrInvalidFunction, f)}
	}
	c.writeLevel(pin, l)
	return nil
}

// drive writes l to pin, then switches it to Output if it is not already, so
// the pin never drives a stale latch value.
func (c *Controller) drive(pin int, l Level) error {
	const op = "drive"
	if err := c.checkPin(pin); err != nil {
		return &PinError{Op: op, Pin: pin, Err: err}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	reg, shift := pin/10, uint(pin%10)*3
	c.fsel[reg].Lock()
	defer c.fsel[reg].Unlock()
	c.writeLevel(pin, l)
	if c.function(pin) != Output {
		v := c.regs.Load(fselReg + reg)
		c.regs.Store(fselReg+reg, v&^(7<<shift)|uint32(Output)<<shift)
	}
	return nil
}

// ReadLevel returns the level of a pin.
//
// It is valid in every function but only meaningful for inputs.
func (c *Controller) ReadLevel(pin int) (Level, error) {
	const op = "ReadLevel"
	if err := c.checkPin(pin); err != nil {
		return Low, &PinError{Op: op, Pin: pin, Err: err}
	}
	c.state.RLock()
	defer c.state.RUnlock()
	if c.regs == nil {
		return Low, &PinError{Op: op, Pin: pin, Err: ErrNotOpen}
	}
	return Level(c.regs.Load(levReg+pin/32)>>uint(pin%32)&1 == 1), nil
}

// Close releases the register block. It is safe to call it more than once.
//
// Every operation afterward fails with ErrNotOpen.
func (c *Controller) Close() error {
	c.state.Lock()
	defer c.state.Unlock()
	if c.regs == nil {
		return nil
	}
	c.regs = nil
	var err error
	if c.closer != nil {
		err = c.closer.Close()
		c.closer = nil
	}
	if c.release != nil {
		c.release()
		c.release = nil
	}
	return err
}

// checkPin validates pin against the platform. It doesn't access registers.
func (c *Controller) checkPin(pin int) error {
	if pin < 0 || pin > c.platform.MaxPin {
		return fmt.Errorf("%w: valid range is [0, %d] on %s", ErrInvalidPin, c.platform.MaxPin, c.platform)
	}
	return nil
}

// writeLevel sets or clears the output latch of pin.
//
// The state lock must be held.
func (c *Controller) writeLevel(pin int, l Level) {
	bank, bit := pin/32, uint32(1)<<uint(pin%32)
	if l == High {
		c.regs.Store(setReg+bank, bit)
	} else {
		c.regs.Store(clrReg+bank, bit)
	}
}

// function reads the function select field of pin.
//
// The state and the function select locks must be held.
func (c *Controller) function(pin int) Function {
	return Function(c.regs.Load(fselReg+pin/10) >> (uint(pin%10) * 3) & 7)
}

//

var (
	mappingMu sync.Mutex
	mapped    bool
)

// acquireMapping takes the process wide hardware mapping slot.
func acquireMapping() bool {
	mappingMu.Lock()
	defer mappingMu.Unlock()
	if mapped {
		return false
	}
	mapped = true
	return true
}

func releaseMapping() {
	mappingMu.Lock()
	defer mappingMu.Unlock()
	mapped = false
}
