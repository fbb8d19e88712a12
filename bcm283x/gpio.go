// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

// Pins is every GPIO a SoC of the family can have.
//
// They are bound to the hardware Controller when the "bcm283x-gpio" driver
// initializes; before that every operation fails. Only GPIO0 to
// Platform.MaxPin are registered in gpioreg.
//
// This global variable is initialized at package load and isn't mutated
// afterward. Do not modify it.
var Pins [maxPins]*Pin

// Pin is a GPIO of the BCM283x register block.
//
// Pin implements gpio.PinIO and pin.PinFunc.
type Pin struct {
	number int
	name   string

	mu   sync.Mutex
	ctrl *Controller
	pull gpio.Pull // Last pull set through In()
}

// Pin returns GPIOn bound to c.
func (c *Controller) Pin(n int) (*Pin, error) {
	if err := c.checkPin(n); err != nil {
		return nil, &PinError{Op: "Pin", Pin: n, Err: err}
	}
	return &Pin{number: n, name: "GPIO" + strconv.Itoa(n), ctrl: c, pull: gpio.PullNoChange}, nil
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return p.name
}

// Halt implements conn.Resource.
//
// There is no background operation to stop.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number implements pin.Pin.
func (p *Pin) Number() int {
	return p.number
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func implements pin.PinFunc.
func (p *Pin) Func() pin.Func {
	c, err := p.controller()
	if err != nil {
		return pin.FuncNone
	}
	f, err := c.Function(p.number)
	if err != nil {
		return pin.FuncNone
	}
	switch f {
	case Input:
		if p.Read() {
			return gpio.IN_HIGH
		}
		return gpio.IN_LOW
	case Output:
		if p.Read() {
			return gpio.OUT_HIGH
		}
		return gpio.OUT_LOW
	default:
		return altFuncName(p.number, f)
	}
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	out := []pin.Func{gpio.IN, gpio.OUT}
	for _, f := range altFunctions {
		out = append(out, altFuncName(p.number, f))
	}
	return out
}

// SetFunc implements pin.PinFunc.
//
// Alternate functions are accepted by name, like "UART0_TX", or as "ALT0" to
// "ALT5".
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.IN:
		return p.In(gpio.PullNoChange, gpio.NoEdge)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	}
	c, err := p.controller()
	if err != nil {
		return err
	}
	for i, a := range altFunctions {
		if f == altFuncName(p.number, a) || string(f) == "ALT"+strconv.Itoa(i) {
			return c.SetFunction(p.number, a)
		}
	}
	return p.wrap(fmt.Errorf("unsupported function %q", f))
}

// In implements gpio.PinIn.
//
// Edge detection is not supported.
func (p *Pin) In(pull gpio.Pull, edge gpio.Edge) error {
	if edge != gpio.NoEdge {
		return p.wrap(errors.New("edge detection is not supported"))
	}
	c, err := p.controller()
	if err != nil {
		return err
	}
	if err := c.SetFunction(p.number, Input); err != nil {
		return err
	}
	var r Resistor
	switch pull {
	case gpio.PullNoChange:
		return nil
	case gpio.Float:
		r = None
	case gpio.PullDown:
		r = PullDown
	case gpio.PullUp:
		r = PullUp
	default:
		return p.wrap(fmt.Errorf("unknown pull %s", pull))
	}
	if err := c.SetResistor(p.number, r); err != nil {
		return err
	}
	p.mu.Lock()
	p.pull = pull
	p.mu.Unlock()
	return nil
}

// Read implements gpio.PinIn.
//
// It returns gpio.Low if the pin is not bound to an open Controller.
func (p *Pin) Read() gpio.Level {
	c, err := p.controller()
	if err != nil {
		return gpio.Low
	}
	l, err := c.ReadLevel(p.number)
	if err != nil {
		return gpio.Low
	}
	return gpio.Level(l)
}

// WaitForEdge implements gpio.PinIn.
//
// Edge detection is not supported, it returns false immediately.
func (p *Pin) WaitForEdge(timeout time.Duration) bool {
	return false
}

// Pull implements gpio.PinIn.
//
// The pull resistor cannot be read back on BCM2835 to BCM2837, so this is the
// last value set through In(), or gpio.PullNoChange.
func (p *Pin) Pull() gpio.Pull {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pull
}

// DefaultPull implements gpio.PinIn.
//
// It is the pull applied at reset on the header pins.
func (p *Pin) DefaultPull() gpio.Pull {
	if p.number <= 8 {
		return gpio.PullUp
	}
	return gpio.PullDown
}

// Out implements gpio.PinOut.
//
// The level is latched before the pin is switched to output.
func (p *Pin) Out(l gpio.Level) error {
	c, err := p.controller()
	if err != nil {
		return err
	}
	return c.drive(p.number, Level(l))
}

// PWM implements gpio.PinOut.
//
// This is not supported.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return p.wrap(errors.New("pwm is not supported"))
}

func (p *Pin) controller() (*Controller, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ctrl == nil {
		return nil, p.wrap(ErrNotOpen)
	}
	return p.ctrl, nil
}

func (p *Pin) wrap(err error) error {
	return fmt.Errorf("bcm283x-gpio (%s): %w", p, err)
}

//

// Present returns true if running on a BCM283x family SoC.
func Present() bool {
	if isArm {
		_, err := DetectPlatform()
		return err == nil
	}
	return false
}

// driverGPIO implements periph.Driver.
type driverGPIO struct {
	ctrl *Controller
}

func (d *driverGPIO) String() string {
	return "bcm283x-gpio"
}

func (d *driverGPIO) Prerequisites() []string {
	return nil
}

func (d *driverGPIO) After() []string {
	return nil
}

// Init maps the register block and registers the pins in gpioreg.
//
// The mapping is held for the process lifetime.
func (d *driverGPIO) Init() (bool, error) {
	if !Present() {
		return false, errors.New("bcm283x CPU not detected")
	}
	c, err := Open(nil)
	if err != nil {
		return true, err
	}
	d.ctrl = c
	return true, bindPins(c)
}

// bindPins binds Pins to c and registers them.
func bindPins(c *Controller) error {
	for i := 0; i <= c.Platform().MaxPin; i++ {
		p := Pins[i]
		p.mu.Lock()
		p.ctrl = c
		p.mu.Unlock()
		if err := gpioreg.Register(p); err != nil {
			return err
		}
		if err := gpioreg.RegisterAlias(strconv.Itoa(i), p.name); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	for i := range Pins {
		Pins[i] = &Pin{number: i, name: "GPIO" + strconv.Itoa(i), pull: gpio.PullNoChange}
	}
	if err := mapAltFuncs(); err != nil {
		log.Printf("bcm283x: %v", err)
	}
	if isArm {
		driverreg.MustRegister(&drvGPIO)
	}
}

var drvGPIO driverGPIO

var _ conn.Resource = &Pin{}
var _ gpio.PinIn = &Pin{}
var _ gpio.PinOut = &Pin{}
var _ gpio.PinIO = &Pin{}
var _ pin.PinFunc = &Pin{}
