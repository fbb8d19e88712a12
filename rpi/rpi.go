// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Raspberry Pi pin out.

package rpi

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/conn/v3/driver/driverreg"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/pin"
	"periph.io/x/conn/v3/pin/pinreg"
	"periph.io/x/gpyo/bcm283x"
	"periph.io/x/gpyo/distro"
)

// Present returns true if a Raspberry Pi board is detected.
func Present() bool {
	if isArm {
		return strings.HasPrefix(distro.DTModel(), "Raspberry Pi")
	}
	return false
}

// P1 is the 40 pins header present on every board since the Model B+. The
// original Model A and B only have the first 26 pins.
var (
	P1_1  pin.Pin    = pin.V3_3
	P1_2  pin.Pin    = pin.V5
	P1_3  gpio.PinIO = bcm283x.Pins[2]
	P1_4  pin.Pin    = pin.V5
	P1_5  gpio.PinIO = bcm283x.Pins[3]
	P1_6  pin.Pin    = pin.GROUND
	P1_7  gpio.PinIO = bcm283x.Pins[4]
	P1_8  gpio.PinIO = bcm283x.Pins[14]
	P1_9  pin.Pin    = pin.GROUND
	P1_10 gpio.PinIO = bcm283x.Pins[15]
	P1_11 gpio.PinIO = bcm283x.Pins[17]
	P1_12 gpio.PinIO = bcm283x.Pins[18]
	P1_13 gpio.PinIO = bcm283x.Pins[27]
	P1_14 pin.Pin    = pin.GROUND
	P1_15 gpio.PinIO = bcm283x.Pins[22]
	P1_16 gpio.PinIO = bcm283x.Pins[23]
	P1_17 pin.Pin    = pin.V3_3
	P1_18 gpio.PinIO = bcm283x.Pins[24]
	P1_19 gpio.PinIO = bcm283x.Pins[10]
	P1_20 pin.Pin    = pin.GROUND
	P1_21 gpio.PinIO = bcm283x.Pins[9]
	P1_22 gpio.PinIO = bcm283x.Pins[25]
	P1_23 gpio.PinIO = bcm283x.Pins[11]
	P1_24 gpio.PinIO = bcm283x.Pins[8]
	P1_25 pin.Pin    = pin.GROUND
	P1_26 gpio.PinIO = bcm283x.Pins[7]
	P1_27 gpio.PinIO = bcm283x.Pins[0]
	P1_28 gpio.PinIO = bcm283x.Pins[1]
	P1_29 gpio.PinIO = bcm283x.Pins[5]
	P1_30 pin.Pin    = pin.GROUND
	P1_31 gpio.PinIO = bcm283x.Pins[6]
	P1_32 gpio.PinIO = bcm283x.Pins[12]
	P1_33 gpio.PinIO = bcm283x.Pins[13]
	P1_34 pin.Pin    = pin.GROUND
	P1_35 gpio.PinIO = bcm283x.Pins[19]
	P1_36 gpio.PinIO = bcm283x.Pins[16]
	P1_37 gpio.PinIO = bcm283x.Pins[26]
	P1_38 gpio.PinIO = bcm283x.Pins[20]
	P1_39 pin.Pin    = pin.GROUND
	P1_40 gpio.PinIO = bcm283x.Pins[21]
)

// headerRows returns the rows of the P1 header of the board model.
func headerRows(model string) [][]pin.Pin {
	rows := [][]pin.Pin{
		{P1_1, P1_2},
		{P1_3, P1_4},
		{P1_5, P1_6},
		{P1_7, P1_8},
		{P1_9, P1_10},
		{P1_11, P1_12},
		{P1_13, P1_14},
		{P1_15, P1_16},
		{P1_17, P1_18},
		{P1_19, P1_20},
		{P1_21, P1_22},
		{P1_23, P1_24},
		{P1_25, P1_26},
		{P1_27, P1_28},
		{P1_29, P1_30},
		{P1_31, P1_32},
		{P1_33, P1_34},
		{P1_35, P1_36},
		{P1_37, P1_38},
		{P1_39, P1_40},
	}
	if isLegacyModel(model) {
		return rows[:13]
	}
	return rows
}

// isLegacyModel returns true for the first boards, with a 26 pins header.
func isLegacyModel(model string) bool {
	for _, m := range []string{"Raspberry Pi Model A Rev", "Raspberry Pi Model B Rev"} {
		if strings.HasPrefix(model, m) {
			return true
		}
	}
	return false
}

// registerHeaders registers the P1 header.
func registerHeaders(model string) error {
	return pinreg.Register("P1", headerRows(model))
}

// driver implements periph.Driver.
type driver struct {
}

// String is the text representation of the board.
func (d *driver) String() string {
	return "rpi"
}

// Prerequisites load drivers before the actual driver is loaded.
func (d *driver) Prerequisites() []string {
	return nil
}

// After makes sure the GPIOs are registered before the header.
func (d *driver) After() []string {
	return []string{"bcm283x-gpio"}
}

// Init initializes the driver by checking its presence and if found, the
// header will be registered.
func (d *driver) Init() (bool, error) {
	if !Present() {
		return false, errors.New("Raspberry Pi board not detected")
	}
	model := distro.DTModel()
	if model == "<unknown>" {
		return true, fmt.Errorf("rpi: failed to obtain model")
	}
	return true, registerHeaders(model)
}

func init() {
	if isArm {
		driverreg.MustRegister(&drv)
	}
}

var drv driver
