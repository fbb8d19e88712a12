// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283x exposes the GPIO register block of the Broadcom BCM283x
// family of SoCs used on the Raspberry Pi.
//
// A Controller owns the memory mapped register block. It configures a pin's
// function (input, output or one of the six alternate functions), its
// internal pull resistor, and reads or drives its logic level. Every read,
// modify and write of a register shared by several pins is serialized, so a
// Controller is safe for concurrent use.
//
// Only one Controller backed by hardware can be open per process. Other
// processes mapping the same registers are not coordinated with: two
// programs driving the same pins leave them in an undefined state.
//
// Pins are also exposed as periph.io/x/conn/v3/gpio.PinIO through the
// "bcm283x-gpio" driver and gpioreg.
//
// # Datasheet
//
// https://datasheets.raspberrypi.com/bcm2835/bcm2835-peripherals.pdf
//
// https://datasheets.raspberrypi.com/bcm2711/bcm2711-peripherals.pdf
package bcm283x
