// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"periph.io/x/conn/v3/pin"
)

// pinsSpec is the name of each alternate function of the GPIOs exposed on the
// Raspberry Pi header, from the BCM2835 datasheet page 102.
//
//   - BSC is renamed I2C and PCM is renamed I2S for consistency with periph.
//   - SMI is the secondary memory interface.
//   - I2CSPI is the SPI/BSC slave.
//   - An empty name is a reserved function.
//
//go:embed bcm2835_pins.json
var pinsSpec []byte

type serializedPinSpec struct {
	Name string
	Alt0 pin.Func
	Alt1 pin.Func
	Alt2 pin.Func
	Alt3 pin.Func
	Alt4 pin.Func
	Alt5 pin.Func
}

func getSerializedPinSpecs() ([]serializedPinSpec, error) {
	var serializedPins []serializedPinSpec
	err := json.Unmarshal(pinsSpec, &serializedPins)
	return serializedPins, err
}

func getAltFunc(pinSpec serializedPinSpec) [6]pin.Func {
	return [6]pin.Func{
		pinSpec.Alt0,
		pinSpec.Alt1,
		pinSpec.Alt2,
		pinSpec.Alt3,
		pinSpec.Alt4,
		pinSpec.Alt5}
}

// altFuncs is the alternate function names per GPIO. Set once by
// mapAltFuncs and not mutated afterward.
var altFuncs [maxPins][6]pin.Func

func mapAltFuncs() error {
	serializedPinSpecs, err := getSerializedPinSpecs()
	if err != nil {
		return err
	}
	for _, pinSpec := range serializedPinSpecs {
		n, err := strconv.Atoi(strings.TrimPrefix(pinSpec.Name, "GPIO"))
		if err != nil || n < 0 || n >= maxPins {
			return fmt.Errorf("bcm283x: invalid pin name %q", pinSpec.Name)
		}
		altFuncs[n] = getAltFunc(pinSpec)
	}
	return nil
}

// altFuncName returns the name of function f on GPIOn, like "UART0_TX", or
// "ALT0" when it is unnamed.
func altFuncName(n int, f Function) pin.Func {
	i, ok := f.altIndex()
	if !ok {
		return pin.FuncNone
	}
	if n >= 0 && n < maxPins && altFuncs[n][i] != "" {
		return altFuncs[n][i]
	}
	return pin.Func(strings.ToUpper(f.String()))
}
