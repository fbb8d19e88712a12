// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"testing"

	"periph.io/x/conn/v3/pin"
)

func Test_getSerializedPinSpecs(t *testing.T) {
	if pins, err := getSerializedPinSpecs(); err != nil {
		t.Error(err)
	} else if n := len(pins); n != 28 {
		t.Errorf("Expected %d to equal %d", n, 28)
	}
}

func Test_getSerializedPinSpecs_ordered(t *testing.T) {
	pins, err := getSerializedPinSpecs()
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range pins {
		if p.Name != Pins[i].Name() {
			t.Errorf("#%d: expected %s, got %s", i, Pins[i].Name(), p.Name)
		}
	}
}

func TestAltFuncName(t *testing.T) {
	data := []struct {
		pin      int
		f        Function
		expected pin.Func
	}{
		{14, Alt0, "UART0_TX"},
		{14, Alt5, "UART1_TX"},
		{2, Alt0, "I2C1_SDA"},
		{25, Alt4, "JTAG_TCK"},
		{25, Alt0, "ALT0"},
		{40, Alt2, "ALT2"},
		{4, Input, pin.FuncNone},
		{4, Output, pin.FuncNone},
	}
	for _, line := range data {
		if got := altFuncName(line.pin, line.f); got != line.expected {
			t.Errorf("GPIO%d %s: expected %q, got %q", line.pin, line.f, line.expected, got)
		}
	}
}
