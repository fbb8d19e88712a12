// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"strings"
	"testing"

	"periph.io/x/gpyo/distro"
)

func TestPlatformFromCompatible(t *testing.T) {
	data := []struct {
		compatible []string
		expected   Platform
	}{
		{[]string{"raspberrypi,model-b-plus", "brcm,bcm2835"}, BCM2835},
		{[]string{"raspberrypi,model-zero-w", "brcm,bcm2708"}, BCM2835},
		{[]string{"raspberrypi,2-model-b", "brcm,bcm2836"}, BCM2836},
		{[]string{"raspberrypi,3-model-b", "brcm,bcm2837"}, BCM2837},
		{[]string{"raspberrypi,4-model-b", "brcm,bcm2711"}, BCM2711},
	}
	for _, line := range data {
		p, err := platformFromCompatible(line.compatible)
		if err != nil {
			t.Errorf("%v: %v", line.compatible, err)
		} else if p != line.expected {
			t.Errorf("%v: expected %s, got %s", line.compatible, line.expected, p)
		}
	}
	if _, err := platformFromCompatible(nil); err == nil {
		t.Error("expected error without compatible string")
	}
	if _, err := platformFromCompatible([]string{"xunlong,orangepi-zero", "allwinner,sun8i-h2-plus"}); err == nil {
		t.Error("expected error on an unsupported SoC")
	}
}

func TestTranslateGPIOAddr(t *testing.T) {
	data := []struct {
		ranges   []distro.Range
		p        Platform
		expected uint64
	}{
		{nil, BCM2835, 0x20200000},
		{nil, BCM2837, 0x3F200000},
		{nil, BCM2711, 0xFE200000},
		{[]distro.Range{{Child: 0x7E000000, Parent: 0x3F000000, Size: 0x1000000}}, BCM2835, 0x3F200000},
		{
			[]distro.Range{
				{Child: 0x7C000000, Parent: 0xFC000000, Size: 0x2000000},
				{Child: 0x7E000000, Parent: 0xFE000000, Size: 0x1800000},
			},
			BCM2711,
			0xFE200000,
		},
		// A range not covering the GPIO block is ignored.
		{[]distro.Range{{Child: 0x40000000, Parent: 0xFF800000, Size: 0x800000}}, BCM2837, 0x3F200000},
	}
	for i, line := range data {
		if got := translateGPIOAddr(line.ranges, line.p); got != line.expected {
			t.Errorf("#%d: expected %#x, got %#x", i, line.expected, got)
		}
	}
}

func TestParsePlatform(t *testing.T) {
	for _, e := range []Platform{BCM2835, BCM2836, BCM2837, BCM2711} {
		p, err := ParsePlatform(strings.ToLower(e.Name))
		if err != nil {
			t.Fatal(err)
		}
		if p != e {
			t.Errorf("expected %s, got %s", e, p)
		}
	}
	if _, err := ParsePlatform("bcm2712"); err == nil {
		t.Error("expected error")
	}
}
