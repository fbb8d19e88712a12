// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
	"strings"

	"periph.io/x/gpyo/distro"
)

// Platform describes a member of the SoC family.
type Platform struct {
	Name string
	// PeripheralBase is the physical address of the peripherals as seen by
	// the ARM cores.
	PeripheralBase uint64
	// MaxPin is the highest GPIO number.
	MaxPin int
	// PullRegisters is true when pulls are set through the
	// GPIO_PUP_PDN_CNTRL registers instead of the GPPUD/GPPUDCLK sequence.
	PullRegisters bool
}

// Known platforms.
var (
	BCM2835 = Platform{Name: "BCM2835", PeripheralBase: 0x20000000, MaxPin: 53}
	BCM2836 = Platform{Name: "BCM2836", PeripheralBase: 0x3F000000, MaxPin: 53}
	BCM2837 = Platform{Name: "BCM2837", PeripheralBase: 0x3F000000, MaxPin: 53}
	BCM2711 = Platform{Name: "BCM2711", PeripheralBase: 0xFE000000, MaxPin: 57, PullRegisters: true}
)

const (
	// gpioOffset is the offset of the GPIO block from the peripheral base.
	gpioOffset = 0x200000
	// gpioBusAddr is the GPIO block address on the VideoCore bus, the one used
	// in the device tree.
	gpioBusAddr = 0x7E200000
)

// maxPins is the largest number of GPIOs of any known platform.
const maxPins = 58

func (p Platform) String() string {
	return p.Name
}

// ParsePlatform returns the known platform named s, like "bcm2711".
func ParsePlatform(s string) (Platform, error) {
	for _, p := range []Platform{BCM2835, BCM2836, BCM2837, BCM2711} {
		if strings.EqualFold(s, p.Name) {
			return p, nil
		}
	}
	return Platform{}, fmt.Errorf("bcm283x: unknown platform %q, valid values are bcm2835, bcm2836, bcm2837 or bcm2711", s)
}

// DetectPlatform identifies the SoC from the device tree.
func DetectPlatform() (Platform, error) {
	return platformFromCompatible(distro.DTCompatible())
}

// compatibles maps device tree compatible strings to platforms. The bcm27xx
// names are the ones used by the Raspberry Pi foundation kernels.
var compatibles = map[string]Platform{
	"brcm,bcm2835": BCM2835,
	"brcm,bcm2708": BCM2835,
	"brcm,bcm2836": BCM2836,
	"brcm,bcm2709": BCM2836,
	"brcm,bcm2837": BCM2837,
	"brcm,bcm2710": BCM2837,
	"brcm,bcm2711": BCM2711,
}

func platformFromCompatible(compatible []string) (Platform, error) {
	for _, c := range compatible {
		if p, ok := compatibles[c]; ok {
			return p, nil
		}
	}
	if len(compatible) == 0 {
		return Platform{}, errors.New("bcm283x: no device tree compatible string found")
	}
	return Platform{}, fmt.Errorf("bcm283x: unsupported SoC %s", strings.Join(compatible, ", "))
}

// gpioPhysAddr returns the physical address of the GPIO block.
//
// The soc bus ranges of the device tree are authoritative; the platform's
// documented base is used when they are not available.
func gpioPhysAddr(p Platform) uint64 {
	ranges, _ := distro.SocRanges()
	return translateGPIOAddr(ranges, p)
}

func translateGPIOAddr(ranges []distro.Range, p Platform) uint64 {
	for _, r := range ranges {
		if r.Contains(gpioBusAddr) {
			return r.Translate(gpioBusAddr)
		}
	}
	return p.PeripheralBase + gpioOffset
}
