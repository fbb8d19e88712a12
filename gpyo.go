// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpyo gives access to the GPIO register block of the Raspberry Pi.
//
// Importing this package on an ARM host registers the bcm283x and rpi
// drivers; Init loads them.
package gpyo

import "periph.io/x/conn/v3/driver/driverreg"

// Init loads the registered drivers.
//
// On arm and arm64 hosts this runs "bcm283x-gpio", which maps the register
// block and registers GPIO0 up to the platform's last pin in gpioreg, then
// "rpi", which registers the P1 header in pinreg. Elsewhere no driver of this
// module is registered and the returned State lists none of them.
func Init() (*driverreg.State, error) {
	return driverreg.Init()
}
