// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package rpi contains Raspberry Pi hardware logic.
//
// It registers the P1 header in pinreg, with its GPIOs backed by the
// bcm283x register block.
//
// # Physical
//
// https://www.raspberrypi.com/documentation/computers/raspberry-pi.html#gpio
package rpi
