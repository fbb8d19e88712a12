// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package pmem maps a window of physical memory into the process.
//
// It is used to reach memory mapped peripheral registers through a device
// file like /dev/gpiomem (GPIO block only, accessible to the gpio group) or
// /dev/mem (whole physical address space, root only).
//
// Mapping physical memory is only supported on linux.
package pmem
