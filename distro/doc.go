// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package distro reads what the kernel exposes about the board it runs on.
//
// The device tree is read from the flattened blob at /sys/firmware/fdt when
// it is readable (usually root only), otherwise from the /proc/device-tree
// pseudo file system.
package distro
