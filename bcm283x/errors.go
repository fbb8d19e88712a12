// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPin is returned for a pin number outside of the platform range.
	ErrInvalidPin = errors.New("invalid pin")
	// ErrInvalidFunction is returned when driving a pin not configured as output.
	ErrInvalidFunction = errors.New("pin is not configured as output")
	// ErrPermission is returned by Open when the process lacks the privilege to
	// map the register block.
	ErrPermission = errors.New("insufficient privilege to map GPIO registers")
	// ErrUnavailable is returned by Open when the register block cannot be
	// mapped, including when this process already mapped it.
	ErrUnavailable = errors.New("GPIO registers unavailable")
	// ErrNotOpen is returned by operations on a closed Controller.
	ErrNotOpen = errors.New("controller is not open")
)

// PinError is returned by the Controller operations on a pin.
type PinError struct {
	Op  string
	Pin int
	Err error
}

func (e *PinError) Error() string {
	return fmt.Sprintf("bcm283x-gpio: %s(GPIO%d): %v", e.Op, e.Pin, e.Err)
}

func (e *PinError) Unwrap() error {
	return e.Err
}
