// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"fmt"
	"strings"
)

// Function is the 3 bits function select code of a pin.
type Function uint8

// Codes as documented in the datasheet; the alternate function numbering is
// not in code order.
const (
	Input  Function = 0
	Output Function = 1
	Alt0   Function = 4
	Alt1   Function = 5
	Alt2   Function = 6
	Alt3   Function = 7
	Alt4   Function = 3
	Alt5   Function = 2
)

// altFunctions maps the alternate function number to its code.
var altFunctions = [6]Function{Alt0, Alt1, Alt2, Alt3, Alt4, Alt5}

// Alt returns the code of alternate function n, in [0, 5].
func Alt(n int) (Function, error) {
	if n < 0 || n >= len(altFunctions) {
		return 0, fmt.Errorf("bcm283x: invalid alternate function %d", n)
	}
	return altFunctions[n], nil
}

// altIndex returns the alternate function number of f.
func (f Function) altIndex() (int, bool) {
	for i, a := range altFunctions {
		if a == f {
			return i, true
		}
	}
	return 0, false
}

func (f Function) valid() bool {
	return f <= 7
}

func (f Function) String() string {
	switch f {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	if i, ok := f.altIndex(); ok {
		return fmt.Sprintf("alt%d", i)
	}
	return fmt.Sprintf("Function(%d)", uint8(f))
}

// ParseFunction parses "input", "output" or "alt0" to "alt5".
func ParseFunction(s string) (Function, error) {
	l := strings.ToLower(s)
	switch l {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	}
	if d, ok := strings.CutPrefix(l, "alt"); ok && len(d) == 1 && d[0] >= '0' && d[0] <= '5' {
		return altFunctions[d[0]-'0'], nil
	}
	return 0, fmt.Errorf("bcm283x: unknown function %q, valid values are input, output or alt0 to alt5", s)
}

// Resistor is the internal pull resistor configuration of a pin.
//
// The values are the GPPUD control codes.
type Resistor uint8

const (
	None     Resistor = 0
	PullDown Resistor = 1
	PullUp   Resistor = 2
)

func (r Resistor) valid() bool {
	return r <= PullUp
}

func (r Resistor) String() string {
	switch r {
	case None:
		return "disable"
	case PullDown:
		return "pulldown"
	case PullUp:
		return "pullup"
	default:
		return fmt.Sprintf("Resistor(%d)", uint8(r))
	}
}

// ParseResistor parses "pullup", "pulldown" or "disable".
func ParseResistor(s string) (Resistor, error) {
	switch strings.ToLower(s) {
	case "pullup", "up":
		return PullUp, nil
	case "pulldown", "down":
		return PullDown, nil
	case "disable", "none", "off", "float":
		return None, nil
	default:
		return 0, fmt.Errorf("bcm283x: unknown resistor %q, valid values are pullup, pulldown or disable", s)
	}
}

// Level is the logic level of a pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

func (l Level) String() string {
	if l {
		return "high"
	}
	return "low"
}

// ParseLevel parses "high" or "low".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "high", "1":
		return High, nil
	case "low", "0":
		return Low, nil
	default:
		return Low, fmt.Errorf("bcm283x: unknown level %q, valid values are high or low", s)
	}
}
