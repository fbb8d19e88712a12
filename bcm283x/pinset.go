// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"encoding/json"
	"fmt"
	"io"
)

// PinConfig is the desired configuration of one pin.
//
// Resistor is only allowed on non output pins and Level only on output
// pins. Empty fields are left untouched.
type PinConfig struct {
	Pin      int    `json:"pin"`
	Function string `json:"function"`
	Resistor string `json:"resistor,omitempty"`
	Level    string `json:"level,omitempty"`
}

// PinSet is a list of pin configurations applied as a whole.
type PinSet struct {
	Pins []PinConfig `json:"pins"`
}

// LoadPinSet decodes a JSON pin set. Unknown fields are rejected.
func LoadPinSet(r io.Reader) (*PinSet, error) {
	d := json.NewDecoder(r)
	d.DisallowUnknownFields()
	ps := &PinSet{}
	if err := d.Decode(ps); err != nil {
		return nil, fmt.Errorf("bcm283x: invalid pin set: %w", err)
	}
	return ps, nil
}

type pinStep struct {
	pin         int
	function    Function
	resistor    Resistor
	hasResistor bool
	level       Level
	hasLevel    bool
}

// Validate checks every entry against p without touching hardware.
func (ps *PinSet) Validate(p Platform) error {
	_, err := ps.compile(p)
	return err
}

// Apply validates the whole set, then configures each pin in order: function,
// then resistor, then level.
//
// No register is written if validation fails.
func (ps *PinSet) Apply(c *Controller) error {
	steps, err := ps.compile(c.Platform())
	if err != nil {
		return err
	}
	for _, s := range steps {
		if err := c.SetFunction(s.pin, s.function); err != nil {
			return err
		}
		if s.hasResistor {
			if err := c.SetResistor(s.pin, s.resistor); err != nil {
				return err
			}
		}
		if s.hasLevel {
			if err := c.WriteLevel(s.pin, s.level); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ps *PinSet) compile(p Platform) ([]pinStep, error) {
	if p.MaxPin == 0 {
		p = BCM2835
	}
	seen := map[int]bool{}
	steps := make([]pinStep, 0, len(ps.Pins))
	for i, pc := range ps.Pins {
		if pc.Pin < 0 || pc.Pin > p.MaxPin {
			return nil, fmt.Errorf("bcm283x: pin set entry %d: GPIO%d: %w", i, pc.Pin, ErrInvalidPin)
		}
		if seen[pc.Pin] {
			return nil, fmt.Errorf("bcm283x: pin set entry %d: GPIO%d is listed twice", i, pc.Pin)
		}
		seen[pc.Pin] = true
		s := pinStep{pin: pc.Pin}
		var err error
		if s.function, err = ParseFunction(pc.Function); err != nil {
			return nil, fmt.Errorf("pin set entry %d: %w", i, err)
		}
		if pc.Resistor != "" {
			if s.function == Output {
				return nil, fmt.Errorf("bcm283x: pin set entry %d: GPIO%d: resistor on an output pin", i, pc.Pin)
			}
			if s.resistor, err = ParseResistor(pc.Resistor); err != nil {
				return nil, fmt.Errorf("pin set entry %d: %w", i, err)
			}
			s.hasResistor = true
		}
		if pc.Level != "" {
			if s.function != Output {
				return nil, fmt.Errorf("bcm283x: pin set entry %d: GPIO%d: %w", i, pc.Pin, ErrInvalidFunction)
			}
			if s.level, err = ParseLevel(pc.Level); err != nil {
				return nil, fmt.Errorf("pin set entry %d: %w", i, err)
			}
			s.hasLevel = true
		}
		steps = append(steps, s)
	}
	return steps, nil
}
