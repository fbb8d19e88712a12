// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package bcm283x

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadPinSet(t *testing.T) {
	ps, err := LoadPinSet(strings.NewReader(`{"pins":[
		{"pin":25,"function":"output","level":"high"},
		{"pin":24,"function":"input","resistor":"pullup"},
		{"pin":14,"function":"alt0"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(ps.Pins) != 3 {
		t.Fatalf("expected 3 pins, got %d", len(ps.Pins))
	}
	if ps.Pins[1] != (PinConfig{Pin: 24, Function: "input", Resistor: "pullup"}) {
		t.Errorf("unexpected %#v", ps.Pins[1])
	}
	if _, err := LoadPinSet(strings.NewReader(`{"pins":[{"pin":1,"function":"input","drive":"8mA"}]}`)); err == nil {
		t.Error("expected error on unknown field")
	}
	if _, err := LoadPinSet(strings.NewReader(`{"pins":`)); err == nil {
		t.Error("expected error on truncated document")
	}
}

func TestPinSet_Apply(t *testing.T) {
	c, s := newTestController(BCM2835)
	ps := &PinSet{Pins: []PinConfig{
		{Pin: 25, Function: "output", Level: "high"},
		{Pin: 24, Function: "input", Resistor: "pullup"},
		{Pin: 14, Function: "alt0"},
	}}
	if err := ps.Apply(c); err != nil {
		t.Fatal(err)
	}
	if l, _ := c.ReadLevel(25); l != High {
		t.Errorf("GPIO25: expected %s, got %s", High, l)
	}
	if p := s.Pull(24); p != PullUp {
		t.Errorf("GPIO24: expected %s, got %s", PullUp, p)
	}
	if f, _ := c.Function(14); f != Alt0 {
		t.Errorf("GPIO14: expected %s, got %s", Alt0, f)
	}
}

func TestPinSet_invalid(t *testing.T) {
	data := []struct {
		name string
		pins []PinConfig
		is   error
	}{
		{"range", []PinConfig{{Pin: 25, Function: "output"}, {Pin: 54, Function: "input"}}, ErrInvalidPin},
		{"negative", []PinConfig{{Pin: -1, Function: "input"}}, ErrInvalidPin},
		{"duplicate", []PinConfig{{Pin: 4, Function: "output"}, {Pin: 4, Function: "input"}}, nil},
		{"function", []PinConfig{{Pin: 4, Function: "pwm"}}, nil},
		{"resistor", []PinConfig{{Pin: 4, Function: "input", Resistor: "weak"}}, nil},
		{"level", []PinConfig{{Pin: 4, Function: "output", Level: "on"}}, nil},
		{"level on input", []PinConfig{{Pin: 4, Function: "input", Level: "high"}}, ErrInvalidFunction},
		{"resistor on output", []PinConfig{{Pin: 4, Function: "output", Resistor: "pullup"}}, nil},
	}
	for _, line := range data {
		c, s := newTestController(BCM2835)
		ps := &PinSet{Pins: line.pins}
		if err := ps.Validate(BCM2835); err == nil {
			t.Errorf("%s: expected Validate error", line.name)
		}
		err := ps.Apply(c)
		if err == nil {
			t.Errorf("%s: expected Apply error", line.name)
		} else if line.is != nil && !errors.Is(err, line.is) {
			t.Errorf("%s: expected %v, got %v", line.name, line.is, err)
		}
		if s.Reads() != 0 || len(s.Writes()) != 0 {
			t.Errorf("%s: registers accessed before validation completed", line.name)
		}
	}
}

func TestPinSet_platform(t *testing.T) {
	ps := &PinSet{Pins: []PinConfig{{Pin: 57, Function: "input", Resistor: "pulldown"}}}
	if err := ps.Validate(BCM2711); err != nil {
		t.Errorf("BCM2711: %v", err)
	}
	if err := ps.Validate(BCM2837); !errors.Is(err, ErrInvalidPin) {
		t.Errorf("BCM2837: expected ErrInvalidPin, got %v", err)
	}
}
