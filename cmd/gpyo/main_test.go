// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"periph.io/x/gpyo/bcm283x"
)

func runSim(t *testing.T, args ...string) (string, error) {
	var b bytes.Buffer
	err := run(context.Background(), append([]string{"-simulate"}, args...), &b)
	return b.String(), err
}

func TestRun_commands(t *testing.T) {
	data := []struct {
		args     []string
		expected string
	}{
		{[]string{"function", "25", "output"}, ""},
		{[]string{"resistor", "24", "pullup"}, ""},
		{[]string{"read", "25"}, "low\n"},
		{[]string{"blink", "-n", "3", "-period", "1ms"}, "GPIO25 high\nGPIO25 low\nGPIO25 high\n"},
		{[]string{"watch", "-pin", "4", "-n", "2", "-period", "1ms"}, "State was high\nState was high\n"},
	}
	for _, line := range data {
		out, err := runSim(t, line.args...)
		if err != nil {
			t.Errorf("%v: %v", line.args, err)
			continue
		}
		if out != line.expected {
			t.Errorf("%v: expected %q, got %q", line.args, line.expected, out)
		}
	}
}

func TestRun_errors(t *testing.T) {
	data := []struct {
		args []string
		is   error
	}{
		{[]string{"state", "25", "high"}, bcm283x.ErrInvalidFunction},
		{[]string{"read", "54"}, bcm283x.ErrInvalidPin},
		{[]string{"-platform", "bcm2711", "read", "58"}, bcm283x.ErrInvalidPin},
		{[]string{"function", "25", "pwm"}, nil},
		{[]string{"function", "x", "input"}, nil},
		{[]string{"read"}, nil},
		{[]string{"resistor", "4", "weak"}, nil},
		{[]string{"blink", "-n", "0"}, nil},
		{[]string{"-platform", "bcm2712", "info"}, nil},
		{[]string{"smoketest", "-in", "23"}, nil},
		{[]string{"bogus"}, nil},
		{nil, nil},
	}
	for _, line := range data {
		_, err := runSim(t, line.args...)
		if err == nil {
			t.Errorf("%v: expected error", line.args)
		} else if line.is != nil && !errors.Is(err, line.is) {
			t.Errorf("%v: expected %v, got %v", line.args, line.is, err)
		}
	}
}

func TestRun_info(t *testing.T) {
	out, err := runSim(t, "-platform", "bcm2711", "info")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if lines[0] != "Platform: BCM2711" {
		t.Errorf("unexpected header %q", lines[0])
	}
	if n := len(lines); n != 59 {
		t.Errorf("expected 58 pins, got %d lines", n-1)
	}
	if lines[26] != "GPIO25 input  low" {
		t.Errorf("unexpected line %q", lines[26])
	}
}

func TestRun_setup(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pins.json")
	if err := os.WriteFile(p, []byte(`{"pins":[{"pin":25,"function":"output","level":"high"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := runSim(t, "setup", p); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(`{"pins":[{"pin":25,"function":"input","level":"high"}]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := runSim(t, "setup", p); !errors.Is(err, bcm283x.ErrInvalidFunction) {
		t.Errorf("expected ErrInvalidFunction, got %v", err)
	}
	if _, err := runSim(t, "setup", filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error on missing file")
	}
}

func TestRun_canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b bytes.Buffer
	err := run(ctx, []string{"-simulate", "blink", "-n", "3", "-period", "1h"}, &b)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if s := b.String(); s != "GPIO25 high\n" {
		t.Errorf("unexpected output %q", s)
	}
}

func TestRun_missingDevice(t *testing.T) {
	var b bytes.Buffer
	dev := filepath.Join(t.TempDir(), "gpiomem")
	err := run(context.Background(), []string{"-dev", dev, "-platform", "bcm2837", "read", "4"}, &b)
	if !errors.Is(err, bcm283x.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestSleep(t *testing.T) {
	if err := sleep(context.Background(), 0); err != nil {
		t.Fatal(err)
	}
}

func TestRun_header(t *testing.T) {
	if runtime.GOARCH == "arm" || runtime.GOARCH == "arm64" {
		t.Skip("drivers are registered on this host")
	}
	var b bytes.Buffer
	if err := run(context.Background(), []string{"header"}, &b); err == nil {
		t.Fatal("expected no header without drivers")
	}
}
