// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package bcm283xsmoketest verifies that the GPIO register block of a
// Raspberry Pi is working as expected.
//
// It requires two GPIOs connected together with a jumper wire.
package bcm283xsmoketest

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/gpyo/bcm283x"
)

// settle is the time given to a jumpered input to follow a change.
const settle = 10 * time.Microsecond

// SmokeTest is run by "gpyo smoketest".
type SmokeTest struct {
	// Ctrl is the controller to test. When nil, the hardware is opened for the
	// duration of Run.
	Ctrl *bcm283x.Controller
	// W receives the report. Defaults to os.Stdout.
	W io.Writer
}

// Name implements the SmokeTest interface.
func (s *SmokeTest) Name() string {
	return "bcm283x"
}

// Description implements the SmokeTest interface.
func (s *SmokeTest) Description() string {
	return "Tests two jumpered GPIOs of the BCM283x register block"
}

// Run implements the SmokeTest interface.
func (s *SmokeTest) Run(f *flag.FlagSet, args []string) (err error) {
	in := f.Int("in", -1, "GPIO to read from")
	out := f.Int("out", -1, "GPIO to drive, connected to -in")
	loops := f.Int("loops", 1000, "register accesses to time")
	if err := f.Parse(args); err != nil {
		return err
	}
	if f.NArg() != 0 {
		f.Usage()
		return errors.New("unrecognized arguments")
	}
	if *in == -1 || *out == -1 {
		return errors.New("-in and -out are required")
	}
	if *in == *out {
		return errors.New("-in and -out must be different")
	}
	if *loops < 1 {
		return errors.New("-loops must be at least 1")
	}
	c := s.Ctrl
	if c == nil {
		if c, err = bcm283x.Open(nil); err != nil {
			return err
		}
		defer func() {
			if err2 := c.Close(); err == nil {
				err = err2
			}
		}()
	}
	j := &jumper{c: c, in: *in, out: *out, w: s.W}
	if j.w == nil {
		j.w = os.Stdout
	}
	fmt.Fprintf(j.w, "Testing GPIO%d and GPIO%d on %s\n", j.in, j.out, c.Platform())
	for _, step := range []func() error{j.levels, j.pulls, j.adapter, func() error { return j.timing(*loops) }} {
		if err := step(); err != nil {
			// Don't leave the output driving the jumper.
			_ = j.release()
			return err
		}
	}
	return j.release()
}

// jumper is a pair of GPIOs wired together.
type jumper struct {
	c       *bcm283x.Controller
	in, out int
	w       io.Writer
}

// do runs fn and reports how long it took.
func (j *jumper) do(what string, fn func() error) error {
	start := time.Now()
	err := fn()
	if err != nil {
		fmt.Fprintf(j.w, "    %-32s %10s  %v\n", what, time.Since(start), err)
		return err
	}
	fmt.Fprintf(j.w, "    %-32s %10s\n", what, time.Since(start))
	return nil
}

// expect reads the input and compares it to l.
func (j *jumper) expect(l bcm283x.Level, cond string) error {
	time.Sleep(settle)
	return j.do(fmt.Sprintf("ReadLevel(%d) == %s", j.in, l), func() error {
		got, err := j.c.ReadLevel(j.in)
		if err != nil {
			return err
		}
		if got != l {
			return fmt.Errorf("GPIO%d: expected %s %s but got %s", j.in, l, cond, got)
		}
		return nil
	})
}

// levels drives the output and reads the levels back on the input.
func (j *jumper) levels() error {
	fmt.Fprintf(j.w, "  Levels from GPIO%d to GPIO%d:\n", j.out, j.in)
	if err := j.setFunction(j.in, bcm283x.Input); err != nil {
		return err
	}
	if err := j.setResistor(bcm283x.None); err != nil {
		return err
	}
	if err := j.setFunction(j.out, bcm283x.Output); err != nil {
		return err
	}
	for _, l := range []bcm283x.Level{bcm283x.Low, bcm283x.High, bcm283x.Low} {
		l := l
		if err := j.do(fmt.Sprintf("WriteLevel(%d, %s)", j.out, l), func() error { return j.c.WriteLevel(j.out, l) }); err != nil {
			return err
		}
		if err := j.expect(l, "while driven"); err != nil {
			return err
		}
	}
	return nil
}

// pulls checks that the input follows its pull resistor once the output
// stops driving.
func (j *jumper) pulls() error {
	fmt.Fprintf(j.w, "  Pull resistors on GPIO%d:\n", j.in)
	if err := j.setFunction(j.out, bcm283x.Input); err != nil {
		return err
	}
	for _, r := range []bcm283x.Resistor{bcm283x.PullUp, bcm283x.PullDown} {
		if err := j.setResistor(r); err != nil {
			return err
		}
		l := r == bcm283x.PullUp
		if err := j.expect(bcm283x.Level(l), "with "+r.String()); err != nil {
			return err
		}
	}
	return nil
}

// adapter drives the jumper through the gpio.PinIO of both pins. The output
// starts as an input so Out also switches its function.
func (j *jumper) adapter() error {
	fmt.Fprintf(j.w, "  gpio.PinIO on GPIO%d and GPIO%d:\n", j.out, j.in)
	var pIn, pOut gpio.PinIO
	var err error
	if pIn, err = j.c.Pin(j.in); err != nil {
		return err
	}
	if pOut, err = j.c.Pin(j.out); err != nil {
		return err
	}
	if err := j.do(fmt.Sprintf("%s.In(%s)", pIn, gpio.Float), func() error { return pIn.In(gpio.Float, gpio.NoEdge) }); err != nil {
		return err
	}
	for _, l := range []gpio.Level{gpio.High, gpio.Low} {
		l := l
		if err := j.do(fmt.Sprintf("%s.Out(%s)", pOut, l), func() error { return pOut.Out(l) }); err != nil {
			return err
		}
		time.Sleep(settle)
		if err := j.do(fmt.Sprintf("%s.Read() == %s", pIn, l), func() error {
			if got := pIn.Read(); got != l {
				return fmt.Errorf("%s: expected %s but got %s", pIn, l, got)
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

// timing measures raw register accesses. It doesn't check correctness.
func (j *jumper) timing(loops int) error {
	fmt.Fprintf(j.w, "  Register access time:\n")
	if err := j.setFunction(j.out, bcm283x.Output); err != nil {
		return err
	}
	start := time.Now()
	for i := 0; i < loops; i++ {
		if _, err := j.c.ReadLevel(j.in); err != nil {
			return err
		}
	}
	d := time.Since(start)
	fmt.Fprintf(j.w, "    %d ReadLevel:  %s; %s/op\n", loops, d, d/time.Duration(loops))
	start = time.Now()
	for i := 0; i < loops; i++ {
		if err := j.c.WriteLevel(j.out, bcm283x.Level(i&1 == 0)); err != nil {
			return err
		}
	}
	d = time.Since(start)
	fmt.Fprintf(j.w, "    %d WriteLevel: %s; %s/op\n", loops, d, d/time.Duration(loops))
	return nil
}

// release leaves both pins as inputs without pull.
func (j *jumper) release() error {
	if err := j.c.SetFunction(j.out, bcm283x.Input); err != nil {
		return err
	}
	if err := j.c.SetFunction(j.in, bcm283x.Input); err != nil {
		return err
	}
	return j.c.SetResistor(j.in, bcm283x.None)
}

func (j *jumper) setFunction(pin int, f bcm283x.Function) error {
	return j.do(fmt.Sprintf("SetFunction(%d, %s)", pin, f), func() error { return j.c.SetFunction(pin, f) })
}

func (j *jumper) setResistor(r bcm283x.Resistor) error {
	return j.do(fmt.Sprintf("SetResistor(%d, %s)", j.in, r), func() error { return j.c.SetResistor(j.in, r) })
}
