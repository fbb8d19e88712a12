// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// gpyo reads and writes the GPIO registers of a Raspberry Pi.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"time"

	"periph.io/x/conn/v3/pin/pinreg"
	"periph.io/x/gpyo"
	"periph.io/x/gpyo/bcm283x"
	"periph.io/x/gpyo/bcm283x/bcm283xsmoketest"
)

// command is a subcommand of gpyo.
type command struct {
	usage string
	// noCtrl is true for the commands not using the register block directly.
	noCtrl bool
	run    func(ctx context.Context, e *env, args []string) error
}

// env is the state shared by the subcommands.
type env struct {
	c *bcm283x.Controller
	w io.Writer
}

var commands = map[string]command{
	"function":  {usage: "<pin> <input|output|alt0..alt5>", run: cmdFunction},
	"state":     {usage: "<pin> <low|high>", run: cmdState},
	"read":      {usage: "<pin>", run: cmdRead},
	"resistor":  {usage: "<pin> <pullup|pulldown|disable>", run: cmdResistor},
	"info":      {usage: "", run: cmdInfo},
	"setup":     {usage: "<pinset.json>", run: cmdSetup},
	"blink":     {usage: "[-pin 25] [-n 5] [-period 1s]", run: cmdBlink},
	"watch":     {usage: "[-pin 25] [-n 10] [-period 1s]", run: cmdWatch},
	"smoketest": {usage: "-in <pin> -out <pin> [-loops 1000]", run: cmdSmokeTest},
	"header":    {usage: "", noCtrl: true, run: cmdHeader},
}

func usage(f *flag.FlagSet) func() {
	return func() {
		out := f.Output()
		fmt.Fprintf(out, "Usage: gpyo [flags] <command> [args]\n\nCommands:\n")
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  %-10s %s\n", name, commands[name].usage)
		}
		fmt.Fprintf(out, "\nFlags:\n")
		f.PrintDefaults()
	}
}

func run(ctx context.Context, args []string, w io.Writer) (err error) {
	f := flag.NewFlagSet("gpyo", flag.ContinueOnError)
	f.SetOutput(w)
	f.Usage = usage(f)
	dev := f.String("dev", bcm283x.DefaultDevice, "device file to map; /dev/mem requires root")
	platform := f.String("platform", "", "SoC to assume instead of detecting it: bcm2835, bcm2836, bcm2837 or bcm2711")
	simulate := f.Bool("simulate", false, "use in-memory registers instead of the hardware")
	verbose := f.Bool("v", false, "verbose log")
	if err := f.Parse(args); err != nil {
		return err
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)
	if f.NArg() == 0 {
		f.Usage()
		return errors.New("missing command")
	}
	cmd, ok := commands[f.Arg(0)]
	if !ok {
		return fmt.Errorf("unknown command %q", f.Arg(0))
	}
	e := &env{w: w}
	if !cmd.noCtrl {
		var p *bcm283x.Platform
		if *platform != "" {
			v, err := bcm283x.ParsePlatform(*platform)
			if err != nil {
				return err
			}
			p = &v
		}
		if *simulate {
			if p == nil {
				p = &bcm283x.BCM2837
			}
			e.c = bcm283x.New(bcm283x.NewSim(), *p)
		} else if e.c, err = bcm283x.Open(&bcm283x.Opts{Device: *dev, Platform: p}); err != nil {
			return err
		}
		defer func() {
			if err2 := e.c.Close(); err == nil {
				err = err2
			}
		}()
		log.Printf("using %s", e.c.Platform())
	}
	return cmd.run(ctx, e, f.Args()[1:])
}

func parsePin(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid pin %q", s)
	}
	return n, nil
}

func expectArgs(args []string, n int) error {
	if len(args) != n {
		return fmt.Errorf("expected %d arguments, got %d", n, len(args))
	}
	return nil
}

func cmdFunction(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	fn, err := bcm283x.ParseFunction(args[1])
	if err != nil {
		return err
	}
	return e.c.SetFunction(pin, fn)
}

func cmdState(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	l, err := bcm283x.ParseLevel(args[1])
	if err != nil {
		return err
	}
	return e.c.WriteLevel(pin, l)
}

func cmdRead(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 1); err != nil {
		return err
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	l, err := e.c.ReadLevel(pin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(e.w, l)
	return err
}

func cmdResistor(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	pin, err := parsePin(args[0])
	if err != nil {
		return err
	}
	r, err := bcm283x.ParseResistor(args[1])
	if err != nil {
		return err
	}
	return e.c.SetResistor(pin, r)
}

func cmdInfo(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 0); err != nil {
		return err
	}
	p := e.c.Platform()
	fmt.Fprintf(e.w, "Platform: %s\n", p)
	for i := 0; i <= p.MaxPin; i++ {
		fn, err := e.c.Function(i)
		if err != nil {
			return err
		}
		l, err := e.c.ReadLevel(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.w, "GPIO%-2d %-6s %s\n", i, fn, l)
	}
	return nil
}

func cmdSetup(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 1); err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	ps, err := bcm283x.LoadPinSet(f)
	if err != nil {
		return err
	}
	if err := ps.Apply(e.c); err != nil {
		return err
	}
	log.Printf("configured %d pins", len(ps.Pins))
	return nil
}

// loopFlags parses the flags of blink and watch.
func loopFlags(name string, w io.Writer, args []string, n int) (pin, count int, period time.Duration, err error) {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(w)
	p := f.Int("pin", 25, "GPIO to use")
	c := f.Int("n", n, "number of iterations")
	d := f.Duration("period", time.Second, "delay between iterations")
	if err := f.Parse(args); err != nil {
		return 0, 0, 0, err
	}
	if f.NArg() != 0 {
		return 0, 0, 0, errors.New("unrecognized arguments")
	}
	if *c < 1 {
		return 0, 0, 0, errors.New("-n must be at least 1")
	}
	return *p, *c, *d, nil
}

// sleep waits for d or until ctx is canceled.
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// cmdBlink toggles an output, starting and ending high.
func cmdBlink(ctx context.Context, e *env, args []string) error {
	pin, n, period, err := loopFlags("blink", e.w, args, 5)
	if err != nil {
		return err
	}
	if err := e.c.SetFunction(pin, bcm283x.Output); err != nil {
		return err
	}
	l := bcm283x.High
	for i := 0; i < n; i++ {
		if i != 0 {
			if err := sleep(ctx, period); err != nil {
				return err
			}
		}
		if err := e.c.WriteLevel(pin, l); err != nil {
			return err
		}
		fmt.Fprintf(e.w, "GPIO%d %s\n", pin, l)
		l = !l
	}
	return nil
}

// cmdWatch reads an input with its pull-up enabled.
func cmdWatch(ctx context.Context, e *env, args []string) error {
	pin, n, period, err := loopFlags("watch", e.w, args, 10)
	if err != nil {
		return err
	}
	if err := e.c.SetFunction(pin, bcm283x.Input); err != nil {
		return err
	}
	if err := e.c.SetResistor(pin, bcm283x.PullUp); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if i != 0 {
			if err := sleep(ctx, period); err != nil {
				return err
			}
		}
		l, err := e.c.ReadLevel(pin)
		if err != nil {
			return err
		}
		fmt.Fprintf(e.w, "State was %s\n", l)
	}
	return nil
}

func cmdSmokeTest(ctx context.Context, e *env, args []string) error {
	s := &bcm283xsmoketest.SmokeTest{Ctrl: e.c, W: e.w}
	f := flag.NewFlagSet(s.Name(), flag.ContinueOnError)
	f.SetOutput(e.w)
	return s.Run(f, args)
}

// cmdHeader loads the drivers and prints the headers they registered.
func cmdHeader(ctx context.Context, e *env, args []string) error {
	if err := expectArgs(args, 0); err != nil {
		return err
	}
	state, err := gpyo.Init()
	if err != nil {
		return err
	}
	for _, failure := range state.Failed {
		log.Printf("%s: %v", failure.D, failure.Err)
	}
	all := pinreg.All()
	if len(all) == 0 {
		return errors.New("no header found")
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(e.w, "%s:\n", name)
		pos := 1
		for _, row := range all[name] {
			for _, p := range row {
				fmt.Fprintf(e.w, "  %2d: %-8s %s\n", pos, p, p.Function())
				pos++
			}
		}
	}
	return nil
}

func mainImpl() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout)
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "gpyo: %s.\n", err)
		os.Exit(1)
	}
}
