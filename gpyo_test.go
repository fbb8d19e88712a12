// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package gpyo

import (
	"runtime"
	"testing"
)

func TestInit(t *testing.T) {
	state, err := Init()
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{}
	for _, d := range state.Loaded {
		seen[d.String()] = true
	}
	for _, f := range state.Skipped {
		seen[f.D.String()] = true
	}
	for _, f := range state.Failed {
		seen[f.D.String()] = true
	}
	arm := runtime.GOARCH == "arm" || runtime.GOARCH == "arm64"
	for _, name := range []string{"bcm283x-gpio", "rpi"} {
		if seen[name] != arm {
			t.Errorf("%s: registered is %t on %s", name, seen[name], runtime.GOARCH)
		}
	}
}
