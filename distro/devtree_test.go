// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package distro

import (
	"os"
	"path"
	"reflect"
	"testing"
)

func createDirs(t *testing.T, root string, dirs ...string) string {
	for _, dir := range dirs {
		if err := os.MkdirAll(path.Join(root, dir), os.ModePerm); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func writeFile(t *testing.T, root, name string, content []byte) {
	if err := os.WriteFile(path.Join(root, name), content, 0644); err != nil {
		t.Fatal(err)
	}
}

func cells(v ...uint32) []byte {
	out := make([]byte, 0, 4*len(v))
	for _, c := range v {
		out = append(out, byte(c>>24), byte(c>>16), byte(c>>8), byte(c))
	}
	return out
}

func TestParseRanges_pi3(t *testing.T) {
	b := cells(0x7e000000, 0x3f000000, 0x01000000, 0x40000000, 0x40000000, 0x00001000)
	got, err := parseRanges(b, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []Range{
		{Child: 0x7e000000, Parent: 0x3f000000, Size: 0x01000000},
		{Child: 0x40000000, Parent: 0x40000000, Size: 0x1000},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseRanges() = %#v, want %#v", got, want)
	}
}

func TestParseRanges_pi4(t *testing.T) {
	b := cells(0x7e000000, 0x0, 0xfe000000, 0x01800000)
	got, err := parseRanges(b, 1, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Parent != 0xfe000000 {
		t.Fatalf("parseRanges() = %#v", got)
	}
	if !got[0].Contains(0x7e200000) {
		t.Error("expected GPIO bus address to be covered")
	}
	if got[0].Contains(0x7f800000) {
		t.Error("end of range must be exclusive")
	}
	if a := got[0].Translate(0x7e200000); a != 0xfe200000 {
		t.Errorf("Translate() = %#x", a)
	}
}

func TestParseRanges_invalid(t *testing.T) {
	if _, err := parseRanges(cells(1, 2, 3, 4), 1, 1, 1); err == nil {
		t.Error("expected error on truncated entry")
	}
	if _, err := parseRanges(cells(1, 2, 3), 3, 1, 1); err == nil {
		t.Error("expected error on unsupported cell count")
	}
}

func TestParseStringList(t *testing.T) {
	got := parseStringList([]byte("raspberrypi,4-model-b\x00brcm,bcm2711\x00"))
	want := []string{"raspberrypi,4-model-b", "brcm,bcm2711"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseStringList() = %q, want %q", got, want)
	}
	if s := parseString([]byte("Raspberry Pi 3 Model B Rev 1.2\x00")); s != "Raspberry Pi 3 Model B Rev 1.2" {
		t.Errorf("parseString() = %q", s)
	}
}

func TestReadProcDT(t *testing.T) {
	root := createDirs(t, t.TempDir(), "soc")
	writeFile(t, root, "compatible", []byte("raspberrypi,4-model-b\x00brcm,bcm2711\x00"))
	writeFile(t, root, "model", []byte("Raspberry Pi 4 Model B Rev 1.4\x00"))
	writeFile(t, root, "#address-cells", cells(2))
	writeFile(t, root, "soc/#address-cells", cells(1))
	writeFile(t, root, "soc/#size-cells", cells(1))
	writeFile(t, root, "soc/ranges", cells(0x7e000000, 0x0, 0xfe000000, 0x01800000))
	tr, err := readProcDT(root)
	if err != nil {
		t.Fatal(err)
	}
	if tr.model != "Raspberry Pi 4 Model B Rev 1.4" {
		t.Errorf("model = %q", tr.model)
	}
	if len(tr.compatible) != 2 || tr.compatible[1] != "brcm,bcm2711" {
		t.Errorf("compatible = %q", tr.compatible)
	}
	want := []Range{{Child: 0x7e000000, Parent: 0xfe000000, Size: 0x01800000}}
	if !reflect.DeepEqual(tr.ranges, want) {
		t.Errorf("ranges = %#v, want %#v", tr.ranges, want)
	}
}

func TestReadProcDT_noRanges(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "compatible", []byte("brcm,bcm2835\x00"))
	tr, err := readProcDT(root)
	if err != nil {
		t.Fatal(err)
	}
	if tr.ranges != nil || tr.model != "" {
		t.Errorf("unexpected tree %#v", tr)
	}
}

func TestReadProcDT_missing(t *testing.T) {
	if _, err := readProcDT(path.Join(t.TempDir(), "device-tree")); err == nil {
		t.Error("expected error")
	}
}

func TestReadFDT_missing(t *testing.T) {
	if _, err := readFDT(path.Join(t.TempDir(), "fdt")); err == nil {
		t.Error("expected error")
	}
}
