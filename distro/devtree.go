// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package distro

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/u-root/u-root/pkg/dt"
)

// Range is one entry of a bus "ranges" property: Size bytes at Child on the
// bus are reachable at Parent on the parent bus.
type Range struct {
	Child  uint64
	Parent uint64
	Size   uint64
}

// Contains returns true if the child bus address addr is covered.
func (r Range) Contains(addr uint64) bool {
	return addr >= r.Child && addr-r.Child < r.Size
}

// Translate converts a child bus address into a parent bus address.
func (r Range) Translate(addr uint64) uint64 {
	return addr - r.Child + r.Parent
}

// DTModel returns the board model as reported by the device tree, or
// "<unknown>".
func DTModel() string {
	t := load()
	if t.model == "" {
		return "<unknown>"
	}
	return t.model
}

// DTCompatible returns the root node compatible strings, most specific first.
func DTCompatible() []string {
	return load().compatible
}

// SocRanges returns the address translations of the /soc bus node.
func SocRanges() ([]Range, error) {
	t := load()
	if t.err != nil {
		return nil, t.err
	}
	if t.ranges == nil {
		return nil, errors.New("distro: no soc ranges in device tree")
	}
	return t.ranges, nil
}

//

const (
	fdtPath  = "/sys/firmware/fdt"
	procRoot = "/proc/device-tree"
)

type tree struct {
	model      string
	compatible []string
	ranges     []Range
	err        error
}

var (
	mu     sync.Mutex
	cached *tree
)

func load() *tree {
	mu.Lock()
	defer mu.Unlock()
	if cached == nil {
		t, err := readFDT(fdtPath)
		if err != nil {
			t, err = readProcDT(procRoot)
		}
		if err != nil {
			t = &tree{err: err}
		}
		cached = t
	}
	return cached
}

// readFDT parses a flattened device tree blob.
func readFDT(p string) (*tree, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fdt, err := dt.ReadFDT(f)
	if err != nil {
		return nil, fmt.Errorf("distro: %s: %w", p, err)
	}
	root := fdt.RootNode
	t := &tree{}
	if prop, ok := root.LookProperty("model"); ok {
		t.model = parseString(prop.Value)
	}
	if prop, ok := root.LookProperty("compatible"); ok {
		t.compatible = parseStringList(prop.Value)
	}
	parentCells := uint32(1)
	if prop, ok := root.LookProperty("#address-cells"); ok {
		if parentCells, err = prop.AsU32(); err != nil {
			return nil, fmt.Errorf("distro: root #address-cells: %w", err)
		}
	}
	for _, n := range root.Children {
		if n.Name != "soc" && !strings.HasPrefix(n.Name, "soc@") {
			continue
		}
		childCells, sizeCells := uint32(1), uint32(1)
		if prop, ok := n.LookProperty("#address-cells"); ok {
			if childCells, err = prop.AsU32(); err != nil {
				return nil, fmt.Errorf("distro: soc #address-cells: %w", err)
			}
		}
		if prop, ok := n.LookProperty("#size-cells"); ok {
			if sizeCells, err = prop.AsU32(); err != nil {
				return nil, fmt.Errorf("distro: soc #size-cells: %w", err)
			}
		}
		if prop, ok := n.LookProperty("ranges"); ok {
			if t.ranges, err = parseRanges(prop.Value, childCells, parentCells, sizeCells); err != nil {
				return nil, err
			}
		}
		break
	}
	return t, nil
}

// readProcDT reads the same properties as readFDT from the unpacked device
// tree rooted at root.
func readProcDT(root string) (*tree, error) {
	t := &tree{}
	b, err := os.ReadFile(path.Join(root, "compatible"))
	if err != nil {
		return nil, err
	}
	t.compatible = parseStringList(b)
	if b, err = os.ReadFile(path.Join(root, "model")); err == nil {
		t.model = parseString(b)
	}
	parentCells := readCells(path.Join(root, "#address-cells"), 1)
	childCells := readCells(path.Join(root, "soc", "#address-cells"), 1)
	sizeCells := readCells(path.Join(root, "soc", "#size-cells"), 1)
	if b, err = os.ReadFile(path.Join(root, "soc", "ranges")); err == nil {
		if t.ranges, err = parseRanges(b, childCells, parentCells, sizeCells); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// readCells reads a single big endian cell, returning def on any failure.
func readCells(p string, def uint32) uint32 {
	b, err := os.ReadFile(p)
	if err != nil || len(b) != 4 {
		return def
	}
	return binary.BigEndian.Uint32(b)
}

// parseRanges decodes a "ranges" property whose entries are made of
// childCells, parentCells and sizeCells big endian 32 bits cells.
func parseRanges(b []byte, childCells, parentCells, sizeCells uint32) ([]Range, error) {
	if childCells == 0 || childCells > 2 || parentCells == 0 || parentCells > 2 || sizeCells == 0 || sizeCells > 2 {
		return nil, fmt.Errorf("distro: unsupported ranges cells %d/%d/%d", childCells, parentCells, sizeCells)
	}
	entry := int(childCells+parentCells+sizeCells) * 4
	if len(b)%entry != 0 {
		return nil, fmt.Errorf("distro: ranges length %d is not a multiple of %d", len(b), entry)
	}
	var out []Range
	for len(b) != 0 {
		var r Range
		r.Child, b = readAddr(b, childCells)
		r.Parent, b = readAddr(b, parentCells)
		r.Size, b = readAddr(b, sizeCells)
		out = append(out, r)
	}
	return out, nil
}

func readAddr(b []byte, cells uint32) (uint64, []byte) {
	var v uint64
	for i := uint32(0); i < cells; i++ {
		v = v<<32 | uint64(binary.BigEndian.Uint32(b))
		b = b[4:]
	}
	return v, b
}

func parseString(b []byte) string {
	return strings.TrimRight(string(b), "\x00")
}

func parseStringList(b []byte) []string {
	var out []string
	for _, s := range strings.Split(string(b), "\x00") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
