// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package pmem

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

// PageSize is the granularity of a mapping.
const PageSize = 4096

// Error is returned by Map and Mem.Close.
type Error struct {
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("pmem: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("pmem: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Mem is a mapped physical memory window.
type Mem struct {
	mu   sync.Mutex
	path string
	orig []byte
	regs []uint32
}

// Map maps size bytes of the device file at path, starting at offset.
//
// offset must be page aligned and size a non-zero multiple of 4.
func Map(path string, offset int64, size int) (*Mem, error) {
	if offset%PageSize != 0 {
		return nil, &Error{Op: "map", Path: path, Err: fmt.Errorf("offset %#x is not page aligned", offset)}
	}
	if size <= 0 || size%4 != 0 {
		return nil, &Error{Op: "map", Path: path, Err: fmt.Errorf("invalid size %d", size)}
	}
	b, err := mmap(path, offset, size)
	if err != nil {
		return nil, &Error{Op: "map", Path: path, Err: err}
	}
	return &Mem{path: path, orig: b, regs: asUint32(b)}, nil
}

// Uint32 returns the window as 32 bits words.
//
// The slice must not be used after Close.
func (m *Mem) Uint32() []uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.regs
}

// Close unmaps the window. It is safe to call it more than once.
func (m *Mem) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.orig == nil {
		return nil
	}
	err := munmap(m.orig)
	m.orig = nil
	m.regs = nil
	if err != nil {
		return &Error{Op: "unmap", Path: m.path, Err: err}
	}
	return nil
}

// asUint32 reinterprets b as native endian 32 bits words. Trailing bytes that
// do not fill a word are ignored.
func asUint32(b []byte) []uint32 {
	if len(b) < 4 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&b[0])), len(b)/4)
}

var errUnsupported = errors.New("physical memory mapping is not supported on this OS")
