// SPDX-License-Identifier: MPL-2.0

//go:build unix

// Copyright (C) 2026 Aleksa Sarai <cyphar@cyphar.com>
// Copyright (C) 2026 SUSE LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package slicevec implements a small vector-like wrapper around a
// fixed-size byte buffer. Unlike a plain slice, a SliceVec never grows its
// backing buffer: any operation that would need more space than the buffer
// has fails with unix.ENAMETOOLONG and leaves the contents untouched.
package slicevec

import (
	"bytes"

	"golang.org/x/sys/unix"
)

var (
	dotDot      = []byte("..")
	slashDotDot = []byte("/..")
)

// SliceVec is a bounds-checked view of a caller-owned byte buffer. The zero
// value has no backing buffer and thus zero capacity; use New.
type SliceVec struct {
	buf []byte
	n   int
}

// New returns an empty SliceVec backed by buf.
func New(buf []byte) SliceVec {
	return SliceVec{buf: buf}
}

// Bytes returns the live portion of the buffer. The returned slice aliases
// the backing buffer and is invalidated by any mutation of the SliceVec.
func (v *SliceVec) Bytes() []byte {
	return v.buf[:v.n]
}

// Len returns the current length.
func (v *SliceVec) Len() int {
	return v.n
}

// Cap returns the size of the backing buffer.
func (v *SliceVec) Cap() int {
	return len(v.buf)
}

// IsEmpty returns whether the length is zero.
func (v *SliceVec) IsEmpty() bool {
	return v.n == 0
}

// SetLen sets the length without touching the contents. The caller must
// have already filled buf[:n] with valid bytes (say, by letting a syscall
// write into the spare capacity). n must not exceed Cap.
func (v *SliceVec) SetLen(n int) {
	v.n = n
}

// Truncate shortens the contents to at most n bytes. Truncating past the
// current length is a no-op.
func (v *SliceVec) Truncate(n int) {
	if n < v.n {
		v.n = n
	}
}

// Clear resets the length to zero.
func (v *SliceVec) Clear() {
	v.n = 0
}

// Push appends a single byte.
func (v *SliceVec) Push(c byte) error {
	if v.n >= len(v.buf) {
		return unix.ENAMETOOLONG
	}
	v.buf[v.n] = c
	v.n++
	return nil
}

// Pop removes the last byte, if any.
func (v *SliceVec) Pop() {
	if v.n > 0 {
		v.n--
	}
}

// Append appends src to the contents.
func (v *SliceVec) Append(src []byte) error {
	if v.n+len(src) > len(v.buf) {
		return unix.ENAMETOOLONG
	}
	copy(v.buf[v.n:], src)
	v.n += len(src)
	return nil
}

// Replace overwrites the entire contents with src.
func (v *SliceVec) Replace(src []byte) error {
	if len(src) > len(v.buf) {
		return unix.ENAMETOOLONG
	}
	copy(v.buf, src)
	v.n = len(src)
	return nil
}

// Insert splices src into the contents at offset i, shifting the tail to
// make room. i must be within [0, Len].
func (v *SliceVec) Insert(i int, src []byte) error {
	if len(src) == 0 {
		return nil
	}
	if v.n+len(src) > len(v.buf) {
		return unix.ENAMETOOLONG
	}
	copy(v.buf[i+len(src):v.n+len(src)], v.buf[i:v.n])
	copy(v.buf[i:], src)
	v.n += len(src)
	return nil
}

// RemoveRange deletes the bytes in [start, end), shifting the tail down.
// The range must be within [0, Len].
func (v *SliceVec) RemoveRange(start, end int) {
	copy(v.buf[start:], v.buf[end:v.n])
	v.n -= end - start
}

// MakeParentPath replaces the contents (treated as a path with no trailing
// slash and no "." components) with the path of its lexical parent
// directory. Since ".." cannot be collapsed without consulting the
// filesystem, a path that is already all ".."s gets another "/.." appended
// instead. An empty result means the current directory.
func (v *SliceVec) MakeParentPath() error {
	b := v.Bytes()
	switch {
	case len(b) == 0:
		return v.Append(dotDot)
	case bytes.Equal(b, dotDot) || bytes.HasSuffix(b, slashDotDot):
		return v.Append(slashDotDot)
	default:
		switch i := bytes.LastIndexByte(b, '/'); {
		case i == 0:
			// "/<...>"; keep the root
			v.Truncate(1)
		case i == 1 && b[0] == '/':
			// "//<...>"; keep the double root
			v.Truncate(2)
		case i > 0:
			v.Truncate(i)
		default:
			// no slashes at all
			v.Clear()
		}
		return nil
	}
}
