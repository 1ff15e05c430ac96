// SPDX-License-Identifier: MPL-2.0

//go:build unix

// Copyright (C) 2026 Aleksa Sarai <cyphar@cyphar.com>
// Copyright (C) 2026 SUSE LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package realpath

import (
	"bytes"

	"golang.org/x/sys/unix"
)

// componentStack holds path fragments that still need to be resolved, in a
// single fixed-size buffer. Fragments are stored NUL-separated, growing
// from the end of the buffer towards index 0 (buf[i:] is live, buf[:i] is
// free), so that pushing a symlink target makes its components come out of
// next() before the components of the path the symlink was found in. This
// is what lets symlink expansion run as a loop instead of recursing.
//
// next() applies the same normalization as componentIter: "." fragments
// and slash runs are skipped, and a fragment of exactly two slashes comes
// out as a double root.
type componentStack struct {
	buf []byte
	i   int
}

func newComponentStack(buf []byte) componentStack {
	return componentStack{buf: buf, i: len(buf)}
}

func (s *componentStack) isEmpty() bool {
	return s.i == len(s.buf)
}

// push adds a path to the top of the stack, so its components are yielded
// before everything currently on the stack. Trailing slashes are stripped;
// a path of only slashes is stored as the appropriate root marker.
func (s *componentStack) push(path []byte) error {
	if len(path) == 0 {
		return unix.ENOENT
	}
	if bytes.IndexByte(path, 0) >= 0 {
		return unix.EINVAL
	}

	stripped := stripTrailingSlashes(path)
	if len(stripped) == 0 {
		// The path was entirely slashes; only an exactly-double slash
		// keeps its special meaning.
		if len(path) == 2 {
			stripped = rootDouble
		} else {
			stripped = rootSingle
		}
	}

	// NUL padding between this fragment and the rest of the stack.
	if s.i != len(s.buf) {
		if s.i == 0 {
			return unix.ENAMETOOLONG
		}
		s.i--
		s.buf[s.i] = 0
	}

	if len(stripped) <= s.i {
		s.i -= len(stripped)
		copy(s.buf[s.i:], stripped)
		return nil
	}
	// Roll back the padding byte before reporting the overflow.
	if s.i < len(s.buf) && s.buf[s.i] == 0 {
		s.i++
	}
	return unix.ENAMETOOLONG
}

// pushSymlinkTarget reads the target of the symlink at path directly into
// the stack's free space and pushes it. Returns unix.EINVAL if path is not
// a symlink, and unix.ENAMETOOLONG if the target does not comfortably fit
// in the free space (a target that fills it completely cannot be told
// apart from a truncated one).
func (s *componentStack) pushSymlinkTarget(path []byte) error {
	if s.i == 0 {
		return unix.ENAMETOOLONG
	}

	n, err := readlinkInto(path, s.buf[:s.i])
	if err != nil {
		return err
	}
	if n >= s.i-1 {
		return unix.ENAMETOOLONG
	}

	s.i--
	s.buf[s.i] = 0
	s.i -= n
	copy(s.buf[s.i:s.i+n], s.buf[:n])
	return nil
}

// next pops the next component off the stack. The name of a returned
// component aliases the stack buffer and is only valid until the next
// mutation.
func (s *componentStack) next() (component, bool) {
	for s.i < len(s.buf) {
		if s.buf[s.i] == '/' {
			rest := s.buf[s.i+1:]
			s.i++
			s.skipSlashesNUL()
			if len(rest) >= 1 && rest[0] == '/' && (len(rest) < 2 || rest[1] != '/') {
				return component{kind: componentRootDouble}, true
			}
			return component{kind: componentRootSingle}, true
		}

		var name []byte
		if off := indexSlashNUL(s.buf[s.i:]); off >= 0 {
			name = s.buf[s.i : s.i+off]
			s.i += off
			s.skipSlashesNUL()
		} else {
			// No slashes or NULs left, so this is the last component.
			name = s.buf[s.i:]
			s.i = len(s.buf)
		}
		if len(name) != 0 && !bytes.Equal(name, dot) {
			return classify(name), true
		}
	}
	return component{}, false
}

// skipSlashesNUL consumes a run of slashes and at most one fragment
// separator.
func (s *componentStack) skipSlashesNUL() {
	for s.i < len(s.buf) && s.buf[s.i] == '/' {
		s.i++
	}
	if s.i < len(s.buf) && s.buf[s.i] == 0 {
		s.i++
	}
}

// clear empties the stack and hands back the backing buffer, which the
// resolver reuses as scratch space for getcwd(2) once the stack is done.
func (s *componentStack) clear() []byte {
	s.i = len(s.buf)
	return s.buf
}

func indexSlashNUL(b []byte) int {
	for i, c := range b {
		if c == '/' || c == 0 {
			return i
		}
	}
	return -1
}
