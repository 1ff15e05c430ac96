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
	"errors"

	"golang.org/x/sys/unix"

	"github.com/cyphar/realpath-ext/internal/slicevec"
)

var (
	slashDot    = []byte("/.")
	dotDotSlash = []byte("../")
)

func isRootMarker(b []byte) bool {
	switch len(b) {
	case 1:
		return b[0] == '/'
	case 2:
		return b[0] == '/' && b[1] == '/'
	}
	return false
}

// isMissingErr matches the errors AllowMissing is allowed to swallow
// (ENOENT, EACCES, and ENOTDIR from a non-directory component).
func isMissingErr(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.EACCES) || errors.Is(err, unix.ENOTDIR)
}

func countLeadingDotDot(b []byte) int {
	n := 0
	for bytes.HasPrefix(b, dotDotSlash) {
		n++
		b = b[3:]
	}
	return n
}

// maybeCheckIsDir enforces the rule that a path written with a trailing
// "/" or "/." has to refer to a directory. AllowMissing waives the check
// entirely; AllowLastMissing only forgives the directory not existing, not
// the path resolving to a non-directory.
func maybeCheckIsDir(path []byte, v *slicevec.SliceVec, flags Flags) error {
	if flags&AllowMissing != 0 {
		return nil
	}
	if !bytes.HasSuffix(path, rootSingle) && !bytes.HasSuffix(path, slashDot) {
		return nil
	}
	err := checkIsDir(v.Bytes())
	if err == nil || (flags&AllowLastMissing != 0 && errors.Is(err, unix.ENOENT)) {
		return nil
	}
	return err
}

// realpathInner canonicalizes path into buf, with tmp backing the
// pending-component stack (and doubling as getcwd scratch space once the
// stack has drained). The input is seeded onto the stack whole, so tmp
// needs to be able to hold the input path plus any symlink targets that
// are mid-expansion.
func realpathInner(path, buf, tmp []byte, flags Flags) (int, error) {
	stack := newComponentStack(tmp)
	if err := stack.push(path); err != nil {
		return 0, err
	}

	v := slicevec.New(buf)
	links := newSymlinkCounter()

	for {
		c, ok := stack.next()
		if !ok {
			break
		}

		switch c.kind {
		case componentRootSingle:
			// An absolute component resets resolution.
			if err := v.Replace(rootSingle); err != nil {
				return 0, err
			}
		case componentRootDouble:
			if err := v.Replace(rootDouble); err != nil {
				return 0, err
			}
		case componentParent:
			if err := v.MakeParentPath(); err != nil {
				return 0, err
			}
		case componentName:
			oldLen := v.Len()
			if b := v.Bytes(); len(b) != 0 && !isRootMarker(b) {
				if err := v.Push('/'); err != nil {
					return 0, err
				}
			}
			if err := v.Append(c.name); err != nil {
				return 0, err
			}

			var err error
			if flags&IgnoreSymlinks != 0 {
				// Only check that the component exists; a symlink is
				// treated like any other file.
				if err = readlinkProbe(v.Bytes()); err == nil {
					err = unix.EINVAL
				}
			} else {
				err = stack.pushSymlinkTarget(v.Bytes())
			}

			switch {
			case err == nil:
				if err := links.advance(); err != nil {
					return 0, err
				}
				// The symlink target is on the stack now, so resolution
				// continues from the parent directory. If the target is
				// absolute, its root component will replace the whole
				// buffer on the next iteration.
				v.Truncate(oldLen)
			case errors.Is(err, unix.EINVAL):
				// Exists and is not a symlink; keep the name.
			case flags&AllowMissing != 0 && isMissingErr(err):
				// Keep going as though the name resolved.
			case flags&AllowLastMissing != 0 && errors.Is(err, unix.ENOENT) && stack.isEmpty():
				// Nothing left pending, so this was the final component.
			default:
				return 0, err
			}
		}
	}

	// The stack is drained; its buffer becomes getcwd scratch space.
	scratch := slicevec.New(stack.clear())

	switch b := v.Bytes(); {
	case len(b) == 0:
		// The path collapsed to nothing ("." and friends); the result is
		// the working directory itself.
		if err := getcwdInto(&v); err != nil {
			return 0, err
		}
	case bytes.Equal(b, dotDot):
		if err := getcwdInto(&v); err != nil {
			return 0, err
		}
		if err := v.MakeParentPath(); err != nil {
			return 0, err
		}
	case bytes.HasPrefix(b, dotDotSlash):
		n := countLeadingDotDot(b)
		if bytes.Equal(b[n*3:], dotDot) {
			// The whole path is ".." components.
			v.Clear()
			n++
		} else {
			if err := maybeCheckIsDir(path, &v, flags); err != nil {
				return 0, err
			}
			// Drop the "../" run but keep its final slash as the join
			// with the prefix computed below.
			v.RemoveRange(0, n*3-1)
		}
		if err := getcwdInto(&scratch); err != nil {
			return 0, err
		}
		for ; n > 0; n-- {
			if err := scratch.MakeParentPath(); err != nil {
				return 0, err
			}
		}
		if err := v.Insert(0, scratch.Bytes()); err != nil {
			return 0, err
		}
	case b[0] != '/':
		if err := maybeCheckIsDir(path, &v, flags); err != nil {
			return 0, err
		}
		scratch.Clear()
		if err := getcwdInto(&scratch); err != nil {
			return 0, err
		}
		if err := scratch.Push('/'); err != nil {
			return 0, err
		}
		if err := v.Insert(0, scratch.Bytes()); err != nil {
			return 0, err
		}
	case !isRootMarker(b):
		// "/" and "//" are directories by definition; any other absolute
		// result may still owe the trailing-slash directory check.
		if err := maybeCheckIsDir(path, &v, flags); err != nil {
			return 0, err
		}
	}

	return v.Len(), nil
}
