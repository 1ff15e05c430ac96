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
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// Flags modify how [Realpath] and [RealpathRaw] resolve a path. The flags
// were modeled after the options of the GNU realpath(1) program.
type Flags uint

const (
	// AllowMissing allows any component of the path to be missing,
	// inaccessible, or not a directory when it should be one; resolution
	// carries on lexically from such a component.
	AllowMissing Flags = 1 << iota

	// AllowLastMissing allows only the last component of the path to be
	// missing.
	AllowLastMissing

	// IgnoreSymlinks skips symlink expansion entirely; every component is
	// still checked for existence. Note that the returned path may not
	// refer to the same file as the input, since combinations of ".." and
	// symlinks usually change meaning when symlinks are not followed.
	IgnoreSymlinks
)

// The pending-component stack needs some headroom beyond the paths it
// holds for the NUL separators between fragments.
const scratchSlack = 100

// Resolver carries options for path resolution. The zero value behaves
// like the package-level functions called with empty flags.
type Resolver struct {
	// Flags modify aspects of path resolution.
	Flags Flags

	// MaxLen caps how large a buffer [Resolver.Realpath] will grow to
	// when retrying after unix.ENAMETOOLONG. Zero means unix.PathMax.
	// Generally this is only worth setting on systems that support paths
	// longer than PATH_MAX.
	MaxLen int

	// Scratch, if non-nil, backs the pending-component stack in
	// [Resolver.RealpathRaw] instead of a PATH_MAX-sized local buffer.
	// It has to hold the whole input path plus any symlink targets that
	// are mid-expansion, so len(path)+unix.PathMax+100 is a comfortable
	// size. A Resolver with its own Scratch must not be shared between
	// goroutines.
	Scratch []byte
}

// Realpath is like the package-level [Realpath] with the resolver's flags
// and length cap applied.
func (r *Resolver) Realpath(path string) (string, error) {
	maxLen := r.MaxLen
	if maxLen <= 0 {
		maxLen = unix.PathMax
	}
	size := maxLen
	if size > unix.PathMax {
		size = unix.PathMax
	}

	for {
		buf := make([]byte, size)
		tmp := make([]byte, size+len(path)+scratchSlack)

		n, err := realpathInner([]byte(path), buf, tmp, r.Flags)
		if err == nil {
			return string(buf[:n]), nil
		}
		if errors.Is(err, unix.ENAMETOOLONG) && size < maxLen {
			// Resize until we hit the limit.
			size *= 2
			if size > maxLen {
				size = maxLen
			}
			continue
		}
		return "", &os.PathError{Op: "realpath", Path: path, Err: err}
	}
}

// RealpathRaw is like the package-level [RealpathRaw] with the resolver's
// flags and scratch buffer applied.
func (r *Resolver) RealpathRaw(path, buf []byte) (int, error) {
	if r.Scratch != nil {
		return realpathInner(path, buf, r.Scratch, r.Flags)
	}
	var tmp [unix.PathMax + scratchSlack]byte
	return realpathInner(path, buf, tmp[:], r.Flags)
}

// Realpath returns the canonicalized absolute form of the given path, with
// symlinks expanded and all "." and ".." components collapsed. With empty
// flags this matches what realpath(3) produces; flags loosen or tighten
// the resolution rules. Errors are *os.PathError values wrapping a
// unix.Errno, so they can be tested with errors.Is against unix.ENOENT
// and friends.
//
// Unlike [RealpathRaw] this allocates its buffers, retrying with larger
// ones (up to PATH_MAX) if resolution runs out of room. Use a [Resolver]
// to raise that limit.
func Realpath(path string, flags Flags) (string, error) {
	r := Resolver{Flags: flags}
	return r.Realpath(path)
}

// RealpathRaw canonicalizes path into buf and returns the length of the
// result, which always names an absolute path. The buffer is never grown:
// if the result (or an intermediate state during resolution) does not fit,
// RealpathRaw fails with unix.ENAMETOOLONG. It performs no I/O beyond
// readlink(2) on each component, stat(2) for trailing-slash directory
// checks, and getcwd(2) when the input is relative.
//
// Errors are bare unix.Errno values:
//
//   - unix.ENAMETOOLONG: buf (or the scratch space, see [Resolver]) is too
//     small for the resolution.
//   - unix.ENOENT: path is empty, or a component of it does not exist.
//   - unix.EINVAL: path contains a NUL byte.
//   - unix.ELOOP: resolution passed through too many symlinks.
//   - unix.EACCES, unix.ENOTDIR: a component was not accessible, or was
//     not a directory where one was required.
//   - anything else the underlying syscalls report.
//
// On failure the contents of buf are unspecified.
func RealpathRaw(path, buf []byte, flags Flags) (int, error) {
	r := Resolver{Flags: flags}
	return r.RealpathRaw(path, buf)
}
