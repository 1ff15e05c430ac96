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

// The syscall wrappers in x/sys take string arguments (they make the
// NUL-terminated copy the kernel needs internally), so these shims are the
// only place the resolver converts path bytes to strings.

// readlinkInto reads the target of the symlink at path into buf, with
// len(buf) as the read limit. The result is not NUL-terminated. Returns
// unix.EINVAL if path exists but is not a symlink.
func readlinkInto(path []byte, buf []byte) (int, error) {
	n, err := unix.Readlink(string(path), buf)
	if err != nil {
		return 0, err
	}
	// POSIX doesn't say whether the result includes a terminating NUL.
	// Linux and the BSDs never include one, but trim it if we got one.
	if n > 0 && buf[n-1] == 0 {
		n--
	}
	return n, nil
}

// readlinkProbe checks whether path exists, without caring about the
// symlink target. A nil return or unix.EINVAL both mean path exists (as a
// symlink or not, respectively); everything else is the usual readlink(2)
// error.
func readlinkProbe(path []byte) error {
	var tmp [1]byte
	_, err := unix.Readlink(string(path), tmp[:])
	return err
}

// checkIsDir returns nil if path refers to a directory, unix.ENOTDIR if it
// refers to anything else, and the stat(2) error otherwise.
func checkIsDir(path []byte) error {
	var st unix.Stat_t
	if err := unix.Stat(string(path), &st); err != nil {
		return err
	}
	if st.Mode&unix.S_IFMT != unix.S_IFDIR {
		return unix.ENOTDIR
	}
	return nil
}

// getcwdInto fills v with the current working directory, using v's entire
// backing buffer as the getcwd(2) destination. Buffer-size failures
// (unix.ERANGE, and unix.EINVAL for zero-sized buffers) are reported as
// unix.ENAMETOOLONG like every other capacity failure.
func getcwdInto(v *slicevec.SliceVec) error {
	v.SetLen(v.Cap())
	buf := v.Bytes()

	n, err := unix.Getcwd(buf)
	if err != nil {
		if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ERANGE) {
			return unix.ENAMETOOLONG
		}
		return err
	}
	// On Linux the returned length includes the terminating NUL; on other
	// platforms it may not. Cut at the first NUL either way.
	if i := bytes.IndexByte(buf[:n], 0); i >= 0 {
		n = i
	}
	if n == 0 || buf[0] != '/' {
		// POSIX guarantees an absolute result, so anything else means the
		// working directory is in a bad state (e.g. deleted).
		return unix.ENOENT
	}
	v.SetLen(n)
	return nil
}

// Linux hardcodes its symlink recursion limit to 40 and its sysconf
// implementations have no working _SC_SYMLOOP_MAX (glibc always returns
// -1), so the kernel's limit is also our fallback.
const defaultSymloopMax = 40

// Test hook used to exercise loop detection without building 40 levels of
// symlinks.
var testingSymloopMax *int

func symloopMax() int {
	if testingSymloopMax != nil {
		return *testingSymloopMax
	}
	return defaultSymloopMax
}

// symlinkCounter bounds how many symlinks one resolution will follow.
type symlinkCounter struct {
	cur, max int
}

func newSymlinkCounter() symlinkCounter {
	return symlinkCounter{max: symloopMax()}
}

func (c *symlinkCounter) advance() error {
	if c.cur >= c.max {
		return unix.ELOOP
	}
	c.cur++
	return nil
}
