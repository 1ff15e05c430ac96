// SPDX-License-Identifier: MPL-2.0

//go:build unix

// Copyright (C) 2026 Aleksa Sarai <cyphar@cyphar.com>
// Copyright (C) 2026 SUSE LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package realpath is a reimplementation of realpath(3) that lets callers
// provide the buffers used during resolution, so that path canonicalization
// can be done with a fixed memory footprint. [RealpathRaw] writes the
// canonical path into a caller-supplied buffer and never grows it, while
// [Realpath] is a convenience wrapper that allocates (and, if necessary,
// regrows) the buffers for you. Both verify the path against the filesystem
// the same way the C library does, with a few extensions controlled by
// [Flags] that mirror the options of GNU realpath(1).
//
// [Normpath] and [NormpathRaw] are purely lexical variants in the style of
// Python's os.path.normpath(): they collapse "." and ".." components and
// redundant slashes without ever touching the filesystem, which also means
// the result is not guaranteed to name the same file if symlinks are
// involved.
//
// All of the functions in this package preserve the POSIX distinction
// between a path rooted at "/" and one rooted at exactly "//" (which is
// permitted to have an implementation-defined meaning). Three or more
// leading slashes collapse to "/".
//
// This package only supports Unix-like systems.
package realpath
