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
	"os"

	"github.com/cyphar/realpath-ext/internal/slicevec"
)

// Normpath lexically normalizes the given path, in the style of Python's
// os.path.normpath(): "." components and redundant slashes are removed and
// ".." components are collapsed, all without consulting the filesystem. A
// relative input stays relative, and a path that normalizes to nothing
// comes back as ".".
//
// Because no symlinks are resolved, the result may not refer to the same
// file as the input; [Realpath] is the only way to get the definitive
// canonical path.
func Normpath(path string) (string, error) {
	buf := make([]byte, len(path))

	n, err := NormpathRaw([]byte(path), buf)
	if err != nil {
		return "", &os.PathError{Op: "normpath", Path: path, Err: err}
	}
	return string(buf[:n]), nil
}

// NormpathRaw is the fixed-buffer form of [Normpath]: it writes the
// normalized path into buf and returns its length. A buf of len(path)
// always suffices. Sizing buf to the final result alone may not, since
// ".." only shrinks the path after the components it removes were
// written.
//
// Errors are bare unix.Errno values:
//
//   - unix.ENAMETOOLONG: buf is too small.
//   - unix.ENOENT: path is empty.
//   - unix.EINVAL: path contains a NUL byte.
func NormpathRaw(path, buf []byte) (int, error) {
	it, err := newComponentIter(path)
	if err != nil {
		return 0, err
	}

	v := slicevec.New(buf)
	for {
		c, ok := it.next()
		if !ok {
			break
		}

		switch c.kind {
		case componentRootSingle:
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
			if b := v.Bytes(); len(b) != 0 && !isRootMarker(b) {
				if err := v.Push('/'); err != nil {
					return 0, err
				}
			}
			if err := v.Append(c.name); err != nil {
				return 0, err
			}
		}
	}

	if v.IsEmpty() {
		if err := v.Push('.'); err != nil {
			return 0, err
		}
	}
	return v.Len(), nil
}
