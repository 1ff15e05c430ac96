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

var (
	rootSingle = []byte("/")
	rootDouble = []byte("//")
	dot        = []byte(".")
	dotDot     = []byte("..")
)

type componentKind int

const (
	// componentName is a regular path component.
	componentName componentKind = iota
	// componentRootSingle is a path root of exactly one (or three or more)
	// leading slashes.
	componentRootSingle
	// componentRootDouble is a path root of exactly two leading slashes,
	// which POSIX permits to mean something different to "/".
	componentRootDouble
	// componentParent is a ".." component.
	componentParent
)

// component is one step of a decomposed path. name is only set for
// componentName, and aliases the buffer the component was parsed from.
type component struct {
	kind componentKind
	name []byte
}

func classify(name []byte) component {
	if bytes.Equal(name, dotDot) {
		return component{kind: componentParent}
	}
	return component{kind: componentName, name: name}
}

func stripLeadingSlashes(s []byte) []byte {
	for len(s) > 0 && s[0] == '/' {
		s = s[1:]
	}
	return s
}

func stripTrailingSlashes(s []byte) []byte {
	for len(s) > 0 && s[len(s)-1] == '/' {
		s = s[:len(s)-1]
	}
	return s
}

// componentIter splits a path into components from left to right, eliding
// "." components and redundant slashes. The root (if the path is absolute)
// is yielded as its own component so that the difference between "/" and
// "//" is preserved.
type componentIter struct {
	rest []byte
}

func newComponentIter(path []byte) (componentIter, error) {
	if len(path) == 0 {
		return componentIter{}, unix.ENOENT
	}
	if bytes.IndexByte(path, 0) >= 0 {
		return componentIter{}, unix.EINVAL
	}
	return componentIter{rest: path}, nil
}

// isEmpty returns whether the iterator has been exhausted, without
// consuming anything.
func (it *componentIter) isEmpty() bool {
	return len(it.rest) == 0
}

func (it *componentIter) next() (component, bool) {
	if len(it.rest) == 0 {
		return component{}, false
	}
	if it.rest[0] == '/' {
		after := it.rest[1:]
		it.rest = stripLeadingSlashes(after)
		if len(after)-len(it.rest) == 1 {
			// The path started with exactly two slashes.
			return component{kind: componentRootDouble}, true
		}
		return component{kind: componentRootSingle}, true
	}
	for {
		var name []byte
		if idx := bytes.IndexByte(it.rest, '/'); idx >= 0 {
			name = it.rest[:idx]
			it.rest = stripLeadingSlashes(it.rest[idx:])
		} else if len(it.rest) == 0 {
			return component{}, false
		} else {
			name = it.rest
			it.rest = nil
		}
		if !bytes.Equal(name, dot) {
			return classify(name), true
		}
	}
}
