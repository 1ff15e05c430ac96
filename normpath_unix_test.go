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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestNormpath(t *testing.T) {
	for _, test := range []struct {
		path, expected string
	}{
		{"/", "/"},
		{"//", "//"},
		{"///", "/"},
		{".", "."},
		{"./", "."},
		{"./.", "."},
		{"..", ".."},
		{"../..", "../.."},
		{"a", "a"},
		{"a/", "a"},
		{"a/..", "."},
		{"a/b/../../..", ".."},
		{"../../x", "../../x"},
		{"/..", "/"},
		{"//..", "//"},
		{"/a/b/./c/../", "/a/b"},
		{"//a/./b/../c/", "//a/c"},
		{"a//b///c", "a/b/c"},
		{"./a/b/", "a/b"},
	} {
		got, err := Normpath(test.path)
		if assert.NoErrorf(t, err, "normpath(%q)", test.path) {
			assert.Equalf(t, test.expected, got, "normpath(%q)", test.path)
		}
	}
}

// Unlike Realpath, Normpath never touches the filesystem, so completely
// bogus paths normalize fine.
func TestNormpathNoFilesystem(t *testing.T) {
	got, err := Normpath("/nonexistent/../also-nonexistent/./x")
	if assert.NoError(t, err) {
		assert.Equal(t, "/also-nonexistent/x", got)
	}
}

func TestNormpathErrors(t *testing.T) {
	_, err := Normpath("")
	assert.ErrorIs(t, err, unix.ENOENT, "empty path")

	_, err = Normpath("a\x00b")
	assert.ErrorIs(t, err, unix.EINVAL, "path with embedded NUL")
}

func TestNormpathRaw(t *testing.T) {
	// The result is never longer than the input, so a same-sized buffer
	// always works.
	path := []byte("/a/b/./c/../")
	buf := make([]byte, len(path))
	n, err := NormpathRaw(path, buf)
	require.NoError(t, err)
	assert.Equal(t, "/a/b", string(buf[:n]))

	// A buffer sized to the result works if normalization never has to
	// hold anything longer than the result.
	buf = make([]byte, 5)
	n, err = NormpathRaw([]byte("//a/./b"), buf)
	require.NoError(t, err)
	assert.Equal(t, "//a/b", string(buf[:n]))

	// Intermediate states count: "/a/b/c" has to fit before ".." shrinks
	// it back down.
	_, err = NormpathRaw(path, make([]byte, 4))
	assert.ErrorIs(t, err, unix.ENAMETOOLONG)

	_, err = NormpathRaw(nil, buf)
	assert.Equal(t, unix.ENOENT, err, "raw errors are bare errnos")
}
