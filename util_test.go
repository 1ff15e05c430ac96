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
	"testing"

	"github.com/stretchr/testify/require"
)

func symlink(t *testing.T, oldname, newname string) {
	err := os.Symlink(oldname, newname)
	require.NoError(t, err)
}

func mkdirAll(t *testing.T, path string, mode os.FileMode) { //nolint:unparam // wrapper func
	err := os.MkdirAll(path, mode)
	require.NoError(t, err)
}

func writeFile(t *testing.T, path string, data []byte, mode os.FileMode) { //nolint:unparam // wrapper func
	err := os.WriteFile(path, data, mode)
	require.NoError(t, err)
}

// chdir moves the process into dir for the duration of the test. Tests using
// this helper cannot be marked parallel.
func chdir(t *testing.T, dir string) {
	oldCwd, err := os.Getwd()
	require.NoError(t, err, "get current directory")
	err = os.Chdir(dir)
	require.NoErrorf(t, err, "chdir to %q", dir)
	t.Cleanup(func() {
		err := os.Chdir(oldCwd)
		require.NoErrorf(t, err, "chdir back to %q", oldCwd)
	})
}

// withSymloopMax overrides the symlink traversal limit for the duration of
// the test. Tests using this helper cannot be marked parallel.
func withSymloopMax(t *testing.T, limit int) {
	testingSymloopMax = &limit
	t.Cleanup(func() { testingSymloopMax = nil })
}
