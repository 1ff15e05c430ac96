// SPDX-License-Identifier: MPL-2.0

//go:build unix

// Copyright (C) 2026 Aleksa Sarai <cyphar@cyphar.com>
// Copyright (C) 2026 SUSE LLC
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// realpath-ext is a workalike of realpath(1) built on the fixed-buffer
// resolver in github.com/cyphar/realpath-ext.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	realpath "github.com/cyphar/realpath-ext"
)

var errResolveFailed = errors.New("some paths could not be resolved")

type options struct {
	existing bool
	missing  bool
	logical  bool
	physical bool
	strip    bool
	quiet    bool
	zero     bool
	verbose  bool
}

func (opts *options) resolveFlags() realpath.Flags {
	// Like GNU realpath, only the last component may be missing unless
	// the user says otherwise.
	flags := realpath.AllowLastMissing
	switch {
	case opts.existing:
		flags = 0
	case opts.missing:
		flags = realpath.AllowMissing
	}
	if opts.strip && !opts.physical {
		flags |= realpath.IgnoreSymlinks
	}
	return flags
}

func resolve(path string, flags realpath.Flags, logical bool) (string, error) {
	if logical {
		// Apply ".." components lexically first, then resolve whatever
		// that gives us.
		pre, err := realpath.Realpath(path, flags|realpath.IgnoreSymlinks)
		if err != nil {
			return "", err
		}
		path = pre
	}
	return realpath.Realpath(path, flags)
}

// errnoMessage unwraps the library's *os.PathError so the output doesn't
// repeat the path the surrounding message already names.
func errnoMessage(err error) string {
	var perr *os.PathError
	if errors.As(err, &perr) {
		return perr.Err.Error()
	}
	return err.Error()
}

func run(opts *options, paths []string) error {
	flags := opts.resolveFlags()

	delim := byte('\n')
	if opts.zero {
		delim = 0
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	failed := false
	for _, path := range paths {
		logrus.WithFields(logrus.Fields{
			"path":    path,
			"flags":   fmt.Sprintf("%#x", uint(flags)),
			"logical": opts.logical,
		}).Debug("resolving path")

		resolved, err := resolve(path, flags, opts.logical)
		if err != nil {
			failed = true
			if !opts.quiet {
				fmt.Fprintf(os.Stderr, "realpath-ext: %s: %s\n", path, errnoMessage(err))
			}
			continue
		}
		out.WriteString(resolved)
		out.WriteByte(delim)
	}
	if failed {
		return errResolveFailed
	}
	return nil
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "realpath-ext PATH...",
		Short:         "print the canonicalized absolute form of each PATH",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
		RunE: func(_ *cobra.Command, args []string) error {
			return run(opts, args)
		},
	}

	flags := cmd.Flags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		// GNU realpath spells --strip two ways.
		if name == "no-symlinks" {
			name = "strip"
		}
		return pflag.NormalizedName(name)
	})
	flags.BoolVarP(&opts.existing, "canonicalize-existing", "e", false, "all components of the path must exist")
	flags.BoolVarP(&opts.missing, "canonicalize-missing", "m", false, "no path components need exist or be a directory")
	flags.BoolVarP(&opts.logical, "logical", "L", false, "resolve '..' components before symlinks")
	flags.BoolVarP(&opts.physical, "physical", "P", false, "resolve symlinks as encountered (default)")
	flags.BoolVarP(&opts.strip, "strip", "s", false, "don't expand symlinks")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress most error messages")
	flags.BoolVarP(&opts.zero, "zero", "z", false, "end each output line with NUL, not newline")
	flags.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")

	cmd.MarkFlagsMutuallyExclusive("canonicalize-existing", "canonicalize-missing")
	cmd.MarkFlagsMutuallyExclusive("logical", "physical")

	return cmd
}

func main() {
	logrus.SetOutput(os.Stderr)

	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errResolveFailed) {
			fmt.Fprintf(os.Stderr, "realpath-ext: %v\n", err)
		}
		os.Exit(1)
	}
}
