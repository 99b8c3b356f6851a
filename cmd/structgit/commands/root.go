// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Structgit - The structured Git commit helper.
It checks Git commit messages against a project-defined structural policy and
extracts structured information from commit history for changelogs and reports.

Copyright (C) 2026  Structgit contributors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands builds the structgit command tree.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the structgit root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("STRUCTGIT_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	var (
		verbose bool
		quiet   bool
	)

	cmd := &cobra.Command{
		Use:           "structgit",
		Short:         "Structgit - The structured Git commit helper",
		Long:          "Structgit checks Git commit messages for structure and compliance, and extracts information from commits for changelogs and reports.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(verbose, quiet)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress logging output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of structgit",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "structgit version %s\n", version)
		},
	})

	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewExtractCommand())

	return cmd
}

// configureLogging installs the default slog handler on stderr so stdout
// stays clean for the JSON output.
func configureLogging(verbose, quiet bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if quiet {
		level = slog.LevelError
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}
