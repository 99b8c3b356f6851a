// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Structgit - The structured Git commit helper.
It checks Git commit messages against a project-defined structural policy and
extracts structured information from commit history for changelogs and reports.

Copyright (C) 2026  Structgit contributors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package main

import (
	"fmt"
	"os"

	"github.com/structgit/structgit/cmd/structgit/commands"
	"github.com/structgit/structgit/cmd/structgit/internal/clierr"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(clierr.ExitCodeOf(err))
	}
}
