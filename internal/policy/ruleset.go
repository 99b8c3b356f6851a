// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Structgit - The structured Git commit helper.
It checks Git commit messages against a project-defined structural policy and
extracts structured information from commit history for changelogs and reports.

Copyright (C) 2026  Structgit contributors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package policy defines the commit message policy and loads it from YAML.
package policy

import (
	"fmt"

	"github.com/structgit/structgit/internal/trailer"
)

// Capitalization constrains the case of the summary's first letter.
type Capitalization string

const (
	// CapNone disables the capitalization check.
	CapNone Capitalization = ""
	// CapUpper requires the summary to begin with an upper case letter.
	CapUpper Capitalization = "upper"
	// CapLower requires the summary to begin with a lower case letter.
	CapLower Capitalization = "lower"
)

// TrailerRule constrains the trailers of a single key.
type TrailerRule struct {
	// Mandatory requires the key to be present on every checked commit.
	Mandatory bool `yaml:"mandatory"`
	// Singular forbids more than one trailer with this key per commit.
	Singular bool `yaml:"singular"`
	// Values, when non-empty, is the closed set of acceptable values.
	Values []string `yaml:"values"`
}

// AllowsValue reports whether v is acceptable under this rule. An empty
// Values list leaves the value unrestricted.
func (t TrailerRule) AllowsValue(v string) bool {
	if len(t.Values) == 0 {
		return true
	}
	for _, allowed := range t.Values {
		if v == allowed {
			return true
		}
	}
	return false
}

// SummaryRules constrains the first line of commit messages.
type SummaryRules struct {
	// FirstWordIsSimpleVerb requires the summary to open with a base-form
	// verb, classified by the part-of-speech tagger.
	FirstWordIsSimpleVerb bool `yaml:"first-word-is-simple-verb"`
	// FirstWordCapitalization constrains the case of the first letter.
	FirstWordCapitalization Capitalization `yaml:"first-word-capitalization"`
}

// RuleSet is the validated commit message policy for a repository.
type RuleSet struct {
	// FirstCommitIsEmpty requires the first commit of the history to carry
	// an empty message.
	FirstCommitIsEmpty bool `yaml:"first-commit-is-empty"`
	// StartingFrom names a commit (branch, tag or hash); only commits
	// strictly after it are subject to the summary and trailer rules. The
	// first-commit rule always targets the first commit regardless.
	StartingFrom string `yaml:"starting-from"`
	// Summary holds the summary line rules.
	Summary SummaryRules `yaml:"summary"`
	// Trailers maps trailer keys to their constraints.
	Trailers map[string]TrailerRule `yaml:"trailers"`
}

// Validate checks the rule set for schema violations.
func (r *RuleSet) Validate() error {
	switch r.Summary.FirstWordCapitalization {
	case CapNone, CapUpper, CapLower:
	default:
		return fmt.Errorf("summary.first-word-capitalization must be %q or %q, got %q",
			CapUpper, CapLower, r.Summary.FirstWordCapitalization)
	}

	for key := range r.Trailers {
		if !trailer.IsKey(key) {
			return fmt.Errorf("trailers: %q is not a valid trailer key", key)
		}
	}
	return nil
}
