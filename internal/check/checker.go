// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Structgit - The structured Git commit helper.
It checks Git commit messages against a project-defined structural policy and
extracts structured information from commit history for changelogs and reports.

Copyright (C) 2026  Structgit contributors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package check evaluates a rule set against a sequence of commits and
// produces a conformance report.
package check

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/structgit/structgit/internal/policy"
	"github.com/structgit/structgit/internal/postag"
	"github.com/structgit/structgit/internal/trailer"
)

// Checker applies a rule set to commits. The rule set is read-only for the
// lifetime of the checker; per-commit checks share no mutable state.
type Checker struct {
	rules  policy.RuleSet
	tagger postag.Tagger
	logger *slog.Logger
}

// New creates a Checker. A tagger is required only when the simple-verb
// rule is enabled.
func New(rules policy.RuleSet, tagger postag.Tagger, logger *slog.Logger) (*Checker, error) {
	if rules.Summary.FirstWordIsSimpleVerb && tagger == nil {
		return nil, fmt.Errorf("summary.first-word-is-simple-verb is enabled but no tagger was provided")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{rules: rules, tagger: tagger, logger: logger}, nil
}

// Check evaluates the rule set against commits, which must be in
// chronological order (oldest first). The starting-from cut, if configured,
// is located by hash within this sequence; a reference that does not appear
// in it is a setup error, reported before any report is produced.
func (c *Checker) Check(ctx context.Context, commits []RawCommit) (*Report, error) {
	cut := -1
	if c.rules.StartingFrom != "" {
		cut = findCommit(commits, c.rules.StartingFrom)
		if cut < 0 {
			return nil, fmt.Errorf("starting-from commit %q not found in history", c.rules.StartingFrom)
		}
	}

	order := make([]string, 0, len(commits))
	results := make(map[string]*Result, len(commits))

	for _, commit := range commits {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		parsed := trailer.Parse(commit.Message)
		res := &Result{
			Hash:       commit.Hash,
			Summary:    parsed.Summary,
			Violations: []Violation{},
		}
		order = append(order, commit.Hash)
		results[commit.Hash] = res

		// The first-commit rule anchors history: it always targets the
		// globally first commit, even when it sits before the
		// starting-from cut.
		if commit.Index == 0 && c.rules.FirstCommitIsEmpty {
			c.checkFirstCommitEmpty(commit, res)
		}

		if commit.Index <= cut {
			continue
		}

		c.checkSummaryVerb(ctx, commit, parsed, res)
		c.checkSummaryCase(commit, parsed, res)
		c.checkTrailers(commit, parsed, res)

		c.logger.Debug("checked commit",
			slog.String("commit", commit.Hash),
			slog.Int("violations", len(res.Violations)))
	}

	return aggregate(order, results), nil
}

func (c *Checker) checkFirstCommitEmpty(commit RawCommit, res *Result) {
	if strings.TrimSpace(commit.Message) == "" {
		return
	}
	res.Violations = append(res.Violations, Violation{
		Hash:   commit.Hash,
		Rule:   RuleFirstCommitEmpty,
		Detail: "expected first commit to be an empty commit",
	})
}

func (c *Checker) checkSummaryVerb(ctx context.Context, commit RawCommit, parsed trailer.ParsedCommit, res *Result) {
	if !c.rules.Summary.FirstWordIsSimpleVerb {
		return
	}

	word := firstWord(parsed.Summary)
	if word == "" {
		res.Violations = append(res.Violations, Violation{
			Hash:   commit.Hash,
			Rule:   RuleSummaryVerb,
			Detail: "summary has no first word to check for a verb",
		})
		return
	}

	isVerb, err := c.tagger.IsSimpleVerb(ctx, word)
	if err != nil {
		// Infrastructure failure, not a policy result: neither a pass nor
		// a violation.
		res.Unevaluated = append(res.Unevaluated, Unevaluated{
			Rule:   RuleSummaryVerb,
			Reason: err.Error(),
		})
		return
	}
	if !isVerb {
		res.Violations = append(res.Violations, Violation{
			Hash:   commit.Hash,
			Rule:   RuleSummaryVerb,
			Detail: fmt.Sprintf("summary does not begin with a simple verb: %q", word),
		})
	}
}

func (c *Checker) checkSummaryCase(commit RawCommit, parsed trailer.ParsedCommit, res *Result) {
	want := c.rules.Summary.FirstWordCapitalization
	if want == policy.CapNone {
		return
	}

	violate := func(detail string) {
		res.Violations = append(res.Violations, Violation{
			Hash:   commit.Hash,
			Rule:   RuleSummaryCase,
			Detail: detail,
		})
	}

	word := firstWord(parsed.Summary)
	if word == "" {
		violate("summary is empty, cannot satisfy the capitalization rule")
		return
	}

	first := []rune(word)[0]
	if !unicode.IsLetter(first) {
		violate(fmt.Sprintf("summary begins with %q which has no letter case", word))
		return
	}

	switch want {
	case policy.CapUpper:
		if !unicode.IsUpper(first) {
			violate("summary does not begin with an upper case letter")
		}
	case policy.CapLower:
		if !unicode.IsLower(first) {
			violate("summary does not begin with a lower case letter")
		}
	}
}

func (c *Checker) checkTrailers(commit RawCommit, parsed trailer.ParsedCommit, res *Result) {
	counts := make(map[string]int)
	var presentKeys []string
	for _, t := range parsed.Trailers {
		if counts[t.Key] == 0 {
			presentKeys = append(presentKeys, t.Key)
		}
		counts[t.Key]++
	}

	// Configured keys are visited in sorted order so reports are
	// reproducible and diff-friendly.
	keys := make([]string, 0, len(c.rules.Trailers))
	for key := range c.rules.Trailers {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if !c.rules.Trailers[key].Mandatory || counts[key] > 0 {
			continue
		}
		detail := fmt.Sprintf("trailer %q is mandatory but missing", key)
		if match := didYouMean(key, presentKeys); match != "" {
			detail += fmt.Sprintf(" (found similar trailer: %q)", match)
		}
		res.Violations = append(res.Violations, Violation{
			Hash:   commit.Hash,
			Rule:   RuleTrailerMandatory,
			Detail: detail,
		})
	}

	for _, key := range keys {
		if c.rules.Trailers[key].Singular && counts[key] > 1 {
			res.Violations = append(res.Violations, Violation{
				Hash:   commit.Hash,
				Rule:   RuleTrailerSingular,
				Detail: fmt.Sprintf("expected trailer %q to be singular, found %d", key, counts[key]),
			})
		}
	}

	// Value membership is checked per trailer in appearance order. Keys
	// absent from the rule set are permitted and never checked.
	for _, t := range parsed.Trailers {
		rule, ok := c.rules.Trailers[t.Key]
		if !ok || rule.AllowsValue(t.Value) {
			continue
		}
		res.Violations = append(res.Violations, Violation{
			Hash:   commit.Hash,
			Rule:   RuleTrailerValue,
			Detail: fmt.Sprintf("trailer %q has non-configured value %q", t.Key, t.Value),
		})
	}
}

// findCommit locates ref in the sequence by full hash or unambiguous hash
// prefix.
func findCommit(commits []RawCommit, ref string) int {
	for i, commit := range commits {
		if commit.Hash == ref {
			return i
		}
	}
	found := -1
	for i, commit := range commits {
		if strings.HasPrefix(commit.Hash, ref) {
			if found >= 0 {
				return -1
			}
			found = i
		}
	}
	return found
}

func firstWord(summary string) string {
	fields := strings.Fields(summary)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
