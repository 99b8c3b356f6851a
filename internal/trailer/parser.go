// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Structgit - The structured Git commit helper.
It checks Git commit messages against a project-defined structural policy and
extracts structured information from commit history for changelogs and reports.

Copyright (C) 2026  Structgit contributors

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package trailer splits raw commit messages into summary, body and trailers.
//
// Trailers follow the Git convention: a block of "Key: value" lines at the
// tail of the message, separated from the body by at least one blank line.
// A line that merely looks like a trailer somewhere inside the body is not a
// trailer; only the maximal tail-anchored block counts.
package trailer

import (
	"fmt"
	"regexp"
	"strings"
)

// Trailer is a single key/value pair from a commit message's trailer block.
// Duplicate keys are allowed; the parser preserves them in appearance order.
type Trailer struct {
	Key   string
	Value string
}

// ParsedCommit is the structured form of a raw commit message.
type ParsedCommit struct {
	// Summary is the first line of the message, possibly empty.
	Summary string
	// Body is the free-form text between summary and trailer block, with
	// surrounding blank lines trimmed.
	Body string
	// Trailers holds the tail block's pairs in appearance order.
	Trailers []Trailer
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// IsKey reports whether s is a valid trailer key: letters, digits and
// dashes only, at least one character.
func IsKey(s string) bool {
	return keyPattern.MatchString(s)
}

// Parse splits a raw commit message into summary, body and trailers.
// It is total: any input, including the empty string, yields a well-formed
// ParsedCommit. Malformed trailer-like text degrades to body text.
func Parse(message string) ParsedCommit {
	if message == "" {
		return ParsedCommit{}
	}

	lines := strings.Split(message, "\n")
	parsed := ParsedCommit{Summary: lines[0]}
	rest := lines[1:]

	// Trailing blank lines carry no information.
	for len(rest) > 0 && isBlank(rest[len(rest)-1]) {
		rest = rest[:len(rest)-1]
	}
	if len(rest) == 0 {
		return parsed
	}

	// Scan backward for the longest suffix of trailer-start or continuation
	// lines. The block is only valid if it begins with a trailer start and a
	// blank line separates it from what precedes it.
	start := len(rest)
	for start > 0 && (isTrailerStart(rest[start-1]) || isContinuation(rest[start-1])) {
		start--
	}

	bodyEnd := len(rest)
	if start < len(rest) && start > 0 && isTrailerStart(rest[start]) && isBlank(rest[start-1]) {
		parsed.Trailers = foldTrailers(rest[start:])
		bodyEnd = start - 1
	}

	parsed.Body = joinBody(rest[:bodyEnd])
	return parsed
}

// Reconstruct rebuilds a normalized message from the parsed parts: summary,
// a single separating blank line, body, another blank line, trailer block.
// Parsing the reconstruction yields the same structure again.
func (p ParsedCommit) Reconstruct() string {
	var b strings.Builder
	b.WriteString(p.Summary)
	if p.Body != "" {
		b.WriteString("\n\n")
		b.WriteString(p.Body)
	}
	if len(p.Trailers) > 0 {
		b.WriteString("\n")
		for _, t := range p.Trailers {
			fmt.Fprintf(&b, "\n%s: %s", t.Key, t.Value)
		}
	}
	return b.String()
}

func foldTrailers(block []string) []Trailer {
	var trailers []Trailer
	for _, line := range block {
		if isTrailerStart(line) {
			idx := strings.Index(line, ":")
			trailers = append(trailers, Trailer{
				Key:   line[:idx],
				Value: strings.TrimSpace(line[idx+1:]),
			})
			continue
		}
		// Continuation: fold onto the previous trailer with the leading
		// whitespace collapsed to a single space.
		last := &trailers[len(trailers)-1]
		last.Value += " " + strings.TrimLeft(line, " \t")
	}
	return trailers
}

// isTrailerStart reports whether line opens a new trailer: a valid key, a
// colon, then either end of line or whitespace before the value. "Key:value"
// without the separating whitespace is not a trailer line.
func isTrailerStart(line string) bool {
	idx := strings.Index(line, ":")
	if idx <= 0 || !IsKey(line[:idx]) {
		return false
	}
	rest := line[idx+1:]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t'
}

// isContinuation reports whether line folds onto the previous trailer: it
// starts with whitespace and is not blank.
func isContinuation(line string) bool {
	if len(line) == 0 || (line[0] != ' ' && line[0] != '\t') {
		return false
	}
	return strings.TrimSpace(line) != ""
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// joinBody joins body lines, trimming leading and trailing blank lines. The
// blank line separating summary from body is a normalizing separator, not
// body content.
func joinBody(lines []string) string {
	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	end := len(lines)
	for end > start && isBlank(lines[end-1]) {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
