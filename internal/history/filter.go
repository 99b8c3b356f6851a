package history

import (
	"fmt"
	"time"
)

// FilterOptions narrows a chronological commit sequence for extraction.
// Commit cutoffs are inclusive; an unset bound leaves that side open.
type FilterOptions struct {
	// StartCommit is the full hash of the earliest commit to include.
	StartCommit string
	// EndCommit is the full hash of the latest commit to include.
	EndCommit string
	// StartTime excludes commits committed before it.
	StartTime *time.Time
	// EndTime excludes commits committed after it.
	EndTime *time.Time
}

// Filter applies the options to a sequence in chronological order. A commit
// cutoff naming a hash absent from the sequence is an error, not an empty
// result: the caller asked for a bound that does not exist.
func Filter(commits []Commit, opts FilterOptions) ([]Commit, error) {
	start := 0
	end := len(commits)

	if opts.StartCommit != "" {
		idx := indexOf(commits, opts.StartCommit)
		if idx < 0 {
			return nil, fmt.Errorf("start commit %s not found in history", opts.StartCommit)
		}
		start = idx
	}
	if opts.EndCommit != "" {
		idx := indexOf(commits, opts.EndCommit)
		if idx < 0 {
			return nil, fmt.Errorf("end commit %s not found in history", opts.EndCommit)
		}
		end = idx + 1
	}
	if start >= end {
		return nil, nil
	}

	var filtered []Commit
	for _, commit := range commits[start:end] {
		when := commit.Committer.When
		if opts.StartTime != nil && when.Before(*opts.StartTime) {
			continue
		}
		if opts.EndTime != nil && when.After(*opts.EndTime) {
			continue
		}
		filtered = append(filtered, commit)
	}
	return filtered, nil
}

func indexOf(commits []Commit, hash string) int {
	for i, commit := range commits {
		if commit.Hash == hash {
			return i
		}
	}
	return -1
}
