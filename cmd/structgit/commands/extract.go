package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/structgit/structgit/cmd/structgit/internal/clierr"
	"github.com/structgit/structgit/internal/history"
	"github.com/structgit/structgit/internal/trailer"
)

// extractedCommit is the JSON record emitted per commit.
type extractedCommit struct {
	Hash      string             `json:"hash"`
	Summary   string             `json:"summary"`
	Body      string             `json:"body,omitempty"`
	Trailers  []extractedTrailer `json:"trailers,omitempty"`
	Author    history.Signature  `json:"author"`
	Committer history.Signature  `json:"committer"`
	Diff      string             `json:"diff,omitempty"`
}

type extractedTrailer struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// NewExtractCommand constructs the `extract` subcommand.
func NewExtractCommand() *cobra.Command {
	var (
		withDiff       bool
		startCommit    string
		endCommit      string
		startTimestamp string
		endTimestamp   string
	)

	cmd := &cobra.Command{
		Use:   "extract [repository]",
		Short: "Extract information from Git commits",
		Long:  "Extract structured commit information (summary, body, trailers, signatures) as JSON, for changelogs and reports.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			ctx := cmd.Context()
			logger := slog.Default()

			reader, err := history.Open(path, logger)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "loading repository", err)
			}

			opts, err := filterOptions(reader, startCommit, endCommit, startTimestamp, endTimestamp)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "resolving cutoffs", err)
			}

			commits, err := reader.Commits(ctx)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "reading history", err)
			}
			commits, err = history.Filter(commits, opts)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "applying cutoffs", err)
			}

			extracted := make([]extractedCommit, 0, len(commits))
			for _, commit := range commits {
				parsed := trailer.Parse(commit.Message)
				record := extractedCommit{
					Hash:      commit.Hash,
					Summary:   parsed.Summary,
					Body:      parsed.Body,
					Author:    commit.Author,
					Committer: commit.Committer,
				}
				for _, t := range parsed.Trailers {
					record.Trailers = append(record.Trailers, extractedTrailer{Key: t.Key, Value: t.Value})
				}
				if withDiff {
					diff, err := reader.Patch(ctx, commit.Hash)
					if err != nil {
						return clierr.Wrap(clierr.CodeSetup, "computing diff", err)
					}
					record.Diff = diff
				}
				extracted = append(extracted, record)
			}
			logger.Info("extracted commits", slog.Int("commits", len(extracted)))

			out, err := json.MarshalIndent(extracted, "", "  ")
			if err != nil {
				return fmt.Errorf("rendering extraction: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withDiff, "with-diff", false, "include each commit's diff in the extraction (expensive)")
	cmd.Flags().StringVar(&startCommit, "start-commit", "", "earliest commit to include in the extraction")
	cmd.Flags().StringVar(&endCommit, "end-commit", "", "latest commit to include in the extraction")
	cmd.Flags().StringVarP(&startTimestamp, "start-timestamp", "s", "", "earliest time of commit to include (as an ISO timestamp)")
	cmd.Flags().StringVarP(&endTimestamp, "end-timestamp", "e", "", "latest time of commit to include (as an ISO timestamp)")

	return cmd
}

func filterOptions(reader *history.Reader, startCommit, endCommit, startTimestamp, endTimestamp string) (history.FilterOptions, error) {
	var opts history.FilterOptions

	if startCommit != "" {
		hash, err := reader.Resolve(startCommit)
		if err != nil {
			return opts, err
		}
		opts.StartCommit = hash
	}
	if endCommit != "" {
		hash, err := reader.Resolve(endCommit)
		if err != nil {
			return opts, err
		}
		opts.EndCommit = hash
	}
	if startTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, startTimestamp)
		if err != nil {
			return opts, fmt.Errorf("parsing start timestamp: %w", err)
		}
		opts.StartTime = &ts
	}
	if endTimestamp != "" {
		ts, err := time.Parse(time.RFC3339, endTimestamp)
		if err != nil {
			return opts, fmt.Errorf("parsing end timestamp: %w", err)
		}
		opts.EndTime = &ts
	}
	return opts, nil
}
