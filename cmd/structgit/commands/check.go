package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/structgit/structgit/cmd/structgit/internal/clierr"
	"github.com/structgit/structgit/internal/check"
	"github.com/structgit/structgit/internal/history"
	"github.com/structgit/structgit/internal/policy"
	"github.com/structgit/structgit/internal/postag"
)

// NewCheckCommand constructs the `check` subcommand.
func NewCheckCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check [repository]",
		Short: "Check Git commits for compliance",
		Long:  "Check every commit message in the repository against the policy in .check-commits.yaml and report violations as JSON.",
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
			root, err := reader.Root()
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "loading repository", err)
			}
			logger.Info("found Git repository", slog.String("root", root))

			resolvedConfig := configPath
			if resolvedConfig == "" {
				resolvedConfig, err = policy.Discover(root)
				if err != nil {
					return clierr.Wrap(clierr.CodeSetup, "locating configuration", err)
				}
			}
			rules, err := policy.Load(resolvedConfig)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "loading configuration", err)
			}
			logger.Info("loaded configuration", slog.String("path", resolvedConfig))

			commits, err := reader.Commits(ctx)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "reading history", err)
			}

			// Symbolic starting-from references (branch, tag) become hashes
			// before the checker locates the cut positionally.
			if rules.StartingFrom != "" {
				hash, err := reader.Resolve(rules.StartingFrom)
				if err != nil {
					return clierr.Wrap(clierr.CodeSetup, "resolving starting-from", err)
				}
				rules.StartingFrom = hash
			}

			var tagger postag.Tagger
			if rules.Summary.FirstWordIsSimpleVerb {
				tagger = postag.NewMemo(postag.NewProse())
			}

			checker, err := check.New(*rules, tagger, logger)
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "configuring checker", err)
			}
			report, err := checker.Check(ctx, rawCommits(commits))
			if err != nil {
				return clierr.Wrap(clierr.CodeSetup, "checking commits", err)
			}

			if failing := report.Failing(); len(failing) > 0 {
				out, err := json.MarshalIndent(failing, "", "  ")
				if err != nil {
					return fmt.Errorf("rendering report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			}

			switch {
			case report.Incomplete:
				return clierr.New(clierr.CodeIncomplete,
					"some checks could not be evaluated; rerun once the tagging model is available")
			case !report.Conforms:
				return clierr.Newf(clierr.CodeViolations,
					"checks failed: %d/%d commits had violations", len(report.Failing()), len(report.Order))
			default:
				logger.Info("checks passed",
					slog.Int("commits", len(report.Order)))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to the configuration file (by default discovered at the repository root)")

	return cmd
}

func rawCommits(commits []history.Commit) []check.RawCommit {
	raws := make([]check.RawCommit, len(commits))
	for i, commit := range commits {
		raws[i] = check.RawCommit{
			Hash:    commit.Hash,
			Index:   i,
			Message: commit.Message,
		}
	}
	return raws
}
