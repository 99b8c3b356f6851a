// Package history reads commits out of a Git repository, oldest first.
package history

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Signature identifies the author or committer of a commit.
type Signature struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"when"`
}

// Commit is one commit record in traversal order.
type Commit struct {
	Hash      string
	Message   string
	Author    Signature
	Committer Signature
}

// Reader walks a repository's history. The walk is cached for the instance
// lifetime; a Reader is not meant to outlive mutations of the repository.
type Reader struct {
	repo   *git.Repository
	logger *slog.Logger

	mu    sync.Mutex
	cache []Commit
}

// Open locates the repository enclosing path (walking upward for a .git
// directory the way git itself does) and returns a Reader over it.
func Open(path string, logger *slog.Logger) (*Reader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return &Reader{repo: repo, logger: logger}, nil
}

// Root returns the repository's working tree root.
func (r *Reader) Root() (string, error) {
	wt, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("resolving repository root: %w", err)
	}
	return wt.Filesystem.Root(), nil
}

// Commits returns the history reachable from HEAD in chronological order,
// oldest first. The result is cached for the Reader's lifetime.
func (r *Reader) Commits(ctx context.Context) ([]Commit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cache != nil {
		return r.cache, nil
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:  head.Hash(),
		Order: git.LogOrderCommitterTime,
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		commits = append(commits, Commit{
			Hash:      c.Hash.String(),
			Message:   c.Message,
			Author:    newSignature(c.Author),
			Committer: newSignature(c.Committer),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}

	// The walk yields newest first; the checker folds oldest first.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}

	r.logger.Debug("walked history", slog.Int("commits", len(commits)))
	r.cache = commits
	return commits, nil
}

// Resolve maps a human-given reference (branch, tag or hash) to a full
// commit hash.
func (r *Reader) Resolve(rev string) (string, error) {
	hash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return "", fmt.Errorf("resolving revision %q: %w", rev, err)
	}
	return hash.String(), nil
}

// Patch returns the textual diff a commit introduces against its first
// parent (or against the empty tree for a root commit). Expensive; only the
// extraction path asks for it.
func (r *Reader) Patch(ctx context.Context, hash string) (string, error) {
	commit, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return "", fmt.Errorf("loading commit %s: %w", hash, err)
	}

	toTree, err := commit.Tree()
	if err != nil {
		return "", fmt.Errorf("loading tree of %s: %w", hash, err)
	}

	var fromTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", fmt.Errorf("loading parent of %s: %w", hash, err)
		}
		fromTree, err = parent.Tree()
		if err != nil {
			return "", fmt.Errorf("loading parent tree of %s: %w", hash, err)
		}
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return "", fmt.Errorf("diffing %s: %w", hash, err)
	}
	patch, err := changes.PatchContext(ctx)
	if err != nil {
		return "", fmt.Errorf("rendering patch of %s: %w", hash, err)
	}
	return patch.String(), nil
}

func newSignature(sig object.Signature) Signature {
	return Signature{Name: sig.Name, Email: sig.Email, When: sig.When}
}
