// Package gitinfo resolves per-file history details from the project's git
// repository. The theme surfaces these as "last updated" footers; a project
// that is not under git simply has none.
package gitinfo

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Repo wraps an opened repository for repeated lookups.
type Repo struct {
	repo *git.Repository
	root string
}

// Open opens the repository enclosing dir, walking up to find .git. A dir
// outside any repository is a normal outcome (found=false, no error).
func Open(dir string) (*Repo, bool, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, false, fmt.Errorf("resolve worktree: %w", err)
	}
	return &Repo{repo: repo, root: wt.Filesystem.Root()}, true, nil
}

// LastUpdated reports the committer time of the most recent commit touching
// path. A path with no committed history (untracked, or a repository without
// commits) is a normal outcome (found=false, no error).
func (r *Repo) LastUpdated(path string) (time.Time, bool, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("resolve path: %w", err)
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return time.Time{}, false, fmt.Errorf("path %s is outside the repository", path)
	}
	rel = filepath.ToSlash(rel)

	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("resolve HEAD: %w", err)
	}

	iter, err := r.repo.Log(&git.LogOptions{
		From:     head.Hash(),
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read history: %w", err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("read history: %w", err)
	}
	return commit.Committer.When, true, nil
}
