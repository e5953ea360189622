// Package gittest builds small on-disk git repositories for tests.
package gittest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Repo is a non-bare repository in a temporary directory. Every commit is
// one hour after the previous one, so committer-time order is predictable.
type Repo struct {
	t     testing.TB
	Dir   string
	Repo  *git.Repository
	wt    *git.Worktree
	clock time.Time
}

// New initializes an empty repository
func New(t testing.TB) *Repo {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	wt, err := repo.Worktree()
	require.NoError(t, err)

	return &Repo{
		t:     t,
		Dir:   dir,
		Repo:  repo,
		wt:    wt,
		clock: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
	}
}

// Write creates or overwrites a file and stages it
func (r *Repo) Write(path, content string) {
	r.t.Helper()

	full := filepath.Join(r.Dir, path)
	require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(r.t, os.WriteFile(full, []byte(content), 0o644))

	r.Stage(path)
}

// Stage adds the current worktree state of path to the index
func (r *Repo) Stage(path string) {
	r.t.Helper()

	_, err := r.wt.Add(path)
	require.NoError(r.t, err)
}

// Remove deletes a file and stages the deletion
func (r *Repo) Remove(path string) {
	r.t.Helper()

	_, err := r.wt.Remove(path)
	require.NoError(r.t, err)
}

// Move renames a file and stages the rename
func (r *Repo) Move(from, to string) {
	r.t.Helper()

	_, err := r.wt.Move(from, to)
	require.NoError(r.t, err)
}

// Commit records the staged changes. With no parents the commit goes on top
// of HEAD; pass parents explicitly to create a merge.
func (r *Repo) Commit(message string, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	r.clock = r.clock.Add(time.Hour)
	return r.CommitAs(message, &object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  r.clock,
	}, parents...)
}

// CommitAs is Commit with an explicit author, committed by a fixed committer
// at the same time
func (r *Repo) CommitAs(message string, author *object.Signature, parents ...plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	committer := &object.Signature{
		Name:  "Test Committer",
		Email: "committer@example.com",
		When:  author.When,
	}

	hash, err := r.wt.Commit(message, &git.CommitOptions{
		Author:    author,
		Committer: committer,
		Parents:   parents,
	})
	require.NoError(r.t, err)
	return hash
}

// ResetHard moves HEAD's branch and the worktree to commit
func (r *Repo) ResetHard(commit plumbing.Hash) {
	r.t.Helper()

	require.NoError(r.t, r.wt.Reset(&git.ResetOptions{
		Commit: commit,
		Mode:   git.HardReset,
	}))
}
