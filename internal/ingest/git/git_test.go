package git

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yates-Labs/gitmine/internal/gittest"
)

func openTestRepo(t *testing.T, dir string) *Repository {
	t.Helper()

	repo, err := Discover(context.Background(), dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func walkAll(t *testing.T, walk RevWalk) []string {
	t.Helper()
	defer walk.Close()

	var ids []string
	for {
		id, err := walk.Next()
		if errors.Is(err, io.EOF) {
			return ids
		}
		require.NoError(t, err)
		ids = append(ids, id)
	}
}

func TestDiscover_NotFound(t *testing.T) {
	_, err := Discover(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
}

func TestDiscover_FromSubdirectory(t *testing.T) {
	r := gittest.New(t)
	r.Write("src/main.go", "package main\n")
	head := r.Commit("Initial\n")

	repo := openTestRepo(t, filepath.Join(r.Dir, "src"))

	walk, err := repo.HeadWalk()
	require.NoError(t, err)
	assert.Equal(t, []string{head.String()}, walkAll(t, walk))
}

func TestHeadWalk_EmptyRepository(t *testing.T) {
	r := gittest.New(t)
	repo := openTestRepo(t, r.Dir)

	_, err := repo.HeadWalk()
	assert.ErrorIs(t, err, ErrHeadUnavailable)
}

func TestHeadWalk_NewestFirst(t *testing.T) {
	r := gittest.New(t)
	r.Write("a.txt", "1\n")
	first := r.Commit("first\n")
	r.Write("a.txt", "2\n")
	second := r.Commit("second\n")
	r.Write("a.txt", "3\n")
	third := r.Commit("third\n")

	repo := openTestRepo(t, r.Dir)
	walk, err := repo.HeadWalk()
	require.NoError(t, err)

	assert.Equal(t, []string{third.String(), second.String(), first.String()}, walkAll(t, walk))
}

func TestObjectKindAndCommit(t *testing.T) {
	r := gittest.New(t)
	r.Write("a.txt", "1\n")
	root := r.Commit("root\n")
	r.Write("a.txt", "2\n")
	child := r.Commit("child\n\nbody\n")

	repo := openTestRepo(t, r.Dir)

	kind, err := repo.ObjectKind(child.String())
	require.NoError(t, err)
	assert.Equal(t, KindCommit, kind)

	c, err := repo.Commit(child.String())
	require.NoError(t, err)
	assert.Equal(t, child.String(), c.ID)
	assert.Equal(t, []string{root.String()}, c.ParentIDs)
	assert.Equal(t, "child\n\nbody\n", c.Message)
	assert.Equal(t, "Test Author", c.Author.Name)
	assert.Equal(t, "committer@example.com", c.Committer.Email)
	assert.Equal(t, c.Committer.When.Unix(), c.Time.Unix())

	kind, err = repo.ObjectKind(c.TreeID)
	require.NoError(t, err)
	assert.Equal(t, KindTree, kind)

	_, err = repo.ObjectKind("0123456789012345678901234567890123456789")
	assert.Error(t, err)
}

func TestParseSignature_InvalidUTF8(t *testing.T) {
	when := time.Unix(1700000000, 0)

	sig := ParseSignature(object.Signature{Name: "Zoë", Email: "zoe@example.com", When: when})
	assert.Equal(t, Signature{Name: "Zoë", Email: "zoe@example.com", When: when}, sig)

	sig = ParseSignature(object.Signature{Name: "bad\xff", Email: "bad\xfe@example.com"})
	assert.Equal(t, "[invalid name]", sig.Name)
	assert.Equal(t, "[invalid email]", sig.Email)
}

func TestDiffTrees_AgainstEmptyTree(t *testing.T) {
	r := gittest.New(t)
	r.Write("a.txt", "1\n2\n")
	r.Write("dir/b.txt", "1\n")
	head := r.Commit("root\n")

	repo := openTestRepo(t, r.Dir)
	c, err := repo.Commit(head.String())
	require.NoError(t, err)

	diff, err := repo.DiffTrees("", c.TreeID)
	require.NoError(t, err)
	require.NoError(t, diff.FindRenames())

	assert.Equal(t, []Delta{
		{Status: DeltaAdded, NewPath: "a.txt"},
		{Status: DeltaAdded, NewPath: "dir/b.txt"},
	}, diff.Deltas())

	stats, ok, err := diff.LineStats(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LineStats{Added: 2}, stats)

	_, _, err = diff.LineStats(5)
	assert.Error(t, err)
}

func TestDiffTrees_RenamesAfterFindRenames(t *testing.T) {
	r := gittest.New(t)
	r.Write("old.txt", "same content\nacross lines\n")
	root := r.Commit("root\n")
	r.Move("old.txt", "new.txt")
	moved := r.Commit("move\n")

	repo := openTestRepo(t, r.Dir)
	before, err := repo.Commit(root.String())
	require.NoError(t, err)
	after, err := repo.Commit(moved.String())
	require.NoError(t, err)

	diff, err := repo.DiffTrees(before.TreeID, after.TreeID)
	require.NoError(t, err)
	assert.Len(t, diff.Deltas(), 2, "without the rename pass a move is a delete and an add")

	require.NoError(t, diff.FindRenames())
	assert.Equal(t, []Delta{
		{Status: DeltaRenamed, OldPath: "old.txt", NewPath: "new.txt"},
	}, diff.Deltas())

	stats, ok, err := diff.LineStats(0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, LineStats{}, stats)
}

func TestDiffTrees_TypeChange(t *testing.T) {
	r := gittest.New(t)
	r.Write("target.txt", "x\n")
	r.Write("link", "plain file\n")
	root := r.Commit("root\n")

	full := filepath.Join(r.Dir, "link")
	require.NoError(t, os.Remove(full))
	require.NoError(t, os.Symlink("target.txt", full))
	r.Stage("link")
	changed := r.Commit("file becomes symlink\n")

	repo := openTestRepo(t, r.Dir)
	before, err := repo.Commit(root.String())
	require.NoError(t, err)
	after, err := repo.Commit(changed.String())
	require.NoError(t, err)

	diff, err := repo.DiffTrees(before.TreeID, after.TreeID)
	require.NoError(t, err)
	require.NoError(t, diff.FindRenames())

	assert.Equal(t, []Delta{
		{Status: DeltaTypeChange, OldPath: "link", NewPath: "link"},
	}, diff.Deltas())
}

func TestBinaryLineStatsUnavailable(t *testing.T) {
	r := gittest.New(t)
	r.Write("img.bin", "\x00\x00\x01")
	head := r.Commit("binary\n")

	repo := openTestRepo(t, r.Dir)
	c, err := repo.Commit(head.String())
	require.NoError(t, err)

	diff, err := repo.DiffTrees("", c.TreeID)
	require.NoError(t, err)

	_, ok, err := diff.LineStats(0)
	require.NoError(t, err)
	assert.False(t, ok)
}
