package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/filemode"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/utils/merkletrie"
)

const (
	invalidName  = "[invalid name]"
	invalidEmail = "[invalid email]"
)

// Repository is a Source backed by an on-disk go-git repository
type Repository struct {
	ctx  context.Context
	repo *git.Repository
	path string
}

// Discover opens the repository containing path, searching parent
// directories the way the git CLI does
func Discover(ctx context.Context, path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("no repository found at %s: %w", path, ErrRepositoryNotFound)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	return &Repository{ctx: ctx, repo: repo, path: path}, nil
}

// Close releases the object database handles
func (r *Repository) Close() error {
	if c, ok := r.repo.Storer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// HeadWalk starts a revision walk at HEAD in committer-time order, newest first
func (r *Repository) HeadWalk() (RevWalk, error) {
	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD of %s: %w: %v", r.path, ErrHeadUnavailable, err)
	}

	head, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("HEAD %s is not a commit: %w: %v", ref.Hash(), ErrHeadUnavailable, err)
	}

	return &revWalk{iter: object.NewCommitIterCTime(head, nil, nil)}, nil
}

type revWalk struct {
	iter object.CommitIter
}

func (w *revWalk) Next() (string, error) {
	c, err := w.iter.Next()
	if err != nil {
		return "", err
	}
	return c.Hash.String(), nil
}

func (w *revWalk) Close() {
	w.iter.Close()
}

// ObjectKind reads the type of the object with the given id
func (r *Repository) ObjectKind(id string) (ObjectKind, error) {
	obj, err := r.repo.Storer.EncodedObject(plumbing.AnyObject, plumbing.NewHash(id))
	if err != nil {
		return KindOther, fmt.Errorf("failed to read object %s: %w", id, err)
	}

	switch obj.Type() {
	case plumbing.CommitObject:
		return KindCommit, nil
	case plumbing.TreeObject:
		return KindTree, nil
	case plumbing.BlobObject:
		return KindBlob, nil
	case plumbing.TagObject:
		return KindTag, nil
	default:
		return KindOther, nil
	}
}

// Commit loads the commit with the given id
func (r *Repository) Commit(id string) (*RawCommit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load commit %s: %w", id, err)
	}

	parents := make([]string, 0, len(c.ParentHashes))
	for _, p := range c.ParentHashes {
		parents = append(parents, p.String())
	}

	return &RawCommit{
		ID:        c.Hash.String(),
		ParentIDs: parents,
		Author:    ParseSignature(c.Author),
		Committer: ParseSignature(c.Committer),
		Message:   c.Message,
		TreeID:    c.TreeHash.String(),
		Time:      c.Committer.When,
	}, nil
}

// ParseSignature converts a go-git Signature, substituting placeholders for
// fields that are not valid UTF-8
func ParseSignature(sig object.Signature) Signature {
	name, email := sig.Name, sig.Email
	if !utf8.ValidString(name) {
		name = invalidName
	}
	if !utf8.ValidString(email) {
		email = invalidEmail
	}
	return Signature{
		Name:  name,
		Email: email,
		When:  sig.When,
	}
}

// DiffTrees compares two trees by id. An empty oldTree diffs against the
// empty tree, so every entry of newTree shows up as an addition.
func (r *Repository) DiffTrees(oldTree, newTree string) (Diff, error) {
	var from *object.Tree
	if oldTree != "" {
		t, err := r.repo.TreeObject(plumbing.NewHash(oldTree))
		if err != nil {
			return nil, fmt.Errorf("failed to load tree %s: %w", oldTree, err)
		}
		from = t
	}

	to, err := r.repo.TreeObject(plumbing.NewHash(newTree))
	if err != nil {
		return nil, fmt.Errorf("failed to load tree %s: %w", newTree, err)
	}

	changes, err := object.DiffTreeWithOptions(r.ctx, from, to, &object.DiffTreeOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees %s..%s: %w", oldTree, newTree, err)
	}

	return &treeDiff{ctx: r.ctx, changes: changes}, nil
}

type treeDiff struct {
	ctx     context.Context
	changes object.Changes
}

func (d *treeDiff) FindRenames() error {
	changes, err := object.DetectRenames(d.changes, object.DefaultDiffTreeOptions)
	if err != nil {
		return fmt.Errorf("failed to detect renames: %w", err)
	}
	d.changes = changes
	return nil
}

func (d *treeDiff) Deltas() []Delta {
	deltas := make([]Delta, 0, len(d.changes))
	for _, ch := range d.changes {
		deltas = append(deltas, changeToDelta(ch))
	}
	return deltas
}

// changeToDelta maps a go-git change onto a delta status. go-git reports
// renames as modifications whose two sides have different names.
func changeToDelta(ch *object.Change) Delta {
	delta := Delta{
		OldPath: ch.From.Name,
		NewPath: ch.To.Name,
	}

	action, err := ch.Action()
	if err != nil {
		delta.Status = DeltaUnreadable
		return delta
	}

	switch action {
	case merkletrie.Insert:
		delta.Status = DeltaAdded
	case merkletrie.Delete:
		delta.Status = DeltaDeleted
	case merkletrie.Modify:
		switch {
		case ch.From.Name != ch.To.Name:
			delta.Status = DeltaRenamed
		case entryClass(ch.From.TreeEntry.Mode) != entryClass(ch.To.TreeEntry.Mode):
			delta.Status = DeltaTypeChange
		default:
			delta.Status = DeltaModified
		}
	default:
		delta.Status = DeltaUnmodified
	}

	return delta
}

// entryClass groups file modes so that an executable bit flip stays a
// modification while file/symlink/submodule swaps become type changes
func entryClass(m filemode.FileMode) int {
	switch m {
	case filemode.Regular, filemode.Executable, filemode.Deprecated:
		return 0
	case filemode.Symlink:
		return 1
	case filemode.Submodule:
		return 2
	default:
		return 3
	}
}

func (d *treeDiff) LineStats(i int) (LineStats, bool, error) {
	if i < 0 || i >= len(d.changes) {
		return LineStats{}, false, fmt.Errorf("delta index %d out of range (%d deltas)", i, len(d.changes))
	}

	patch, err := d.changes[i].PatchContext(d.ctx)
	if err != nil {
		return LineStats{}, false, fmt.Errorf("failed to get patch for %s: %w", d.changes[i], err)
	}

	filePatches := patch.FilePatches()
	if len(filePatches) == 0 {
		return LineStats{}, false, nil
	}
	for _, fp := range filePatches {
		if fp.IsBinary() {
			return LineStats{}, false, nil
		}
	}

	var stats LineStats
	for _, fs := range patch.Stats() {
		stats.Added += fs.Addition
		stats.Deleted += fs.Deletion
	}

	return stats, true, nil
}
