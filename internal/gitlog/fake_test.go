package gitlog

import (
	"fmt"
	"io"
	"time"

	"github.com/Yates-Labs/gitmine/internal/ingest/git"
)

// fakeSource is an in-memory git.Source for exercising the mining policy
// without a repository on disk
type fakeSource struct {
	walk    []string
	walkErr error
	headErr error
	kinds   map[string]git.ObjectKind
	commits map[string]*git.RawCommit
	diffs   map[string]*fakeDiff

	diffCalls []string
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		kinds:   make(map[string]git.ObjectKind),
		commits: make(map[string]*git.RawCommit),
		diffs:   make(map[string]*fakeDiff),
	}
}

// addCommit registers a commit and appends it to the walk
func (s *fakeSource) addCommit(c *git.RawCommit) {
	s.walk = append(s.walk, c.ID)
	s.kinds[c.ID] = git.KindCommit
	s.commits[c.ID] = c
}

func (s *fakeSource) addObject(id string, kind git.ObjectKind) {
	s.walk = append(s.walk, id)
	s.kinds[id] = kind
}

func (s *fakeSource) setDiff(oldTree, newTree string, d *fakeDiff) {
	s.diffs[diffKey(oldTree, newTree)] = d
}

func diffKey(oldTree, newTree string) string {
	return oldTree + ".." + newTree
}

func (s *fakeSource) HeadWalk() (git.RevWalk, error) {
	if s.headErr != nil {
		return nil, s.headErr
	}
	return &fakeWalk{ids: s.walk, err: s.walkErr}, nil
}

func (s *fakeSource) ObjectKind(id string) (git.ObjectKind, error) {
	kind, ok := s.kinds[id]
	if !ok {
		return git.KindOther, fmt.Errorf("object %s not found", id)
	}
	return kind, nil
}

func (s *fakeSource) Commit(id string) (*git.RawCommit, error) {
	c, ok := s.commits[id]
	if !ok {
		return nil, fmt.Errorf("commit %s not found", id)
	}
	return c, nil
}

func (s *fakeSource) DiffTrees(oldTree, newTree string) (git.Diff, error) {
	key := diffKey(oldTree, newTree)
	s.diffCalls = append(s.diffCalls, key)
	d, ok := s.diffs[key]
	if !ok {
		return nil, fmt.Errorf("no diff %s", key)
	}
	return d, nil
}

type fakeWalk struct {
	ids []string
	pos int
	err error
}

func (w *fakeWalk) Next() (string, error) {
	if w.pos >= len(w.ids) {
		if w.err != nil {
			return "", w.err
		}
		return "", io.EOF
	}
	id := w.ids[w.pos]
	w.pos++
	return id, nil
}

func (w *fakeWalk) Close() {}

// fakeDiff reports before until FindRenames is called, after that renamed
// (when set). Deltas without stats have no computable patch.
type fakeDiff struct {
	before  []git.Delta
	renamed []git.Delta
	stats   map[int]git.LineStats
	renames bool
}

func (d *fakeDiff) FindRenames() error {
	d.renames = true
	return nil
}

func (d *fakeDiff) Deltas() []git.Delta {
	if d.renames && d.renamed != nil {
		return d.renamed
	}
	return d.before
}

func (d *fakeDiff) LineStats(i int) (git.LineStats, bool, error) {
	s, ok := d.stats[i]
	return s, ok, nil
}

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func rawCommit(id, tree string, parents ...string) *git.RawCommit {
	when := baseTime
	return &git.RawCommit{
		ID:        id,
		ParentIDs: parents,
		Author:    git.Signature{Name: "Alice", Email: "alice@example.com", When: when},
		Committer: git.Signature{Name: "Bob", Email: "bob@example.com", When: when.Add(time.Minute)},
		Message:   "commit " + id + "\n",
		TreeID:    tree,
		Time:      when.Add(time.Minute),
	}
}
