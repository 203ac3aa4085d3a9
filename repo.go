// This is free and unencumbered software released into the public domain.
//
// Anyone is free to copy, modify, publish, use, compile, sell, or
// distribute this software, either in source code form or as a compiled
// binary, for any purpose, commercial or non-commercial, and by any
// means.
//
// In jurisdictions that recognize copyright laws, the author or authors
// of this software dedicate any and all copyright interest in the
// software to the public domain. We make this dedication for the benefit
// of the public at large and to the detriment of our heirs and
// successors. We intend this dedication to be an overt act of
// relinquishment in perpetuity of all present and future rights to this
// software under copyright law.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
// IN NO EVENT SHALL THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR
// OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE,
// ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.
//
// For more information, please refer to <https://unlicense.org>

package arbor

import (
	"encoding/binary"
	"sort"
	"time"
)

const mainBranch = "main"

// Commit is one entry in a repository's commit graph.
type Commit struct {
	Hash         Hash
	Parent       *Hash // nil for the first commit on a lineage
	SnapshotHash Hash
	Message      string
	Author       string
	Timestamp    time.Time
}

// Branch is a named pointer into the commit graph.
type Branch struct {
	Name string
	Head *Hash // nil until the first commit on this branch
}

// Repository owns a SnapshotStore, a commit graph, and a set of named
// branches. Repository values are fully independent of one another;
// there is no shared global state.
type Repository struct {
	store          *SnapshotStore
	commits        map[Hash]Commit
	branches       map[string]*Branch
	currentBranch  string
	cfg            *Config
}

// NewRepository creates an empty repository with a single branch
// "main" with no head.
func NewRepository() *Repository {
	return NewRepositoryWithConfig(DefaultConfig())
}

// NewRepositoryWithConfig is like NewRepository but takes an explicit
// Config for logging/metrics wiring. A nil cfg behaves like
// DefaultConfig().
func NewRepositoryWithConfig(cfg *Config) *Repository {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	store := NewSnapshotStore()
	store.SetMetrics(cfg.metricsRecorder())
	return &Repository{
		store:         store,
		commits:       make(map[Hash]Commit),
		branches:      map[string]*Branch{mainBranch: {Name: mainBranch}},
		currentBranch: mainBranch,
		cfg:           cfg,
	}
}

// Store exposes the repository's underlying snapshot store, e.g. for
// GC or direct hash lookups.
func (r *Repository) Store() *SnapshotStore { return r.store }

// commitHashBytes builds the canonical encoding of a commit's
// identity fields, hashed with the same FNV-1a folding as subtree
// hashes so that identical (snapshot_hash, parent, message, author,
// timestamp) tuples produce identical commit hashes.
func commitHashBytes(snapshotHash Hash, parent *Hash, message, author string, ts time.Time) []byte {
	buf := make([]byte, 0, 64+len(message)+len(author))
	var b8 [8]byte
	binary.LittleEndian.PutUint64(b8[:], uint64(snapshotHash))
	buf = append(buf, b8[:]...)
	if parent != nil {
		buf = append(buf, 1)
		binary.LittleEndian.PutUint64(b8[:], uint64(*parent))
		buf = append(buf, b8[:]...)
	} else {
		buf = append(buf, 0)
	}
	buf = appendString(buf, message)
	buf = appendString(buf, author)
	binary.LittleEndian.PutUint64(b8[:], uint64(ts.UnixNano()))
	buf = append(buf, b8[:]...)
	return buf
}

// Commit hashes tree into the store, records a Commit whose parent is
// the current branch's head, advances the head, and returns the new
// commit hash.
func (r *Repository) Commit(tree *AstTree, message, author string, ts time.Time) Hash {
	snapshotHash := r.store.InsertTree(tree)
	branch := r.branches[r.currentBranch]

	var parent *Hash
	if branch.Head != nil {
		p := *branch.Head
		parent = &p
	}

	h := hashNodeBytesAsCommit(commitHashBytes(snapshotHash, parent, message, author, ts))
	r.commits[h] = Commit{
		Hash:         h,
		Parent:       parent,
		SnapshotHash: snapshotHash,
		Message:      message,
		Author:       author,
		Timestamp:    ts,
	}
	head := h
	branch.Head = &head

	r.cfg.metricsRecorder().IncCommit()
	r.cfg.logger().Debugw("commit", "branch", r.currentBranch, "hash", h.String(), "author", author)
	return h
}

// hashNodeBytesAsCommit folds bytes through the same FNV-1a hasher
// subtree hashing uses; commit hashes and subtree hashes share one
// Hash type and one hash function.
func hashNodeBytesAsCommit(b []byte) Hash { return hashNodeBytes(b) }

// Checkout switches the current branch. Fails with UnknownBranch if
// name is absent.
func (r *Repository) Checkout(name string) error {
	if _, ok := r.branches[name]; !ok {
		return newError(UnknownBranch, "Checkout", "branch not found: "+name)
	}
	r.currentBranch = name
	r.cfg.logger().Debugw("checkout", "branch", name)
	return nil
}

// CreateBranch forks the current head into a new branch named name.
// Fails with BranchExists on duplicates.
func (r *Repository) CreateBranch(name string) error {
	if _, ok := r.branches[name]; ok {
		return newError(BranchExists, "CreateBranch", "branch already exists: "+name)
	}
	cur := r.branches[r.currentBranch]
	var head *Hash
	if cur.Head != nil {
		h := *cur.Head
		head = &h
	}
	r.branches[name] = &Branch{Name: name, Head: head}
	r.cfg.logger().Debugw("create_branch", "branch", name, "from", r.currentBranch)
	return nil
}

// DeleteBranch removes a branch by name. Fails with UnknownBranch if
// absent; refuses to delete the current branch.
func (r *Repository) DeleteBranch(name string) error {
	if _, ok := r.branches[name]; !ok {
		return newError(UnknownBranch, "DeleteBranch", "branch not found: "+name)
	}
	if name == r.currentBranch {
		return newError(InvalidOp, "DeleteBranch", "cannot delete the current branch")
	}
	delete(r.branches, name)
	r.cfg.logger().Debugw("delete_branch", "branch", name)
	return nil
}

// HeadHash returns the current branch's head commit hash, or
// (zero, false) if the branch has no commits yet.
func (r *Repository) HeadHash() (Hash, bool) {
	b := r.branches[r.currentBranch]
	if b.Head == nil {
		return 0, false
	}
	return *b.Head, true
}

// Branches returns every branch name, sorted.
func (r *Repository) Branches() []string {
	out := make([]string, 0, len(r.branches))
	for name := range r.branches {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Log returns the current branch's commits from head to root, oldest
// last.
func (r *Repository) Log() []Commit {
	b := r.branches[r.currentBranch]
	var out []Commit
	h := b.Head
	for h != nil {
		c, ok := r.commits[*h]
		if !ok {
			break
		}
		out = append(out, c)
		h = c.Parent
	}
	return out
}

// materializeCommit looks up a commit by hash and materializes its
// snapshot into a fresh AstTree.
func (r *Repository) materializeCommit(h Hash) (*AstTree, error) {
	c, ok := r.commits[h]
	if !ok {
		return nil, newError(UnknownCommit, "materializeCommit", "commit not found")
	}
	return r.store.Materialize(c.SnapshotHash)
}

// Diff materializes the snapshots of two commits and returns the
// operation script transforming the first into the second.
func (r *Repository) Diff(h1, h2 Hash) ([]Op, error) {
	t1, err := r.materializeCommit(h1)
	if err != nil {
		return nil, err
	}
	t2, err := r.materializeCommit(h2)
	if err != nil {
		return nil, err
	}
	ops := DiffTrees(t1, t2)
	for _, op := range ops {
		r.cfg.metricsRecorder().AddDiffOp(op.Type.String())
	}
	return ops, nil
}

// EncodeDiff materializes the snapshots of two commits, diffs them,
// and returns the wire-encoded patch, preallocating the encode buffer
// using the repository's CodecBufferHint.
func (r *Repository) EncodeDiff(h1, h2 Hash) ([]byte, error) {
	ops, err := r.Diff(h1, h2)
	if err != nil {
		return nil, err
	}
	encoded := EncodePatchHinted(ops, r.cfg.codecBufferHint())
	r.cfg.metricsRecorder().ObservePatchEncodeBytes(len(encoded))
	return encoded, nil
}

// ancestors returns h and every ancestor commit hash, walking parent
// links to the root.
func (r *Repository) ancestors(h Hash) []Hash {
	var out []Hash
	cur := &h
	for cur != nil {
		out = append(out, *cur)
		c, ok := r.commits[*cur]
		if !ok {
			break
		}
		cur = c.Parent
	}
	return out
}

// commonAncestor finds the nearest shared ancestor commit of a and b
// by walking both ancestor chains. Returns (hash, true) if found.
func (r *Repository) commonAncestor(a, b Hash) (Hash, bool) {
	bSet := make(map[Hash]bool)
	for _, h := range r.ancestors(b) {
		bSet[h] = true
	}
	for _, h := range r.ancestors(a) {
		if bSet[h] {
			return h, true
		}
	}
	return 0, false
}

// Merge computes the patches from the nearest common ancestor of the
// current branch's head and otherBranch's head to each head, and
// classifies them via MergePatches.
func (r *Repository) Merge(otherBranch string) (MergeResult, error) {
	cur := r.branches[r.currentBranch]
	other, ok := r.branches[otherBranch]
	if !ok {
		return MergeResult{}, newError(UnknownBranch, "Merge", "branch not found: "+otherBranch)
	}
	if cur.Head == nil || other.Head == nil {
		return MergeResult{}, newError(InvalidOp, "Merge", "both branches must have at least one commit")
	}

	base, ok := r.commonAncestor(*cur.Head, *other.Head)
	if !ok {
		return MergeResult{}, newError(InvalidOp, "Merge", "no common ancestor")
	}

	a, err := r.Diff(base, *cur.Head)
	if err != nil {
		return MergeResult{}, err
	}
	b, err := r.Diff(base, *other.Head)
	if err != nil {
		return MergeResult{}, err
	}

	result := MergePatches(a, b)
	if !result.IsClean() {
		for range result.Conflicts {
			r.cfg.metricsRecorder().IncMergeConflict()
		}
	}
	r.cfg.logger().Debugw("merge", "branch", r.currentBranch, "other", otherBranch, "conflicts", len(result.Conflicts))
	return result, nil
}

// RootHashesForGC returns the reachability root set for GC: the
// snapshot hash of every branch head's commit and of each of its
// ancestor commits (the GC walk itself expands snapshot hashes to
// their transitive children). Commit hashes are not included.
func (r *Repository) RootHashesForGC() []Hash {
	seen := make(map[Hash]bool)
	var roots []Hash
	for _, b := range r.branches {
		if b.Head == nil {
			continue
		}
		for _, ch := range r.ancestors(*b.Head) {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			if c, ok := r.commits[ch]; ok {
				roots = append(roots, c.SnapshotHash)
			}
		}
	}
	return roots
}
