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
	"fmt"
	"sort"

	"golang.org/x/sync/singleflight"

	"github.com/arbor-vcs/arbor/metrics"
)

// storedNode is the on-disk-shaped record a SnapshotStore keeps per
// hash: the node's own fields plus its children's hashes, in order.
// Children are addressed by hash, not by the transient NodeId they
// carried in whichever AstTree produced them.
type storedNode struct {
	Kind        AstNodeKind
	Label       string
	Value       NodeValue
	ChildHashes []Hash
}

// SnapshotStore is a content-addressed key→AST node map: a Merkle DAG
// where identical subtrees share storage. It is append-only from
// InsertTree; GC is the sole deleter.
type SnapshotStore struct {
	nodes   map[Hash]storedNode
	group   singleflight.Group
	metrics *metrics.Recorder
}

// NewSnapshotStore returns an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{nodes: make(map[Hash]storedNode)}
}

// SetMetrics attaches a Recorder that store size updates are reported
// to. Passing nil disables instrumentation.
func (s *SnapshotStore) SetMetrics(m *metrics.Recorder) {
	s.metrics = m
}

// InsertTree hashes tree bottom-up and stores every subtree encountered
// (memoized by hash), returning the Root's hash.
func (s *SnapshotStore) InsertTree(tree *AstTree) Hash {
	var walk func(id NodeId) Hash
	walk = func(id NodeId) Hash {
		n, _ := tree.GetNode(id)
		childHashes := make([]Hash, len(n.Children))
		for i, c := range n.Children {
			childHashes[i] = walk(c)
		}
		h := HashNode(n.Kind, n.Label, n.Value, childHashes)
		if _, exists := s.nodes[h]; !exists {
			s.nodes[h] = storedNode{
				Kind:        n.Kind,
				Label:       n.Label,
				Value:       n.Value,
				ChildHashes: childHashes,
			}
		}
		return h
	}
	root := walk(tree.Root())
	s.metrics.SetStoreSize(len(s.nodes))
	return root
}

// Get returns the stored record for hash, or (zero, false) if absent.
func (s *SnapshotStore) Get(h Hash) (kind AstNodeKind, label string, value NodeValue, childHashes []Hash, ok bool) {
	n, found := s.nodes[h]
	if !found {
		return 0, "", NodeValue{}, nil, false
	}
	return n.Kind, n.Label, n.Value, n.ChildHashes, true
}

// Contains reports whether h is present in the store.
func (s *SnapshotStore) Contains(h Hash) bool {
	_, ok := s.nodes[h]
	return ok
}

// deleteMany removes the given hashes from the store. GC is the sole
// caller; the store is otherwise append-only.
func (s *SnapshotStore) deleteMany(hashes []Hash) {
	for _, h := range hashes {
		delete(s.nodes, h)
	}
	s.metrics.SetStoreSize(len(s.nodes))
}

// Len returns the number of stored node records.
func (s *SnapshotStore) Len() int { return len(s.nodes) }

// Keys returns every hash currently in the store, sorted for
// deterministic iteration.
func (s *SnapshotStore) Keys() []Hash {
	out := make([]Hash, 0, len(s.nodes))
	for h := range s.nodes {
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Materialize rebuilds a full AstTree rooted at hash, allocating fresh
// NodeIds while preserving structure and values. Calls for the same
// hash that are in flight at the same time share one rebuild via
// singleflight; nothing is cached between calls, so calls made one
// after another each rebuild the tree.
func (s *SnapshotStore) Materialize(h Hash) (*AstTree, error) {
	v, err, _ := s.group.Do(fmt.Sprintf("%d", uint64(h)), func() (interface{}, error) {
		return s.materializeOnce(h)
	})
	if err != nil {
		return nil, err
	}
	// Each caller gets its own tree: singleflight only dedups the work
	// of resolving node records, the returned AstTree is cloned so
	// callers mutating their own copy never observe each other.
	return v.(*AstTree).Clone(), nil
}

func (s *SnapshotStore) materializeOnce(h Hash) (*AstTree, error) {
	tree := NewAstTree()
	record, ok := s.nodes[h]
	if !ok {
		return nil, newError(UnknownCommit, "Materialize", "hash not present in store")
	}

	var build func(rec storedNode, parent NodeId) error
	build = func(rec storedNode, parent NodeId) error {
		for _, ch := range rec.ChildHashes {
			childRec, ok := s.nodes[ch]
			if !ok {
				return newError(UnknownCommit, "Materialize", "child hash not present in store")
			}
			id, err := tree.AddNodeWithValue(childRec.Kind, childRec.Label, childRec.Value, parent)
			if err != nil {
				return wrapError(InvalidOp, "Materialize", err)
			}
			if err := build(childRec, id); err != nil {
				return err
			}
		}
		return nil
	}

	// The Root entry is special: it was hashed from id 0, whose record
	// is stored like any other node, but the tree already has a Root
	// (id 0, kind Root) from NewAstTree. Overwrite its label/value/kind
	// to match the stored record before attaching children.
	if rootNode, ok := tree.GetNode(tree.Root()); ok {
		rootNode.Kind = record.Kind
		rootNode.Label = record.Label
		rootNode.Value = record.Value
	}
	if err := build(record, tree.Root()); err != nil {
		return nil, err
	}
	return tree, nil
}
