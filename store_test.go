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

package arbor_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbor-vcs/arbor"
	"github.com/arbor-vcs/arbor/internal/testutil"
)

func TestStoreInsertTreeDedupsIdenticalSubtrees(t *testing.T) {
	tree, ids := testutil.Build(t, []testutil.NodeSpec{
		{Name: "group", Kind: arbor.KindGroup, Label: "scene"},
		{Name: "sphereA", Kind: arbor.KindPrimitive, Label: "sphere", Parent: "group"},
		{Name: "radiusA", Kind: arbor.KindParameter, Label: "radius", Value: arbor.FloatValue(1.0), Parent: "sphereA"},
		{Name: "sphereB", Kind: arbor.KindPrimitive, Label: "sphere", Parent: "group"},
		{Name: "radiusB", Kind: arbor.KindParameter, Label: "radius", Value: arbor.FloatValue(1.0), Parent: "sphereB"},
	})
	_ = ids

	store := arbor.NewSnapshotStore()
	store.InsertTree(tree)

	// sphereA and sphereB are structurally identical subtrees; they
	// must collapse to a single stored entry each (sphere node +
	// radius node), not four. With Root and the group that makes four
	// entries in all.
	require.Equal(t, 4, store.Len())
}

func TestStoreGetAndContains(t *testing.T) {
	tree := arbor.NewAstTree()
	store := arbor.NewSnapshotStore()
	h := store.InsertTree(tree)

	require.True(t, store.Contains(h))
	kind, _, _, children, ok := store.Get(h)
	require.True(t, ok)
	require.Equal(t, arbor.KindRoot, kind)
	require.Empty(t, children)

	_, _, _, _, ok = store.Get(arbor.Hash(12345))
	require.False(t, ok)
}

func TestStoreMaterializeRoundTrip(t *testing.T) {
	original, ids := testutil.Build(t, []testutil.NodeSpec{
		{Name: "sphere", Kind: arbor.KindPrimitive, Label: "sphere"},
		{Name: "radius", Kind: arbor.KindParameter, Label: "radius", Value: arbor.FloatValue(1.0), Parent: "sphere"},
	})
	_ = ids

	store := arbor.NewSnapshotStore()
	h := store.InsertTree(original)

	rebuilt, err := store.Materialize(h)
	require.NoError(t, err)
	testutil.AssertShapeEqual(t, rebuilt, original)
}

func TestStoreMaterializeUnknownHashFails(t *testing.T) {
	store := arbor.NewSnapshotStore()
	_, err := store.Materialize(arbor.Hash(999))
	require.Error(t, err)
	require.True(t, arbor.IsKind(err, arbor.UnknownCommit))
}

func TestStoreKeysAreSorted(t *testing.T) {
	tree, ids := testutil.Build(t, []testutil.NodeSpec{
		{Name: "a", Kind: arbor.KindGroup, Label: "a"},
		{Name: "b", Kind: arbor.KindGroup, Label: "b"},
	})
	_ = ids
	store := arbor.NewSnapshotStore()
	store.InsertTree(tree)

	keys := store.Keys()
	for i := 1; i < len(keys); i++ {
		require.LessOrEqual(t, keys[i-1], keys[i])
	}
}
