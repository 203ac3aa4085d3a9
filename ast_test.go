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
)

func TestNewAstTreeHasOnlyRoot(t *testing.T) {
	tree := arbor.NewAstTree()
	require.Equal(t, 1, tree.Size())
	root, ok := tree.GetNode(tree.Root())
	require.True(t, ok)
	require.Equal(t, arbor.KindRoot, root.Kind)
	require.Equal(t, tree.Root(), root.Parent)
}

func TestAddNodeAppendsToParentChildren(t *testing.T) {
	tree := arbor.NewAstTree()
	sphere, err := tree.AddNode(arbor.KindPrimitive, "sphere", tree.Root())
	require.NoError(t, err)
	radius, err := tree.AddNodeWithValue(arbor.KindParameter, "radius", arbor.FloatValue(1.0), sphere)
	require.NoError(t, err)

	children, ok := tree.Children(tree.Root())
	require.True(t, ok)
	require.Equal(t, []arbor.NodeId{sphere}, children)

	children, ok = tree.Children(sphere)
	require.True(t, ok)
	require.Equal(t, []arbor.NodeId{radius}, children)

	node, ok := tree.GetNode(radius)
	require.True(t, ok)
	require.True(t, node.Value.Equal(arbor.FloatValue(1.0)))
}

func TestAddNodeInvalidParent(t *testing.T) {
	tree := arbor.NewAstTree()
	_, err := tree.AddNode(arbor.KindPrimitive, "sphere", arbor.NodeId(999))
	require.Error(t, err)
	require.True(t, arbor.IsKind(err, arbor.InvalidParent))
}

func TestRemoveSubtreeRejectsRoot(t *testing.T) {
	tree := arbor.NewAstTree()
	err := tree.RemoveSubtree(tree.Root())
	require.Error(t, err)
	require.True(t, arbor.IsKind(err, arbor.InvalidOp))
}

func TestRemoveSubtreeDeletesDescendants(t *testing.T) {
	tree := arbor.NewAstTree()
	group, _ := tree.AddNode(arbor.KindGroup, "scene", tree.Root())
	sphere, _ := tree.AddNode(arbor.KindPrimitive, "sphere", group)
	_, _ = tree.AddNode(arbor.KindParameter, "radius", sphere)

	require.Equal(t, 4, tree.Size())

	require.NoError(t, tree.RemoveSubtree(sphere))

	require.Equal(t, 2, tree.Size())
	children, _ := tree.Children(group)
	require.Empty(t, children)

	_, ok := tree.GetNode(sphere)
	require.False(t, ok)
}

func TestNextIdNeverReused(t *testing.T) {
	tree := arbor.NewAstTree()
	a, _ := tree.AddNode(arbor.KindGroup, "a", tree.Root())
	require.NoError(t, tree.RemoveSubtree(a))
	b, _ := tree.AddNode(arbor.KindGroup, "b", tree.Root())
	require.NotEqual(t, a, b)
	require.Greater(t, uint64(b), uint64(a))
}

func TestNormalizeKindCustomRange(t *testing.T) {
	require.Equal(t, arbor.KindKeyframe, arbor.NormalizeKind(7))
	require.Equal(t, arbor.KindCustom, arbor.NormalizeKind(8))
	require.Equal(t, arbor.KindCustom, arbor.NormalizeKind(254))
	require.Equal(t, arbor.KindCustom, arbor.NormalizeKind(255))
}

func TestCloneIsIndependent(t *testing.T) {
	tree := arbor.NewAstTree()
	sphere, _ := tree.AddNode(arbor.KindPrimitive, "sphere", tree.Root())

	clone := tree.Clone()
	require.NoError(t, clone.RemoveSubtree(sphere))

	_, ok := tree.GetNode(sphere)
	require.True(t, ok, "original tree must be unaffected by mutating the clone")
}
