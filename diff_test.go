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

func TestDiffIdenticalTreesIsEmpty(t *testing.T) {
	t1 := buildSphere()
	t2 := buildSphere()
	require.Empty(t, arbor.DiffTrees(t1, t2))
}

func TestDiffScalarUpdate(t *testing.T) {
	t1 := buildSphere()
	t2 := buildSphere()

	children, _ := t2.Children(t2.Root())
	radiusChildren, _ := t2.Children(children[0])
	radiusNode, _ := t2.GetNode(radiusChildren[0])
	radiusNode.Value = arbor.FloatValue(1.5)

	ops := arbor.DiffTrees(t1, t2)
	require.Len(t, ops, 1)
	require.Equal(t, arbor.OpUpdate, ops[0].Type)
	require.Equal(t, radiusChildren[0], ops[0].NodeId)
	require.True(t, ops[0].OldValue.Equal(arbor.FloatValue(1.0)))
	require.True(t, ops[0].NewValue.Equal(arbor.FloatValue(1.5)))
	require.LessOrEqual(t, arbor.PatchSizeBytes(ops), 16)
}

func TestDiffInsertUnderNewParent(t *testing.T) {
	t1 := arbor.NewAstTree()
	t2 := t1.Clone()

	subtract, _ := t2.AddNode(arbor.KindCsgOp, "subtract", t2.Root())
	_, _ = t2.AddNode(arbor.KindPrimitive, "cube", subtract)

	ops := arbor.DiffTrees(t1, t2)
	require.LessOrEqual(t, arbor.PatchSizeBytes(ops), 24)

	result := t1.Clone()
	require.NoError(t, arbor.ApplyPatch(result, ops))
	testutil.AssertShapeEqual(t, result, t2)
}

// Children are matched by (kind, label), so a label change leaves the
// old and new nodes unmatched: the old subtree is deleted and the
// relabelled one is inserted together with its child.
func TestDiffLabelChangeIsDeleteThenInsert(t *testing.T) {
	t1 := buildSphere()
	t2 := buildSphere()

	children, _ := t2.Children(t2.Root())
	sphereNode, _ := t2.GetNode(children[0])
	sphereNode.Label = "ball"

	ops := arbor.DiffTrees(t1, t2)
	require.Len(t, ops, 3)
	require.Equal(t, arbor.OpDelete, ops[0].Type)
	require.Equal(t, arbor.OpInsert, ops[1].Type)
	require.Equal(t, "ball", ops[1].Label)
	require.Equal(t, arbor.OpInsert, ops[2].Type)
	require.Equal(t, "radius", ops[2].Label)
}

func TestDiffDeleteThenInsertOrdering(t *testing.T) {
	t1 := arbor.NewAstTree()
	_, _ = t1.AddNode(arbor.KindPrimitive, "sphere", t1.Root())

	t2 := arbor.NewAstTree()
	_, _ = t2.AddNode(arbor.KindPrimitive, "cube", t2.Root())

	ops := arbor.DiffTrees(t1, t2)
	require.Len(t, ops, 2)
	require.Equal(t, arbor.OpDelete, ops[0].Type)
	require.Equal(t, arbor.OpInsert, ops[1].Type)

	result := t1.Clone()
	require.NoError(t, arbor.ApplyPatch(result, ops))
	testutil.AssertShapeEqual(t, result, t2)
}

// Diff soundness over a broader structural edit (adds, removes, and a
// value change in the same script).
func TestDiffSoundnessMixedEdit(t *testing.T) {
	t1, ids := testutil.Build(t, []testutil.NodeSpec{
		{Name: "scene", Kind: arbor.KindGroup, Label: "scene"},
		{Name: "sphere", Kind: arbor.KindPrimitive, Label: "sphere", Parent: "scene"},
		{Name: "radius", Kind: arbor.KindParameter, Label: "radius", Value: arbor.FloatValue(1.0), Parent: "sphere"},
		{Name: "cube", Kind: arbor.KindPrimitive, Label: "cube", Parent: "scene"},
	})
	_ = ids

	t2 := t1.Clone()
	children, _ := t2.Children(t2.Root())
	scene := children[0]
	sceneChildren, _ := t2.Children(scene)

	// Remove "cube", add a new "cone", bump "radius".
	require.NoError(t, t2.RemoveSubtree(sceneChildren[1]))
	_, _ = t2.AddNode(arbor.KindPrimitive, "cone", scene)
	sphereChildren, _ := t2.Children(sceneChildren[0])
	radiusNode, _ := t2.GetNode(sphereChildren[0])
	radiusNode.Value = arbor.FloatValue(3.0)

	ops := arbor.DiffTrees(t1, t2)
	result := t1.Clone()
	require.NoError(t, arbor.ApplyPatch(result, ops))
	testutil.AssertShapeEqual(t, result, t2)
}
