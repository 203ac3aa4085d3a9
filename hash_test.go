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

func buildSphere() *arbor.AstTree {
	tree := arbor.NewAstTree()
	sphere, _ := tree.AddNode(arbor.KindPrimitive, "sphere", tree.Root())
	_, _ = tree.AddNodeWithValue(arbor.KindParameter, "radius", arbor.FloatValue(1.0), sphere)
	return tree
}

func TestHashDeterminism(t *testing.T) {
	h1 := arbor.HashTree(buildSphere())
	h2 := arbor.HashTree(buildSphere())
	require.Equal(t, h1, h2)
}

func TestHashSensitivity(t *testing.T) {
	base := arbor.HashTree(buildSphere())

	valueChanged := buildSphere()
	children, _ := valueChanged.Children(valueChanged.Root())
	radiusChildren, _ := valueChanged.Children(children[0])
	radiusNode, _ := valueChanged.GetNode(radiusChildren[0])
	radiusNode.Value = arbor.FloatValue(2.0)
	require.NotEqual(t, base, arbor.HashTree(valueChanged))

	labelChanged := buildSphere()
	children, _ = labelChanged.Children(labelChanged.Root())
	sphereNode, _ := labelChanged.GetNode(children[0])
	sphereNode.Label = "cube"
	require.NotEqual(t, base, arbor.HashTree(labelChanged))

	kindChanged := buildSphere()
	children, _ = kindChanged.Children(kindChanged.Root())
	node, _ := kindChanged.GetNode(children[0])
	node.Kind = arbor.KindGroup
	require.NotEqual(t, base, arbor.HashTree(kindChanged))

	descendantChanged := buildSphere()
	children, _ = descendantChanged.Children(descendantChanged.Root())
	_, _ = descendantChanged.AddNode(arbor.KindMaterial, "glass", children[0])
	require.NotEqual(t, base, arbor.HashTree(descendantChanged))
}

func TestHashTreeEmptyRootIsStable(t *testing.T) {
	h1 := arbor.HashTree(arbor.NewAstTree())
	h2 := arbor.HashTree(arbor.NewAstTree())
	require.Equal(t, h1, h2)
}
