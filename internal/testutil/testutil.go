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

// Package testutil holds tree-building helpers and structural
// comparison assertions shared by arbor's _test.go files.
package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/arbor-vcs/arbor"
)

// NodeSpec describes one node to build, addressed by a caller-chosen
// local name so ChildOf can reference it before its NodeId is known.
type NodeSpec struct {
	Name   string
	Kind   arbor.AstNodeKind
	Label  string
	Value  arbor.NodeValue
	Parent string // "" means attach to Root; otherwise another NodeSpec's Name
}

// Build constructs an AstTree from specs, applied in order, and
// returns both the tree and a name→NodeId map for use in assertions.
func Build(t *testing.T, specs []NodeSpec) (*arbor.AstTree, map[string]arbor.NodeId) {
	t.Helper()
	tree := arbor.NewAstTree()
	ids := map[string]arbor.NodeId{"": tree.Root()}
	for _, s := range specs {
		parent, ok := ids[s.Parent]
		if !ok {
			t.Fatalf("testutil.Build: unknown parent %q for node %q", s.Parent, s.Name)
		}
		id, err := tree.AddNodeWithValue(s.Kind, s.Label, s.Value, parent)
		if err != nil {
			t.Fatalf("testutil.Build: AddNodeWithValue(%q): %v", s.Name, err)
		}
		ids[s.Name] = id
	}
	return tree, ids
}

// treeView is the unexported-field-free projection of an AstTree used
// for structural comparison: go-cmp can't reach into arbor.AstTree's
// unexported map, so tests compare via this exported snapshot instead.
type treeView struct {
	Nodes map[arbor.NodeId]arbor.AstNode
	Root  arbor.NodeId
}

func snapshot(tree *arbor.AstTree) treeView {
	v := treeView{Nodes: make(map[arbor.NodeId]arbor.AstNode), Root: tree.Root()}
	walk(tree, tree.Root(), &v)
	return v
}

func walk(tree *arbor.AstTree, id arbor.NodeId, v *treeView) {
	n, ok := tree.GetNode(id)
	if !ok {
		return
	}
	v.Nodes[id] = *n
	for _, c := range n.Children {
		walk(tree, c, v)
	}
}

// AssertStructurallyEqual fails the test with a go-cmp diff if got and
// want don't have the same node kinds/labels/values in the same
// child-ordered shape, ids included; callers that expect id
// renumbering should compare via AssertShapeEqual instead.
func AssertStructurallyEqual(t *testing.T, got, want *arbor.AstTree) {
	t.Helper()
	gv, wv := snapshot(got), snapshot(want)
	if diff := cmp.Diff(wv, gv); diff != "" {
		t.Errorf("trees differ (-want +got):\n%s\ngot:\n%s\nwant:\n%s", diff, got.DebugString(), want.DebugString())
	}
}

// shapeNode is a NodeId-free view of one node, for comparisons that
// allow ids to differ because Insert allocated fresh ones.
type shapeNode struct {
	Kind     arbor.AstNodeKind
	Label    string
	Value    arbor.NodeValue
	Children []shapeNode
}

func shapeOf(tree *arbor.AstTree, id arbor.NodeId) shapeNode {
	n, _ := tree.GetNode(id)
	s := shapeNode{Kind: n.Kind, Label: n.Label, Value: n.Value}
	for _, c := range n.Children {
		s.Children = append(s.Children, shapeOf(tree, c))
	}
	return s
}

// AssertShapeEqual fails the test with a go-cmp diff if got and want
// don't have the same node kinds/labels/values in the same
// child-ordered shape, ignoring NodeId assignment.
func AssertShapeEqual(t *testing.T, got, want *arbor.AstTree) {
	t.Helper()
	g, w := shapeOf(got, got.Root()), shapeOf(want, want.Root())
	if diff := cmp.Diff(w, g, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tree shapes differ (-want +got):\n%s\ngot:\n%s\nwant:\n%s", diff, got.DebugString(), want.DebugString())
	}
}
