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

// Package arbor is a version-control engine for procedural,
// tree-structured data. It diffs abstract syntax trees directly and
// stores history as a content-addressed DAG of snapshots plus
// operation-based patches.
package arbor

// NodeId identifies a node within a single AstTree. Ids are dense,
// assigned at insertion time, and never reused within a tree. 0 is
// reserved for the Root.
type NodeId uint64

// RootId is the id of the single Root node every AstTree starts with.
const RootId NodeId = 0

// AstNodeKind is a closed, one-byte tagged enumeration of node kinds.
type AstNodeKind byte

const (
	KindRoot      AstNodeKind = 0
	KindCsgOp     AstNodeKind = 1
	KindPrimitive AstNodeKind = 2
	KindTransform AstNodeKind = 3
	KindParameter AstNodeKind = 4
	KindGroup     AstNodeKind = 5
	KindMaterial  AstNodeKind = 6
	KindKeyframe  AstNodeKind = 7
	KindCustom    AstNodeKind = 255
)

// NormalizeKind maps raw discriminants 8..254 to KindCustom; kinds
// 0..7 and 255 pass through unchanged.
func NormalizeKind(b byte) AstNodeKind {
	switch {
	case b <= 7:
		return AstNodeKind(b)
	default:
		return KindCustom
	}
}

func (k AstNodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindCsgOp:
		return "CsgOp"
	case KindPrimitive:
		return "Primitive"
	case KindTransform:
		return "Transform"
	case KindParameter:
		return "Parameter"
	case KindGroup:
		return "Group"
	case KindMaterial:
		return "Material"
	case KindKeyframe:
		return "Keyframe"
	default:
		return "Custom"
	}
}

// ValueTag discriminates the NodeValue tagged union, one byte on the wire.
type ValueTag byte

const (
	TagNone  ValueTag = 0x00
	TagInt   ValueTag = 0x01
	TagFloat ValueTag = 0x02
	TagText  ValueTag = 0x03
	TagIdent ValueTag = 0x04
	TagBytes ValueTag = 0x05
)

// NodeValue is the tagged union carried by a node. Exactly one field is
// meaningful per Tag; constructors below are the supported way to build
// one so the tag and payload can never disagree.
type NodeValue struct {
	Tag   ValueTag
	Int   int64
	Float float64
	Str   string // backs both Text and Ident
	Bytes []byte
}

func NoneValue() NodeValue              { return NodeValue{Tag: TagNone} }
func IntValue(v int64) NodeValue        { return NodeValue{Tag: TagInt, Int: v} }
func FloatValue(v float64) NodeValue    { return NodeValue{Tag: TagFloat, Float: v} }
func TextValue(v string) NodeValue      { return NodeValue{Tag: TagText, Str: v} }
func IdentValue(v string) NodeValue     { return NodeValue{Tag: TagIdent, Str: v} }
func BytesValue(v []byte) NodeValue     { return NodeValue{Tag: TagBytes, Bytes: append([]byte(nil), v...)} }

// Equal compares two NodeValues field-by-field according to their tag.
func (v NodeValue) Equal(o NodeValue) bool {
	if v.Tag != o.Tag {
		return false
	}
	switch v.Tag {
	case TagNone:
		return true
	case TagInt:
		return v.Int == o.Int
	case TagFloat:
		return v.Float == o.Float
	case TagText, TagIdent:
		return v.Str == o.Str
	case TagBytes:
		if len(v.Bytes) != len(o.Bytes) {
			return false
		}
		for i := range v.Bytes {
			if v.Bytes[i] != o.Bytes[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// AstNode is one node of an AstTree. Children is insertion-ordered and
// that order is the canonical "position" patches reference.
type AstNode struct {
	Id       NodeId
	Kind     AstNodeKind
	Label    string
	Value    NodeValue
	Parent   NodeId
	Children []NodeId
}

// AstTree is an in-memory, id-indexed tree container. The zero value is
// not usable; construct with NewAstTree.
type AstTree struct {
	nodes  map[NodeId]*AstNode
	root   NodeId
	nextID NodeId
}

// NewAstTree returns a tree containing only the Root (id 0).
func NewAstTree() *AstTree {
	t := &AstTree{
		nodes:  make(map[NodeId]*AstNode),
		root:   RootId,
		nextID: RootId + 1,
	}
	t.nodes[RootId] = &AstNode{
		Id:     RootId,
		Kind:   KindRoot,
		Parent: RootId,
	}
	return t
}

// Root returns the Root node's id (always 0).
func (t *AstTree) Root() NodeId { return t.root }

// Size returns the number of nodes, including Root.
func (t *AstTree) Size() int { return len(t.nodes) }

// GetNode returns the node for id, or (nil, false) if absent.
func (t *AstTree) GetNode(id NodeId) (*AstNode, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Parent returns id's parent. For Root this is Root itself.
func (t *AstTree) Parent(id NodeId) (NodeId, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return 0, false
	}
	return n.Parent, true
}

// Children returns a copy of id's child id slice in insertion order.
func (t *AstTree) Children(id NodeId) ([]NodeId, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, false
	}
	out := make([]NodeId, len(n.Children))
	copy(out, n.Children)
	return out, true
}

// AddNode creates a new node with no value as the last child of parent.
func (t *AstTree) AddNode(kind AstNodeKind, label string, parent NodeId) (NodeId, error) {
	return t.AddNodeWithValue(kind, label, NoneValue(), parent)
}

// AddNodeWithValue creates a new node as the last child of parent,
// allocating the next free NodeId. Returns InvalidParent if parent is
// absent.
func (t *AstTree) AddNodeWithValue(kind AstNodeKind, label string, value NodeValue, parent NodeId) (NodeId, error) {
	p, ok := t.nodes[parent]
	if !ok {
		return 0, newError(InvalidParent, "AddNodeWithValue", "parent node not present")
	}
	id := t.nextID
	t.nextID++
	t.nodes[id] = &AstNode{
		Id:     id,
		Kind:   kind,
		Label:  label,
		Value:  value,
		Parent: parent,
	}
	p.Children = append(p.Children, id)
	return id, nil
}

// insertAt creates a node with exactly id (not freshly allocated) as the
// index'th child of parent, clamping index into [0, len]. Used by Apply
// for explicit-id Insert ops. advances nextID to max(nextID, id+1).
func (t *AstTree) insertAt(id NodeId, parent NodeId, index int, kind AstNodeKind, label string, value NodeValue) error {
	if _, exists := t.nodes[id]; exists {
		return newError(InvalidOp, "insertAt", "node id already exists")
	}
	p, ok := t.nodes[parent]
	if !ok {
		return newError(InvalidOp, "insertAt", "parent node not present")
	}
	if index < 0 {
		index = 0
	}
	if index > len(p.Children) {
		index = len(p.Children)
	}
	t.nodes[id] = &AstNode{
		Id:     id,
		Kind:   kind,
		Label:  label,
		Value:  value,
		Parent: parent,
	}
	p.Children = append(p.Children, 0)
	copy(p.Children[index+1:], p.Children[index:])
	p.Children[index] = id
	if id+1 > t.nextID {
		t.nextID = id + 1
	}
	return nil
}

// RemoveSubtree deletes id and every descendant. Rejects removing Root.
// The removed-set membership test is a map, so this is linear in
// subtree size rather than quadratic.
func (t *AstTree) RemoveSubtree(id NodeId) error {
	if id == t.root {
		return newError(InvalidOp, "RemoveSubtree", "cannot remove Root")
	}
	n, ok := t.nodes[id]
	if !ok {
		return newError(InvalidOp, "RemoveSubtree", "node not present")
	}

	removed := make(map[NodeId]struct{})
	queue := []NodeId{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		removed[cur] = struct{}{}
		if node, ok := t.nodes[cur]; ok {
			queue = append(queue, node.Children...)
		}
	}
	for rid := range removed {
		delete(t.nodes, rid)
	}

	if p, ok := t.nodes[n.Parent]; ok {
		kept := p.Children[:0]
		for _, c := range p.Children {
			if _, gone := removed[c]; !gone {
				kept = append(kept, c)
			}
		}
		p.Children = kept
	}
	return nil
}

// detach removes id from its current parent's Children slice without
// deleting the node itself. Used by Move.
func (t *AstTree) detach(id NodeId) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	p, ok := t.nodes[n.Parent]
	if !ok {
		return
	}
	kept := p.Children[:0]
	for _, c := range p.Children {
		if c != id {
			kept = append(kept, c)
		}
	}
	p.Children = kept
}

// isDescendant reports whether candidate is id or a descendant of id.
func (t *AstTree) isDescendant(id, candidate NodeId) bool {
	for cur := candidate; ; {
		if cur == id {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok || n.Parent == cur {
			return cur == id
		}
		cur = n.Parent
	}
}

// ids returns every node id in the tree, order unspecified.
func (t *AstTree) ids() []NodeId {
	out := make([]NodeId, 0, len(t.nodes))
	for id := range t.nodes {
		out = append(out, id)
	}
	return out
}

// Clone returns a deep copy sharing no mutable state with t.
func (t *AstTree) Clone() *AstTree {
	out := &AstTree{
		nodes:  make(map[NodeId]*AstNode, len(t.nodes)),
		root:   t.root,
		nextID: t.nextID,
	}
	for id, n := range t.nodes {
		cp := *n
		cp.Children = append([]NodeId(nil), n.Children...)
		cp.Value.Bytes = append([]byte(nil), n.Value.Bytes...)
		out.nodes[id] = &cp
	}
	return out
}
