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

// matchKey buckets candidate children by (kind, label) for the
// per-level O(m+n) matcher.
type matchKey struct {
	kind  AstNodeKind
	label string
}

// DiffTrees produces a minimal operation script transforming old into
// new: root-anchored recursion, per-level (kind,label) matching, and
// a Delete-then-Insert-then-recurse emission order at each level.
// Diff never fails: any two trees yield a valid script.
func DiffTrees(old, new *AstTree) []Op {
	var ops []Op
	diffChildren(old, new, old.Root(), new.Root(), &ops)
	return ops
}

func diffChildren(old, newT *AstTree, oldParent, newParent NodeId, ops *[]Op) {
	oldNode, _ := old.GetNode(oldParent)
	newNode, _ := newT.GetNode(newParent)

	oldChildren := oldNode.Children
	newChildren := newNode.Children

	candidates := make(map[matchKey][]int)
	for i, nid := range newChildren {
		n, _ := newT.GetNode(nid)
		k := matchKey{kind: n.Kind, label: n.Label}
		candidates[k] = append(candidates[k], i)
	}

	claimedNew := make(map[int]bool, len(newChildren))
	type pair struct {
		oldId NodeId
		newId NodeId
	}
	var matched []pair
	var deletedOld []NodeId

	for _, oid := range oldChildren {
		on, _ := old.GetNode(oid)
		k := matchKey{kind: on.Kind, label: on.Label}
		lst := candidates[k]
		claimedIdx := -1
		for idx, ni := range lst {
			if !claimedNew[ni] {
				claimedIdx = idx
				break
			}
		}
		if claimedIdx == -1 {
			deletedOld = append(deletedOld, oid)
			continue
		}
		niPos := lst[claimedIdx]
		claimedNew[niPos] = true
		matched = append(matched, pair{oldId: oid, newId: newChildren[niPos]})
	}

	var insertedNew []int
	for i := range newChildren {
		if !claimedNew[i] {
			insertedNew = append(insertedNew, i)
		}
	}

	// insertSubtree emits Inserts for every descendant of an inserted
	// node, parents before children, so the whole new subtree is rebuilt.
	var insertSubtree func(parent NodeId)
	insertSubtree = func(parent NodeId) {
		pn, _ := newT.GetNode(parent)
		for i, cid := range pn.Children {
			cn, _ := newT.GetNode(cid)
			*ops = append(*ops, InsertOp(cid, parent, i, cn.Kind, cn.Label, cn.Value))
			insertSubtree(cid)
		}
	}

	for _, oid := range deletedOld {
		*ops = append(*ops, DeleteOp(oid))
	}
	for _, idx := range insertedNew {
		nid := newChildren[idx]
		n, _ := newT.GetNode(nid)
		*ops = append(*ops, InsertOp(nid, newParent, idx, n.Kind, n.Label, n.Value))
		insertSubtree(nid)
	}

	for _, p := range matched {
		on, _ := old.GetNode(p.oldId)
		nn, _ := newT.GetNode(p.newId)

		if !on.Value.Equal(nn.Value) {
			*ops = append(*ops, UpdateOp(p.oldId, on.Value, nn.Value))
		}
		if on.Label != nn.Label {
			*ops = append(*ops, RelabelOp(p.oldId, on.Label, nn.Label))
		}
		diffChildren(old, newT, p.oldId, p.newId, ops)
	}
}
