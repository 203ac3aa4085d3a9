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

// ApplyPatch mutates tree in place according to ops, in list order.
// It surfaces the first offending op as an error and leaves the tree
// partially updated; callers needing atomicity should Clone first.
func ApplyPatch(tree *AstTree, ops []Op) error {
	for _, op := range ops {
		if err := applyOne(tree, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(tree *AstTree, op Op) error {
	switch op.Type {
	case OpDelete:
		if op.NodeId == tree.Root() {
			return newError(InvalidOp, "ApplyPatch", "cannot delete Root")
		}
		if _, ok := tree.GetNode(op.NodeId); !ok {
			return newError(InvalidOp, "ApplyPatch", "delete of absent node")
		}
		return tree.RemoveSubtree(op.NodeId)

	case OpUpdate:
		n, ok := tree.GetNode(op.NodeId)
		if !ok {
			return newError(InvalidOp, "ApplyPatch", "update of absent node")
		}
		// A mismatch between op.OldValue and the node's current value
		// is tolerated rather than rejected, so replaying an Update
		// twice stays idempotent; no warning sink exists at this layer.
		n.Value = op.NewValue
		return nil

	case OpRelabel:
		n, ok := tree.GetNode(op.NodeId)
		if !ok {
			return newError(InvalidOp, "ApplyPatch", "relabel of absent node")
		}
		n.Label = op.NewLabel
		return nil

	case OpMove:
		n, ok := tree.GetNode(op.NodeId)
		if !ok {
			return newError(InvalidOp, "ApplyPatch", "move of absent node")
		}
		if op.NodeId == tree.Root() {
			return newError(InvalidOp, "ApplyPatch", "cannot move Root")
		}
		newParent, ok := tree.GetNode(op.NewParentId)
		if !ok {
			return newError(InvalidOp, "ApplyPatch", "move to absent parent")
		}
		if tree.isDescendant(op.NodeId, op.NewParentId) {
			return newError(InvalidOp, "ApplyPatch", "move would create a cycle")
		}
		tree.detach(op.NodeId)
		n.Parent = op.NewParentId
		idx := op.NewIndex
		if idx < 0 {
			idx = 0
		}
		if idx > len(newParent.Children) {
			idx = len(newParent.Children)
		}
		newParent.Children = append(newParent.Children, 0)
		copy(newParent.Children[idx+1:], newParent.Children[idx:])
		newParent.Children[idx] = op.NodeId
		return nil

	case OpInsert:
		return tree.insertAt(op.NodeId, op.ParentId, op.Index, op.Kind, op.Label, op.Value)

	default:
		return newError(InvalidOp, "ApplyPatch", "unrecognized op type")
	}
}
