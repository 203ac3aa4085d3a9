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

// OpType discriminates the five patch op variants. The numeric values
// match the wire encoding (0=Insert 1=Delete 2=Update 3=Relabel
// 4=Move).
type OpType byte

const (
	OpInsert  OpType = 0
	OpDelete  OpType = 1
	OpUpdate  OpType = 2
	OpRelabel OpType = 3
	OpMove    OpType = 4
)

func (t OpType) String() string {
	switch t {
	case OpInsert:
		return "Insert"
	case OpDelete:
		return "Delete"
	case OpUpdate:
		return "Update"
	case OpRelabel:
		return "Relabel"
	case OpMove:
		return "Move"
	default:
		return "Unknown"
	}
}

// Op is one entry of an operation script. Only the fields relevant to
// Type are meaningful; the zero value of the others is ignored.
type Op struct {
	Type OpType

	NodeId NodeId

	// Insert
	ParentId NodeId
	Index    int
	Kind     AstNodeKind
	Label    string
	Value    NodeValue

	// Update
	OldValue NodeValue
	NewValue NodeValue

	// Relabel
	OldLabel string
	NewLabel string

	// Move
	NewParentId NodeId
	NewIndex    int
}

// InsertOp builds an Insert op.
func InsertOp(nodeID, parentID NodeId, index int, kind AstNodeKind, label string, value NodeValue) Op {
	return Op{Type: OpInsert, NodeId: nodeID, ParentId: parentID, Index: index, Kind: kind, Label: label, Value: value}
}

// DeleteOp builds a Delete op.
func DeleteOp(nodeID NodeId) Op {
	return Op{Type: OpDelete, NodeId: nodeID}
}

// UpdateOp builds an Update op.
func UpdateOp(nodeID NodeId, oldValue, newValue NodeValue) Op {
	return Op{Type: OpUpdate, NodeId: nodeID, OldValue: oldValue, NewValue: newValue}
}

// RelabelOp builds a Relabel op.
func RelabelOp(nodeID NodeId, oldLabel, newLabel string) Op {
	return Op{Type: OpRelabel, NodeId: nodeID, OldLabel: oldLabel, NewLabel: newLabel}
}

// MoveOp builds a Move op.
func MoveOp(nodeID, newParentID NodeId, newIndex int) Op {
	return Op{Type: OpMove, NodeId: nodeID, NewParentId: newParentID, NewIndex: newIndex}
}

// touchedId returns the node id an op is considered to act on for
// merge conflict-site purposes: the inserted node's id for Insert,
// the operand node id otherwise.
func (op Op) touchedId() NodeId {
	return op.NodeId
}

// equalOperands reports whether two ops of the same Type carry
// identical operands (field-aware, since NodeValue is a tagged union).
func (op Op) equalOperands(o Op) bool {
	if op.Type != o.Type || op.NodeId != o.NodeId {
		return false
	}
	switch op.Type {
	case OpInsert:
		return op.ParentId == o.ParentId && op.Index == o.Index &&
			op.Kind == o.Kind && op.Label == o.Label && op.Value.Equal(o.Value)
	case OpDelete:
		return true
	case OpUpdate:
		return op.OldValue.Equal(o.OldValue) && op.NewValue.Equal(o.NewValue)
	case OpRelabel:
		return op.OldLabel == o.OldLabel && op.NewLabel == o.NewLabel
	case OpMove:
		return op.NewParentId == o.NewParentId && op.NewIndex == o.NewIndex
	default:
		return false
	}
}
