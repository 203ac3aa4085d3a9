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

// Conflict records that the two input scripts disagree on node_id.
type Conflict struct {
	NodeId NodeId
	OpsA   []Op
	OpsB   []Op
}

// MergeResult is the classified outcome of a 3-way structural merge.
type MergeResult struct {
	Merged    []Op
	Conflicts []Conflict
}

// IsClean reports whether the merge produced no conflicts.
func (r MergeResult) IsClean() bool { return len(r.Conflicts) == 0 }

// MergePatches classifies two operation scripts derived from a common
// ancestor into clean merges and node-level conflicts. Merge never
// fails; conflicts are data, not errors.
func MergePatches(a, b []Op) MergeResult {
	groupsA := groupByNode(a)
	groupsB := groupByNode(b)

	touchedA := idsOf(groupsA)
	touchedB := idsOf(groupsB)

	shared := make(map[NodeId]bool)
	for id := range touchedA {
		if touchedB[id] {
			shared[id] = true
		}
	}

	result := MergeResult{}

	// Ids touched by only one side: copy their ops, preserving the
	// source's own relative op order across the whole script.
	for _, op := range a {
		if !shared[op.touchedId()] {
			result.Merged = append(result.Merged, op)
		}
	}
	for _, op := range b {
		if !shared[op.touchedId()] {
			result.Merged = append(result.Merged, op)
		}
	}

	// Ids touched by both sides: classify.
	for id := range shared {
		ga := groupsA[id]
		gb := groupsB[id]
		if opsEqualAsMultiset(ga, gb) {
			result.Merged = append(result.Merged, ga...)
			continue
		}
		if oneIsDeleteOtherNonDelete(ga, gb) {
			result.Conflicts = append(result.Conflicts, Conflict{NodeId: id, OpsA: ga, OpsB: gb})
			continue
		}
		result.Conflicts = append(result.Conflicts, Conflict{NodeId: id, OpsA: ga, OpsB: gb})
	}

	return result
}

func groupByNode(ops []Op) map[NodeId][]Op {
	m := make(map[NodeId][]Op)
	for _, op := range ops {
		id := op.touchedId()
		m[id] = append(m[id], op)
	}
	return m
}

func idsOf(m map[NodeId][]Op) map[NodeId]bool {
	out := make(map[NodeId]bool, len(m))
	for id := range m {
		out[id] = true
	}
	return out
}

// opsEqualAsMultiset reports whether ga and gb contain the same op
// variants with equal operands, order ignored.
func opsEqualAsMultiset(ga, gb []Op) bool {
	if len(ga) != len(gb) {
		return false
	}
	used := make([]bool, len(gb))
	for _, x := range ga {
		found := false
		for j, y := range gb {
			if used[j] {
				continue
			}
			if x.equalOperands(y) {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func oneIsDeleteOtherNonDelete(ga, gb []Op) bool {
	aHasDelete, aHasOther := groupKinds(ga)
	bHasDelete, bHasOther := groupKinds(gb)
	return (aHasDelete && bHasOther) || (bHasDelete && aHasOther)
}

func groupKinds(ops []Op) (hasDelete, hasOther bool) {
	for _, op := range ops {
		if op.Type == OpDelete {
			hasDelete = true
		} else {
			hasOther = true
		}
	}
	return
}
