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

func TestMergeCleanDisjointEdits(t *testing.T) {
	a := []arbor.Op{arbor.RelabelOp(1, "sphere", "ball")}
	b := []arbor.Op{arbor.UpdateOp(2, arbor.FloatValue(1.0), arbor.FloatValue(2.0))}

	result := arbor.MergePatches(a, b)
	require.True(t, result.IsClean())
	require.Len(t, result.Merged, 2)
	require.Contains(t, result.Merged, a[0])
	require.Contains(t, result.Merged, b[0])
}

func TestMergeUpdateUpdateConflict(t *testing.T) {
	a := []arbor.Op{arbor.UpdateOp(1, arbor.FloatValue(1.0), arbor.FloatValue(2.0))}
	b := []arbor.Op{arbor.UpdateOp(1, arbor.FloatValue(1.0), arbor.FloatValue(3.0))}

	result := arbor.MergePatches(a, b)
	require.False(t, result.IsClean())
	require.Len(t, result.Conflicts, 1)
	require.Equal(t, arbor.NodeId(1), result.Conflicts[0].NodeId)
}

// Identical edits to the same node on both sides dedup into the merge
// rather than conflicting or duplicating.
func TestMergeIdenticalEditsDedup(t *testing.T) {
	op := arbor.UpdateOp(1, arbor.FloatValue(1.0), arbor.FloatValue(2.0))
	result := arbor.MergePatches([]arbor.Op{op}, []arbor.Op{op})

	require.True(t, result.IsClean())
	require.Len(t, result.Merged, 1)
}

func TestMergeDeleteVsUpdateConflicts(t *testing.T) {
	a := []arbor.Op{arbor.DeleteOp(1)}
	b := []arbor.Op{arbor.RelabelOp(1, "sphere", "ball")}

	result := arbor.MergePatches(a, b)
	require.False(t, result.IsClean())
	require.Len(t, result.Conflicts, 1)
}

// Merge is idempotent: merging a script with itself produces the same
// ops, deduplicated, cleanly.
func TestMergeIdempotence(t *testing.T) {
	a := []arbor.Op{
		arbor.RelabelOp(1, "sphere", "ball"),
		arbor.UpdateOp(2, arbor.FloatValue(1.0), arbor.FloatValue(2.0)),
	}
	result := arbor.MergePatches(a, a)
	require.True(t, result.IsClean())
	require.ElementsMatch(t, a, result.Merged)
}

// Merge is symmetric in outcome: swapping the argument order produces
// the same classification (same conflicting node ids, same clean ops
// as a set), even though MergePatches itself is not guaranteed to
// preserve op order across the swap.
func TestMergeSymmetry(t *testing.T) {
	a := []arbor.Op{
		arbor.UpdateOp(1, arbor.FloatValue(1.0), arbor.FloatValue(2.0)),
		arbor.RelabelOp(3, "cube", "box"),
	}
	b := []arbor.Op{
		arbor.UpdateOp(1, arbor.FloatValue(1.0), arbor.FloatValue(9.0)),
		arbor.RelabelOp(4, "cone", "pyramid"),
	}

	forward := arbor.MergePatches(a, b)
	backward := arbor.MergePatches(b, a)

	require.Equal(t, len(forward.Conflicts), len(backward.Conflicts))
	require.ElementsMatch(t, conflictNodeIds(forward.Conflicts), conflictNodeIds(backward.Conflicts))
	require.ElementsMatch(t, forward.Merged, backward.Merged)
}

func conflictNodeIds(cs []arbor.Conflict) []arbor.NodeId {
	out := make([]arbor.NodeId, len(cs))
	for i, c := range cs {
		out[i] = c.NodeId
	}
	return out
}
