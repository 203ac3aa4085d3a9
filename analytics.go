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

// TreeStats summarizes the shape of an AstTree: total node count, the
// maximum depth below Root, and a per-kind node count.
type TreeStats struct {
	NodeCount   int
	MaxDepth    int
	CountByKind map[AstNodeKind]int
}

// Analyze walks tree from Root, collecting TreeStats.
func Analyze(tree *AstTree) TreeStats {
	stats := TreeStats{CountByKind: make(map[AstNodeKind]int)}

	var walk func(id NodeId, depth int)
	walk = func(id NodeId, depth int) {
		n, ok := tree.GetNode(id)
		if !ok {
			return
		}
		stats.NodeCount++
		stats.CountByKind[n.Kind]++
		if depth > stats.MaxDepth {
			stats.MaxDepth = depth
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	walk(tree.Root(), 0)
	return stats
}

// PatchStats summarizes an operation script: total op count, a
// per-op-type count, and the codec-computed encoded size.
type PatchStats struct {
	OpCount       int
	CountByOpType map[OpType]int
	EncodedBytes  int
}

// AnalyzePatch walks ops once, collecting PatchStats. EncodedBytes
// reuses the codec's own size calculation, so it always agrees with
// what EncodePatch would actually produce.
func AnalyzePatch(ops []Op) PatchStats {
	stats := PatchStats{
		OpCount:       len(ops),
		CountByOpType: make(map[OpType]int),
		EncodedBytes:  PatchSizeBytes(ops),
	}
	for _, op := range ops {
		stats.CountByOpType[op.Type]++
	}
	return stats
}
