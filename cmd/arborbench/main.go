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

// Command arborbench is a local development benchmark harness. It
// generates a random AST, runs diff/apply/encode/decode over it, and
// prints timing and analytics. It is not part of arbor's importable
// API surface and carries no durable configuration of its own.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/arbor-vcs/arbor"
)

func main() {
	nodes := flag.Int("nodes", 2000, "approximate number of nodes in the generated tree")
	edits := flag.Int("edits", 200, "number of random edits applied to produce the second tree")
	seed := flag.Int64("seed", 1, "PRNG seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	t1 := randomTree(rng, *nodes)
	t2 := t1.Clone()
	applyRandomEdits(rng, t2, *edits)

	start := time.Now()
	ops := arbor.DiffTrees(t1, t2)
	diffElapsed := time.Since(start)

	start = time.Now()
	encoded := arbor.EncodePatch(ops)
	encodeElapsed := time.Since(start)

	start = time.Now()
	decoded, err := arbor.DecodePatch(encoded)
	decodeElapsed := time.Since(start)
	if err != nil {
		fmt.Println("decode error:", err)
		return
	}

	start = time.Now()
	result := t1.Clone()
	if err := arbor.ApplyPatch(result, decoded); err != nil {
		fmt.Println("apply error:", err)
		return
	}
	applyElapsed := time.Since(start)

	stats := arbor.AnalyzePatch(ops)
	t1Stats := arbor.Analyze(t1)
	t2Stats := arbor.Analyze(t2)

	fmt.Printf("source tree:  %d nodes, depth %d\n", t1Stats.NodeCount, t1Stats.MaxDepth)
	fmt.Printf("target tree:  %d nodes, depth %d\n", t2Stats.NodeCount, t2Stats.MaxDepth)
	fmt.Printf("diff:         %d ops in %s\n", stats.OpCount, diffElapsed)
	fmt.Printf("encode:       %d bytes in %s\n", stats.EncodedBytes, encodeElapsed)
	fmt.Printf("decode:       %s\n", decodeElapsed)
	fmt.Printf("apply:        %s\n", applyElapsed)
	fmt.Printf("op breakdown: %v\n", stats.CountByOpType)
	fmt.Printf("result size:  %d nodes (target had %d)\n", result.Size(), t2.Size())
}

func randomTree(rng *rand.Rand, approxNodes int) *arbor.AstTree {
	tree := arbor.NewAstTree()
	kinds := []arbor.AstNodeKind{
		arbor.KindCsgOp, arbor.KindPrimitive, arbor.KindTransform,
		arbor.KindParameter, arbor.KindGroup, arbor.KindMaterial, arbor.KindKeyframe,
	}
	parents := []arbor.NodeId{tree.Root()}
	for i := 0; i < approxNodes; i++ {
		parent := parents[rng.Intn(len(parents))]
		kind := kinds[rng.Intn(len(kinds))]
		label := fmt.Sprintf("%s-%d", kind, i)
		value := randomValue(rng)
		id, err := tree.AddNodeWithValue(kind, label, value, parent)
		if err != nil {
			continue
		}
		parents = append(parents, id)
	}
	return tree
}

func randomValue(rng *rand.Rand) arbor.NodeValue {
	switch rng.Intn(4) {
	case 0:
		return arbor.IntValue(rng.Int63n(1000))
	case 1:
		return arbor.FloatValue(rng.Float64() * 100)
	case 2:
		return arbor.TextValue(fmt.Sprintf("text-%d", rng.Intn(1000)))
	default:
		return arbor.NoneValue()
	}
}

func applyRandomEdits(rng *rand.Rand, tree *arbor.AstTree, edits int) {
	for i := 0; i < edits; i++ {
		ids := treeIds(tree)
		if len(ids) < 2 {
			return
		}
		switch rng.Intn(3) {
		case 0:
			id := ids[rng.Intn(len(ids))]
			if n, ok := tree.GetNode(id); ok && n.Id != tree.Root() {
				n.Value = randomValue(rng)
			}
		case 1:
			id := ids[rng.Intn(len(ids))]
			if n, ok := tree.GetNode(id); ok && n.Id != tree.Root() {
				_ = tree.RemoveSubtree(n.Id)
			}
		default:
			parent := ids[rng.Intn(len(ids))]
			_, _ = tree.AddNodeWithValue(arbor.KindPrimitive, fmt.Sprintf("added-%d", i), randomValue(rng), parent)
		}
	}
}

func treeIds(tree *arbor.AstTree) []arbor.NodeId {
	var out []arbor.NodeId
	var walk func(id arbor.NodeId)
	walk = func(id arbor.NodeId) {
		n, ok := tree.GetNode(id)
		if !ok {
			return
		}
		out = append(out, id)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(tree.Root())
	return out
}
