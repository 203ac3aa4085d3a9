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

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// Hash is a 64-bit FNV-1a digest over a node's canonical byte
// encoding, recursively folding in child hashes. Two subtrees with
// equal shape and content anywhere have equal hashes there.
type Hash uint64

func (h Hash) String() string { return fmt.Sprintf("%016x", uint64(h)) }

// fnvOffsetBasis and fnvPrime are the standard FNV-1a 64-bit constants.
// hash/fnv's New64a implements exactly this algorithm, so
// canonicalNodeBytes is fed straight into it rather than a hand-rolled
// loop; the constants are recorded here only to document the digest
// format callers outside this package can rely on, not because the
// stdlib hasher needs them.
const (
	fnvOffsetBasis uint64 = 0xcbf29ce484222325
	fnvPrime       uint64 = 0x100000001b3
)

// canonicalNodeBytes writes the canonical byte sequence for one node:
// kind byte, varint-prefixed label, value tag+payload, then varint
// child count followed by each child hash as 8 bytes LE.
func canonicalNodeBytes(kind AstNodeKind, label string, value NodeValue, childHashes []Hash) []byte {
	buf := make([]byte, 0, 16+len(label)+8*len(childHashes))
	buf = append(buf, byte(kind))
	buf = appendVarint(buf, uint64(len(label)))
	buf = append(buf, label...)
	buf = appendValue(buf, value)
	buf = appendVarint(buf, uint64(len(childHashes)))
	for _, h := range childHashes {
		var b [8]byte
		binary.LittleEndian.PutUint64(b[:], uint64(h))
		buf = append(buf, b[:]...)
	}
	return buf
}

// hashNodeBytes folds the canonical byte sequence through FNV-1a
// 64-bit (hash/fnv.New64a already uses fnvOffsetBasis and fnvPrime).
func hashNodeBytes(b []byte) Hash {
	h := fnv.New64a()
	_, _ = h.Write(b) // fnv.digest.Write never errors
	return Hash(h.Sum64())
}

// HashNode hashes a single node given its already-computed child
// hashes, in child order.
func HashNode(kind AstNodeKind, label string, value NodeValue, childHashes []Hash) Hash {
	return hashNodeBytes(canonicalNodeBytes(kind, label, value, childHashes))
}

// HashTree computes the Merkle hash of tree's Root by hashing
// bottom-up from the leaves.
func HashTree(t *AstTree) Hash {
	var walk func(id NodeId) Hash
	walk = func(id NodeId) Hash {
		n, ok := t.GetNode(id)
		if !ok {
			return Hash(fnvOffsetBasis)
		}
		childHashes := make([]Hash, len(n.Children))
		for i, c := range n.Children {
			childHashes[i] = walk(c)
		}
		return HashNode(n.Kind, n.Label, n.Value, childHashes)
	}
	return walk(t.Root())
}
