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

import "sort"

// GcResult reports the outcome of a mark-sweep pass: the total entries
// seen, how many were reachable, and which keys were (or would be, for
// DryRun) removed.
type GcResult struct {
	Total     int
	Reachable int
	Removed   []Hash
}

// RemovedCount is the number of entries removed (or, for DryRun, that
// would be removed).
func (r GcResult) RemovedCount() int { return len(r.Removed) }

// markReachable walks the transitive closure of roots through store,
// returning the set of reachable hashes.
func markReachable(store *SnapshotStore, roots []Hash) map[Hash]struct{} {
	reachable := make(map[Hash]struct{})
	queue := append([]Hash(nil), roots...)
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if _, seen := reachable[h]; seen {
			continue
		}
		reachable[h] = struct{}{}
		_, _, _, children, ok := store.Get(h)
		if !ok {
			continue
		}
		queue = append(queue, children...)
	}
	return reachable
}

// DryRun marks reachable hashes from roots without mutating store, and
// reports what would be removed.
func DryRun(store *SnapshotStore, roots []Hash) GcResult {
	reachable := markReachable(store, roots)
	all := store.Keys()
	var removed []Hash
	for _, h := range all {
		if _, ok := reachable[h]; !ok {
			removed = append(removed, h)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	store.metrics.IncGcRun()
	return GcResult{Total: len(all), Reachable: len(reachable), Removed: removed}
}

// CollectGarbage marks reachable hashes from roots and removes every
// unreachable store entry, returning what was removed.
func CollectGarbage(store *SnapshotStore, roots []Hash) GcResult {
	result := DryRun(store, roots)
	store.deleteMany(result.Removed)
	store.metrics.AddGcRemoved(len(result.Removed))
	return result
}
