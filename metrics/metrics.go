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

// Package metrics instruments arbor's repository, store, and GC
// operations with Prometheus collectors.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Recorder wraps a set of Prometheus collectors. A nil *Recorder is
// always safe to call into: every method no-ops, so callers that never
// configure a Recorder pay no instrumentation cost and need no nil
// checks of their own.
type Recorder struct {
	registry *prometheus.Registry

	commitsTotal        prometheus.Counter
	diffOpsTotal        *prometheus.CounterVec
	mergeConflictsTotal prometheus.Counter
	gcRunsTotal         prometheus.Counter
	gcRemovedTotal      prometheus.Counter
	storeSize           prometheus.Gauge
	patchEncodeBytes    prometheus.Histogram
}

// NewRecorder returns a Recorder backed by a fresh registry. Pass the
// result's Registry() to an HTTP handler to expose it.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		commitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_commits_total",
			Help: "Number of commits recorded.",
		}),
		diffOpsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arbor_diff_ops_total",
			Help: "Number of diff ops emitted, labeled by op type.",
		}, []string{"op_type"}),
		mergeConflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_merge_conflicts_total",
			Help: "Number of node-level merge conflicts detected.",
		}),
		gcRunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_gc_runs_total",
			Help: "Number of garbage collection passes run.",
		}),
		gcRemovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "arbor_gc_removed_total",
			Help: "Number of store entries removed by garbage collection.",
		}),
		storeSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "arbor_store_size",
			Help: "Current number of entries in the snapshot store.",
		}),
		patchEncodeBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "arbor_patch_encode_bytes",
			Help:    "Encoded size in bytes of patches produced by the codec.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 12),
		}),
	}
	reg.MustRegister(
		r.commitsTotal,
		r.diffOpsTotal,
		r.mergeConflictsTotal,
		r.gcRunsTotal,
		r.gcRemovedTotal,
		r.storeSize,
		r.patchEncodeBytes,
	)
	return r
}

// Registry returns the underlying Prometheus registry, or nil for a
// nil Recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) IncCommit() {
	if r == nil {
		return
	}
	r.commitsTotal.Inc()
}

func (r *Recorder) AddDiffOp(opType string) {
	if r == nil {
		return
	}
	r.diffOpsTotal.WithLabelValues(opType).Inc()
}

func (r *Recorder) IncMergeConflict() {
	if r == nil {
		return
	}
	r.mergeConflictsTotal.Inc()
}

func (r *Recorder) IncGcRun() {
	if r == nil {
		return
	}
	r.gcRunsTotal.Inc()
}

func (r *Recorder) AddGcRemoved(n int) {
	if r == nil {
		return
	}
	r.gcRemovedTotal.Add(float64(n))
}

func (r *Recorder) SetStoreSize(n int) {
	if r == nil {
		return
	}
	r.storeSize.Set(float64(n))
}

func (r *Recorder) ObservePatchEncodeBytes(n int) {
	if r == nil {
		return
	}
	r.patchEncodeBytes.Observe(float64(n))
}
