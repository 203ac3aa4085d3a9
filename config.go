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
	"go.uber.org/zap"

	"github.com/arbor-vcs/arbor/metrics"
)

// Config carries a Repository's optional collaborators: a logger, a
// metrics recorder, and codec buffer sizing hints. Every field is
// optional and lazily defaulted, scoped per-Repository rather than
// process-global.
type Config struct {
	// Logger receives Debug events for commit, checkout, branch
	// creation and deletion, and merge; GC passes are not logged.
	// Defaults to a no-op logger.
	Logger *zap.SugaredLogger

	// Metrics receives counters/gauges for repository and store
	// operations. Defaults to nil, which is always safe to call into.
	Metrics *metrics.Recorder

	// CodecBufferHint is the expected average encoded size of one op,
	// in bytes, that Repository.EncodeDiff passes to EncodePatchHinted
	// to size its output buffer. Zero means "let the codec choose its
	// own default."
	CodecBufferHint int
}

// DefaultConfig returns a Config with a no-op logger and no metrics
// recorder, safe to use as-is.
func DefaultConfig() *Config {
	return &Config{
		Logger: newNopSugared(),
	}
}

func (c *Config) logger() *zap.SugaredLogger {
	if c == nil || c.Logger == nil {
		return newNopSugared()
	}
	return c.Logger
}

func (c *Config) metricsRecorder() *metrics.Recorder {
	if c == nil {
		return nil
	}
	return c.Metrics
}

func (c *Config) codecBufferHint() int {
	if c == nil {
		return 0
	}
	return c.CodecBufferHint
}
