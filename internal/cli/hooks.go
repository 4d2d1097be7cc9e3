package cli

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports pipeline and cache events to the CLI logger and feeds
// build progress to an optional callback, such as a spinner.
type logHooks struct {
	logger     *log.Logger
	onProgress func(done, total int)

	mu    sync.Mutex
	total int
	done  int
}

func (h *logHooks) OnConvertStart(_ context.Context, concepts int, allConcepts bool) {
	h.mu.Lock()
	h.total, h.done = 1, 0
	if allConcepts {
		h.total = concepts
	}
	h.mu.Unlock()
	h.logger.Debug("converting", "concepts", concepts, "all", allConcepts)
}

func (h *logHooks) OnConvertComplete(_ context.Context, trees int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("conversion failed", "error", err, "elapsed", d.Round(time.Millisecond))
		return
	}
	h.logger.Debug("conversion complete", "trees", trees, "elapsed", d.Round(time.Millisecond))
}

func (h *logHooks) OnBuildStart(_ context.Context, rootID string) {
	h.logger.Debug("building tree", "root", rootID)
}

func (h *logHooks) OnBuildComplete(_ context.Context, rootID string, nodes int, d time.Duration, err error) {
	h.mu.Lock()
	h.done++
	done, total := h.done, h.total
	h.mu.Unlock()

	if err != nil {
		h.logger.Debug("tree failed", "root", rootID, "error", err)
	} else {
		h.logger.Debug("built tree", "root", rootID, "nodes", nodes, "elapsed", d.Round(time.Microsecond))
	}
	if h.onProgress != nil {
		h.onProgress(done, total)
	}
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
