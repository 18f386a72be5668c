package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnResolve(_ context.Context, labelSize string, err error) {
	if err != nil {
		h.logger.Warn("resolve failed", "size", labelSize, "err", err)
		return
	}
	h.logger.Debug("resolved", "size", labelSize)
}

func (h *LogHooks) OnRender(_ context.Context, labelSize string, width, height int, d time.Duration) {
	h.logger.Debug("rendered", "size", labelSize, "width", width, "height", height, "duration", d)
}

func (h *LogHooks) OnPrint(_ context.Context, jobID, labelSize string, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("print failed", "job", jobID, "size", labelSize, "err", err)
		return
	}
	h.logger.Info("printed", "job", jobID, "size", labelSize, "duration", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
