package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// Failures are logged at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, or to the default logger
// when logger is nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) done(msg string, d time.Duration, err error, kv ...any) {
	kv = append(kv, "duration", d.Round(time.Millisecond))
	if err != nil {
		h.Logger.Warn(msg+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(msg, kv...)
}

func (h *LogHooks) OnLoadStart(_ context.Context, input string) {
	h.Logger.Debug("loading", "input", input)
}

func (h *LogHooks) OnLoadComplete(_ context.Context, input string, placemarks int, d time.Duration, err error) {
	h.done("loaded", d, err, "input", input, "placemarks", placemarks)
}

func (h *LogHooks) OnConvertComplete(_ context.Context, crs string, placemarks int, d time.Duration, err error) {
	h.done("converted drawing", d, err, "crs", crs, "placemarks", placemarks)
}

func (h *LogHooks) OnExportStart(_ context.Context, mode string, placemarks int) {
	h.Logger.Debug("exporting", "mode", mode, "placemarks", placemarks)
}

func (h *LogHooks) OnExportComplete(_ context.Context, mode string, archives int, d time.Duration, err error) {
	h.done("exported", d, err, "mode", mode, "archives", archives)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
