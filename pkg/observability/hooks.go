// Package observability lets kmltool report what its pipeline is doing
// without tying the core packages to a particular backend.
//
// The pipeline and the conversion cache call the hooks registered here.
// By default every hook is a no-op. The CLI installs [LogHooks] in verbose
// mode; other programs embedding the pipeline may register their own:
//
//	observability.SetPipelineHooks(observability.NewLogHooks(logger))
//	observability.SetCacheHooks(myMetrics)
//
// Emitting an event from a library looks like this:
//
//	start := time.Now()
//	observability.Pipeline().OnLoadStart(ctx, path)
//	tree, err := load(path)
//	observability.Pipeline().OnLoadComplete(ctx, path, placemarks, time.Since(start), err)
//
// Registration is safe for concurrent use but meant to happen once, before
// the first pipeline run.
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from loading, converting and exporting.
type PipelineHooks interface {
	// OnLoadStart and OnLoadComplete bracket reading a KML, KMZ or DXF input.
	OnLoadStart(ctx context.Context, input string)
	OnLoadComplete(ctx context.Context, input string, placemarks int, duration time.Duration, err error)

	// OnConvertComplete fires after a drawing was converted and reprojected.
	// Cache hits skip it.
	OnConvertComplete(ctx context.Context, crs string, placemarks int, duration time.Duration, err error)

	// OnExportStart and OnExportComplete bracket flattening, splitting,
	// packaging and writing the archives.
	OnExportStart(ctx context.Context, mode string, placemarks int)
	OnExportComplete(ctx context.Context, mode string, archives int, duration time.Duration, err error)
}

// CacheHooks receives conversion cache lookups and writes. keyType names
// the kind of entry, currently always "convert".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPipelineHooks ignores every pipeline event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                  {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnConvertComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnExportStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnExportComplete(context.Context, string, int, time.Duration, error)  {}

// NoopCacheHooks ignores every cache event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// registry holds the installed hooks.
type registry struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
}

var hooks = registry{pipeline: NoopPipelineHooks{}, cache: NoopCacheHooks{}}

// SetPipelineHooks installs h. A nil h leaves the current hooks in place.
func SetPipelineHooks(h PipelineHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.pipeline = h
	hooks.mu.Unlock()
}

// SetCacheHooks installs h. A nil h leaves the current hooks in place.
func SetCacheHooks(h CacheHooks) {
	if h == nil {
		return
	}
	hooks.mu.Lock()
	hooks.cache = h
	hooks.mu.Unlock()
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.pipeline
}

// Cache returns the installed cache hooks.
func Cache() CacheHooks {
	hooks.mu.RLock()
	defer hooks.mu.RUnlock()
	return hooks.cache
}

// Reset reinstalls the no-op hooks.
func Reset() {
	hooks.mu.Lock()
	hooks.pipeline = NoopPipelineHooks{}
	hooks.cache = NoopCacheHooks{}
	hooks.mu.Unlock()
}
