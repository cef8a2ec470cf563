package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/kmltool/pkg/cache"
	"github.com/matzehuels/kmltool/pkg/convert"
	apperr "github.com/matzehuels/kmltool/pkg/errors"
	"github.com/matzehuels/kmltool/pkg/export"
	"github.com/matzehuels/kmltool/pkg/index"
	kmlio "github.com/matzehuels/kmltool/pkg/io"
	"github.com/matzehuels/kmltool/pkg/kml"
	"github.com/matzehuels/kmltool/pkg/observability"
	"github.com/matzehuels/kmltool/pkg/session"
)

// cacheKeyType labels conversion entries in cache hook events.
const cacheKeyType = "convert"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store sessions or results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL is the lifetime of cached conversions, cache.DefaultTTL when zero.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute loads opts.Input and exports it to opts.Output.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	loadStart := time.Now()
	sess, hit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer sess.Release()
	loadTime := time.Since(loadStart)

	result, err := r.Export(ctx, sess, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.LoadTime = loadTime
	result.CacheHit = hit
	return result, nil
}

// LoadWithCacheInfo opens the input and reports whether a drawing
// conversion came from the cache. The caller must release the session.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*session.Session, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, opts.Input)
	start := time.Now()

	sess, hit, err := r.load(ctx, opts)

	placemarks := 0
	if err == nil {
		placemarks = sess.Tree().Stats().Placemarks
	}
	hooks.OnLoadComplete(ctx, opts.Input, placemarks, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	r.logger(opts).Info("loaded document",
		"input", opts.Input,
		"placemarks", placemarks,
		"cached", hit,
		"duration", time.Since(start))
	return sess, hit, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*session.Session, error) {
	sess, _, err := r.LoadWithCacheInfo(ctx, opts)
	return sess, err
}

func (r *Runner) load(ctx context.Context, opts Options) (*session.Session, bool, error) {
	kind, _ := InputKind(opts.Input)
	if kind != KindDXF {
		sess, err := session.Open(opts.Input)
		return sess, false, err
	}
	tree, hit, err := r.Convert(ctx, opts)
	if err != nil {
		return nil, false, err
	}
	return session.FromTree(tree, opts.Input), hit, nil
}

// Convert converts the drawing at opts.Input, using the cache unless
// opts.NoCache is set.
func (r *Runner) Convert(ctx context.Context, opts Options) (*kml.Tree, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}

	var key string
	if !opts.NoCache {
		hash, err := cache.HashFile(opts.Input)
		if err != nil {
			return nil, false, apperr.Import(err, "could not import DXF file %s", opts.Input)
		}
		key = r.Keyer.ConversionKey(hash, opts.ConversionKeyOpts())
		if tree, ok := r.cached(ctx, key); ok {
			return tree, true, nil
		}
	}

	start := time.Now()
	tree, err := convert.File(opts.Input, convert.Options{SourceCRS: opts.SourceCRS})
	placemarks := 0
	if err == nil {
		placemarks = tree.Stats().Placemarks
	}
	observability.Pipeline().OnConvertComplete(ctx, opts.SourceCRS, placemarks, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if key != "" {
		r.store(ctx, key, tree)
	}
	return tree, false, nil
}

// cached returns the conversion stored under key. Unreadable entries count
// as misses.
func (r *Runner) cached(ctx context.Context, key string) (*kml.Tree, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err == nil && hit {
		tree, err := kmlio.UnmarshalKML(data)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, cacheKeyType)
			return tree, true
		}
		r.Logger.Debug("discarding unreadable cache entry", "err", err)
	}
	observability.Cache().OnCacheMiss(ctx, cacheKeyType)
	return nil, false
}

func (r *Runner) store(ctx context.Context, key string, tree *kml.Tree) {
	data, err := kmlio.MarshalKML(tree)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
		r.Logger.Debug("could not cache conversion", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Export writes the session's tree as configured by opts.
func (r *Runner) Export(ctx context.Context, sess *session.Session, opts Options) (*Result, error) {
	if err := opts.ValidateForExport(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tree := sess.Tree()
	if opts.Region != "" {
		b, _ := index.ParseBounds(opts.Region)
		region, n := index.Region(tree, b)
		if n == 0 {
			return nil, apperr.New(apperr.ErrCodeInvalidInput, "no placemarks inside %s", b)
		}
		r.logger(opts).Info("selected region", "bounds", b, "placemarks", n)
		tree = region
	}

	src := sess.ExportSource()
	if !src.Packaged && opts.DocName != "" {
		src.DocPath = opts.DocName
	}
	exp := &export.Exporter{Threshold: opts.Threshold, Source: src, Logger: r.logger(opts)}

	stats := tree.Stats()
	hooks := observability.Pipeline()
	hooks.OnExportStart(ctx, opts.Mode, stats.Placemarks)
	start := time.Now()

	archives, err := r.archives(exp, tree, opts)
	var files []string
	if err == nil {
		files, err = export.WriteArchives(opts.Output, archives)
	}
	hooks.OnExportComplete(ctx, opts.Mode, len(files), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Files: files,
		Stats: Stats{
			Placemarks: stats.Placemarks,
			Styles:     stats.StyleSelectors(),
			Archives:   len(archives),
			ExportTime: time.Since(start),
		},
	}
	for _, a := range archives {
		result.Stats.Bytes += len(a.Data)
	}

	r.logger(opts).Info("exported archives",
		"mode", opts.Mode,
		"files", len(files),
		"bytes", result.Stats.Bytes,
		"duration", result.Stats.ExportTime)
	return result, nil
}

func (r *Runner) archives(exp *export.Exporter, tree *kml.Tree, opts Options) ([]export.Archive, error) {
	if opts.IsMaps() {
		return exp.Split(tree)
	}
	data, err := exp.Single(tree)
	if err != nil {
		return nil, err
	}
	return []export.Archive{{Index: 0, Data: data, Placemarks: tree.Stats().Placemarks}}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}

func (r *Runner) ttl() time.Duration {
	if r.TTL <= 0 {
		return cache.DefaultTTL
	}
	return r.TTL
}
