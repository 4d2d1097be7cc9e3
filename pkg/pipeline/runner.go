package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cmaptree/pkg/cache"
	"github.com/matzehuels/cmaptree/pkg/cmap"
	"github.com/matzehuels/cmaptree/pkg/errors"
	pkgio "github.com/matzehuels/cmaptree/pkg/io"
	"github.com/matzehuels/cmaptree/pkg/observability"
	"github.com/matzehuels/cmaptree/pkg/outline"
)

// cacheKeyType labels outline entries in cache hook events.
const cacheKeyType = "outline"

// Runner encapsulates conversion with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If logger is nil, log.Default() is used.
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

// Convert reduces m to outline trees.
//
// In single-root mode the root comes from [cmap.SelectRoot]; an unknown
// requested id is logged as a warning and automatic detection is used
// instead. In all-concepts mode every concept is used as a root, builds
// run in parallel on up to opts.Workers goroutines, and a root whose build
// fails is logged and skipped. Cancelling ctx stops scheduling new builds
// and makes Convert return the context error.
//
// A map without concepts yields an EMPTY_MAP error.
func (r *Runner) Convert(ctx context.Context, m *cmap.Map, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if m.Empty() {
		return nil, errors.Wrap(errors.ErrCodeEmptyMap, cmap.ErrNoConcepts, "nothing to convert")
	}

	start := time.Now()
	hooks := observability.Pipeline()
	hooks.OnConvertStart(ctx, len(m.Concepts), opts.AllConcepts)

	mapHash, err := MapHash(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash concept map")
	}
	key := r.Keyer.OutlineKey(mapHash, opts.KeyOpts())

	if !opts.Refresh {
		if res, ok := r.load(ctx, key); ok {
			res.CacheHit = true
			res.Stats.Duration = time.Since(start)
			r.warnUnknownRoot(opts.RootID, res.Selection)
			r.Logger.Debug("outline cache hit", "map", mapHash[:12], "trees", len(res.Trees))
			hooks.OnConvertComplete(ctx, len(res.Trees), res.Stats.Duration, nil)
			return res, nil
		}
	}

	idx := cmap.NewIndex(m)
	b := cmap.NewBuilder(idx, opts.buildOptions()...)
	res := &Result{
		MapHash: mapHash,
		Stats: Stats{
			Concepts:    idx.Len(),
			Phrases:     idx.PhraseCount(),
			Connections: len(m.Connections),
		},
	}
	r.Logger.Debug("indexed concept map",
		"concepts", res.Stats.Concepts,
		"phrases", res.Stats.Phrases,
		"connections", res.Stats.Connections)

	if opts.AllConcepts {
		err = r.convertAll(ctx, idx, b, opts, res)
	} else {
		err = r.convertOne(ctx, m, b, opts, res)
	}
	res.Stats.Duration = time.Since(start)
	hooks.OnConvertComplete(ctx, len(res.Trees), res.Stats.Duration, err)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, res)
	return res, nil
}

func (r *Runner) convertOne(ctx context.Context, m *cmap.Map, b *cmap.Builder, opts Options, res *Result) error {
	sel, err := cmap.SelectRoot(m, opts.RootID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEmptyMap, err, "select root")
	}
	r.warnUnknownRoot(opts.RootID, &sel)
	r.Logger.Debug("selected root", "id", sel.ID, "reason", sel.Reason, "candidates", len(sel.Candidates))
	res.Selection = &sel

	t, stats, err := r.build(ctx, b, sel.ID)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRootNotFound, err, "build tree for %q", sel.ID)
	}
	res.Trees = []outline.Tree{t}
	res.Stats.add(stats)
	return nil
}

// warnUnknownRoot logs the fallback when the requested root is not a
// concept of the map. Cached results carry the selection, so hits warn too.
func (r *Runner) warnUnknownRoot(requested string, sel *cmap.Selection) {
	if sel == nil || !sel.RequestedUnknown {
		return
	}
	r.Logger.Warn("requested root not found, using detected root",
		"requested", requested, "root", sel.ID, "reason", sel.Reason)
}

func (r *Runner) convertAll(ctx context.Context, idx *cmap.Index, b *cmap.Builder, opts Options, res *Result) error {
	ids := idx.ConceptIDs()
	trees := make([]*outline.Tree, len(ids))

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i, id := range ids {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			t, stats, err := r.build(gctx, b, id)
			if err != nil {
				r.Logger.Warn("skipping root", "id", id, "error", err)
				return nil
			}
			trees[i] = &t

			mu.Lock()
			res.Stats.add(stats)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	res.Trees = make([]outline.Tree, 0, len(ids))
	for _, t := range trees {
		if t == nil {
			res.Stats.Skipped++
			continue
		}
		res.Trees = append(res.Trees, *t)
	}
	r.Logger.Debug("built all trees", "trees", len(res.Trees), "skipped", res.Stats.Skipped, "workers", opts.Workers)
	return nil
}

func (r *Runner) build(ctx context.Context, b *cmap.Builder, rootID string) (outline.Tree, cmap.BuildStats, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, rootID)
	start := time.Now()

	root, stats, err := b.BuildWithStats(rootID)
	hooks.OnBuildComplete(ctx, rootID, stats.Nodes, time.Since(start), err)
	if err != nil {
		return outline.Tree{}, stats, err
	}
	if stats.Truncated {
		r.Logger.Debug("tree truncated by limits", "root", rootID, "nodes", stats.Nodes, "depth", stats.Depth)
	}
	return outline.NewTree(root), stats, nil
}

func (s *Stats) add(b cmap.BuildStats) {
	s.Trees++
	s.Nodes += b.Nodes
	if b.Depth > s.Depth {
		s.Depth = b.Depth
	}
	if b.Truncated {
		s.Truncated++
	}
}

// load returns a cached result for key. Undecodable entries count as misses.
func (r *Runner) load(ctx context.Context, key string) (*Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache read failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(data, &res); err != nil {
		observability.Cache().OnCacheMiss(ctx, cacheKeyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, cacheKeyType)
	return &res, true
}

// store caches res. Failures only cost a recomputation next time, so they
// are logged and otherwise ignored.
func (r *Runner) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		r.Logger.Debug("cache encode failed", "error", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLOutline); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, cacheKeyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// MapHash returns the content hash of m, computed over its JSON encoding.
// Maps that differ only in record order hash differently, since order
// decides root selection and child order.
func MapHash(m *cmap.Map) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(m, &buf); err != nil {
		return "", err
	}
	return cache.Hash(buf.Bytes()), nil
}
