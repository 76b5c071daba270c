package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/connmat/pkg/cache"
	"github.com/matzehuels/connmat/pkg/connectivity"
	"github.com/matzehuels/connmat/pkg/errors"
	"github.com/matzehuels/connmat/pkg/labels"
	"github.com/matzehuels/connmat/pkg/matrix"
	"github.com/matzehuels/connmat/pkg/observability"
	"github.com/matzehuels/connmat/pkg/pairs"
)

// Runner executes the pipeline with caching.
//
// A Runner holds no per-run state; the CLI and the HTTP server share one.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is how long built matrices stay cached. Zero uses [cache.TTLMatrix].
	TTL time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger discards all output.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute reads opts.InputPath, builds the matrix and writes it to
// opts.OutputPath.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	hooks := observability.Pipeline()

	// Stage 1: Read
	readStart := time.Now()
	hooks.OnReadStart(ctx, opts.InputPath)
	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInputAccess, err, "read %s", opts.InputPath)
		hooks.OnReadComplete(ctx, opts.InputPath, 0, time.Since(readStart), err)
		return nil, err
	}
	readTime := time.Since(readStart)
	logger.Debug("read input", "path", opts.InputPath, "bytes", len(data), "duration", readTime)

	// Stage 2: Build
	buildStart := time.Now()
	built, hash, hit, err := r.build(ctx, data, opts.BuildOptions(), opts.Refresh, logger)
	if err != nil {
		return nil, err
	}
	hooks.OnReadComplete(ctx, opts.InputPath, built.PairCount, readTime, nil)
	buildTime := time.Since(buildStart)
	hooks.OnBuildComplete(ctx, built.Size(), built.PairCount, buildTime)
	logger.Info("built matrix",
		"size", built.Size(),
		"pairs", built.PairCount,
		"cached", hit,
		"duration", buildTime)

	// Stage 3: Write
	writeStart := time.Now()
	hooks.OnWriteStart(ctx, opts.OutputPath, opts.Format)
	n, err := r.write(ctx, built, opts)
	writeTime := time.Since(writeStart)
	hooks.OnWriteComplete(ctx, opts.OutputPath, opts.Format, n, writeTime, err)
	if err != nil {
		return nil, err
	}
	logger.Info("wrote matrix", "path", opts.OutputPath, "format", opts.Format, "bytes", n)

	return &Result{
		Result:       built,
		InputHash:    hash,
		OutputPath:   opts.OutputPath,
		BytesWritten: n,
		CacheHit:     hit,
		Stats: Stats{
			ReadTime:  readTime,
			BuildTime: buildTime,
			WriteTime: writeTime,
		},
	}, nil
}

// Build tallies the edge list in data, consulting the cache first.
// It returns the result, the input hash and whether the cache was hit.
func (r *Runner) Build(ctx context.Context, data []byte, opts connectivity.Options) (*connectivity.Result, string, bool, error) {
	return r.build(ctx, data, opts, false, r.Logger)
}

func (r *Runner) build(ctx context.Context, data []byte, opts connectivity.Options, refresh bool, logger *log.Logger) (*connectivity.Result, string, bool, error) {
	hash := cache.Hash(data)
	key := r.Keyer.MatrixKey(hash, cache.MatrixKeyOpts{ZeroDiagonal: opts.ZeroDiagonal})
	hooks := observability.Cache()

	if !refresh {
		cached, hit, err := r.Cache.Get(ctx, key)
		switch {
		case err != nil:
			logger.Debug("cache get failed", "err", err)
		case hit:
			if res, err := decodeCached(cached, opts); err == nil {
				hooks.OnCacheHit(ctx, "matrix")
				return res, hash, true, nil
			}
			logger.Debug("discarding unreadable cache entry", "key", key)
		}
		hooks.OnCacheMiss(ctx, "matrix")
	}

	ps, err := pairs.Read(bytes.NewReader(data))
	if err != nil {
		return nil, "", false, err
	}
	res := connectivity.Build(ps, opts)

	if enc, err := encodeCached(res); err == nil {
		if err := r.Cache.Set(ctx, key, enc, r.ttl()); err != nil {
			logger.Debug("cache set failed", "err", err)
		} else {
			hooks.OnCacheSet(ctx, "matrix", len(enc))
		}
	}
	return res, hash, false, nil
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLMatrix
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// cachedResult is the cache envelope for a build.
type cachedResult struct {
	Labels    []uint64 `json:"labels"`
	Rows      [][]int  `json:"rows"`
	PairCount int      `json:"pair_count"`
	SelfPairs int      `json:"self_pairs"`
}

func encodeCached(res *connectivity.Result) ([]byte, error) {
	return json.Marshal(cachedResult{
		Labels:    res.Labels(),
		Rows:      res.Matrix.Rows(),
		PairCount: res.PairCount,
		SelfPairs: res.SelfPairs,
	})
}

func decodeCached(data []byte, opts connectivity.Options) (*connectivity.Result, error) {
	var c cachedResult
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	m, err := matrix.FromRows(c.Rows)
	if err != nil {
		return nil, err
	}
	ls := make([]pairs.Label, len(c.Labels))
	for i, l := range c.Labels {
		ls[i] = pairs.Label(l)
	}
	idx := labels.FromLabels(ls)
	if idx.Len() != m.Size() {
		return nil, fmt.Errorf("cached labels (%d) do not match matrix size (%d)", idx.Len(), m.Size())
	}
	return &connectivity.Result{
		Index:     idx,
		Matrix:    m,
		PairCount: c.PairCount,
		SelfPairs: c.SelfPairs,
		Options:   opts,
	}, nil
}
