// Package analyze orchestrates a full classification run: batching the
// deduplicated creator list, fanning batches out over a bounded worker
// pool, and funneling brand claims through one shared resolver.
package analyze

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/brandlens/brandlens/internal/brand"
	"github.com/brandlens/brandlens/internal/classify"
	"github.com/brandlens/brandlens/internal/model"
	"github.com/brandlens/brandlens/pkg/profile"
)

// Progress reports accumulated results after each batch completes.
// Completion order, not submission order, drives reporting.
type Progress struct {
	Completed int // creators with results so far
	Total     int // creators submitted
	Batches   int // batches finished
}

// ProgressFunc receives progress updates from the orchestrator.
type ProgressFunc func(Progress)

// LogFunc receives human-readable run log lines.
type LogFunc func(string)

// Config tunes batching and concurrency.
type Config struct {
	BatchSize   int           // creators per batch; default 35
	MaxWorkers  int           // concurrent batches; default 7
	SubmitDelay time.Duration // pause between batch submissions; default 1s
	RatePerSec  float64       // LLM submission rate; default 10
	RateBurst   int           // LLM submission burst; default 5
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 35
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 7
	}
	if c.SubmitDelay <= 0 {
		c.SubmitDelay = time.Second
	}
	if c.RatePerSec <= 0 {
		c.RatePerSec = 10
	}
	if c.RateBurst <= 0 {
		c.RateBurst = 5
	}
	return c
}

// Orchestrator runs enrichment and classification over creator batches.
type Orchestrator struct {
	engine   *classify.Engine
	profiles profile.Client
	cfg      Config
	limiter  *rate.Limiter
}

// New creates an orchestrator. The profile client may be nil, which skips
// enrichment entirely.
func New(engine *classify.Engine, profiles profile.Client, cfg Config) *Orchestrator {
	cfg = cfg.withDefaults()
	return &Orchestrator{
		engine:   engine,
		profiles: profiles,
		cfg:      cfg,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.RateBurst),
	}
}

// Run processes all creators and returns the collected results. A single
// creator's failure is logged and skipped. Cancelling the context stops new
// batch submissions; in-flight batches drain, and the context error is
// returned alongside the partial results.
func (o *Orchestrator) Run(ctx context.Context, creators []model.CreatorRecord, onProgress ProgressFunc, logf LogFunc) ([]*model.ClassificationResult, error) {
	if logf == nil {
		logf = func(string) {}
	}
	if onProgress == nil {
		onProgress = func(Progress) {}
	}

	total := len(creators)
	resolver := brand.NewResolver()

	var (
		mu      sync.Mutex
		results []*model.ClassificationResult
		batches int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.MaxWorkers)

	logf(fmt.Sprintf("Processing %d creators in batches of %d with %d workers", total, o.cfg.BatchSize, o.cfg.MaxWorkers))

	submitted := 0
	for start := 0; start < total; start += o.cfg.BatchSize {
		if ctx.Err() != nil {
			logf("Run cancelled, no further batches submitted")
			break
		}

		end := start + o.cfg.BatchSize
		if end > total {
			end = total
		}
		batch := creators[start:end]
		submitted += len(batch)

		g.Go(func() error {
			batchResults := o.processBatch(gctx, batch, resolver, logf)

			mu.Lock()
			results = append(results, batchResults...)
			batches++
			p := Progress{Completed: len(results), Total: total, Batches: batches}
			mu.Unlock()

			onProgress(p)
			logf(fmt.Sprintf("Batch complete: %d/%d creators processed", p.Completed, p.Total))
			return nil
		})

		// throttle burst load on the external APIs between submissions
		if end < total {
			select {
			case <-time.After(o.cfg.SubmitDelay):
			case <-ctx.Done():
			}
		}
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// processBatch runs enrichment and classification for each creator in the
// batch. Failures are per-creator: logged, then skipped.
func (o *Orchestrator) processBatch(ctx context.Context, batch []model.CreatorRecord, resolver *brand.Resolver, logf LogFunc) []*model.ClassificationResult {
	results := make([]*model.ClassificationResult, 0, len(batch))

	for _, creator := range batch {
		if ctx.Err() != nil {
			return results
		}

		enriched := o.enrich(ctx, creator)

		if err := o.limiter.Wait(ctx); err != nil {
			return results
		}

		res, err := o.engine.Classify(ctx, enriched)
		if err != nil {
			zap.L().Warn("creator classification failed, skipping",
				zap.String("unique_id", creator.UniqueID),
				zap.Error(err),
			)
			logf(fmt.Sprintf("Failed to process %s, skipped", creator.UniqueID))
			continue
		}

		resolver.Claim(res)
		results = append(results, res)
	}

	return results
}

// enrich merges profile-API fields into the record. A failed fetch leaves
// the record as ingested; an empty bio falls back to the display name.
func (o *Orchestrator) enrich(ctx context.Context, creator model.CreatorRecord) model.CreatorRecord {
	if o.profiles != nil {
		p, err := o.profiles.FetchProfile(ctx, creator.UniqueID)
		if err == nil {
			if p.Signature != "" {
				creator.Signature = p.Signature
			}
			if p.FollowerCount > 0 {
				creator.FollowerCount = p.FollowerCount
			}
			if p.FollowingCount > 0 {
				creator.FollowingCount = p.FollowingCount
			}
			if p.VideoCount > 0 {
				creator.VideoCount = p.VideoCount
			}
			if creator.AvatarURL == "" {
				creator.AvatarURL = p.AvatarURL
			}
		}
	}

	if creator.Signature == "" {
		creator.Signature = "Creator: " + creator.Nickname
	}
	return creator
}
