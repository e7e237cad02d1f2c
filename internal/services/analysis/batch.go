package analysis

import (
	"context"
	"time"

	"github.com/google/uuid"

	"aperture/internal/adapters/ai"
	"aperture/internal/domain/photo"
	"aperture/internal/metrics"
	"aperture/pkg/logger"
)

const (
	defaultBatchSize    = 5
	defaultRequestDelay = time.Second
)

// Photo is one batch item: raw image bytes plus optional host context.
type Photo struct {
	Image    []byte
	MIMEType string
	Context  photo.Context
}

// ProgressFunc is invoked after every analyzed photo, success or failure,
// so callers can render progress under partial failure.
type ProgressFunc func(completed, total int)

// BatchScheduler runs the engine over many photos with inter-request pacing
// to stay under upstream rate limits. Photos are processed strictly
// sequentially, in fixed-size groups, with no parallel in-flight requests
// to the provider.
type BatchScheduler struct {
	engine   *Engine
	settings SettingsSource
	sleep    func(time.Duration)
	log      *logger.Logger
}

// NewBatchScheduler creates a scheduler sharing the engine's settings
// source. Batch size and delay are read at call time.
func NewBatchScheduler(engine *Engine, settings SettingsSource) *BatchScheduler {
	return &BatchScheduler{
		engine:   engine,
		settings: settings,
		sleep:    time.Sleep,
		log:      logger.Get().With("component", "batch_scheduler"),
	}
}

// AnalyzeBatch analyzes every photo in input order and returns one result
// per photo, in the same order. A failure on one photo never aborts the
// batch; the corresponding slot holds a failed result. A pacing delay is
// inserted after every photo except the very last overall.
func (s *BatchScheduler) AnalyzeBatch(ctx context.Context, photos []Photo, progress ProgressFunc) []*ai.Result {
	set := s.settings.Current()

	size := set.BatchSize
	if size < 1 {
		size = defaultBatchSize
	}
	delay := set.RequestDelay
	if delay < 0 {
		delay = defaultRequestDelay
	}

	total := len(photos)
	results := make([]*ai.Result, 0, total)

	batchID := uuid.NewString()
	log := s.log.With("batch_id", batchID, "total", total, "group_size", size)
	log.Infow("batch started", "provider", set.Provider, "delay", delay.String())

	start := time.Now()
	succeeded := 0

	for groupStart := 0; groupStart < total; groupStart += size {
		groupEnd := groupStart + size
		if groupEnd > total {
			groupEnd = total
		}

		for i := groupStart; i < groupEnd; i++ {
			item := photos[i]
			res := s.engine.Analyze(ctx, item.Image, item.MIMEType, item.Context)
			results = append(results, res)

			if res.Succeeded {
				succeeded++
				metrics.BatchPhotos.WithLabelValues("succeeded").Inc()
			} else {
				metrics.BatchPhotos.WithLabelValues("failed").Inc()
				log.Warnw("photo failed", "index", i, "message", res.ErrorMessage)
			}

			if progress != nil {
				progress(i+1, total)
			}

			if i < total-1 && delay > 0 {
				s.sleep(delay)
			}
		}
	}

	metrics.BatchDuration.Observe(time.Since(start).Seconds())
	log.Infow("batch finished",
		"succeeded", succeeded,
		"failed", total-succeeded,
		"duration", time.Since(start).String(),
	)

	return results
}
