// Package analytics records the search terms users issue so merchandising
// reports can see what shoppers look for and whether the cache answered.
// Recording is strictly best-effort: a full buffer or a failed insert never
// touches the serving path.
package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SearchEvent is one recorded search.
type SearchEvent struct {
	EventID    string    `bigquery:"event_id"`
	Term       string    `bigquery:"term"`
	Hits       int       `bigquery:"hits"`
	CacheHit   bool      `bigquery:"cache_hit"`
	SearchedAt time.Time `bigquery:"searched_at"`
}

// Recorder accepts search events. Implementations must never block the
// caller.
type Recorder interface {
	Record(event SearchEvent)
}

// NopRecorder discards every event. It is the default when analytics is not
// configured.
type NopRecorder struct{}

// Record discards the event.
func (NopRecorder) Record(_ SearchEvent) {}

// BatchSink is the destination a BatchRecorder flushes to.
type BatchSink interface {
	InsertBatch(ctx context.Context, events []*SearchEvent) error
	Close() error
}

// BatchRecorderConfig holds configuration for the BatchRecorder.
type BatchRecorderConfig struct {
	BatchSize     int
	FlushInterval time.Duration
	// InsertTimeout bounds a single flush to the sink.
	InsertTimeout time.Duration
}

// DefaultBatchRecorderConfig returns sensible defaults for search volumes.
func DefaultBatchRecorderConfig() *BatchRecorderConfig {
	return &BatchRecorderConfig{
		BatchSize:     50,
		FlushInterval: 10 * time.Second,
		InsertTimeout: 30 * time.Second,
	}
}

// BatchRecorder collects search events into batches and flushes them to a
// sink on size or interval, whichever comes first.
type BatchRecorder struct {
	config    *BatchRecorderConfig
	sink      BatchSink
	logger    zerolog.Logger
	inputChan chan *SearchEvent
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

// NewBatchRecorder creates a BatchRecorder over the given sink.
func NewBatchRecorder(config *BatchRecorderConfig, sink BatchSink, logger zerolog.Logger) *BatchRecorder {
	return &BatchRecorder{
		config:    config,
		sink:      sink,
		logger:    logger.With().Str("component", "BatchRecorder").Logger(),
		inputChan: make(chan *SearchEvent, config.BatchSize*2),
	}
}

// Record enqueues the event. When the buffer is full the event is dropped:
// analytics must never apply backpressure to searches.
func (b *BatchRecorder) Record(event SearchEvent) {
	select {
	case b.inputChan <- &event:
	default:
		b.logger.Warn().Str("term", event.Term).Msg("Analytics buffer full, dropping search event.")
	}
}

// Observer adapts the recorder to the fetcher's search hook, stamping each
// observation with a fresh event ID and timestamp.
func (b *BatchRecorder) Observer() func(term string, hits int, cacheHit bool) {
	return func(term string, hits int, cacheHit bool) {
		b.Record(SearchEvent{
			EventID:    uuid.NewString(),
			Term:       term,
			Hits:       hits,
			CacheHit:   cacheHit,
			SearchedAt: time.Now().UTC(),
		})
	}
}

// Start begins the batching worker.
func (b *BatchRecorder) Start(ctx context.Context) {
	b.logger.Info().
		Int("batch_size", b.config.BatchSize).
		Dur("flush_interval", b.config.FlushInterval).
		Msg("Starting analytics batching worker...")
	b.wg.Add(1)
	go b.worker(ctx)
}

// Stop drains the buffer and shuts the worker down, respecting the context's
// deadline. Subsequent calls are no-ops.
func (b *BatchRecorder) Stop(ctx context.Context) error {
	var err error
	b.stopOnce.Do(func() {
		err = b.stop(ctx)
	})
	return err
}

func (b *BatchRecorder) stop(ctx context.Context) error {
	b.logger.Info().Msg("Stopping BatchRecorder...")
	close(b.inputChan)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info().Msg("Analytics worker stopped gracefully.")
	case <-ctx.Done():
		b.logger.Error().Err(ctx.Err()).Msg("Timeout waiting for analytics worker to stop.")
		return ctx.Err()
	}

	if err := b.sink.Close(); err != nil {
		b.logger.Error().Err(err).Msg("Error closing analytics sink")
	}
	b.logger.Info().Msg("BatchRecorder stopped.")
	return nil
}

// worker collects events into a batch and flushes on size or ticker.
func (b *BatchRecorder) worker(ctx context.Context) {
	defer b.wg.Done()
	batch := make([]*SearchEvent, 0, b.config.BatchSize)
	ticker := time.NewTicker(b.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Shutting down; flush what remains on a fresh context.
			b.flush(context.Background(), batch)
			return

		case event, ok := <-b.inputChan:
			if !ok {
				b.flush(context.Background(), batch)
				return
			}
			batch = append(batch, event)
			if len(batch) >= b.config.BatchSize {
				b.flush(ctx, batch)
				batch = make([]*SearchEvent, 0, b.config.BatchSize)
				ticker.Reset(b.config.FlushInterval)
			}

		case <-ticker.C:
			if len(batch) > 0 {
				b.flush(ctx, batch)
				batch = make([]*SearchEvent, 0, b.config.BatchSize)
			}
		}
	}
}

// flush sends the batch to the sink. Failures are logged and the batch is
// discarded; search analytics is not worth retry machinery.
func (b *BatchRecorder) flush(ctx context.Context, batch []*SearchEvent) {
	if len(batch) == 0 {
		return
	}

	insertCtx, cancel := context.WithTimeout(ctx, b.config.InsertTimeout)
	defer cancel()

	if err := b.sink.InsertBatch(insertCtx, batch); err != nil {
		b.logger.Error().Err(err).Int("batch_size", len(batch)).Msg("Failed to flush search events, discarding batch.")
		return
	}
	b.logger.Debug().Int("batch_size", len(batch)).Msg("Flushed search events.")
}
