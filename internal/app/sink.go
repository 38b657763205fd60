// Package app contains the sink loop that pumps records from a source,
// batches them per partition, encodes each batch, and pushes it to the
// ingestion endpoint.
package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/loghaul/lokiship/internal/batch"
	"github.com/loghaul/lokiship/internal/domain"
	"github.com/loghaul/lokiship/internal/encoding"
	"github.com/loghaul/lokiship/internal/metrics"
	"github.com/loghaul/lokiship/internal/ports"
	"github.com/loghaul/lokiship/pkg/log"
)

// SinkConfig carries the settings for one sink run.
type SinkConfig struct {
	PollInterval    time.Duration
	SendInterval    time.Duration
	HardInterval    time.Duration
	MaxBatchBytes   int
	MaxBatchRecords int
	Once            bool

	// Send metadata
	URL      string
	AuthKey  string
	Hostname string
}

// Limits is the subset of SinkConfig that may be hot-reloaded.
type Limits struct {
	MaxBatchBytes   int
	MaxBatchRecords int
	SendInterval    time.Duration
	HardInterval    time.Duration
}

// Sink orchestrates the shipping loop. It owns its batcher and is driven by
// a single goroutine; UpdateLimits may be called from another.
type Sink struct {
	config  SinkConfig
	source  ports.RecordSource
	sender  ports.PushSender
	encoder encoding.BatchEncoder
	logger  log.Logger
	metrics *metrics.Metrics
	batcher *batch.Batcher

	mu        sync.Mutex
	newLimits *Limits
}

// NewSink creates a sink with the given dependencies. metrics may be nil.
func NewSink(
	config SinkConfig,
	source ports.RecordSource,
	sender ports.PushSender,
	encoder encoding.BatchEncoder,
	logger log.Logger,
	m *metrics.Metrics,
) *Sink {
	return &Sink{
		config:  config,
		source:  source,
		sender:  sender,
		encoder: encoder,
		logger:  logger,
		metrics: m,
		batcher: batch.New(config.MaxBatchBytes, config.MaxBatchRecords, config.SendInterval, config.HardInterval),
	}
}

// UpdateLimits schedules new flush thresholds. They take effect at the top
// of the next loop iteration. The wire format is fixed for the sink's
// lifetime and cannot be updated.
func (s *Sink) UpdateLimits(l Limits) {
	s.mu.Lock()
	s.newLimits = &l
	s.mu.Unlock()
}

// Run executes the shipping loop. It returns when the context is canceled
// or, with Once set, when the source drains. Pending records are flushed
// before returning.
func (s *Sink) Run(ctx context.Context) error {
	boff := newBackoff(DefaultBackoffInitial, DefaultBackoffMax)

	for {
		s.applyLimits()

		select {
		case <-ctx.Done():
			s.flush(ctx, boff)
			return ctx.Err()
		default:
		}

		rec, err := s.source.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				if s.config.Once {
					s.flush(ctx, boff)
					return nil
				}
				if s.batcher.ShouldSend() {
					s.flush(ctx, boff)
				}
				if !s.sleep(ctx, s.config.PollInterval) {
					s.flush(ctx, boff)
					return ctx.Err()
				}
				continue
			}

			s.logger.Error("read record", log.Err(err))
			if !s.sleep(ctx, s.config.PollInterval) {
				s.flush(ctx, boff)
				return ctx.Err()
			}
			continue
		}

		if s.metrics != nil {
			s.metrics.RecordsIn.Inc()
		}

		// Size triggers flush immediately; the hard interval caps how long
		// records can sit while input keeps flowing.
		if s.batcher.Add(rec) || s.batcher.ShouldForceSend() {
			s.flush(ctx, boff)
		}
	}
}

// flush pushes every pending partition as its own batch.
func (s *Sink) flush(ctx context.Context, boff *backoff) {
	for _, p := range s.batcher.TakePartitions() {
		s.push(ctx, p, boff)
	}
}

// push groups one partition's records, encodes the batch, and sends it.
// The batch's merged finalizers are notified exactly once with the outcome;
// a failed batch is reported lost, not retried here.
func (s *Sink) push(ctx context.Context, p *batch.Partition, boff *backoff) {
	built := domain.BuildBatch(p.Records)
	if built.Empty() {
		return
	}

	var buf bytes.Buffer
	n, count, err := s.encoder.Encode(built, &buf)
	if err == nil {
		meta := ports.SendMetadata{
			URL:         s.config.URL,
			TenantID:    p.Key.TenantID,
			AuthKey:     s.config.AuthKey,
			ContentType: s.encoder.Format.ContentType(),
			Hostname:    s.config.Hostname,
		}

		start := time.Now()
		err = s.sender.Send(ctx, buf.Bytes(), meta)
		if err == nil {
			s.logger.Info("pushed batch",
				log.Int("records", count),
				log.Int("streams", len(built.Streams)),
				log.Int("bytes", n),
				log.Duration("duration", time.Since(start)),
			)
			if s.metrics != nil {
				s.metrics.BatchesSent.Inc()
				s.metrics.RecordsShipped.Add(float64(count))
				s.metrics.BytesSent.Add(float64(n))
			}
			boff.Reset()
		}
	}

	fins := built.TakeFinalizers()
	fins.Notify(err)

	if err != nil {
		s.logger.Error("push failed",
			log.Err(err),
			log.Int("records", built.RecordCount()),
			log.String("tenant", p.Key.TenantID),
		)
		if s.metrics != nil {
			s.metrics.SendErrors.Inc()
		}
		boff.Sleep(ctx)
	}
}

func (s *Sink) applyLimits() {
	s.mu.Lock()
	l := s.newLimits
	s.newLimits = nil
	s.mu.Unlock()
	if l == nil {
		return
	}

	s.batcher.SetLimits(l.MaxBatchBytes, l.MaxBatchRecords, l.SendInterval, l.HardInterval)
	s.logger.Info("applied new batch limits",
		log.Int("max_bytes", l.MaxBatchBytes),
		log.Int("max_records", l.MaxBatchRecords),
		log.Duration("send_interval", l.SendInterval),
	)
}

// sleep waits for d or context cancellation; false means canceled.
func (s *Sink) sleep(ctx context.Context, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
