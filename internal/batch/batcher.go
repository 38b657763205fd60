// Package batch accumulates log records until a flush threshold trips.
// The byte threshold is driven entirely by the domain size estimators so
// adding a record never pays the cost of an encode.
package batch

import (
	"time"

	"github.com/loghaul/lokiship/internal/domain"
)

// Partition is one tenant's pending records.
type Partition struct {
	Key     domain.PartitionKey
	Records []domain.LogRecord
}

// Batcher accumulates records per partition key and decides when the
// pending set should flush. It is not safe for concurrent use; the sink
// loop owns it.
type Batcher struct {
	maxBytes     int
	maxRecords   int
	sendInterval time.Duration
	hardInterval time.Duration
	lastSend     time.Time

	pending    map[domain.PartitionKey]*Partition
	estBytes   int
	allocBytes int
	records    int
}

// New creates a batcher. maxBytes bounds the estimated encoded size of the
// pending set, maxRecords its record count; zero disables a bound.
func New(maxBytes, maxRecords int, sendInterval, hardInterval time.Duration) *Batcher {
	return &Batcher{
		maxBytes:     maxBytes,
		maxRecords:   maxRecords,
		sendInterval: sendInterval,
		hardInterval: hardInterval,
		lastSend:     time.Now(),
		pending:      make(map[domain.PartitionKey]*Partition),
	}
}

// Add appends the record to its partition and reports whether the pending
// set should flush now (size trigger).
func (b *Batcher) Add(rec domain.LogRecord) bool {
	p := b.pending[rec.Partition]
	if p == nil {
		p = &Partition{Key: rec.Partition}
		b.pending[rec.Partition] = p
	}

	b.estBytes += rec.EstimatedJSONSize()
	b.allocBytes += rec.AllocatedBytes()
	b.records++
	p.Records = append(p.Records, rec)

	if b.maxBytes > 0 && b.estBytes >= b.maxBytes {
		return true
	}
	return b.maxRecords > 0 && b.records >= b.maxRecords
}

// ShouldSend returns true if the pending set should flush based on time
// triggers.
func (b *Batcher) ShouldSend() bool {
	if b.records == 0 {
		return false
	}
	elapsed := time.Since(b.lastSend)
	return elapsed >= b.sendInterval || elapsed >= b.hardInterval
}

// ShouldForceSend returns true if the hard interval has been exceeded.
func (b *Batcher) ShouldForceSend() bool {
	if b.records == 0 {
		return false
	}
	return time.Since(b.lastSend) >= b.hardInterval
}

// TakePartitions hands over every pending partition and resets the batcher
// for the next accumulation window.
func (b *Batcher) TakePartitions() []*Partition {
	if len(b.pending) == 0 {
		return nil
	}
	out := make([]*Partition, 0, len(b.pending))
	for _, p := range b.pending {
		out = append(out, p)
	}
	b.pending = make(map[domain.PartitionKey]*Partition)
	b.estBytes = 0
	b.allocBytes = 0
	b.records = 0
	b.lastSend = time.Now()
	return out
}

// Reset drops every pending record without handing it over and starts a
// fresh accumulation window. Callers that still owe finalizer
// notifications must take the partitions instead.
func (b *Batcher) Reset() {
	b.pending = make(map[domain.PartitionKey]*Partition)
	b.estBytes = 0
	b.allocBytes = 0
	b.records = 0
	b.lastSend = time.Now()
}

// HasPending returns true if records are waiting to be flushed.
func (b *Batcher) HasPending() bool {
	return b.records > 0
}

// RecordCount returns the number of pending records.
func (b *Batcher) RecordCount() int {
	return b.records
}

// EstimatedBytes returns the estimated encoded size of the pending set.
func (b *Batcher) EstimatedBytes() int {
	return b.estBytes
}

// AllocatedBytes returns the heap-resident size of the pending set, for
// memory-pressure accounting.
func (b *Batcher) AllocatedBytes() int {
	return b.allocBytes
}

// SetLimits replaces the flush thresholds. Used by config hot-reload; the
// wire format itself is never reloaded.
func (b *Batcher) SetLimits(maxBytes, maxRecords int, sendInterval, hardInterval time.Duration) {
	b.maxBytes = maxBytes
	b.maxRecords = maxRecords
	b.sendInterval = sendInterval
	b.hardInterval = hardInterval
}
