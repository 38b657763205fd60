package domain

import "sort"

// Stream groups the events that share one canonical label set.
type Stream struct {
	// Labels is the resolved label mapping sent on the wire. A key
	// repeated in the source list collapses to its last value here.
	Labels map[string]string

	// Events is ordered ascending by timestamp after BuildBatch. Events
	// with equal timestamps keep their insertion order.
	Events []LogEvent
}

// Batch is one flush unit: streams keyed by canonical label key, the merged
// finalizers of every record consumed, and the original record count.
//
// Iteration order over Streams is not deterministic across runs; consumers
// must not rely on it. Only the event order inside each stream is.
type Batch struct {
	Streams map[string]*Stream

	finalizers Finalizers
	records    int
}

// BuildBatch consumes records into a batch. Every record contributes
// exactly one event to exactly one stream and surrenders its finalizers to
// the batch; no record is dropped. Grouping never fails: an empty input
// yields an empty batch and an empty label list yields a stream with an
// empty label mapping.
func BuildBatch(records []LogRecord) *Batch {
	b := &Batch{Streams: make(map[string]*Stream)}
	for i := range records {
		rec := &records[i]
		b.finalizers.Merge(rec.TakeFinalizers())

		key := rec.Labels.CanonicalKey()
		st, ok := b.Streams[key]
		if !ok {
			st = &Stream{Labels: rec.Labels.Map()}
			b.Streams[key] = st
		}
		st.Events = append(st.Events, rec.Event)
		b.records++
	}
	for _, st := range b.Streams {
		sort.SliceStable(st.Events, func(i, j int) bool {
			return st.Events[i].Timestamp < st.Events[j].Timestamp
		})
	}
	return b
}

// RecordCount reports how many records were consumed into the batch.
func (b *Batch) RecordCount() int {
	return b.records
}

// Empty reports whether the batch holds no streams.
func (b *Batch) Empty() bool {
	return len(b.Streams) == 0
}

// TakeFinalizers transfers the merged finalizers to the caller. The
// transport layer claims them once and notifies them with the delivery
// outcome; a second call returns an empty set.
func (b *Batch) TakeFinalizers() Finalizers {
	f := b.finalizers
	b.finalizers = nil
	return f
}
