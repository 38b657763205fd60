package domain

// The estimators below back the flush-threshold policy in the batcher. They
// are called once per record, far more often than an actual encode happens,
// so they must stay cheap: no serialization, no allocation.

// AllocatedBytes sums the heap-resident cost of the event's variable-length
// fields. The fixed-size timestamp contributes nothing.
func (e *LogEvent) AllocatedBytes() int {
	n := len(e.Line)
	for _, t := range e.Tags {
		n += len(t)
	}
	for k, v := range e.Attachment {
		n += len(k) + len(v)
	}
	return n
}

// AllocatedBytes sums the heap-resident cost of the record's partition key,
// labels, and event.
func (r *LogRecord) AllocatedBytes() int {
	return r.Partition.AllocatedBytes() + r.Labels.AllocatedBytes() + r.Event.AllocatedBytes()
}

// EstimatedJSONSize approximates the text-encoded size of one event without
// serializing it: the enclosing brackets, the quoted decimal timestamp, one
// separator, and the line length. It is a heuristic for flush decisions,
// not an exact count; JSON escaping of control characters is not modeled.
// The estimate is monotonic in payload length.
func (e *LogEvent) EstimatedJSONSize() int {
	const (
		bracketsSize  = 2
		quotesSize    = 2
		separatorSize = 1
	)
	return bracketsSize + quotesSize + decimalLen(e.Timestamp) + separatorSize + len(e.Line)
}

// EstimatedJSONSize for a record is the estimate of its single event.
func (r *LogRecord) EstimatedJSONSize() int {
	return r.Event.EstimatedJSONSize()
}

// decimalLen returns the number of characters strconv.FormatInt(v, 10)
// would produce, including a leading minus sign.
func decimalLen(v int64) int {
	if v == 0 {
		return 1
	}
	n := 0
	if v < 0 {
		n++
	}
	// Loop on the (possibly negative) value itself so math.MinInt64 does
	// not overflow on negation.
	for v != 0 {
		v /= 10
		n++
	}
	return n
}
