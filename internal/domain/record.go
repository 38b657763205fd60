package domain

// PartitionKey identifies the routing scope of a record. The batching layer
// keeps partitions apart (one push per tenant); stream grouping never looks
// at it.
type PartitionKey struct {
	// TenantID is the optional tenant identifier. Empty means the
	// single-tenant default scope.
	TenantID string
}

// AllocatedBytes returns the heap-resident size of the key's owned strings.
func (k PartitionKey) AllocatedBytes() int {
	return len(k.TenantID)
}

// LogEvent is a single log entry.
type LogEvent struct {
	// Timestamp is milliseconds since the Unix epoch.
	Timestamp int64

	// Line holds the raw payload bytes. Not guaranteed to be valid UTF-8;
	// the encoder substitutes invalid sequences when rendering text.
	Line []byte

	// Tags is an ordered list of tag strings.
	Tags []string

	// Attachment carries structured metadata as string pairs.
	Attachment map[string]string
}

// LogRecord is the input unit handed to the batch builder: one event, its
// labels, its partition scope, and the finalizers owed for it.
type LogRecord struct {
	Partition  PartitionKey
	Labels     Labels
	Event      LogEvent
	Finalizers Finalizers
}

// TakeFinalizers transfers ownership of the record's finalizers to the
// caller, leaving the record with none.
func (r *LogRecord) TakeFinalizers() Finalizers {
	f := r.Finalizers
	r.Finalizers = nil
	return f
}

// EventCount reports how many events the record carries.
func (r *LogRecord) EventCount() int {
	// A record is mapped one-to-one with an event.
	return 1
}
