package ports

import (
	"context"
	"io"

	"github.com/loghaul/lokiship/internal/domain"
)

// RecordSource produces the log records the sink ships. Implementations
// parse whatever input they front (NDJSON on stdin, a file, a socket) into
// domain records.
type RecordSource interface {
	// Next returns the next record. It returns io.EOF when no record is
	// currently available; the caller should poll and retry. Other
	// errors indicate a malformed or unreadable source.
	Next(ctx context.Context) (domain.LogRecord, error)

	// Close releases resources held by the source.
	Close() error
}

// ErrNoMoreRecords indicates the source is drained for now. The caller
// should poll and retry after a delay.
var ErrNoMoreRecords = io.EOF
