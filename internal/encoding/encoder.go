// Package encoding renders built batches into one of the two wire formats
// accepted by the ingestion endpoint: a human-debuggable JSON object or a
// compact msgpack payload.
package encoding

import (
	"fmt"
	"io"

	"github.com/loghaul/lokiship/internal/domain"
)

// Format selects the wire encoding for a batch. The set is closed: the sink
// picks one format at startup and never changes it.
type Format int

const (
	// FormatJSON is the text wire format for the push API's JSON endpoint.
	FormatJSON Format = iota

	// FormatMsgpack is the compact binary wire format.
	FormatMsgpack
)

// ParseFormat maps a configuration string to a Format. The empty string
// defaults to JSON.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "", "json":
		return FormatJSON, nil
	case "msgpack":
		return FormatMsgpack, nil
	default:
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownFormat, s)
	}
}

// String returns the configuration name of the format.
func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// ContentType returns the HTTP content type for payloads in this format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// BatchEncoder serializes built batches. It holds no mutable state and is
// safe for concurrent use on independent batches.
type BatchEncoder struct {
	Format Format
}

// Encode renders the batch in the selected format and writes the payload to
// w. It returns the number of payload bytes written and the batch's
// original record count (not the stream or post-grouping event count).
//
// Serialization and write errors propagate as a whole; there is no partial
// success, and any bytes written before a failure must be discarded.
func (e BatchEncoder) Encode(b *domain.Batch, w io.Writer) (int, int, error) {
	var (
		body []byte
		err  error
	)
	switch e.Format {
	case FormatMsgpack:
		body, err = encodeMsgpack(b)
	default:
		body, err = encodeJSON(b)
	}
	if err != nil {
		return 0, 0, fmt.Errorf("encode batch: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return 0, 0, fmt.Errorf("write batch: %w", err)
	}
	return len(body), b.RecordCount(), nil
}
