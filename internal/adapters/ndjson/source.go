// Package ndjson adapts a newline-delimited JSON stream into log records.
//
// Each input line is one record:
//
//	{"ts":1712000000123,"line":"GET / 200","labels":{"app":"api"},
//	 "tags":["http"],"attachment":{"trace_id":"abc"},"tenant":"team-a"}
//
// Only "line" carries the payload; every other field is optional. A missing
// timestamp defaults to the current time. Malformed lines are skipped with
// a warning, never fatal.
package ndjson

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/valyala/fastjson"

	"github.com/loghaul/lokiship/internal/domain"
	"github.com/loghaul/lokiship/pkg/log"
)

// Scanner limit for one input line.
const maxLineBytes = 1 << 20

// Option configures a Source.
type Option func(*Source)

// WithTenant sets the default tenant for records that carry none.
func WithTenant(tenant string) Option {
	return func(s *Source) { s.tenant = tenant }
}

// WithStaticLabels attaches labels to every record. A label the record
// defines itself wins over the static one.
func WithStaticLabels(labels map[string]string) Option {
	return func(s *Source) { s.static = labels }
}

// WithAck installs a finalizer factory; the returned finalizer is attached
// to every record and fires once with the record's delivery outcome.
func WithAck(ack func() domain.Finalizer) Option {
	return func(s *Source) { s.ack = ack }
}

// Source implements ports.RecordSource over an NDJSON reader.
type Source struct {
	scanner *bufio.Scanner
	closer  io.Closer
	logger  log.Logger

	tenant  string
	static  map[string]string
	ack     func() domain.Finalizer
	parsers fastjson.ParserPool
}

// New creates a source reading from r. If r is also an io.Closer it is
// closed by Close.
func New(r io.Reader, logger log.Logger, opts ...Option) *Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	s := &Source{
		scanner: scanner,
		logger:  logger,
	}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next returns the next record, skipping blank and malformed lines. It
// returns io.EOF when the stream is exhausted.
func (s *Source) Next(ctx context.Context) (domain.LogRecord, error) {
	for {
		select {
		case <-ctx.Done():
			return domain.LogRecord{}, ctx.Err()
		default:
		}

		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return domain.LogRecord{}, err
			}
			return domain.LogRecord{}, io.EOF
		}

		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		rec, err := s.parse(line)
		if err != nil {
			s.logger.Warn("skipping malformed input line", log.Err(err))
			continue
		}
		return rec, nil
	}
}

// Close releases the underlying reader if it is closable.
func (s *Source) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

func (s *Source) parse(line []byte) (domain.LogRecord, error) {
	p := s.parsers.Get()
	defer s.parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return domain.LogRecord{}, err
	}

	ts := v.GetInt64("ts")
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}

	payload := v.GetStringBytes("line")
	if payload == nil {
		payload = v.GetStringBytes("msg")
	}

	var labels domain.Labels
	recordKeys := map[string]bool{}
	if obj := v.GetObject("labels"); obj != nil {
		obj.Visit(func(k []byte, val *fastjson.Value) {
			key := string(k)
			recordKeys[key] = true
			labels = append(labels, domain.Label{Key: key, Value: string(val.GetStringBytes())})
		})
	}
	for k, val := range s.static {
		if !recordKeys[k] {
			labels = append(labels, domain.Label{Key: k, Value: val})
		}
	}

	var tags []string
	for _, tv := range v.GetArray("tags") {
		if b, err := tv.StringBytes(); err == nil {
			tags = append(tags, string(b))
		}
	}

	var attachment map[string]string
	if obj := v.GetObject("attachment"); obj != nil {
		attachment = make(map[string]string, 4)
		obj.Visit(func(k []byte, val *fastjson.Value) {
			attachment[string(k)] = string(val.GetStringBytes())
		})
	}

	tenant := string(v.GetStringBytes("tenant"))
	if tenant == "" {
		tenant = s.tenant
	}

	rec := domain.LogRecord{
		Partition: domain.PartitionKey{TenantID: tenant},
		Labels:    labels,
		Event: domain.LogEvent{
			Timestamp:  ts,
			Line:       append([]byte(nil), payload...),
			Tags:       tags,
			Attachment: attachment,
		},
	}
	if s.ack != nil {
		rec.Finalizers = domain.Finalizers{s.ack()}
	}
	return rec, nil
}
