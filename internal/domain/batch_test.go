package domain

import (
	"errors"
	"fmt"
	"testing"
)

func record(labels Labels, ts int64, line string) LogRecord {
	return LogRecord{
		Labels: labels,
		Event:  LogEvent{Timestamp: ts, Line: []byte(line)},
	}
}

func TestBuildBatchMergesEqualLabelSets(t *testing.T) {
	records := []LogRecord{
		record(Labels{{"a", "1"}, {"b", "2"}}, 100, "x"),
		record(Labels{{"b", "2"}, {"a", "1"}}, 50, "y"),
	}

	b := BuildBatch(records)

	if len(b.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(b.Streams))
	}
	st := b.Streams["a,1,b,2,"]
	if st == nil {
		t.Fatalf("expected stream under canonical key, got keys %v", streamKeys(b))
	}
	if st.Labels["a"] != "1" || st.Labels["b"] != "2" || len(st.Labels) != 2 {
		t.Fatalf("unexpected label mapping %v", st.Labels)
	}
	if len(st.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(st.Events))
	}
	if st.Events[0].Timestamp != 50 || string(st.Events[0].Line) != "y" {
		t.Fatalf("expected (50, y) first, got (%d, %s)", st.Events[0].Timestamp, st.Events[0].Line)
	}
	if st.Events[1].Timestamp != 100 || string(st.Events[1].Line) != "x" {
		t.Fatalf("expected (100, x) second, got (%d, %s)", st.Events[1].Timestamp, st.Events[1].Line)
	}
}

func TestBuildBatchSeparatesDistinctLabelSets(t *testing.T) {
	records := []LogRecord{
		record(Labels{{"app", "api"}}, 1, "a"),
		record(Labels{{"app", "web"}}, 2, "b"),
		record(Labels{{"app", "api"}, {"env", "prod"}}, 3, "c"),
	}

	b := BuildBatch(records)
	if len(b.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d: %v", len(b.Streams), streamKeys(b))
	}
}

func TestBuildBatchStableForEqualTimestamps(t *testing.T) {
	labels := Labels{{"app", "api"}}
	records := []LogRecord{
		record(labels, 10, "first"),
		record(labels, 10, "second"),
		record(labels, 5, "early"),
		record(labels, 10, "third"),
	}

	b := BuildBatch(records)
	st := b.Streams[labels.CanonicalKey()]
	if st == nil {
		t.Fatal("missing stream")
	}

	want := []string{"early", "first", "second", "third"}
	for i, w := range want {
		if got := string(st.Events[i].Line); got != w {
			t.Fatalf("event %d: expected %q, got %q", i, w, got)
		}
	}
}

func TestBuildBatchAccountsEveryRecord(t *testing.T) {
	var records []LogRecord
	for i := 0; i < 20; i++ {
		labels := Labels{{"shard", fmt.Sprintf("%d", i%3)}}
		records = append(records, record(labels, int64(i), "line"))
	}

	b := BuildBatch(records)

	total := 0
	for _, st := range b.Streams {
		total += len(st.Events)
	}
	if total != len(records) {
		t.Fatalf("expected %d events across streams, got %d", len(records), total)
	}
	if b.RecordCount() != len(records) {
		t.Fatalf("expected record count %d, got %d", len(records), b.RecordCount())
	}
	if len(b.Streams) != 3 {
		t.Fatalf("expected 3 streams, got %d", len(b.Streams))
	}
}

func TestBuildBatchTakesAndMergesFinalizers(t *testing.T) {
	fired := make([]error, 0, 3)
	mk := func() Finalizer {
		return func(err error) { fired = append(fired, err) }
	}

	records := []LogRecord{
		record(Labels{{"a", "1"}}, 1, "x"),
		record(Labels{{"a", "2"}}, 2, "y"),
		record(Labels{{"a", "1"}}, 3, "z"),
	}
	for i := range records {
		records[i].Finalizers = Finalizers{mk()}
	}

	b := BuildBatch(records)

	for i := range records {
		if records[i].Finalizers != nil {
			t.Fatalf("record %d kept its finalizers after grouping", i)
		}
	}

	sentinel := errors.New("push failed")
	taken := b.TakeFinalizers()
	taken.Notify(sentinel)
	if len(fired) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(fired))
	}
	for _, err := range fired {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected sentinel error, got %v", err)
		}
	}

	// A second take must be empty: the handles are claimed once.
	taken = b.TakeFinalizers()
	taken.Notify(nil)
	if len(fired) != 3 {
		t.Fatalf("finalizers fired again, total %d", len(fired))
	}
}

func TestBuildBatchEmptyAndUnlabeled(t *testing.T) {
	b := BuildBatch(nil)
	if !b.Empty() || b.RecordCount() != 0 {
		t.Fatalf("expected empty batch, got %d streams, %d records", len(b.Streams), b.RecordCount())
	}

	b = BuildBatch([]LogRecord{record(nil, 1, "bare")})
	if len(b.Streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(b.Streams))
	}
	st := b.Streams[""]
	if st == nil {
		t.Fatalf("expected stream under empty key, got %v", streamKeys(b))
	}
	if len(st.Labels) != 0 {
		t.Fatalf("expected empty label mapping, got %v", st.Labels)
	}
}

func streamKeys(b *Batch) []string {
	keys := make([]string, 0, len(b.Streams))
	for k := range b.Streams {
		keys = append(keys, k)
	}
	return keys
}
