package batch

import (
	"testing"
	"time"

	"github.com/loghaul/lokiship/internal/domain"
)

func rec(tenant, line string) domain.LogRecord {
	return domain.LogRecord{
		Partition: domain.PartitionKey{TenantID: tenant},
		Labels:    domain.Labels{{Key: "app", Value: "api"}},
		Event:     domain.LogEvent{Timestamp: 1, Line: []byte(line)},
	}
}

func TestAddTriggersOnEstimatedBytes(t *testing.T) {
	b := New(40, 0, time.Minute, time.Minute)

	r := rec("", "0123456789") // estimate: 2+2+1+1+10 = 16
	if b.Add(r) {
		t.Fatal("first add should not trigger")
	}
	if b.Add(r) {
		t.Fatal("second add should not trigger")
	}
	if got := b.EstimatedBytes(); got != 32 {
		t.Fatalf("expected estimated bytes 32, got %d", got)
	}
	if !b.Add(r) {
		t.Fatal("third add should trigger at 48 >= 40")
	}
}

func TestAddTriggersOnRecordCount(t *testing.T) {
	b := New(0, 3, time.Minute, time.Minute)

	if b.Add(rec("", "a")) || b.Add(rec("", "b")) {
		t.Fatal("premature trigger")
	}
	if !b.Add(rec("", "c")) {
		t.Fatal("expected trigger at 3 records")
	}
}

func TestAccountingMatchesEstimators(t *testing.T) {
	b := New(0, 0, time.Minute, time.Minute)

	records := []domain.LogRecord{rec("team-a", "hello"), rec("team-b", "wider line")}
	wantEst, wantAlloc := 0, 0
	for _, r := range records {
		wantEst += r.EstimatedJSONSize()
		wantAlloc += r.AllocatedBytes()
		b.Add(r)
	}

	if b.EstimatedBytes() != wantEst {
		t.Fatalf("estimated bytes: expected %d, got %d", wantEst, b.EstimatedBytes())
	}
	if b.AllocatedBytes() != wantAlloc {
		t.Fatalf("allocated bytes: expected %d, got %d", wantAlloc, b.AllocatedBytes())
	}
	if b.RecordCount() != 2 {
		t.Fatalf("expected 2 records, got %d", b.RecordCount())
	}
}

func TestTakePartitionsSeparatesTenants(t *testing.T) {
	b := New(0, 0, time.Minute, time.Minute)
	b.Add(rec("team-a", "1"))
	b.Add(rec("team-b", "2"))
	b.Add(rec("team-a", "3"))

	parts := b.TakePartitions()
	if len(parts) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(parts))
	}

	byTenant := map[string]int{}
	for _, p := range parts {
		byTenant[p.Key.TenantID] = len(p.Records)
	}
	if byTenant["team-a"] != 2 || byTenant["team-b"] != 1 {
		t.Fatalf("unexpected partition sizes %v", byTenant)
	}

	if b.HasPending() || b.RecordCount() != 0 || b.EstimatedBytes() != 0 {
		t.Fatal("batcher not reset after TakePartitions")
	}
	if b.TakePartitions() != nil {
		t.Fatal("expected nil partitions when empty")
	}
}

func TestTimeTriggers(t *testing.T) {
	b := New(0, 0, 20*time.Millisecond, 40*time.Millisecond)

	if b.ShouldSend() {
		t.Fatal("empty batcher must not request a send")
	}
	b.Add(rec("", "x"))
	if b.ShouldSend() {
		t.Fatal("interval not elapsed yet")
	}

	time.Sleep(25 * time.Millisecond)
	if !b.ShouldSend() {
		t.Fatal("expected send after soft interval")
	}
	if b.ShouldForceSend() {
		t.Fatal("hard interval not elapsed yet")
	}

	time.Sleep(20 * time.Millisecond)
	if !b.ShouldForceSend() {
		t.Fatal("expected force send after hard interval")
	}
}

func TestResetDropsPending(t *testing.T) {
	b := New(0, 0, time.Minute, time.Minute)
	b.Add(rec("team-a", "1"))
	b.Add(rec("team-b", "2"))

	b.Reset()

	if b.HasPending() || b.RecordCount() != 0 || b.EstimatedBytes() != 0 || b.AllocatedBytes() != 0 {
		t.Fatal("reset left state behind")
	}
	if b.TakePartitions() != nil {
		t.Fatal("expected no partitions after reset")
	}
}

func TestSetLimits(t *testing.T) {
	b := New(0, 0, time.Minute, time.Minute)
	b.SetLimits(0, 1, time.Minute, time.Minute)

	if !b.Add(rec("", "x")) {
		t.Fatal("expected new record limit to apply")
	}
}
