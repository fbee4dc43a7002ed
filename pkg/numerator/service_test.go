package numerator

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/id"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates the sequence row: every call bumps current_val by
// the increment argument and returns the new value.
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	calls        int
}

func (m *mockQuerier) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++

	var increment int64 = 1
	if len(args) == 3 {
		if val, ok := args[2].(int64); ok {
			increment = val
		}
	}
	m.currentValue += increment
	return &mockRow{val: m.currentValue}
}

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := NewStatic(q)
	ctx := context.Background()
	orgID := id.New()
	cfg := DefaultConfig("TEST")
	period := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	num, err := svc.GetNextNumber(ctx, orgID, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00001" {
		t.Errorf("expected TEST-2026-00001, got %s", num)
	}

	num, err = svc.GetNextNumber(ctx, orgID, cfg, nil, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "TEST-2026-00002" {
		t.Errorf("expected TEST-2026-00002, got %s", num)
	}
	if q.calls != 2 {
		t.Errorf("strict mode must hit the DB per number, got %d calls", q.calls)
	}
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := NewStatic(q)
	ctx := context.Background()
	orgID := id.New()
	cfg := DefaultConfig("ORD")
	period := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	// first call reserves 1..10
	num, err := svc.GetNextNumber(ctx, orgID, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00001" {
		t.Errorf("expected ORD-2026-00001, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value 10, got %d", q.currentValue)
	}

	// second call comes from memory
	num, err = svc.GetNextNumber(ctx, orgID, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00002" {
		t.Errorf("expected ORD-2026-00002, got %s", num)
	}
	if q.currentValue != 10 {
		t.Errorf("expected DB value to stay 10, got %d", q.currentValue)
	}

	// exhaust the range, then cross the boundary
	for i := 0; i < 8; i++ {
		_, _ = svc.GetNextNumber(ctx, orgID, cfg, opts, period)
	}
	num, err = svc.GetNextNumber(ctx, orgID, cfg, opts, period)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != "ORD-2026-00011" {
		t.Errorf("expected ORD-2026-00011, got %s", num)
	}
	if q.currentValue != 20 {
		t.Errorf("expected DB value 20, got %d", q.currentValue)
	}
}

func TestGetNextNumber_CacheIsolatedPerOrg(t *testing.T) {
	q := &mockQuerier{}
	svc := NewStatic(q)
	ctx := context.Background()
	cfg := DefaultConfig("ORD")
	period := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	// each org gets its own cached range even over a shared backend
	if _, err := svc.GetNextNumber(ctx, id.New(), cfg, opts, period); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetNextNumber(ctx, id.New(), cfg, opts, period); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.calls != 2 {
		t.Errorf("expected one reservation per org, got %d calls", q.calls)
	}
}

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"INV-2026-00042", 42},
		{"GR-00007", 7},
		{"garbage", -1},
		{"INV-2026-", -1},
		{"INV-2026-abc", -1},
		{"", -1},
	}
	for _, tc := range cases {
		if got := ParseNumber(tc.in); got != tc.want {
			t.Errorf("ParseNumber(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
