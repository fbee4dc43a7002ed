// Package numerator provides document auto-numbering backed by an
// org-scoped sequence table.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"vyapari/internal/core/id"
)

// Strategy defines the numbering generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every number.
	// Guarantees sequential numbers without gaps, and rolls back with the
	// surrounding transaction. Suitable for invoices.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory. Much faster,
	// but may leave gaps after restarts. Suitable for internal documents.
	StrategyCached
)

// Options configuration for number generation.
type Options struct {
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in the cached
	// strategy. Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (strict).
func DefaultOptions() *Options {
	return &Options{Strategy: StrategyStrict}
}

// Querier is the minimal database surface the numerator needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Source resolves the querier for the current call. Wiring it to the
// transaction manager's querier routes strict allocations through the
// caller's open transaction, so an aborted sale never burns its number.
type Source func(ctx context.Context) Querier

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document numbering.
type Service struct {
	source Source

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a numerator service over a querier source.
func New(source Source) *Service {
	return &Service{
		source: source,
		ranges: make(map[string]*cachedRange),
	}
}

// NewStatic creates a numerator service bound to a single querier. Used in
// tests and one-off tooling.
func NewStatic(querier Querier) *Service {
	return New(func(context.Context) Querier { return querier })
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g. "INV").
	Prefix string

	// IncludeYear adds the year to the formatted number.
	IncludeYear bool

	// PadWidth is the minimum number width (default 5).
	PadWidth int

	// ResetPeriod: "year", "month", "never".
	ResetPeriod string
}

// DefaultConfig returns sensible defaults: yearly reset, five digits.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    5,
		ResetPeriod: "year",
	}
}

// GetNextNumber generates the next document number for the org.
// Pattern: PREFIX-YEAR-XXXXX (e.g. INV-2026-00001).
func (s *Service) GetNextNumber(ctx context.Context, orgID id.ID, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	key := s.buildKey(cfg, period)
	cacheKey := fmt.Sprintf("%s:%s", orgID, key)

	var num int64
	var err error
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.getNextCached(ctx, orgID, key, cacheKey, opts)
	default:
		num, err = s.getNextStrict(ctx, orgID, key)
	}
	if err != nil {
		return "", err
	}

	return s.formatNumber(cfg, period, num), nil
}

// getNextStrict bumps the sequence row and returns the new value in one
// statement, so the allocation shares the caller's transaction.
func (s *Service) getNextStrict(ctx context.Context, orgID id.ID, key string) (int64, error) {
	var num int64
	err := s.source(ctx).QueryRow(ctx, `
        INSERT INTO sys_sequences (org_id, key, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (org_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, orgID, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// getNextCached serves numbers from an in-memory range, reserving a new
// block from the database when the range runs out. The reserved block is
// [newMax-size+1, newMax].
func (s *Service) getNextCached(ctx context.Context, orgID id.ID, key, cacheKey string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		var newMax int64
		err := s.source(ctx).QueryRow(ctx, `
            INSERT INTO sys_sequences (org_id, key, current_val)
            VALUES ($1, $2, $3)
            ON CONFLICT (org_id, key) DO UPDATE SET current_val = sys_sequences.current_val + $3
            RETURNING current_val
		`, orgID, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextNumber sets the sequence value directly (for migrations) and drops
// any cached range for the key.
func (s *Service) SetNextNumber(ctx context.Context, orgID id.ID, cfg Config, period time.Time, value int64) error {
	key := s.buildKey(cfg, period)

	var result int64
	err := s.source(ctx).QueryRow(ctx, `
		INSERT INTO sys_sequences (org_id, key, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (org_id, key) DO UPDATE SET current_val = $3
		RETURNING current_val
	`, orgID, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, fmt.Sprintf("%s:%s", orgID, key))
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key based on config and period.
func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatNumber creates the final number string.
func (s *Service) formatNumber(cfg Config, period time.Time, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}

	if cfg.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", cfg.Prefix, period.Format("2006"), padWidth, num)
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseNumber extracts the sequence part from a formatted number: the
// digits after the last dash. Returns -1 if parsing fails.
func ParseNumber(formatted string) int64 {
	idx := strings.LastIndexByte(formatted, '-')
	if idx < 0 || idx == len(formatted)-1 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[idx+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
