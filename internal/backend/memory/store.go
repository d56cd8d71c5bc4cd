// Package memory implements an in-process data store over JSON fixtures, for local
// development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
)

// Store holds raw records per kind. It is read-only after construction.
type Store struct {
	records map[backend.Kind][]backend.Record
}

// New creates a Store over the given records.
func New(records map[backend.Kind][]backend.Record) (*Store, error) {
	out := make(map[backend.Kind][]backend.Record, len(records))
	for kind, recs := range records {
		if err := backend.ValidateKind(kind); err != nil {
			return nil, err
		}
		out[kind] = append([]backend.Record(nil), recs...)
	}
	return &Store{records: out}, nil
}

// Load reads a fixture file shaped as {"deals": [...], "stores": [...], ...}.
func Load(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("fixture path is required")
	}
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var raw map[backend.Kind][]backend.Record
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	return New(raw)
}

// List filters, sorts and pages the records of kind.
func (s *Store) List(ctx context.Context, kind backend.Kind, q backend.Query) ([]backend.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	if err := backend.ValidateKind(kind); err != nil {
		return nil, err
	}
	var matched []backend.Record
	for _, rec := range s.records[kind] {
		if matches(rec, q.Filter) {
			matched = append(matched, rec)
		}
	}
	if len(q.OrderBy) > 0 {
		slices.SortStableFunc(matched, func(a, b backend.Record) int {
			return compareRecords(a, b, q.OrderBy)
		})
	}
	offset := max(q.Offset, 0)
	if offset >= len(matched) {
		return []backend.Record{}, nil
	}
	matched = matched[offset:]
	if q.Limit > 0 && q.Limit < len(matched) {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// GetByKey returns the first record of kind whose field equals value.
func (s *Store) GetByKey(ctx context.Context, kind backend.Kind, field string, value any) (backend.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("get %s: %w", kind, err)
	}
	if err := backend.ValidateKind(kind); err != nil {
		return nil, false, err
	}
	cond := []backend.Condition{{Field: field, Value: value}}
	for _, rec := range s.records[kind] {
		if matches(rec, cond) {
			return rec, true, nil
		}
	}
	return nil, false, nil
}

func matches(rec backend.Record, filter []backend.Condition) bool {
	for _, c := range filter {
		v := gjson.GetBytes(rec, c.Field)
		if !v.Exists() || v.String() != fmt.Sprint(c.Value) {
			return false
		}
	}
	return true
}

func compareRecords(a, b backend.Record, orders []backend.Order) int {
	for _, o := range orders {
		av, bv := gjson.GetBytes(a, o.Field), gjson.GetBytes(b, o.Field)
		aNull, bNull := isNull(av), isNull(bv)
		switch {
		case aNull && bNull:
			continue
		case aNull:
			return 1
		case bNull:
			return -1
		}
		c := compareValues(av, bv)
		if o.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
	}
	return 0
}

func isNull(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null
}

func compareValues(a, b gjson.Result) int {
	if scalarNumber(a) && scalarNumber(b) {
		switch af, bf := a.Float(), b.Float(); {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.String(), b.String())
}

func scalarNumber(v gjson.Result) bool {
	return v.Type == gjson.Number || v.Type == gjson.True || v.Type == gjson.False
}
