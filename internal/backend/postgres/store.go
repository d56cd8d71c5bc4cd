// Package postgres provides the Postgres-backed data store used by the rendering pipeline.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JakeFAU/dealsite-ssr/internal/backend"
)

var validIdentifier = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// DefaultLimit caps List reads that do not set a limit.
const DefaultLimit = 100

// Config controls the Postgres connection pool and table mapping.
type Config struct {
	DSN             string
	Tables          map[backend.Kind]string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type queryCloser interface {
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Ping(context.Context) error
	Close()
}

// Store reads entity rows from Postgres as JSON objects.
type Store struct {
	pool   queryCloser
	tables map[backend.Kind]string
}

// New creates a pooled Store using the provided config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("backend.dsn is required")
	}
	tables, err := resolveTables(cfg.Tables)
	if err != nil {
		return nil, err
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{pool: pool, tables: tables}, nil
}

// NewWithPool constructs a store from an existing pool (primarily for testing).
func NewWithPool(pool queryCloser, tables map[backend.Kind]string) (*Store, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	resolved, err := resolveTables(tables)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool, tables: resolved}, nil
}

func resolveTables(overrides map[backend.Kind]string) (map[backend.Kind]string, error) {
	tables := make(map[backend.Kind]string, len(backend.Kinds))
	for _, k := range backend.Kinds {
		tables[k] = string(k)
	}
	for k, name := range overrides {
		if err := backend.ValidateKind(k); err != nil {
			return nil, err
		}
		if name == "" {
			continue
		}
		if !validIdentifier.MatchString(name) {
			return nil, fmt.Errorf("invalid table name %q", name)
		}
		tables[k] = name
	}
	return tables, nil
}

// Ping verifies the pool can reach the database.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// List selects rows of kind matching q, each encoded with row_to_json.
func (s *Store) List(ctx context.Context, kind backend.Kind, q backend.Query) ([]backend.Record, error) {
	query, args, err := s.buildList(kind, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	defer rows.Close()

	var out []backend.Record
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", kind, err)
		}
		out = append(out, backend.Record(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", kind, err)
	}
	return out, nil
}

// GetByKey selects the first row of kind whose field equals value.
func (s *Store) GetByKey(ctx context.Context, kind backend.Kind, field string, value any) (backend.Record, bool, error) {
	table, err := s.table(kind)
	if err != nil {
		return nil, false, err
	}
	if !validIdentifier.MatchString(field) {
		return nil, false, fmt.Errorf("invalid key field %q", field)
	}
	query := fmt.Sprintf(`SELECT row_to_json(t) FROM %s AS t WHERE t.%s = $1 LIMIT 1`, table, field)
	var raw []byte
	if err := s.pool.QueryRow(ctx, query, value).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s by %s: %w", kind, field, err)
	}
	return backend.Record(raw), true, nil
}

func (s *Store) table(kind backend.Kind) (string, error) {
	table, ok := s.tables[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", backend.ErrUnknownKind, kind)
	}
	return table, nil
}

func (s *Store) buildList(kind backend.Kind, q backend.Query) (string, []any, error) {
	table, err := s.table(kind)
	if err != nil {
		return "", nil, err
	}
	var b strings.Builder
	args := make([]any, 0, len(q.Filter)+2)
	fmt.Fprintf(&b, "SELECT row_to_json(t) FROM %s AS t", table)

	for i, c := range q.Filter {
		if !validIdentifier.MatchString(c.Field) {
			return "", nil, fmt.Errorf("invalid filter field %q", c.Field)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, c.Value)
		fmt.Fprintf(&b, "t.%s = $%d", c.Field, len(args))
	}

	for i, o := range q.OrderBy {
		if !validIdentifier.MatchString(o.Field) {
			return "", nil, fmt.Errorf("invalid order field %q", o.Field)
		}
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&b, "t.%s %s NULLS LAST", o.Field, dir)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	args = append(args, offset)
	b.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	return b.String(), args, nil
}
