// Package store reads a pairs table from Postgres.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Skufu/ddimatrix/internal/edges"
)

const DefaultTable = "pairs"

type Store struct {
	pool    *pgxpool.Pool
	table   string
	orderBy string
}

// Connect opens a pool and verifies it with a ping. orderBy names the column
// that fixes row order for last-write-wins; empty orders by the pair columns.
func Connect(ctx context.Context, url, table, orderBy string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse db url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if table == "" {
		table = DefaultTable
	}
	return &Store{pool: pool, table: table, orderBy: orderBy}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) Table() string {
	return s.table
}

// LoadEdges reads every row of the pairs table in a stable order and runs it
// through the same normalization as file input.
func (s *Store) LoadEdges(ctx context.Context) (edges.List, error) {
	rows, err := s.pool.Query(ctx, selectQuery(s.table, s.orderBy))
	if err != nil {
		return edges.List{}, fmt.Errorf("query %s: %w", s.table, err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return edges.List{}, fmt.Errorf("scan %s: %w", s.table, err)
	}
	return edges.FromRows(edges.Columns, records)
}

func scanRecord(row pgx.CollectableRow) ([]string, error) {
	var a, b, sev, doc, summary *string
	if err := row.Scan(&a, &b, &sev, &doc, &summary); err != nil {
		return nil, err
	}
	return record(a, b, sev, doc, summary), nil
}

// record maps NULL columns to empty cells.
func record(cols ...*string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = deref(c)
	}
	return out
}

// selectQuery casts every column to text so numeric or enum columns scan
// uniformly. The pair columns always break ties so reloads see the same
// sequence.
func selectQuery(table, orderBy string) string {
	cols := make([]string, len(edges.Columns))
	order := make([]string, 0, len(edges.Columns)+1)
	if orderBy != "" {
		order = append(order, pgx.Identifier{orderBy}.Sanitize())
	}
	for i, c := range edges.Columns {
		ident := pgx.Identifier{c}.Sanitize()
		cols[i] = ident + "::text"
		order = append(order, ident)
	}
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY %s",
		strings.Join(cols, ", "), tableIdent(table).Sanitize(), strings.Join(order, ", "))
}

// tableIdent splits an optional schema prefix.
func tableIdent(table string) pgx.Identifier {
	return pgx.Identifier(strings.SplitN(table, ".", 2))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
