// Package ch provides a clickhouse client
package ch

import (
	"context"
	"fmt"
	"strings"

	clickhouse "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL string

	// ClientName/ClientTag identify this process in system.query_log
	ClientName string
	ClientTag  string
}

// Rows is the minimal result set iteration for ch
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
	Columns() []string
}

// CH is the clickhouse connectivity seam
type CH struct {
	conn driver.Conn
}

// Open dials clickhouse using a DSN like clickhouse://host:9000/db
func Open(ctx context.Context, cfg Config) (*CH, error) {
	opts, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	opts.ClientInfo = BuildClientInfo(cfg.ClientName, cfg.ClientTag)
	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ch: ping: %w", err)
	}
	return &CH{conn: conn}, nil
}

// Insert appends rows into table via a prepared batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) error {
	if len(rows) == 0 {
		return nil
	}
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO "+sanitizeIdent(table))
	if err != nil {
		return fmt.Errorf("ch: prepare batch: %w", err)
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			return fmt.Errorf("ch: append: %w", err)
		}
	}
	return batch.Send()
}

// Query runs a query and returns ch.Rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	rs, err := c.conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return driverRows{rs}, nil
}

// Exec runs a statement without a result set (DDL, deletes)
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	return c.conn.Exec(ctx, sql, args...)
}

// Close closes resources
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

type driverRows struct{ r driver.Rows }

func (d driverRows) Next() bool            { return d.r.Next() }
func (d driverRows) Scan(dst ...any) error { return d.r.Scan(dst...) }
func (d driverRows) Err() error            { return d.r.Err() }
func (d driverRows) Close() error          { return d.r.Close() }
func (d driverRows) Columns() []string     { return d.r.Columns() }

// sanitizeIdent keeps table names boring; callers pass constants, this just
// guards against accidental whitespace
func sanitizeIdent(s string) string { return strings.TrimSpace(s) }
