package schemacap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Different deployments of the order store may or may not have run the same
// migrations, so the delivery columns cannot be assumed. The detector probes
// for them once per process and exposes the result as a capability table;
// Refresh re-probes after the schema-fix migration runs.

// ExecPool is the minimal database surface needed for probing.
type ExecPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// probeOrderID can never match a real row, so probe writes have no effect.
const probeOrderID = "00000000-0000-0000-0000-000000000000"

// Capabilities reports which optional order columns exist.
type Capabilities struct {
	AccountColumns bool
	Metadata       bool
}

// Detector probes and caches schema capabilities.
type Detector struct {
	pool   ExecPool
	logger *slog.Logger

	mu   sync.Mutex
	caps *Capabilities
}

// NewDetector constructs a Detector over the given pool.
func NewDetector(pool ExecPool, logger *slog.Logger) *Detector {
	return &Detector{pool: pool, logger: logger}
}

// Capabilities returns the cached capability table, probing on first use.
func (d *Detector) Capabilities(ctx context.Context) Capabilities {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.caps == nil {
		caps := d.detect(ctx)
		d.caps = &caps
	}
	return *d.caps
}

// Refresh re-probes the schema and replaces the cached table.
func (d *Detector) Refresh(ctx context.Context) Capabilities {
	d.mu.Lock()
	defer d.mu.Unlock()
	caps := d.detect(ctx)
	d.caps = &caps
	return caps
}

func (d *Detector) detect(ctx context.Context) Capabilities {
	return Capabilities{
		AccountColumns: d.ColumnExists(ctx, "orders", "account_id"),
		Metadata:       d.ColumnExists(ctx, "orders", "metadata"),
	}
}

// ColumnExists issues a targeted write against an id that cannot match any
// row and inspects the error. Anything other than an undefined-column error,
// including transient failures, counts as existence: blocking a legitimate
// write because a probe hiccuped is worse than attempting it.
func (d *Detector) ColumnExists(ctx context.Context, table, column string) bool {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = %s WHERE id = $1`,
		pgx.Identifier{table}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
		pgx.Identifier{column}.Sanitize(),
	)

	_, err := d.pool.Exec(ctx, query, probeOrderID)
	if err == nil {
		return true
	}
	if isUndefinedColumn(err) {
		return false
	}

	d.logger.Warn("schema probe inconclusive, assuming column exists",
		slog.String("table", table),
		slog.String("column", column),
		slog.String("error", err.Error()),
	)
	return true
}

func isUndefinedColumn(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "42703"
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "column") && strings.Contains(msg, "does not exist")
}
