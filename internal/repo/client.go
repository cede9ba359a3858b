package repo

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/google/uuid"

	"github.com/Alijeyrad/transfers_backend/internal/repo/migrate"
)

// builder renders every statement for PostgreSQL.
var builder = sql.Dialect(dialect.Postgres)

// Client is the entry point to the transfers database. All reads and writes
// go through the ent SQL builders and the configured dialect driver.
type Client struct {
	driver dialect.Driver
	// Schema is the client for creating, migrating and dropping schema.
	Schema *migrate.Schema
}

type options struct {
	driver dialect.Driver
}

// Option configures the client.
type Option func(*options)

// Driver configures the client driver.
func Driver(driver dialect.Driver) Option {
	return func(o *options) {
		o.driver = driver
	}
}

// NewClient creates a new client configured with the given options.
func NewClient(opts ...Option) *Client {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{driver: o.driver, Schema: migrate.NewSchema(o.driver)}
}

// Open opens a database/sql.DB specified by the driver name and the data
// source name, and returns a new client attached to it.
func Open(driverName, dataSourceName string) (*Client, error) {
	if driverName != dialect.Postgres {
		return nil, fmt.Errorf("unsupported driver: %q", driverName)
	}
	drv, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	return NewClient(Driver(drv)), nil
}

// Close closes the database connection and prevents new queries from starting.
func (c *Client) Close() error {
	return c.driver.Close()
}

// WithTx runs fn inside a transaction. Nested calls reuse the outer
// transaction; only the outermost call commits or rolls back.
func (c *Client) WithTx(ctx context.Context, fn func(tx *Client) error) error {
	if _, ok := c.driver.(*txDriver); ok {
		return fn(c)
	}

	tx, err := c.driver.Tx(ctx)
	if err != nil {
		return fmt.Errorf("starting a transaction: %w", err)
	}
	txc := &Client{driver: &txDriver{drv: c.driver, tx: tx}, Schema: c.Schema}

	defer func() {
		if v := recover(); v != nil {
			_ = tx.Rollback()
			panic(v)
		}
	}()

	if err := fn(txc); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rolling back transaction: %w", rerr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// txDriver wraps the given dialect.Tx with a nop dialect.Driver implementation.
// Commit and Rollback belong to the WithTx call that opened it.
type txDriver struct {
	drv dialect.Driver
	tx  dialect.Tx
}

func (tx *txDriver) Tx(context.Context) (dialect.Tx, error) { return tx, nil }

func (tx *txDriver) Dialect() string { return tx.drv.Dialect() }

func (*txDriver) Close() error { return nil }

func (*txDriver) Commit() error { return nil }

func (*txDriver) Rollback() error { return nil }

func (tx *txDriver) Exec(ctx context.Context, query string, args, v any) error {
	return tx.tx.Exec(ctx, query, args, v)
}

func (tx *txDriver) Query(ctx context.Context, query string, args, v any) error {
	return tx.tx.Query(ctx, query, args, v)
}

var _ dialect.Driver = (*txDriver)(nil)

type querier interface {
	Query() (string, []any)
}

// scan runs q and scans every row into dest, a pointer to a slice.
func (c *Client) scan(ctx context.Context, q querier, dest any) error {
	query, args := q.Query()
	rows := &sql.Rows{}
	if err := c.driver.Query(ctx, query, args, rows); err != nil {
		return err
	}
	defer rows.Close()
	return sql.ScanSlice(rows, dest)
}

// exec runs q and returns the number of affected rows.
func (c *Client) exec(ctx context.Context, q querier) (int64, error) {
	query, args := q.Query()
	var res stdsql.Result
	if err := c.driver.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func all[T any](ctx context.Context, c *Client, sel *sql.Selector) ([]*T, error) {
	var out []*T
	if err := c.scan(ctx, sel, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func first[T any](ctx context.Context, c *Client, sel *sql.Selector, label string) (*T, error) {
	out, err := all[T](ctx, c, sel.Limit(1))
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, &NotFoundError{label: label}
	}
	return out[0], nil
}

// newID returns a time-ordered UUID for new rows.
func newID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

func columns(t *schema.Table) []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

func selectFrom(t *schema.Table) *sql.Selector {
	return builder.Select(columns(t)...).From(builder.Table(t.Name))
}
