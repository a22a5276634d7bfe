package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor runs a unit of work.
type Transactor interface {
	// WithTx executes a function in a new transaction. The transaction is
	// committed when txFunc returns nil and rolled back otherwise.
	WithTx(ctx context.Context, txFunc func(DB) error) error
}

// DB is what repositories need from a pool or an open transaction.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row

	CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
	SendBatch(context.Context, *pgx.Batch) pgx.BatchResults

	Transactor
}

// HealthChecker reports database reachability for the health endpoint.
type HealthChecker interface {
	IsHealthy(ctx context.Context) (bool, error)
}

var (
	_ DB            = (*Client)(nil)
	_ HealthChecker = (*Client)(nil)
)

// Client is a DB backed by a pgx pool.
type Client struct {
	*pgxpool.Pool

	txOptions pgx.TxOptions
}

type ClientOption func(*Client)

// WithIsoLevel overrides the isolation level of transactions started by the
// client.
func WithIsoLevel(level pgx.TxIsoLevel) ClientOption {
	return func(c *Client) {
		c.txOptions.IsoLevel = level
	}
}

// NewClient creates a client whose transactions run at read committed unless
// overridden. Read-modify-write paths must lock the rows they change.
func NewClient(pool *pgxpool.Pool, opts ...ClientOption) *Client {
	c := &Client{
		Pool:      pool,
		txOptions: pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithTx commits when txFunc returns nil. On error or panic the transaction is
// rolled back, even if ctx has been cancelled meanwhile.
func (c *Client) WithTx(ctx context.Context, txFunc func(DB) error) error {
	tx, err := c.BeginTx(ctx, c.txOptions)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	rollback := func() error {
		rbErr := tx.Rollback(context.WithoutCancel(ctx))
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback transaction: %w", rbErr)
		}
		return nil
	}

	defer func() {
		if p := recover(); p != nil {
			_ = rollback()
			panic(p)
		}
	}()

	if err := txFunc(&txDB{Tx: tx}); err != nil {
		if rbErr := rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// IsHealthy reports whether a pooled connection answers a ping.
func (c *Client) IsHealthy(ctx context.Context) (bool, error) {
	if err := c.Ping(ctx); err != nil {
		return false, fmt.Errorf("ping database: %w", err)
	}
	return true, nil
}

// txDB binds repositories to an open transaction.
type txDB struct {
	pgx.Tx
}

// WithTx joins the open transaction instead of nesting a new one.
func (t *txDB) WithTx(_ context.Context, txFunc func(DB) error) error {
	return txFunc(t)
}
