package db

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTx stores a transaction in the context for repository methods to reuse.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns a transaction from context when available.
func TxFromContext(ctx context.Context) *sql.Tx {
	if ctx == nil {
		return nil
	}
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// TxProvider is implemented by stores backed by database/sql.
type TxProvider interface {
	BeginTx(ctx context.Context) (*sql.Tx, error)
}

// RunInTx runs fn in one transaction. A transaction already carried by ctx
// is joined instead of nested, and only the outermost call commits.
func RunInTx(ctx context.Context, p TxProvider, fn func(ctx context.Context, tx *sql.Tx) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(ctx, tx)
	}
	tx, err := p.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	if err := fn(WithTx(ctx, tx), tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Atomic runs fn with every repository call on s sharing one transaction.
// Stores without transactions run fn directly.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	p, ok := s.tx.(TxProvider)
	if !ok {
		return fn(ctx)
	}
	return RunInTx(ctx, p, func(ctx context.Context, _ *sql.Tx) error { return fn(ctx) })
}
