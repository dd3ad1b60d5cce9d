package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction lets a host scope a batch of record inserts to one
// transaction; stores pick it up via GetTransaction and fall back to the
// pool when absent.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
