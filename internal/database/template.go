package database

import (
	"context"
	"database/sql"
	"time"
)

// SQLTemplate runs statements against the pool, or against the transaction
// carried by the context, with a per-statement timeout.
type SQLTemplate struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewSQLTemplate(db *sql.DB, timeout time.Duration) *SQLTemplate {
	return &SQLTemplate{
		DB:      db,
		Timeout: timeout,
	}
}

func ExecuteQuery[T any](template *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) ([]T, error) {
	queryCtx, cancel := context.WithTimeout(ctx, template.Timeout)
	defer cancel()

	executor := GetSQLExecutor(ctx, template.DB)
	rows, err := executor.QueryContext(queryCtx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []T
	for rows.Next() {
		t, err := extractor(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// ExecuteSingleQuery expects exactly one row and returns sql.ErrNoRows when
// the statement produces none.
func ExecuteSingleQuery[T any](template *SQLTemplate, ctx context.Context, query string, extractor func(rows *sql.Rows) (T, error), args ...any) (T, error) {
	var zero T

	queryCtx, cancel := context.WithTimeout(ctx, template.Timeout)
	defer cancel()

	executor := GetSQLExecutor(ctx, template.DB)
	rows, err := executor.QueryContext(queryCtx, query, args...)
	if err != nil {
		return zero, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return zero, err
		}
		return zero, sql.ErrNoRows
	}

	result, err := extractor(rows)
	if err != nil {
		return zero, err
	}

	return result, rows.Err()
}

// ExecuteUpdate runs a statement and returns the number of affected rows.
func ExecuteUpdate(template *SQLTemplate, ctx context.Context, query string, args ...any) (int64, error) {
	queryCtx, cancel := context.WithTimeout(ctx, template.Timeout)
	defer cancel()

	executor := GetSQLExecutor(ctx, template.DB)
	result, err := executor.ExecContext(queryCtx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
