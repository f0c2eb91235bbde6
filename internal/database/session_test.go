package database

import (
	"context"
	"database/sql"
	"testing"
)

func TestGetSQLExecutorFallsBackToPool(t *testing.T) {
	db := &sql.DB{}

	executor := GetSQLExecutor(context.Background(), db)
	if executor != db {
		t.Fatalf("expected the pool when no transaction is active")
	}
}

func TestGetSQLExecutorPrefersTransaction(t *testing.T) {
	tx := &sql.Tx{}
	ctx := context.WithValue(context.Background(), txKey{}, tx)

	executor := GetSQLExecutor(ctx, &sql.DB{})
	if executor != tx {
		t.Fatalf("expected the transaction stored in the context")
	}
}
