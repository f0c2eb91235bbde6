package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type txKey struct{}

// SQLExecutor is the method set shared by *sql.DB and *sql.Tx, so queries run
// the same whether or not a transaction is active.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session manages transactions. A transactional session carries its *sql.Tx
// inside the context it hands to the work function, where GetSQLExecutor
// picks it up.
type Session interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error)

	// DoTransactionally runs fn inside a new transaction, committing when fn
	// returns nil and rolling back otherwise.
	DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) error

	Rollback() error
	Commit() error

	// Context returns the context carrying the active transaction, if any.
	Context() context.Context

	GetExecutor() SQLExecutor
}

type sqlSession struct {
	db  *sql.DB
	tx  *sql.Tx
	ctx context.Context
	log *slog.Logger
}

func NewSession(db *sql.DB, log *slog.Logger) Session {
	return &sqlSession{
		db:  db,
		ctx: context.Background(),
		log: log,
	}
}

func (s *sqlSession) BeginTx(ctx context.Context, opts *sql.TxOptions) (Session, error) {
	tx, err := s.db.BeginTx(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("session: failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	return &sqlSession{
		db:  s.db,
		tx:  tx,
		ctx: txCtx,
		log: s.log,
	}, nil
}

func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(txCtx context.Context) error) (err error) {
	session, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("session: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = session.Rollback()
			panic(p)
		} else if err != nil {
			if rollbackErr := session.Rollback(); rollbackErr != nil {
				s.log.Error("failed to rollback transaction",
					slog.String("rollback_error", rollbackErr.Error()),
					slog.String("original_error", err.Error()))
			}
		} else {
			if commitErr := session.Commit(); commitErr != nil {
				err = fmt.Errorf("session: failed to commit transaction: %w", commitErr)
			}
		}
	}()

	err = fn(session.Context())
	return err
}

func (s *sqlSession) Rollback() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to rollback")
	}
	return s.tx.Rollback()
}

func (s *sqlSession) Commit() error {
	if s.tx == nil {
		return fmt.Errorf("session: no active transaction to commit")
	}
	return s.tx.Commit()
}

func (s *sqlSession) Context() context.Context {
	return s.ctx
}

func (s *sqlSession) GetExecutor() SQLExecutor {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// GetSQLExecutor returns the transaction stored in ctx, falling back to the
// pool when no transaction is active.
func GetSQLExecutor(ctx context.Context, fallbackDB *sql.DB) SQLExecutor {
	value := ctx.Value(txKey{})
	if value == nil {
		return fallbackDB
	}

	tx, ok := value.(*sql.Tx)
	if !ok {
		panic(fmt.Sprintf("session: value in context for txKey is not a *sql.Tx, but %T", value))
	}
	return tx
}

// DoTransactionally is the generic form returning the work function's result.
func DoTransactionally[T any](ctx context.Context, session Session, fn func(txCtx context.Context) (T, error)) (T, error) {
	var zero T
	var result T
	err := session.DoTransactionally(ctx, func(txCtx context.Context) error {
		r, err := fn(txCtx)
		result = r
		return err
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}
