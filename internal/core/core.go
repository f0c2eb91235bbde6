package core

import (
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"
	"github.com/mdobak/go-xerrors"

	"github.com/goconduit/conduit/internal/database"
)

var NoRecordFound = xerrors.Message("no record found")

// Core owns every statement issued against the relational store. Statements
// run on the pool, or on the transaction carried by ctx when a handler opened
// one through the session.
type Core struct {
	log         *slog.Logger
	db          *sql.DB
	sqlTemplate *database.SQLTemplate
}

func NewCore(dbConn *sql.DB, log *slog.Logger, sqlTemplate *database.SQLTemplate) *Core {
	return &Core{
		log:         log,
		db:          dbConn,
		sqlTemplate: sqlTemplate,
	}
}

const uniqueViolationCode = "23505"

// isUniqueViolation matches a postgres unique-constraint error, optionally
// narrowed to a named constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	if pqErr.Code != uniqueViolationCode {
		return false
	}
	return constraint == "" || pqErr.Constraint == constraint
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
