package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/golang-cz/devslog"
	_ "github.com/lib/pq"

	"github.com/goconduit/conduit/internal/auth"
	"github.com/goconduit/conduit/internal/config"
	"github.com/goconduit/conduit/internal/core"
	"github.com/goconduit/conduit/internal/database"
)

type application struct {
	config  config.Config
	logger  *slog.Logger
	auth    *auth.Auth
	core    *core.Core
	session database.Session
}

func main() {
	cfg := config.Load()
	logger := configLogger()
	logger.Info("starting application")

	db, err := openDBConnection(cfg)
	if err != nil {
		logger.Error("opening database connection", "error", err)
		os.Exit(1)
	}

	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("closing database connection", "error", err)
		}
	}()

	logger.Info("database connection established")

	sqlTemplate := database.NewSQLTemplate(db, cfg.DBTimeout)
	app := &application{
		config:  cfg,
		logger:  logger,
		auth:    auth.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL),
		core:    core.NewCore(db, logger, sqlTemplate),
		session: database.NewSession(db, logger),
	}

	if err := app.serve(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func configLogger() *slog.Logger {
	handler := devslog.NewHandler(
		os.Stdout, &devslog.Options{
			HandlerOptions: &slog.HandlerOptions{
				AddSource: true,
				Level:     slog.LevelDebug,
			},
			NewLineAfterLog: false,
		})

	return slog.New(handler)
}

func openDBConnection(cfg config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}
