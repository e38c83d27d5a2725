package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog/log"

	"eventfinder/internal/geo"
)

// openDatabase establishes a database connection and retries until the instance responds.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(30 * time.Minute)

	const (
		pingTimeout    = 5 * time.Second
		maxWait        = 30 * time.Second
		initialBackoff = 500 * time.Millisecond
		maxBackoff     = 5 * time.Second
	)

	deadline := time.Now().Add(maxWait)
	backoff := initialBackoff
	var lastErr error

	for {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}

		if ctx.Err() != nil || time.Now().After(deadline) {
			break
		}

		log.Warn().Err(lastErr).Dur("retry_in", backoff).Msg("database not ready")
		select {
		case <-ctx.Done():
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, maxBackoff)
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}

// loadGeoIndex reads the region dataset from Postgres when dsn is set and
// falls back to the embedded copy otherwise.
func loadGeoIndex(ctx context.Context, dsn string) (*geo.Index, error) {
	if dsn == "" {
		return geo.Embedded()
	}

	db, err := openDatabase(ctx, dsn)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	ix, err := geo.NewPGSource(db).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load geo dataset: %w", err)
	}
	log.Info().Int("regions", len(ix.Regions())).Msg("geo dataset loaded from database")
	return ix, nil
}
