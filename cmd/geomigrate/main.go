// Command geomigrate manages the optional Postgres copy of the region
// dataset: "up" and "down" apply the schema, "seed" loads the embedded
// regions and places into it.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"eventfinder/internal/geo"
	"eventfinder/shared/go/logging"
)

const usage = "usage: geomigrate up|down|seed"

func main() {
	logging.SetGlobalLogger(logging.New(logging.Config{Level: "info", Format: "text", Output: os.Stderr}))

	if len(os.Args) != 2 {
		log.Fatal().Msg(usage)
	}

	_ = godotenv.Load("config/local.env")
	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		log.Fatal().Msg("DATABASE_URL is required")
	}

	if err := run(context.Background(), os.Args[1], dsn); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("geomigrate failed")
	}
}

func run(ctx context.Context, command, dsn string) error {
	switch command {
	case "up", "down", "seed":
	default:
		return errors.New(usage)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	if command == "seed" {
		return seed(ctx, db)
	}
	return migrateSchema(db, command)
}

func migrateSchema(db *sql.DB, direction string) error {
	src, err := iofs.New(geo.Migrations, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	if direction == "up" {
		err = m.Up()
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate %s: %w", direction, err)
	}

	log.Info().Str("direction", direction).Msg("geo migrations applied")
	return nil
}

func seed(ctx context.Context, db *sql.DB) error {
	ix, err := geo.Embedded()
	if err != nil {
		return err
	}

	regions := ix.Dataset()
	if err := geo.NewPGSource(db).Replace(ctx, regions); err != nil {
		return err
	}

	places := 0
	for _, r := range regions {
		places += len(r.Places)
	}
	log.Info().Int("regions", len(regions)).Int("places", places).Msg("geo dataset seeded")
	return nil
}
