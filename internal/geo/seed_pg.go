package geo

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"eventfinder/shared/go/models"
)

// Migrations holds the schema for the dataset tables, in golang-migrate
// file naming.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// Replace swaps the stored dataset for regions in a single transaction,
// keeping the given region and place order.
func (s *PGSource) Replace(ctx context.Context, regions []models.Region) error {
	if len(regions) == 0 {
		return ErrEmptyDataset
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if tx != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM geo_regions`); err != nil {
		return fmt.Errorf("clear regions: %w", err)
	}

	for i, r := range regions {
		if err := insertRegion(ctx, tx, i, r); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	tx = nil
	return nil
}

func insertRegion(ctx context.Context, tx *sql.Tx, position int, r models.Region) error {
	var regionID int64
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO geo_regions (name, code, position)
		VALUES ($1, $2, $3)
		RETURNING id
	`, r.Name, r.Code, position).Scan(&regionID); err != nil {
		return fmt.Errorf("insert region %s: %w", r.Name, err)
	}

	for j, place := range r.Places {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO geo_places (region_id, name, position)
			VALUES ($1, $2, $3)
		`, regionID, place, j); err != nil {
			return fmt.Errorf("insert place %s, %s: %w", place, r.Name, err)
		}
	}
	return nil
}
