package geo

import (
	"context"
	"database/sql"
	"fmt"

	"eventfinder/shared/go/models"
)

// PGSource reads the geographic dataset from PostgreSQL. It is meant to be
// used once at process start; the resulting Index never goes back to the
// database.
type PGSource struct {
	db *sql.DB
}

// NewPGSource creates a source backed by the supplied database handle.
func NewPGSource(db *sql.DB) *PGSource {
	return &PGSource{db: db}
}

// Load fetches every region with its places, ordered by their stored
// positions, and builds an Index from them.
func (s *PGSource) Load(ctx context.Context) (*Index, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.name, r.code, COALESCE(p.name, '')
		FROM geo_regions r
		LEFT JOIN geo_places p ON p.region_id = r.id
		ORDER BY r.position ASC, p.position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	var (
		regions []models.Region
		last    string
	)
	for rows.Next() {
		var name, code, place string
		if err := rows.Scan(&name, &code, &place); err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}

		if len(regions) == 0 || name != last {
			regions = append(regions, models.Region{Name: name, Code: code, Places: []string{}})
			last = name
		}
		if place != "" {
			cur := &regions[len(regions)-1]
			cur.Places = append(cur.Places, place)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate regions: %w", err)
	}

	return NewIndex(regions)
}
