package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/i474232898/city-explorer/internal/explorer"
)

type sqlLocations struct {
	db *sql.DB
}

func (s *sqlLocations) FindLocation(ctx context.Context, searchQuery string) (explorer.Location, error) {
	var loc explorer.Location
	err := s.db.QueryRowContext(ctx,
		`SELECT id, search_query, formatted_query, latitude, longitude, created_at
		   FROM locations WHERE search_query = $1`, searchQuery).
		Scan(&loc.ID, &loc.SearchQuery, &loc.FormattedQuery, &loc.Latitude, &loc.Longitude, &loc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return explorer.Location{}, explorer.ErrNotFound
	}
	if err != nil {
		return explorer.Location{}, storeFailure("find location", err)
	}
	loc.CreatedAt = loc.CreatedAt.UTC()
	return loc, nil
}

func (s *sqlLocations) CreateLocation(ctx context.Context, loc explorer.Location) (explorer.Location, error) {
	loc.CreatedAt = loc.CreatedAt.UTC()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO locations (search_query, formatted_query, latitude, longitude, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (search_query) DO NOTHING
		 RETURNING id`,
		loc.SearchQuery, loc.FormattedQuery, loc.Latitude, loc.Longitude, loc.CreatedAt).
		Scan(&loc.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return explorer.Location{}, explorer.ErrLocationExists
	}
	if err != nil {
		return explorer.Location{}, storeFailure("create location", err)
	}
	return loc, nil
}
