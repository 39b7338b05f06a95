package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// sqlTable stores one category. bind exposes the batch metadata and the
// category columns of a record, in column order, as Scan destinations.
type sqlTable[T any] struct {
	db   *sql.DB
	name string
	bind func(rec *T) (*explorer.BatchMeta, []any)

	loadQuery   string
	insertQuery string
	evictQuery  string
}

func newSQLTable[T any](db *sql.DB, name string, columns []string, bind func(*T) (*explorer.BatchMeta, []any)) *sqlTable[T] {
	all := append([]string{"location_id", "created_at"}, columns...)
	placeholders := make([]string, len(all))
	for i := range all {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return &sqlTable[T]{
		db:   db,
		name: name,
		bind: bind,
		loadQuery: fmt.Sprintf("SELECT %s FROM %s WHERE location_id = $1 ORDER BY id",
			strings.Join(all, ", "), name),
		insertQuery: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			name, strings.Join(all, ", "), strings.Join(placeholders, ", ")),
		evictQuery: fmt.Sprintf("DELETE FROM %s WHERE location_id = $1", name),
	}
}

func (t *sqlTable[T]) Load(ctx context.Context, locationID int64) ([]T, error) {
	rows, err := t.db.QueryContext(ctx, t.loadQuery, locationID)
	if err != nil {
		return nil, storeFailure("load "+t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var rec T
		meta, fields := t.bind(&rec)
		dest := append([]any{&meta.LocationID, &meta.CreatedAt}, fields...)
		if err := rows.Scan(dest...); err != nil {
			return nil, storeFailure("scan "+t.name, err)
		}
		meta.CreatedAt = meta.CreatedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeFailure("load "+t.name, err)
	}
	return out, nil
}

func (t *sqlTable[T]) Insert(ctx context.Context, rec T) error {
	meta, fields := t.bind(&rec)
	args := []any{meta.LocationID, meta.CreatedAt.UTC()}
	for _, f := range fields {
		args = append(args, reflect.ValueOf(f).Elem().Interface())
	}
	if _, err := t.db.ExecContext(ctx, t.insertQuery, args...); err != nil {
		return storeFailure("insert "+t.name, err)
	}
	return nil
}

func (t *sqlTable[T]) Evict(ctx context.Context, locationID int64) error {
	if _, err := t.db.ExecContext(ctx, t.evictQuery, locationID); err != nil {
		return storeFailure("evict "+t.name, err)
	}
	return nil
}

func weatherTable(db *sql.DB) *sqlTable[explorer.Weather] {
	return newSQLTable(db, "weathers",
		[]string{"forecast", "time"},
		func(w *explorer.Weather) (*explorer.BatchMeta, []any) {
			return &w.BatchMeta, []any{&w.Forecast, &w.Time}
		})
}

func businessTable(db *sql.DB) *sqlTable[explorer.Business] {
	return newSQLTable(db, "yelps",
		[]string{"name", "image_url", "price", "rating", "url"},
		func(b *explorer.Business) (*explorer.BatchMeta, []any) {
			return &b.BatchMeta, []any{&b.Name, &b.ImageURL, &b.Price, &b.Rating, &b.URL}
		})
}

func movieTable(db *sql.DB) *sqlTable[explorer.Movie] {
	return newSQLTable(db, "movies",
		[]string{"title", "overview", "average_votes", "total_votes", "image_url", "popularity", "released_on"},
		func(m *explorer.Movie) (*explorer.BatchMeta, []any) {
			return &m.BatchMeta, []any{&m.Title, &m.Overview, &m.AverageVotes, &m.TotalVotes, &m.ImageURL, &m.Popularity, &m.ReleasedOn}
		})
}

func meetupTable(db *sql.DB) *sqlTable[explorer.Meetup] {
	return newSQLTable(db, "meetups",
		[]string{"link", "name", "creation_date", "host"},
		func(m *explorer.Meetup) (*explorer.BatchMeta, []any) {
			return &m.BatchMeta, []any{&m.Link, &m.Name, &m.CreationDate, &m.Host}
		})
}

func trailTable(db *sql.DB) *sqlTable[explorer.Trail] {
	return newSQLTable(db, "trails",
		[]string{"name", "location", "length", "stars", "star_votes", "summary", "trail_url", "conditions", "condition_date", "condition_time"},
		func(t *explorer.Trail) (*explorer.BatchMeta, []any) {
			return &t.BatchMeta, []any{&t.Name, &t.Location, &t.Length, &t.Stars, &t.StarVotes, &t.Summary, &t.TrailURL, &t.Conditions, &t.ConditionDate, &t.ConditionTime}
		})
}
