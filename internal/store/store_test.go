package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-explorer/internal/explorer"
)

func setupTestDB(t *testing.T) *SQL {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err, "failed to open db")
	t.Cleanup(func() { db.Close() })
	return db
}

// implementations runs fn against every store backend.
func implementations(t *testing.T, fn func(t *testing.T, stores explorer.Stores)) {
	t.Run("sqlite", func(t *testing.T) {
		fn(t, setupTestDB(t).Stores())
	})
	t.Run("memory", func(t *testing.T) {
		fn(t, NewMemory().Stores())
	})
}

var batchTime = time.Date(2024, 3, 1, 12, 0, 0, 123456000, time.UTC)

func createSeattle(t *testing.T, stores explorer.Stores) explorer.Location {
	t.Helper()
	loc, err := stores.Locations.CreateLocation(context.Background(), explorer.Location{
		SearchQuery:    "Seattle",
		FormattedQuery: "Seattle, WA, USA",
		Latitude:       47.6062095,
		Longitude:      -122.3320708,
		CreatedAt:      batchTime,
	})
	require.NoError(t, err)
	return loc
}

func TestLocations(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		ctx := context.Background()

		_, err := stores.Locations.FindLocation(ctx, "Seattle")
		assert.ErrorIs(t, err, explorer.ErrNotFound)

		created := createSeattle(t, stores)
		assert.NotZero(t, created.ID)

		found, err := stores.Locations.FindLocation(ctx, "Seattle")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, "Seattle, WA, USA", found.FormattedQuery)
		assert.InDelta(t, 47.6062095, found.Latitude, 1e-9)
		assert.InDelta(t, -122.3320708, found.Longitude, 1e-9)
		assert.True(t, batchTime.Equal(found.CreatedAt), "created_at %v", found.CreatedAt)

		_, err = stores.Locations.FindLocation(ctx, "seattle")
		assert.ErrorIs(t, err, explorer.ErrNotFound, "search text is matched exactly")
	})
}

func TestCreateLocationConflict(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		first := createSeattle(t, stores)

		_, err := stores.Locations.CreateLocation(context.Background(), explorer.Location{
			SearchQuery:    "Seattle",
			FormattedQuery: "Somewhere else",
			CreatedAt:      batchTime.Add(time.Hour),
		})
		assert.ErrorIs(t, err, explorer.ErrLocationExists)

		found, err := stores.Locations.FindLocation(context.Background(), "Seattle")
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, "Seattle, WA, USA", found.FormattedQuery)
	})
}

func TestConcurrentCreateLocation(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			created   int
			conflicts int
		)
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := stores.Locations.CreateLocation(context.Background(), explorer.Location{
					SearchQuery: "Denver",
					CreatedAt:   batchTime,
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case assert.ErrorIs(t, err, explorer.ErrLocationExists):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, 7, conflicts)
	})
}

func TestBatchRoundTrip(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		ctx := context.Background()
		loc := createSeattle(t, stores)
		meta := explorer.BatchMeta{LocationID: loc.ID, CreatedAt: batchTime}

		empty, err := stores.Weather.Load(ctx, loc.ID)
		require.NoError(t, err)
		assert.Empty(t, empty)

		days := []explorer.Weather{
			{Forecast: "Sunny", Time: "Fri Mar 01 2024", BatchMeta: meta},
			{Forecast: "Rain", Time: "Sat Mar 02 2024", BatchMeta: meta},
			{Forecast: "Snow", Time: "Sun Mar 03 2024", BatchMeta: meta},
		}
		for _, d := range days {
			require.NoError(t, stores.Weather.Insert(ctx, d))
		}

		got, err := stores.Weather.Load(ctx, loc.ID)
		require.NoError(t, err)
		require.Len(t, got, 3)
		for i, d := range got {
			assert.Equal(t, days[i].Forecast, d.Forecast, "insertion order is kept")
			assert.Equal(t, days[i].Time, d.Time)
			assert.Equal(t, loc.ID, d.LocationID)
			assert.True(t, batchTime.Equal(d.CreatedAt), "created_at %v", d.CreatedAt)
		}

		require.NoError(t, stores.Weather.Evict(ctx, loc.ID))
		got, err = stores.Weather.Load(ctx, loc.ID)
		require.NoError(t, err)
		assert.Empty(t, got)

		assert.NoError(t, stores.Weather.Evict(ctx, loc.ID), "evicting nothing is not an error")
	})
}

func TestEveryCategoryTable(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		ctx := context.Background()
		loc := createSeattle(t, stores)
		meta := explorer.BatchMeta{LocationID: loc.ID, CreatedAt: batchTime}

		business := explorer.Business{Name: "Pike Place Chowder", ImageURL: "https://img/1.jpg", Price: "$$", Rating: 4.5, URL: "https://yelp/1", BatchMeta: meta}
		require.NoError(t, stores.Businesses.Insert(ctx, business))
		businesses, err := stores.Businesses.Load(ctx, loc.ID)
		require.NoError(t, err)
		require.Len(t, businesses, 1)
		assert.Equal(t, business.Name, businesses[0].Name)
		assert.Equal(t, business.Price, businesses[0].Price)
		assert.Equal(t, business.Rating, businesses[0].Rating)

		movie := explorer.Movie{Title: "Sleepless in Seattle", Overview: "A widower...", AverageVotes: 6.6, TotalVotes: 1500, ImageURL: "https://image.tmdb.org/p.jpg", Popularity: 12.3, ReleasedOn: "1993-06-24", BatchMeta: meta}
		require.NoError(t, stores.Movies.Insert(ctx, movie))
		movies, err := stores.Movies.Load(ctx, loc.ID)
		require.NoError(t, err)
		require.Len(t, movies, 1)
		assert.Equal(t, movie.Title, movies[0].Title)
		assert.Equal(t, movie.TotalVotes, movies[0].TotalVotes)
		assert.Equal(t, movie.ReleasedOn, movies[0].ReleasedOn)

		meetup := explorer.Meetup{Link: "https://meetup/1", Name: "Go Night", CreationDate: "Fri Mar 01 2024", Host: "Seattle Gophers", BatchMeta: meta}
		require.NoError(t, stores.Meetups.Insert(ctx, meetup))
		meetups, err := stores.Meetups.Load(ctx, loc.ID)
		require.NoError(t, err)
		require.Len(t, meetups, 1)
		assert.Equal(t, meetup.Host, meetups[0].Host)

		trail := explorer.Trail{Name: "Rattlesnake Ledge", Location: "North Bend", Length: 4, Stars: 4.3, StarVotes: 80, Summary: "Views", TrailURL: "https://trail/1", Conditions: "All Clear", ConditionDate: "2024-02-28", ConditionTime: "10:00:00", BatchMeta: meta}
		require.NoError(t, stores.Trails.Insert(ctx, trail))
		trails, err := stores.Trails.Load(ctx, loc.ID)
		require.NoError(t, err)
		require.Len(t, trails, 1)
		assert.Equal(t, trail.StarVotes, trails[0].StarVotes)
		assert.Equal(t, trail.ConditionTime, trails[0].ConditionTime)

		// Categories do not share rows.
		weather, err := stores.Weather.Load(ctx, loc.ID)
		require.NoError(t, err)
		assert.Empty(t, weather)
	})
}

func TestEvictIsScopedToLocation(t *testing.T) {
	implementations(t, func(t *testing.T, stores explorer.Stores) {
		ctx := context.Background()
		seattle := createSeattle(t, stores)
		denver, err := stores.Locations.CreateLocation(ctx, explorer.Location{SearchQuery: "Denver", CreatedAt: batchTime})
		require.NoError(t, err)

		for _, id := range []int64{seattle.ID, denver.ID} {
			require.NoError(t, stores.Movies.Insert(ctx, explorer.Movie{
				Title:     "Movie",
				BatchMeta: explorer.BatchMeta{LocationID: id, CreatedAt: batchTime},
			}))
		}

		require.NoError(t, stores.Movies.Evict(ctx, seattle.ID))

		gone, err := stores.Movies.Load(ctx, seattle.ID)
		require.NoError(t, err)
		assert.Empty(t, gone)

		kept, err := stores.Movies.Load(ctx, denver.ID)
		require.NoError(t, err)
		assert.Len(t, kept, 1)
	})
}

func TestOpenSelectsDriver(t *testing.T) {
	db, err := Open(context.Background(), "sqlite://:memory:")
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite3", db.Driver())
	assert.NoError(t, db.Ping(context.Background()))
}

func TestClosedDatabaseIsUnavailable(t *testing.T) {
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	stores := db.Stores()
	require.NoError(t, db.Close())

	_, err = stores.Locations.FindLocation(context.Background(), "Seattle")
	assert.ErrorIs(t, err, explorer.ErrStoreUnavailable)

	_, err = stores.Trails.Load(context.Background(), 1)
	assert.ErrorIs(t, err, explorer.ErrStoreUnavailable)

	err = stores.Trails.Evict(context.Background(), 1)
	assert.ErrorIs(t, err, explorer.ErrStoreUnavailable)
}
