package explorer

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var errBoom = errors.New("boom")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// batchStore is an in-memory BatchStore that counts calls.
type batchStore[T Record[T]] struct {
	mu      sync.Mutex
	rows    map[int64][]T
	loads   int
	inserts int
	evicts  int

	loadErr   error
	evictErr  error
	insertErr error
	// failInsertAt makes the n-th insert (1-based, counted from creation) fail.
	failInsertAt int
}

func newBatchStore[T Record[T]]() *batchStore[T] {
	return &batchStore[T]{rows: make(map[int64][]T)}
}

func (s *batchStore[T]) Load(_ context.Context, locationID int64) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	out := make([]T, len(s.rows[locationID]))
	copy(out, s.rows[locationID])
	return out, nil
}

func (s *batchStore[T]) Insert(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inserts++
	if s.insertErr != nil && s.inserts >= s.failInsertAt {
		return s.insertErr
	}
	id := rec.Batch().LocationID
	s.rows[id] = append(s.rows[id], rec)
	return nil
}

func (s *batchStore[T]) Evict(_ context.Context, locationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evicts++
	if s.evictErr != nil {
		return s.evictErr
	}
	delete(s.rows, locationID)
	return nil
}

func (s *batchStore[T]) stored(locationID int64) []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.rows[locationID]...)
}

func (s *batchStore[T]) mutations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inserts + s.evicts
}

// countingFetcher returns the result of next for every call and counts calls.
type countingFetcher[T any] struct {
	mu    sync.Mutex
	calls int
	next  func(ctx context.Context, call int, loc Location) ([]T, error)
}

func (f *countingFetcher[T]) Name() string {
	return "fake"
}

func (f *countingFetcher[T]) Fetch(ctx context.Context, loc Location) ([]T, error) {
	f.mu.Lock()
	f.calls++
	call := f.calls
	f.mu.Unlock()
	return f.next(ctx, call, loc)
}

func (f *countingFetcher[T]) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func weatherDays(call int) []Weather {
	summary := "Sunny"
	if call > 1 {
		summary = "Rain"
	}
	return []Weather{
		{Forecast: summary, Time: "Fri Mar 01 2024"},
		{Forecast: summary, Time: "Sat Mar 02 2024"},
		{Forecast: summary, Time: "Sun Mar 03 2024"},
	}
}

func newWeatherFetcher() *countingFetcher[Weather] {
	return &countingFetcher[Weather]{
		next: func(_ context.Context, call int, _ Location) ([]Weather, error) {
			return weatherDays(call), nil
		},
	}
}

// locationStore is an in-memory LocationStore that counts calls.
type locationStore struct {
	mu      sync.Mutex
	rows    map[string]Location
	nextID  int64
	finds   int
	creates int

	findErr   error
	createErr error
	// beforeCreate runs inside CreateLocation before the conflict check.
	beforeCreate func(s *locationStore)
}

func newLocationStore() *locationStore {
	return &locationStore{rows: make(map[string]Location)}
}

func (s *locationStore) FindLocation(_ context.Context, searchQuery string) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.findErr != nil {
		return Location{}, s.findErr
	}
	loc, ok := s.rows[searchQuery]
	if !ok {
		return Location{}, ErrNotFound
	}
	return loc, nil
}

func (s *locationStore) CreateLocation(_ context.Context, loc Location) (Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return Location{}, s.createErr
	}
	if s.beforeCreate != nil {
		s.beforeCreate(s)
	}
	if _, ok := s.rows[loc.SearchQuery]; ok {
		return Location{}, ErrLocationExists
	}
	s.insertLocked(&loc)
	return loc, nil
}

func (s *locationStore) insertLocked(loc *Location) {
	s.nextID++
	loc.ID = s.nextID
	s.rows[loc.SearchQuery] = *loc
}

type countingGeocoder struct {
	mu    sync.Mutex
	calls int
	fn    func(query string) (Location, error)
}

func (g *countingGeocoder) Name() string {
	return "fake-geocoder"
}

func (g *countingGeocoder) Geocode(_ context.Context, query string) (Location, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()
	return g.fn(query)
}

func (g *countingGeocoder) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func denverGeocoder() *countingGeocoder {
	return &countingGeocoder{
		fn: func(query string) (Location, error) {
			return Location{
				FormattedQuery: "Denver, CO, USA",
				Latitude:       39.7392358,
				Longitude:      -104.990251,
			}, nil
		},
	}
}
