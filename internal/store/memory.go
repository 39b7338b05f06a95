package store

import (
	"context"
	"sync"

	"github.com/i474232898/city-explorer/internal/explorer"
)

// Memory is a concurrency-safe in-memory store with the same contract as SQL.
// It backs tests; the server always uses SQL.
type Memory struct {
	locations *memoryLocations

	weather    *memoryTable[explorer.Weather]
	businesses *memoryTable[explorer.Business]
	movies     *memoryTable[explorer.Movie]
	meetups    *memoryTable[explorer.Meetup]
	trails     *memoryTable[explorer.Trail]
}

func NewMemory() *Memory {
	return &Memory{
		locations:  &memoryLocations{data: make(map[string]explorer.Location)},
		weather:    newMemoryTable[explorer.Weather](),
		businesses: newMemoryTable[explorer.Business](),
		movies:     newMemoryTable[explorer.Movie](),
		meetups:    newMemoryTable[explorer.Meetup](),
		trails:     newMemoryTable[explorer.Trail](),
	}
}

func (m *Memory) Stores() explorer.Stores {
	return explorer.Stores{
		Locations:  m.locations,
		Weather:    m.weather,
		Businesses: m.businesses,
		Movies:     m.movies,
		Meetups:    m.meetups,
		Trails:     m.trails,
	}
}

type memoryLocations struct {
	mu     sync.RWMutex
	data   map[string]explorer.Location // key: search query
	nextID int64
}

func (s *memoryLocations) FindLocation(_ context.Context, searchQuery string) (explorer.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	loc, ok := s.data[searchQuery]
	if !ok {
		return explorer.Location{}, explorer.ErrNotFound
	}
	return loc, nil
}

func (s *memoryLocations) CreateLocation(_ context.Context, loc explorer.Location) (explorer.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data[loc.SearchQuery]; ok {
		return explorer.Location{}, explorer.ErrLocationExists
	}
	s.nextID++
	loc.ID = s.nextID
	s.data[loc.SearchQuery] = loc
	return loc, nil
}

// memoryTable holds the rows of one category in insertion order per location.
type memoryTable[T explorer.Record[T]] struct {
	mu   sync.RWMutex
	rows map[int64][]T // key: location ID
}

func newMemoryTable[T explorer.Record[T]]() *memoryTable[T] {
	return &memoryTable[T]{rows: make(map[int64][]T)}
}

func (t *memoryTable[T]) Load(_ context.Context, locationID int64) ([]T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rows := t.rows[locationID]
	if len(rows) == 0 {
		return nil, nil
	}
	out := make([]T, len(rows))
	copy(out, rows)
	return out, nil
}

func (t *memoryTable[T]) Insert(_ context.Context, rec T) error {
	id := rec.Batch().LocationID

	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows[id] = append(t.rows[id], rec)
	return nil
}

func (t *memoryTable[T]) Evict(_ context.Context, locationID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.rows, locationID)
	return nil
}
