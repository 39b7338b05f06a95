package explorer

import (
	"time"
)

// Location is a resolved place. It is created once per unique search query
// and never changes afterwards; its ID keys every other category.
type Location struct {
	ID             int64     `json:"id"`
	SearchQuery    string    `json:"search_query"`
	FormattedQuery string    `json:"formatted_query"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	CreatedAt      time.Time `json:"created_at"`
}

// BatchMeta is carried by every category record. All records persisted by one
// provider fetch share the same CreatedAt, which marks the freshness of the
// whole batch.
type BatchMeta struct {
	LocationID int64     `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Batch returns the batch metadata of a record.
func (m BatchMeta) Batch() BatchMeta {
	return m
}

// Record is implemented by every cached category type.
type Record[T any] interface {
	Batch() BatchMeta
	withBatch(BatchMeta) T
}

// Weather is one forecast day.
type Weather struct {
	Forecast string `json:"forecast"`
	Time     string `json:"time"`
	BatchMeta
}

func (w Weather) withBatch(m BatchMeta) Weather {
	w.BatchMeta = m
	return w
}

// Business is a nearby business as listed by Yelp.
type Business struct {
	Name     string  `json:"name"`
	ImageURL string  `json:"image_url"`
	Price    string  `json:"price"`
	Rating   float64 `json:"rating"`
	URL      string  `json:"url"`
	BatchMeta
}

func (b Business) withBatch(m BatchMeta) Business {
	b.BatchMeta = m
	return b
}

// Movie is a film whose title matched the location's search text.
type Movie struct {
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	AverageVotes float64 `json:"average_votes"`
	TotalVotes   int     `json:"total_votes"`
	ImageURL     string  `json:"image_url"`
	Popularity   float64 `json:"popularity"`
	ReleasedOn   string  `json:"released_on"`
	BatchMeta
}

func (mv Movie) withBatch(m BatchMeta) Movie {
	mv.BatchMeta = m
	return mv
}

// Meetup is an upcoming event near the location.
type Meetup struct {
	Link         string `json:"link"`
	Name         string `json:"name"`
	CreationDate string `json:"creation_date"`
	Host         string `json:"host"`
	BatchMeta
}

func (mt Meetup) withBatch(m BatchMeta) Meetup {
	mt.BatchMeta = m
	return mt
}

// Trail is a hiking trail near the location.
type Trail struct {
	Name          string  `json:"name"`
	Location      string  `json:"location"`
	Length        float64 `json:"length"`
	Stars         float64 `json:"stars"`
	StarVotes     int     `json:"star_votes"`
	Summary       string  `json:"summary"`
	TrailURL      string  `json:"trail_url"`
	Conditions    string  `json:"conditions"`
	ConditionDate string  `json:"condition_date"`
	ConditionTime string  `json:"condition_time"`
	BatchMeta
}

func (t Trail) withBatch(m BatchMeta) Trail {
	t.BatchMeta = m
	return t
}
