package explorer

import "time"

// Category names one kind of cached data.
type Category string

const (
	CategoryWeather    Category = "weather"
	CategoryBusinesses Category = "yelp"
	CategoryMovies     Category = "movies"
	CategoryMeetups    Category = "meetups"
	CategoryTrails     Category = "trails"
)

// Categories lists every cached category in a stable order.
var Categories = []Category{
	CategoryWeather,
	CategoryBusinesses,
	CategoryMovies,
	CategoryMeetups,
	CategoryTrails,
}

// maxAges are fixed policy, not configuration.
var maxAges = map[Category]time.Duration{
	CategoryWeather:    60 * time.Minute,
	CategoryBusinesses: 360 * time.Minute,
	CategoryMovies:     720 * time.Minute,
	CategoryMeetups:    720 * time.Minute,
	CategoryTrails:     1440 * time.Minute,
}

// MaxAge returns how long a batch of this category stays fresh.
func (c Category) MaxAge() time.Duration {
	return maxAges[c]
}

func (c Category) String() string {
	return string(c)
}
