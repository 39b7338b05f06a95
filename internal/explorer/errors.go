package explorer

import "errors"

var (
	// ErrProviderUnavailable is returned when an upstream API could not be reached
	// or answered with a failure status.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderEmpty is returned when an upstream API answered but had no usable results.
	ErrProviderEmpty = errors.New("provider returned no results")

	// ErrStoreUnavailable is returned when a query, insert or delete against the store fails.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound is returned by stores when no location matches a search query.
	ErrNotFound = errors.New("not found")

	// ErrLocationExists is returned by stores when a location insert lost a race
	// against another insert of the same search query.
	ErrLocationExists = errors.New("location already exists")

	// ErrInvalidQuery is returned for empty search text.
	ErrInvalidQuery = errors.New("search query must not be empty")
)
