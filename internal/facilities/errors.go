package facilities

import "errors"

var (
	// ErrLocationNotFound is returned when geocoding yields no result.
	ErrLocationNotFound = errors.New("facilities: location not found")
	// ErrOriginRequired is returned when a search has neither coordinates nor a query.
	ErrOriginRequired = errors.New("facilities: a location or search query is required")
	ErrInvalidOrigin  = errors.New("facilities: coordinates out of range")
	// ErrUpstream wraps failures talking to Overpass or Nominatim.
	ErrUpstream = errors.New("facilities: upstream lookup failed")
)
