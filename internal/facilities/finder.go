package facilities

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/care-portal/pkg/logging"
)

var facilitiesTracer = otel.Tracer("careportal.internal.facilities")

type nearbyFetcher interface {
	Nearby(ctx context.Context, p Point, radiusMeters int) ([]Element, error)
}

// Geocoder resolves a free-text place to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (Point, error)
}

// Facility is a healthcare location near the search origin.
type Facility struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       Type    `json:"type"`
	TypeLabel  string  `json:"type_label"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	Address    string  `json:"address,omitempty"`
	DistanceKm float64 `json:"distance_km"`
}

// Point returns the facility's coordinate.
func (f Facility) Point() Point {
	return Point{Lat: f.Lat, Lng: f.Lng}
}

// Query is the per-request search state: where the patient is, what they
// typed, and which facility type they filtered on.
type Query struct {
	Origin *Point
	// Q is a free-text place, geocoded when set. It wins over Origin.
	Q string
	// Type filters results; "" and "all" keep every type.
	Type         string
	RadiusMeters int
}

// Result is a completed search.
type Result struct {
	Origin     Point      `json:"origin"`
	Facilities []Facility `json:"facilities"`
}

// Finder searches for healthcare facilities around a point.
type Finder struct {
	overpass nearbyFetcher
	geocoder Geocoder
	radius   int
	logger   *logging.Logger
}

// NewFinder creates a finder. geocoder may be nil, in which case text
// queries are rejected.
func NewFinder(overpass nearbyFetcher, geocoder Geocoder, defaultRadius int, logger *logging.Logger) *Finder {
	if overpass == nil {
		panic("facilities: overpass client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if defaultRadius <= 0 {
		defaultRadius = DefaultRadiusMeters
	}
	return &Finder{overpass: overpass, geocoder: geocoder, radius: defaultRadius, logger: logger}
}

// Search resolves the origin, fetches nearby features and returns them
// nearest first, filtered by type.
func (f *Finder) Search(ctx context.Context, q Query) (*Result, error) {
	ctx, span := facilitiesTracer.Start(ctx, "facilities.search")
	defer span.End()

	origin, err := f.origin(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	radius := q.RadiusMeters
	if radius <= 0 {
		radius = f.radius
	}
	if radius > maxRadiusMeters {
		radius = maxRadiusMeters
	}

	elements, err := f.overpass.Nearby(ctx, origin, radius)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	facilities := BuildFacilities(origin, elements)
	facilities = FilterByType(facilities, q.Type)
	span.SetAttributes(
		attribute.Bool("careportal.facilities.geocoded", strings.TrimSpace(q.Q) != ""),
		attribute.Int("careportal.facilities.radius_m", radius),
		attribute.Int("careportal.facilities.results", len(facilities)),
	)
	f.logger.Debug("facility search completed", "results", len(facilities), "radius_m", radius, "type", q.Type)
	return &Result{Origin: origin, Facilities: facilities}, nil
}

func (f *Finder) origin(ctx context.Context, q Query) (Point, error) {
	if strings.TrimSpace(q.Q) != "" {
		if f.geocoder == nil {
			return Point{}, ErrLocationNotFound
		}
		return f.geocoder.Geocode(ctx, q.Q)
	}
	if q.Origin == nil {
		return Point{}, ErrOriginRequired
	}
	if !q.Origin.Valid() {
		return Point{}, ErrInvalidOrigin
	}
	return *q.Origin, nil
}

// BuildFacilities converts Overpass elements to facilities sorted by
// distance from origin. Elements without coordinates are skipped.
func BuildFacilities(origin Point, elements []Element) []Facility {
	out := make([]Facility, 0, len(elements))
	for _, el := range elements {
		loc, ok := el.Location()
		if !ok {
			continue
		}
		tags := el.Tags
		if tags == nil {
			tags = map[string]string{}
		}
		name := tags["name"]
		if name == "" {
			name = FallbackName(tags)
		}
		typ := ClassifyType(tags)
		out = append(out, Facility{
			ID:         el.ID,
			Name:       name,
			Type:       typ,
			TypeLabel:  TypeDisplay(typ),
			Lat:        loc.Lat,
			Lng:        loc.Lng,
			Address:    FormatAddress(tags),
			DistanceKm: Haversine(origin, loc),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DistanceKm < out[j].DistanceKm
	})
	return out
}

// FilterByType keeps facilities of type t; "" and "all" keep everything.
func FilterByType(facilities []Facility, t string) []Facility {
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "" || t == "all" {
		return facilities
	}
	out := make([]Facility, 0, len(facilities))
	for _, f := range facilities {
		if string(f.Type) == t {
			out = append(out, f)
		}
	}
	return out
}

// DirectionsURL links to OpenStreetMap routing from origin to dest.
func DirectionsURL(origin, dest Point) string {
	return "https://www.openstreetmap.org/directions?from=" + coord(origin) + "&to=" + coord(dest)
}

// DoctorFinderURL links to the doctor directory centred on p.
func DoctorFinderURL(p Point) string {
	return "/doctor-finder?lat=" + formatFloat(p.Lat) + "&lng=" + formatFloat(p.Lng)
}

func coord(p Point) string {
	return formatFloat(p.Lat) + "," + formatFloat(p.Lng)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
