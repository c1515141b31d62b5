package doctors

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wolfman30/care-portal/internal/facilities"
)

// ErrDuplicateID is returned when a directory file lists the same id twice.
var ErrDuplicateID = errors.New("doctors: duplicate doctor id")

// Doctor is one entry of the read-only directory.
type Doctor struct {
	ID             int      `yaml:"id" json:"id"`
	Name           string   `yaml:"name" json:"name"`
	Specialization string   `yaml:"specialization" json:"specialization"`
	Phone          string   `yaml:"phone,omitempty" json:"phone,omitempty"`
	Address        string   `yaml:"address,omitempty" json:"address,omitempty"`
	City           string   `yaml:"city,omitempty" json:"city,omitempty"`
	State          string   `yaml:"state,omitempty" json:"state,omitempty"`
	ZipCode        string   `yaml:"zip_code,omitempty" json:"zip_code,omitempty"`
	Latitude       *float64 `yaml:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude      *float64 `yaml:"longitude,omitempty" json:"longitude,omitempty"`
	Bio            string   `yaml:"bio,omitempty" json:"bio,omitempty"`
}

// Location returns the doctor's coordinate when both parts are known.
func (d Doctor) Location() (facilities.Point, bool) {
	if d.Latitude == nil || d.Longitude == nil {
		return facilities.Point{}, false
	}
	return facilities.Point{Lat: *d.Latitude, Lng: *d.Longitude}, true
}

// Coordinates is Location for templates: nil when unknown.
func (d Doctor) Coordinates() *facilities.Point {
	if p, ok := d.Location(); ok {
		return &p
	}
	return nil
}

// Directory is an immutable list of doctors loaded at startup.
type Directory struct {
	doctors []Doctor
}

// NewDirectory wraps doctors in their given order.
func NewDirectory(doctors []Doctor) *Directory {
	return &Directory{doctors: append([]Doctor(nil), doctors...)}
}

// LoadFile reads a YAML directory from path.
func LoadFile(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("doctors: open directory: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML document with a top-level "doctors" list.
func Parse(r io.Reader) (*Directory, error) {
	var doc struct {
		Doctors []Doctor `yaml:"doctors"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("doctors: decode directory: %w", err)
	}
	seen := make(map[int]bool, len(doc.Doctors))
	for _, d := range doc.Doctors {
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, d.ID)
		}
		seen[d.ID] = true
	}
	return NewDirectory(doc.Doctors), nil
}

// Len returns the number of doctors.
func (d *Directory) Len() int {
	return len(d.doctors)
}

// ByID looks up a doctor by id.
func (d *Directory) ByID(id int) (Doctor, bool) {
	for _, doc := range d.doctors {
		if doc.ID == id {
			return doc, true
		}
	}
	return Doctor{}, false
}

// Filter returns doctors whose specialization contains want,
// case-insensitively. An empty want returns everyone.
func (d *Directory) Filter(want string) []Doctor {
	want = strings.ToLower(strings.TrimSpace(want))
	out := make([]Doctor, 0, len(d.doctors))
	for _, doc := range d.doctors {
		if want == "" || strings.Contains(strings.ToLower(doc.Specialization), want) {
			out = append(out, doc)
		}
	}
	return out
}

// Listing is a doctor with an optional distance from the patient.
type Listing struct {
	Doctor
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

// Query is the per-request doctor search state.
type Query struct {
	Specialization string
	Origin         *facilities.Point
}

// Search filters by specialization and, when an origin is known, orders
// by distance.
func (d *Directory) Search(q Query) []Listing {
	doctors := d.Filter(q.Specialization)
	if q.Origin == nil {
		listings := make([]Listing, len(doctors))
		for i, doc := range doctors {
			listings[i] = Listing{Doctor: doc}
		}
		return listings
	}
	return SortByDistance(*q.Origin, doctors)
}

// SortByDistance annotates doctors with their distance from origin and
// sorts nearest first. Doctors without coordinates keep their relative
// order after all located ones.
func SortByDistance(origin facilities.Point, doctors []Doctor) []Listing {
	listings := make([]Listing, len(doctors))
	for i, doc := range doctors {
		listings[i] = Listing{Doctor: doc}
		if loc, ok := doc.Location(); ok {
			km := facilities.Haversine(origin, loc)
			listings[i].DistanceKm = &km
		}
	}
	sort.SliceStable(listings, func(i, j int) bool {
		a, b := listings[i].DistanceKm, listings[j].DistanceKm
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return listings
}
