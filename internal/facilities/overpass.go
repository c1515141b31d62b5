package facilities

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/wolfman30/care-portal/internal/observability/metrics"
)

// DefaultRadiusMeters is the search radius used when a query names none.
const DefaultRadiusMeters = 5000

const maxRadiusMeters = 50000

// Element is one OpenStreetMap feature returned by Overpass.
type Element struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    *float64          `json:"lat,omitempty"`
	Lon    *float64          `json:"lon,omitempty"`
	Center *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"center,omitempty"`
	Tags map[string]string `json:"tags,omitempty"`
}

// Location returns the element's coordinate: its own for nodes, the
// computed centre for ways and relations.
func (e Element) Location() (Point, bool) {
	if e.Type == "node" && e.Lat != nil && e.Lon != nil {
		return Point{Lat: *e.Lat, Lng: *e.Lon}, true
	}
	if e.Center != nil {
		return Point{Lat: e.Center.Lat, Lng: e.Center.Lon}, true
	}
	return Point{}, false
}

// OverpassClient queries the Overpass API for healthcare amenities.
type OverpassClient struct {
	endpoint string
	http     *http.Client
	metrics  *metrics.FacilityMetrics
}

// NewOverpassClient creates a client for endpoint.
func NewOverpassClient(endpoint string, httpClient *http.Client, m *metrics.FacilityMetrics) *OverpassClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OverpassClient{endpoint: endpoint, http: httpClient, metrics: m}
}

// BuildQuery renders the Overpass QL used to find facilities around p.
func BuildQuery(p Point, radiusMeters int) string {
	around := fmt.Sprintf("(around:%d,%s,%s)", radiusMeters, formatFloat(p.Lat), formatFloat(p.Lng))
	selectors := []string{
		`node["amenity"="hospital"]`,
		`way["amenity"="hospital"]`,
		`relation["amenity"="hospital"]`,
		`node["amenity"="clinic"]`,
		`way["amenity"="clinic"]`,
		`node["amenity"="doctors"]`,
		`way["amenity"="doctors"]`,
		`node["amenity"="pharmacy"]`,
		`way["amenity"="pharmacy"]`,
		`node["healthcare"]`,
		`way["healthcare"]`,
	}
	var b strings.Builder
	b.WriteString("[out:json][timeout:25];\n(\n")
	for _, sel := range selectors {
		b.WriteString("  " + sel + around + ";\n")
	}
	b.WriteString(");\nout center;\n")
	return b.String()
}

// Nearby returns the healthcare features within radiusMeters of p.
func (c *OverpassClient) Nearby(ctx context.Context, p Point, radiusMeters int) ([]Element, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(BuildQuery(p, radiusMeters)))
	if err != nil {
		return nil, fmt.Errorf("facilities: build overpass request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")

	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveLookup("overpass", "error")
		return nil, fmt.Errorf("%w: overpass: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ObserveLookup("overpass", "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: overpass returned %d: %s", ErrUpstream, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Elements []Element `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.ObserveLookup("overpass", "error")
		return nil, fmt.Errorf("%w: decode overpass response: %v", ErrUpstream, err)
	}
	c.metrics.ObserveLookup("overpass", "ok")
	return payload.Elements, nil
}
