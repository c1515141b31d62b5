package facilities

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/wolfman30/care-portal/internal/observability/metrics"
	"github.com/wolfman30/care-portal/pkg/logging"
)

// GeocodeCache stores resolved search terms.
type GeocodeCache interface {
	Get(ctx context.Context, query string) (Point, bool, error)
	Set(ctx context.Context, query string, p Point) error
}

// NominatimConfig configures a NominatimGeocoder.
type NominatimConfig struct {
	Endpoint  string
	UserAgent string
	// RequestsPerSecond caps outbound calls; Nominatim's usage policy allows one.
	RequestsPerSecond float64
}

// NominatimGeocoder resolves free-text places to coordinates.
type NominatimGeocoder struct {
	endpoint  string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	cache     GeocodeCache
	metrics   *metrics.FacilityMetrics
	logger    *logging.Logger
}

// NewNominatimGeocoder creates a geocoder. cache may be nil.
func NewNominatimGeocoder(cfg NominatimConfig, httpClient *http.Client, cache GeocodeCache, m *metrics.FacilityMetrics, logger *logging.Logger) *NominatimGeocoder {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = logging.Default()
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	return &NominatimGeocoder{
		endpoint:  cfg.Endpoint,
		userAgent: cfg.UserAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		cache:     cache,
		metrics:   m,
		logger:    logger,
	}
}

// Geocode returns the first match for query.
func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Point, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Point{}, ErrLocationNotFound
	}
	key := strings.ToLower(query)

	if g.cache != nil {
		p, ok, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("geocode cache read failed", "error", err)
		}
		g.metrics.ObserveGeocodeCache(ok)
		if ok {
			return p, nil
		}
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return Point{}, fmt.Errorf("facilities: geocode rate limit: %w", err)
	}

	p, err := g.lookup(ctx, query)
	if err != nil {
		return Point{}, err
	}

	if g.cache != nil {
		if err := g.cache.Set(ctx, key, p); err != nil {
			g.logger.Warn("geocode cache write failed", "error", err)
		}
	}
	return p, nil
}

func (g *NominatimGeocoder) lookup(ctx context.Context, query string) (Point, error) {
	u, err := url.Parse(g.endpoint)
	if err != nil {
		return Point{}, fmt.Errorf("facilities: parse nominatim endpoint: %w", err)
	}
	params := u.Query()
	params.Set("format", "json")
	params.Set("q", query)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Point{}, fmt.Errorf("facilities: build nominatim request: %w", err)
	}
	if g.userAgent != "" {
		req.Header.Set("User-Agent", g.userAgent)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		g.metrics.ObserveLookup("nominatim", "error")
		return Point{}, fmt.Errorf("%w: nominatim: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.metrics.ObserveLookup("nominatim", "error")
		return Point{}, fmt.Errorf("%w: nominatim returned %d", ErrUpstream, resp.StatusCode)
	}

	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		g.metrics.ObserveLookup("nominatim", "error")
		return Point{}, fmt.Errorf("%w: decode nominatim response: %v", ErrUpstream, err)
	}
	g.metrics.ObserveLookup("nominatim", "ok")

	if len(results) == 0 {
		return Point{}, ErrLocationNotFound
	}
	lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
	lng, lngErr := strconv.ParseFloat(results[0].Lon, 64)
	if latErr != nil || lngErr != nil {
		return Point{}, fmt.Errorf("%w: nominatim returned malformed coordinates", ErrUpstream)
	}
	return Point{Lat: lat, Lng: lng}, nil
}
