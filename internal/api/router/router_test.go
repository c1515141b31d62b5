package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/care-portal/internal/analysis"
	"github.com/wolfman30/care-portal/internal/doctors"
	"github.com/wolfman30/care-portal/internal/facilities"
	"github.com/wolfman30/care-portal/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/care-portal/internal/http/middleware"
	"github.com/wolfman30/care-portal/internal/symptoms"
	"github.com/wolfman30/care-portal/pkg/logging"
)

type stubChecker struct{}

func (stubChecker) Check(_ context.Context, req symptoms.CheckRequest) (*symptoms.CheckResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &symptoms.CheckResult{CheckID: "chk", Analysis: "Possible Conditions:\nCold"}, nil
}

type stubFinder struct{}

func (stubFinder) Search(context.Context, facilities.Query) (*facilities.Result, error) {
	return &facilities.Result{Origin: facilities.Point{Lat: 1, Lng: 2}}, nil
}

func newTestRouter(t *testing.T, limiter *httpmiddleware.RateLimiter) http.Handler {
	t.Helper()

	logger := logging.Default()
	directory := doctors.NewDirectory([]doctors.Doctor{{ID: 1, Name: "Dr. A", Specialization: "Cardiology"}})
	reg := prometheus.NewRegistry()

	return New(&Config{
		Logger:             logger,
		SymptomChecker:     handlers.NewSymptomCheckerHandler(stubChecker{}, 0, logger),
		AnalysisRender:     handlers.NewAnalysisRenderHandler(analysis.EmptySectionsDrop, nil, logger),
		Facilities:         handlers.NewFacilitiesHandler(stubFinder{}, logger),
		Doctors:            handlers.NewDoctorsHandler(directory, logger),
		Scheduling:         handlers.NewSchedulingHandler(directory, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://portal.example"},
		RateLimiter:        limiter,
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %q", resp["status"])
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("expected request id header")
	}
}

func TestRouterRoutesRegistered(t *testing.T) {
	router := newTestRouter(t, nil)

	tests := []struct {
		method string
		path   string
		body   string
		want   int
	}{
		{http.MethodPost, "/symptom-checker", `{"symptoms":"cough"}`, http.StatusOK},
		{http.MethodPost, "/api/analysis/render?variant=image", `{"report":"Visual Findings:\nx"}`, http.StatusOK},
		{http.MethodGet, "/api/facilities?lat=1&lng=2", "", http.StatusOK},
		{http.MethodGet, "/hospital-finder/cards?lat=1&lng=2", "", http.StatusOK},
		{http.MethodGet, "/api/doctors?specialization=cardio", "", http.StatusOK},
		{http.MethodGet, "/doctor-finder/cards", "", http.StatusOK},
		{http.MethodGet, "/api/slots?date=2000-01-01", "", http.StatusBadRequest},
		{http.MethodPost, "/api/appointments/preview", `{}`, http.StatusBadRequest},
		{http.MethodPost, "/api/password-strength", `{"password":"abc"}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/missing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Fatalf("expected status %d, got %d: %s", tt.want, rr.Code, rr.Body.String())
			}
		})
	}
}

func TestRouterRateLimitsAnalysisRoutes(t *testing.T) {
	router := newTestRouter(t, httpmiddleware.NewRateLimiter(0.001, 1))

	send := func(path string) int {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"symptoms":"cough","password":"x"}`))
		req.RemoteAddr = "203.0.113.9:4000"
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("/symptom-checker"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("/symptom-checker"); code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", code)
	}
	if code := send("/api/password-strength"); code != http.StatusOK {
		t.Fatalf("expected unthrottled route to pass, got %d", code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/symptom-checker", nil)
	req.Header.Set("Origin", "https://portal.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
