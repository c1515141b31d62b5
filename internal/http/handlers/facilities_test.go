package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/care-portal/internal/facilities"
	"github.com/wolfman30/care-portal/pkg/logging"
)

type fakeFinder struct {
	res *facilities.Result
	err error
	got facilities.Query
}

func (f *fakeFinder) Search(_ context.Context, q facilities.Query) (*facilities.Result, error) {
	f.got = q
	return f.res, f.err
}

func sampleResult() *facilities.Result {
	return &facilities.Result{
		Origin: facilities.Point{Lat: 40.7, Lng: -74},
		Facilities: []facilities.Facility{{
			ID:         7,
			Name:       "City Hospital",
			Type:       facilities.TypeHospital,
			TypeLabel:  "Hospital",
			Lat:        40.71,
			Lng:        -74,
			DistanceKm: 1.11,
		}},
	}
}

func TestFacilitiesListPassesQuery(t *testing.T) {
	finder := &fakeFinder{res: sampleResult()}
	h := NewFacilitiesHandler(finder, logging.Default())

	req := httptest.NewRequest(http.MethodGet, "/api/facilities?lat=40.7&lng=-74&type=hospital&radius=2000", nil)
	rr := httptest.NewRecorder()
	h.List(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, finder.got.Origin)
	assert.Equal(t, 40.7, finder.got.Origin.Lat)
	assert.Equal(t, "hospital", finder.got.Type)
	assert.Equal(t, 2000, finder.got.RadiusMeters)

	var resp struct {
		Success    bool                  `json:"success"`
		Count      int                   `json:"count"`
		Facilities []facilities.Facility `json:"facilities"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "City Hospital", resp.Facilities[0].Name)
}

func TestFacilitiesListErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		err    error
		status int
	}{
		{"half coordinates", "?lat=40", nil, http.StatusBadRequest},
		{"bad radius", "?q=paris&radius=far", nil, http.StatusBadRequest},
		{"no origin", "", facilities.ErrOriginRequired, http.StatusBadRequest},
		{"out of range", "?lat=100&lng=0", facilities.ErrInvalidOrigin, http.StatusBadRequest},
		{"unknown place", "?q=nowhere", facilities.ErrLocationNotFound, http.StatusNotFound},
		{"upstream", "?q=paris", fmt.Errorf("%w: status 504", facilities.ErrUpstream), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewFacilitiesHandler(&fakeFinder{err: tt.err}, logging.Default())
			rr := httptest.NewRecorder()
			h.List(rr, httptest.NewRequest(http.MethodGet, "/api/facilities"+tt.query, nil))
			assert.Equal(t, tt.status, rr.Code)

			var resp errorResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestFacilitiesCards(t *testing.T) {
	h := NewFacilitiesHandler(&fakeFinder{res: sampleResult()}, logging.Default())
	rr := httptest.NewRecorder()
	h.Cards(rr, httptest.NewRequest(http.MethodGet, "/hospital-finder/cards?q=springfield", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "1 Found")
	assert.Contains(t, rr.Body.String(), "City Hospital")
}

func TestFacilitiesCardsError(t *testing.T) {
	h := NewFacilitiesHandler(&fakeFinder{err: facilities.ErrLocationNotFound}, logging.Default())
	rr := httptest.NewRecorder()
	h.Cards(rr, httptest.NewRequest(http.MethodGet, "/hospital-finder/cards?q=nowhere", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "Location not found")
}
