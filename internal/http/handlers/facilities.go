package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/wolfman30/care-portal/internal/facilities"
	"github.com/wolfman30/care-portal/pkg/logging"
)

var errBadCoordinates = errors.New("lat and lng must both be numbers")

type facilitySearcher interface {
	Search(ctx context.Context, q facilities.Query) (*facilities.Result, error)
}

// FacilitiesHandler serves the hospital finder.
type FacilitiesHandler struct {
	finder facilitySearcher
	logger *logging.Logger
}

func NewFacilitiesHandler(finder facilitySearcher, logger *logging.Logger) *FacilitiesHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &FacilitiesHandler{finder: finder, logger: logger}
}

// List handles GET /api/facilities.
func (h *FacilitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	res, status, msg := h.search(r)
	if res == nil {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		*facilities.Result
	}{Success: true, Count: len(res.Facilities), Result: res})
}

// Cards handles GET /hospital-finder/cards and returns the result fragment.
func (h *FacilitiesHandler) Cards(w http.ResponseWriter, r *http.Request) {
	res, status, msg := h.search(r)
	if res == nil {
		writeHTML(w, status, `<div class="alert alert-warning">`+msg+`</div>`)
		return
	}
	html, err := facilities.RenderCards(res.Origin, res.Facilities)
	if err != nil {
		h.logger.Error("render facility cards", "error", err)
		writeHTML(w, http.StatusInternalServerError, `<div class="alert alert-danger">Unable to display results.</div>`)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (h *FacilitiesHandler) search(r *http.Request) (*facilities.Result, int, string) {
	params := r.URL.Query()
	origin, err := parseOrigin(params)
	if err != nil {
		return nil, http.StatusBadRequest, "Invalid coordinates."
	}
	radius := 0
	if raw := strings.TrimSpace(params.Get("radius")); raw != "" {
		if radius, err = strconv.Atoi(raw); err != nil || radius < 0 {
			return nil, http.StatusBadRequest, "Invalid radius."
		}
	}

	res, err := h.finder.Search(r.Context(), facilities.Query{
		Origin:       origin,
		Q:            params.Get("q"),
		Type:         params.Get("type"),
		RadiusMeters: radius,
	})
	switch {
	case err == nil:
		return res, http.StatusOK, ""
	case errors.Is(err, facilities.ErrLocationNotFound):
		return nil, http.StatusNotFound, "Location not found. Please try a different search."
	case errors.Is(err, facilities.ErrOriginRequired):
		return nil, http.StatusBadRequest, "Please share your location or enter a place to search."
	case errors.Is(err, facilities.ErrInvalidOrigin):
		return nil, http.StatusBadRequest, "Invalid coordinates."
	case errors.Is(err, facilities.ErrUpstream):
		h.logger.Warn("facility search upstream failure", "error", err)
		return nil, http.StatusBadGateway, "Unable to search for facilities right now. Please try again."
	default:
		h.logger.Error("facility search failed", "error", err)
		return nil, http.StatusInternalServerError, "Unable to search for facilities right now. Please try again."
	}
}

// parseOrigin reads optional lat/lng parameters. Both or neither must be set.
func parseOrigin(params url.Values) (*facilities.Point, error) {
	lat := strings.TrimSpace(params.Get("lat"))
	lng := strings.TrimSpace(params.Get("lng"))
	if lat == "" && lng == "" {
		return nil, nil
	}
	latV, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil, errBadCoordinates
	}
	lngV, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil, errBadCoordinates
	}
	return &facilities.Point{Lat: latV, Lng: lngV}, nil
}
