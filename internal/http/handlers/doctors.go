package handlers

import (
	"net/http"

	"github.com/wolfman30/care-portal/internal/doctors"
	"github.com/wolfman30/care-portal/pkg/logging"
)

// DoctorsHandler serves the read-only doctor directory.
type DoctorsHandler struct {
	directory *doctors.Directory
	logger    *logging.Logger
}

func NewDoctorsHandler(directory *doctors.Directory, logger *logging.Logger) *DoctorsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if directory == nil {
		directory = doctors.NewDirectory(nil)
	}
	return &DoctorsHandler{directory: directory, logger: logger}
}

// List handles GET /api/doctors.
func (h *DoctorsHandler) List(w http.ResponseWriter, r *http.Request) {
	listings, ok := h.search(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   len(listings),
		"doctors": listings,
	})
}

// Cards handles GET /doctor-finder/cards.
func (h *DoctorsHandler) Cards(w http.ResponseWriter, r *http.Request) {
	listings, ok := h.search(w, r)
	if !ok {
		return
	}
	html, err := doctors.RenderCards(listings)
	if err != nil {
		h.logger.Error("render doctor cards", "error", err)
		writeHTML(w, http.StatusInternalServerError, `<div class="alert alert-danger">Unable to display results.</div>`)
		return
	}
	writeHTML(w, http.StatusOK, html)
}

func (h *DoctorsHandler) search(w http.ResponseWriter, r *http.Request) ([]doctors.Listing, bool) {
	params := r.URL.Query()
	origin, err := parseOrigin(params)
	if err != nil || (origin != nil && !origin.Valid()) {
		writeError(w, http.StatusBadRequest, "Invalid coordinates.")
		return nil, false
	}
	return h.directory.Search(doctors.Query{
		Specialization: params.Get("specialization"),
		Origin:         origin,
	}), true
}
