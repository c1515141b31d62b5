package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wolfman30/care-portal/internal/doctors"
	"github.com/wolfman30/care-portal/internal/scheduling"
	"github.com/wolfman30/care-portal/pkg/logging"
)

const maxFormBody = 64 * 1024

// SchedulingHandler serves appointment slots and the booking preview.
// Nothing is booked.
type SchedulingHandler struct {
	directory *doctors.Directory
	now       func() time.Time
	logger    *logging.Logger
}

func NewSchedulingHandler(directory *doctors.Directory, logger *logging.Logger) *SchedulingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if directory == nil {
		directory = doctors.NewDirectory(nil)
	}
	return &SchedulingHandler{directory: directory, now: time.Now, logger: logger}
}

// Slots handles GET /api/slots?date=YYYY-MM-DD.
func (h *SchedulingHandler) Slots(w http.ResponseWriter, r *http.Request) {
	date, err := scheduling.ParseDate(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please choose a valid date.")
		return
	}
	schedule, err := scheduling.SlotsFor(date, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, schedulingMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// Preview handles POST /api/appointments/preview.
func (h *SchedulingHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req scheduling.BookingRequest
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.DoctorID != 0 {
		doc, ok := h.directory.ByID(req.DoctorID)
		if !ok {
			writeError(w, http.StatusNotFound, "Doctor not found.")
			return
		}
		req.DoctorName = doc.Name
	}

	confirmation, err := scheduling.Preview(req, h.now())
	if err != nil {
		writeError(w, http.StatusBadRequest, schedulingMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"confirmation": confirmation,
	})
}

func schedulingMessage(err error) string {
	switch {
	case errors.Is(err, scheduling.ErrDoctorRequired):
		return "Please choose a doctor."
	case errors.Is(err, scheduling.ErrPastDate):
		return "Please choose a date that is not in the past."
	case errors.Is(err, scheduling.ErrInvalidTime), errors.Is(err, scheduling.ErrSlotUnavailable):
		return "Please choose one of the available times."
	default:
		return "Please choose a valid date."
	}
}
