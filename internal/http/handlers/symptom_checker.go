package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/wolfman30/care-portal/internal/symptoms"
	"github.com/wolfman30/care-portal/pkg/logging"
)

const analysisFailedMessage = "An error occurred while analyzing symptoms. Please try again."

type symptomChecker interface {
	Check(ctx context.Context, req symptoms.CheckRequest) (*symptoms.CheckResult, error)
}

// SymptomCheckerHandler serves the symptom analysis form.
type SymptomCheckerHandler struct {
	checker symptomChecker
	maxBody int64
	logger  *logging.Logger
}

// NewSymptomCheckerHandler builds the handler. maxImageBytes bounds the
// decoded image; the request body may be a third larger for base64.
func NewSymptomCheckerHandler(checker symptomChecker, maxImageBytes int, logger *logging.Logger) *SymptomCheckerHandler {
	if logger == nil {
		logger = logging.Default()
	}
	if maxImageBytes <= 0 {
		maxImageBytes = symptoms.DefaultMaxImageBytes
	}
	return &SymptomCheckerHandler{
		checker: checker,
		maxBody: int64(maxImageBytes)*4/3 + 64*1024,
		logger:  logger,
	}
}

type symptomCheckResponse struct {
	Success bool `json:"success"`
	*symptoms.CheckResult
}

// Check handles POST /symptom-checker.
func (h *SymptomCheckerHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req symptoms.CheckRequest
	if err := decodeJSON(w, r, h.maxBody, &req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "Request is too large.")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := h.checker.Check(r.Context(), req)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, symptomCheckResponse{Success: true, CheckResult: result})
	case errors.Is(err, symptoms.ErrSymptomsRequired):
		writeError(w, http.StatusBadRequest, "Please describe your symptoms.")
	case errors.Is(err, symptoms.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "The uploaded image could not be read.")
	case errors.Is(err, symptoms.ErrImageTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "The uploaded image is too large.")
	default:
		h.logger.Error("symptom check failed", "error", err)
		writeError(w, http.StatusInternalServerError, analysisFailedMessage)
	}
}
