package handlers

import (
	"net/http"

	"github.com/wolfman30/care-portal/internal/passwords"
)

// PasswordStrength handles POST /api/password-strength. The password is
// scored and discarded.
func PasswordStrength(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, maxFormBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	writeJSON(w, http.StatusOK, passwords.Evaluate(req.Password))
}
