package symptoms

import "errors"

var (
	// ErrSymptomsRequired is returned when a check carries no symptom text.
	ErrSymptomsRequired = errors.New("symptoms: symptoms are required")
	ErrInvalidImage     = errors.New("symptoms: invalid image data")
	ErrImageTooLarge    = errors.New("symptoms: image exceeds size limit")
	// ErrEmptyAnalysis is returned when the model produced no text.
	ErrEmptyAnalysis = errors.New("symptoms: no analysis received from model")
)
