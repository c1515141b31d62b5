package symptoms

import (
	"strings"

	"github.com/wolfman30/care-portal/internal/analysis"
)

// CheckRequest is one symptom check submitted by a patient.
type CheckRequest struct {
	Symptoms       string `json:"symptoms"`
	Age            string `json:"age"`
	Gender         string `json:"gender"`
	Duration       string `json:"duration"`
	Severity       string `json:"severity"`
	MedicalHistory string `json:"medical_history"`
	// ImageData is an optional data:image/...;base64 URL.
	ImageData   string `json:"image_data"`
	EmailCopyTo string `json:"email_copy_to,omitempty"`
}

// Validate checks the fields every request must carry.
func (r CheckRequest) Validate() error {
	if strings.TrimSpace(r.Symptoms) == "" {
		return ErrSymptomsRequired
	}
	return nil
}

// HasImage reports whether the request carries an inline image.
func (r CheckRequest) HasImage() bool {
	return strings.HasPrefix(strings.TrimSpace(r.ImageData), "data:image")
}

type promptData struct {
	Symptoms       string
	Age            string
	Gender         string
	Duration       string
	Severity       string
	MedicalHistory string
}

func (r CheckRequest) promptData() promptData {
	return promptData{
		Symptoms:       strings.TrimSpace(r.Symptoms),
		Age:            strings.TrimSpace(r.Age),
		Gender:         strings.TrimSpace(r.Gender),
		Duration:       strings.TrimSpace(r.Duration),
		Severity:       strings.TrimSpace(r.Severity),
		MedicalHistory: strings.TrimSpace(r.MedicalHistory),
	}
}

// CheckResult is the outcome of a symptom check. Nothing in it is stored.
type CheckResult struct {
	CheckID           string                    `json:"check_id"`
	Analysis          string                    `json:"analysis"`
	AnalysisHTML      string                    `json:"analysis_html"`
	HasImage          bool                      `json:"has_image"`
	ImageAnalysis     string                    `json:"image_analysis,omitempty"`
	ImageAnalysisHTML string                    `json:"image_analysis_html,omitempty"`
	ImageSections     []analysis.OrderedSection `json:"image_sections,omitempty"`
}
