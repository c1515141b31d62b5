package symptoms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPromptIncludesPatientInformation(t *testing.T) {
	b := NewPromptBuilder()
	prompt, err := b.TextPrompt(CheckRequest{
		Symptoms:       " headache and fever ",
		Age:            "34",
		Gender:         "female",
		Duration:       "3 days",
		Severity:       "moderate",
		MedicalHistory: "asthma",
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Symptoms: headache and fever\n")
	assert.Contains(t, prompt, "- Age: 34\n")
	assert.Contains(t, prompt, "- Medical History: asthma\n")
	for _, title := range []string{"Possible Conditions:", "Key Symptoms Analysis:", "Risk Factors:", "Recommended Next Steps:", "Warning Signs:", "Preventive Measures:"} {
		assert.Contains(t, prompt, "\n"+title+"\n")
	}
}

func TestImagePromptNamesImageSections(t *testing.T) {
	b := NewPromptBuilder()
	prompt, err := b.ImagePrompt(CheckRequest{Symptoms: "rash"})
	require.NoError(t, err)

	assert.Contains(t, prompt, "- Reported Symptoms: rash\n")
	assert.NotContains(t, prompt, "Severity")
	for _, title := range []string{"Visual Findings:", "Potential Diagnoses:", "Recommended Medical Specialties:", "Important Notes:"} {
		assert.Contains(t, prompt, "\n"+title+"\n")
	}
}

func TestCheckRequestValidate(t *testing.T) {
	assert.ErrorIs(t, CheckRequest{Symptoms: "   "}.Validate(), ErrSymptomsRequired)
	assert.NoError(t, CheckRequest{Symptoms: "cough"}.Validate())
}

func TestCheckRequestHasImage(t *testing.T) {
	assert.True(t, CheckRequest{ImageData: "data:image/png;base64,AA=="}.HasImage())
	assert.False(t, CheckRequest{ImageData: "https://example.com/x.png"}.HasImage())
	assert.False(t, CheckRequest{}.HasImage())
}
