package symptoms

import (
	"bytes"
	"fmt"
	"text/template"
)

const textPromptTemplate = `As a medical AI assistant, analyze the following patient information:

Patient Information:
- Age: {{ .Age }}
- Gender: {{ .Gender }}
- Symptoms: {{ .Symptoms }}
- Duration: {{ .Duration }}
- Severity: {{ .Severity }}
- Medical History: {{ .MedicalHistory }}

Please provide a comprehensive analysis with the following structure:

Possible Conditions:
[List each condition with confidence level and brief description]
- Condition (High/Medium/Low confidence): Description and typical presentation

Key Symptoms Analysis:
- [Analyze each reported symptom and its significance]

Risk Factors:
- [List relevant risk factors based on patient's profile]

Recommended Next Steps:
1. [Immediate actions or self-care measures]
2. [When to seek professional medical care]
3. [Suggested medical tests or examinations]

Warning Signs:
- [List specific symptoms or changes that require immediate medical attention]

Preventive Measures:
1. [Lifestyle modifications]
2. [Preventive actions]
3. [General health recommendations]

Note: This is an AI-generated analysis for informational purposes only. Please consult with a healthcare provider for proper medical diagnosis and treatment.`

const imagePromptTemplate = `As a medical AI assistant, analyze this medical image with the following patient information:

Patient Information:
- Age: {{ .Age }}
- Gender: {{ .Gender }}
- Reported Symptoms: {{ .Symptoms }}
- Medical History: {{ .MedicalHistory }}

Please provide a detailed analysis of the visible symptoms or conditions in the image.
Structure your analysis in the following sections:

Visual Findings:
[Describe all visible symptoms, abnormalities, or medical conditions shown in the image]

Potential Diagnoses:
[List possible diagnoses based on the visual findings, ordered by likelihood]

Recommended Medical Specialties:
[Suggest which medical specialists would be appropriate for follow-up care]

Important Notes:
[Include any critical observations or warnings about the condition]

This is for educational purposes only and not a substitute for professional medical diagnosis.
`

// PromptBuilder renders the analysis prompts with strict missing-key
// semantics.
type PromptBuilder struct {
	text  *template.Template
	image *template.Template
}

// NewPromptBuilder parses the built-in prompt templates.
func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{
		text:  template.Must(parsePrompt("text", textPromptTemplate)),
		image: template.Must(parsePrompt("image", imagePromptTemplate)),
	}
}

func parsePrompt(name, tmpl string) (*template.Template, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return nil, fmt.Errorf("symptoms: parse %s prompt: %w", name, err)
	}
	return t, nil
}

// TextPrompt renders the symptom analysis prompt for req.
func (b *PromptBuilder) TextPrompt(req CheckRequest) (string, error) {
	return execute(b.text, req)
}

// ImagePrompt renders the image analysis prompt for req.
func (b *PromptBuilder) ImagePrompt(req CheckRequest) (string, error) {
	return execute(b.image, req)
}

func execute(t *template.Template, req CheckRequest) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, req.promptData()); err != nil {
		return "", fmt.Errorf("symptoms: execute %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}
