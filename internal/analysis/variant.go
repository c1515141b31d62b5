// Package analysis turns loosely structured AI-generated reports into styled
// HTML cards.
//
// A report is free text in which known section labels ("Possible
// Conditions:", "Visual Findings:", ...) start titled blocks. A Variant
// bundles the recognised label vocabulary with the style table and the
// advisory text appended after every render, so new report kinds only need a
// new Variant value.
package analysis

import "strings"

// Style is the icon and card color applied to a rendered block.
type Style struct {
	Icon       string `json:"icon"`
	ColorClass string `json:"color_class"`
}

// StyleRule maps a keyword contained in a section title to a Style.
type StyleRule struct {
	Keyword string
	Style   Style
}

// StyleTable resolves section titles to styles. Rules are checked in order.
type StyleTable struct {
	Rules   []StyleRule
	Default Style
}

// DefaultStyle is used for titles no rule matches.
var DefaultStyle = Style{Icon: "fas fa-info-circle", ColorClass: "border-secondary"}

// Resolve returns the style of the first rule whose keyword the title
// contains, or the table default.
func (t StyleTable) Resolve(title string) Style {
	for _, rule := range t.Rules {
		if rule.Keyword != "" && strings.Contains(title, rule.Keyword) {
			return rule.Style
		}
	}
	if t.Default == (Style{}) {
		return DefaultStyle
	}
	return t.Default
}

// Advisory is the fixed disclaimer appended after all parsed sections.
type Advisory struct {
	Label string
	Text  string
}

// Variant is one report kind: its title vocabulary, styles and advisory.
type Variant struct {
	Name   string
	Titles []string
	Styles StyleTable
	// Advisory is always rendered last.
	Advisory Advisory
	// ContainerID is the element id of the page region the fragment is
	// written into.
	ContainerID string
}

// SymptomTitles are the sections requested from the symptom analysis prompt.
var SymptomTitles = []string{
	"Possible Conditions:",
	"Key Symptoms Analysis:",
	"Risk Factors:",
	"Recommended Next Steps:",
	"Warning Signs:",
	"Preventive Measures:",
}

// ImageTitles are the sections requested from the image analysis prompt.
var ImageTitles = []string{
	"Visual Findings:",
	"Potential Diagnoses:",
	"Recommended Medical Specialties:",
	"Important Notes:",
}

// SymptomVariant renders free-text symptom analyses.
func SymptomVariant() Variant {
	return Variant{
		Name:   "symptom",
		Titles: append([]string(nil), SymptomTitles...),
		Styles: StyleTable{
			Rules: []StyleRule{
				{Keyword: "Possible Conditions", Style: Style{Icon: "fas fa-stethoscope", ColorClass: "border-primary"}},
				{Keyword: "Key Symptoms", Style: Style{Icon: "fas fa-list-ul", ColorClass: "border-info"}},
				{Keyword: "Risk Factors", Style: Style{Icon: "fas fa-exclamation-triangle", ColorClass: "border-warning"}},
				{Keyword: "Next Steps", Style: Style{Icon: "fas fa-clipboard-check", ColorClass: "border-success"}},
				{Keyword: "Warning Signs", Style: Style{Icon: "fas fa-exclamation-circle", ColorClass: "border-danger"}},
				{Keyword: "Preventive", Style: Style{Icon: "fas fa-shield-alt", ColorClass: "border-secondary"}},
			},
			Default: DefaultStyle,
		},
		Advisory: Advisory{
			Label: "Disclaimer:",
			Text:  "This is an AI-generated analysis for informational purposes only. Please consult with a healthcare provider for proper medical diagnosis and treatment.",
		},
		ContainerID: "analysis-results",
	}
}

// ImageVariant renders analyses of an uploaded medical image.
func ImageVariant() Variant {
	return Variant{
		Name:   "image",
		Titles: append([]string(nil), ImageTitles...),
		Styles: StyleTable{
			Rules: []StyleRule{
				{Keyword: "Visual Findings", Style: Style{Icon: "fas fa-eye", ColorClass: "border-info"}},
				{Keyword: "Potential Diagnoses", Style: Style{Icon: "fas fa-stethoscope", ColorClass: "border-primary"}},
				{Keyword: "Recommended Medical Specialties", Style: Style{Icon: "fas fa-user-md", ColorClass: "border-success"}},
				{Keyword: "Important Notes", Style: Style{Icon: "fas fa-exclamation-circle", ColorClass: "border-danger"}},
			},
			Default: DefaultStyle,
		},
		Advisory: Advisory{
			Label: "Important:",
			Text:  "This image analysis is provided for informational purposes only and is not a substitute for professional medical diagnosis. Please consult with a healthcare provider for proper medical evaluation.",
		},
		ContainerID: "image-analysis-results",
	}
}

// VariantByName returns the built-in variant with the given name.
func VariantByName(name string) (Variant, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "symptom", "text":
		return SymptomVariant(), true
	case "image":
		return ImageVariant(), true
	default:
		return Variant{}, false
	}
}
