package analysis

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
)

// BlockKind identifies what a rendered block holds.
type BlockKind string

const (
	BlockImage    BlockKind = "image"
	BlockSection  BlockKind = "section"
	BlockAdvisory BlockKind = "advisory"
)

// EmptySectionPolicy controls titles that are followed by no content.
type EmptySectionPolicy int

const (
	// EmptySectionsDrop omits titles without content.
	EmptySectionsDrop EmptySectionPolicy = iota
	// EmptySectionsPlaceholder renders them with PlaceholderText.
	EmptySectionsPlaceholder
)

// PlaceholderText is the body of empty sections under EmptySectionsPlaceholder.
const PlaceholderText = "None reported."

const imageTitle = "Uploaded Medical Image"

// Block is one rendered card.
type Block struct {
	Kind       BlockKind     `json:"kind"`
	Title      string        `json:"title"`
	Icon       string        `json:"icon,omitempty"`
	ColorClass string        `json:"color_class,omitempty"`
	HTML       template.HTML `json:"html"`
}

// Input is a report to render, optionally with the image it describes.
type Input struct {
	Report string
	// ImageURL is a data:image URL or http(s) URL shown above the sections.
	ImageURL string
}

// Result holds the ordered blocks and their concatenated markup.
type Result struct {
	Blocks []Block `json:"blocks"`
	HTML   string  `json:"html"`
}

// Sections returns only the blocks produced from report sections.
func (r Result) Sections() []Block {
	var out []Block
	for _, b := range r.Blocks {
		if b.Kind == BlockSection {
			out = append(out, b)
		}
	}
	return out
}

const blockTemplates = `
{{- define "section" }}
<div class="card {{ .ColorClass }} my-3 analysis-section fade-in">
    <div class="card-header d-flex align-items-center">
        <i class="{{ .Icon }} me-2"></i>
        <h5 class="mb-0">{{ .Title }}</h5>
    </div>
    <div class="card-body">
        {{ .HTML }}
    </div>
</div>
{{- end }}
{{- define "image" }}
<div class="card {{ .ColorClass }} mb-4 analysis-section fade-in">
    <div class="card-header d-flex align-items-center">
        <i class="{{ .Icon }} me-2"></i>
        <h5 class="mb-0">{{ .Title }}</h5>
    </div>
    <div class="card-body text-center">
        {{ .HTML }}
    </div>
</div>
{{- end }}
{{- define "advisory" }}
<div class="alert {{ .ColorClass }} mt-4">
    <strong>{{ .Title }}</strong> {{ .HTML }}
</div>
{{- end }}
{{- define "img" }}<img src="{{ . }}" class="img-fluid rounded" style="max-height: 300px;" alt="Medical image for analysis">{{ end }}
{{- define "container" }}<div id="{{ .ID }}" class="analysis-results">{{ .Body }}
</div>{{ end }}`

var templates = template.Must(template.New("analysis").Parse(blockTemplates))

// Option configures a Renderer.
type Option func(*Renderer)

// WithEmptySections sets how titles without content are rendered.
func WithEmptySections(policy EmptySectionPolicy) Option {
	return func(r *Renderer) {
		r.empty = policy
	}
}

// Renderer renders reports of a single Variant. It holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	variant Variant
	empty   EmptySectionPolicy
}

// NewRenderer creates a renderer for variant.
func NewRenderer(variant Variant, opts ...Option) *Renderer {
	r := &Renderer{variant: variant}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Variant returns the renderer's variant.
func (r *Renderer) Variant() Variant {
	return r.variant
}

// Render builds the blocks for in: the image block when an image is
// supplied, one block per non-empty section in input order, then the
// advisory. It never fails; an empty report renders only the advisory.
func (r *Renderer) Render(in Input) Result {
	var blocks []Block

	if src, ok := imageSource(in.ImageURL); ok {
		blocks = append(blocks, Block{
			Kind:       BlockImage,
			Title:      imageTitle,
			Icon:       "fas fa-image",
			ColorClass: "border-dark",
			HTML:       template.HTML(execute("img", src)),
		})
	}

	keepEmpty := r.empty == EmptySectionsPlaceholder
	for _, section := range parseSections(in.Report, r.variant.Titles, keepEmpty) {
		style := r.variant.Styles.Resolve(section.Title)
		body := FormatBody(section.Text())
		if body == "" && keepEmpty {
			body = PlaceholderText
		}
		blocks = append(blocks, Block{
			Kind:       BlockSection,
			Title:      section.Title,
			Icon:       style.Icon,
			ColorClass: style.ColorClass,
			HTML:       template.HTML(body),
		})
	}

	blocks = append(blocks, Block{
		Kind:       BlockAdvisory,
		Title:      r.variant.Advisory.Label,
		ColorClass: "alert-warning",
		HTML:       template.HTML(template.HTMLEscapeString(r.variant.Advisory.Text)),
	})

	var buf bytes.Buffer
	for _, b := range blocks {
		buf.WriteString(execute(string(b.Kind), b))
	}
	return Result{Blocks: blocks, HTML: buf.String()}
}

// Wrap places a rendered fragment inside the variant's output container.
func (r *Renderer) Wrap(res Result) string {
	return execute("container", struct {
		ID   string
		Body template.HTML
	}{ID: r.variant.ContainerID, Body: template.HTML(res.HTML)})
}

// imageSource validates raw as an image reference. Inline data:image URLs
// are marked safe since html/template would otherwise rewrite them; absolute
// http(s) URLs pass through the template's own URL filtering. Anything else
// yields no image block.
func imageSource(raw string) (template.URL, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ContainsAny(raw, "\"'<> \t\r\n") {
		return "", false
	}
	if strings.HasPrefix(raw, "data:image/") {
		return template.URL(raw), true
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	return template.URL(u.String()), true
}

func execute(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		// Templates are fixed and data is typed; reaching this is a bug.
		panic(fmt.Sprintf("analysis: execute %s template: %v", name, err))
	}
	return buf.String()
}
