package handlers

import (
	"net/http"
	"strings"

	"github.com/wolfman30/care-portal/internal/analysis"
	"github.com/wolfman30/care-portal/internal/observability/metrics"
	"github.com/wolfman30/care-portal/pkg/logging"
)

const maxRenderBody = 1 << 20

// AnalysisRenderHandler turns a raw report into the card fragment the
// results page shows.
type AnalysisRenderHandler struct {
	policy  analysis.EmptySectionPolicy
	metrics *metrics.AnalysisMetrics
	logger  *logging.Logger
}

func NewAnalysisRenderHandler(policy analysis.EmptySectionPolicy, m *metrics.AnalysisMetrics, logger *logging.Logger) *AnalysisRenderHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AnalysisRenderHandler{policy: policy, metrics: m, logger: logger}
}

type renderRequest struct {
	Report   string `json:"report"`
	ImageURL string `json:"image_url"`
}

// Render handles POST /api/analysis/render?variant=symptom|image.
func (h *AnalysisRenderHandler) Render(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("variant"))
	if name == "" {
		name = analysis.SymptomVariant().Name
	}
	variant, ok := analysis.VariantByName(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown variant.")
		return
	}

	var req renderRequest
	if err := decodeJSON(w, r, maxRenderBody, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	renderer := analysis.NewRenderer(variant, analysis.WithEmptySections(h.policy))
	res := renderer.Render(analysis.Input{Report: req.Report, ImageURL: req.ImageURL})
	h.metrics.ObserveRenderedSections(variant.Name, len(res.Sections()))
	h.logger.Debug("rendered analysis", "variant", variant.Name, "blocks", len(res.Blocks))
	writeHTML(w, http.StatusOK, renderer.Wrap(res))
}
