package metrics

import "github.com/prometheus/client_golang/prometheus"

// AnalysisMetrics exposes counters/histograms for symptom checks.
type AnalysisMetrics struct {
	checksTotal    *prometheus.CounterVec
	llmLatency     *prometheus.HistogramVec
	renderedBlocks *prometheus.HistogramVec
}

func NewAnalysisMetrics(reg prometheus.Registerer) *AnalysisMetrics {
	m := &AnalysisMetrics{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "analysis",
			Name:      "checks_total",
			Help:      "Total symptom checks by outcome",
		}, []string{"outcome", "has_image"}),
		llmLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careportal",
			Subsystem: "analysis",
			Name:      "llm_latency_seconds",
			Help:      "Latency of LLM completions",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"provider", "kind", "status"}),
		renderedBlocks: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "careportal",
			Subsystem: "analysis",
			Name:      "rendered_sections",
			Help:      "Section blocks produced per rendered report",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8},
		}, []string{"variant"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.checksTotal, m.llmLatency, m.renderedBlocks)
	return m
}

func (m *AnalysisMetrics) ObserveCheck(outcome string, hasImage bool) {
	if m == nil {
		return
	}
	m.checksTotal.WithLabelValues(outcome, boolLabel(hasImage)).Inc()
}

func (m *AnalysisMetrics) ObserveLLMLatency(provider, kind, status string, seconds float64) {
	if m == nil {
		return
	}
	m.llmLatency.WithLabelValues(provider, kind, status).Observe(seconds)
}

func (m *AnalysisMetrics) ObserveRenderedSections(variant string, sections int) {
	if m == nil {
		return
	}
	m.renderedBlocks.WithLabelValues(variant).Observe(float64(sections))
}

// FacilityMetrics tracks outbound lookups made by the facility finder.
type FacilityMetrics struct {
	lookupsTotal *prometheus.CounterVec
	geocodeCache *prometheus.CounterVec
}

func NewFacilityMetrics(reg prometheus.Registerer) *FacilityMetrics {
	m := &FacilityMetrics{
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "facilities",
			Name:      "lookups_total",
			Help:      "Outbound Overpass/Nominatim requests by source and status",
		}, []string{"source", "status"}),
		geocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "careportal",
			Subsystem: "facilities",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result",
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.lookupsTotal, m.geocodeCache)
	return m
}

func (m *FacilityMetrics) ObserveLookup(source, status string) {
	if m == nil {
		return
	}
	m.lookupsTotal.WithLabelValues(source, status).Inc()
}

func (m *FacilityMetrics) ObserveGeocodeCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.geocodeCache.WithLabelValues(result).Inc()
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
