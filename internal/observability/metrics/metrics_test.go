package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) *dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metrics:
		for _, metric := range mf.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] != lp.GetValue() {
					continue metrics
				}
			}
			return metric
		}
	}
	return nil
}

func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()
	return findMetric(t, reg, name, labels).GetCounter().GetValue()
}

func TestAnalysisMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAnalysisMetrics(reg)
	m.ObserveCheck("success", true)
	m.ObserveCheck("success", true)
	m.ObserveLLMLatency("gemini", "text", "ok", 0.5)
	m.ObserveRenderedSections("symptom", 4)

	if got := counterValue(t, reg, "careportal_analysis_checks_total", map[string]string{"outcome": "success", "has_image": "true"}); got != 2 {
		t.Fatalf("expected 2 checks, got %v", got)
	}
	latency := findMetric(t, reg, "careportal_analysis_llm_latency_seconds", map[string]string{"provider": "gemini", "kind": "text", "status": "ok"})
	if got := latency.GetHistogram().GetSampleCount(); got != 1 {
		t.Fatalf("expected 1 latency sample, got %d", got)
	}
	rendered := findMetric(t, reg, "careportal_analysis_rendered_sections", map[string]string{"variant": "symptom"})
	if got := rendered.GetHistogram().GetSampleSum(); got != 4 {
		t.Fatalf("expected 4 rendered sections, got %v", got)
	}
}

func TestFacilityMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFacilityMetrics(reg)
	m.ObserveLookup("overpass", "ok")
	m.ObserveGeocodeCache(true)
	m.ObserveGeocodeCache(false)

	if got := counterValue(t, reg, "careportal_facilities_geocode_cache_total", map[string]string{"result": "hit"}); got != 1 {
		t.Fatalf("expected 1 cache hit, got %v", got)
	}
}

func TestMetricsNilSafe(t *testing.T) {
	var a *AnalysisMetrics
	a.ObserveCheck("error", false)
	a.ObserveLLMLatency("bedrock", "image", "error", 0.1)
	a.ObserveRenderedSections("image", 0)

	var f *FacilityMetrics
	f.ObserveLookup("nominatim", "error")
	f.ObserveGeocodeCache(false)
}
