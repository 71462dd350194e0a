package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.Observe("GET", "/restaurants", 200, 30*time.Millisecond)
	m.Observe("GET", "/restaurants", 200, 40*time.Millisecond)
	m.Observe("POST", "/add-visit", 409, 5*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	requests, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("expected http_requests_total family")
	}
	var listHits float64
	for _, metric := range requests.GetMetric() {
		labels := map[string]string{}
		for _, pair := range metric.GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
		if labels["route"] == "/restaurants" && labels["status"] == "200" {
			listHits = metric.GetCounter().GetValue()
		}
	}
	if listHits != 2 {
		t.Fatalf("expected 2 list requests, got %v", listHits)
	}

	duration, ok := byName["http_request_duration_seconds"]
	if !ok {
		t.Fatal("expected http_request_duration_seconds family")
	}
	if len(duration.GetMetric()) != 2 {
		t.Fatalf("expected 2 duration series, got %d", len(duration.GetMetric()))
	}
}

func TestHTTPMetricsNilSafe(t *testing.T) {
	var m *HTTPMetrics
	m.Observe("GET", "/", 200, time.Millisecond)

	unregistered := NewHTTPMetrics(nil)
	unregistered.Observe("GET", "", 200, time.Millisecond)
}
