package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveLoad(ResultOK, time.Second)
	m.IncStaleLoad()
	m.IncFilterApplied()
	m.IncCacheLookup("memory")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestHandler_exposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveLoad(ResultOK, 120*time.Millisecond)
	m.ObserveLoad(ResultStale, 0)
	m.IncStaleLoad()
	m.IncFilterApplied()
	m.IncCacheLookup("network")

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	for _, name := range []string{
		`geoexplorer_layer_loads_total{result="ok"} 1`,
		`geoexplorer_layer_loads_total{result="stale"} 1`,
		"geoexplorer_fetch_duration_seconds_count 1",
		"geoexplorer_filters_applied_total 1",
		"geoexplorer_stale_loads_total 1",
		`geoexplorer_cache_lookups_total{source="network"} 1`,
	} {
		if !strings.Contains(body, name) {
			t.Fatalf("expected %q in metrics output", name)
		}
	}
}
