package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Load results recorded by ObserveLoad
const (
	ResultOK       = "ok"
	ResultError    = "error"
	ResultStale    = "stale"
	ResultNotFound = "not_found"
)

// Metrics exposes map browser metrics that are safe to scrape via Prometheus.
type Metrics struct {
	registry       *prometheus.Registry
	layerLoads     *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	filtersApplied prometheus.Counter
	staleLoads     prometheus.Counter
	cacheHits      *prometheus.CounterVec
}

// New creates a fresh Metrics registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	layerLoads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoexplorer",
		Name:      "layer_loads_total",
		Help:      "Count of layer loads by result",
	}, []string{"result"})

	fetchDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geoexplorer",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of GeoJSON fetches including decoding",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	filtersApplied := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "geoexplorer",
		Name:      "filters_applied_total",
		Help:      "Total number of county/sub-district filters applied",
	})

	staleLoads := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "geoexplorer",
		Name:      "stale_loads_total",
		Help:      "Layer responses discarded because a newer load started",
	})

	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geoexplorer",
		Name:      "cache_lookups_total",
		Help:      "GeoJSON cache lookups by source",
	}, []string{"source"})

	registry.MustRegister(
		layerLoads,
		fetchDuration,
		filtersApplied,
		staleLoads,
		cacheHits,
	)

	return &Metrics{
		registry:       registry,
		layerLoads:     layerLoads,
		fetchDuration:  fetchDuration,
		filtersApplied: filtersApplied,
		staleLoads:     staleLoads,
		cacheHits:      cacheHits,
	}
}

// ObserveLoad records one finished layer load.
func (m *Metrics) ObserveLoad(result string, duration time.Duration) {
	if m == nil {
		return
	}
	m.layerLoads.WithLabelValues(result).Inc()
	if result != ResultStale {
		m.fetchDuration.Observe(duration.Seconds())
	}
}

// IncStaleLoad counts a discarded out-of-date response.
func (m *Metrics) IncStaleLoad() {
	if m == nil {
		return
	}
	m.staleLoads.Inc()
}

// IncFilterApplied counts a filter application.
func (m *Metrics) IncFilterApplied() {
	if m == nil {
		return
	}
	m.filtersApplied.Inc()
}

// IncCacheLookup counts where a fetch was served from (memory, network, disk).
func (m *Metrics) IncCacheLookup(source string) {
	if m == nil {
		return
	}
	m.cacheHits.WithLabelValues(source).Inc()
}

// Handler exposes the Prometheus registry over HTTP.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("metrics unavailable"))
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
