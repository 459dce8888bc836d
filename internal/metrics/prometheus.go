package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// prometheusMetrics holds the Prometheus exposition mirrored alongside
// Collector's in-memory ring buffer, named and bucketed the same way the
// rest of the pack instruments query latency and result counts.
type prometheusMetrics struct {
	queryLatency   prometheus.Histogram
	queryTokens    prometheus.Histogram
	querySnippets  prometheus.Histogram
	providerLatency *prometheus.HistogramVec
}

func newPrometheusMetrics() *prometheusMetrics {
	return newPrometheusMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func newPrometheusMetricsWithRegistry(reg prometheus.Registerer) *prometheusMetrics {
	return &prometheusMetrics{
		queryLatency: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctxcore",
			Name:      "query_latency_seconds",
			Help:      "Retrieval query latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		queryTokens: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctxcore",
			Name:      "query_tokens_used",
			Help:      "Tokens used per retrieval query",
			Buckets:   []float64{100, 500, 1000, 2000, 4000, 8000, 16000, 32000, 64000},
		}),
		querySnippets: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: "ctxcore",
			Name:      "query_snippets_returned",
			Help:      "Number of context snippets returned per query",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		providerLatency: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ctxcore",
			Name:      "provider_latency_seconds",
			Help:      "Per-provider retrieval latency in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"provider"}),
	}
}

func (p *prometheusMetrics) observe(r Record) {
	p.queryLatency.Observe(time.Duration(r.LatencyMs * int64(time.Millisecond)).Seconds())
	p.queryTokens.Observe(float64(r.TokensUsed))
	p.querySnippets.Observe(float64(r.SnippetsReturned))
}

// ObserveProviderLatency records one provider's contribution to a single
// query's latency, called directly by the retrieval pipeline since
// per-provider timing never appears in Record's persisted shape.
func (c *Collector) ObserveProviderLatency(provider string, latencyMs int64) {
	c.prometheus.providerLatency.WithLabelValues(provider).Observe(
		time.Duration(latencyMs * int64(time.Millisecond)).Seconds())
}
