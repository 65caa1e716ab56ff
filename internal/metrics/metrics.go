// Package metrics exposes Prometheus metrics for the client and tools.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type BuildInfo struct {
	Version   string
	Revision  string
	Branch    string
	BuildDate string
}

type Config struct {
	Enabled bool
	Addr    string
	Path    string
	Build   BuildInfo
}

type Provider struct {
	reg       *prometheus.Registry
	buildInfo *prometheus.GaugeVec
}

func Init(cfg Config) *Provider {
	reg := prometheus.NewRegistry()

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	build := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build info for this binary (value is always 1).",
		},
		[]string{"version", "revision", "branch", "build_date"},
	)
	reg.MustRegister(build)
	v := cfg.Build
	if v.Version == "" {
		v.Version = "dev"
	}
	build.WithLabelValues(v.Version, v.Revision, v.Branch, v.BuildDate).Set(1)

	return &Provider{reg: reg, buildInfo: build}
}

func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{})
}

func (p *Provider) Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		p.reg.MustRegister(c)
	}
}

func (p *Provider) Registerer() prometheus.Registerer { return p.reg }

// ClientMetrics instruments outbound WCPS requests. The operation label is
// the OGC request name (ProcessCoverages, DescribeCoverage, ...), status is
// the HTTP status code or "error" for transport failures.
type ClientMetrics struct {
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	ResponseBytes *prometheus.HistogramVec
	CacheHits     *prometheus.CounterVec
}

func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	m := &ClientMetrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcps_client_requests_total",
				Help: "Outbound WCPS requests by operation and status.",
			},
			[]string{"operation", "status"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wcps_client_request_duration_seconds",
				Help:    "Outbound WCPS request latency by operation.",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 300},
			},
			[]string{"operation"},
		),
		ResponseBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "wcps_client_response_bytes",
				Help:    "Response body sizes by operation.",
				Buckets: prometheus.ExponentialBuckets(256, 4, 10),
			},
			[]string{"operation"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wcps_describe_cache_events_total",
				Help: "Coverage metadata cache hits and misses.",
			},
			[]string{"event"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration, m.ResponseBytes, m.CacheHits)
	}
	return m
}
