// Package metrics exposes prometheus collectors for rendering and imports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	viewsRenderedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ignorebtc",
		Subsystem: "view",
		Name:      "rendered_total",
		Help:      "Count of rendered ignoring-block views.",
	}, []string{"surface", "kind"})

	viewRenderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "ignorebtc",
		Subsystem: "view",
		Name:      "render_duration_seconds",
		Help:      "Duration of loading and rendering a view.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"surface"})

	importEntriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ignorebtc",
		Subsystem: "import",
		Name:      "entries_total",
		Help:      "Count of imported entries.",
	}, []string{"status"})
)

// ObserveRender records one rendered view of the given kind on a surface
// ("html", "terminal").
func ObserveRender(surface, kind string, started time.Time) {
	viewsRenderedTotal.WithLabelValues(surface, kind).Inc()
	viewRenderDuration.WithLabelValues(surface).Observe(time.Since(started).Seconds())
}

func ObserveImport(status string) {
	importEntriesTotal.WithLabelValues(status).Inc()
}

var rpcRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "ignorebtc",
	Subsystem: "rpc",
	Name:      "request_duration_seconds",
	Help:      "Duration of bitcoind RPC calls.",
	Buckets:   prometheus.DefBuckets,
}, []string{"operation", "status"})

func ObserveRPC(operation string, err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	rpcRequestDuration.WithLabelValues(operation, status).Observe(time.Since(started).Seconds())
}
