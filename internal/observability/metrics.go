// # internal/observability/metrics.go
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "riskmap_scan_seconds",
		Help:    "Time spent walking and parsing the codebase.",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "riskmap_analysis_seconds",
		Help:    "Time spent resolving imports, building the graph and scoring.",
		Buckets: prometheus.DefBuckets,
	})

	FilesScanned = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskmap_files_scanned",
		Help: "Number of files in the most recent scan.",
	})

	ParseErrors = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskmap_parse_errors",
		Help: "Number of files with parse failures in the most recent scan.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskmap_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "riskmap_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskmap_rescans_total",
		Help: "Total number of full rescans performed.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riskmap_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
