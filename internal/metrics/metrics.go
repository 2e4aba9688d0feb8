// Package metrics exposes Prometheus instrumentation for dataset loads and
// snapshot builds.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector of this service.
var Registry = prometheus.NewRegistry()

var (
	datasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ddimatrix_dataset_loads_total",
			Help: "Number of dataset load attempts by source and result.",
		},
		[]string{"source", "result"},
	)

	datasetEdges = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ddimatrix_dataset_edges",
			Help: "Number of edges in the currently selected dataset.",
		},
	)
	datasetDrugs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ddimatrix_dataset_drugs",
			Help: "Number of distinct drugs in the currently selected dataset.",
		},
	)

	snapshotBuildDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ddimatrix_snapshot_build_duration_seconds",
			Help:    "Time taken to build the matrix, index and drug list for a dataset.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		datasetLoadsTotal,
		datasetEdges,
		datasetDrugs,
		snapshotBuildDuration,
	)
}

// ObserveLoad records one load attempt from source ("file", "upload", "db").
func ObserveLoad(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	datasetLoadsTotal.WithLabelValues(source, result).Inc()
}

// SetCurrent publishes the size of the selected dataset.
func SetCurrent(edges, drugs int) {
	datasetEdges.Set(float64(edges))
	datasetDrugs.Set(float64(drugs))
}

func ObserveBuild(d time.Duration) {
	snapshotBuildDuration.Observe(d.Seconds())
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
