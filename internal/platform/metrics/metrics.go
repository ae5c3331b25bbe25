package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreMutations counts entity store mutations by operation and result (ok|error).
	StoreMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_store_mutations_total",
		Help: "Total entity store mutations by operation and result",
	}, []string{"operation", "result"})

	// CascadeRemovals counts entities removed by cascading deletes.
	CascadeRemovals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_store_cascade_removed_total",
		Help: "Entities removed by cascading deletes, by entity kind",
	}, []string{"kind"})

	// Exports counts document exports by format and result.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_exports_total",
		Help: "Total project exports by format and result",
	}, []string{"format", "result"})

	ExportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swc_export_duration_seconds",
		Help:    "Export duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
	}, []string{"format"})

	// ProjectSaves counts persistence writes by kind (draft|save|autosave) and result.
	ProjectSaves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_project_saves_total",
		Help: "Total project persistence writes by kind and result",
	}, []string{"kind", "result"})

	DirtyProjects = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "swc_dirty_projects",
		Help: "Projects with unsaved changes",
	})

	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_http_requests_total",
		Help: "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "swc_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// InterpreterProposals counts interpreter proposals by kind and outcome (proposed|replayed|failed).
	InterpreterProposals = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "swc_interpreter_proposals_total",
		Help: "Requirement interpreter proposals by kind and outcome",
	}, []string{"kind", "outcome"})
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
