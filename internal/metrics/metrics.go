package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	Scans             prometheus.Counter
	ScanDuration      prometheus.Histogram
	Candidates        *prometheus.CounterVec
	CollectorFailures *prometheus.CounterVec
	LeadsInserted     *prometheus.CounterVec
	DuplicateLeads    prometheus.Counter
	Rejections        *prometheus.CounterVec
	RepliesEnqueued   prometheus.Counter
	DispatchOutcomes  *prometheus.CounterVec
	NotifyFailures    prometheus.Counter
}

// NewMetrics creates new Prometheus metrics registered on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scans: f.NewCounter(prometheus.CounterOpts{
			Name: "social_prospector_scans_total",
			Help: "Total number of completed scans",
		}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "social_prospector_scan_duration_seconds",
			Help:    "Time spent running a full scan",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		Candidates: f.NewCounterVec(prometheus.CounterOpts{
			Name: "social_prospector_candidates_total",
			Help: "Candidates handed to the qualification pipeline",
		}, []string{"collector"}),
		CollectorFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "social_prospector_collector_failures_total",
			Help: "Collector runs that returned an error",
		}, []string{"collector"}),
		LeadsInserted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "social_prospector_leads_inserted_total",
			Help: "New leads stored",
		}, []string{"platform"}),
		DuplicateLeads: f.NewCounter(prometheus.CounterOpts{
			Name: "social_prospector_duplicate_leads_total",
			Help: "Qualified candidates whose URL was already stored",
		}),
		Rejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "social_prospector_rejections_total",
			Help: "Candidates rejected by the qualification filters",
		}, []string{"reason"}),
		RepliesEnqueued: f.NewCounter(prometheus.CounterOpts{
			Name: "social_prospector_replies_enqueued_total",
			Help: "Reply drafts added to the queue",
		}),
		DispatchOutcomes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "social_prospector_dispatch_total",
			Help: "Reply delivery attempts by outcome",
		}, []string{"outcome"}),
		NotifyFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "social_prospector_notify_failures_total",
			Help: "High-intent notifications that could not be delivered",
		}),
	}
}
