package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus observability primitives for clipcart.
type Metrics struct {
	attributionRuns   *prometheus.CounterVec
	attributedOrders  prometheus.Counter
	attributedGMV     prometheus.Counter
	attributionTime   prometheus.Histogram
	syncedVideos      *prometheus.CounterVec
	metricsSnapshots  prometheus.Counter
	jobRuns           *prometheus.CounterVec
	jobDuration       *prometheus.HistogramVec
}

// NewMetrics registers and returns Prometheus metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		attributionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipcart_attribution_runs_total",
			Help: "Counts attribution engine runs by outcome.",
		}, []string{"status"}),
		attributedOrders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipcart_attributed_orders_total",
			Help: "Counts orders newly attributed to videos.",
		}),
		attributedGMV: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipcart_attributed_gmv_total",
			Help: "Sums GMV newly attributed to videos.",
		}),
		attributionTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "clipcart_attribution_duration_seconds",
			Help:    "Attribution run durations.",
			Buckets: prometheus.DefBuckets,
		}),
		syncedVideos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipcart_synced_videos_total",
			Help: "Counts videos seen during creator syncs by result.",
		}, []string{"result"}),
		metricsSnapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clipcart_metrics_snapshots_total",
			Help: "Counts appended video metrics snapshots.",
		}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clipcart_job_runs_total",
			Help: "Counts scheduler job runs by job and status.",
		}, []string{"job", "status"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clipcart_job_duration_seconds",
			Help:    "Scheduler job durations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}

	reg.MustRegister(
		m.attributionRuns,
		m.attributedOrders,
		m.attributedGMV,
		m.attributionTime,
		m.syncedVideos,
		m.metricsSnapshots,
		m.jobRuns,
		m.jobDuration,
	)
	return m
}

func (m *Metrics) RecordAttributionRun(status string, orders int, gmv float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.attributionRuns.WithLabelValues(status).Inc()
	m.attributedOrders.Add(float64(orders))
	m.attributedGMV.Add(gmv)
	m.attributionTime.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordSyncedVideos(result string, count int) {
	if m == nil {
		return
	}
	m.syncedVideos.WithLabelValues(result).Add(float64(count))
}

func (m *Metrics) RecordSnapshot() {
	if m == nil {
		return
	}
	m.metricsSnapshots.Inc()
}

func (m *Metrics) RecordJobRun(job, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, status).Inc()
	m.jobDuration.WithLabelValues(job).Observe(elapsed.Seconds())
}
