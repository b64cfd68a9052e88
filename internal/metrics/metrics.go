package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Manager struct {
	// http
	CounterRequests     *prometheus.CounterVec
	CounterAuthRejected *prometheus.CounterVec
	HistRequestDuration *prometheus.HistogramVec

	// domain
	CounterCheckIns       *prometheus.CounterVec
	CounterMilestones     *prometheus.CounterVec
	CounterAchievements   *prometheus.CounterVec
	CounterFoodsLogged    prometheus.Counter
	CounterDataAnomalies  *prometheus.CounterVec
	CounterStoreFallbacks *prometheus.CounterVec
	CounterWeeklyResets   prometheus.Counter
	CounterNotifyFailures prometheus.Counter
	GaugeLifeSignal       prometheus.Gauge
}

func NewTestManager() *Manager {
	return NewManager("fitflow", "test", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("fitflow", "test", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"path", "method", "status"}),
		CounterAuthRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "auth_rejections_total",
			Help:      "Total number of unauthorized requests",
		}, []string{"reason"}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "method"}),

		CounterCheckIns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "checkins_total",
			Help:      "Check-in commands by streak outcome",
		}, []string{"outcome"}),
		CounterMilestones: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "streak_milestones_total",
			Help:      "Streak milestones celebrated",
		}, []string{"days"}),
		CounterAchievements: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "achievements_unlocked_total",
			Help:      "Achievements newly unlocked",
		}, []string{"achievement"}),
		CounterFoodsLogged: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "foods_logged_total",
			Help:      "Foods added to a day log",
		}),
		CounterDataAnomalies: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "data_anomalies_total",
			Help:      "Stored data repaired on read or rejected as inconsistent",
		}, []string{"field"}),
		CounterStoreFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "store_fallbacks_total",
			Help:      "Store operations served by the local cache",
		}, []string{"op"}),
		CounterWeeklyResets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "weekly_resets_total",
			Help:      "User week visuals cleared by the weekly reset",
		}),
		CounterNotifyFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "notify_failures_total",
			Help:      "Milestone and achievement notifications that failed to send",
		}),
		GaugeLifeSignal: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "life_signal",
			Help:      "Shows whether the service is alive",
		}),
	}
}

// SetupPrometheus returns a registry with the Go runtime, process and build
// info collectors plus any extra collectors given.
func SetupPrometheus(extra ...prometheus.Collector) *prometheus.Registry {
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, c := range extra {
		promRegistry.MustRegister(c)
	}
	return promRegistry
}
