package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	controlTicks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "control",
			Name:      "ticks_total",
			Help:      "Control ticks processed, by flight mode.",
		},
		[]string{"mode"},
	)
	tickLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neurofcc",
			Subsystem: "control",
			Name:      "tick_latency_seconds",
			Help:      "Wall-clock latency of one control tick.",
			Buckets:   []float64{.0001, .00025, .0005, .001, .002, .005, .01, .025},
		},
		[]string{"mode"},
	)
	systemWarnings = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "control",
			Name:      "warnings_total",
			Help:      "Warnings appended to the system log.",
		},
	)
	emergencies = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "control",
			Name:      "emergencies_total",
			Help:      "Emergency mode activations, by reason.",
		},
		[]string{"reason"},
	)
	flightMode = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "neurofcc",
			Subsystem: "control",
			Name:      "flight_mode",
			Help:      "Active flight mode (1 for the active mode, 0 otherwise).",
		},
		[]string{"mode"},
	)
	surfaceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "recovery",
			Name:      "surface_failures_total",
			Help:      "Actuator failures detected, by channel.",
		},
		[]string{"channel"},
	)
	recoveryRuns = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "recovery",
			Name:      "procedures_total",
			Help:      "Recovery procedures executed.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neurofcc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neurofcc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

var (
	modeMu   sync.Mutex
	lastMode string
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			controlTicks, tickLatency, systemWarnings, emergencies, flightMode,
			surfaceFailures, recoveryRuns,
			httpRequests, httpDuration,
		)
	})
}

func RecordControlTick(mode string, latency time.Duration) {
	RegisterMetrics()
	controlTicks.WithLabelValues(mode).Inc()
	tickLatency.WithLabelValues(mode).Observe(latency.Seconds())
}

func RecordWarning() {
	RegisterMetrics()
	systemWarnings.Inc()
}

func RecordEmergency(reason string) {
	RegisterMetrics()
	emergencies.WithLabelValues(reason).Inc()
}

func SetFlightMode(mode string) {
	RegisterMetrics()
	modeMu.Lock()
	defer modeMu.Unlock()
	if lastMode != "" && lastMode != mode {
		flightMode.WithLabelValues(lastMode).Set(0)
	}
	flightMode.WithLabelValues(mode).Set(1)
	lastMode = mode
}

func RecordSurfaceFailure(channel string) {
	RegisterMetrics()
	surfaceFailures.WithLabelValues(channel).Inc()
}

func RecordRecoveryProcedure() {
	RegisterMetrics()
	recoveryRuns.Inc()
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
