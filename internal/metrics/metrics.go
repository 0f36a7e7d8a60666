package metrics

import (
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	APIRequests = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twitterapp_api_requests_total",
		Help: "Total API requests issued",
	})
	APIErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twitterapp_api_transport_errors_total",
		Help: "Total API requests that failed before a response arrived",
	})
	Unauthorized = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "twitterapp_api_unauthorized_total",
		Help: "Total 401 responses seen by the session gate",
	})
	RequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "twitterapp_api_request_duration_seconds",
		Help:    "API request duration seconds",
		Buckets: prometheus.DefBuckets,
	})
	Toggles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twitterapp_reaction_toggles_total",
		Help: "Total reaction toggles applied optimistically",
	}, []string{"kind"})
	ToggleRollbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twitterapp_reaction_rollbacks_total",
		Help: "Total reaction toggles rolled back after server rejection",
	}, []string{"kind"})
	CommandRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twitterapp_command_runs_total",
		Help: "Total CLI command invocations",
	}, []string{"command"})
	CommandErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "twitterapp_command_errors_total",
		Help: "Total CLI command failures",
	}, []string{"command"})
)

func init() {
	prometheus.MustRegister(APIRequests, APIErrors, Unauthorized, RequestDuration,
		Toggles, ToggleRollbacks, CommandRuns, CommandErrors)
}

// StartServer starts a metrics HTTP server on addr (e.g., ":9090").
func StartServer(addr string) {
	if addr == "" {
		addr = os.Getenv("METRICS_ADDR")
	}
	if addr == "" {
		return
	}
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	go func() { _ = http.ListenAndServe(addr, nil) }()
}

// ObserveRequestDuration records one API round trip duration.
func ObserveRequestDuration(start time.Time) {
	RequestDuration.Observe(time.Since(start).Seconds())
}

// IncCommandRun counts one CLI command invocation.
func IncCommandRun(cmd string) { CommandRuns.WithLabelValues(cmd).Inc() }

// IncCommandError counts one CLI command failure.
func IncCommandError(cmd string) { CommandErrors.WithLabelValues(cmd).Inc() }

// IncToggle counts one optimistic toggle of the given kind.
func IncToggle(kind string) { Toggles.WithLabelValues(kind).Inc() }

// IncToggleRollback counts one rollback of the given kind.
func IncToggleRollback(kind string) { ToggleRollbacks.WithLabelValues(kind).Inc() }
