// Package metrics exposes Prometheus collectors for the HTTP layer, the
// connection pool, the job queue and domain mutations.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventhub"

// Registry holds every EventHub metric. It is separate from the default
// registry so tests and embedders never collide.
var Registry = prometheus.NewRegistry()

// AppInfo is always 1; the build lives in the labels.
var AppInfo = promauto.With(Registry).NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "app_info",
		Help:      "Application version information (always set to 1, version info in labels)",
	},
	[]string{"version", "commit", "build_date"},
)

// EntityMutations counts successful writes per entity and operation.
var EntityMutations = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "entity_mutations_total",
		Help:      "Total number of successful entity writes",
	},
	[]string{"entity", "operation"}, // operation: create|replace|delete
)

// NotificationsSent counts follower notifications by delivery result.
var NotificationsSent = promauto.With(Registry).NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_sent_total",
		Help:      "Total number of event change notifications delivered to followers",
	},
	[]string{"change", "result"},
)

// Init registers the runtime collectors and records build information.
// It must run once per process.
func Init(version, commit, buildDate string) {
	Registry.MustRegister(collectors.NewGoCollector())
	Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	AppInfo.WithLabelValues(version, commit, buildDate).Set(1)
}

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// RecordMutation is a shorthand for EntityMutations.
func RecordMutation(entity, operation string) {
	EntityMutations.WithLabelValues(entity, operation).Inc()
}
