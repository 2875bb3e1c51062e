package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ambulink"

var (
	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "booking_transitions_total", Help: "Booking lifecycle transitions by target status"},
		[]string{"from", "to"},
	)
	AssignmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "driver_assignments_total", Help: "Driver assignment attempts by mode and outcome"},
		[]string{"mode", "outcome"},
	)
	AvailabilityDivergenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "availability_divergence_total", Help: "Booking writes whose driver availability write failed"},
		[]string{"operation"},
	)
	ReconciledDriversTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "reconciled_drivers_total", Help: "Driver availability repairs applied by the reconciler"},
		[]string{"action"},
	)
	SettingsCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "settings_cache_total", Help: "Settings cache lookups by result"},
		[]string{"result"},
	)

	KafkaMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "kafka_messages_total", Help: "Kafka messages by direction and outcome"},
		[]string{"direction", "topic", "outcome"},
	)
	KafkaMessageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_message_duration_seconds",
			Help:      "Kafka publish and handle latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"direction", "topic"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Total HTTP requests handled"},
		[]string{"method", "path", "status"},
	)
	HTTPPanicsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{Namespace: namespace, Name: "http_panics_total", Help: "Handler panics recovered"},
		[]string{"path"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
