package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workorders_generated_total",
		Help: "Total number of work orders generated",
	})

	PublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workorders_published_total",
		Help: "Total number of work orders confirmed by the broker",
	})

	PublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "workorder_publish_failures_total",
		Help: "Total number of publish attempts that failed or timed out",
	})

	PublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "workorder_publish_duration_seconds",
		Help:    "Time from publish call to broker acknowledgment",
		Buckets: prometheus.DefBuckets,
	})

	BrokerConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mqtt_connected",
		Help: "1 while the MQTT session is established, 0 otherwise",
	})
)
