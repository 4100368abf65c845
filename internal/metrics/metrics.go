package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	RecordsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "datamaker",
		Name:      "records_generated_total",
		Help:      "Number of device records produced by the record factory.",
	})

	SerializationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "datamaker",
		Name:      "serialization_errors_total",
		Help:      "Number of records that could not be encoded.",
	})

	Published = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "datamaker",
		Name:      "publish_total",
		Help:      "Publish outcomes by sink.",
	}, []string{"sink", "result"})

	PublishDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "datamaker",
		Name:      "publish_duration_seconds",
		Help:      "Time from publish start to broker acknowledgement.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"sink"})
)
