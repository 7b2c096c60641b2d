package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "exercise_tracker"

var (
	usersCreatedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "users",
		Name:      "created_total",
		Help:      "Number of users created.",
	})

	exercisesLoggedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "exercises",
		Name:      "logged_total",
		Help:      "Number of exercise entries appended.",
	})

	lastWriteGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "persistence",
		Name:      "last_write_timestamp_seconds",
		Help:      "Unix timestamp of the most recent user or exercise write.",
	})

	eventsPublishedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of events delivered to Kafka, labeled by event type.",
	}, []string{"event_type"})

	eventsFailedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "failed_total",
		Help:      "Number of events that could not be delivered, labeled by event type.",
	}, []string{"event_type"})

	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "Time spent serving HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "status"})
)

func init() {
	prometheus.MustRegister(
		usersCreatedCounter,
		exercisesLoggedCounter,
		lastWriteGauge,
		eventsPublishedCounter,
		eventsFailedCounter,
		requestDuration,
	)
}

// RecordUserCreated counts a new user and advances the write watermark.
func RecordUserCreated(ts time.Time) {
	usersCreatedCounter.Inc()
	recordWrite(ts)
}

// RecordExerciseLogged counts a new exercise and advances the write watermark.
func RecordExerciseLogged(ts time.Time) {
	exercisesLoggedCounter.Inc()
	recordWrite(ts)
}

func recordWrite(ts time.Time) {
	if ts.IsZero() {
		return
	}
	lastWriteGauge.Set(float64(ts.Unix()))
}

// RecordEventPublished counts a delivered event.
func RecordEventPublished(eventType string) {
	eventsPublishedCounter.WithLabelValues(eventType).Inc()
}

// RecordPublishFailure counts an event that could not be delivered.
func RecordPublishFailure(eventType string) {
	eventsFailedCounter.WithLabelValues(eventType).Inc()
}

// ObserveRequest records how long a request took, labeled by method and response status.
func ObserveRequest(method string, status int, elapsed time.Duration) {
	requestDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
