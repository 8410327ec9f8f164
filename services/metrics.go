package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtwin_predictions_total",
		Help: "Total number of classifier predictions by disease label.",
	}, []string{"disease"})
	predictionsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_predictions_failed_total",
		Help: "Total number of predictions that could not be computed.",
	})
	alertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "healthtwin_alerts_raised_total",
		Help: "Total number of outbreak alerts stored, by level.",
	}, []string{"level"})
	persistenceFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_persistence_failed_total",
		Help: "Total number of predictions that could not be stored.",
	})
	alertsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "healthtwin_alerts_published_total",
		Help: "Total number of alert events published to Redis.",
	})
	classifierDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "healthtwin_classifier_duration_seconds",
		Help:    "Duration of a single classifier inference.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
	})
)
