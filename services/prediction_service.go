package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Harish-hex/SIH-HealthTwin/classifier"
	"github.com/Harish-hex/SIH-HealthTwin/models"

	"go.uber.org/zap"
)

// SafeMessage is the alert text for a reading classified as NoDisease.
const SafeMessage = "Safe – No immediate outbreak risk."

func AlertMessage(label string) string {
	if label == models.NoDisease {
		return SafeMessage
	}
	return "Outbreak risk detected: " + label
}

// PredictionStore persists a reading with its prediction and alert.
type PredictionStore interface {
	RecordPrediction(ctx context.Context, reading models.WaterQualityReading, pred models.Prediction) (*models.Prediction, error)
}

// EventSink receives alert events and cache invalidations after a write.
type EventSink interface {
	Publish(ctx context.Context, channel string, message interface{}) error
	Delete(ctx context.Context, keys ...string) error
}

type PredictionResult struct {
	Label        string
	AlertMessage string
	Confidence   *float64
	ModelVersion string
}

// Submission is the outcome of Submit. Saved is false when the prediction
// was computed but could not be stored.
type Submission struct {
	PredictionResult
	Saved      bool
	RecordID   *uint
	Prediction *models.Prediction
}

// AlertEvent is published on AlertChannel whenever a stored prediction
// raised an alert.
type AlertEvent struct {
	AlertID      uint      `json:"alert_id"`
	PredictionID uint      `json:"prediction_id"`
	Level        string    `json:"alert_level"`
	Disease      string    `json:"disease"`
	HealthAlert  string    `json:"health_alert"`
	Location     string    `json:"location"`
	State        string    `json:"state"`
	District     string    `json:"district"`
	CreatedAt    time.Time `json:"created_at"`
}

type PredictionService struct {
	model  classifier.Classifier
	store  PredictionStore
	events EventSink
	logger *zap.Logger
}

func NewPredictionService(model classifier.Classifier, store PredictionStore, events EventSink, logger *zap.Logger) *PredictionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PredictionService{model: model, store: store, events: events, logger: logger}
}

func (s *PredictionService) ModelVersion() string {
	return s.model.Version()
}

// Predict classifies one sample. Values are passed to the model unchanged.
// Errors wrap classifier.ErrModelUnavailable.
func (s *PredictionService) Predict(ctx context.Context, sample Sample) (*PredictionResult, error) {
	start := time.Now()
	out, err := s.model.Predict(ctx, sample.Features())
	classifierDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		predictionsFailed.Inc()
		if !errors.Is(err, classifier.ErrModelUnavailable) {
			err = fmt.Errorf("%w: %v", classifier.ErrModelUnavailable, err)
		}
		return nil, err
	}

	predictionsTotal.WithLabelValues(out.Label).Inc()
	return &PredictionResult{
		Label:        out.Label,
		AlertMessage: AlertMessage(out.Label),
		Confidence:   out.Confidence,
		ModelVersion: s.model.Version(),
	}, nil
}

// Submit predicts, stores the reading with its prediction and alert, then
// announces the alert and drops cached aggregates. A storage failure is
// logged and reported through Submission.Saved rather than as an error.
func (s *PredictionService) Submit(ctx context.Context, sample Sample, meta Metadata) (*Submission, error) {
	res, err := s.Predict(ctx, sample)
	if err != nil {
		return nil, err
	}
	sub := &Submission{PredictionResult: *res}

	reading := models.WaterQualityReading{
		PH:             sample.PH,
		Turbidity:      sample.Turbidity,
		TDS:            sample.TDS,
		PeopleAffected: sample.PeopleAffected,
		Location:       &meta.Location,
		State:          &meta.State,
		District:       &meta.District,
		CollectedBy:    &meta.CollectedBy,
	}
	pred := models.Prediction{
		PredictedDisease: res.Label,
		HealthAlert:      res.AlertMessage,
		ConfidenceScore:  res.Confidence,
		ModelVersion:     res.ModelVersion,
	}

	saved, err := s.store.RecordPrediction(ctx, reading, pred)
	if err != nil {
		persistenceFailed.Inc()
		s.logger.Error("prediction not stored",
			zap.String("disease", res.Label), zap.String("state", meta.State), zap.Error(err))
		return sub, nil
	}
	sub.Saved = true
	sub.RecordID = &saved.ID
	sub.Prediction = saved

	if saved.Alert != nil {
		alertsRaised.WithLabelValues(saved.Alert.Level).Inc()
		s.logger.Warn("outbreak alert raised",
			zap.Uint("alert_id", saved.Alert.ID),
			zap.String("level", saved.Alert.Level),
			zap.String("disease", res.Label),
			zap.String("state", meta.State),
			zap.String("district", meta.District))
		s.publish(ctx, AlertEvent{
			AlertID:      saved.Alert.ID,
			PredictionID: saved.ID,
			Level:        saved.Alert.Level,
			Disease:      res.Label,
			HealthAlert:  res.AlertMessage,
			Location:     meta.Location,
			State:        meta.State,
			District:     meta.District,
			CreatedAt:    saved.Alert.CreatedAt,
		})
	}

	if s.events != nil {
		if err := s.events.Delete(ctx, DashboardCacheKey, StatisticsCacheKey(meta.State)); err != nil {
			s.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	return sub, nil
}

func (s *PredictionService) publish(ctx context.Context, ev AlertEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, AlertChannel, ev); err != nil {
		s.logger.Warn("alert publish failed", zap.Uint("alert_id", ev.AlertID), zap.Error(err))
		return
	}
	alertsPublished.Inc()
}
