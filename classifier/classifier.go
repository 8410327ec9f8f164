// Package classifier maps water-quality feature vectors to a disease label.
//
// A Classifier is created once at startup and shared read-only by every
// request; implementations must be safe for concurrent use.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// FeatureNames is the fixed feature order every model is trained on.
var FeatureNames = []string{"ph", "turbidity", "tds", "people_affected_per_5000"}

// ErrModelUnavailable wraps every load or inference failure.
var ErrModelUnavailable = errors.New("model unavailable")

type Result struct {
	Label      string
	Confidence *float64
}

type Classifier interface {
	Predict(ctx context.Context, features []float64) (Result, error)
	Version() string
}

// Unavailable stands in for a model that failed to load so that the rest of
// the API keeps serving while every prediction fails.
type Unavailable struct {
	Err error
}

func (u Unavailable) Predict(context.Context, []float64) (Result, error) {
	if u.Err == nil {
		return Result{}, ErrModelUnavailable
	}
	if errors.Is(u.Err, ErrModelUnavailable) {
		return Result{}, u.Err
	}
	return Result{}, fmt.Errorf("%w: %w", ErrModelUnavailable, u.Err)
}

func (Unavailable) Version() string { return "unavailable" }

func checkFeatures(features []float64) error {
	if len(features) != len(FeatureNames) {
		return fmt.Errorf("expected %d features, got %d", len(FeatureNames), len(features))
	}
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s is not finite", ErrModelUnavailable, FeatureNames[i])
		}
	}
	return nil
}
