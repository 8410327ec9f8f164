package classifier

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type remoteRequest struct {
	Features []float64 `json:"features"`
}

type remoteResponse struct {
	Label      string   `json:"label"`
	Confidence *float64 `json:"confidence"`
}

// Remote calls a model server that hosts the trained model:
// POST {baseURL}/predict {"features": [...]} -> {"label": ..., "confidence": ...}.
type Remote struct {
	client  *resty.Client
	version string
}

func NewRemote(baseURL, version string, timeout time.Duration) *Remote {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Remote{client: client, version: version}
}

func (r *Remote) Version() string { return r.version }

func (r *Remote) Predict(ctx context.Context, features []float64) (Result, error) {
	if err := checkFeatures(features); err != nil {
		return Result{}, err
	}

	var out remoteResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(remoteRequest{Features: features}).
		SetResult(&out).
		Post("/predict")
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrModelUnavailable, err)
	}
	if resp.IsError() {
		return Result{}, fmt.Errorf("%w: model server returned status %d", ErrModelUnavailable, resp.StatusCode())
	}
	if out.Label == "" {
		return Result{}, fmt.Errorf("%w: model server returned an empty label", ErrModelUnavailable)
	}
	return Result{Label: out.Label, Confidence: out.Confidence}, nil
}
