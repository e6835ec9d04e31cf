package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/mailprobe/internal/core"
)

// Remote forwards scoring and training to an external model service
// over HTTP. The service is the real black box: this adapter only
// moves vectors and labels across the wire.
type Remote struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewRemote creates a remote classifier adapter.
func NewRemote(baseURL string, timeout time.Duration, logger *zap.Logger) *Remote {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type scoreRequest struct {
	Features []float64 `json:"features"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

type trainRequest struct {
	Dataset []core.TrainingSample `json:"dataset"`
}

// Score posts the vector to the model service and returns its score.
func (r *Remote) Score(ctx context.Context, features core.FeatureVector) (float64, error) {
	var resp scoreResponse
	if err := r.post(ctx, "/score", scoreRequest{Features: features}, &resp); err != nil {
		return 0, err
	}
	if resp.Score < 0 || resp.Score > 1 {
		return 0, fmt.Errorf("model service returned score %f outside [0,1]", resp.Score)
	}
	return resp.Score, nil
}

// Train posts the dataset to the model service.
func (r *Remote) Train(ctx context.Context, samples []core.TrainingSample) error {
	return r.post(ctx, "/train", trainRequest{Dataset: samples}, nil)
}

// Ready asks the model service whether it holds an initialized model.
func (r *Remote) Ready() bool {
	req, err := http.NewRequest(http.MethodGet, r.baseURL+"/ready", nil)
	if err != nil {
		return false
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug("Model service unreachable", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (r *Remote) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("model service request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model service returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode model service response: %w", err)
	}
	return nil
}
