package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/DAVIPRADIPTA/website-anemware/config"
)

// ImageKind selects which model the inference service applies.
type ImageKind string

const (
	KindEye  ImageKind = "eye"
	KindNail ImageKind = "nail"
)

// Predictor is the opaque image-AI boundary: given image URLs by kind, return
// a hemoglobin estimate (g/dL) per kind, nil when that kind was not provided
// or the model could not score it.
type Predictor interface {
	Predict(ctx context.Context, images map[ImageKind]string) (map[ImageKind]*float64, error)
}

// HTTPPredictor calls an external inference service.
type HTTPPredictor struct {
	baseURL string
	client  *http.Client
}

func NewHTTPPredictor(cfg *config.PredictorConfig) *HTTPPredictor {
	return &HTTPPredictor{
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

type predictRequest struct {
	Images map[ImageKind]string `json:"images"`
}

type predictResponse struct {
	Predictions map[ImageKind]*float64 `json:"predictions"`
}

func (p *HTTPPredictor) Predict(ctx context.Context, images map[ImageKind]string) (map[ImageKind]*float64, error) {
	body, _ := json.Marshal(predictRequest{Images: images})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predictor: %d %s", resp.StatusCode, string(respBody))
	}
	var out predictResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	return out.Predictions, nil
}

// StubPredictor returns a fixed healthy value for every provided image; for
// development without the inference service.
type StubPredictor struct{}

func (StubPredictor) Predict(ctx context.Context, images map[ImageKind]string) (map[ImageKind]*float64, error) {
	out := make(map[ImageKind]*float64, len(images))
	for kind := range images {
		v := 14.0
		out[kind] = &v
	}
	return out, nil
}
