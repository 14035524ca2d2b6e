package importer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/conneroisu/caxton/internal/document"
)

// AssetService is the external asset-processing collaborator. One call per
// asset per transformation; retries, if any, are the service's own
// business.
type AssetService interface {
	// Process submits a job for the source URL and blocks until the
	// processed media reference is available or the context is done.
	Process(ctx context.Context, sourceURL string) (document.MediaReference, error)
}

// HTTPAssetService talks to an asset-processing service over HTTP: POST a
// {sourceUrl} job, receive the processed {url,width,height,size,mimeType}.
type HTTPAssetService struct {
	endpoint string
	client   *http.Client
}

// NewHTTPAssetService creates a client for the service at endpoint.
func NewHTTPAssetService(endpoint string, timeout time.Duration) *HTTPAssetService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &HTTPAssetService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type assetJobRequest struct {
	SourceURL string `json:"sourceUrl"`
}

// Process implements AssetService.
func (s *HTTPAssetService) Process(ctx context.Context, sourceURL string) (document.MediaReference, error) {
	body, err := json.Marshal(assetJobRequest{SourceURL: sourceURL})
	if err != nil {
		return document.MediaReference{}, fmt.Errorf("failed to encode asset job: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return document.MediaReference{}, fmt.Errorf("failed to build asset job request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return document.MediaReference{}, fmt.Errorf("asset job request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return document.MediaReference{}, fmt.Errorf("asset service returned %s", resp.Status)
	}

	var ref document.MediaReference
	if err := json.NewDecoder(resp.Body).Decode(&ref); err != nil {
		return document.MediaReference{}, fmt.Errorf("failed to decode asset job response: %w", err)
	}

	if ref.URL == "" {
		return document.MediaReference{}, fmt.Errorf("asset service returned no url")
	}

	return ref, nil
}
