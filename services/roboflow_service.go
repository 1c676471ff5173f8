package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/siddevkota/NutriCare/models"
)

// RoboflowService calls the hosted semantic-segmentation model. The model
// is an external collaborator: this client ships a base64 image out and
// materializes the returned mask, class map and image dimensions. Nothing
// here trains, loads or executes the model itself.
type RoboflowService struct {
	endpoint  string
	projectID string
	version   string
	apiKey    string
	client    *http.Client
	log       *zap.Logger
}

func NewRoboflowService(endpoint, projectID, version, apiKey string, timeout time.Duration, log *zap.Logger) *RoboflowService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if version == "" {
		version = "1"
	}
	return &RoboflowService{
		endpoint:  strings.TrimRight(endpoint, "/"),
		projectID: projectID,
		version:   version,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: timeout},
		log:       log,
	}
}

// Configured reports whether the client has enough settings to reach the
// model. Health reporting reads this; Detect refuses to run without it.
func (s *RoboflowService) Configured() bool {
	return s.apiKey != "" && s.projectID != ""
}

// ImageInfo is the original image size as reported by the model.
type ImageInfo struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SegmentationResult is the model response consumed by the pipeline: the
// mask stays base64 so it can be passed through to clients untouched.
type SegmentationResult struct {
	SegmentationMask string          `json:"segmentation_mask"`
	ClassMap         models.ClassMap `json:"class_map"`
	Image            ImageInfo       `json:"image"`
}

// Detect posts the base64 image to the serverless segmentation endpoint
// (form-encoded body, api key as query parameter) and parses the result.
func (s *RoboflowService) Detect(ctx context.Context, imageB64 string) (*SegmentationResult, error) {
	if !s.Configured() {
		return nil, fmt.Errorf("segmentation model not configured: api key or project id missing")
	}

	endpoint := fmt.Sprintf("%s/%s/%s?api_key=%s",
		s.endpoint, s.projectID, s.version, url.QueryEscape(s.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(imageB64))
	if err != nil {
		return nil, fmt.Errorf("failed to create model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call segmentation model: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("segmentation model error %d: %s", resp.StatusCode, truncate(string(body), 512))
	}

	var result SegmentationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse model response: %w", err)
	}

	s.log.Info("segmentation model responded",
		zap.Int("classes", len(result.ClassMap)),
		zap.Int("image_width", result.Image.Width),
		zap.Int("image_height", result.Image.Height),
		zap.Duration("took", time.Since(start)),
	)
	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
