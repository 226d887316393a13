package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/contactaryanshukla14-lgtm/torchserve-workshop/internal/config"

	"go.uber.org/zap"
)

var (
	// ErrUnavailable covers transport-level failures: connection refused,
	// DNS, timeouts. The backend never saw the request, or never answered.
	ErrUnavailable = errors.New("backend unreachable")

	// ErrBadStatus means the backend answered with a non-2xx status.
	ErrBadStatus = errors.New("backend returned error status")

	// ErrDecode means the response body was not a usable prediction map.
	ErrDecode = errors.New("failed to decode prediction response")
)

// Client submits images to the serving backend's prediction route and decodes
// the ranked result. Each call is one synchronous round trip; there is no
// retry and no state carried between calls.
type Client struct {
	baseURL    string
	modelName  string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(cfg *config.BackendConfig, modelName string, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(config.DefaultTimeoutSecs) * time.Second
	}

	return &Client{
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.InferencePort),
		modelName:  modelName,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.Named("inference"),
	}
}

// Predict posts the raw image bytes to the prediction route and blocks until
// the backend responds or the client timeout elapses.
func (c *Client) Predict(ctx context.Context, imageBytes []byte) (Result, error) {
	url := fmt.Sprintf("%s/predictions/%s", c.baseURL, c.modelName)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(imageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Prediction request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("Prediction returned error status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", truncate(body, 200)),
		)
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	result, err := decodeResult(body)
	if err != nil {
		c.logger.Warn("Prediction response undecodable", zap.Error(err))
		return nil, err
	}

	c.logger.Debug("Prediction complete",
		zap.Duration("latency", time.Since(start)),
		zap.Int("classes", len(result)),
	)

	return result, nil
}

// Ping probes the backend's health route on the inference port.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode)
	}

	return nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}

	return b[:n]
}
