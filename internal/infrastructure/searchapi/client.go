package searchapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/vondralink/backend/internal/domain"
)

const (
	searchPath            = "/search"
	recommendationsPath   = "/recommendations"
	personalizedRecsPath  = "/recommendations/personalized"
	defaultRequestTimeout = 30 * time.Second
	retryAttempts         = 3
)

// Client handles communication with the semantic-search backend
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	logger      *log.Logger
}

// NewClient creates a new search backend client
func NewClient(baseURL string, logger *log.Logger) *Client {
	// The backend tolerates roughly 5 req/s per client before its nginx
	// proxy starts shedding load
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: defaultRequestTimeout,
		},
		baseURL:     baseURL,
		rateLimiter: limiter,
		logger:      logger,
	}
}

// Search posts a search query and returns the raw candidate list. Every
// candidate field is optional; decoding is handled defensively by the mapper.
func (c *Client) Search(ctx context.Context, query domain.SearchQuery) ([]domain.Candidate, error) {
	c.logger.Info("Searching products", "mode", query.Mode, "limit", query.Limit)

	body, err := c.post(ctx, searchPath, query)
	if err != nil {
		return nil, err
	}

	candidates, err := decodeCandidates(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	c.logger.Debug("Search returned candidates", "count", len(candidates))
	return candidates, nil
}

// Recommendations posts a free-text description and returns the raw
// response payload. The shape is variable and normalized by the caller.
func (c *Client) Recommendations(ctx context.Context, description string) (json.RawMessage, error) {
	return c.post(ctx, recommendationsPath, map[string]string{"description": description})
}

// PersonalizedRecommendations posts a profile-driven request and returns
// the raw response payload.
func (c *Client) PersonalizedRecommendations(ctx context.Context, req domain.PersonalizedRequest) (json.RawMessage, error) {
	return c.post(ctx, personalizedRecsPath, req)
}

// post executes a JSON POST with rate limiting and retries on transient
// failures. Non-2xx statuses are reported as ErrBackendFailure.
func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var respBody []byte
	err = retry.Do(
		func() error {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(fmt.Errorf("rate limiter error: %w", err))
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrBackendFailure, err)
			}
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("%w: reading body: %v", domain.ErrBackendFailure, err)
			}

			if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
				c.logger.Warn("Backend returned non-success status",
					"path", path,
					"status", resp.StatusCode)
				return fmt.Errorf("%w: status %d", domain.ErrBackendFailure, resp.StatusCode)
			}

			respBody = body
			return nil
		},
		retry.Attempts(retryAttempts),
		retry.Delay(500*time.Millisecond),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}

	return respBody, nil
}
