// Package correlation calls the external correlation model that prices leg dependencies.
package correlation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/parlay-engine/internal/blend"
	"github.com/yourusername/parlay-engine/internal/config"
	"github.com/yourusername/parlay-engine/internal/metrics"
	"github.com/yourusername/parlay-engine/internal/models"
)

const estimatePath = "/v1/correlation"

// Sentinel errors
var (
	ErrCircuitOpen  = errors.New("correlation circuit breaker open")
	ErrBadResponse  = errors.New("invalid correlation response")
	ErrNotAvailable = errors.New("correlation model not available")
)

// LegRequest describes one leg to the correlation model
type LegRequest struct {
	Index        int     `json:"index"`
	GameID       string  `json:"game_id,omitempty"`
	Team         string  `json:"team,omitempty"`
	Player       string  `json:"player,omitempty"`
	BetType      string  `json:"bet_type"`
	Side         string  `json:"side"`
	AmericanOdds int     `json:"american_odds"`
	Probability  float64 `json:"probability"`
}

// Request asks for a dependency-adjusted parlay probability
type Request struct {
	Legs                []LegRequest `json:"legs"`
	IndependentEstimate float64      `json:"independent_probability"`
}

// Estimate is the correlation model's answer
type Estimate struct {
	AdjustedProbability models.Optional[float64]
	CoveredLegs         int
	Warnings            []blend.Warning
}

type warningPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Legs    []int  `json:"legs"`
}

type responsePayload struct {
	AdjustedProbability *float64         `json:"adjusted_probability"`
	CoveredLegs         int              `json:"covered_legs"`
	Warnings            []warningPayload `json:"warnings"`
}

// Client calls the correlation model over HTTP
type Client struct {
	http    *RateLimitedHTTPClient
	baseURL string
	apiKey  string
	logger  *logrus.Entry
}

// NewClient creates a client from configuration. A disabled configuration is an error;
// callers skip the client entirely instead.
func NewClient(cfg config.CorrelationConfig, logger *logrus.Logger) (*Client, error) {
	if !cfg.Enabled {
		return nil, ErrNotAvailable
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("correlation base_url is required")
	}

	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = cfg.RetryAttempts
	if cfg.RequestsPerSecond > 0 {
		httpCfg.RateLimit = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		httpCfg.Burst = cfg.Burst
	}
	if cfg.CircuitCooldownSeconds > 0 {
		httpCfg.CircuitCooldown = time.Duration(cfg.CircuitCooldownSeconds) * time.Second
	}

	return NewClientWithHTTP(cfg.BaseURL, cfg.APIKey, httpCfg, logger), nil
}

// NewClientWithHTTP creates a client with explicit transport settings
func NewClientWithHTTP(baseURL, apiKey string, httpCfg HTTPClientConfig, logger *logrus.Logger) *Client {
	entry := logger.WithField("component", "correlation")
	return &Client{
		http:    NewRateLimitedHTTPClient(httpCfg, entry),
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		logger:  entry,
	}
}

// Estimate posts the legs to the correlation model and returns its adjusted probability
// and dependency warnings.
func (c *Client) Estimate(ctx context.Context, req Request) (*Estimate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode correlation request: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
	}
	if c.apiKey != "" {
		headers["X-API-Key"] = c.apiKey
	}

	start := time.Now()
	resp, err := c.http.Post(ctx, c.baseURL+estimatePath, headers, bytes.NewReader(body))
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			metrics.RecordCorrelationRequest("circuit_open")
		} else {
			metrics.RecordCorrelationRequest("error")
		}
		return nil, fmt.Errorf("failed to call correlation model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		metrics.RecordCorrelationRequest("error")
		return nil, fmt.Errorf("correlation model returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var payload responsePayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		metrics.RecordCorrelationRequest("bad_response")
		return nil, fmt.Errorf("%w: %v", ErrBadResponse, err)
	}

	estimate, err := toEstimate(payload, len(req.Legs))
	if err != nil {
		metrics.RecordCorrelationRequest("bad_response")
		return nil, err
	}

	metrics.RecordCorrelationRequest("success")
	c.logger.WithFields(logrus.Fields{
		"legs":         len(req.Legs),
		"covered_legs": estimate.CoveredLegs,
		"warnings":     len(estimate.Warnings),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Debug("Correlation estimate received")

	return estimate, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	return c.http.Close()
}

func toEstimate(payload responsePayload, legCount int) (*Estimate, error) {
	estimate := &Estimate{CoveredLegs: payload.CoveredLegs}

	if p := payload.AdjustedProbability; p != nil {
		if math.IsNaN(*p) || *p < 0 || *p > 1 {
			return nil, fmt.Errorf("%w: adjusted_probability %v outside [0,1]", ErrBadResponse, *p)
		}
		estimate.AdjustedProbability = models.Some(*p)
	}

	for _, w := range payload.Warnings {
		legs := make([]int, 0, len(w.Legs))
		for _, idx := range w.Legs {
			if idx >= 0 && idx < legCount {
				legs = append(legs, idx)
			}
		}
		estimate.Warnings = append(estimate.Warnings, blend.Warning{
			Kind:    blend.ParseWarningKind(w.Type),
			Message: w.Message,
			Legs:    legs,
		})
	}

	return estimate, nil
}
