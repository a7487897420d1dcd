// Package httpscorer calls the external patentability scoring service.
package httpscorer

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"patentdesk/internal/config"
	"patentdesk/internal/port"
)

// ErrNotConfigured is returned by the disabled scorer.
var ErrNotConfigured = errors.New("likelihood scorer is not configured")

// rateFields are tried in order; the service has answered with each shape.
var rateFields = []string{"data.likelihood_rate", "likelihood_rate", "data.score", "score"}

// Scorer implements port.LikelihoodScorer over HTTP.
type Scorer struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewScorer creates a Scorer from config. The scoring path is appended to BaseURL.
func NewScorer(cfg *config.ScorerConfig) *Scorer {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Scorer{
		endpoint: strings.TrimRight(cfg.BaseURL, "/") + "/v1/likelihood",
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
	}
}

func (s *Scorer) Score(ctx context.Context, input port.ScoreInput) (float64, error) {
	reqBody := map[string]interface{}{
		"application_no": input.ApplicationNo,
		"title":          input.Title,
		"document": map[string]interface{}{
			"file_name":  input.FileName,
			"media_type": input.ContentType,
			"data":       base64.StdEncoding.EncodeToString(input.Content),
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling scoring service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("scoring service error (status %d): %s", resp.StatusCode, truncate(string(respBody), 300))
	}

	return parseRate(respBody)
}

// parseRate extracts the rate as a percentage. Fractions in [0, 1] are scaled.
func parseRate(body []byte) (float64, error) {
	if !gjson.ValidBytes(body) {
		return 0, fmt.Errorf("scoring service returned invalid JSON: %s", truncate(string(body), 300))
	}
	for _, path := range rateFields {
		res := gjson.GetBytes(body, path)
		if !res.Exists() || res.Type != gjson.Number {
			continue
		}
		rate := res.Float()
		if rate >= 0 && rate <= 1 && strings.HasSuffix(path, "score") {
			rate *= 100
		}
		if rate < 0 || rate > 100 {
			return 0, fmt.Errorf("scoring service returned out-of-range rate %v", rate)
		}
		return rate, nil
	}
	return 0, fmt.Errorf("scoring service response has no rate: %s", truncate(string(body), 300))
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

type disabled struct{}

// Disabled returns a scorer that always fails with ErrNotConfigured.
func Disabled() port.LikelihoodScorer {
	return disabled{}
}

func (disabled) Score(context.Context, port.ScoreInput) (float64, error) {
	return 0, ErrNotConfigured
}
