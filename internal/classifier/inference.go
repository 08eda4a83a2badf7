package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Inference calls a hosted sequence-classification model that accepts
// {"inputs": text} and answers with label scores.
type Inference struct {
	endpoint   string
	token      string
	toxic      map[string]bool
	maxRetries int
	client     *http.Client
	logger     *slog.Logger
}

type score struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// NewInference creates an Inference classifier using client for transport.
func NewInference(cfg *Config, client *http.Client, logger *slog.Logger) *Inference {
	toxic := make(map[string]bool, len(cfg.ToxicLabels))
	for _, l := range cfg.ToxicLabels {
		toxic[strings.ToLower(l)] = true
	}

	return &Inference{
		endpoint:   cfg.Endpoint,
		token:      cfg.Token,
		toxic:      toxic,
		maxRetries: cfg.MaxRetries,
		client:     client,
		logger:     logger,
	}
}

// Classify retries transport failures, 429, and 5xx responses with
// exponential backoff. Other 4xx responses fail immediately.
func (c *Inference) Classify(ctx context.Context, text string) (Label, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	var scores []score
	operation := func() error {
		scores, err = c.call(ctx, body)
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.Warn("classifier call failed, retrying", "error", err, "wait", wait)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxRetries)), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return "", err
	}

	return c.decide(scores)
}

func (c *Inference) call(ctx context.Context, body []byte) ([]score, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call classifier: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("classifier status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	scores, err := decodeScores(data)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return scores, nil
}

// decodeScores accepts both the batched [[...]] and flat [...] response shapes.
func decodeScores(data []byte) ([]score, error) {
	var batched [][]score
	if err := json.Unmarshal(data, &batched); err == nil && len(batched) > 0 {
		return batched[0], nil
	}

	var flat []score
	if err := json.Unmarshal(data, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnexpectedResponse, bytes.TrimSpace(data))
}

func (c *Inference) decide(scores []score) (Label, error) {
	if len(scores) == 0 {
		return "", fmt.Errorf("%w: no scores", ErrUnexpectedResponse)
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}

	if c.toxic[strings.ToLower(best.Label)] {
		return Toxic, nil
	}
	return Neutral, nil
}
