package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/nerveconnect/clinic-api/pkg/circuitbreaker"
	apperrors "github.com/nerveconnect/clinic-api/pkg/errors"
	"github.com/nerveconnect/clinic-api/pkg/metrics"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-pro-latest"
)

// Config is loaded from the environment only; the API key never lives in a
// config file. NEXT_GOOGLE_GEMINI_API_KEY is an accepted legacy alias.
type Config struct {
	APIKey       string        `envconfig:"GEMINI_API_KEY"`
	LegacyAPIKey string        `envconfig:"NEXT_GOOGLE_GEMINI_API_KEY"`
	Model        string        `envconfig:"GEMINI_MODEL"`
	BaseURL      string        `envconfig:"GEMINI_BASE_URL"`
	Timeout      time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	MaxAttempts  int           `envconfig:"GEMINI_MAX_ATTEMPTS" default:"3"`

	// FallbackText, when set, is returned by the prescription composer in
	// place of an upstream failure. Off by default: the failure surfaces
	// as an error.
	FallbackText string `envconfig:"GEMINI_FALLBACK_TEXT"`
}

// Key returns the configured credential, preferring the primary variable.
func (c Config) Key() string {
	if c.APIKey != "" {
		return c.APIKey
	}
	return c.LegacyAPIKey
}

// Request is one generation call. Temperature is always sent so a zero
// value pins the model to fully deterministic sampling.
type Request struct {
	// Operation labels metrics ("extract", "compose").
	Operation        string
	Prompt           string
	Temperature      float64
	ResponseMIMEType string
}

// Client talks to the generative-language REST API:
// POST {base}/models/{model}:generateContent?key={key} with
// {contents:[{role:"user",parts:[{text:...}]}], generationConfig:{...}},
// reply text at candidates[0].content.parts[0].text.
type Client struct {
	cfg        Config
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
	metrics    *metrics.Metrics
}

func NewClient(cfg Config, m *metrics.Metrics) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb: circuitbreaker.New(circuitbreaker.Settings{
			Name:        "gemini",
			MaxFailures: 5,
			Timeout:     15 * time.Second,
		}),
		metrics: m,
	}
}

// wire types, pinned to the upstream contract

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent issues one generation call with bounded retries.
// Transport errors, 429 and 5xx replies are retried with exponential
// backoff; other 4xx replies fail immediately. A missing credential is a
// configuration error, everything else an upstream error carrying the
// upstream detail.
func (c *Client) GenerateContent(ctx context.Context, req Request) (string, error) {
	if c.cfg.Key() == "" {
		return "", apperrors.Configuration("GEMINI_API_KEY not configured")
	}
	if strings.TrimSpace(req.Prompt) == "" {
		return "", apperrors.Validation("prompt is required", nil)
	}

	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: req.Prompt}},
		}},
		GenerationConfig: generationConfig{
			Temperature:      req.Temperature,
			ResponseMIMEType: req.ResponseMIMEType,
		},
	})
	if err != nil {
		return "", apperrors.Internal(err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.Key())

	var text string
	attempt := 0
	operation := func() error {
		attempt++
		if attempt > 1 {
			c.metrics.RecordUpstreamRetry(req.Operation)
		}

		start := time.Now()
		var opErr error
		text, opErr = c.doRequest(ctx, url, body)
		c.metrics.ObserveUpstream(req.Operation, time.Since(start))
		return opErr
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponentialBackOff(), uint64(c.cfg.MaxAttempts-1)),
		ctx,
	)

	err = c.cb.Execute(func() error { return backoff.Retry(operation, policy) })
	if err != nil {
		appErr := apperrors.From(err)
		if appErr.Code == apperrors.ErrInternal {
			// Breaker-open or context errors surface as upstream failures.
			return "", apperrors.Upstream("Failed to call Gemini API", err.Error(), err)
		}
		return "", appErr
	}
	return text, nil
}

func (c *Client) doRequest(ctx context.Context, url string, body []byte) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(apperrors.Internal(err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Transport failure or timeout, retryable.
		return "", apperrors.Upstream("Failed to call Gemini API", err.Error(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.Upstream("Failed to call Gemini API", err.Error(), err)
	}

	if resp.StatusCode != http.StatusOK {
		detail := upstreamDetail(raw, resp.StatusCode)
		upErr := apperrors.Upstream("Failed to call Gemini API", detail, nil)
		if retryable(resp.StatusCode) {
			return "", upErr
		}
		return "", backoff.Permanent(upErr)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", backoff.Permanent(apperrors.Upstream("Gemini returned a malformed reply", err.Error(), err))
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func upstreamDetail(raw []byte, status int) string {
	var parsed apiError
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	return fmt.Sprintf("upstream returned status %d", status)
}

func newExponentialBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.MaxElapsedTime = 0 // bounded by attempt count and context deadline
	return b
}

// StripFences removes a leading/trailing markdown code fence around a JSON
// reply, as the model sometimes wraps JSON-mode output in ```json blocks.
func StripFences(s string) string {
	out := strings.TrimSpace(s)
	if strings.HasPrefix(out, "```") {
		out = strings.TrimPrefix(out, "```json")
		out = strings.TrimPrefix(out, "```")
		out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	}
	return strings.TrimSpace(out)
}
