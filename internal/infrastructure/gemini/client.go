package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/shelflens/backend/internal/domain"
	"github.com/shelflens/backend/internal/metrics"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client submits schema-constrained generation requests to the inference
// service and retries transient failures with exponential backoff.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	model       string
	policy      BackoffPolicy
	rateLimiter *rate.Limiter
	logger      *zap.Logger

	// sleep is swapped out in tests to observe delays without waiting
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates an inference client. An empty baseURL selects the
// public endpoint.
func NewClient(apiKey, baseURL, model string, policy BackoffPolicy, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	// Free-tier generateContent quota is 15 requests per minute,
	// so 0.25 requests/sec with a small burst.
	limiter := rate.NewLimiter(rate.Limit(0.25), 5)

	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		model:       model,
		policy:      policy,
		rateLimiter: limiter,
		logger:      logger,
		sleep:       sleepContext,
	}
}

// request/response types mirror the generateContent API structure

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"response_mime_type"`
	ResponseSchema   *Schema `json:"response_schema"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateProductInfo builds the prompt and response constraint for req,
// submits it, and returns the raw JSON text of the reply.
func (c *Client) GenerateProductInfo(ctx context.Context, req *domain.QueryRequest) (string, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return "", err
	}
	return c.generate(ctx, prompt, ResponseSchema())
}

// generate runs the bounded retry loop: rate-limited signals and network
// failures back off and retry, a malformed envelope fails immediately, and
// running out of attempts surfaces the last cause.
func (c *Client) generate(ctx context.Context, prompt *Prompt, schema *Schema) (string, error) {
	body, err := json.Marshal(buildRequest(prompt, schema))
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return "", domain.NewTransportError(domain.TransportTransientFailure, err)
		}

		metrics.InferenceAttempts.Inc()
		text, err := c.doGenerate(ctx, endpoint, body)
		if err == nil {
			return text, nil
		}

		if te, ok := domain.AsTransportError(err); ok && te.Kind == domain.TransportInvalidResponseShape {
			return "", err
		}

		lastErr = err
		if c.policy.Exhausted(attempt) {
			break
		}

		delay := c.policy.Delay(attempt)
		c.logger.Warn("inference attempt failed, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		metrics.InferenceRetries.Inc()

		if err := c.sleep(ctx, delay); err != nil {
			return "", domain.NewTransportError(domain.TransportTransientFailure, err)
		}
	}

	return "", domain.NewTransportError(domain.TransportRetriesExhausted, lastErr)
}

// doGenerate performs one network call and classifies its outcome
func (c *Client) doGenerate(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", domain.NewTransportError(domain.TransportTransientFailure, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewTransportError(domain.TransportTransientFailure, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", domain.NewTransportError(domain.TransportRateLimited,
			fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}
	if resp.StatusCode != http.StatusOK {
		return "", domain.NewTransportError(domain.TransportTransientFailure,
			fmt.Errorf("status %d: %s", resp.StatusCode, respBody))
	}

	var envelope generateResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return "", domain.NewTransportError(domain.TransportInvalidResponseShape, err)
	}
	if len(envelope.Candidates) == 0 || len(envelope.Candidates[0].Content.Parts) == 0 {
		return "", domain.NewTransportError(domain.TransportInvalidResponseShape,
			fmt.Errorf("reply carries no candidate content"))
	}

	text := envelope.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", domain.NewTransportError(domain.TransportInvalidResponseShape,
			fmt.Errorf("reply candidate carries empty text"))
	}
	return text, nil
}

func buildRequest(prompt *Prompt, schema *Schema) generateRequest {
	parts := make([]part, 0, len(prompt.Parts))
	for _, p := range prompt.Parts {
		if p.Inline != nil {
			parts = append(parts, part{InlineData: &inlineData{
				MIMEType: p.Inline.MIMEType,
				Data:     p.Inline.Data,
			}})
			continue
		}
		parts = append(parts, part{Text: p.Text})
	}

	return generateRequest{
		Contents: []content{{Parts: parts}},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		},
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
