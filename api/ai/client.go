// Package ai talks to an OpenAI-compatible chat completions API. Both
// supported providers (OpenAI and Grok) share the wire format, so one client
// covers them with different base URLs and models.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"storeforge/api/dto"
	"storeforge/api/models"
)

var (
	ErrNoAPIKey      = errors.New("no API key configured")
	ErrEmptyResponse = errors.New("empty model response")
)

type Client interface {
	GenerateProductFromText(ctx context.Context, text string, imageURLs []string) (*dto.ProductDraft, error)
	CompleteProductData(ctx context.Context, partial map[string]string) (*dto.ProductDraft, error)
	OptimizeSEO(ctx context.Context, draft *dto.ProductDraft) error
	GenerateVariants(ctx context.Context, draft *dto.ProductDraft, count int) error
	GenerateBlogPost(ctx context.Context, req *dto.GenerateBlogRequest) (*dto.BlogDraft, error)
	GeneratePage(ctx context.Context, req *dto.GeneratePageRequest) (*dto.PageDraft, error)
	CaptionImage(ctx context.Context, imageData []byte, mimeType string) (*dto.ImageAnnotation, error)
}

type httpClient struct {
	apiKey      string
	baseURL     string
	model       string
	visionModel string
	hc          *http.Client
}

// New builds a client for the given provider. The key must be non-empty.
func New(provider models.AIProvider, apiKey string) (Client, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	c := &httpClient{
		apiKey: apiKey,
		hc:     &http.Client{Timeout: clientTimeout()},
	}

	switch provider {
	case models.ProviderGrok:
		c.baseURL = "https://api.x.ai"
		c.model = "grok-2-latest"
		c.visionModel = "grok-2-vision-latest"
	default:
		c.baseURL = "https://api.openai.com"
		c.model = "gpt-4o"
		c.visionModel = "gpt-4o"
	}

	// AI_BASE_URL points the client at a compatible endpoint, for proxies
	// and local gateways.
	if v := os.Getenv("AI_BASE_URL"); v != "" {
		c.baseURL = v
	}

	return c, nil
}

func clientTimeout() time.Duration {
	if v := os.Getenv("AI_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 90 * time.Second
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// chat sends one completion request and returns the first choice's text.
func (c *httpClient) chat(ctx context.Context, model string, messages []chatMessage, jsonMode bool) (string, error) {
	req := chatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: 0.7,
	}
	if jsonMode {
		req.ResponseFormat = &responseFormat{Type: "json_object"}
		req.Temperature = 0.3
	}

	var resp chatResponse
	if err := c.postJSON(ctx, "/v1/chat/completions", req, &resp); err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("provider error: %s", resp.Error.Message)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// postJSON retries transient upstream failures (408/429/5xx) with
// exponential backoff before giving up.
func (c *httpClient) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	const attempts = 3
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff(i)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.hc.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusRequestTimeout ||
			resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
			continue
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
		}

		return json.Unmarshal(data, out)
	}

	return lastErr
}

func backoff(attempt int) time.Duration {
	return time.Duration(500*(1<<attempt)) * time.Millisecond
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
