package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsbrief/internal/config"
	"newsbrief/internal/domain"
	"newsbrief/internal/ports"
)

// CompletionClient implements ports.CompletionClient backed by
// OpenAI-compatible chat-completion APIs.
type CompletionClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

var _ ports.CompletionClient = (*CompletionClient)(nil)

// NewCompletionClient builds a client from configuration.
func NewCompletionClient(cfg config.CompletionConfig) *CompletionClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CompletionClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Complete posts the messages and returns the first choice's content. A
// response that decodes but lacks a usable first choice is reported as
// domain.ErrMalformedCompletion.
func (c *CompletionClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("completion client misconfigured")
	}

	payload := map[string]any{"messages": messages}
	if c.model != "" {
		payload["model"] = c.model
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request completion: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("completion error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	return firstChoice(resp.Body)
}

func firstChoice(body io.Reader) (string, error) {
	var decoded struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedCompletion, err)
	}

	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", domain.ErrMalformedCompletion
	}

	return decoded.Choices[0].Message.Content, nil
}
