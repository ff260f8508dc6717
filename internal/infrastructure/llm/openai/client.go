// Package openai is a minimal chat-completions client for OpenAI-compatible
// endpoints: submit one prompt, receive one completion. No retries, no
// streaming, no rate limiting.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mkotelnikov/transcription-insights/internal/core/domain"
)

type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

func New(baseURL, apiKey, model string, temperature float64) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Model() string {
	return c.model
}

// GenerateInsight renders the analysis prompt for one record, performs a
// single synchronous completion call, and parses the response against the
// clinical insight schema. Parse failures propagate; there is no re-prompt.
func (c *Client) GenerateInsight(ctx context.Context, specialty, transcription string) (*domain.ClinicalInsight, error) {
	raw, err := c.complete(ctx, buildInsightPrompt(specialty, transcription))
	if err != nil {
		return nil, err
	}
	return ParseInsight(raw)
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	request := chatRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	var response chatResponse
	if err := c.postJSON(ctx, "/v1/chat/completions", request, &response, "completion"); err != nil {
		return "", err
	}
	if len(response.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
