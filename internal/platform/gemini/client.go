// Package gemini calls Google Gemini models through the genai SDK.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var ErrEmptyAnswer = errors.New("model answer has no text")

type Client struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewClient creates a Gemini client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, maxTokens int) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &Client{client: client, model: model, maxTokens: int32(maxTokens)}, nil
}

// Complete sends prompt as a single user turn and returns the answer text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var cfg *genai.GenerateContentConfig
	if c.maxTokens > 0 {
		cfg = &genai.GenerateContentConfig{MaxOutputTokens: c.maxTokens}
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", c.model, err)
	}
	text := result.Text()
	if text == "" {
		return "", ErrEmptyAnswer
	}
	return text, nil
}
