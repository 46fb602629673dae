package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"
)

// ErrNoKeys is returned when a client is created without API keys.
var ErrNoKeys = errors.New("no Gemini API keys configured")

type implClient struct {
	apiKeys    []string
	model      string
	mu         sync.Mutex
	currentKey int
}

// New creates a Generator that rotates through the supplied Gemini API keys.
func New(apiKeys []string, model string) (Generator, error) {
	if len(apiKeys) == 0 {
		return nil, ErrNoKeys
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &implClient{
		apiKeys: apiKeys,
		model:   model,
	}, nil
}

// Generate calls Gemini with the prompt. Rotates API keys on 429 / quota errors.
func (c *implClient) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range c.apiKeys {
		key := c.key()

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			c.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
		if err != nil {
			if IsRateLimited(err) {
				c.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			return text.String(), nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

// IsRateLimited reports whether err looks like a quota or 429 response.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func (c *implClient) key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.apiKeys[c.currentKey]
}

func (c *implClient) rotateKey() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentKey = (c.currentKey + 1) % len(c.apiKeys)
}
