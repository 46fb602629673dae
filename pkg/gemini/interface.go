package gemini

import "context"

// Generator sends a prompt to a language model and returns its text reply.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
