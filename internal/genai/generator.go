// Package genai wraps the generative text model behind a narrow interface.
// The client is constructed once at startup and injected into the
// recommendation engine; tests substitute a deterministic implementation.
package genai

import "context"

// Generator produces a text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
