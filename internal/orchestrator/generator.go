package orchestrator

import "context"

// Generator is the boundary to the text-generation service: prompts in,
// text out. The engine never inspects model identity or transport details.
type Generator interface {
	// Generate sends one request and returns the complete response text.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	// GenerateStream sends one request and returns the re-assembled response
	// text. onDelta, when non-nil, is called synchronously with each text
	// fragment as it arrives.
	GenerateStream(ctx context.Context, systemPrompt, userPrompt string, onDelta func(string)) (string, error)
}
