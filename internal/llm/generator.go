package llm

import (
	"context"

	"github.com/huracan-ai/huracan/internal/domain"
)

// Generator defines the interface for the generative-text backend. Each
// method is a single model call over a deterministic prompt; callers decide
// which failures are fatal.
type Generator interface {
	// ExtractAddress pulls a physical address out of a conversation
	// transcript. Returns "" when no address is mentioned.
	ExtractAddress(ctx context.Context, history string) (string, error)

	// GenerateSolutions produces a free-text repair-solutions block for one
	// image analysis, optionally with the user's own description as context.
	GenerateSolutions(ctx context.Context, analysis domain.ImageAnalysis, userContext string) (string, error)

	// ExplainDisasterAid explains disaster declarations and available aid
	// programs for an address.
	ExplainDisasterAid(ctx context.Context, disasters []domain.Disaster, address string) (string, error)

	// SummarizeTitle condenses a conversation into a short thread title.
	SummarizeTitle(ctx context.Context, conversation string) (string, error)

	// Generate runs one raw generation call and returns the text output.
	Generate(ctx context.Context, prompt string) (string, error)
}
