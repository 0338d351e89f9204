package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/huracan-ai/huracan/internal/config"
	"github.com/huracan-ai/huracan/internal/domain"
	"github.com/huracan-ai/huracan/internal/llm"
	"google.golang.org/api/option"
)

// Client implements llm.Generator using the Gemini API
type Client struct {
	apiKey string
	model  string
}

// NewClient creates a new Gemini client
func NewClient(cfg config.GeminiConfig) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		model:  cfg.Model,
	}
}

// Model returns the configured model name
func (c *Client) Model() string {
	if c.model != "" {
		return c.model
	}
	return "gemini-2.5-flash"
}

// IsConfigured checks whether the client has credentials
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

// Generate runs one generation call and returns the concatenated text output
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", fmt.Errorf("gemini client is not configured (missing API key)")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(c.Model())

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}

	return output.String(), nil
}

// ExtractAddress pulls a home address out of the transcript, "" when the
// model answers "null"
func (c *Client) ExtractAddress(ctx context.Context, history string) (string, error) {
	text, err := c.Generate(ctx, llm.BuildAddressPrompt(history))
	if err != nil {
		return "", err
	}

	address := strings.TrimSpace(text)
	if strings.EqualFold(address, "null") {
		return "", nil
	}
	return address, nil
}

// GenerateSolutions produces a repair-solutions text block for one analysis
func (c *Client) GenerateSolutions(ctx context.Context, analysis domain.ImageAnalysis, userContext string) (string, error) {
	return c.Generate(ctx, llm.BuildSolutionsPrompt(analysis, userContext))
}

// ExplainDisasterAid explains declarations and aid programs for an address
func (c *Client) ExplainDisasterAid(ctx context.Context, disasters []domain.Disaster, address string) (string, error) {
	return c.Generate(ctx, llm.BuildAidPrompt(disasters, address))
}

// SummarizeTitle condenses a conversation into a short title
func (c *Client) SummarizeTitle(ctx context.Context, conversation string) (string, error) {
	text, err := c.Generate(ctx, llm.BuildTitlePrompt(conversation))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}
