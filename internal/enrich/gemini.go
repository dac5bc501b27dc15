package enrich

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model asked for enrichments.
const DefaultModel = "gemini-3-flash-preview"

// ErrNoCandidates is returned when Gemini answers without any candidate,
// typically because the prompt was blocked.
var ErrNoCandidates = errors.New("gemini returned no candidates")

// GeminiConfig configures the Gemini-backed Model.
type GeminiConfig struct {
	APIKey     string
	Model      string
	HTTPClient *http.Client // optional
}

// GeminiModel asks Gemini for JSON constrained by ResponseSchema.
type GeminiModel struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// ResponseSchema declares the object the model must return.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "A catchy title for the link",
			},
			"tags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "List of 3 relevant tags",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "A one-sentence summary",
			},
		},
		Required: []string{"title", "tags", "summary"},
	}
}

// NewGeminiModel creates the genai client. It does not contact the API.
func NewGeminiModel(ctx context.Context, cfg GeminiConfig) (*GeminiModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("gemini: api key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}

	return &GeminiModel{
		client: client,
		model:  model,
		config: &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   ResponseSchema(),
		},
	}, nil
}

// Name returns the configured model id.
func (g *GeminiModel) Name() string { return g.model }

// Generate sends the prompt and returns the concatenated text parts of the
// first candidate.
func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.config)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
