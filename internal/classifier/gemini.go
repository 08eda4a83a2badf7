package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/JaimeStill/toxiguard/pkg/formatting"
)

const geminiInstruction = `You moderate short user comments written mostly in Slovak.
Decide whether the comment is toxic: hateful, insulting, threatening, or harassing.
Answer only with a JSON object of the form {"toxic": true} or {"toxic": false}.`

// Gemini asks a Gemini model for a {"toxic": bool} verdict.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
	logger *slog.Logger
}

type verdict struct {
	Toxic *bool `json:"toxic"`
}

// NewGemini creates a Gemini classifier. Close releases the client.
func NewGemini(ctx context.Context, cfg *Config, logger *slog.Logger) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	model := client.GenerativeModel(cfg.Model)
	temp := float32(0)
	maxTokens := int32(32)
	model.Temperature = &temp
	model.MaxOutputTokens = &maxTokens
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(geminiInstruction)},
	}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"toxic": {Type: genai.TypeBoolean},
		},
		Required: []string{"toxic"},
	}

	logger.Info("gemini classifier initialized", "model", cfg.Model)

	return &Gemini{client: client, model: model, logger: logger}, nil
}

func (g *Gemini) Classify(ctx context.Context, text string) (Label, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return parseGemini(resp)
}

// Close releases the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func parseGemini(resp *genai.GenerateContentResponse) (Label, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrUnexpectedResponse)
	}

	content := resp.Candidates[0].Content
	if content == nil {
		return "", fmt.Errorf("%w: empty candidate", ErrUnexpectedResponse)
	}

	var sb strings.Builder
	for _, part := range content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	v, err := formatting.Parse[verdict](sb.String())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnexpectedResponse, err)
	}
	if v.Toxic == nil {
		return "", fmt.Errorf("%w: missing toxic field", ErrUnexpectedResponse)
	}

	if *v.Toxic {
		return Toxic, nil
	}
	return Neutral, nil
}
