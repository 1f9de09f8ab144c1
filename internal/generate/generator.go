// Package generate produces the Instant and Deep reports by calling a
// hosted model with a strict-JSON prompt and defensively normalizing
// whatever comes back.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/nicheproof/nicheproof/internal/domain"
)

// Generator is the model-facing interface the HTTP handlers consume.
type Generator interface {
	Instant(ctx context.Context, prefs domain.Preferences) (*domain.InstantResult, error)
	Deep(ctx context.Context, prefs domain.Preferences) (*domain.DeepResult, error)
}

// GeminiGenerator implements Generator on top of the Gemini API.
type GeminiGenerator struct {
	client       *genai.Client
	instantModel *genai.GenerativeModel
	deepModel    *genai.GenerativeModel
	timeout      time.Duration
}

// NewGemini creates a generator with one model per report kind: the
// deep model carries the stricter system instruction and a larger
// output budget. Timeout bounds each generation call.
func NewGemini(ctx context.Context, apiKey, modelName string, timeout time.Duration) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create model client: %w", err)
	}

	instant := client.GenerativeModel(modelName)
	instant.SetTemperature(0.7)
	instant.SetTopP(0.95)
	instant.SetMaxOutputTokens(1024)
	instant.ResponseMIMEType = "application/json"
	instant.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(instantSystemPrompt)}}

	deep := client.GenerativeModel(modelName)
	deep.SetTemperature(0.4)
	deep.SetTopP(0.95)
	deep.SetMaxOutputTokens(2048)
	deep.ResponseMIMEType = "application/json"
	deep.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(deepSystemPrompt)}}

	return &GeminiGenerator{
		client:       client,
		instantModel: instant,
		deepModel:    deep,
		timeout:      timeout,
	}, nil
}

// Close releases the underlying client.
func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// Instant generates the free first-pass idea summary.
func (g *GeminiGenerator) Instant(ctx context.Context, prefs domain.Preferences) (*domain.InstantResult, error) {
	raw, err := g.complete(ctx, g.instantModel, buildInstantPrompt(prefs))
	if err != nil {
		return nil, err
	}
	return NormalizeInstant(raw, prefs)
}

// Deep generates the paid decision report.
func (g *GeminiGenerator) Deep(ctx context.Context, prefs domain.Preferences) (*domain.DeepResult, error) {
	raw, err := g.complete(ctx, g.deepModel, buildDeepPrompt(prefs))
	if err != nil {
		return nil, err
	}
	return NormalizeDeep(raw)
}

func (g *GeminiGenerator) complete(ctx context.Context, model *genai.GenerativeModel, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model returned no content")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}
