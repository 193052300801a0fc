package astro

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/notpasha/astro/internal/core"
)

const geminiSystemPrompt = "You are a warm, insightful astrologer. Answer the " +
	"user's question with an astrological reading. Keep it to a short paragraph " +
	"and address the user by name when one is given."

// GeminiResponder generates readings with Gemini behind the same interface
// as the mock responder.
type GeminiResponder struct {
	client    *genai.Client
	modelName string
}

func NewGeminiResponder(ctx context.Context, apiKey, modelName string) (*GeminiResponder, error) {
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}
	return &GeminiResponder{client: cl, modelName: modelName}, nil
}

func (g *GeminiResponder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiResponder) Generate(ctx context.Context, query, userName string) (string, error) {
	m := g.client.GenerativeModel(g.modelName)
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(geminiSystemPrompt)},
	}

	prompt := query
	if userName != "" {
		prompt = fmt.Sprintf("The user's name is %s.\n\n%s", userName, query)
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}

var _ core.Generator = (*GeminiResponder)(nil)
