package enrich

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const summaryPrompt = `
Given the following Reddit post, extract:
- A concise, clear title (max 10 words)
- A 1-2 sentence summary/description

Format:
Title: ...
Description: ...
`

const solutionPrompt = `You are an expert startup consultant.

Given the Reddit post below (title and body), generate a startup solution with clear sections in bullet points or numbered steps. Format the response in a clean outline suitable for web display.

Follow this format exactly:
1. 📝 Problem Summary – 1-2 lines explaining the user's problem.
2. 🚀 Proposed Startup Solution – 2-3 lines describing the idea in simple language.
3. 📦 MVP Plan – Bullet points showing what a minimum viable version would look like.
4. 🔧 Suggested Tools/Tech – Mention free tools or platforms.
5. 🧪 Validation Tips – How to test this idea quickly.

Avoid emojis in your answer (except for those used in section headers).
Avoid markdown formatting (no **, [](), or backticks).
Avoid large paragraphs. Keep it structured and readable.`

// Gemini is a Provider backed by Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing Gemini API key")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Summarize(ctx context.Context, title, body string) (*Enrichment, error) {
	content := fmt.Sprintf("Title: %s\n\nText: %s\n\n%s", title, body, summaryPrompt)

	text, err := g.generate(ctx, content)
	if err != nil {
		return nil, err
	}

	return ParseEnrichment(text), nil
}

func (g *Gemini) Solve(ctx context.Context, title, body string) (*Solution, error) {
	content := fmt.Sprintf("%s\n\nNow here is the Reddit post:\nTitle: %s\nBody: %s", solutionPrompt, title, body)

	text, err := g.generate(ctx, content)
	if err != nil {
		return nil, err
	}

	return &Solution{Solution: text}, nil
}

func (g *Gemini) generate(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("gemini: unexpected part type %T", resp.Candidates[0].Content.Parts[0])
	}

	return string(text), nil
}

var _ Provider = (*Gemini)(nil)
