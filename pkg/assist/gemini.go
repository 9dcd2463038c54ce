// Package assist implements the AI-fallback collaborator: a thin Gemini
// wrapper that rewrites a flagged-complex unit into target-ecosystem source.
// The converter treats it as opaque; returned text is used verbatim.
package assist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	genai "google.golang.org/genai"

	"github.com/gnana997/composeport/pkg/convert"
)

// ErrEmptyResponse indicates the model returned no usable candidate.
var ErrEmptyResponse = errors.New("assist: empty response from model")

const (
	defaultModel = "gemini-2.0-flash"
	maxAttempts  = 3
)

// Gemini is a convert.Assistant backed by the official genai client.
type Gemini struct {
	cli    *genai.Client
	model  string
	logger *slog.Logger
}

// ensure interface conformance at compile time.
var _ convert.Assistant = (*Gemini)(nil)

// NewGemini creates the client. An empty model uses the default.
func NewGemini(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assist: API key is required")
	}
	if model == "" {
		model = defaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("assist: create client: %w", err)
	}
	return &Gemini{cli: cli, model: model, logger: logger}, nil
}

// ConvertUnit sends the raw unit plus conventions and returns the model's
// source text. Retries with backoff on transient failures.
func (g *Gemini) ConvertUnit(ctx context.Context, unitText string, conv convert.Conventions) (string, error) {
	prompt := buildPrompt(unitText, conv)
	g.logger.Debug("assistant request", "model", g.model, "bytes", len(prompt))

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			&genai.GenerateContentConfig{ResponseMIMEType: "text/plain"},
		)
		switch {
		case err != nil:
			lastErr = err
		case len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0:
			lastErr = ErrEmptyResponse
		default:
			return stripCodeFence(resp.Candidates[0].Content.Parts[0].Text), nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
		}
	}
	return "", lastErr
}

// buildPrompt frames the conversion request for the model.
func buildPrompt(unitText string, conv convert.Conventions) string {
	var b strings.Builder
	b.WriteString("Convert the following parsed source unit into ")
	b.WriteString(conv.Framework)
	b.WriteString(" (Dart) source code. Reply with the complete file contents only.\n")
	if conv.Notes != "" {
		b.WriteString("Conventions: ")
		b.WriteString(conv.Notes)
		b.WriteString("\n")
	}
	b.WriteString("\n[UNIT JSON]\n")
	b.WriteString(unitText)
	return b.String()
}

// stripCodeFence removes a surrounding markdown fence if the model added one.
func stripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return text
	}
	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return text
	}
	if strings.HasPrefix(lines[len(lines)-1], "```") {
		lines = lines[1 : len(lines)-1]
	} else {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}
