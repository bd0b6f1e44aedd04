package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/examforge/config"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// Blob is an optional binary attachment for an AI call: document bytes for
// extraction, audio bytes for speaking answers.
type Blob struct {
	MIMEType string
	Data     []byte
}

// AIClient is the single capability the core depends on: send a prompt (plus
// optional attachment) to a generative-AI text service and receive raw text
// back. Injected everywhere; never a process-wide global.
type AIClient interface {
	Generate(ctx context.Context, prompt string, attachment *Blob) (string, error)
}

type geminiClient struct {
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiClient builds the Gemini-backed AIClient. With no API key
// configured the client is non-functional: every call degrades with an
// upstream error instead of failing startup.
func NewGeminiClient(cfg *config.Config) (AIClient, error) {
	timeout := time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second

	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI extraction and grading will be non-functional.")
		return &geminiClient{model: nil, timeout: timeout}, nil
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Gemini.Model)
	return &geminiClient{model: model, timeout: timeout}, nil
}

func (c *geminiClient) Generate(ctx context.Context, prompt string, attachment *Blob) (string, error) {
	if c.model == nil {
		return "", &ExtractionUpstreamError{Err: fmt.Errorf("gemini client not initialized")}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var parts []genai.Part
	if attachment != nil {
		parts = append(parts, genai.Blob{MIMEType: attachment.MIMEType, Data: attachment.Data})
	}
	parts = append(parts, genai.Text(prompt))

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		log.Error().Err(err).Int("promptLen", len(prompt)).Msg("Gemini API call failed")
		return "", &ExtractionUpstreamError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		log.Warn().Msg("Gemini returned no candidates or parts in response")
		return "", &ExtractionUpstreamError{Err: fmt.Errorf("gemini returned no content")}
	}

	fullText := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			fullText += string(txt)
		}
	}
	if fullText == "" {
		return "", &ExtractionUpstreamError{Err: fmt.Errorf("gemini returned no text content")}
	}
	return fullText, nil
}
