// Package summarize produces an optional TL;DR block for the reader view by
// calling an OpenAI-compatible chat endpoint. The lifecycle core never
// depends on this package; it is wired in by the CLI when requested.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"

	"github.com/hyperifyio/goreader/internal/dom"
	"github.com/hyperifyio/goreader/internal/session"
)

// Client is the minimal interface needed to call a chat model, so any
// OpenAI-compatible or local backend can be adapted in tests or embedders.
type Client interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewOpenAIClient builds a client against an OpenAI-compatible server.
// An empty baseURL targets the default endpoint.
func NewOpenAIClient(baseURL, apiKey string) Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// Article text beyond this is not sent to the model; summaries do not improve
// with more input, token cost does.
const maxArticleChars = 8000

// Summarizer asks the model for a two-to-three sentence plain-text summary.
type Summarizer struct {
	Client Client
	Model  string
	// LanguageHint, when non-empty, must be a valid BCP 47 tag and steers
	// the summary language, e.g. "en" or "fi".
	LanguageHint string
}

// Summarize returns a short summary of the article body.
func (s *Summarizer) Summarize(ctx context.Context, a *session.Article) (string, error) {
	if s.Client == nil || strings.TrimSpace(s.Model) == "" {
		return "", errors.New("summarizer requires a client and model")
	}
	if s.LanguageHint != "" {
		if _, err := language.Parse(s.LanguageHint); err != nil {
			return "", fmt.Errorf("invalid language hint %q: %w", s.LanguageHint, err)
		}
	}

	text := dom.Text(a.Body)
	if runes := []rune(text); len(runes) > maxArticleChars {
		text = string(runes[:maxArticleChars])
	}

	system := "You summarize web articles. Reply with two or three plain sentences and nothing else."
	if s.LanguageHint != "" {
		system += " Write the summary in the language with BCP 47 tag " + s.LanguageHint + "."
	}
	user := strings.TrimSpace("Title: " + a.Title + "\n\n" + text)

	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("summary request: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summary response had no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("summary response was empty")
	}
	return out, nil
}
