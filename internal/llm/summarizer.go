package llm

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer condenses free text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Completer is the part of Client that ChatSummarizer needs.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

const summarySystemPrompt = `You summarise a traveller's day notes.
Reply with two or three plain sentences, past tense, no lists, no markdown.
Keep names of places exactly as written.`

// ChatSummarizer summarises text with a chat-completions model.
type ChatSummarizer struct {
	c Completer
}

// NewChatSummarizer returns a Summarizer backed by c.
func NewChatSummarizer(c Completer) *ChatSummarizer {
	return &ChatSummarizer{c: c}
}

// Summarize implements Summarizer.
func (s *ChatSummarizer) Summarize(ctx context.Context, text string) (string, error) {
	out, err := s.c.Complete(ctx, CompletionRequest{
		System:      summarySystemPrompt,
		User:        text,
		Temperature: 0.3,
		MaxTokens:   300,
	})
	if err != nil {
		return "", fmt.Errorf("llm.ChatSummarizer.Summarize: %w", err)
	}
	return strings.TrimSpace(out), nil
}
