package generator

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxSummaryLen bounds the extractive summary, in bytes.
const MaxSummaryLen = 280

// ExtractiveSummarizer summarises without an external call by keeping the
// leading sentences of the text. It satisfies llm.Summarizer.
type ExtractiveSummarizer struct{}

// Summarize implements llm.Summarizer.
func (ExtractiveSummarizer) Summarize(_ context.Context, text string) (string, error) {
	return Summarize(text)
}

// Summarize returns as many whole leading sentences of text as fit in
// MaxSummaryLen. A first sentence that is already too long is cut at a word
// boundary and ends with an ellipsis. Blank text is an input error.
func Summarize(text string) (string, error) {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return "", missingField("text")
	}

	var b strings.Builder
	for _, s := range sentences(text) {
		sep := 0
		if b.Len() > 0 {
			sep = 1
		}
		if b.Len()+sep+len(s) > MaxSummaryLen {
			break
		}
		if sep == 1 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() > 0 {
		return b.String(), nil
	}
	return truncateWords(text, MaxSummaryLen), nil
}

// sentences splits on '.', '!' or '?' followed by a space.
func sentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 == len(text) || text[i+1] == ' ' {
				out = append(out, strings.TrimSpace(text[start:i+1]))
				start = i + 1
			}
		}
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

func truncateWords(text string, limit int) string {
	const ellipsis = "..."
	cut := limit - len(ellipsis)
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if idx := strings.LastIndexFunc(text[:cut], unicode.IsSpace); idx > 0 {
		cut = idx
	}
	return strings.TrimRightFunc(text[:cut], unicode.IsPunct) + ellipsis
}
