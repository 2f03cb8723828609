package ai

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/models"
)

// MaxPostLength is the hard cap enforced on every rewritten post.
const MaxPostLength = 250

const systemPrompt = "You are an expert journalist summarizing news for social media."

const promptTemplate = `Write a factual, engaging post (max 250 characters, no URLs/markdown). Summarize the key point and make it eye-catching.

Title: %s
Description: %s
Source: %s`

// markdownLinkRegex matches [text](url) so model output can be reduced to the
// anchor text. The instruction in the prompt is advisory; this is the guarantee.
var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)

// Completer produces free-form text for a system instruction and user prompt.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Rewriter turns ranked articles into short publishable post text.
type Rewriter struct {
	completer Completer
}

func NewRewriter(completer Completer) *Rewriter {
	return &Rewriter{completer: completer}
}

// Rewrite produces one pair per input article, in input order. A model
// failure on any article fails the whole stage; no article is ever dropped.
func (r *Rewriter) Rewrite(ctx context.Context, articles []models.Article) ([]models.PublishPair, error) {
	pairs := make([]models.PublishPair, 0, len(articles))

	for _, article := range articles {
		prompt := fmt.Sprintf(promptTemplate, article.Title, article.Description, article.Source)

		output, err := r.completer.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			return nil, fmt.Errorf("rewrite %q: %w", article.Title, err)
		}

		pairs = append(pairs, models.PublishPair{
			Article: article,
			Text:    SanitizePost(output),
		})
	}

	logger.Get().Info().
		Int("rewritten", len(pairs)).
		Msg("Rewrote posts")

	return pairs, nil
}

// SanitizePost strips markdown link syntax down to its anchor text, trims
// surrounding whitespace, and hard-truncates to MaxPostLength characters.
func SanitizePost(text string) string {
	cleaned := markdownLinkRegex.ReplaceAllString(text, "$1")
	cleaned = strings.TrimSpace(cleaned)

	runes := []rune(cleaned)
	if len(runes) > MaxPostLength {
		return string(runes[:MaxPostLength])
	}
	return cleaned
}
