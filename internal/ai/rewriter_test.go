package ai

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/bilgisen/newscast/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	outputs map[string]string
	err     error
	calls   []string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, prompt string) (string, error) {
	f.calls = append(f.calls, prompt)
	if f.err != nil {
		return "", f.err
	}
	for key, out := range f.outputs {
		if strings.Contains(prompt, key) {
			return out, nil
		}
	}
	return "default output", nil
}

func TestSanitizePostStripsMarkdownLinks(t *testing.T) {
	got := SanitizePost("Breaking: [read more](https://example.com) about [this](http://x.y).")
	assert.Equal(t, "Breaking: read more about this.", got)
	assert.NotContains(t, got, "](")
}

func TestSanitizePostTruncates(t *testing.T) {
	long := strings.Repeat("a", 400)
	got := SanitizePost(long)
	assert.Len(t, []rune(got), MaxPostLength)

	// Multi-byte runes count as single characters.
	unicode := strings.Repeat("ü", 300)
	got = SanitizePost(unicode)
	assert.Len(t, []rune(got), MaxPostLength)
}

func TestSanitizePostTrims(t *testing.T) {
	assert.Equal(t, "tidy", SanitizePost("  \n tidy \t "))
}

func TestSanitizePostShortOutputUnchanged(t *testing.T) {
	assert.Equal(t, "short post", SanitizePost("short post"))
}

func TestRewritePreservesOrderAndCount(t *testing.T) {
	articles := []models.Article{
		{Title: "alpha story", Description: "d1", Source: "Reuters"},
		{Title: "beta story", Description: "d2", Source: "CNN"},
		{Title: "gamma story", Description: "d3", Source: "Unknown"},
	}

	completer := &fakeCompleter{outputs: map[string]string{
		"alpha story": "post about alpha",
		"beta story":  "post about beta",
		"gamma story": "post about gamma",
	}}

	pairs, err := NewRewriter(completer).Rewrite(context.Background(), articles)
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.Equal(t, "alpha story", pairs[0].Article.Title)
	assert.Equal(t, "post about alpha", pairs[0].Text)
	assert.Equal(t, "beta story", pairs[1].Article.Title)
	assert.Equal(t, "gamma story", pairs[2].Article.Title)

	// Prompt carries title, description, and source.
	assert.Contains(t, completer.calls[0], "Title: alpha story")
	assert.Contains(t, completer.calls[0], "Description: d1")
	assert.Contains(t, completer.calls[0], "Source: Reuters")
}

func TestRewriteModelFailureIsStageFatal(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("model unavailable")}
	articles := []models.Article{{Title: "alpha"}, {Title: "beta"}}

	pairs, err := NewRewriter(completer).Rewrite(context.Background(), articles)
	require.Error(t, err)
	assert.Nil(t, pairs)
	assert.Contains(t, err.Error(), "model unavailable")
}
