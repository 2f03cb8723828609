package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ModeOnce, cfg.RunMode)
	assert.Equal(t, "india", cfg.Topic)
	assert.False(t, cfg.AutoPost)
	assert.Equal(t, 2, cfg.MaxPosts)
	assert.Equal(t, "https://newsapi.org/v2/everything", cfg.NewsBaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.AIModel)
	assert.Equal(t, "user", cfg.TwitterHandle)
	assert.Equal(t, 720*time.Hour, cfg.CacheTTL)
}

func TestAutoPostStringForms(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"TRUE", true},
		{"True", true},
		{"false", false},
		{"FALSE", false},
		{"yes", false}, // unrecognized, falls back to default
	}

	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("AUTO_POST", tc.value)
			cfg := Load()
			assert.Equal(t, tc.want, cfg.AutoPost)
		})
	}
}

func TestValidateRejectsNegativeMaxPosts(t *testing.T) {
	cfg := Load()
	cfg.MaxPosts = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MaxPosts")
}

func TestSocialConfigured(t *testing.T) {
	cfg := Load()
	assert.False(t, cfg.SocialConfigured())

	cfg.TwitterAPIKey = "k"
	cfg.TwitterAPISecret = "s"
	cfg.TwitterAccessToken = "t"
	cfg.TwitterAccessSecret = "ts"
	assert.True(t, cfg.SocialConfigured())
}
