package rank

import (
	"fmt"
	"sort"
	"time"

	"github.com/bilgisen/newscast/internal/logger"
	"github.com/bilgisen/newscast/internal/models"
)

const (
	// TopCount is how many articles survive ranking.
	TopCount = 5

	defaultTrustScore = 5
	fallbackRecency   = 3
	imageBonus        = 2
)

// sourceTrust is a closed lookup of outlet weights. Built once, never mutated.
var sourceTrust = map[string]int{
	"BBC News":                10,
	"Reuters":                 10,
	"Associated Press":        10,
	"The Guardian":            9,
	"CNN":                     8,
	"The New York Times":      9,
	"Al Jazeera":              8,
	"The Washington Post":     9,
	"Bloomberg":               8,
	"CNBC":                    7,
	"Financial Times":         9,
	"NPR":                     8,
	"The Wall Street Journal": 9,
}

// Ranker scores articles by source trust, recency, and image presence.
// The clock is injectable so scoring stays deterministic under test.
type Ranker struct {
	now func() time.Time
}

func NewRanker() *Ranker {
	return &Ranker{now: time.Now}
}

// NewRankerAt pins the ranker to a fixed instant.
func NewRankerAt(now time.Time) *Ranker {
	return &Ranker{now: func() time.Time { return now }}
}

// Rank annotates every article with its priority score and reason, then
// returns the top TopCount by descending score. Ties keep fetch order, which
// carries recency information from the source. Empty input yields empty output.
func (r *Ranker) Rank(articles []models.Article) []models.Article {
	now := r.now().UTC()

	ranked := make([]models.Article, len(articles))
	copy(ranked, articles)

	for i := range ranked {
		trust := TrustScore(ranked[i].Source)
		recency := RecencyScore(ranked[i].PublishedAt, now)
		bonus := 0
		if ranked[i].ImageURL != "" {
			bonus = imageBonus
		}
		ranked[i].PriorityScore = float64(trust + recency + bonus)
		ranked[i].PriorityReason = fmt.Sprintf("source=%d, recency=%d", trust, recency)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})

	if len(ranked) > TopCount {
		ranked = ranked[:TopCount]
	}

	logger.Get().Info().
		Int("selected", len(ranked)).
		Msg("Selected top articles")

	return ranked
}

// TrustScore looks up the outlet weight; unlisted sources score 5.
func TrustScore(source string) int {
	if score, ok := sourceTrust[source]; ok {
		return score
	}
	return defaultTrustScore
}

// RecencyScore maps elapsed hours since publication to a fixed breakpoint
// scale. A missing or unparsable timestamp scores 3.
func RecencyScore(publishedAt string, now time.Time) int {
	pub, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return fallbackRecency
	}

	hours := now.Sub(pub).Hours()
	switch {
	case hours <= 6:
		return 10
	case hours <= 24:
		return 8
	case hours <= 48:
		return 6
	case hours <= 168:
		return 4
	default:
		return 2
	}
}
