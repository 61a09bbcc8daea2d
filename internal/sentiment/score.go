package sentiment

import (
	"strings"

	"StockPulse/internal/model"
)

// ScoreText sums the weight of every lexicon phrase contained in text.
// Matching is substring-based, so "up" also matches inside "upgrade".
func ScoreText(text string) int {
	lower := strings.ToLower(text)
	score := 0
	for _, p := range positiveLexicon {
		if strings.Contains(lower, p.Text) {
			score += p.Weight
		}
	}
	for _, p := range negativeLexicon {
		if strings.Contains(lower, p.Text) {
			score += p.Weight
		}
	}
	return score
}

// Classify maps a score to bullish, bearish or neutral by its sign.
func Classify(score int) model.Classification {
	switch {
	case score > 0:
		return model.Bullish
	case score < 0:
		return model.Bearish
	default:
		return model.Neutral
	}
}

// BucketFor assigns a score to one of the five intensity buckets.
func BucketFor(score int) model.Bucket {
	switch {
	case score >= 3:
		return model.StrongBullish
	case score >= 1:
		return model.ModerateBullish
	case score <= -3:
		return model.StrongBearish
	case score <= -1:
		return model.ModerateBearish
	default:
		return model.NeutralBucket
	}
}

// ScoreDocument scores and classifies a single document.
func ScoreDocument(doc model.TextDocument) model.ScoredDocument {
	score := ScoreText(doc.Text)
	return model.ScoredDocument{
		TextDocument:   doc,
		Score:          score,
		Classification: Classify(score),
		Bucket:         BucketFor(score),
	}
}
