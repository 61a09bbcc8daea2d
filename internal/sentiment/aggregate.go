package sentiment

import "StockPulse/internal/model"

// Summarize aggregates the scored documents belonging to source.
// A source with no documents has an average of 0.
func Summarize(source model.SourceID, docs []model.ScoredDocument) model.SourceSentimentSummary {
	s := model.SourceSentimentSummary{Source: source}
	total := 0
	for _, d := range docs {
		if d.SourceID != source {
			continue
		}
		s.Count++
		total += d.Score
		switch d.Classification {
		case model.Bullish:
			s.BullishCount++
		case model.Bearish:
			s.BearishCount++
		default:
			s.NeutralCount++
		}
		s.BucketDistribution.Add(d.Bucket)
	}
	if s.Count > 0 {
		s.AverageScore = float64(total) / float64(s.Count)
	}
	return s
}

// Combine weights each source mean by its document count.
// Empty sources carry zero weight; no documents at all yields a neutral 0.
func Combine(summaries []model.SourceSentimentSummary) model.CombinedSentimentVerdict {
	var weighted float64
	var count int
	for _, s := range summaries {
		weighted += s.AverageScore * float64(s.Count)
		count += s.Count
	}
	v := model.CombinedSentimentVerdict{TotalDocuments: count}
	if count > 0 {
		v.Score = weighted / float64(count)
	}
	v.Label = VerdictFor(v.Score)
	return v
}

// VerdictFor maps a combined score to its label.
func VerdictFor(score float64) model.VerdictLabel {
	switch {
	case score > 1:
		return model.StronglyBullish
	case score > 0:
		return model.MildlyBullish
	case score < -1:
		return model.StronglyBearish
	case score < 0:
		return model.MildlyBearish
	default:
		return model.NeutralVerdict
	}
}

// Analyze runs the sentiment pipeline over a batch of documents.
// Documents with an unknown source are scored but belong to no summary.
func Analyze(docs []model.TextDocument) model.SentimentReport {
	scored := make([]model.ScoredDocument, len(docs))
	for i, d := range docs {
		scored[i] = ScoreDocument(d)
	}
	summaries := make([]model.SourceSentimentSummary, len(model.Sources))
	for i, src := range model.Sources {
		summaries[i] = Summarize(src, scored)
	}
	return model.SentimentReport{
		Documents: scored,
		Sources:   summaries,
		Combined:  Combine(summaries),
	}
}
