package model

// SourceID identifies where a text document came from.
type SourceID string

const (
	SourceNews         SourceID = "news"
	SourceSocialForum  SourceID = "social-forum"
	SourceSocialStream SourceID = "social-stream"
)

// Sources lists every source in aggregation order.
var Sources = []SourceID{SourceNews, SourceSocialForum, SourceSocialStream}

// TextDocument is opaque text tagged with its source.
type TextDocument struct {
	SourceID SourceID `json:"sourceId"`
	Text     string   `json:"text"`
}

// Classification is the sign of a document score.
type Classification string

const (
	Bullish Classification = "bullish"
	Bearish Classification = "bearish"
	Neutral Classification = "neutral"
)

// Bucket is one of five ordinal sentiment-intensity classes.
type Bucket string

const (
	StrongBullish   Bucket = "strongBullish"
	ModerateBullish Bucket = "moderateBullish"
	NeutralBucket   Bucket = "neutral"
	ModerateBearish Bucket = "moderateBearish"
	StrongBearish   Bucket = "strongBearish"
)

// BucketCounts is a five-bucket histogram.
type BucketCounts struct {
	StrongBullish   int `json:"strongBullish"`
	ModerateBullish int `json:"moderateBullish"`
	Neutral         int `json:"neutral"`
	ModerateBearish int `json:"moderateBearish"`
	StrongBearish   int `json:"strongBearish"`
}

// Add increments the count for b.
func (c *BucketCounts) Add(b Bucket) {
	switch b {
	case StrongBullish:
		c.StrongBullish++
	case ModerateBullish:
		c.ModerateBullish++
	case ModerateBearish:
		c.ModerateBearish++
	case StrongBearish:
		c.StrongBearish++
	default:
		c.Neutral++
	}
}

// Total returns the sum of all buckets.
func (c BucketCounts) Total() int {
	return c.StrongBullish + c.ModerateBullish + c.Neutral + c.ModerateBearish + c.StrongBearish
}

// ScoredDocument is a document with its lexicon score.
type ScoredDocument struct {
	TextDocument
	Score          int            `json:"score"`
	Classification Classification `json:"classification"`
	Bucket         Bucket         `json:"bucket"`
}

// SourceSentimentSummary aggregates the documents of one source.
type SourceSentimentSummary struct {
	Source             SourceID     `json:"source"`
	Count              int          `json:"count"`
	BullishCount       int          `json:"bullishCount"`
	BearishCount       int          `json:"bearishCount"`
	NeutralCount       int          `json:"neutralCount"`
	AverageScore       float64      `json:"averageScore"`
	BucketDistribution BucketCounts `json:"bucketDistribution"`
}

// VerdictLabel is the combined sentiment verdict.
type VerdictLabel string

const (
	StronglyBullish VerdictLabel = "strongly bullish"
	MildlyBullish   VerdictLabel = "mildly bullish"
	NeutralVerdict  VerdictLabel = "neutral"
	MildlyBearish   VerdictLabel = "mildly bearish"
	StronglyBearish VerdictLabel = "strongly bearish"
)

// CombinedSentimentVerdict is the document-weighted average across sources.
type CombinedSentimentVerdict struct {
	Score          float64      `json:"score"`
	Label          VerdictLabel `json:"label"`
	TotalDocuments int          `json:"totalDocuments"`
}

// SentimentReport is the full output of the sentiment pipeline.
type SentimentReport struct {
	Documents []ScoredDocument         `json:"documents"`
	Sources   []SourceSentimentSummary `json:"sources"`
	Combined  CombinedSentimentVerdict `json:"combined"`
}

// Source returns the summary for id, or a zero summary if absent.
func (r *SentimentReport) Source(id SourceID) SourceSentimentSummary {
	for _, s := range r.Sources {
		if s.Source == id {
			return s
		}
	}
	return SourceSentimentSummary{Source: id}
}
