package sentiment

// Phrase is a lexicon entry matched by case-insensitive substring containment.
type Phrase struct {
	Text   string
	Weight int
}

// Entries are lower-case. Positive and negative phrases are disjoint.
var positiveLexicon = []Phrase{
	{"surge", 3},
	{"soar", 3},
	{"skyrocket", 3},
	{"record high", 3},
	{"all-time high", 3},
	{"blowout", 3},
	{"strong", 2},
	{"beat", 2},
	{"bullish", 2},
	{"rally", 2},
	{"outperform", 2},
	{"upgrade", 2},
	{"breakout", 2},
	{"gain", 1},
	{"up", 1},
	{"growth", 1},
	{"profit", 1},
	{"rise", 1},
	{"buy", 1},
	{"higher", 1},
}

var negativeLexicon = []Phrase{
	{"plunge", -3},
	{"plummet", -3},
	{"crash", -3},
	{"record low", -3},
	{"all-time low", -3},
	{"bankrupt", -3},
	{"weak", -2},
	{"miss", -2},
	{"bearish", -2},
	{"downgrade", -2},
	{"lawsuit", -2},
	{"underperform", -2},
	{"sell-off", -2},
	{"loss", -1},
	{"down", -1},
	{"drop", -1},
	{"decline", -1},
	{"fall", -1},
	{"sell", -1},
	{"lower", -1},
}

// Lexicon returns a copy of every phrase, positive entries first.
func Lexicon() []Phrase {
	out := make([]Phrase, 0, len(positiveLexicon)+len(negativeLexicon))
	out = append(out, positiveLexicon...)
	return append(out, negativeLexicon...)
}
