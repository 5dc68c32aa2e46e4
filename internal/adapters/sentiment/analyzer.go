// Package sentiment scores review text with the VADER lexicon and rules
// through govader.
package sentiment

import (
	"math"

	"github.com/jonreiter/govader"

	"review_analyzer/internal/domain"
)

// Analyzer adapts govader to domain.Scorer. Scores are rounded the way NLTK
// reports them: proportions to 3 places, compound to 4.
type Analyzer struct {
	sia *govader.SentimentIntensityAnalyzer
}

var _ domain.Scorer = (*Analyzer)(nil)

func New() *Analyzer {
	return &Analyzer{sia: govader.NewSentimentIntensityAnalyzer()}
}

func (a *Analyzer) Score(text string) domain.Sentiment {
	s := a.sia.PolarityScores(text)
	return domain.Sentiment{
		Negative: round(s.Negative, 3),
		Neutral:  round(s.Neutral, 3),
		Positive: round(s.Positive, 3),
		Compound: round(s.Compound, 4),
	}
}

func round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
