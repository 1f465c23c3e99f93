package nlu

// SuggestionMinimum is the score a fuzzy candidate must exceed to be offered.
const SuggestionMinimum = 80

// Suggestion is the best fuzzy candidate for an unresolved lookup.
type Suggestion struct {
	Candidate string `json:"candidate"`
	Score     int    `json:"score"`
}

// Suggest scores text against every candidate and returns the best one when
// its score is strictly above minimum. Ties keep the earliest candidate.
func Suggest(text string, candidates []string, minimum int) (Suggestion, bool) {
	if text == "" {
		return Suggestion{}, false
	}
	best := Suggestion{Score: -1}
	for _, c := range candidates {
		score := WeightedRatio(text, c)
		if score > best.Score {
			best = Suggestion{Candidate: c, Score: score}
		}
	}
	if best.Score > minimum {
		return best, true
	}
	return Suggestion{}, false
}
