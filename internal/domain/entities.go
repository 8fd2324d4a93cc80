package domain

// ReferencePhrase is a canonical phrase together with its embedding.
type ReferencePhrase struct {
	Text   string
	Vector []float32
}

// Window is a run of consecutive words drawn from one sentence.
// End is exclusive.
type Window struct {
	Text  string
	Start int
	End   int
}

// Candidate is a window paired with its best reference phrase, before
// threshold and overlap filtering.
type Candidate struct {
	InputPhrase     string
	SuggestedPhrase string
	Score           float64
	Sentence        int
	Start           int
	End             int
}

// Suggestion is a candidate that survived threshold and merge filtering.
type Suggestion struct {
	InputPhrase     string  `json:"input_phrase"`
	SuggestedPhrase string  `json:"suggested_phrase"`
	Score           float64 `json:"score"`
	Sentence        int     `json:"sentence"`
	Start           int     `json:"start"`
	End             int     `json:"end"`
}

// SuggestionFrom converts a candidate into a retained suggestion.
func SuggestionFrom(c Candidate) Suggestion {
	return Suggestion{
		InputPhrase:     c.InputPhrase,
		SuggestedPhrase: c.SuggestedPhrase,
		Score:           c.Score,
		Sentence:        c.Sentence,
		Start:           c.Start,
		End:             c.End,
	}
}

// Report is the result of running the engine over one document.
type Report struct {
	Source      string       `json:"source"`
	Threshold   float64      `json:"threshold"`
	WindowSize  int          `json:"window_size"`
	Suggestions []Suggestion `json:"suggestions"`
	Output      string       `json:"output,omitempty"`
}
