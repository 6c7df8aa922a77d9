package risk

import (
	"sort"

	"mc-forecast/internal/sampling"
)

// Item is a probability/impact register entry. The score is always derived
// from its factors via Score(), never stored alongside them.
type Item struct {
	Key         string `json:"key"`
	Probability int    `json:"probability"` // 1-5
	Impact      int    `json:"impact"`      // 1-5
}

// Validate checks the 1-5 bounds on both factors.
func (i Item) Validate() error {
	if i.Probability < 1 || i.Probability > 5 {
		return &sampling.InvalidParameterError{
			Param:  "probability",
			Value:  float64(i.Probability),
			Reason: "must be within [1,5]",
		}
	}
	if i.Impact < 1 || i.Impact > 5 {
		return &sampling.InvalidParameterError{
			Param:  "impact",
			Value:  float64(i.Impact),
			Reason: "must be within [1,5]",
		}
	}
	return nil
}

// Score returns probability x impact (1-25).
func (i Item) Score() int {
	return i.Probability * i.Impact
}

// Level classifies the score into the standard 5x5 matrix bands.
func (i Item) Level() string {
	switch s := i.Score(); {
	case s <= 4:
		return "LOW"
	case s <= 9:
		return "MEDIUM"
	case s <= 15:
		return "HIGH"
	default:
		return "CRITICAL"
	}
}

// Scored is a register entry with its derived fields materialized for output.
type Scored struct {
	Item  Item   `json:"item"`
	Score int    `json:"score"`
	Level string `json:"level"`
}

// ScoreRegister validates and ranks a risk register by score, descending.
// The sort is stable so equal scores keep input order.
func ScoreRegister(items []Item) ([]Scored, error) {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}

	scored := make([]Scored, len(items))
	for i, it := range items {
		scored[i] = Scored{Item: it, Score: it.Score(), Level: it.Level()}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored, nil
}
