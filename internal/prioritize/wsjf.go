package prioritize

import (
	"sort"

	"mc-forecast/internal/sampling"
)

// Project is one competing work item in the prioritization input.
type Project struct {
	Key             string  `json:"key"`
	BusinessValue   float64 `json:"business_value"`
	TimeCriticality float64 `json:"time_criticality"`
	RiskReduction   float64 `json:"risk_reduction"`
	JobSize         float64 `json:"job_size"`
	// WeeklyCostOfDelay and DurationWeeks feed the sequencing optimizer.
	WeeklyCostOfDelay float64 `json:"weekly_cost_of_delay"`
	DurationWeeks     float64 `json:"duration_weeks"`
}

// Score returns the weighted-shortest-job-first score.
func (p Project) Score() float64 {
	return (p.BusinessValue + p.TimeCriticality + p.RiskReduction) / p.JobSize
}

// Ranked pairs a project with its WSJF score and execution rank.
type Ranked struct {
	Project Project `json:"project"`
	Score   float64 `json:"score"`
	Rank    int     `json:"rank"`
}

// RankByWSJF sorts projects by WSJF score, descending. The sort is stable so
// tied scores keep input order and the ranking depends on nothing else.
// A non-positive job size is rejected, never silently skipped.
func RankByWSJF(projects []Project) ([]Ranked, error) {
	for _, p := range projects {
		if p.JobSize <= 0 {
			return nil, &sampling.InvalidParameterError{
				Param:  "job_size",
				Value:  p.JobSize,
				Reason: "must be > 0 (project " + p.Key + ")",
			}
		}
	}

	ranked := make([]Ranked, len(projects))
	for i, p := range projects {
		ranked[i] = Ranked{Project: p, Score: p.Score()}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// Strategy names an ordering heuristic compared by the sequencer.
type Strategy string

const (
	StrategyWSJF          Strategy = "wsjf"
	StrategyShortestFirst Strategy = "shortest_duration_first"
	StrategyHighestCoD    Strategy = "highest_cod_first"
	StrategyHighestValue  Strategy = "highest_value_first"
	StrategyUnoptimized   Strategy = "input_order"
)

// SequencePlan is the result of the cost-of-delay sequencing comparison.
type SequencePlan struct {
	// Sequence is the execution order under the best strategy.
	Sequence []Ranked `json:"sequence"`
	// TotalCoDByStrategy maps each strategy to its total sequential cost
	// of delay.
	TotalCoDByStrategy map[Strategy]float64 `json:"total_cod_by_strategy"`
	BestStrategy       Strategy             `json:"best_strategy"`
	OptimizedCoD       float64              `json:"optimized_cod"`
	UnoptimizedCoD     float64              `json:"unoptimized_cod"`
	// Savings is unoptimized minus optimized and is reported as-is;
	// a negative value means the input order already beat every strategy.
	Savings float64 `json:"savings"`
}

// OptimizeSequence compares the WSJF ordering against alternative strategies
// and picks the one with minimum total sequential cost of delay.
func OptimizeSequence(projects []Project) (SequencePlan, error) {
	wsjf, err := RankByWSJF(projects)
	if err != nil {
		return SequencePlan{}, err
	}

	orderings := map[Strategy][]Ranked{
		StrategyWSJF:          wsjf,
		StrategyShortestFirst: reorder(wsjf, func(a, b Project) bool { return a.DurationWeeks < b.DurationWeeks }),
		StrategyHighestCoD:    reorder(wsjf, func(a, b Project) bool { return a.WeeklyCostOfDelay > b.WeeklyCostOfDelay }),
		StrategyHighestValue:  reorder(wsjf, func(a, b Project) bool { return a.BusinessValue > b.BusinessValue }),
	}

	plan := SequencePlan{
		TotalCoDByStrategy: make(map[Strategy]float64, len(orderings)+1),
	}

	// Unoptimized reference: the caller's input order.
	inputOrder := make([]Ranked, len(wsjf))
	for i, p := range projects {
		inputOrder[i] = Ranked{Project: p, Score: p.Score()}
	}
	plan.UnoptimizedCoD = totalSequentialCoD(inputOrder)
	plan.TotalCoDByStrategy[StrategyUnoptimized] = plan.UnoptimizedCoD

	best := StrategyWSJF
	bestCoD := totalSequentialCoD(orderings[StrategyWSJF])
	for _, s := range []Strategy{StrategyWSJF, StrategyShortestFirst, StrategyHighestCoD, StrategyHighestValue} {
		cod := totalSequentialCoD(orderings[s])
		plan.TotalCoDByStrategy[s] = cod
		if cod < bestCoD {
			best = s
			bestCoD = cod
		}
	}

	plan.BestStrategy = best
	plan.OptimizedCoD = bestCoD
	plan.Sequence = orderings[best]
	plan.Savings = plan.UnoptimizedCoD - plan.OptimizedCoD
	return plan, nil
}

// totalSequentialCoD sums CoD_i x cumulative duration up to and including i.
func totalSequentialCoD(ordering []Ranked) float64 {
	elapsed := 0.0
	total := 0.0
	for _, r := range ordering {
		elapsed += r.Project.DurationWeeks
		total += r.Project.WeeklyCostOfDelay * elapsed
	}
	return total
}

func reorder(ranked []Ranked, less func(a, b Project) bool) []Ranked {
	out := make([]Ranked, len(ranked))
	copy(out, ranked)
	sort.SliceStable(out, func(i, j int) bool {
		return less(out[i].Project, out[j].Project)
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}
