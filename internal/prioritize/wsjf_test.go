package prioritize

import (
	"errors"
	"math"
	"testing"

	"mc-forecast/internal/sampling"
)

func TestRankByWSJF_Ordering(t *testing.T) {
	projects := []Project{
		{Key: "slow", BusinessValue: 5, TimeCriticality: 3, RiskReduction: 2, JobSize: 10}, // 1.0
		{Key: "quick-win", BusinessValue: 8, TimeCriticality: 5, RiskReduction: 3, JobSize: 2}, // 8.0
		{Key: "middling", BusinessValue: 6, TimeCriticality: 4, RiskReduction: 2, JobSize: 4},  // 3.0
	}

	ranked, err := RankByWSJF(projects)
	if err != nil {
		t.Fatalf("RankByWSJF returned error: %v", err)
	}

	wantOrder := []string{"quick-win", "middling", "slow"}
	for i, want := range wantOrder {
		if ranked[i].Project.Key != want {
			t.Errorf("Rank %d = %q, want %q", i+1, ranked[i].Project.Key, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("Rank field = %d, want %d", ranked[i].Rank, i+1)
		}
	}
}

func TestRankByWSJF_StableUnderInputReorder(t *testing.T) {
	a := []Project{
		{Key: "x", BusinessValue: 4, TimeCriticality: 2, RiskReduction: 2, JobSize: 2},
		{Key: "y", BusinessValue: 9, TimeCriticality: 3, RiskReduction: 0, JobSize: 3},
		{Key: "z", BusinessValue: 1, TimeCriticality: 1, RiskReduction: 1, JobSize: 1},
	}
	b := []Project{a[2], a[0], a[1]}

	rankedA, err := RankByWSJF(a)
	if err != nil {
		t.Fatalf("RankByWSJF returned error: %v", err)
	}
	rankedB, err := RankByWSJF(b)
	if err != nil {
		t.Fatalf("RankByWSJF returned error: %v", err)
	}

	// Scores are distinct, so order must be identical regardless of input order.
	for i := range rankedA {
		if rankedA[i].Project.Key != rankedB[i].Project.Key {
			t.Errorf("Rank %d differs across input orders: %q vs %q",
				i+1, rankedA[i].Project.Key, rankedB[i].Project.Key)
		}
	}
}

func TestRankByWSJF_RejectsNonPositiveJobSize(t *testing.T) {
	_, err := RankByWSJF([]Project{{Key: "bad", BusinessValue: 5, JobSize: 0}})
	var invalid *sampling.InvalidParameterError
	if !errors.As(err, &invalid) {
		t.Fatalf("Expected InvalidParameterError, got %v", err)
	}
	if invalid.Param != "job_size" {
		t.Errorf("Offending param = %q, want job_size", invalid.Param)
	}
}

func TestOptimizeSequence_PicksMinimumCoD(t *testing.T) {
	// A long, valuable project and a short cheap one: shortest-first wins
	// over highest-value-first here.
	projects := []Project{
		{Key: "big", BusinessValue: 10, TimeCriticality: 1, RiskReduction: 1, JobSize: 10, WeeklyCostOfDelay: 2, DurationWeeks: 10},
		{Key: "small", BusinessValue: 2, TimeCriticality: 1, RiskReduction: 1, JobSize: 1, WeeklyCostOfDelay: 5, DurationWeeks: 1},
	}

	plan, err := OptimizeSequence(projects)
	if err != nil {
		t.Fatalf("OptimizeSequence returned error: %v", err)
	}

	// small first: 5*1 + 2*11 = 27; big first: 2*10 + 5*11 = 75.
	if plan.OptimizedCoD != 27 {
		t.Errorf("OptimizedCoD = %v, want 27", plan.OptimizedCoD)
	}
	if plan.Sequence[0].Project.Key != "small" {
		t.Errorf("Best sequence should start with 'small', got %q", plan.Sequence[0].Project.Key)
	}

	// Input order was big-first (75), so savings are positive.
	if math.Abs(plan.Savings-48) > 1e-9 {
		t.Errorf("Savings = %v, want 48", plan.Savings)
	}

	if plan.TotalCoDByStrategy[StrategyHighestValue] != 75 {
		t.Errorf("highest_value_first CoD = %v, want 75", plan.TotalCoDByStrategy[StrategyHighestValue])
	}
}

func TestOptimizeSequence_NegativeSavingsReportedAsIs(t *testing.T) {
	// Input order already optimal and identical to every strategy's best:
	// savings must come out zero, never clamped from a negative.
	projects := []Project{
		{Key: "a", BusinessValue: 9, TimeCriticality: 1, RiskReduction: 0, JobSize: 1, WeeklyCostOfDelay: 5, DurationWeeks: 1},
		{Key: "b", BusinessValue: 1, TimeCriticality: 1, RiskReduction: 0, JobSize: 5, WeeklyCostOfDelay: 1, DurationWeeks: 5},
	}

	plan, err := OptimizeSequence(projects)
	if err != nil {
		t.Fatalf("OptimizeSequence returned error: %v", err)
	}
	if plan.Savings != 0 {
		t.Errorf("Savings = %v, want 0 for an already-optimal input order", plan.Savings)
	}
}

func TestTotalSequentialCoD(t *testing.T) {
	ordering := []Ranked{
		{Project: Project{WeeklyCostOfDelay: 3, DurationWeeks: 2}},
		{Project: Project{WeeklyCostOfDelay: 1, DurationWeeks: 4}},
	}
	// 3*2 + 1*(2+4) = 12.
	if got := totalSequentialCoD(ordering); got != 12 {
		t.Errorf("totalSequentialCoD = %v, want 12", got)
	}
}
