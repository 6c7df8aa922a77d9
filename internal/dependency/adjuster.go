package dependency

import (
	"math"
	"sort"

	"mc-forecast/internal/sampling"
)

// Criticality classifies how hard a dependency bites when it slips.
type Criticality string

const (
	CriticalityLow      Criticality = "LOW"
	CriticalityMedium   Criticality = "MEDIUM"
	CriticalityHigh     Criticality = "HIGH"
	CriticalityCritical Criticality = "CRITICAL"
)

// criticalityWeights scale a dependency's delay contribution.
var criticalityWeights = map[Criticality]float64{
	CriticalityLow:      0.5,
	CriticalityMedium:   1.0,
	CriticalityHigh:     1.5,
	CriticalityCritical: 2.0,
}

// Weight returns the delay multiplier for a criticality level; unknown
// levels fall back to MEDIUM.
func (c Criticality) Weight() float64 {
	if w, ok := criticalityWeights[c]; ok {
		return w
	}
	return criticalityWeights[CriticalityMedium]
}

// Dependency is a directed edge between two project identifiers. The graph
// is a flat delay-accumulation model, not a scheduler: no cycle detection.
type Dependency struct {
	Source            string      `json:"source"`
	Target            string      `json:"target"`
	OnTimeProbability float64     `json:"on_time_probability"`
	DelayImpactDays   float64     `json:"delay_impact_days"`
	Criticality       Criticality `json:"criticality"`
}

// Validate checks the edge's numeric invariants.
func (d Dependency) Validate() error {
	if d.OnTimeProbability < 0 || d.OnTimeProbability > 1 {
		return &sampling.InvalidParameterError{
			Param:  "on_time_probability",
			Value:  d.OnTimeProbability,
			Reason: "must be within [0,1]",
		}
	}
	if d.DelayImpactDays < 0 {
		return &sampling.InvalidParameterError{
			Param:  "delay_impact_days",
			Value:  d.DelayImpactDays,
			Reason: "must be >= 0",
		}
	}
	return nil
}

// riskScore returns the edge's expected weighted delay contribution,
// used both for ranking the critical path and for the aggregate score.
func (d Dependency) riskScore() float64 {
	return (1 - d.OnTimeProbability) * d.DelayImpactDays * d.Criticality.Weight()
}

// Baseline carries the forecast percentiles (in weeks) the adjustment
// applies to, plus the team's own deadline probability.
type Baseline struct {
	P50 float64 `json:"p50"`
	P85 float64 `json:"p85"`
	P95 float64 `json:"p95"`
	// TeamOnTimeProbability is P(meet deadline) as reported by the
	// forecaster for the team itself, before dependency risk.
	TeamOnTimeProbability float64 `json:"team_on_time_probability"`
}

// RankedDependency is a critical-path entry: an edge plus its rank weight.
type RankedDependency struct {
	Dependency Dependency `json:"dependency"`
	Weight     float64    `json:"weight"`
}

// Adjustment is the combined result of folding dependency risk into a
// baseline forecast.
type Adjustment struct {
	ExpectedDelayDays  float64 `json:"expected_delay_days"`
	ExpectedDelayWeeks float64 `json:"expected_delay_weeks"`

	AdjustedP50 float64 `json:"adjusted_p50"`
	AdjustedP85 float64 `json:"adjusted_p85"`
	AdjustedP95 float64 `json:"adjusted_p95"`

	// DependencyOnTimeProbability is the product of the per-edge on-time
	// probabilities. Edges are treated as independent; correlated delays
	// are a known simplification of this model, not a guarantee.
	DependencyOnTimeProbability float64 `json:"dependency_on_time_probability"`
	OverallOnTimeProbability    float64 `json:"overall_on_time_probability"`

	RiskScore    float64            `json:"risk_score"`
	RiskLevel    Criticality        `json:"risk_level"`
	CriticalPath []RankedDependency `json:"critical_path"`
}

const daysPerWeek = 7.0

// Adjust folds a set of dependency edges into a baseline forecast.
// topK bounds the critical path length; 0 means all edges.
func Adjust(baseline Baseline, deps []Dependency, topK int) (Adjustment, error) {
	for _, d := range deps {
		if err := d.Validate(); err != nil {
			return Adjustment{}, err
		}
	}
	if baseline.TeamOnTimeProbability < 0 || baseline.TeamOnTimeProbability > 1 {
		return Adjustment{}, &sampling.InvalidParameterError{
			Param:  "team_on_time_probability",
			Value:  baseline.TeamOnTimeProbability,
			Reason: "must be within [0,1]",
		}
	}

	adj := Adjustment{
		DependencyOnTimeProbability: 1.0,
	}

	weightSum := 0.0
	for _, d := range deps {
		adj.ExpectedDelayDays += (1 - d.OnTimeProbability) * d.DelayImpactDays * d.Criticality.Weight()
		adj.DependencyOnTimeProbability *= d.OnTimeProbability
		weightSum += d.Criticality.Weight()
	}
	adj.ExpectedDelayWeeks = adj.ExpectedDelayDays / daysPerWeek

	adj.OverallOnTimeProbability = baseline.TeamOnTimeProbability * adj.DependencyOnTimeProbability

	adj.AdjustedP50 = baseline.P50 + adj.ExpectedDelayWeeks
	adj.AdjustedP85 = baseline.P85 + adj.ExpectedDelayWeeks
	adj.AdjustedP95 = baseline.P95 + adj.ExpectedDelayWeeks

	adj.RiskScore = riskScore(deps, weightSum, adj.ExpectedDelayWeeks, baseline.P85)
	adj.RiskLevel = classifyRisk(adj.RiskScore)
	adj.CriticalPath = rankCriticalPath(deps, topK)

	return adj, nil
}

// riskScore combines dependency count, average criticality weight and the
// expected delay relative to the baseline duration into a 0-100 score.
func riskScore(deps []Dependency, weightSum, expectedDelayWeeks, baselineWeeks float64) float64 {
	if len(deps) == 0 {
		return 0
	}

	// Count component saturates at 10 dependencies.
	countComponent := math.Min(float64(len(deps))/10.0, 1.0)

	// Average weight normalized against the CRITICAL multiplier.
	avgWeight := weightSum / float64(len(deps))
	weightComponent := avgWeight / criticalityWeights[CriticalityCritical]

	// Delay relative to the baseline duration, saturating at 100% slip.
	delayComponent := 0.0
	if baselineWeeks > 0 {
		delayComponent = math.Min(expectedDelayWeeks/baselineWeeks, 1.0)
	} else if expectedDelayWeeks > 0 {
		delayComponent = 1.0
	}

	score := (0.3*countComponent + 0.3*weightComponent + 0.4*delayComponent) * 100
	return math.Round(score*10) / 10
}

func classifyRisk(score float64) Criticality {
	switch {
	case score < 25:
		return CriticalityLow
	case score < 50:
		return CriticalityMedium
	case score < 75:
		return CriticalityHigh
	default:
		return CriticalityCritical
	}
}

// rankCriticalPath orders edges by expected weighted delay, descending.
func rankCriticalPath(deps []Dependency, topK int) []RankedDependency {
	ranked := make([]RankedDependency, len(deps))
	for i, d := range deps {
		ranked[i] = RankedDependency{Dependency: d, Weight: d.riskScore()}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Weight > ranked[j].Weight
	})

	if topK > 0 && topK < len(ranked) {
		ranked = ranked[:topK]
	}
	return ranked
}
