package simulation

import (
	"context"
	"errors"
	"slices"

	"mc-forecast/internal/sampling"
	"mc-forecast/internal/stats"
)

const (
	// DefaultTrials is the simulation count used when the caller passes 0.
	DefaultTrials = 10000

	// DefaultConfidence is the headline percentile (in percent).
	DefaultConfidence = 85.0

	// maxTrialWeeks is the safety brake for histories with no positive
	// throughput: a single trial never accumulates beyond this.
	maxTrialWeeks = 10000

	// cancelCheckInterval controls how often the trial loop polls the
	// context, so an external scheduler can abort long simulations.
	cancelCheckInterval = 500

	// errorRateTolerance is the relative deviation from the sample-mean
	// expectation beyond which a trial counts towards the error rate.
	errorRateTolerance = 0.25
)

// ContributorRange bounds the number of active contributors per trial.
// Min == Max pins effort to a fixed team size.
type ContributorRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Config carries the inputs of one forecast invocation. The engine reads it,
// never writes it; every call is a pure function of Config plus the seed.
type Config struct {
	// Throughput is the empirical throughput series (items per week).
	Throughput []float64 `json:"throughput"`
	// LeadTimes optionally carries per-item lead times (days) for the
	// distribution fit and lead-time quality metrics.
	LeadTimes []float64 `json:"lead_times,omitempty"`
	// BacklogSize is the number of items to burn down.
	BacklogSize int `json:"backlog_size"`
	// Contributors bounds the per-trial team size. Zero value defaults to
	// a single contributor.
	Contributors ContributorRange `json:"contributors"`
	// Trials is the simulation count; 0 means DefaultTrials.
	Trials int `json:"trials"`
	// ConfidenceLevel is the headline percentile in percent; 0 means
	// DefaultConfidence.
	ConfidenceLevel float64 `json:"confidence_level"`
}

// Forecast is the plain-record result of a simulation run.
type Forecast struct {
	Available bool `json:"available"`

	Duration stats.PercentileTable `json:"duration_calendar_weeks"`
	Effort   stats.PercentileTable `json:"effort_weeks"`

	ConfidenceLevel      float64 `json:"confidence_level"`
	DurationAtConfidence float64 `json:"duration_at_confidence"`
	EffortAtConfidence   float64 `json:"effort_at_confidence"`

	ThroughputStats stats.Descriptive  `json:"throughput_stats"`
	LeadTimeStats   *stats.Descriptive `json:"lead_time_stats,omitempty"`
	Weibull         *stats.WeibullFit  `json:"weibull,omitempty"`

	TPErrorRate float64 `json:"tp_error_rate"`
	LTErrorRate float64 `json:"lt_error_rate,omitempty"`

	Trials   int      `json:"trials"`
	Warnings []string `json:"warnings,omitempty"`
}

// Engine performs the Monte-Carlo simulation. It holds only the injected
// generator: no state survives between Run calls.
type Engine struct {
	gen *sampling.Generator
}

func NewEngine(gen *sampling.Generator) *Engine {
	return &Engine{gen: gen}
}

// Run draws Trials simulated burn-downs from the empirical throughput series
// (bootstrap resampling, no parametric assumption) and aggregates duration
// and effort percentile tables. An empty or all-zero series degrades to an
// unavailable forecast with a warning instead of failing.
func (e *Engine) Run(ctx context.Context, cfg Config) (Forecast, error) {
	if cfg.BacklogSize < 0 {
		return Forecast{}, &sampling.InvalidParameterError{
			Param:  "backlog_size",
			Value:  float64(cfg.BacklogSize),
			Reason: "must be >= 0",
		}
	}
	if cfg.Trials < 0 {
		return Forecast{}, &sampling.InvalidParameterError{
			Param:  "trials",
			Value:  float64(cfg.Trials),
			Reason: "must be >= 0",
		}
	}
	for _, v := range cfg.Throughput {
		if v < 0 {
			return Forecast{}, &sampling.InvalidParameterError{
				Param:  "throughput",
				Value:  v,
				Reason: "series values must be non-negative",
			}
		}
	}
	for _, v := range cfg.LeadTimes {
		if v < 0 {
			return Forecast{}, &sampling.InvalidParameterError{
				Param:  "lead_times",
				Value:  v,
				Reason: "series values must be non-negative",
			}
		}
	}

	trials := cfg.Trials
	if trials == 0 {
		trials = DefaultTrials
	}
	confidence := cfg.ConfidenceLevel
	if confidence == 0 {
		confidence = DefaultConfidence
	}
	if confidence < 0 || confidence > 100 {
		return Forecast{}, &sampling.InvalidParameterError{
			Param:  "confidence_level",
			Value:  confidence,
			Reason: "must be within [0,100]",
		}
	}

	result := Forecast{
		ConfidenceLevel: confidence,
		Trials:          trials,
		ThroughputStats: stats.Describe(cfg.Throughput),
	}

	if len(cfg.LeadTimes) > 0 {
		lt := stats.Describe(cfg.LeadTimes)
		result.LeadTimeStats = &lt

		fit, err := stats.FitWeibull(cfg.LeadTimes)
		var insufficient *stats.InsufficientDataError
		switch {
		case err == nil:
			result.Weibull = &fit
		case errors.As(err, &insufficient):
			result.Warnings = append(result.Warnings,
				"Lead time distribution fit skipped: "+err.Error())
		default:
			return Forecast{}, err
		}

		result.LTErrorRate = seriesErrorRate(cfg.LeadTimes)
		result.Warnings = append(result.Warnings,
			stats.PredictabilityAdvisories("Lead time", cfg.LeadTimes)...)
	}

	if len(cfg.Throughput) == 0 {
		result.Warnings = append(result.Warnings,
			"No throughput history supplied. Forecast unavailable.")
		return result, nil
	}

	result.TPErrorRate = seriesErrorRate(cfg.Throughput)
	result.Warnings = append(result.Warnings,
		stats.PredictabilityAdvisories("Throughput", cfg.Throughput)...)

	hasCapacity := false
	for _, v := range cfg.Throughput {
		if v > 0 {
			hasCapacity = true
			break
		}
	}
	if !hasCapacity {
		result.Warnings = append(result.Warnings,
			"No historical throughput found for the selected criteria. The duration forecast is theoretically infinite based on current data.")
	}

	contribMin, contribMax, err := normalizeContributors(cfg.Contributors)
	if err != nil {
		return Forecast{}, err
	}

	durations := make([]float64, trials)
	efforts := make([]float64, trials)
	brakeHit := false

	for i := 0; i < trials; i++ {
		if i%cancelCheckInterval == 0 {
			select {
			case <-ctx.Done():
				// Partial arrays are simply discarded, never returned.
				return Forecast{}, ctx.Err()
			default:
			}
		}

		weeks, capped := e.simulateTrial(cfg.Throughput, cfg.BacklogSize)
		brakeHit = brakeHit || capped

		contributors := contribMin
		if contribMax > contribMin {
			contributors = contribMin + e.gen.IntN(contribMax-contribMin+1)
		}

		durations[i] = float64(weeks)
		efforts[i] = float64(weeks) * float64(contributors)
	}

	if brakeHit && hasCapacity {
		result.Warnings = append(result.Warnings,
			"Some trials hit the simulation safety brake; the tail of the forecast is truncated.")
	}

	slices.Sort(durations)
	slices.Sort(efforts)

	result.Available = true
	result.Duration = stats.BuildPercentileTable(durations)
	result.Effort = stats.BuildPercentileTable(efforts)
	result.DurationAtConfidence = stats.Percentile(durations, confidence/100)
	result.EffortAtConfidence = stats.Percentile(efforts, confidence/100)

	return result, nil
}

// simulateTrial accumulates resampled weekly throughput until the backlog is
// burned down and reports the elapsed calendar weeks.
func (e *Engine) simulateTrial(throughput []float64, backlog int) (int, bool) {
	weeks := 0
	remaining := float64(backlog)

	for remaining > 0 {
		weeks++
		// Randomly sample a week from history
		remaining -= throughput[e.gen.IntN(len(throughput))]

		if weeks >= maxTrialWeeks { // Safety brake for 0-throughput histories
			return weeks, true
		}
	}

	return weeks, false
}

// seriesErrorRate reports the share of observations deviating from the
// sample mean by more than the tolerance. High values flag noisy inputs;
// the metric warns, it never blocks.
func seriesErrorRate(values []float64) float64 {
	mean := stats.Mean(values)
	if mean == 0 {
		return 0
	}

	deviant := 0
	for _, v := range values {
		ratio := (v - mean) / mean
		if ratio < 0 {
			ratio = -ratio
		}
		if ratio > errorRateTolerance {
			deviant++
		}
	}
	return float64(deviant) / float64(len(values))
}

func normalizeContributors(c ContributorRange) (int, int, error) {
	if c.Min == 0 && c.Max == 0 {
		return 1, 1, nil
	}
	if c.Min < 0 || c.Max < 0 {
		return 0, 0, &sampling.InvalidParameterError{
			Param:  "contributors",
			Value:  float64(min(c.Min, c.Max)),
			Reason: "range must be non-negative",
		}
	}
	if c.Max == 0 {
		c.Max = c.Min
	}
	if c.Min == 0 {
		c.Min = 1
	}
	if c.Max < c.Min {
		return 0, 0, &sampling.InvalidParameterError{
			Param:  "contributors",
			Value:  float64(c.Max),
			Reason: "max must be >= min",
		}
	}
	return c.Min, c.Max, nil
}
