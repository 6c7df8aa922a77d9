package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mc-forecast/internal/batch"
	"mc-forecast/internal/dependency"
	"mc-forecast/internal/estimate"
	"mc-forecast/internal/portfolio"
	"mc-forecast/internal/prioritize"
	"mc-forecast/internal/risk"
	"mc-forecast/internal/sampling"
	"mc-forecast/internal/simulation"
)

// generator builds the per-request random source. An explicit request seed
// wins, then the configured seed, then wall-clock entropy. Every request gets
// its own generator so concurrent calls never share RNG state.
func (s *Server) generator(seed int64) (*sampling.Generator, int64) {
	switch {
	case seed != 0:
		return sampling.New(seed), seed
	case s.cfg != nil && s.cfg.Seed != 0:
		return sampling.New(s.cfg.Seed), s.cfg.Seed
	default:
		fresh := time.Now().UnixNano()
		return sampling.New(fresh), fresh
	}
}

func (s *Server) defaults(cfg *simulation.Config) {
	if s.cfg == nil {
		return
	}
	if cfg.Trials == 0 {
		cfg.Trials = s.cfg.DefaultTrials
	}
	if cfg.ConfidenceLevel == 0 {
		cfg.ConfidenceLevel = s.cfg.DefaultConfidence
	}
}

type simulationRequest struct {
	Seed      int64             `json:"seed,omitempty"`
	Scenarios []batch.Scenario  `json:"scenarios,omitempty"`
	simulation.Config
}

func (s *Server) handleRunSimulation(args json.RawMessage) (interface{}, error) {
	var req simulationRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid run_simulation arguments: %w", err)
	}

	// Batch form: evaluate scenarios concurrently, one derived seed each.
	if len(req.Scenarios) > 0 {
		for i := range req.Scenarios {
			s.defaults(&req.Scenarios[i].Simulation)
		}
		_, baseSeed := s.generator(req.Seed)
		return batch.RunAll(context.Background(), baseSeed, req.Scenarios, 0)
	}

	s.defaults(&req.Config)
	gen, _ := s.generator(req.Seed)
	engine := simulation.NewEngine(gen)
	return engine.Run(context.Background(), req.Config)
}

type estimateRequest struct {
	Seed        int64                       `json:"seed,omitempty"`
	Estimate    estimate.ThreePointEstimate `json:"estimate"`
	SampleCount int                         `json:"sample_count"`
	// IncludeSamples controls whether the raw sample array is echoed back;
	// percentile consumers rarely want the full payload.
	IncludeSamples bool `json:"include_samples,omitempty"`
}

func (s *Server) handleEstimateEffort(args json.RawMessage) (interface{}, error) {
	var req estimateRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid estimate_effort arguments: %w", err)
	}
	if req.SampleCount == 0 {
		req.SampleCount = simulation.DefaultTrials
	}

	gen, _ := s.generator(req.Seed)
	res, err := estimate.Run(gen, req.Estimate, req.SampleCount)
	if err != nil {
		return nil, err
	}
	if !req.IncludeSamples {
		res.Samples = nil
	}
	return res, nil
}

type adjustRequest struct {
	Baseline     dependency.Baseline     `json:"baseline"`
	Dependencies []dependency.Dependency `json:"dependencies"`
	TopK         int                     `json:"top_k,omitempty"`
}

func (s *Server) handleAdjustDependencies(args json.RawMessage) (interface{}, error) {
	var req adjustRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid adjust_dependencies arguments: %w", err)
	}
	return dependency.Adjust(req.Baseline, req.Dependencies, req.TopK)
}

type wsjfRequest struct {
	Projects []prioritize.Project `json:"projects"`
	// SequenceOnly skips the strategy comparison and returns the plain
	// ranking.
	SequenceOnly bool `json:"sequence_only,omitempty"`
}

func (s *Server) handleRankWSJF(args json.RawMessage) (interface{}, error) {
	var req wsjfRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid rank_wsjf arguments: %w", err)
	}
	if req.SequenceOnly {
		return prioritize.RankByWSJF(req.Projects)
	}
	return prioritize.OptimizeSequence(req.Projects)
}

type portfolioRequest struct {
	Seed         int64                 `json:"seed,omitempty"`
	Candidates   []portfolio.Candidate `json:"candidates"`
	Constraints  portfolio.Constraints `json:"constraints"`
	RiskFreeRate float64               `json:"risk_free_rate"`
	SampleSize   int                   `json:"sample_size,omitempty"`
	// IncludeSamples echoes the full accepted sample cloud for plotting.
	IncludeSamples bool `json:"include_samples,omitempty"`
}

func (s *Server) handleOptimizePortfolio(args json.RawMessage) (interface{}, error) {
	var req portfolioRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid optimize_portfolio arguments: %w", err)
	}

	gen, _ := s.generator(req.Seed)
	res, err := portfolio.Optimize(context.Background(), gen, req.Candidates, req.Constraints, req.RiskFreeRate, req.SampleSize)
	if err != nil {
		return nil, err
	}
	if !req.IncludeSamples {
		res.Samples = nil
	}
	return res, nil
}

type riskRequest struct {
	Items []risk.Item `json:"items"`
}

func (s *Server) handleScoreRisks(args json.RawMessage) (interface{}, error) {
	var req riskRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, fmt.Errorf("invalid score_risks arguments: %w", err)
	}
	return risk.ScoreRegister(req.Items)
}
