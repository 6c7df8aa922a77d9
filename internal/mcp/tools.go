package mcp

func (s *Server) listTools() interface{} {
	return map[string]interface{}{
		"tools": []interface{}{
			map[string]interface{}{
				"name": "run_simulation",
				"description": "Run a Monte-Carlo simulation forecasting delivery duration and effort from an empirical weekly throughput series (bootstrap resampling, no parametric assumption). " +
					"Returns percentile tables (p10-p95), descriptive input statistics, optional lead-time Weibull fit, and data-quality advisories. " +
					"Pass 'scenarios' to evaluate several independent forecasts in one call. " +
					"Pass 'seed' for reproducible output; omit it for fresh entropy per call.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"throughput":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "number"}, "description": "Items delivered per week, most recent history"},
						"lead_times":       map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "number"}, "description": "Optional per-item lead times in days"},
						"backlog_size":     map[string]interface{}{"type": "integer", "description": "Number of items to burn down"},
						"contributors":     map[string]interface{}{"type": "object", "description": "Optional min/max active contributors per trial"},
						"trials":           map[string]interface{}{"type": "integer", "description": "Simulation count, default 10000"},
						"confidence_level": map[string]interface{}{"type": "number", "description": "Headline percentile in percent, default 85"},
						"seed":             map[string]interface{}{"type": "integer", "description": "Optional fixed random seed"},
						"scenarios":        map[string]interface{}{"type": "array", "description": "Optional batch of named scenarios, each with its own simulation config"},
					},
				},
			},
			map[string]interface{}{
				"name": "estimate_effort",
				"description": "Convert a three-point estimate (optimistic / most_likely / pessimistic) into a PERT-Beta sample distribution and return p50/p85/p95 effort. " +
					"The ordering optimistic < most_likely < pessimistic is enforced, never repaired silently.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"estimate":        map[string]interface{}{"type": "object", "description": "{optimistic, most_likely, pessimistic}"},
						"sample_count":    map[string]interface{}{"type": "integer", "description": "Draw count, default 10000"},
						"include_samples": map[string]interface{}{"type": "boolean", "description": "Echo the raw sorted sample array"},
						"seed":            map[string]interface{}{"type": "integer"},
					},
					"required": []string{"estimate"},
				},
			},
			map[string]interface{}{
				"name": "adjust_dependencies",
				"description": "Fold a dependency graph (edges with on-time probability, delay impact and criticality) into a baseline forecast. " +
					"Returns adjusted p50/p85/p95, combined on-time probabilities, a 0-100 risk score with level, and the ranked critical path. " +
					"Edges are treated as independent; correlated delays are a documented simplification.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"baseline":     map[string]interface{}{"type": "object", "description": "{p50, p85, p95, team_on_time_probability} in weeks"},
						"dependencies": map[string]interface{}{"type": "array", "description": "Edges: {source, target, on_time_probability, delay_impact_days, criticality}"},
						"top_k":        map[string]interface{}{"type": "integer", "description": "Critical path length, 0 = all"},
					},
					"required": []string{"baseline"},
				},
			},
			map[string]interface{}{
				"name": "rank_wsjf",
				"description": "Rank work items by Weighted-Shortest-Job-First score and compare sequencing strategies (WSJF, shortest-first, highest-CoD-first, highest-value-first) by total sequential cost of delay. " +
					"Savings against the input order are reported as-is and may be negative.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"projects":      map[string]interface{}{"type": "array", "description": "{key, business_value, time_criticality, risk_reduction, job_size, weekly_cost_of_delay, duration_weeks}"},
						"sequence_only": map[string]interface{}{"type": "boolean", "description": "Skip the strategy comparison"},
					},
					"required": []string{"projects"},
				},
			},
			map[string]interface{}{
				"name": "optimize_portfolio",
				"description": "Monte-Carlo sample feasible portfolio weight vectors under budget/capacity constraints and extract the efficient frontier plus the maximum-Sharpe portfolio. " +
					"Risk uses the zero-covariance simplification. Infeasible constraints raise an explicit error, never an empty result.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"candidates":      map[string]interface{}{"type": "array", "description": "{key, expected_return, risk, cost, capacity_demand}"},
						"constraints":     map[string]interface{}{"type": "object", "description": "{max_budget, max_capacity}, omit a field for unconstrained"},
						"risk_free_rate":  map[string]interface{}{"type": "number"},
						"sample_size":     map[string]interface{}{"type": "integer", "description": "Draw count, default 5000"},
						"include_samples": map[string]interface{}{"type": "boolean", "description": "Echo the accepted sample cloud"},
						"seed":            map[string]interface{}{"type": "integer"},
					},
					"required": []string{"candidates"},
				},
			},
			map[string]interface{}{
				"name":        "score_risks",
				"description": "Score and rank a probability/impact risk register (both factors 1-5). Scores are always derived from the factors, never stored.",
				"inputSchema": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"items": map[string]interface{}{"type": "array", "description": "{key, probability, impact}"},
					},
					"required": []string{"items"},
				},
			},
		},
	}
}
