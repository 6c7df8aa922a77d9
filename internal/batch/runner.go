package batch

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"mc-forecast/internal/sampling"
	"mc-forecast/internal/simulation"
)

// DefaultConcurrency bounds parallel scenario evaluation when the caller
// passes 0.
const DefaultConcurrency = 4

// Scenario is one independent forecast request inside a batch run.
type Scenario struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	// Seed pins this scenario's random source. 0 derives a seed from the
	// batch base seed and the scenario position, so results stay
	// reproducible without per-scenario bookkeeping.
	Seed       int64             `json:"seed,omitempty"`
	Simulation simulation.Config `json:"simulation"`
}

// Result pairs a scenario with its forecast. Scenarios whose inputs are
// invalid report their error in place instead of failing the whole batch.
type Result struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Seed     int64               `json:"seed"`
	Forecast simulation.Forecast `json:"forecast"`
	Error    string              `json:"error,omitempty"`
}

// RunAll evaluates scenarios concurrently, each with its own generator so
// runs stay independent and re-entrant. Output order matches input order.
// Only context cancellation aborts the batch.
func RunAll(ctx context.Context, baseSeed int64, scenarios []Scenario, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	results := make([]Result, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, sc := range scenarios {
		i, sc := i, sc
		g.Go(func() error {
			id := sc.ID
			if id == "" {
				id = uuid.NewString()
			}
			seed := sc.Seed
			if seed == 0 {
				seed = baseSeed + int64(i) + 1
			}

			results[i] = Result{ID: id, Name: sc.Name, Seed: seed}

			engine := simulation.NewEngine(sampling.New(seed))
			forecast, err := engine.Run(gctx, sc.Simulation)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Debug().Str("scenario", sc.Name).Err(err).Msg("Scenario rejected")
				results[i].Error = err.Error()
				return nil
			}

			results[i].Forecast = forecast
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
