package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"mc-forecast/internal/batch"
)

var (
	simulateInput       string
	simulateSeed        int64
	simulateConcurrency int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run forecast scenarios from a JSON file and print results to stdout",
	Long: `Reads a JSON array of scenarios ({name, seed?, simulation:{throughput,
backlog_size, ...}}) and evaluates them concurrently, one seeded random
source per scenario. Ctrl-C aborts the batch; partial results are discarded.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(simulateInput)
		if err != nil {
			return fmt.Errorf("failed to read scenario file: %w", err)
		}

		var scenarios []batch.Scenario
		if err := json.Unmarshal(data, &scenarios); err != nil {
			return fmt.Errorf("failed to parse scenario file: %w", err)
		}
		if len(scenarios) == 0 {
			return fmt.Errorf("scenario file %q contains no scenarios", simulateInput)
		}

		for i := range scenarios {
			if scenarios[i].Simulation.Trials == 0 {
				scenarios[i].Simulation.Trials = cfg.DefaultTrials
			}
			if scenarios[i].Simulation.ConfidenceLevel == 0 {
				scenarios[i].Simulation.ConfidenceLevel = cfg.DefaultConfidence
			}
		}

		baseSeed := simulateSeed
		if baseSeed == 0 {
			baseSeed = cfg.Seed
		}
		if baseSeed == 0 {
			baseSeed = time.Now().UnixNano()
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		started := time.Now()
		results, err := batch.RunAll(ctx, baseSeed, scenarios, simulateConcurrency)
		if err != nil {
			return err
		}
		log.Info().
			Int("scenarios", len(results)).
			Dur("elapsed", time.Since(started)).
			Msg("Batch simulation finished")

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateInput, "input", "i", "", "path to the JSON scenario file (required)")
	simulateCmd.Flags().Int64Var(&simulateSeed, "seed", 0, "base random seed (0 = from config or wall clock)")
	simulateCmd.Flags().IntVar(&simulateConcurrency, "concurrency", 0, "parallel scenario evaluations (0 = default)")
	_ = simulateCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(simulateCmd)
}
