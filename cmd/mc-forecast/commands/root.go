package commands

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"mc-forecast/internal/config"
	"mc-forecast/internal/logging"
	"mc-forecast/internal/mcp"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mc-forecast",
	Short: "mc-forecast is a Monte-Carlo delivery forecasting and portfolio optimization engine",
	Long: `A stochastic simulation engine for project delivery: throughput-based Monte-Carlo
forecasting, PERT-Beta effort estimation, dependency risk adjustment, WSJF
prioritization and Markowitz-style portfolio frontier optimization.

Without a subcommand it serves the engine as MCP tools over Stdio.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		logging.Init(verbose, cfg.LogDir)

		log.Info().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Msg("mc-forecast starting")
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Info().Msg("MCP Server starting Stdio loop")
		server := mcp.NewServer(cfg)
		return server.Serve()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}
