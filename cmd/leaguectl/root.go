package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/Dosada05/league-system/config"
	"github.com/Dosada05/league-system/db"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	verbose bool

	cfg    *config.Config
	dbConn *sql.DB
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leaguectl",
	Short: "Management commands for the league system",
	Long: `leaguectl runs maintenance tasks against the league database.

Examples:

  leaguectl migrate
  leaguectl seed sports
  leaguectl seed switches --overwrite
  leaguectl copy-seasons --window 720h
  leaguectl bulk-upload teams teams.csv --league 3
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		dbConn, err = db.Connect(cmd.Context(), cfg.DatabaseURL, cfg.Pool())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbConn != nil {
			_ = dbConn.Close()
		}
	},
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintln(os.Stderr, "✗", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log service activity")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(copySeasonsCmd)
	rootCmd.AddCommand(bulkUploadCmd)
}

var (
	success = color.New(color.FgGreen, color.Bold)
	notice  = color.New(color.FgYellow)
	detail  = color.New(color.FgCyan)
)
