package main

import (
	"time"

	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/spf13/cobra"
)

var copyWindow time.Duration

var copySeasonsCmd = &cobra.Command{
	Use:   "copy-seasons",
	Short: "Copy seasons that end soon one year forward",
	Long: `Copies every season whose end date falls within --window of now, shifting both
dates by one year and keeping the same teams. Seasons whose copy already exists are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		window := copyWindow
		if window == 0 {
			window = cfg.SeasonCopyWindow
		}
		svc := services.NewSeasonService(
			repositories.NewPostgresSeasonRepository(dbConn),
			repositories.NewPostgresTeamRepository(dbConn),
			repositories.NewPostgresTransactor(dbConn),
			logger,
		)
		result, err := svc.CopyExpiring(cmd.Context(), time.Now(), window)
		if err != nil {
			return err
		}

		for _, s := range result.Created {
			detail.Printf("  created %s (league %d)\n", s.Label(), s.LeagueID)
		}
		if len(result.Skipped) > 0 {
			notice.Printf("  skipped %d season(s) already copied: %v\n", len(result.Skipped), result.Skipped)
		}
		success.Printf("✓ %d season(s) copied\n", len(result.Created))
		return nil
	},
}

func init() {
	copySeasonsCmd.Flags().DurationVarP(&copyWindow, "window", "w", 0, "How far ahead to look for ending seasons (default SEASON_COPY_WINDOW)")
}
