package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/services"
	"github.com/spf13/cobra"
)

var (
	uploadLeagueID    int
	uploadContentType string
)

var bulkUploadCmd = &cobra.Command{
	Use:   "bulk-upload",
	Short: "Create teams or locations from a CSV file",
}

var bulkUploadTeamsCmd = &cobra.Command{
	Use:   "teams <file>",
	Short: "Create teams of a league from CSV (name, division, website, organization_id, is_active)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if uploadLeagueID <= 0 {
			return errors.New("--league is required")
		}
		return runUpload(cmd, args[0], func(svc services.BulkUploadService, contentType string, f *os.File) (*services.BulkUploadResult, error) {
			return svc.UploadTeams(cmd.Context(), uploadLeagueID, contentType, f)
		})
	},
}

var bulkUploadLocationsCmd = &cobra.Command{
	Use:   "locations <file>",
	Short: "Create locations from CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUpload(cmd, args[0], func(svc services.BulkUploadService, contentType string, f *os.File) (*services.BulkUploadResult, error) {
			return svc.UploadLocations(cmd.Context(), contentType, f)
		})
	},
}

type uploadFunc func(svc services.BulkUploadService, contentType string, f *os.File) (*services.BulkUploadResult, error)

func runUpload(cmd *cobra.Command, path string, upload uploadFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := uploadContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(path))
	}
	if contentType == "" {
		contentType = "text/csv"
	}

	svc := services.NewBulkUploadService(
		repositories.NewPostgresTeamRepository(dbConn),
		repositories.NewPostgresLeagueRepository(dbConn),
		repositories.NewPostgresLocationRepository(dbConn),
		services.NewSwitchService(repositories.NewPostgresSwitchRepository(dbConn), logger),
		repositories.NewPostgresTransactor(dbConn),
		logger,
	)
	result, err := upload(svc, contentType, f)
	if result != nil {
		for _, rowErr := range result.Errors {
			notice.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
		}
	}
	if err != nil {
		return fmt.Errorf("upload %s: %w", filepath.Base(path), err)
	}
	success.Printf("✓ %d row(s) created (upload %s)\n", result.Created, result.UploadID)
	return nil
}

func init() {
	bulkUploadCmd.PersistentFlags().StringVar(&uploadContentType, "content-type", "", "MIME type of the file (default from the extension)")
	bulkUploadTeamsCmd.Flags().IntVarP(&uploadLeagueID, "league", "l", 0, "League whose divisions the rows reference")

	bulkUploadCmd.AddCommand(bulkUploadTeamsCmd)
	bulkUploadCmd.AddCommand(bulkUploadLocationsCmd)
}
