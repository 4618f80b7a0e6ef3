package main

import (
	"os"

	"github.com/Dosada05/league-system/repositories"
	"github.com/Dosada05/league-system/seed"
	"github.com/Dosada05/league-system/services"
	"github.com/spf13/cobra"
)

var (
	seedFile      string
	seedOverwrite bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
}

var seedSportsCmd = &cobra.Command{
	Use:   "sports",
	Short: "Create the sports that do not exist yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		sports, err := seed.Sports(os.DirFS("."), seedFile)
		if err != nil {
			return err
		}
		svc := services.NewSportService(repositories.NewPostgresSportRepository(dbConn), logger)
		created, err := svc.SeedSports(cmd.Context(), sports)
		if err != nil {
			return err
		}
		success.Printf("✓ %d sport(s) created, %d already present\n", created, len(sports)-created)
		return nil
	},
}

var seedSwitchesCmd = &cobra.Command{
	Use:   "switches",
	Short: "Create feature switches, optionally resetting existing ones",
	RunE: func(cmd *cobra.Command, args []string) error {
		switches, err := seed.Switches(os.DirFS("."), seedFile)
		if err != nil {
			return err
		}
		svc := services.NewSwitchService(repositories.NewPostgresSwitchRepository(dbConn), logger)
		changed, err := svc.Seed(cmd.Context(), switches, seedOverwrite)
		if err != nil {
			return err
		}
		for _, sw := range switches {
			state := "off"
			if sw.Active {
				state = "on"
			}
			detail.Printf("  %-20s %s\n", sw.Name, state)
		}
		success.Printf("✓ %d switch(es) written\n", changed)
		return nil
	},
}

var seedChoicesCmd = &cobra.Command{
	Use:   "choices",
	Short: "Create the generic choices that do not exist yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		choices, err := seed.Choices(os.DirFS("."), seedFile)
		if err != nil {
			return err
		}
		svc := services.NewChoiceService(repositories.NewPostgresChoiceRepository(dbConn))
		created, err := svc.Seed(cmd.Context(), choices)
		if err != nil {
			return err
		}
		success.Printf("✓ %d choice(s) created, %d already present\n", created, len(choices)-created)
		return nil
	},
}

func init() {
	seedCmd.PersistentFlags().StringVarP(&seedFile, "file", "f", "", "YAML file to load instead of the built-in data")
	seedSwitchesCmd.Flags().BoolVar(&seedOverwrite, "overwrite", false, "Reset existing switches to the seeded state")

	seedCmd.AddCommand(seedSportsCmd)
	seedCmd.AddCommand(seedSwitchesCmd)
	seedCmd.AddCommand(seedChoicesCmd)
}
