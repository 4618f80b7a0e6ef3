package main

import (
	"github.com/Dosada05/league-system/db"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		applied, err := db.ApplyMigrations(cmd.Context(), dbConn, db.Migrations())
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			notice.Println("No pending migrations")
			return nil
		}
		for _, name := range applied {
			detail.Println("  applied", name)
		}
		success.Printf("✓ %d migration(s) applied\n", len(applied))
		return nil
	},
}
