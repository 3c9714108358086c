package cmd

import (
	"fmt"

	"github.com/abhisek/compliz/internal/store"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all saved assessments",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		repo := st.AssessmentRepo()
		stats, err := repo.Stats(cmd.Context())
		if err != nil {
			return err
		}
		if err := repo.DeleteAll(cmd.Context()); err != nil {
			return err
		}

		fmt.Printf("Removed %d saved assessment(s).\n", stats.Total)
		return nil
	},
}
