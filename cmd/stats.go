package cmd

import (
	"fmt"

	"github.com/abhisek/compliz/internal/store"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show saved-assessment statistics",
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

		stats, err := st.AssessmentRepo().Stats(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Printf("Assessments started:  %d\n", stats.Total)
		fmt.Printf("Completed:            %d\n", stats.Completed)
		if stats.Items >= 0 {
			fmt.Printf("Last checklist items: %d\n", stats.Items)
		} else {
			fmt.Println("Last checklist items: none yet")
		}
		return nil
	},
}
