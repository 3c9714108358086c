package cmd

import (
	"fmt"

	"github.com/abhisek/compliz/internal/app"
	"github.com/abhisek/compliz/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, loads the decision tree, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	t, err := resolveTree(cmd)
	if err != nil {
		return fmt.Errorf("load decision tree: %w", err)
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	return app.Run(app.Options{
		Tree: t,
		Repo: st.AssessmentRepo(),
	})
}
