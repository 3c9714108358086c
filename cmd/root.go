package cmd

import (
	"github.com/abhisek/compliz/internal/store"
	"github.com/abhisek/compliz/internal/tree"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "compliz",
	Short: "Guided regulatory checklists for research studies",
	Long:  "Compliz walks a research team through a branching assessment and builds the prioritized list of regulatory steps their study needs.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides COMPLIZ_DB env var)")
	rootCmd.PersistentFlags().String("tree", "", "Path to a decision-tree JSON file (defaults to the built-in tree)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(checklistCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then COMPLIZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveTree loads the decision tree from --tree, or the built-in one.
func resolveTree(cmd *cobra.Command) (*tree.Tree, error) {
	if p, _ := cmd.Flags().GetString("tree"); p != "" {
		return tree.LoadFile(p)
	}
	return tree.Default()
}
