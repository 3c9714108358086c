package cmd

import (
	"fmt"
	"strings"

	"github.com/abhisek/compliz/internal/assessment"
	"github.com/abhisek/compliz/internal/store"
	"github.com/abhisek/compliz/internal/tree"
	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "Print the checklist from the last completed assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
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

		state, err := st.AssessmentRepo().LoadCompleted(cmd.Context())
		if err != nil {
			return err
		}
		if state == nil {
			fmt.Println("No completed assessment yet. Run `compliz` to start one.")
			return nil
		}

		printChecklist(t, state.Checklist)
		return nil
	},
}

// printChecklist writes the entries grouped by phase as plain text, for
// piping into files or other tools.
func printChecklist(t *tree.Tree, entries []assessment.Entry) {
	fmt.Println(t.Title())
	if lu := t.LastUpdated(); lu != "" {
		fmt.Println(lu)
	}
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No checklist items were determined for this study.")
		return
	}

	byPhase := make(map[int][]assessment.Entry)
	for _, e := range entries {
		byPhase[e.Item.Phase] = append(byPhase[e.Item.Phase], e)
	}

	printGroup := func(heading string, group []assessment.Entry) {
		fmt.Println(heading)
		for _, e := range group {
			fmt.Printf("  [%s] %s\n", e.Priority().Label(), e.Item.Text)
			var meta []string
			if e.Item.Contact != "" {
				meta = append(meta, "Contact: "+e.Item.Contact)
			}
			if e.Item.Timeline != "" {
				meta = append(meta, "When: "+e.Item.Timeline)
			}
			if e.Item.Link != "" {
				meta = append(meta, e.Item.Link)
			}
			if len(meta) > 0 {
				fmt.Println("      " + strings.Join(meta, "  |  "))
			}
			for _, d := range e.Item.Details {
				fmt.Println("      - " + d)
			}
		}
		fmt.Println()
	}

	for _, p := range t.Phases() {
		if group := byPhase[p.ID]; len(group) > 0 {
			heading := fmt.Sprintf("Phase %d: %s", p.ID, p.Name)
			if p.Parallel {
				heading += " (can run in parallel)"
			}
			printGroup(heading, group)
		}
	}
	if group := byPhase[0]; len(group) > 0 {
		printGroup("General", group)
	}
}
