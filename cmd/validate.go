package cmd

import (
	"fmt"

	"github.com/abhisek/compliz/internal/tree"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a decision-tree JSON file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			t   *tree.Tree
			err error
		)
		if len(args) == 1 {
			t, err = tree.LoadFile(args[0])
		} else {
			t, err = tree.Default()
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s: OK (%d questions, %d phases)\n", t.Title(), t.Len(), len(t.Phases()))
		return nil
	},
}
