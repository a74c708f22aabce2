package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hypandra/spellbetternow/internal/config"
	"github.com/hypandra/spellbetternow/internal/store/sqlite"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all learner data",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to delete without --yes")
		}

		dbPath, _ := cmd.Flags().GetString("db")
		if dbPath == "" {
			dbPath = config.Load().DBPath
		}
		if dbPath == "" {
			var err error
			dbPath, err = sqlite.DefaultDBPath()
			if err != nil {
				return fmt.Errorf("resolve DB path: %w", err)
			}
		}

		if err := os.Remove(dbPath); err != nil {
			if os.IsNotExist(err) {
				fmt.Println("Nothing to reset.")
				return nil
			}
			return fmt.Errorf("remove database: %w", err)
		}
		fmt.Printf("Deleted %s.\n", dbPath)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deletion")
}
