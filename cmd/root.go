package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hypandra/spellbetternow/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "spellbetter",
	Short: "Adaptive spelling practice engine",
	Long:  "Spellbetternow — adaptive spelling practice that tracks a learner's skill with ratings and serves 5-word mini-sets at the right difficulty.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SPELLBETTER_DB env var)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(wordsCmd)
	rootCmd.AddCommand(listsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// openApp builds the engine using the --db flag when set.
func openApp(cmd *cobra.Command) (*app.App, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	return app.New(dbPath)
}
