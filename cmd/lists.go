package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage curated word lists",
}

var listsAddCmd = &cobra.Command{
	Use:   "add <word>...",
	Short: "Create a curated list from bank words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		name, _ := cmd.Flags().GetString("learner")
		if name == "" {
			return fmt.Errorf("--learner is required")
		}
		learner, err := ensureLearner(ctx, a, name, 0)
		if err != nil {
			return err
		}

		// Pull the word ids by text so the list references bank rows.
		all, err := a.Store.Words().QueryWordsByRatingBand(ctx, 0, -1, nil)
		if err != nil {
			return err
		}
		byText := make(map[string]string, len(all))
		for _, w := range all {
			byText[strings.ToLower(w.Text)] = w.ID
		}

		var ids []string
		for _, text := range args {
			id, ok := byText[strings.ToLower(strings.TrimSpace(text))]
			if !ok {
				return fmt.Errorf("word %q is not in the bank; import it first", text)
			}
			ids = append(ids, id)
		}

		listName, _ := cmd.Flags().GetString("name")
		listID, err := a.Store.Lists().CreateList(ctx, learner.ID, listName, ids, true)
		if err != nil {
			return err
		}
		fmt.Printf("Created list %s with %d words.\n", listID, len(ids))
		return nil
	},
}

var listsToggleCmd = &cobra.Command{
	Use:   "toggle <list-id>",
	Short: "Enable or disable a curated list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		enabled, _ := cmd.Flags().GetBool("enabled")
		if err := a.Store.Lists().SetListEnabled(ctx, args[0], enabled); err != nil {
			return fmt.Errorf("toggle list %s: %w", args[0], err)
		}
		fmt.Printf("List %s enabled=%v.\n", args[0], enabled)
		return nil
	},
}

func init() {
	listsAddCmd.Flags().String("learner", "", "Learner the list belongs to")
	listsAddCmd.Flags().String("name", "custom", "List name")
	listsToggleCmd.Flags().Bool("enabled", true, "Target enabled state")

	listsCmd.AddCommand(listsAddCmd)
	listsCmd.AddCommand(listsToggleCmd)
}
