package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a learner's progress",
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
			learners, err := a.Store.Learners().ListLearners(ctx)
			if err != nil {
				return err
			}
			for _, l := range learners {
				fmt.Printf("%-20s tier %d  rating %d\n", l.Name, l.Tier, l.Rating)
			}
			return nil
		}

		learner, err := a.Store.Learners().GetLearnerByName(ctx, name)
		if err != nil {
			return fmt.Errorf("look up learner: %w", err)
		}

		total, correct, err := a.Store.Attempts().AccuracyForLearner(ctx, learner.ID)
		if err != nil {
			return err
		}
		percentile, err := a.Store.Learners().GetLearnerPercentileRank(ctx, learner.ID)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", learner.Name)
		fmt.Printf("  tier       %d\n", learner.Tier)
		fmt.Printf("  rating     %d\n", learner.Rating)
		fmt.Printf("  percentile %.0f%%\n", percentile*100)
		if total > 0 {
			fmt.Printf("  accuracy   %d/%d (%.0f%%)\n", correct, total, float64(correct)/float64(total)*100)
		} else {
			fmt.Println("  accuracy   no attempts yet")
		}

		words, err := a.Store.Words().QueryWordsByRatingBand(ctx, 0, -1, nil)
		if err != nil {
			return err
		}
		ids := make([]string, len(words))
		for i, w := range words {
			ids[i] = w.ID
		}
		mastery, err := a.Store.Mastery().GetMastery(ctx, learner.ID, ids)
		if err != nil {
			return err
		}
		if len(mastery) > 0 {
			fmt.Println("  mastery:")
			for _, w := range words {
				rec, ok := mastery[w.ID]
				if !ok {
					continue
				}
				fmt.Printf("    %-20s %s\n", w.Text, strings.Repeat("*", rec.Score))
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().String("learner", "", "Learner name (empty lists everyone)")
}
