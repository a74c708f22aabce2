package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hypandra/spellbetternow/internal/rating"
	"github.com/hypandra/spellbetternow/internal/store"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage the word bank",
}

var wordsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import words from a file, one per line: text[,tier[,definition[,hint]]]",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open word file: %w", err)
		}
		defer f.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		imported := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			w, err := parseWordLine(line)
			if err != nil {
				return fmt.Errorf("line %q: %w", line, err)
			}
			if _, err := a.Store.Words().UpsertWord(ctx, w); err != nil {
				return fmt.Errorf("import %q: %w", w.Text, err)
			}
			imported++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read word file: %w", err)
		}

		total, err := a.Store.Words().CountWords(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Imported %d words (%d in bank).\n", imported, total)
		return nil
	},
}

var wordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bank words around a rating",
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

		center, _ := cmd.Flags().GetInt("rating")
		tolerance, _ := cmd.Flags().GetInt("tolerance")
		words, err := a.Store.Words().QueryWordsByRatingBand(ctx, center, tolerance, nil)
		if err != nil {
			return err
		}
		for _, w := range words {
			fmt.Printf("%-20s rating %-5d tier %d\n", w.Text, w.Rating, w.Tier)
		}
		fmt.Printf("%d words.\n", len(words))
		return nil
	},
}

// parseWordLine parses "text[,tier[,definition[,hint]]]". A missing tier
// defaults to 4; the starting rating is the tier's default.
func parseWordLine(line string) (store.Word, error) {
	parts := strings.SplitN(line, ",", 4)
	w := store.Word{Text: strings.TrimSpace(parts[0]), Tier: 4}
	if w.Text == "" {
		return w, fmt.Errorf("empty word")
	}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		tier, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return w, fmt.Errorf("bad tier: %w", err)
		}
		if tier < 1 || tier > rating.MaxTier {
			return w, fmt.Errorf("tier %d out of range", tier)
		}
		w.Tier = tier
	}
	if len(parts) > 2 {
		w.Definition = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		w.Hint = strings.TrimSpace(parts[3])
	}
	w.Rating = rating.DefaultRatingForTier(w.Tier)
	return w, nil
}

func init() {
	wordsListCmd.Flags().Int("rating", 1500, "Center rating")
	wordsListCmd.Flags().Int("tolerance", -1, "Rating window half-width (-1 lists everything)")

	wordsCmd.AddCommand(wordsImportCmd)
	wordsCmd.AddCommand(wordsListCmd)
}
