package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hypandra/spellbetternow/internal/app"
	"github.com/hypandra/spellbetternow/internal/session"
	"github.com/hypandra/spellbetternow/internal/store"
	"github.com/hypandra/spellbetternow/internal/worddiff"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start or resume a practice session",
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

		r, err := buildRunner(ctx, cmd, a)
		if err != nil {
			return err
		}

		// --answers scripts the whole session: answers and break choices
		// are consumed in order, so the command can run non-interactively.
		in := cmd.InOrStdin()
		interactive := true
		if answers, _ := cmd.Flags().GetString("answers"); answers != "" {
			in = strings.NewReader(strings.ReplaceAll(answers, ",", "\n") + "\nf\n")
			interactive = false
		}
		return driveSession(ctx, r, bufio.NewScanner(in), cmd.OutOrStdout(), interactive)
	},
}

func init() {
	runCmd.Flags().String("learner", "", "Learner name (created at tier 4 if unknown)")
	runCmd.Flags().Int("tier", 0, "Starting tier 1-7 (0 uses the learner's stored tier)")
	runCmd.Flags().Bool("assessment", false, "Assessment mode: report a suggested tier without applying it")
	runCmd.Flags().Bool("no-audio", false, "Record attempts as typed from a visible prompt")
	runCmd.Flags().Bool("resume", false, "Resume the learner's latest open session")
	runCmd.Flags().String("answers", "", "Comma-separated scripted answers; the session finishes at the next break")
}

// buildRunner starts a fresh session or resumes the latest open one.
func buildRunner(ctx context.Context, cmd *cobra.Command, a *app.App) (*session.Runner, error) {
	name, _ := cmd.Flags().GetString("learner")
	if name == "" {
		return nil, fmt.Errorf("--learner is required")
	}
	tierFlag, _ := cmd.Flags().GetInt("tier")
	learner, err := ensureLearner(ctx, a, name, tierFlag)
	if err != nil {
		return nil, err
	}

	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		open, err := a.Store.Sessions().LatestOpenSession(ctx, learner.ID)
		if err != nil {
			if errors.Is(err, store.ErrSessionNotFound) {
				return nil, fmt.Errorf("no open session for %s", name)
			}
			return nil, fmt.Errorf("find open session: %w", err)
		}
		return a.Resume(ctx, open.ID)
	}

	tier := learner.Tier
	if tierFlag > 0 {
		tier = tierFlag
	}
	assessment, _ := cmd.Flags().GetBool("assessment")
	promptMode := store.PromptAudio
	if noAudio, _ := cmd.Flags().GetBool("no-audio"); noAudio {
		promptMode = store.PromptNoAudio
	}

	r := a.NewRunner()
	err = r.Start(ctx, learner.ID, tier, session.StartOptions{
		Rating:     &learner.Rating,
		Assessment: assessment,
		MaxTier:    a.Config.MaxTier,
		PromptMode: promptMode,
	})
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	return r, nil
}

// ensureLearner looks the learner up by name, creating them on first use.
func ensureLearner(ctx context.Context, a *app.App, name string, tier int) (*store.Learner, error) {
	learner, err := a.Store.Learners().GetLearnerByName(ctx, name)
	if err == nil {
		return learner, nil
	}
	if !errors.Is(err, store.ErrLearnerNotFound) {
		return nil, fmt.Errorf("look up learner: %w", err)
	}
	if tier <= 0 {
		tier = 4
	}
	learner, err = a.Store.Learners().CreateLearner(ctx, name, tier)
	if err != nil {
		return nil, fmt.Errorf("create learner: %w", err)
	}
	fmt.Printf("Welcome, %s! Starting at tier %d.\n", name, tier)
	return learner, nil
}

// driveSession runs the prompt/answer loop until the learner finishes or
// input ends. Scripted runs skip the untimed retry so every input line is
// one scored answer or one break choice.
func driveSession(ctx context.Context, r *session.Runner, in *bufio.Scanner, out io.Writer, interactive bool) error {
	for {
		// Covers sessions resumed at a pending break, too.
		if r.GetState().State == session.StateBreak {
			done, err := handleBreak(ctx, r, in, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
			continue
		}

		word, ok := r.CurrentWord()
		if !ok {
			break
		}

		printPrompt(out, word)
		attempt, replays, latencyMs, ok := readAttempt(in, out, word)
		if !ok {
			fmt.Fprintln(out, "\nInput ended; session saved. Resume with --resume.")
			return nil
		}

		res, err := r.SubmitWord(ctx, word.ID, attempt, latencyMs, replays, nil, true)
		if err != nil {
			return err
		}
		printFeedback(out, res)

		// One untimed retry after a miss, so the learner sees the fix.
		// It is diagnostic only and changes nothing.
		if !res.Correct && interactive {
			fmt.Fprint(out, "Try once more: ")
			if !in.Scan() {
				fmt.Fprintln(out, "\nInput ended; session saved. Resume with --resume.")
				return nil
			}
			retry, err := r.SubmitWord(ctx, word.ID, in.Text(), 0, 0, nil, false)
			if err != nil {
				return err
			}
			if retry.Correct {
				fmt.Fprintln(out, "That's it!")
			} else {
				fmt.Fprintf(out, "Not quite. It's spelled %q.\n", res.Word.Text)
			}
		}

		if res.Report != nil {
			printReport(out, res.Report)
		}
	}
	return finishSession(ctx, r, out)
}

func printPrompt(out io.Writer, word store.Word) {
	fmt.Fprintln(out)
	if word.Definition != "" {
		fmt.Fprintf(out, "Definition: %s\n", word.Definition)
	}
	if word.Hint != "" {
		fmt.Fprintf(out, "Hint: %s\n", word.Hint)
	}
	if word.Definition == "" && word.Hint == "" {
		fmt.Fprintf(out, "Spell the %d-letter word.\n", len([]rune(word.Text)))
	}
}

// readAttempt reads one spelling, handling the "replay" command, and times
// the response.
func readAttempt(in *bufio.Scanner, out io.Writer, word store.Word) (attempt string, replays, latencyMs int, ok bool) {
	start := time.Now()
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return "", 0, 0, false
		}
		text := strings.TrimSpace(in.Text())
		if text == "replay" {
			replays++
			printPrompt(out, word)
			continue
		}
		if text == "" {
			continue
		}
		return text, replays, int(time.Since(start).Milliseconds()), true
	}
}

func printFeedback(out io.Writer, res *session.SubmitResult) {
	if res.Correct {
		fmt.Fprintf(out, "Correct! (%+d)\n", res.RatingDelta)
		return
	}
	fmt.Fprintf(out, "Not quite, it's %q. (%+d)\n", res.Word.Text, res.RatingDelta)
	if res.Diff != nil {
		for _, line := range describeDiff(*res.Diff) {
			fmt.Fprintf(out, "  %s\n", line)
		}
	}
}

// describeDiff turns the alignment into kid-readable hints.
func describeDiff(d worddiff.Result) []string {
	var lines []string
	for _, op := range d.Ops {
		switch op.Type {
		case worddiff.OpOmission:
			lines = append(lines, fmt.Sprintf("missing %q at position %d", op.CorrectChars, op.CorrectIndex+1))
		case worddiff.OpAddition:
			lines = append(lines, fmt.Sprintf("extra %q", op.UserChars))
		case worddiff.OpSubstitution:
			lines = append(lines, fmt.Sprintf("%q should be %q at position %d", op.UserChars, op.CorrectChars, op.CorrectIndex+1))
		case worddiff.OpTransposition:
			lines = append(lines, fmt.Sprintf("%q is swapped, it goes %q", op.UserChars, op.CorrectChars))
		}
	}
	return lines
}

func printReport(out io.Writer, rep *session.MiniSetReport) {
	fmt.Fprintf(out, "\n--- Mini-set %d: %d/%d correct ---\n", rep.SetNumber, rep.CorrectCount, session.SetSize)
	for _, m := range rep.Missed {
		if m.AttemptText != "" {
			fmt.Fprintf(out, "  missed %q (you typed %q)\n", m.WordText, m.AttemptText)
		} else {
			fmt.Fprintf(out, "  missed %q\n", m.WordText)
		}
	}
	if rep.Lesson != nil {
		fmt.Fprintf(out, "\n%s\n%s\n", rep.Lesson.PatternName, rep.Lesson.Explanation)
		for _, ex := range rep.Lesson.Examples {
			fmt.Fprintf(out, "  %s, not %s\n", ex.Correct, ex.Wrong)
		}
	}
}

// handleBreak asks what to do next. Returns true when the session ended.
func handleBreak(ctx context.Context, r *session.Runner, in *bufio.Scanner, out io.Writer) (bool, error) {
	for {
		fmt.Fprint(out, "\n[c]ontinue, [h]arder words, practice [m]issed, or [f]inish? ")
		if !in.Scan() {
			fmt.Fprintln(out, "\nInput ended; session saved. Resume with --resume.")
			return true, nil
		}
		var action session.NextAction
		switch strings.ToLower(strings.TrimSpace(in.Text())) {
		case "c", "":
			action = session.NextContinue
		case "h":
			action = session.NextChallengeJump
		case "m":
			action = session.NextPracticeMissed
		case "f":
			return true, finishSession(ctx, r, out)
		default:
			continue
		}

		next, err := r.CompleteMiniSet(ctx, action)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(out, "Next set at tier %d.\n", next.Tier)
		return false, nil
	}
}

func finishSession(ctx context.Context, r *session.Runner, out io.Writer) error {
	rep, err := r.Finish(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nSession complete: %d/%d correct over %d mini-sets, rating %d.\n",
		rep.Stats.CorrectTotal, rep.Stats.AttemptsTotal, rep.Stats.MiniSetsCompleted, rep.Stats.FinalRating)
	if rep.Assessment {
		fmt.Fprintf(out, "Suggested tier: %d (not applied).\n", rep.SuggestedTier)
	} else {
		fmt.Fprintf(out, "Tier: %d.\n", rep.Stats.FinalTier)
	}
	return nil
}
