package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/trapz/internal/question"
	"github.com/abhisek/trapz/internal/store"
	"github.com/abhisek/trapz/internal/trapgen"
	"github.com/spf13/cobra"
)

// trapGenPurpose is the label LLMGenerator puts on its calls.
const trapGenPurpose = "trap-gen"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect logged question-generation calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent generation calls and whether their question was usable",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")
		if all, _ := cmd.Flags().GetBool("all"); all {
			purpose = ""
		}
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.events.QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query LLM events: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(out, "No generation calls logged yet.")
			return nil
		}

		fmt.Fprintf(out, "%-5s  %-19s  %-10s  %-18s  %-24s  %9s  %6s  %s\n",
			"ID", "Timestamp", "Purpose", "Topic", "Model", "Tokens", "Ms", "Result")
		fmt.Fprintln(out, strings.Repeat("─", 110))
		for _, ev := range events {
			fmt.Fprintf(out, "%-5d  %-19s  %-10s  %-18s  %-24s  %9s  %6d  %s\n",
				ev.ID,
				ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(ev.Purpose, 10),
				truncate(question.TopicName(trapgen.TopicFromRequest(ev.RequestBody)), 18),
				truncate(ev.Model, 24),
				fmt.Sprintf("%d/%d", ev.InputTokens, ev.OutputTokens),
				ev.LatencyMs,
				eventResult(ev))
		}
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show a generation call and the question it produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid event id %q", args[0])
		}
		raw, _ := cmd.Flags().GetBool("raw")
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.events.GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get LLM event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Fprintf(out, "Call #%d  %s\n", ev.ID, ev.Timestamp.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "Model:    %s (%s)\n", ev.Model, ev.Provider)
		fmt.Fprintf(out, "Purpose:  %s\n", ev.Purpose)
		fmt.Fprintf(out, "Usage:    %d in / %d out tokens, %dms\n", ev.InputTokens, ev.OutputTokens, ev.LatencyMs)
		if !ev.Success {
			fmt.Fprintf(out, "Failed:   %s\n", ev.ErrorMessage)
		}

		if ev.Purpose == trapGenPurpose && ev.Success {
			fmt.Fprintln(out)
			q, err := replayTrapGen(*ev)
			if err != nil {
				fmt.Fprintf(out, "Rejected: %v\n", err)
			} else {
				printGenerated(out, q)
			}
		}

		if raw {
			sep := strings.Repeat("─", 60)
			for _, part := range []struct{ name, body string }{
				{"REQUEST", ev.RequestBody},
				{"RESPONSE", ev.ResponseBody},
			} {
				fmt.Fprintf(out, "\n%s\n%s\n%s\n", sep, part.name, sep)
				if part.body == "" {
					fmt.Fprintln(out, "(not captured)")
					continue
				}
				fmt.Fprintln(out, part.body)
			}
		}
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize generation calls, failures, and token usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		e, err := openEnv(cmd, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		usage, err := e.events.LLMUsageByPurpose(cmd.Context())
		if err != nil {
			return fmt.Errorf("query LLM usage: %w", err)
		}
		if len(usage) == 0 {
			fmt.Fprintln(out, "No generation calls logged yet.")
			return nil
		}

		line := strings.Repeat("─", 78)
		fmt.Fprintf(out, "%-12s  %6s  %6s  %7s  %10s  %10s  %8s\n",
			"Purpose", "Calls", "Failed", "OK %", "Input", "Output", "Avg Ms")
		fmt.Fprintln(out, line)

		var total store.LLMUsage
		for _, u := range usage {
			fmt.Fprintf(out, "%-12s  %6d  %6d  %6.1f%%  %10d  %10d  %8d\n",
				truncate(u.Purpose, 12), u.Calls, u.Failures, okPercent(u),
				u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
			total.Calls += u.Calls
			total.Failures += u.Failures
			total.InputTokens += u.InputTokens
			total.OutputTokens += u.OutputTokens
		}
		fmt.Fprintln(out, line)
		fmt.Fprintf(out, "%-12s  %6d  %6d  %6.1f%%  %10d  %10d\n",
			"TOTAL", total.Calls, total.Failures, okPercent(total), total.InputTokens, total.OutputTokens)
		return nil
	},
}

// replayTrapGen decodes a stored trap-gen response with the checks the
// generator applied when the call was made.
func replayTrapGen(ev store.LLMRequestEvent) (question.Question, error) {
	if ev.ResponseBody == "" {
		return question.Question{}, errors.New("response not captured")
	}
	topic := trapgen.TopicFromRequest(ev.RequestBody)
	if topic == "" {
		topic = question.DefaultTopic
	}
	return trapgen.DecodeResponse(topic, []byte(ev.ResponseBody))
}

// eventResult is the one-word outcome shown by llm list.
func eventResult(ev store.LLMRequestEvent) string {
	switch {
	case !ev.Success:
		return "error"
	case ev.Purpose != trapGenPurpose:
		return "ok"
	}
	if _, err := replayTrapGen(ev); err != nil {
		var ve *question.ValidationError
		if errors.As(err, &ve) {
			return "rejected: " + ve.Field
		}
		return "rejected"
	}
	return "question"
}

func printGenerated(out io.Writer, q question.Question) {
	fmt.Fprintf(out, "Topic:    %s\n", question.TopicName(q.Topic))
	fmt.Fprintf(out, "Question: %s\n", q.Text)
	for _, o := range q.Options {
		marker := " "
		switch {
		case o.IsCorrect:
			marker = "✓"
		case o.IsTrap:
			marker = "⚠"
		}
		fmt.Fprintf(out, "  %s %s\n", marker, o.Text)
	}
	if q.Explanation != "" {
		fmt.Fprintf(out, "Explains: %s\n", q.Explanation)
	}
}

func okPercent(u store.LLMUsage) float64 {
	if u.Calls == 0 {
		return 0
	}
	return 100 * float64(u.Calls-u.Failures) / float64(u.Calls)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", trapGenPurpose, "Only show calls with this purpose")
	llmListCmd.Flags().Bool("all", false, "Show calls of every purpose")
	llmViewCmd.Flags().Bool("raw", false, "Also print the request and response bodies")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
