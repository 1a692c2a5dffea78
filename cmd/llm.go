package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/llm"
	"github.com/abhisek/careercoach/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded LLM requests and token usage",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Println("No LLM events found.")
			return nil
		}

		t := newTable("ID", "Time", "Purpose", "Model", "In", "Out", "Ms", "OK")
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			t.row(strconv.Itoa(e.ID), e.Timestamp.Local().Format(timeLayout), e.Purpose, truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens), strconv.Itoa(e.OutputTokens), strconv.FormatInt(e.LatencyMs, 10), ok)
		}
		return t.flush()
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full prompt and reply of one LLM request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fmt.Printf("ID:        %d\n", e.ID)
		fmt.Printf("Time:      %s\n", e.Timestamp.Local().Format(timeLayout))
		fmt.Printf("Provider:  %s\n", e.Provider)
		fmt.Printf("Model:     %s\n", e.Model)
		fmt.Printf("Purpose:   %s\n", e.Purpose)
		fmt.Printf("Tokens:    %d in / %d out\n", e.InputTokens, e.OutputTokens)
		fmt.Printf("Latency:   %dms\n", e.LatencyMs)
		fmt.Printf("Success:   %v\n", e.Success)
		if e.ErrorMessage != "" {
			fmt.Printf("Error:     %s\n", e.ErrorMessage)
		}
		fmt.Println()
		printSection(os.Stdout, "PROMPT", e.RequestBody)
		printSection(os.Stdout, "REPLY", e.ResponseBody)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per coaching feature and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Println("No LLM usage recorded yet.")
			return nil
		}

		fmt.Println("Usage by feature")
		t := newTable("Purpose", "Calls", "Input", "Output", "Total", "Avg ms")
		var calls, in, out int
		for _, u := range byPurpose {
			t.row(u.Purpose, strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens),
				strconv.Itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
			calls += u.Calls
			in += u.InputTokens
			out += u.OutputTokens
		}
		t.rule(6)
		t.row("TOTAL", strconv.Itoa(calls), strconv.Itoa(in), strconv.Itoa(out), strconv.Itoa(in+out), "")
		if err := t.flush(); err != nil {
			return err
		}

		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) == 0 {
			return nil
		}

		fmt.Println()
		fmt.Println("Estimated cost (USD)")
		t = newTable("Model", "Calls", "Input", "Output", "Cost")
		var total float64
		var unpriced []string
		for _, u := range byModel {
			cost := "?"
			if price := llm.LookupCost(u.Model); price != nil {
				c := price.Cost(u.InputTokens, u.OutputTokens)
				total += c
				cost = formatCost(c)
			} else {
				unpriced = append(unpriced, u.Model)
			}
			t.row(truncate(u.Model, 32), strconv.Itoa(u.Calls), strconv.Itoa(u.InputTokens), strconv.Itoa(u.OutputTokens), cost)
		}
		label := "TOTAL"
		if len(unpriced) > 0 {
			label = "TOTAL (partial)"
		}
		t.rule(5)
		t.row(label, "", "", "", formatCost(total))
		if err := t.flush(); err != nil {
			return err
		}
		if len(unpriced) > 0 {
			fmt.Printf("\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
		}
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose: "+strings.Join(llm.Purposes(), ", "))

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
