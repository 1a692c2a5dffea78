package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/roadmap"
	"github.com/abhisek/careercoach/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history <username>",
	Short: "Show a user's assessment attempts or archived roadmaps",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		snapshots, _ := cmd.Flags().GetBool("snapshots")

		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()

		if snapshots {
			return printSnapshots(cmd, s, args[0], limit)
		}

		attempts, err := s.EventRepo().QueryAssessmentAttempts(cmd.Context(), store.QueryOpts{Username: args[0], Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(attempts) == 0 {
			fmt.Println("No assessment attempts found.")
			return nil
		}

		t := newTable("Time", "Week", "Correct", "Earned", "Score", "Result")
		for _, a := range attempts {
			result := "fail"
			if a.Passed {
				result = "pass"
			}
			t.row(a.Timestamp.Local().Format(timeLayout), a.Week, fmt.Sprintf("%d/%d", a.Correct, a.Total),
				fmt.Sprintf("%.1f", a.ScoreDelta), strconv.Itoa(int(a.Score)), result)
		}
		return t.flush()
	},
}

func printSnapshots(cmd *cobra.Command, s *store.Store, username string, limit int) error {
	snaps, err := s.SnapshotRepo().List(cmd.Context(), username, limit)
	if err != nil {
		return fmt.Errorf("list snapshots: %w", err)
	}
	if len(snaps) == 0 {
		fmt.Println("No archived roadmaps found.")
		return nil
	}

	t := newTable("ID", "Time", "Reason", "Passed", "Trend")
	for _, snap := range snaps {
		sum := roadmap.Summarize(roadmap.Parse(snap.Data.RoadmapText), snap.Data.Scores, nil)
		t.row(strconv.Itoa(snap.ID), snap.Timestamp.Local().Format(timeLayout), snap.Data.Reason,
			fmt.Sprintf("%d/%d", sum.PassedCount, sum.TotalCount), roadmap.Sparkline(sum.Trend))
	}
	return t.flush()
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of entries to show")
	historyCmd.Flags().Bool("snapshots", false, "List archived roadmaps instead of attempts")
}
