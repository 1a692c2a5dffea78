package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/profile"
	"github.com/abhisek/careercoach/internal/roadmap"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts and progress",
}

var userAddCmd = &cobra.Command{
	Use:   "add <username>",
	Short: "Create a user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			fmt.Fprint(os.Stderr, "Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("read password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		d, err := openDeps(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.session.Signup(cmd.Context(), args[0], password); err != nil {
			return err
		}
		fmt.Printf("Created user %s.\n", args[0])
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users with their roadmap progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		profiles, err := profile.Open(ctx, cfg.Users)
		if err != nil {
			return fmt.Errorf("open user store: %w", err)
		}
		defer profiles.Close()

		names, err := profiles.Usernames(ctx)
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Println("No users yet.")
			return nil
		}

		t := newTable("User", "Role", "Weeks", "Done")
		if err := listUsers(ctx, profiles, names, t); err != nil {
			return err
		}
		return t.flush()
	},
}

// listUsers writes one row per user. Users removed since names was read
// are skipped.
func listUsers(ctx context.Context, profiles profile.Store, names []string, t *table) error {
	for _, name := range names {
		p, err := profiles.Get(ctx, name)
		if err != nil {
			return err
		}
		if p == nil {
			continue
		}
		sum := summarize(p)
		t.row(name, truncate(p.Role, 32), fmt.Sprintf("%d/%d", sum.PassedCount, sum.TotalCount),
			fmt.Sprintf("%d%%", sum.PercentComplete))
	}
	return nil
}

var userProgressCmd = &cobra.Command{
	Use:   "progress <username>",
	Short: "Show a user's roadmap progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		profiles, err := profile.Open(ctx, cfg.Users)
		if err != nil {
			return fmt.Errorf("open user store: %w", err)
		}
		defer profiles.Close()

		p, err := profiles.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if p == nil {
			return fmt.Errorf("user %q not found", args[0])
		}

		sum := summarize(p)
		if sum.TotalCount == 0 {
			fmt.Println("No roadmap generated yet.")
		} else {
			fmt.Printf("%d of %d weeks passed (%d%%)\n\n", sum.PassedCount, sum.TotalCount, sum.PercentComplete)
			for _, row := range sum.Rows {
				mark := " "
				if row.Passed {
					mark = "✓"
				}
				fmt.Printf("  %s %-10s %3d\n", mark, row.Week, int(row.Score))
			}
			fmt.Printf("\nTrend  %s\n", roadmap.Sparkline(sum.Trend))
		}

		if len(sum.MasteredWeeks) > 0 {
			fmt.Printf("\nMastered: %s\n", strings.Join(sum.MasteredWeeks, ", "))
		}
		return nil
	},
}

var userResetCmd = &cobra.Command{
	Use:   "reset <username>",
	Short: "Archive and clear a user's roadmap scores",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			fmt.Fprintf(os.Stderr, "Reset progress for %s? [y/N] ", args[0])
			line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
			if a := strings.ToLower(strings.TrimSpace(line)); a != "y" && a != "yes" {
				fmt.Println("Cancelled.")
				return nil
			}
		}

		d, err := openDeps(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.session.ResetProgress(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Progress reset for %s. The previous roadmap was archived.\n", args[0])
		return nil
	},
}

var userImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Copy users from another user store",
	Long: "Copy every user from --from into the configured user store. Users that\n" +
		"already exist in the destination are left untouched.",
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("from")
		if from == "" {
			return errors.New("--from is required")
		}
		if from == cfg.Users {
			return errors.New("source and destination are the same store")
		}

		ctx := cmd.Context()
		src, err := profile.Open(ctx, from)
		if err != nil {
			return fmt.Errorf("open source store: %w", err)
		}
		defer src.Close()

		dst, err := profile.Open(ctx, cfg.Users)
		if err != nil {
			return fmt.Errorf("open user store: %w", err)
		}
		defer dst.Close()

		copied, skipped, err := profile.Copy(ctx, dst, src)
		if err != nil {
			return fmt.Errorf("import users: %w", err)
		}
		fmt.Printf("Imported %d users (%d already present).\n", copied, skipped)
		return nil
	},
}

func summarize(p *profile.Profile) roadmap.Summary {
	return roadmap.Summarize(roadmap.Parse(p.RoadmapText), p.Progress.Scores, p.Progress.Mastered)
}

func init() {
	userAddCmd.Flags().String("password", "", "Password (prompted when empty)")
	userResetCmd.Flags().BoolP("yes", "y", false, "Skip confirmation")
	userImportCmd.Flags().String("from", "", "Source store: JSON file, *.db / sqlite: path, or postgres:// URL")

	userCmd.AddCommand(userAddCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userProgressCmd)
	userCmd.AddCommand(userResetCmd)
	userCmd.AddCommand(userImportCmd)
}
