package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/careercoach/internal/app"
)

// runApp builds dependencies and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	d, err := openDeps(ctx, true)
	if err != nil {
		return err
	}
	defer d.Close()

	skip, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(ctx, app.Options{
		Session:    d.session,
		Events:     d.store.EventRepo(),
		SkipSplash: skip,
	})
}
