package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/report"
	"github.com/halfyak/alfred-workflows/internal/watch"
)

var updateWatch bool

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Push the bundled workflow from dist into installation",
	Long: `Copies files in dist that are newer than, or missing from, the installed
workflow. Files that are only in the installation are reported with the
commands to resolve them, and nothing is copied.

With --watch, update runs again each time dist changes.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		eng := &engine.UpdateEngine{Layout: l, Limit: settings.Concurrency}

		run := func(ctx context.Context) error {
			result, err := eng.Update(ctx)
			if err != nil {
				return err
			}
			warn(result.Warnings)
			if len(result.Applied) == 0 {
				info("Nothing to update, installation is up to date.")
			}
			for _, line := range result.Applied {
				info("%s", line)
			}
			return nil
		}

		if !updateWatch {
			return run(cmd.Context())
		}
		if err := run(cmd.Context()); err != nil {
			report.Print(os.Stderr, err)
		}
		return watch.Dir(cmd.Context(), l.Dist(), settings.WatchDelay, func(ctx context.Context, changed []string) {
			logger.Log.Info("dist changed", zap.Strings("paths", changed))
			if err := run(ctx); err != nil {
				report.Print(os.Stderr, err)
			}
		})
	},
}

func init() {
	updateCmd.Flags().BoolVarP(&updateWatch, "watch", "w", false, "update again whenever dist changes")
	rootCmd.AddCommand(updateCmd)
}
