package cmd

import (
	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Pull edits made in Alfred from installation into raw",
	Long: `Compares the installed workflow with raw and copies newer files into raw,
deleting raw files that are no longer installed. Files that bundle writes
into dist are not imported.

Nothing happens if any file cannot be synced, or if a file to be changed
in raw has staged, unstaged or untracked changes in git.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		eng := &engine.ImportEngine{Layout: l, Gate: newGate(), Limit: settings.Concurrency}
		result, err := eng.Import(cmd.Context())
		if err != nil {
			return err
		}
		if result.UpToDate {
			info("Nothing to import, raw is up to date.")
			return nil
		}
		for _, line := range result.Applied {
			info("%s", line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
