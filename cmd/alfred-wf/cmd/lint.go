package cmd

import (
	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Cross-check workflow.yaml against raw/info.plist",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		eng := &engine.LintEngine{Layout: l, Manifest: m, PackagePrefix: settings.PackagePrefix}
		if err := eng.Lint(); err != nil {
			return err
		}
		info("No problems found.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
