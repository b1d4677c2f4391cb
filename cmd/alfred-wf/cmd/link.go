package cmd

import (
	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var linkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link installation to the workflow Alfred has installed",
	Long: `Finds the installed workflow whose bundleid matches raw/info.plist and
creates the installation symlink to it. An existing link is checked
instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		prefs, err := prefsPath()
		if err != nil {
			return err
		}
		result, err := (&engine.LinkEngine{Layout: l, PrefsPath: prefs}).Link(cmd.Context())
		if err != nil {
			return err
		}
		warn(result.Warnings)
		info("%s", result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(linkCmd)
}
