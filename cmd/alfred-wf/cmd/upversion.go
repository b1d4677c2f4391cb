package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
)

var upversionCmd = &cobra.Command{
	Use:   "upversion",
	Short: "Bump the patch version in raw/info.plist",
	Long: `Increments the patch level of the version in raw/info.plist. Refuses to
run if that file has staged or unstaged changes in git. Remember to update
package.version in workflow.yaml to match; lint checks it.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		v, err := (&engine.UpversionEngine{Layout: l, Git: newGit()}).Upversion(cmd.Context())
		if err != nil {
			return err
		}
		info("Bumped patch version to %s in %s", v, filepath.Join(l.Raw(), infoplist.FileName))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(upversionCmd)
}
