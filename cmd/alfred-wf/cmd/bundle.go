package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var bundleCmd = &cobra.Command{
	Use:   "bundle",
	Short: "Assemble dist from scripts and raw files",
	Long: `Clears dist, runs the build command from workflow.yaml (or copies the
scripts directory when there is none), makes the results executable, and
copies raw into dist. A raw file with the same name as a built script is
an error.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		eng := &engine.BundleEngine{Layout: l, Build: m.Build, Stderr: cmd.ErrOrStderr()}
		result, err := eng.Bundle(cmd.Context())
		if err != nil {
			return err
		}
		if out := strings.TrimRight(result.BuildOutput, "\n"); out != "" {
			info("%s", out)
		}
		for _, name := range result.Built {
			detail("%s", name)
		}
		info("Bundled %d script(s) into %s", len(result.Built), l.Dist())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bundleCmd)
}
