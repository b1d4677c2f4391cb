package cmd

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap <bundleid-prefix>...",
	Short: "Create repository directories for installed workflows",
	Long: `Creates a directory under the workflows directory for every installed
workflow whose bundleid starts with one of the given prefixes and that is
not in the repository yet. Each gets an installation link, a workflow.yaml,
starter files, and a copy of info.plist in raw.

--dir is the repository root for this command.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := prefsPath()
		if err != nil {
			return err
		}
		eng := &engine.BootstrapEngine{
			Root:          workflowsRoot(),
			PrefsPath:     prefs,
			PackagePrefix: settings.PackagePrefix,
		}
		result, err := eng.Bootstrap(cmd.Context(), args)
		if err != nil {
			return err
		}
		warn(result.Warnings)
		if len(result.Created) == 0 {
			info("No new workflows for prefixes: %s", strings.Join(args, ","))
			return nil
		}
		info("Bootstrapped %d workflow(s)", len(result.Created))
		for _, c := range result.Created {
			info("")
			info("%s: %s from %s", c.Dir, c.Name, c.Installation)
			detail("set installation link, wrote workflow.yaml, created %s, copied raw/info.plist",
				filepath.Join("src", "scripts"))
			info("Next steps:")
			info("  :; ( cd %s && alfred-wf import && alfred-wf bundle; )", engine.ShQuote(c.Dir))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
