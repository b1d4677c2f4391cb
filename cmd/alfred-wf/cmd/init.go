package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/infoplist"
	"github.com/halfyak/alfred-workflows/internal/layout"
)

var initForce bool

// initTemplate is written when there is no raw/info.plist to infer the
// package fields from.
const initTemplate = `# alfred-wf workflow manifest
version: 1

package:
  name: ""          # <package prefix><repository name>, checked by lint
  version: "1.0.0"  # must match version in raw/info.plist
  description: ""
  author: ""

# Move directory roles (installation, raw, dist, scripts):
# layout:
#   - role: scripts
#     path: scripts

# Extra installation files never synced, besides prefs.plist:
# installation_ignores:
#   - .DS_Store

# Command run by bundle from this directory, with ALFRED_WF_DIST and
# ALFRED_WF_SCRIPTS set. Without one, the scripts directory is copied.
# build:
#   command: [npx, esbuild, --bundle, --outdir=dist, src/scripts/main.ts]

# export:
#   level: 9
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a workflow.yaml for the workflow directory",
	Long: `Creates workflow.yaml in the workflow directory. When raw/info.plist is
readable the package fields are filled in from it; otherwise a commented
template is written.

Use --force to overwrite an existing manifest.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, err := filepath.Abs(filepath.Join(workDir, config.ManifestFileName))
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		data := []byte(initTemplate)
		l := layout.New(workDir, nil, nil)
		if p, err := infoplist.Read(l.Raw(), infoplist.Options{}); err == nil {
			data, err = config.Marshal(engine.ManifestFor(p, settings.PackagePrefix))
			if err != nil {
				return err
			}
		} else {
			detail("not inferring package fields: %v", err)
		}

		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return fmt.Errorf("writing manifest: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Run 'alfred-wf link' to find the installed workflow")
		info("  2. Run 'alfred-wf import' to pull its files into raw")
		info("  3. Run 'alfred-wf lint' to check the package fields")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing workflow.yaml")
	rootCmd.AddCommand(initCmd)
}
