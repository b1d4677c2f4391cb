package cmd

import (
	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
)

var (
	exportOutput string
	exportLevel  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Pack dist into an installable .alfredworkflow file",
	Long: `Zips the contents of dist into a .alfredworkflow archive named after the
workflow, in the workflow directory. Run bundle first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		level := settings.CompressionLevel
		if m.Export.Level != 0 {
			level = m.Export.Level
		}
		if cmd.Flags().Changed("level") {
			level = exportLevel
		}
		result, err := (&engine.ExportEngine{Layout: l, Level: level, Output: exportOutput}).Export(cmd.Context())
		if err != nil {
			return err
		}
		for _, e := range result.Entries {
			detail("adding: %s (%d bytes)", e.Name, e.Size)
		}
		info("Wrote %s (%d entries)", result.Path, len(result.Entries))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "archive path (default <dir>/<name>.alfredworkflow)")
	exportCmd.Flags().IntVar(&exportLevel, "level", 9, "deflate level, 0 (store) to 9 (best)")
	rootCmd.AddCommand(exportCmd)
}
