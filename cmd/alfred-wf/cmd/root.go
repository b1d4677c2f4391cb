package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/halfyak/alfred-workflows/internal/config"
	"github.com/halfyak/alfred-workflows/internal/logger"
	"github.com/halfyak/alfred-workflows/internal/report"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	workDir      string
	settingsPath string
	verbose      bool
	quiet        bool
	debug        bool
)

// settings is loaded before any subcommand runs.
var settings = &config.DefaultSettings

var rootCmd = &cobra.Command{
	Use:   "alfred-wf",
	Short: "Develop Alfred workflows under source control",
	Long: `alfred-wf keeps Alfred workflows in a git repository. Each workflow
directory holds raw files exported from Alfred, script sources, and an
installation link to the copy Alfred runs. Edits made in the Alfred UI are
imported into raw; bundled output is pushed back with update.

Nothing is overwritten or deleted that git could not restore.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Init(debug); err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		s, err := config.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
		settings = s
		logger.Log.Debug("settings loaded",
			zap.String("command", cmd.Name()),
			zap.String("dir", workDir),
			zap.Any("settings", s))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "alfred-wf %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "C", ".", "workflow directory to operate on")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", "", "path to settings file (default "+config.DefaultSettingsPath()+")")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log debug messages to stderr")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command and prints any error to stderr.
func Execute(ctx context.Context) error {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		report.Print(os.Stderr, err)
		return err
	}
	return nil
}
