package cmd

import (
	"github.com/spf13/cobra"

	"github.com/halfyak/alfred-workflows/internal/engine"
	"github.com/halfyak/alfred-workflows/internal/reconcile"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what import and update would do",
	Long: `Plans both sync directions without changing anything and without
consulting git. Use --verbose to list unchanged files as well.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, l, err := loadWorkflow()
		if err != nil {
			return err
		}
		eng := &engine.StatusEngine{Layout: l, Limit: settings.Concurrency}
		result, err := eng.Status(cmd.Context())
		if err != nil {
			return err
		}
		printRoles(result.Roles)
		printPlan("import", result.Import)
		printPlan("update", result.Update)
		return nil
	},
}

// printRoles lists moved roles always and the rest only with --verbose.
func printRoles(roles []engine.RolePath) {
	for _, r := range roles {
		if r.Overridden {
			info("%s: %s (from manifest)", r.Role, r.Path)
		} else {
			detail("%s: %s", r.Role, r.Path)
		}
	}
}

func printPlan(op string, p engine.Plan) {
	info("%s: %s -> %s", op, p.Source, p.Target)
	if p.Err != nil {
		info("  cannot plan: %v", p.Err)
		return
	}
	printOutcomes(p.Outcomes)
	counts := countActions(p.Outcomes)
	info("  %d to copy, %d to delete, %d unchanged, %d failed.",
		counts[reconcile.Copy], counts[reconcile.Delete], counts[reconcile.None], counts[reconcile.Fail])
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
