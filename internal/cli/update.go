package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// NewUpdateCmd creates the update command.
func NewUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update [PACKAGE...]",
		Aliases: []string{"sync"},
		Short:   "Update tracked packages from their remotes",
		Long: `Bring the refs of tracked packages up to date with upstream.

Without arguments every tracked package is updated. Packages are grouped by
remote and each remote is fetched once.`,
		RunE: runUpdate,
	}

	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.orch.Sync(cmd.Context(), args)
	if err != nil {
		return fmt.Errorf("failed to update packages: %w", err)
	}

	out := struct {
		Updated []model.TrackedPackage `json:"updated"`
		Changed []model.TrackedPackage `json:"changed"`
		Failed  []failure              `json:"failed"`
		Fetches int                    `json:"fetches"`
	}{report.Updated, report.Changed, failures(report.Failed), report.Fetches}
	if err := printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, out, func(w io.Writer) {
		for _, p := range report.Changed {
			fmt.Fprintf(w, "Updated %s from %s\n", p.Name, p.Remote)
		}
	}); err != nil {
		return err
	}

	logger.Success("Packages updated", logger.Fields{
		"updated": len(report.Updated),
		"changed": len(report.Changed),
		"fetches": report.Fetches,
	})
	total := len(report.Updated) + len(report.Failed)
	return reportFailures(report.Failed, total)
}
