package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// NewUntrackCmd creates the untrack command.
func NewUntrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untrack PACKAGE...",
		Short: "Stop tracking packages",
		Long:  "Forget tracked packages and delete their refs from the mirror. Untracking a package that is not tracked is not an error.",
		RunE:  runUntrack,
	}

	return cmd
}

func runUntrack(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.ErrNoPackagesSpecified
	}
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.orch.Untrack(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := struct {
		Untracked  []model.TrackedPackage `json:"untracked"`
		NotTracked []model.PackageName    `json:"not_tracked"`
		Failed     []failure              `json:"failed"`
	}{report.Untracked, report.NotTracked, failures(report.Failed)}
	if err := printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, out, func(w io.Writer) {
		for _, p := range report.Untracked {
			fmt.Fprintf(w, "Untracked %s from %s\n", p.Name, p.Remote)
		}
		for _, n := range report.NotTracked {
			fmt.Fprintf(w, "%s is not tracked\n", n)
		}
	}); err != nil {
		return err
	}
	return reportFailures(report.Failed, len(args))
}
