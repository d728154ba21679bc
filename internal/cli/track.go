package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// NewTrackCmd creates the track command.
func NewTrackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "track PACKAGE...",
		Short: "Start tracking packages",
		Long: `Resolve each package to the remote hosting it and mirror its ref.

A package may be given as REMOTE/NAME to only look at one remote. When no
remote hosts NAME but one hosts its group (pkgbase), the group is tracked.`,
		RunE: runTrack,
	}

	return cmd
}

func runTrack(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return errors.ErrNoPackagesSpecified
	}
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.orch.Track(cmd.Context(), args)
	if err != nil {
		return err
	}

	out := struct {
		Tracked []model.Resolution `json:"tracked"`
		Failed  []failure          `json:"failed"`
	}{report.Tracked, failures(report.Failed)}
	if err := printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, out, func(w io.Writer) {
		for _, res := range report.Tracked {
			fmt.Fprintf(w, "Tracking %s\n", describeResolution(res))
		}
	}); err != nil {
		return err
	}

	if len(report.Tracked) > 0 {
		logger.Success("Packages tracked", logger.Fields{"count": len(report.Tracked)})
	}
	return reportFailures(report.Failed, len(args))
}

func describeResolution(res model.Resolution) string {
	s := fmt.Sprintf("%s from %s", res.Name, res.Remote.Name)
	if res.ViaGroup {
		s += fmt.Sprintf(" (group of %s)", res.Requested)
	}
	return s
}
