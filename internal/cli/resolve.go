package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewResolveCmd creates the resolve command.
func NewResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve PACKAGE",
		Short: "Show which remote hosts a package",
		Long:  "Resolve a package to the remote hosting it without tracking it.",
		Args:  cobra.ExactArgs(1),
		RunE:  runResolve,
	}

	return cmd
}

func runResolve(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	res, err := a.orch.Resolve(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, res, func(w io.Writer) {
		fmt.Fprintln(w, describeResolution(res))
	})
}
