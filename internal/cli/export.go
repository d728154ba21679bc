package cli

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/orchestrator"
)

type exportOptions struct {
	dest    string
	subdir  string
	archive bool
}

// NewExportCmd creates the export command.
func NewExportCmd() *cobra.Command {
	var o exportOptions

	cmd := &cobra.Command{
		Use:   "export PACKAGE",
		Short: "Write the recipe of a package to disk",
		Long: `Track a package and write the files of its recipe to DEST/NAME, or to
DEST/NAME.tar.gz with --archive. An existing destination is never overwritten.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, args[0], o)
		},
	}

	cmd.Flags().StringVarP(&o.dest, "dest", "d", DefaultExportDest, "Directory to export into")
	cmd.Flags().StringVar(&o.subdir, "subdir", "", "Only export this directory of the recipe (e.g. trunk)")
	cmd.Flags().BoolVar(&o.archive, "archive", false, "Write a .tar.gz archive instead of a directory")

	return cmd
}

func runExport(cmd *cobra.Command, arg string, o exportOptions) error {
	dest, err := filepath.Abs(o.dest)
	if err != nil {
		return fmt.Errorf("failed to resolve destination %s: %w", o.dest, err)
	}

	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := a.orch.Export(cmd.Context(), arg, orchestrator.ExportOptions{
		Dest:    dest,
		Subdir:  o.subdir,
		Archive: o.archive,
	})
	if err != nil {
		return err
	}

	if err := printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, result, func(w io.Writer) {
		fmt.Fprintln(w, result.Path)
	}); err != nil {
		return err
	}
	logger.Success("Package exported", logger.Fields{"package": result.Resolution.Name.String(), "path": result.Path})
	return nil
}
