package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewListLocalCmd creates the list-local command.
func NewListLocalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-local",
		Short: "List tracked packages",
		Long:  "List every tracked package with the remote it is mirrored from.",
		Args:  cobra.NoArgs,
		RunE:  runListLocal,
	}

	return cmd
}

// NewListAllCmd creates the list-all command.
func NewListAllCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-all",
		Short: "List packages advertised by every remote",
		Long:  "List the packages each remote advertises, refreshing package lists older than cache_ttl.",
		Args:  cobra.NoArgs,
		RunE:  runListAll,
	}

	return cmd
}

// NewListRemotesCmd creates the list-remotes command.
func NewListRemotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-remotes",
		Short: "List configured remotes",
		Long:  "List the configured remotes in priority order.",
		Args:  cobra.NoArgs,
		RunE:  runListRemotes,
	}

	return cmd
}

func runListLocal(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	packages := a.orch.ListLocal()
	return printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, packages, func(w io.Writer) {
		if len(packages) == 0 {
			fmt.Fprintln(w, "No packages tracked")
			return
		}
		tw := newTabWriter(w)
		_, _ = fmt.Fprintln(tw, "REMOTE\tPACKAGE\tTRACKED")
		for _, p := range packages {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Remote, p.Name, p.TrackedAt.Format("2006-01-02 15:04:05"))
		}
		_ = tw.Flush()
	})
}

func runListAll(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	all, err := a.orch.ListAll(cmd.Context())
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, all, func(w io.Writer) {
		for _, rp := range all {
			for _, n := range rp.Packages {
				fmt.Fprintf(w, "%s/%s\n", rp.Remote, n)
			}
		}
	})
}

func runListRemotes(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	remotes, err := cfg.ModelRemotes()
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), cfg.Settings.OutputFormat, remotes, func(w io.Writer) {
		tw := newTabWriter(w)
		_, _ = fmt.Fprintln(tw, "NAME\tURL\tNAMESPACE")
		for _, r := range remotes {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.URL, r.Namespace)
		}
		_ = tw.Flush()
	})
}

