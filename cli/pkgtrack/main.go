package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/cli"
)

var (
	configPath   string
	verbose      bool
	outputFormat string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pkgtrack",
		Short: "Track package recipes across git remotes",
		Long: `pkgtrack resolves package names to the git remote hosting their recipe
and keeps a local mirror of just the packages you track:
- track, untrack, update: manage and synchronise tracked packages
- resolve, list-all, list-local: find packages across remotes
- export: write a recipe to disk or to a tarball`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format (text, json)")

	// Set up CLI pkg variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.OutputFormat = &outputFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewTrackCmd(),
		cli.NewUntrackCmd(),
		cli.NewUpdateCmd(),
		cli.NewResolveCmd(),
		cli.NewExportCmd(),
		cli.NewListLocalCmd(),
		cli.NewListAllCmd(),
		cli.NewListRemotesCmd(),
		cli.NewConfigCmd(),
		cli.NewCacheCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
