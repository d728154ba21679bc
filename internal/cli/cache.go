package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/cache"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the package list cache",
		Long:  "Show information about and clean the per-remote package lists",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var remotes []string

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the package list cache",
		Long:  "Remove cached package lists. They are rebuilt on next use.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClean(cmd, remotes)
		},
	}

	cmd.Flags().StringSliceVar(&remotes, "remote", nil, "Only clean the lists of these remotes")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display size and age of each remote's package list",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the cache directory",
		Args:  cobra.NoArgs,
		RunE:  runCacheDir,
	}

	return cmd
}

func runCacheClean(cmd *cobra.Command, remotes []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, r := range remotes {
		if a.cfg.GetRemote(r) == nil {
			return errors.ErrRemoteNotFoundWithName(r)
		}
	}

	result, err := a.cache.Clean(cache.CleanOptions{Remotes: remotes})
	if err != nil {
		return err
	}
	if err := printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, result, func(w io.Writer) {
		fmt.Fprintln(w, cache.FormatCleanResult(result))
	}); err != nil {
		return err
	}
	logger.Debug("Cache cleaning completed", logger.Fields{"files": result.FilesRemoved, "freed": result.TotalFreed})
	return nil
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.Close()

	info, err := a.cache.GetInfo(a.remotes)
	if err != nil {
		return err
	}
	return printResult(cmd.OutOrStdout(), a.cfg.Settings.OutputFormat, info, func(w io.Writer) {
		fmt.Fprintln(w, cache.FormatInfo(info, time.Now()))
	})
}

func runCacheDir(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cfg.GetCacheDir())
	return nil
}
