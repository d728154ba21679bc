package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/config"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
	"github.com/glorpus-work/pkgtrack/pkg/model"
)

// NewConfigCmd creates the config command with subcommands.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "View and modify pkgtrack configuration settings and remotes",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigGetCmd(),
		newConfigInitCmd(),
		newConfigAddRemoteCmd(),
		newConfigRemoveRemoteCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the current configuration settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	}

	return cmd
}

// Number of arguments expected by the set command.
const setCommandArgs = 2

func newConfigSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration key to a specific value",
		Args:  cobra.ExactArgs(setCommandArgs),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Get a configuration value",
		Long:  "Get the value of a specific configuration key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file",
		Long:  "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInit(force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")

	return cmd
}

func newConfigAddRemoteCmd() *cobra.Command {
	var namespace string

	cmd := &cobra.Command{
		Use:   "add-remote NAME URL",
		Short: "Add a remote",
		Long:  "Append a remote to the configuration. Remotes added later have lower priority.",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigAddRemote(args[0], args[1], namespace)
		},
	}

	cmd.Flags().StringVar(&namespace, "namespace", "", "Ref namespace package branches live under (default \"packages/\")")

	return cmd
}

func newConfigRemoveRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-remote NAME",
		Short: "Remove a remote",
		Long:  "Remove a remote from the configuration. Its tracked packages are kept until untracked.",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runConfigRemoveRemote(args[0])
		},
	}

	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	tabWriter := newTabWriter(out)
	_, _ = fmt.Fprintln(tabWriter, "SETTING\tVALUE")
	_, _ = fmt.Fprintln(tabWriter, "-------\t-----")

	// Keys are sorted so that the output is stable
	settingsMap := cfg.ToMap()
	for _, key := range cfg.Keys() {
		_, _ = fmt.Fprintf(tabWriter, "%s\t%s\n", key, settingsMap[key])
	}
	_ = tabWriter.Flush()

	_, _ = fmt.Fprintf(out, "\nRemotes (%d):\n", len(cfg.Remotes))
	for i, r := range cfg.Remotes {
		namespace := r.Namespace
		if namespace == "" {
			namespace = model.DefaultNamespace
		}
		_, _ = fmt.Fprintf(out, "  %d. %s: %s (%s)\n", i+1, r.Name, r.URL, namespace)
	}

	return nil
}

func runConfigSet(key, value string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}

	if err := cfg.SetValue(key, value); err != nil {
		return fmt.Errorf("failed to set configuration value: %w", err)
	}

	configPath := getConfigPath()
	if err := cfg.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Configuration updated", logger.Fields{"key": key, "value": value})
	return nil
}

func runConfigGet(cmd *cobra.Command, key string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	value, err := cfg.GetValue(key)
	if err != nil {
		return fmt.Errorf("failed to get configuration value: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), value)
	return nil
}

func runConfigInit(force bool) error {
	configPath := getConfigPath()

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%w at %s (use --force to overwrite)", errors.ErrConfigFileExists, configPath)
	}

	defaultConfig := config.DefaultConfig()
	if err := defaultConfig.SaveConfig(configPath); err != nil {
		return fmt.Errorf("failed to save default configuration: %w", err)
	}

	logger.Success("Configuration file created", logger.Fields{"path": configPath})
	return nil
}

func runConfigAddRemote(name, url, namespace string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}
	if err := cfg.AddRemote(name, url, namespace); err != nil {
		return err
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Remote added", logger.Fields{"remote": name, "url": url})
	return nil
}

func runConfigRemoveRemote(name string) error {
	cfg, err := loadConfigFile()
	if err != nil {
		return err
	}
	if !cfg.RemoveRemote(name) {
		return errors.ErrRemoteNotFoundWithName(name)
	}
	if err := cfg.SaveConfig(getConfigPath()); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	logger.Success("Remote removed", logger.Fields{"remote": name})
	return nil
}
