package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X github.com/glorpus-work/pkgtrack/internal/cli.Version=...".
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// BuildTimestamp parses BuildDate as RFC 3339. Package lists cached before
// it are refreshed. Development builds without a date return the zero time.
func BuildTimestamp() time.Time {
	t, err := time.Parse(time.RFC3339, BuildDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version information for pkgtrack",
		Args:  cobra.NoArgs,
		Run:   runVersion,
	}

	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "pkgtrack version %s\n", Version)
	fmt.Fprintf(out, "Build date: %s\n", BuildDate)
	fmt.Fprintf(out, "Git commit: %s\n", GitCommit)
}
