package cache

import (
	"fmt"
	"strings"
	"time"
)

// FormatInfo renders cache information for humans.
func FormatInfo(info *Info, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cache Information:\n  Directory:  %s\n  Total Size: %s\n", info.Directory, formatBytes(info.TotalSize))
	for _, e := range info.Entries {
		if !e.Present {
			fmt.Fprintf(&b, "  %-12s not cached\n", e.Remote)
			continue
		}
		state := "fresh"
		if e.Stale {
			state = "stale"
		}
		fmt.Fprintf(&b, "  %-12s %d packages, %s, updated %s ago (%s)\n",
			e.Remote, e.Packages, formatBytes(e.Size), now.Sub(e.Updated).Round(time.Second), state)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatCleanResult renders a CleanResult for humans.
func FormatCleanResult(result *CleanResult) string {
	if result.FilesRemoved == 0 {
		return "No files were removed from the cache."
	}
	return fmt.Sprintf("Removed %d cache entries, freed %s.", result.FilesRemoved, formatBytes(result.TotalFreed))
}

// formatBytes converts bytes to a human-readable string.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	units := []string{"K", "M", "G", "T", "P", "E"}
	if exp < len(units) {
		return fmt.Sprintf("%.1f %sB", float64(bytes)/float64(div), units[exp])
	}
	return fmt.Sprintf("%d B", bytes)
}
