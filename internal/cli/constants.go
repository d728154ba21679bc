package cli

// Default values for CLI flags and formatted output.
const (
	// TabWidth is the width of tabs in formatted output.
	TabWidth = 2
	// DefaultExportDest is where export writes when --dest is not given.
	DefaultExportDest = "."
)
