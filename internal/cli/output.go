package cli

import (
	"encoding/json"
	"io"
	"text/tabwriter"

	"github.com/glorpus-work/pkgtrack/internal/logger"
	"github.com/glorpus-work/pkgtrack/pkg/errors"
)

type failure struct {
	Package string `json:"package"`
	Error   string `json:"error"`
}

func failures(in []*errors.PackageError) []failure {
	out := make([]failure, 0, len(in))
	for _, f := range in {
		out = append(out, failure{Package: f.Package, Error: f.Err.Error()})
	}
	return out
}

// printResult writes v as indented JSON when the output format is json, and
// calls text otherwise.
func printResult(w io.Writer, format string, v any, text func(io.Writer)) error {
	if logger.OutputFormat(format) == logger.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(w)
	return nil
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, TabWidth, ' ', 0)
}
