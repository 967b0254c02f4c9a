package output

import (
	"fmt"
	"io"

	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/util"
)

// TextFormatter renders PASS/FAIL lines plus the trailing summary line.
// This is the default run output.
type TextFormatter struct {
	options *Options
}

// NewTextFormatter creates a new text formatter
func NewTextFormatter(opts *Options) *TextFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TextFormatter{
		options: opts,
	}
}

// Format outputs a single data item as plain text
func (f *TextFormatter) Format(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintln(w, data)
	return err
}

// FormatSummary outputs one line per notebook followed by the summary line
func (f *TextFormatter) FormatSummary(w io.Writer, summary executor.Summary) error {
	colors := NewColorScheme(w, f.options.NoColor)

	for _, r := range summary.Results {
		fmt.Fprintln(w, ResultLine(r, colors))
	}

	fmt.Fprintln(w)
	if f.options.Benchmark {
		fmt.Fprintln(w, summary.BenchmarkString())
	} else {
		fmt.Fprintln(w, summary.String())
	}

	return nil
}

// ResultLine renders one notebook outcome as a report line:
//
//	PASS notebooks/a.ipynb (1.24s)
//	FAIL notebooks/b.ipynb: cell execution failed: ... (0.80s)
func ResultLine(r executor.Result, colors *ColorScheme) string {
	elapsed := fmt.Sprintf("(%.2fs)", r.Duration.Seconds())

	if r.Success() {
		return fmt.Sprintf("%s %s %s",
			colors.Success("PASS"),
			util.DisplayPath(r.Path),
			colors.Duration("%s", elapsed))
	}

	return fmt.Sprintf("%s %s: %s %s",
		colors.Error("FAIL"),
		util.DisplayPath(r.Path),
		r.Err.Error(),
		colors.Duration("%s", elapsed))
}
