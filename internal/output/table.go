package output

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/nbtest/nbtest/internal/executor"
	"github.com/nbtest/nbtest/internal/util"
)

// TableFormatter formats results as a table
type TableFormatter struct {
	options *Options
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(opts *Options) *TableFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &TableFormatter{
		options: opts,
	}
}

// Format outputs a single data item as a table
func (f *TableFormatter) Format(w io.Writer, data interface{}) error {
	table := f.createTable(w)

	switch v := data.(type) {
	case map[string]interface{}:
		for key, value := range v {
			table.Append([]string{key, fmt.Sprintf("%v", value)})
		}
		table.Render()
		return nil
	default:
		_, err := fmt.Fprintln(w, v)
		return err
	}
}

// FormatSummary outputs one table row per notebook plus the summary line
func (f *TableFormatter) FormatSummary(w io.Writer, summary executor.Summary) error {
	if summary.Total == 0 {
		fmt.Fprintln(w, "No results")
		return nil
	}

	colors := NewColorScheme(w, f.options.NoColor)

	table := f.createTable(w)

	headers := []string{"NOTEBOOK", "STATUS", "DURATION", "ERROR"}
	if !f.options.NoHeaders {
		if colors.Disabled {
			table.SetHeader(headers)
		} else {
			coloredHeaders := make([]string, len(headers))
			for i, h := range headers {
				coloredHeaders[i] = colors.Header(h)
			}
			table.SetHeader(coloredHeaders)
		}
	}

	for _, r := range summary.Results {
		table.Append(f.resultRow(r, colors))
	}

	table.Render()

	fmt.Fprintln(w)
	if f.options.Benchmark {
		fmt.Fprintln(w, summary.BenchmarkString())
	} else {
		fmt.Fprintln(w, summary.String())
	}

	return nil
}

// resultRow formats a single result as a table row
func (f *TableFormatter) resultRow(r executor.Result, colors *ColorScheme) []string {
	status := "PASS"
	errMsg := ""
	if !r.Success() {
		status = "FAIL"
		errMsg = r.Err.Error()
	}

	if !colors.Disabled {
		status = colors.StatusColor(!r.Success())(status)
	}

	return []string{
		util.DisplayPath(r.Path),
		status,
		r.Duration.Round(10 * time.Millisecond).String(),
		errMsg,
	}
}

// createTable creates a borderless table with left-aligned columns
func (f *TableFormatter) createTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)

	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("   ")
	table.SetNoWhiteSpace(true)

	return table
}
