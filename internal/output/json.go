package output

import (
	"encoding/json"
	"io"

	"github.com/nbtest/nbtest/internal/executor"
)

// JSONFormatter formats output as JSON
type JSONFormatter struct {
	options *Options
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(opts *Options) *JSONFormatter {
	if opts == nil {
		opts = &Options{}
	}
	return &JSONFormatter{
		options: opts,
	}
}

// Format outputs a single data item as JSON
func (f *JSONFormatter) Format(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// FormatSummary outputs the run summary as JSON
func (f *JSONFormatter) FormatSummary(w io.Writer, summary executor.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summaryDocument(summary))
}

// summaryDocument converts a summary into a marshal-friendly structure
// shared by the JSON and YAML formatters.
func summaryDocument(summary executor.Summary) map[string]interface{} {
	notebooks := make([]map[string]interface{}, len(summary.Results))

	for i, r := range summary.Results {
		item := map[string]interface{}{
			"path":     r.Path,
			"duration": r.Duration.String(),
		}

		if r.Err != nil {
			item["status"] = "failed"
			item["error"] = r.Err.Error()
		} else {
			item["status"] = "passed"
		}

		notebooks[i] = item
	}

	return map[string]interface{}{
		"total":        summary.Total,
		"passed":       summary.Passed,
		"failed":       summary.Failed,
		"success_rate": summary.SuccessRate,
		"wall_time":    summary.WallTime.String(),
		"notebooks":    notebooks,
	}
}
