// Package output provides formatters for displaying notebook run results.
//
// The package supports multiple output formats (text, table, JSON, YAML) and
// provides a unified interface for rendering run summaries. The text format
// is the default: one PASS/FAIL line per notebook followed by a summary line.
//
// # Basic Usage
//
//	formatter := output.NewFormatter(output.FormatText)
//	formatter.FormatSummary(os.Stdout, summary)
//
// # Options
//
// Formatters can be configured with functional options:
//
//	formatter := output.NewFormatter(
//	    output.FormatTable,
//	    output.WithNoColor(true),
//	    output.WithBenchmark(true),
//	)
//
// # Progress Lines
//
// During a run, per-notebook lines are rendered as results arrive via
// ResultLine, so a slow notebook doesn't hold back the report for ones that
// have already finished:
//
//	colors := output.NewColorScheme(os.Stdout, noColor)
//	fmt.Println(output.ResultLine(result, colors))
//
// Colors are enabled only on TTYs and can be disabled explicitly.
package output
