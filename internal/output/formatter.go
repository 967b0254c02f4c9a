package output

import (
	"io"

	"github.com/nbtest/nbtest/internal/executor"
)

// Format represents the output format type
type Format string

const (
	// FormatText outputs PASS/FAIL lines plus a summary (the default)
	FormatText Format = "text"
	// FormatTable outputs results in a table format
	FormatTable Format = "table"
	// FormatJSON outputs results in JSON format
	FormatJSON Format = "json"
	// FormatYAML outputs results in YAML format
	FormatYAML Format = "yaml"
)

// Formatter defines the interface for rendering a run summary
type Formatter interface {
	// Format outputs a single data item to the writer
	Format(w io.Writer, data interface{}) error

	// FormatSummary outputs the full run summary to the writer
	FormatSummary(w io.Writer, summary executor.Summary) error
}

// Option is a functional option for configuring formatters
type Option func(*Options)

// Options holds configuration for formatters
type Options struct {
	// NoColor disables color output
	NoColor bool

	// NoHeaders disables table headers
	NoHeaders bool

	// Benchmark includes timing statistics in the rendered summary
	Benchmark bool
}

// WithNoColor disables color output
func WithNoColor(noColor bool) Option {
	return func(o *Options) {
		o.NoColor = noColor
	}
}

// WithNoHeaders disables table headers
func WithNoHeaders(noHeaders bool) Option {
	return func(o *Options) {
		o.NoHeaders = noHeaders
	}
}

// WithBenchmark includes timing statistics in the output
func WithBenchmark(benchmark bool) Option {
	return func(o *Options) {
		o.Benchmark = benchmark
	}
}

// NewFormatter creates a new formatter based on the specified format
func NewFormatter(format Format, opts ...Option) Formatter {
	options := &Options{}
	for _, opt := range opts {
		opt(options)
	}

	switch format {
	case FormatJSON:
		return NewJSONFormatter(options)
	case FormatYAML:
		return NewYAMLFormatter(options)
	case FormatTable:
		return NewTableFormatter(options)
	case FormatText:
		fallthrough
	default:
		return NewTextFormatter(options)
	}
}
