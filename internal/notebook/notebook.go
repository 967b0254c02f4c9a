// Package notebook implements reading, writing, and transforming Jupyter
// notebook documents (nbformat v4 JSON).
//
// Cells are kept as raw JSON objects so fields this tool does not interpret
// (cell ids, metadata, attachments) survive a read/write round trip untouched.
package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/nbtest/nbtest/internal/util"
)

// Suffix is the file extension of Jupyter notebook documents.
const Suffix = ".ipynb"

// Document is a parsed notebook file.
// Metadata is preserved verbatim; only cells are interpreted.
type Document struct {
	Cells         []Cell          `json:"cells"`
	Metadata      json.RawMessage `json:"metadata"`
	NBFormat      int             `json:"nbformat"`
	NBFormatMinor int             `json:"nbformat_minor"`
}

// Cell is a single notebook cell as a raw JSON object.
// Keeping the raw form means unknown fields round-trip safely.
type Cell map[string]json.RawMessage

// Cell types defined by nbformat v4.
const (
	CellTypeCode     = "code"
	CellTypeMarkdown = "markdown"
	CellTypeRaw      = "raw"
)

// Type returns the cell_type field, or "" if absent or not a string.
func (c Cell) Type() string {
	raw, ok := c["cell_type"]
	if !ok {
		return ""
	}
	var t string
	if err := json.Unmarshal(raw, &t); err != nil {
		return ""
	}
	return t
}

// IsCode reports whether the cell is a code cell.
func (c Cell) IsCode() bool {
	return c.Type() == CellTypeCode
}

// Source returns the cell source as a single string.
// nbformat allows source to be either a string or a list of lines.
func (c Cell) Source() string {
	raw, ok := c["source"]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var lines []string
	if err := json.Unmarshal(raw, &lines); err == nil {
		var buf bytes.Buffer
		for _, line := range lines {
			buf.WriteString(line)
		}
		return buf.String()
	}

	return ""
}

// HasOutputs reports whether the cell carries any execution outputs.
func (c Cell) HasOutputs() bool {
	raw, ok := c["outputs"]
	if !ok {
		return false
	}
	var outputs []json.RawMessage
	if err := json.Unmarshal(raw, &outputs); err != nil {
		return false
	}
	return len(outputs) > 0
}

// HasExecutionCount reports whether the cell has a non-null execution_count.
func (c Cell) HasExecutionCount() bool {
	raw, ok := c["execution_count"]
	if !ok {
		return false
	}
	return !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// CodeCellCount returns the number of code cells in the document.
func (d *Document) CodeCellCount() int {
	count := 0
	for _, cell := range d.Cells {
		if cell.IsCode() {
			count++
		}
	}
	return count
}

// Parse decodes notebook JSON. A document that is not valid JSON or not
// nbformat v4 yields an error wrapping util.ErrMalformed.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrMalformed, err)
	}

	if doc.NBFormat != 4 {
		return nil, fmt.Errorf("%w: unsupported nbformat %d (only v4 is supported)", util.ErrMalformed, doc.NBFormat)
	}

	return &doc, nil
}

// Read loads and parses a notebook file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read notebook: %w", err)
	}
	return Parse(data)
}

// Encode serializes the document the way Jupyter itself writes notebooks:
// one-space indentation and a trailing newline.
func Encode(doc *Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", " ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode notebook: %w", err)
	}
	return append(data, '\n'), nil
}

// Write serializes the document and rewrites the file in place.
func Write(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write notebook: %w", err)
	}
	return nil
}
