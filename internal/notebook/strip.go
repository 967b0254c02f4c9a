package notebook

import (
	"encoding/json"
)

var (
	emptyOutputs = json.RawMessage("[]")
	nullCount    = json.RawMessage("null")
)

// Strip clears outputs and execution counts of all code cells in place.
// Markdown and raw cells, cell metadata, and document metadata are untouched.
// Returns true if any cell was modified.
func Strip(doc *Document) bool {
	changed := false

	for _, cell := range doc.Cells {
		if !cell.IsCode() {
			continue
		}

		if cell.HasOutputs() {
			cell["outputs"] = emptyOutputs
			changed = true
		}

		if cell.HasExecutionCount() {
			cell["execution_count"] = nullCount
			changed = true
		}
	}

	return changed
}

// StripFile strips a notebook file in place. The file is rewritten only when
// stripping actually changed a cell, so an already-stripped notebook is left
// byte-identical. Returns true if the file was rewritten.
func StripFile(path string) (bool, error) {
	doc, err := Read(path)
	if err != nil {
		return false, err
	}

	if !Strip(doc) {
		return false, nil
	}

	if err := Write(path, doc); err != nil {
		return false, err
	}
	return true, nil
}
