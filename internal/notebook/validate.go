package notebook

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/nbtest/nbtest/internal/util"
	schemafs "github.com/nbtest/nbtest/schema"
)

var (
	nbformatSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
)

// compileSchema compiles the embedded nbformat schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()

		data, err := schemafs.FS.ReadFile("nbformat.v4.schema.json")
		if err != nil {
			compileErr = fmt.Errorf("read nbformat schema: %w", err)
			return
		}

		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal nbformat schema: %w", err)
			return
		}

		if err := compiler.AddResource("nbformat.v4.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("add nbformat schema resource: %w", err)
			return
		}

		nbformatSchema, compileErr = compiler.Compile("nbformat.v4.schema.json")
	})

	return compileErr
}

// Validate checks JSON data against the nbformat v4 schema.
// Schema violations are reported as errors wrapping util.ErrMalformed.
func Validate(data []byte) error {
	if err := compileSchema(); err != nil {
		return err
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", util.ErrMalformed, err)
	}

	if err := nbformatSchema.Validate(v); err != nil {
		return fmt.Errorf("%w: %v", util.ErrMalformed, err)
	}

	return nil
}

// ValidateFile validates a notebook file against the nbformat v4 schema.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read notebook: %w", err)
	}
	return util.WrapNotebookError(path, Validate(data))
}
