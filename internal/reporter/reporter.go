// Package reporter renders extraction results.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/tinovyatkin/earthscan/internal/dependency"
)

// FileResult holds the dependencies extracted from one file.
type FileResult struct {
	// File is the path the content was read from.
	File string `json:"file"`
	// Deps is nil when the file references no images.
	Deps []dependency.Descriptor `json:"deps"`
	// Source is the raw file content, used for snippets.
	Source []byte `json:"-"`
}

// Options tunes the text output.
type Options struct {
	// ShowSkipped includes skipped references in text output.
	ShowSkipped bool
	// Color enables terminal styling.
	Color bool
}

// Write renders results in the given format ("json" or "text").
func Write(w io.Writer, format string, results []FileResult, opts Options) error {
	switch format {
	case "json":
		return PrintJSON(w, results)
	case "text":
		return PrintText(w, results, opts)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// PrintJSON writes results as an indented JSON array.
func PrintJSON(w io.Writer, results []FileResult) error {
	if results == nil {
		results = []FileResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
