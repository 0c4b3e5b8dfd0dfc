package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/maxvaer/headfuzz/internal/scanner"
)

type jsonEntry struct {
	URL    string `json:"url"`
	Header string `json:"header"`
	Value  string `json:"value"`
	Word   string `json:"word"`
	Status int    `json:"status"`
}

// JSONWriter writes results as a JSON array.
type JSONWriter struct {
	w       io.Writer
	closer  io.Closer
	entries []jsonEntry
}

// NewJSONWriter creates a JSON output writer.
func NewJSONWriter(outputFile string) (*JSONWriter, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return nil, err
		}
		w = f
		closer = f
	}
	return &JSONWriter{w: w, closer: closer}, nil
}

func (j *JSONWriter) WriteHeader() error { return nil }

func (j *JSONWriter) WriteResult(result *scanner.Result) error {
	j.entries = append(j.entries, jsonEntry{
		URL:    result.URL,
		Header: result.HeaderName,
		Value:  result.HeaderValue,
		Word:   result.Word,
		Status: result.StatusCode,
	})
	return nil
}

func (j *JSONWriter) WriteFooter(stats Stats) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(j.entries)
}

func (j *JSONWriter) Close() error {
	if j.closer != nil {
		return j.closer.Close()
	}
	return nil
}
