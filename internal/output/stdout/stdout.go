// Package stdout writes diagnosis results as single-line JSON documents.
package stdout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/hejijunhao/diagnose/internal/model"
)

// Output writes JSON-encoded results, one document per line.
type Output struct {
	enc *json.Encoder
}

// New creates an Output writing to w (os.Stdout when nil), with optional
// pretty-printed JSON. Labels are written verbatim, without HTML escaping.
func New(w io.Writer, pretty bool) *Output {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return &Output{enc: enc}
}

// Write encodes res followed by a newline.
func (o *Output) Write(res model.Result) error {
	if err := o.enc.Encode(res); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

// WriteValue encodes an arbitrary JSON value, e.g. the symptom listing.
func (o *Output) WriteValue(v any) error {
	if err := o.enc.Encode(v); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}
