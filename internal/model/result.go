package model

import (
	"bytes"
	"encoding/json"
)

// Result is the outcome of one inference run. Exactly one of Prediction
// or Err is meaningful, selected by Success.
type Result struct {
	Success    bool
	Prediction string
	Err        error
}

// Success returns a successful Result carrying the predicted label.
func Success(label string) Result {
	return Result{Success: true, Prediction: label}
}

// Failure returns a failed Result carrying err.
func Failure(err error) Result {
	return Result{Err: err}
}

// Kind reports the error kind of a failed Result, or 0 on success.
func (r Result) Kind() ErrorKind {
	if r.Success {
		return 0
	}
	return KindOf(r.Err)
}

// MarshalJSON emits {"success":true,"prediction":...} or
// {"success":false,"error":...}.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Success {
		return marshalVerbatim(struct {
			Success    bool   `json:"success"`
			Prediction string `json:"prediction"`
		}{true, r.Prediction})
	}
	msg := "unknown error"
	if r.Err != nil {
		msg = r.Err.Error()
	}
	return marshalVerbatim(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, msg})
}

// marshalVerbatim encodes v without HTML escaping. The output of MarshalJSON
// is still re-escaped by json.Marshal and by any Encoder that keeps
// SetEscapeHTML(true), so labels such as "A & B" reach the wire unchanged
// only through an Encoder with SetEscapeHTML(false), as output/stdout uses.
func marshalVerbatim(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
