// Package classifier wraps the pre-trained diagnosis model behind a
// predict(rows) → class indices capability.
package classifier

import "fmt"

// Predictor maps feature rows to class indices, one per row.
type Predictor interface {
	Predict(rows [][]float32) ([]int64, error)
	Close() error
}

// checkRows verifies that rows is non-empty and rectangular, and that its
// width matches want when want > 0. Returns the row width.
func checkRows(rows [][]float32, want int64) (int64, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("no input rows")
	}
	width := int64(len(rows[0]))
	for i, r := range rows {
		if int64(len(r)) != width {
			return 0, fmt.Errorf("row %d has %d features, row 0 has %d", i, len(r), width)
		}
	}
	if want > 0 && width != want {
		return 0, fmt.Errorf("feature count mismatch: model expects %d, got %d", want, width)
	}
	return width, nil
}
