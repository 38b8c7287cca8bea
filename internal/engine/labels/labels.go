// Package labels maps classifier output indices to diagnosis labels.
package labels

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hejijunhao/diagnose/internal/schema"
)

// Mapping is an index → label lookup. Read-only after construction.
type Mapping struct {
	byIndex map[int64]string
}

// New builds a Mapping where labels[i] is the label for class i.
func New(labels []string) *Mapping {
	m := &Mapping{byIndex: make(map[int64]string, len(labels))}
	for i, l := range labels {
		m.byIndex[int64(i)] = l
	}
	return m
}

// Load reads a label mapping file. Files ending in .txt hold one label per
// line, the line number being the class index. Anything else must be JSON:
// either an array of labels or an object keyed by decimal class index.
func Load(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}

	var m *Mapping
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		m, err = parseText(data)
	} else {
		m, err = parseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("labels: %s: %w", path, err)
	}
	if m.Len() == 0 {
		return nil, fmt.Errorf("labels: file is empty: %s", path)
	}
	return m, nil
}

func parseText(data []byte) (*Mapping, error) {
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}
	return New(lines), nil
}

func parseJSON(data []byte) (*Mapping, error) {
	if err := schema.Validate(schema.LabelMapping, data); err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []string
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, err
		}
		return New(list), nil
	}

	var obj map[string]string
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	m := &Mapping{byIndex: make(map[int64]string, len(obj))}
	for k, v := range obj {
		idx, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid class index %q: %w", k, err)
		}
		m.byIndex[idx] = v
	}
	return m, nil
}

// Lookup returns the label for class idx.
func (m *Mapping) Lookup(idx int64) (string, error) {
	label, ok := m.byIndex[idx]
	if !ok {
		return "", fmt.Errorf("labels: class index %d out of range (%d labels)", idx, len(m.byIndex))
	}
	return label, nil
}

// Len returns the number of labelled classes.
func (m *Mapping) Len() int {
	return len(m.byIndex)
}
