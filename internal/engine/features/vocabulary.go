// Package features turns a set of selected symptom names into the binary
// feature vector the classifier consumes.
package features

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hejijunhao/diagnose/internal/schema"
)

// Normalizer maps a symptom name to the form used for matching.
type Normalizer func(string) string

// NFC normalizes to Unicode NFC and trims surrounding whitespace.
func NFC(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Option configures a Vocabulary.
type Option func(*Vocabulary)

// WithNormalizer applies fn to both vocabulary entries and input symptoms
// before matching. The default is exact matching.
func WithNormalizer(fn Normalizer) Option {
	return func(v *Vocabulary) { v.normalize = fn }
}

// Vocabulary is the ordered known-symptom list. Position in the list is
// the feature index.
type Vocabulary struct {
	names     []string
	index     map[string]int
	normalize Normalizer
}

// NewVocabulary builds a Vocabulary from an ordered list of names. When a
// name appears more than once, the first position wins.
func NewVocabulary(names []string, opts ...Option) *Vocabulary {
	v := &Vocabulary{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for _, opt := range opts {
		opt(v)
	}
	for i, name := range v.names {
		key := v.key(name)
		if _, seen := v.index[key]; !seen {
			v.index[key] = i
		}
	}
	return v
}

// LoadVocabulary reads a JSON array of symptom names from path.
func LoadVocabulary(path string, opts ...Option) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %w", err)
	}
	names, err := schema.DecodeSymptoms(data)
	if err != nil {
		return nil, fmt.Errorf("vocabulary: %s: %w", path, err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("vocabulary: file is empty: %s", path)
	}
	return NewVocabulary(names, opts...), nil
}

// Size returns the feature vector length.
func (v *Vocabulary) Size() int {
	return len(v.names)
}

// Names returns a copy of the ordered symptom list.
func (v *Vocabulary) Names() []string {
	return append([]string(nil), v.names...)
}

// Index returns the feature index of name.
func (v *Vocabulary) Index(name string) (int, bool) {
	i, ok := v.index[v.key(name)]
	return i, ok
}

// Encode returns a vector of length Size with 1 at the index of every
// recognized symptom and 0 elsewhere. Unknown names are ignored.
func (v *Vocabulary) Encode(symptoms []string) []float32 {
	vec := make([]float32, len(v.names))
	for _, s := range symptoms {
		if i, ok := v.Index(s); ok {
			vec[i] = 1
		}
	}
	return vec
}

// Recognized counts the distinct feature positions symptoms would set.
func (v *Vocabulary) Recognized(symptoms []string) int {
	seen := make(map[int]struct{}, len(symptoms))
	for _, s := range symptoms {
		if i, ok := v.Index(s); ok {
			seen[i] = struct{}{}
		}
	}
	return len(seen)
}

func (v *Vocabulary) key(name string) string {
	if v.normalize == nil {
		return name
	}
	return v.normalize(name)
}
