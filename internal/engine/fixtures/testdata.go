package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed corpus.json
var corpusJSON []byte

// Corpus is a fixture vocabulary and label set with encoding cases.
type Corpus struct {
	Symptoms []string     `json:"symptoms"`
	Labels   []string     `json:"labels"`
	Cases    []CorpusCase `json:"cases"`
}

// CorpusCase is a symptom selection with its expected feature encoding.
type CorpusCase struct {
	Description        string    `json:"description"`
	Symptoms           []string  `json:"symptoms"`
	ExpectedFeatures   []float32 `json:"expected_features"`
	ExpectedRecognized int       `json:"expected_recognized"`
}

// LoadCorpus parses the embedded corpus.json.
func LoadCorpus() (Corpus, error) {
	var c Corpus
	if err := json.Unmarshal(corpusJSON, &c); err != nil {
		return Corpus{}, fmt.Errorf("parse corpus.json: %w", err)
	}
	return c, nil
}
