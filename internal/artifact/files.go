// Package artifact loads the classifier, label mapping, and known-symptom
// list from disk.
package artifact

import (
	"fmt"
	"os"

	"github.com/hejijunhao/diagnose/internal/engine/classifier"
	"github.com/hejijunhao/diagnose/internal/engine/features"
	"github.com/hejijunhao/diagnose/internal/engine/labels"
	"github.com/hejijunhao/diagnose/internal/model"
)

// Files locates the three artifacts on disk. It implements driver.Source.
type Files struct {
	ModelPath    string
	LabelsPath   string
	SymptomsPath string
	RuntimePath  string // ONNX Runtime shared library; empty = next to the model
	Normalize    bool   // NFC-normalize symptom names before matching
}

// Predictor loads the ONNX classifier.
func (f Files) Predictor() (classifier.Predictor, error) {
	// Check the model file first so a missing artifact is reported as such
	// rather than as a runtime initialization failure.
	if _, err := os.Stat(f.ModelPath); err != nil {
		return nil, model.ArtifactLoadError("model", err)
	}
	c, err := classifier.NewONNX(f.ModelPath, f.RuntimePath)
	if err != nil {
		return nil, model.ArtifactLoadError("model", fmt.Errorf("%s: %w", f.ModelPath, err))
	}
	return c, nil
}

// Labels loads the label mapping.
func (f Files) Labels() (*labels.Mapping, error) {
	m, err := labels.Load(f.LabelsPath)
	if err != nil {
		return nil, model.ArtifactLoadError("labels", err)
	}
	return m, nil
}

// Vocabulary loads the known-symptom list.
func (f Files) Vocabulary() (*features.Vocabulary, error) {
	var opts []features.Option
	if f.Normalize {
		opts = append(opts, features.WithNormalizer(features.NFC))
	}
	v, err := features.LoadVocabulary(f.SymptomsPath, opts...)
	if err != nil {
		return nil, model.ArtifactLoadError("symptoms", err)
	}
	return v, nil
}
