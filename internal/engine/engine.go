package engine

import (
	"fmt"

	"github.com/hejijunhao/diagnose/internal/engine/classifier"
	"github.com/hejijunhao/diagnose/internal/engine/features"
	"github.com/hejijunhao/diagnose/internal/engine/labels"
	"github.com/hejijunhao/diagnose/internal/model"
)

// Engine orchestrates the encode → predict → label pipeline.
type Engine struct {
	vocab     *features.Vocabulary
	labels    *labels.Mapping
	predictor classifier.Predictor
}

// New creates an Engine with the provided components.
func New(vocab *features.Vocabulary, lbls *labels.Mapping, predictor classifier.Predictor) *Engine {
	return &Engine{
		vocab:     vocab,
		labels:    lbls,
		predictor: predictor,
	}
}

// Diagnose predicts the diagnosis label for a set of selected symptoms.
// Unknown symptoms are ignored. Errors are *model.Error of kind
// KindPrediction.
func (e *Engine) Diagnose(symptoms []string) (string, error) {
	vec := e.vocab.Encode(symptoms)

	classes, err := e.predictor.Predict([][]float32{vec})
	if err != nil {
		return "", model.PredictionError(err)
	}
	if len(classes) == 0 {
		return "", model.PredictionError(fmt.Errorf("classifier returned no prediction"))
	}

	label, err := e.labels.Lookup(classes[0])
	if err != nil {
		return "", model.PredictionError(err)
	}
	return label, nil
}

// Symptoms returns the known-symptom list in feature order.
func (e *Engine) Symptoms() []string {
	return e.vocab.Names()
}
