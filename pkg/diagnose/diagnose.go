package diagnose

import (
	"fmt"

	"github.com/hejijunhao/diagnose/internal/artifact"
	"github.com/hejijunhao/diagnose/internal/driver"
	"github.com/hejijunhao/diagnose/internal/engine"
	"github.com/hejijunhao/diagnose/internal/engine/classifier"
)

// Diagnoser predicts diagnosis labels from symptom sets.
// Safe for concurrent use.
type Diagnoser struct {
	engine    *engine.Engine
	predictor classifier.Predictor
}

// New creates a Diagnoser, loading the classifier, label mapping, and
// known-symptom list. Create once, reuse across requests.
func New(opts ...Option) (*Diagnoser, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	model, labels, symptoms := resolvePaths(o)
	return NewFromSource(artifact.Files{
		ModelPath:    model,
		LabelsPath:   labels,
		SymptomsPath: symptoms,
		RuntimePath:  o.runtimePath,
		Normalize:    o.normalize,
	})
}

// NewFromSource creates a Diagnoser from an arbitrary artifact source.
func NewFromSource(src driver.Source) (*Diagnoser, error) {
	pred, err := src.Predictor()
	if err != nil {
		return nil, fmt.Errorf("diagnose: %w", err)
	}

	lbls, err := src.Labels()
	if err != nil {
		pred.Close()
		return nil, fmt.Errorf("diagnose: %w", err)
	}

	vocab, err := src.Vocabulary()
	if err != nil {
		pred.Close()
		return nil, fmt.Errorf("diagnose: %w", err)
	}

	return &Diagnoser{engine: engine.New(vocab, lbls, pred), predictor: pred}, nil
}

// Diagnose returns the predicted label for the selected symptoms.
// Symptoms not in the known-symptom list are ignored.
func (d *Diagnoser) Diagnose(symptoms []string) (string, error) {
	return d.engine.Diagnose(symptoms)
}

// Symptoms returns the known-symptom list in feature order.
func (d *Diagnoser) Symptoms() []string {
	return d.engine.Symptoms()
}

// Close releases model resources (ONNX runtime session).
func (d *Diagnoser) Close() error {
	return d.predictor.Close()
}
