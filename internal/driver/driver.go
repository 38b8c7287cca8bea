// Package driver runs one single-shot diagnosis: load artifacts, parse the
// symptom argument, predict, and fold every outcome into a model.Result.
package driver

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/hejijunhao/diagnose/internal/engine"
	"github.com/hejijunhao/diagnose/internal/engine/classifier"
	"github.com/hejijunhao/diagnose/internal/engine/features"
	"github.com/hejijunhao/diagnose/internal/engine/labels"
	"github.com/hejijunhao/diagnose/internal/model"
	"github.com/hejijunhao/diagnose/internal/schema"
)

// Source provides the three inference artifacts. Implementations return
// errors already tagged with model.KindArtifactLoad.
type Source interface {
	Predictor() (classifier.Predictor, error)
	Labels() (*labels.Mapping, error)
	Vocabulary() (*features.Vocabulary, error)
}

// Run performs one diagnosis for the process arguments args (program name
// excluded). It never panics and never returns an error: every failure is
// reported through the returned Result.
func Run(src Source, args []string) (res model.Result) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("diagnosis panicked", "panic", r)
			res = model.Failure(model.PredictionError(fmt.Errorf("panic: %v", r)))
		}
	}()

	label, err := run(src, args)
	if err != nil {
		slog.Warn("diagnosis failed", "kind", model.KindOf(err).String(), "err", err)
		return model.Failure(err)
	}
	return model.Success(label)
}

func run(src Source, args []string) (string, error) {
	predictor, err := src.Predictor()
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := predictor.Close(); cerr != nil {
			slog.Warn("failed to close classifier", "err", cerr)
		}
	}()

	symptoms, err := ParseArgs(args)
	if err != nil {
		return "", err
	}

	lbls, err := src.Labels()
	if err != nil {
		return "", err
	}

	vocab, err := src.Vocabulary()
	if err != nil {
		return "", err
	}

	slog.Debug("encoded symptoms",
		"input", len(symptoms),
		"recognized", vocab.Recognized(symptoms),
		"features", vocab.Size())

	return engine.New(vocab, lbls, predictor).Diagnose(symptoms)
}

// ParseArgs decodes the first argument as a JSON array of symptom names.
// Arguments after the first are ignored.
func ParseArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, model.InvalidInputError(errors.New("missing symptom argument: expected a JSON array of strings"))
	}
	if len(args) > 1 {
		slog.Debug("ignoring extra arguments", "count", len(args)-1)
	}
	symptoms, err := schema.DecodeSymptoms([]byte(args[0]))
	if err != nil {
		return nil, model.InvalidInputError(err)
	}
	return symptoms, nil
}
