package diagnose

import "path/filepath"

type options struct {
	artifactDir  string
	modelPath    string
	labelsPath   string
	symptomsPath string
	runtimePath  string
	normalize    bool
}

// Option configures a Diagnoser.
type Option func(*options)

// WithArtifactDir sets the directory containing the artifacts.
// Expects: train1_model_v2.onnx, label_train_v2.json, selected_gejala_v2.json.
func WithArtifactDir(dir string) Option {
	return func(o *options) {
		o.artifactDir = dir
	}
}

// WithArtifactPaths sets explicit paths for each artifact.
// Use this when the files aren't in the default directory layout.
func WithArtifactPaths(model, labels, symptoms string) Option {
	return func(o *options) {
		o.modelPath = model
		o.labelsPath = labels
		o.symptomsPath = symptoms
	}
}

// WithRuntimeLibrary sets the ONNX Runtime shared library path.
// Default: libonnxruntime.so next to the model file.
func WithRuntimeLibrary(path string) Option {
	return func(o *options) {
		o.runtimePath = path
	}
}

// WithNormalization enables Unicode NFC normalization and whitespace
// trimming of symptom names before matching. Default: exact matching.
func WithNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// resolvePaths determines the artifact paths from the configured options.
// Explicit paths take precedence over artifactDir.
func resolvePaths(o options) (model, labels, symptoms string) {
	if o.modelPath != "" {
		return o.modelPath, o.labelsPath, o.symptomsPath
	}
	dir := o.artifactDir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, "train1_model_v2.onnx"),
		filepath.Join(dir, "label_train_v2.json"),
		filepath.Join(dir, "selected_gejala_v2.json")
}
