package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all diagnose configuration.
type Config struct {
	Artifacts ArtifactConfig
	Output    OutputConfig
	Server    ServerConfig
	LogLevel  string // "debug", "info", "warn", "error"
}

// ArtifactConfig locates the model, label mapping, and known-symptom list.
type ArtifactConfig struct {
	ModelPath    string
	LabelsPath   string
	SymptomsPath string
	RuntimePath  string // ONNX Runtime shared library; empty = next to the model
	Normalize    bool
}

// OutputConfig holds single-shot output settings.
type OutputConfig struct {
	Pretty   bool
	ExitCode bool // exit non-zero when the result is a failure
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
// Artifact paths default to the working directory.
func Load() Config {
	return Config{
		Artifacts: ArtifactConfig{
			ModelPath:    getenv("DIAGNOSE_MODEL_PATH", "train1_model_v2.onnx"),
			LabelsPath:   getenv("DIAGNOSE_LABELS_PATH", "label_train_v2.json"),
			SymptomsPath: getenv("DIAGNOSE_SYMPTOMS_PATH", "selected_gejala_v2.json"),
			RuntimePath:  os.Getenv("DIAGNOSE_ORT_LIB"),
			Normalize:    getenvBool("DIAGNOSE_NORMALIZE", false),
		},
		Output: OutputConfig{
			Pretty:   getenvBool("DIAGNOSE_PRETTY", false),
			ExitCode: getenvBool("DIAGNOSE_EXIT_CODE", false),
		},
		Server: ServerConfig{
			Port:            getenv("PORT", "3000"),
			ReadTimeout:     getenvDuration("DIAGNOSE_READ_TIMEOUT", 15*time.Second),
			ShutdownTimeout: getenvDuration("DIAGNOSE_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		LogLevel: getenv("DIAGNOSE_LOG_LEVEL", "warn"),
	}
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "warning": true, "error": true,
}

// Validate checks the configuration for the long-running service, where a
// bad setting should stop startup. All problems are reported together.
func (c Config) Validate() error {
	var errs []error

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Errorf("log level %q must be one of debug, info, warn, error", c.LogLevel))
	}
	if p, err := strconv.Atoi(c.Server.Port); err != nil || p < 1 || p > 65535 {
		errs = append(errs, fmt.Errorf("port %q must be a number in 1-65535", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, fmt.Errorf("read timeout must be positive, got %v", c.Server.ReadTimeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %v", c.Server.ShutdownTimeout))
	}

	files := []struct{ name, path string }{
		{"model", c.Artifacts.ModelPath},
		{"labels", c.Artifacts.LabelsPath},
		{"symptoms", c.Artifacts.SymptomsPath},
	}
	for _, f := range files {
		if _, err := os.Stat(f.path); err != nil {
			errs = append(errs, fmt.Errorf("%s file: %w", f.name, err))
		}
	}

	return errors.Join(errs...)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
