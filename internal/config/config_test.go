package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envKeys = []string{
	"DIAGNOSE_MODEL_PATH", "DIAGNOSE_LABELS_PATH", "DIAGNOSE_SYMPTOMS_PATH",
	"DIAGNOSE_ORT_LIB", "DIAGNOSE_NORMALIZE", "DIAGNOSE_PRETTY",
	"DIAGNOSE_EXIT_CODE", "PORT", "DIAGNOSE_READ_TIMEOUT",
	"DIAGNOSE_SHUTDOWN_TIMEOUT", "DIAGNOSE_LOG_LEVEL",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Artifacts.ModelPath != "train1_model_v2.onnx" {
		t.Fatalf("expected default model path, got %q", cfg.Artifacts.ModelPath)
	}
	if cfg.Artifacts.LabelsPath != "label_train_v2.json" {
		t.Fatalf("expected default labels path, got %q", cfg.Artifacts.LabelsPath)
	}
	if cfg.Artifacts.SymptomsPath != "selected_gejala_v2.json" {
		t.Fatalf("expected default symptoms path, got %q", cfg.Artifacts.SymptomsPath)
	}
	if cfg.Artifacts.RuntimePath != "" {
		t.Fatalf("expected empty runtime path, got %q", cfg.Artifacts.RuntimePath)
	}
	if cfg.Artifacts.Normalize {
		t.Fatal("expected default Normalize=false")
	}
	if cfg.Output.Pretty || cfg.Output.ExitCode {
		t.Fatal("expected default Pretty=false and ExitCode=false")
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected default shutdown timeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected default log level warn, got %q", cfg.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSE_MODEL_PATH", "models/tree.onnx")
	t.Setenv("DIAGNOSE_LABELS_PATH", "models/labels.txt")
	t.Setenv("DIAGNOSE_SYMPTOMS_PATH", "models/gejala.json")
	t.Setenv("DIAGNOSE_ORT_LIB", "/usr/lib/libonnxruntime.so")
	t.Setenv("DIAGNOSE_NORMALIZE", "true")
	t.Setenv("DIAGNOSE_PRETTY", "1")
	t.Setenv("DIAGNOSE_EXIT_CODE", "true")
	t.Setenv("PORT", "8080")
	t.Setenv("DIAGNOSE_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DIAGNOSE_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Artifacts.ModelPath != "models/tree.onnx" {
		t.Fatalf("unexpected model path %q", cfg.Artifacts.ModelPath)
	}
	if cfg.Artifacts.LabelsPath != "models/labels.txt" {
		t.Fatalf("unexpected labels path %q", cfg.Artifacts.LabelsPath)
	}
	if cfg.Artifacts.SymptomsPath != "models/gejala.json" {
		t.Fatalf("unexpected symptoms path %q", cfg.Artifacts.SymptomsPath)
	}
	if cfg.Artifacts.RuntimePath != "/usr/lib/libonnxruntime.so" {
		t.Fatalf("unexpected runtime path %q", cfg.Artifacts.RuntimePath)
	}
	if !cfg.Artifacts.Normalize || !cfg.Output.Pretty || !cfg.Output.ExitCode {
		t.Fatal("expected boolean overrides to be true")
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port %q", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level %q", cfg.LogLevel)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIAGNOSE_NORMALIZE", "sometimes")
	t.Setenv("DIAGNOSE_READ_TIMEOUT", "soon")

	cfg := Load()

	if cfg.Artifacts.Normalize {
		t.Fatal("expected unparseable bool to fall back to false")
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Fatalf("expected unparseable duration to fall back to 15s, got %v", cfg.Server.ReadTimeout)
	}
}

// --- Validation tests ---

// validConfig returns a Config with real temp files so file-existence checks pass.
func validConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"model.onnx", "labels.json", "symptoms.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return Config{
		Artifacts: ArtifactConfig{
			ModelPath:    filepath.Join(dir, "model.onnx"),
			LabelsPath:   filepath.Join(dir, "labels.json"),
			SymptomsPath: filepath.Join(dir, "symptoms.json"),
		},
		Server: ServerConfig{
			Port:            "3000",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig(t)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected nil error for valid config, got: %v", err)
	}
}

func TestValidate_BadPort(t *testing.T) {
	for _, port := range []string{"http", "0", "70000"} {
		cfg := validConfig(t)
		cfg.Server.Port = port
		err := cfg.Validate()
		if err == nil {
			t.Fatalf("expected error for port %q", port)
		}
		if !strings.Contains(err.Error(), "port") {
			t.Fatalf("expected error to mention 'port', got: %v", err)
		}
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig(t)
	cfg.LogLevel = "verbose"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "log level") {
		t.Fatalf("expected error to mention 'log level', got: %v", err)
	}
}

func TestValidate_MissingModelFile(t *testing.T) {
	cfg := validConfig(t)
	cfg.Artifacts.ModelPath = "/nonexistent/model.onnx"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing model file")
	}
	if !strings.Contains(err.Error(), "model") {
		t.Fatalf("expected error to mention 'model', got: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := validConfig(t)
	cfg.Artifacts.LabelsPath = "/nonexistent/labels.json"
	cfg.Server.ShutdownTimeout = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	msg := err.Error()
	if !strings.Contains(msg, "labels") || !strings.Contains(msg, "shutdown") {
		t.Fatalf("expected both problems reported, got: %v", err)
	}
}
