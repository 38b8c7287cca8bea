package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/diagnose/internal/artifact"
	"github.com/hejijunhao/diagnose/internal/config"
	"github.com/hejijunhao/diagnose/internal/driver"
	"github.com/hejijunhao/diagnose/internal/logging"
	"github.com/hejijunhao/diagnose/internal/model"
	"github.com/hejijunhao/diagnose/internal/output/stdout"
)

// errFailedResult signals a failure payload under --exit-code. The payload
// itself has already been written, so there is nothing further to print.
var errFailedResult = errors.New("diagnosis failed")

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diagnose '<json array of symptoms>'",
		Short: "Predict a diagnosis from selected symptoms",
		Long: "diagnose loads a pre-trained decision tree, encodes the selected symptoms as a\n" +
			"binary feature vector, and prints {\"success\":...,\"prediction\"|\"error\":...} as one JSON line.\n\n" +
			"A first argument equal to a subcommand name (symptoms, serve, version, help) runs\n" +
			"that subcommand. Put -- before the argument to pass it to the classifier as is.",
		Example: `  diagnose '["fever","cough"]'
  diagnose -- version`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDiagnose,
	}

	f := cmd.PersistentFlags()
	f.String("model", "", "Path to the ONNX classifier (overrides DIAGNOSE_MODEL_PATH)")
	f.String("labels", "", "Path to the label mapping (overrides DIAGNOSE_LABELS_PATH)")
	f.String("symptoms", "", "Path to the known-symptom list (overrides DIAGNOSE_SYMPTOMS_PATH)")
	f.String("runtime", "", "Path to libonnxruntime (overrides DIAGNOSE_ORT_LIB)")
	f.Bool("normalize", false, "NFC-normalize and trim symptom names before matching")
	f.String("log-level", "", "Log level: debug, info, warn, error (overrides DIAGNOSE_LOG_LEVEL)")
	f.Bool("pretty", false, "Pretty-print JSON output")
	cmd.Flags().Bool("exit-code", false, "Exit non-zero when the result is a failure")
	cmd.SetFlagErrorFunc(flagError)

	cmd.AddCommand(newSymptomsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// resolveConfig loads env configuration and applies flag overrides, flags
// taking the highest priority.
func resolveConfig(cmd *cobra.Command) config.Config {
	cfg := config.Load()
	flags := cmd.Flags()

	if p, _ := flags.GetString("model"); p != "" {
		cfg.Artifacts.ModelPath = p
	}
	if p, _ := flags.GetString("labels"); p != "" {
		cfg.Artifacts.LabelsPath = p
	}
	if p, _ := flags.GetString("symptoms"); p != "" {
		cfg.Artifacts.SymptomsPath = p
	}
	if p, _ := flags.GetString("runtime"); p != "" {
		cfg.Artifacts.RuntimePath = p
	}
	if l, _ := flags.GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if flags.Changed("normalize") {
		cfg.Artifacts.Normalize, _ = flags.GetBool("normalize")
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty, _ = flags.GetBool("pretty")
	}
	if flags.Lookup("exit-code") != nil && flags.Changed("exit-code") {
		cfg.Output.ExitCode, _ = flags.GetBool("exit-code")
	}
	return cfg
}

func artifactFiles(cfg config.Config) artifact.Files {
	return artifact.Files{
		ModelPath:    cfg.Artifacts.ModelPath,
		LabelsPath:   cfg.Artifacts.LabelsPath,
		SymptomsPath: cfg.Artifacts.SymptomsPath,
		RuntimePath:  cfg.Artifacts.RuntimePath,
		Normalize:    cfg.Artifacts.Normalize,
	}
}

func runDiagnose(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	logging.Init(true, logging.ParseLevel(cfg.LogLevel))
	return writeResult(cmd, cfg, driver.Run(artifactFiles(cfg), args))
}

// flagError keeps the one-line contract when the root command's flags fail
// to parse, e.g. a bare -1 or an unknown --flag. Subcommands report flag
// errors the usual way.
func flagError(cmd *cobra.Command, ferr error) error {
	if cmd.HasParent() {
		return ferr
	}
	cfg := resolveConfig(cmd)
	logging.Init(true, logging.ParseLevel(cfg.LogLevel))
	return writeResult(cmd, cfg, model.Failure(model.InvalidInputError(ferr)))
}

func writeResult(cmd *cobra.Command, cfg config.Config, res model.Result) error {
	if err := stdout.New(cmd.OutOrStdout(), cfg.Output.Pretty).Write(res); err != nil {
		slog.Error("failed to write result", "err", err)
		return err
	}
	if !res.Success && cfg.Output.ExitCode {
		return errFailedResult
	}
	return nil
}
