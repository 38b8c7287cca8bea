package main

import (
	"fmt"
	"net"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hejijunhao/diagnose/internal/logging"
	"github.com/hejijunhao/diagnose/internal/server"
	"github.com/hejijunhao/diagnose/pkg/diagnose"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve GET /symptoms and POST /predict over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("port", "", "Listen port (overrides PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd)
	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Server.Port = p
	}
	logger := logging.Init(false, logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	d, err := diagnose.New(
		diagnose.WithArtifactPaths(cfg.Artifacts.ModelPath, cfg.Artifacts.LabelsPath, cfg.Artifacts.SymptomsPath),
		diagnose.WithRuntimeLibrary(cfg.Artifacts.RuntimePath),
		diagnose.WithNormalization(cfg.Artifacts.Normalize),
	)
	if err != nil {
		return err
	}
	defer d.Close()

	logger.Info("artifacts loaded",
		"model", cfg.Artifacts.ModelPath,
		"labels", cfg.Artifacts.LabelsPath,
		"symptoms", len(d.Symptoms()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	h := server.NewHandler(d, logger)
	return server.Run(ctx, net.JoinHostPort("", cfg.Server.Port), h.Router(),
		cfg.Server.ReadTimeout, cfg.Server.ShutdownTimeout, logger)
}
