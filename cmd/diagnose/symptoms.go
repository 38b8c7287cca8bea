package main

import (
	"github.com/spf13/cobra"

	"github.com/hejijunhao/diagnose/internal/logging"
	"github.com/hejijunhao/diagnose/internal/model"
	"github.com/hejijunhao/diagnose/internal/output/stdout"
)

func newSymptomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "Print the known-symptom list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := resolveConfig(cmd)
			logging.Init(true, logging.ParseLevel(cfg.LogLevel))

			out := stdout.New(cmd.OutOrStdout(), cfg.Output.Pretty)
			vocab, err := artifactFiles(cfg).Vocabulary()
			if err != nil {
				return out.Write(model.Failure(err))
			}
			return out.WriteValue(struct {
				Success  bool     `json:"success"`
				Symptoms []string `json:"symptoms"`
			}{true, vocab.Names()})
		},
	}
}
