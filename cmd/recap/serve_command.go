package main

import (
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"recap/internal/analyzer"
	"recap/internal/daemon"
	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/pipeline"
	"recap/internal/planner"
	"recap/internal/services/openai"
	"recap/internal/services/whisper"
	"recap/internal/summarizer"
	"recap/internal/tracker"
	"recap/internal/transcriber"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the processing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}

			logger, err := logging.NewWithLogDir(cfg.LogLevel, cfg.LogFormat, cfg.LogDir)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			remote := openai.NewClient(openai.Config{
				APIKey:                   cfg.OpenAI.APIKey,
				BaseURL:                  cfg.OpenAI.BaseURL,
				Model:                    cfg.OpenAI.Model,
				TranscribeModel:          cfg.OpenAI.TranscribeModel,
				Language:                 cfg.OpenAI.Language,
				TimeoutSeconds:           cfg.OpenAI.TimeoutSeconds,
				TranscribeTimeoutSeconds: cfg.OpenAI.TranscribeTimeoutSeconds,
				TranscribeRetries:        cfg.OpenAI.TranscribeRetries,
			})
			local := whisper.NewService(whisper.Config{
				Binary:   cfg.Whisper.Binary,
				Model:    cfg.Whisper.Model,
				Language: cfg.Whisper.Language,
			})

			var trackingStore *tracker.Store
			if cfg.Tracking.Persist {
				trackingStore, err = tracker.Open(filepath.Join(cfg.DataDir, "tracking.db"))
				if err != nil {
					return err
				}
			}

			orchestrator, err := pipeline.NewOrchestrator(pipeline.Options{
				Store:       meeting.NewMemoryStore(),
				Transcriber: transcriber.New(remote, local, logger),
				Analyzer:    analyzer.New(remote, cfg.Analysis.ConfidenceThreshold, cfg.Analysis.TopTopics, logger),
				Summarizer:  summarizer.New(remote, cfg.Summary.MaxSentences, logger),
				Tracker:     tracker.New(trackingStore, logger),
				Planner:     planner.New(remote, cfg.Planning.DefaultDurationDays, logger),
				Notifier:    pipeline.NewLogNotifier(logger),
				Logger:      logger,
			})
			if err != nil {
				return err
			}

			d, err := daemon.New(cfg, orchestrator, trackingStore, logger)
			if err != nil {
				return fmt.Errorf("create daemon: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := d.Start(signalCtx); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "recap daemon listening on %s\n", cfg.APIBind)
			<-signalCtx.Done()
			return d.Close()
		},
	}
}
