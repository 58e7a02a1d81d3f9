package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"recap/internal/analyzer"
	"recap/internal/config"
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

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	cfg, resolvedPath, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := logging.NewWithLogDir(cfg.LogLevel, cfg.LogFormat, cfg.LogDir)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded", logging.String("path", resolvedPath))

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
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := d.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return d.Close()
}
