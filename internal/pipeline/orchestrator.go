package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"recap/internal/analyzer"
	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/planner"
	"recap/internal/services"
	"recap/internal/summarizer"
	"recap/internal/tracker"
	"recap/internal/transcriber"
)

// Orchestrator runs the five stages over submitted meetings. Stages are
// strictly sequential within a job; jobs run concurrently.
type Orchestrator struct {
	store       meeting.Store
	transcriber *transcriber.Transcriber
	analyzer    *analyzer.Analyzer
	summarizer  *summarizer.Summarizer
	tracker     *tracker.Tracker
	planner     *planner.Planner
	notifier    Notifier
	logger      *slog.Logger
	wg          sync.WaitGroup
}

// Options collects the orchestrator's collaborators. Store is required; a
// nil Notifier defaults to NopNotifier.
type Options struct {
	Store       meeting.Store
	Transcriber *transcriber.Transcriber
	Analyzer    *analyzer.Analyzer
	Summarizer  *summarizer.Summarizer
	Tracker     *tracker.Tracker
	Planner     *planner.Planner
	Notifier    Notifier
	Logger      *slog.Logger
}

// NewOrchestrator wires the pipeline together.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("orchestrator: store required")
	}
	if opts.Transcriber == nil || opts.Analyzer == nil || opts.Summarizer == nil ||
		opts.Tracker == nil || opts.Planner == nil {
		return nil, fmt.Errorf("orchestrator: all five stages required")
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Orchestrator{
		store:       opts.Store,
		transcriber: opts.Transcriber,
		analyzer:    opts.Analyzer,
		summarizer:  opts.Summarizer,
		tracker:     opts.Tracker,
		planner:     opts.Planner,
		notifier:    notifier,
		logger:      logging.NewComponentLogger(opts.Logger, "pipeline"),
	}, nil
}

// Submit registers a job for the audio file and processes it in the
// background. The returned job is the freshly created record.
func (o *Orchestrator) Submit(ctx context.Context, audioPath string) (*meeting.Job, error) {
	job := meeting.NewJob(audioPath)
	if err := o.store.Put(ctx, job); err != nil {
		return nil, err
	}
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		o.process(context.WithoutCancel(ctx), job.Clone())
	}()
	return job, nil
}

// Job returns the current state of a job.
func (o *Orchestrator) Job(ctx context.Context, id string) (*meeting.Job, error) {
	return o.store.Get(ctx, id)
}

// Jobs returns all known jobs ordered by creation time.
func (o *Orchestrator) Jobs(ctx context.Context) ([]*meeting.Job, error) {
	return o.store.List(ctx)
}

// Wait blocks until every in-flight job has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) process(ctx context.Context, job *meeting.Job) {
	ctx = services.WithJobID(ctx, job.ID)
	logger := o.logger.With(logging.String(logging.FieldJobID, job.ID))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("pipeline panic", logging.Any("panic", r))
			o.failJob(ctx, job, fmt.Sprintf("internal pipeline failure: %v", r))
		}
	}()

	transcript, ok := o.runTranscription(ctx, job, logger)
	if !ok {
		return
	}

	analysis, ok := o.runAnalysis(ctx, job, logger, transcript)
	if !ok {
		return
	}

	text := transcript.PlainText()
	o.runSummary(ctx, job, logger, text, analysis)
	tracking := o.runTracking(ctx, job, logger, analysis)
	o.runPlanning(ctx, job, logger, text, tracking)

	job.Status = meeting.JobCompleted
	o.saveJob(ctx, job, logger)
	o.notifier.Notify(ctx, job.ID, EventProcessingComplete, "meeting processing complete")
	logger.Info("job completed")
}

func (o *Orchestrator) runTranscription(ctx context.Context, job *meeting.Job, logger *slog.Logger) (*meeting.Transcript, bool) {
	o.notifyStage(ctx, job.ID, meeting.StageTranscription, "start")

	if err := o.transcriber.Validate(job.AudioFile); err != nil {
		o.recordStage(ctx, job, meeting.StageTranscription, &meeting.StageResult{
			Success:  false,
			Error:    err.Error(),
			Metadata: stampError(),
		}, logger)
		o.failJob(ctx, job, fmt.Sprintf("transcription failed: %v", err))
		return nil, false
	}

	transcript, service, err := resolve(ctx, logger, meeting.StageTranscription, Backends[meeting.Transcript]{
		RemoteEnabled: o.transcriber.RemoteEnabled(),
		Remote: func(ctx context.Context) (meeting.Transcript, error) {
			return o.transcriber.Remote(ctx, job.AudioFile)
		},
		Local: func(ctx context.Context) (meeting.Transcript, error) {
			return o.transcriber.Local(ctx, job.AudioFile)
		},
	})
	result := &meeting.StageResult{Success: true, Metadata: stamp(service)}
	if err != nil {
		// Every engine failed: record a clearly marked placeholder so the
		// rest of the pipeline still runs over something inspectable. The
		// error-fallback service marks the degradation; the stage itself
		// still resolves.
		logger.Warn("all transcription engines failed, recording placeholder", logging.Error(err))
		transcript = o.transcriber.Placeholder(job.AudioFile)
		result.Metadata = stampError()
	}
	result.Transcript = &transcript
	o.recordStage(ctx, job, meeting.StageTranscription, result, logger)
	o.notifyStage(ctx, job.ID, meeting.StageTranscription, "complete")
	return &transcript, true
}

func (o *Orchestrator) runAnalysis(ctx context.Context, job *meeting.Job, logger *slog.Logger, transcript *meeting.Transcript) (*meeting.Analysis, bool) {
	o.notifyStage(ctx, job.ID, meeting.StageAnalysis, "start")

	text, err := o.analyzer.Normalize(*transcript)
	if err == nil {
		var (
			analysis meeting.Analysis
			service  meeting.Service
		)
		analysis, service, err = resolve(ctx, logger, meeting.StageAnalysis, Backends[meeting.Analysis]{
			RemoteEnabled: o.analyzer.RemoteEnabled(),
			Remote: func(ctx context.Context) (meeting.Analysis, error) {
				return o.analyzer.Remote(ctx, text)
			},
			Local: func(ctx context.Context) (meeting.Analysis, error) {
				return o.analyzer.Local(ctx, text)
			},
		})
		if err == nil {
			o.recordStage(ctx, job, meeting.StageAnalysis, &meeting.StageResult{
				Success:  true,
				Metadata: stamp(service),
				Analysis: &analysis,
			}, logger)
			o.notifyStage(ctx, job.ID, meeting.StageAnalysis, "complete")
			return &analysis, true
		}
	}

	o.recordStage(ctx, job, meeting.StageAnalysis, &meeting.StageResult{
		Success:  false,
		Error:    err.Error(),
		Metadata: stampError(),
	}, logger)
	o.failJob(ctx, job, fmt.Sprintf("analysis failed: %v", err))
	return nil, false
}

func (o *Orchestrator) runSummary(ctx context.Context, job *meeting.Job, logger *slog.Logger, text string, analysis *meeting.Analysis) {
	o.notifyStage(ctx, job.ID, meeting.StageSummary, "start")

	summary, service, err := resolve(ctx, logger, meeting.StageSummary, Backends[meeting.Summary]{
		RemoteEnabled: o.summarizer.RemoteEnabled(),
		Remote: func(ctx context.Context) (meeting.Summary, error) {
			return o.summarizer.Remote(ctx, text)
		},
		Local: func(ctx context.Context) (meeting.Summary, error) {
			return o.summarizer.Local(ctx, text, analysis)
		},
	})
	result := &meeting.StageResult{Success: err == nil, Metadata: stamp(service)}
	if err != nil {
		// Summarization records the failure without a payload.
		result.Error = err.Error()
	} else {
		result.Summary = &summary
	}
	o.recordStage(ctx, job, meeting.StageSummary, result, logger)
	o.notifyStage(ctx, job.ID, meeting.StageSummary, "complete")
}

func (o *Orchestrator) runTracking(ctx context.Context, job *meeting.Job, logger *slog.Logger, analysis *meeting.Analysis) meeting.Tracking {
	o.notifyStage(ctx, job.ID, meeting.StageTracking, "start")

	tracking, err := attempt(ctx, func(ctx context.Context) (meeting.Tracking, error) {
		return o.tracker.Build(ctx, job.ID, analysis)
	})
	result := &meeting.StageResult{Success: err == nil, Metadata: stamp(meeting.ServiceLocal)}
	if err != nil {
		logger.Warn("tracking failed", logging.Error(err))
		tracking = tracker.Empty(job.ID)
		result.Error = err.Error()
		result.Metadata = stampError()
	}
	result.Tracking = &tracking
	o.recordStage(ctx, job, meeting.StageTracking, result, logger)
	o.notifyStage(ctx, job.ID, meeting.StageTracking, "complete")
	return tracking
}

func (o *Orchestrator) runPlanning(ctx context.Context, job *meeting.Job, logger *slog.Logger, text string, tracking meeting.Tracking) {
	o.notifyStage(ctx, job.ID, meeting.StagePlanning, "start")

	plan, service, err := resolve(ctx, logger, meeting.StagePlanning, Backends[meeting.Plan]{
		RemoteEnabled: o.planner.RemoteEnabled(text),
		Remote: func(ctx context.Context) (meeting.Plan, error) {
			return o.planner.Remote(ctx, text)
		},
		Local: func(ctx context.Context) (meeting.Plan, error) {
			return o.planner.Local(ctx, job.ID, tracking)
		},
	})
	result := &meeting.StageResult{Success: err == nil, Metadata: stamp(service)}
	if err != nil {
		logger.Warn("planning failed, recording contingency plan", logging.Error(err))
		plan = o.planner.Contingency(job.ID)
		result.Error = err.Error()
		result.Metadata = stampError()
	}
	result.Plan = &plan
	o.recordStage(ctx, job, meeting.StagePlanning, result, logger)
	o.notifyStage(ctx, job.ID, meeting.StagePlanning, "complete")
}

func (o *Orchestrator) recordStage(ctx context.Context, job *meeting.Job, stage meeting.StageName, result *meeting.StageResult, logger *slog.Logger) {
	job.Stages.Set(stage, result)
	o.saveJob(ctx, job, logger)
	logger.Info("stage recorded",
		logging.String(logging.FieldStage, string(stage)),
		logging.Bool("success", result.Success),
		logging.String(logging.FieldService, string(result.Metadata.Service)))
}

func (o *Orchestrator) failJob(ctx context.Context, job *meeting.Job, message string) {
	job.Status = meeting.JobFailed
	job.Error = message
	o.saveJob(ctx, job, o.logger)
	o.notifier.Notify(ctx, job.ID, EventProcessingFailed, message)
	o.logger.Error("job failed",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("reason", message))
}

func (o *Orchestrator) saveJob(ctx context.Context, job *meeting.Job, logger *slog.Logger) {
	if err := o.store.Put(ctx, job); err != nil {
		logger.Error("persist job state", logging.Error(err))
	}
}

func (o *Orchestrator) notifyStage(ctx context.Context, jobID string, stage meeting.StageName, phase string) {
	event := fmt.Sprintf("%s:%s", stage, phase)
	o.notifier.Notify(ctx, jobID, event, fmt.Sprintf("stage %s %s", stage, phase))
}

func stamp(service meeting.Service) meeting.StageMetadata {
	return meeting.StageMetadata{Timestamp: time.Now().UTC(), Service: service}
}

func stampError() meeting.StageMetadata {
	return stamp(meeting.ServiceErrorFallback)
}
