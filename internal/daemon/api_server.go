package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/pipeline"
	"recap/internal/report"
	"recap/internal/services"
	"recap/internal/tracker"
)

const maxUploadBytes = 256 << 20

type apiServer struct {
	bind          string
	uploadDir     string
	logger        *slog.Logger
	orchestrator  *pipeline.Orchestrator
	trackingStore *tracker.Store
	exporter      *report.Exporter

	mux      *http.ServeMux
	listener net.Listener
	server   *http.Server
}

func newAPIServer(bind, uploadDir string, orchestrator *pipeline.Orchestrator, trackingStore *tracker.Store, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:          strings.TrimSpace(bind),
		uploadDir:     uploadDir,
		logger:        logging.NewComponentLogger(logger, "api"),
		orchestrator:  orchestrator,
		trackingStore: trackingStore,
		exporter:      report.NewExporter(logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", srv.handleHealth)
	mux.HandleFunc("/api/meetings", srv.handleMeetings)
	mux.HandleFunc("/api/meetings/", srv.handleMeetingResource)
	mux.HandleFunc("/api/tasks/", srv.handleTaskStatus)
	mux.HandleFunc("/api/objectives/", srv.handleObjectiveStatus)
	srv.mux = mux

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the route table (for tests).
func (s *apiServer) Handler() http.Handler {
	return s.mux
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *apiServer) handleMeetings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listMeetings(w, r)
	case http.MethodPost:
		s.uploadMeeting(w, r)
	default:
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

type jobSummary struct {
	JobID     string            `json:"jobId"`
	Status    meeting.JobStatus `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	Error     string            `json:"error,omitempty"`
}

func (s *apiServer) listMeetings(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.orchestrator.Jobs(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summaries := make([]jobSummary, 0, len(jobs))
	for _, job := range jobs {
		summaries = append(summaries, jobSummary{
			JobID:     job.ID,
			Status:    job.Status,
			CreatedAt: job.CreatedAt,
			Error:     job.Error,
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"meetings": summaries})
}

func (s *apiServer) uploadMeeting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid multipart payload")
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "audio file field required")
		return
	}
	defer file.Close()

	ext := filepath.Ext(header.Filename)
	destPath := filepath.Join(s.uploadDir, uuid.NewString()+ext)
	dest, err := os.Create(destPath)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "store upload")
		return
	}
	written, err := io.Copy(dest, file)
	closeErr := dest.Close()
	if err != nil || closeErr != nil {
		_ = os.Remove(destPath)
		s.writeError(w, http.StatusInternalServerError, "store upload")
		return
	}
	if written == 0 {
		_ = os.Remove(destPath)
		s.writeError(w, http.StatusBadRequest, "audio file is empty")
		return
	}

	job, err := s.orchestrator.Submit(r.Context(), destPath)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Info("meeting accepted",
		logging.String(logging.FieldJobID, job.ID),
		logging.String("filename", header.Filename))
	s.writeJSON(w, http.StatusAccepted, map[string]any{"jobId": job.ID, "status": job.Status})
}

var stageResources = map[string]meeting.StageName{
	"transcription": meeting.StageTranscription,
	"analysis":      meeting.StageAnalysis,
	"summary":       meeting.StageSummary,
	"tracking":      meeting.StageTracking,
	"plan":          meeting.StagePlanning,
}

func (s *apiServer) handleMeetingResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/meetings/")
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) == 0 || parts[0] == "" || len(parts) > 2 {
		s.writeError(w, http.StatusNotFound, "meeting not found")
		return
	}

	job, err := s.orchestrator.Job(r.Context(), parts[0])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if len(parts) == 1 {
		s.writeJSON(w, http.StatusOK, job)
		return
	}

	switch parts[1] {
	case "status":
		s.writeJSON(w, http.StatusOK, jobSummary{
			JobID:     job.ID,
			Status:    job.Status,
			CreatedAt: job.CreatedAt,
			Error:     job.Error,
		})
	case "report":
		s.writeReport(w, job)
	default:
		stage, ok := stageResources[parts[1]]
		if !ok {
			s.writeError(w, http.StatusNotFound, "unknown resource "+parts[1])
			return
		}
		result := job.Stages.Get(stage)
		if result == nil {
			s.writeError(w, http.StatusConflict, fmt.Sprintf("%s not yet available", stage))
			return
		}
		s.writeJSON(w, http.StatusOK, result)
	}
}

func (s *apiServer) writeReport(w http.ResponseWriter, job *meeting.Job) {
	if job.Status == meeting.JobProcessing {
		s.writeError(w, http.StatusConflict, "report not yet available")
		return
	}
	data, err := s.exporter.Export(job)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=recap-%s.xlsx", job.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (s *apiServer) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.statusUpdateTarget(w, r, "/api/tasks/")
	if !ok {
		return
	}
	var payload statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	status, ok := meeting.ParseTaskStatus(payload.Status)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown task status "+payload.Status)
		return
	}
	task, err := s.trackingStore.UpdateTaskStatus(r.Context(), id, status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *apiServer) handleObjectiveStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.statusUpdateTarget(w, r, "/api/objectives/")
	if !ok {
		return
	}
	var payload statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid json payload")
		return
	}
	status, ok := meeting.ParseObjectiveStatus(payload.Status)
	if !ok {
		s.writeError(w, http.StatusBadRequest, "unknown objective status "+payload.Status)
		return
	}
	objective, err := s.trackingStore.UpdateObjectiveStatus(r.Context(), id, status)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, objective)
}

// statusUpdateTarget validates a PATCH {prefix}{id}/status request and
// returns the record id.
func (s *apiServer) statusUpdateTarget(w http.ResponseWriter, r *http.Request, prefix string) (string, bool) {
	if r.Method != http.MethodPatch {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return "", false
	}
	if s.trackingStore == nil {
		s.writeError(w, http.StatusServiceUnavailable, "tracking persistence disabled")
		return "", false
	}
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "status" {
		s.writeError(w, http.StatusNotFound, "not found")
		return "", false
	}
	return parts[0], true
}

func (s *apiServer) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
