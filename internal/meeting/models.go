package meeting

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle of a pipeline job. Transitions are
// monotonic: processing moves to completed or failed and never reverts.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// Service records which execution path produced a stage payload.
type Service string

const (
	ServiceRemote        Service = "remote"
	ServiceLocal         Service = "local"
	ServiceErrorFallback Service = "error-fallback"
)

// StageName identifies one of the five pipeline stages.
type StageName string

const (
	StageTranscription StageName = "transcription"
	StageAnalysis      StageName = "analysis"
	StageSummary       StageName = "summary"
	StageTracking      StageName = "tracking"
	StagePlanning      StageName = "planning"
)

// StageNames returns the stages in execution order.
func StageNames() []StageName {
	return []StageName{StageTranscription, StageAnalysis, StageSummary, StageTracking, StagePlanning}
}

// StageMetadata records when a stage resolved and through which path.
type StageMetadata struct {
	Timestamp time.Time `json:"timestamp"`
	Service   Service   `json:"service"`
}

// StageResult is the outcome of one stage attempt. Exactly one payload
// pointer is populated according to the stage; a non-fatal failure may carry
// a fallback payload alongside Error.
type StageResult struct {
	Success  bool          `json:"success"`
	Error    string        `json:"error,omitempty"`
	Metadata StageMetadata `json:"metadata"`

	Transcript *Transcript `json:"transcript,omitempty"`
	Analysis   *Analysis   `json:"analysis,omitempty"`
	Summary    *Summary    `json:"summary,omitempty"`
	Tracking   *Tracking   `json:"tracking,omitempty"`
	Plan       *Plan       `json:"plan,omitempty"`
}

// Stages holds per-stage results. Field order matches execution order and a
// field stays nil until the stage has been attempted.
type Stages struct {
	Transcription *StageResult `json:"transcription,omitempty"`
	Analysis      *StageResult `json:"analysis,omitempty"`
	Summary       *StageResult `json:"summary,omitempty"`
	Tracking      *StageResult `json:"tracking,omitempty"`
	Planning      *StageResult `json:"planning,omitempty"`
}

// Get returns the result recorded for a stage, or nil when not attempted.
func (s *Stages) Get(name StageName) *StageResult {
	switch name {
	case StageTranscription:
		return s.Transcription
	case StageAnalysis:
		return s.Analysis
	case StageSummary:
		return s.Summary
	case StageTracking:
		return s.Tracking
	case StagePlanning:
		return s.Planning
	default:
		return nil
	}
}

// Set records a stage result.
func (s *Stages) Set(name StageName, result *StageResult) {
	switch name {
	case StageTranscription:
		s.Transcription = result
	case StageAnalysis:
		s.Analysis = result
	case StageSummary:
		s.Summary = result
	case StageTracking:
		s.Tracking = result
	case StagePlanning:
		s.Planning = result
	}
}

// Job is one end-to-end request to process a single meeting's audio.
type Job struct {
	ID        string    `json:"jobId"`
	Status    JobStatus `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	AudioFile string    `json:"audioFile,omitempty"`
	Error     string    `json:"error,omitempty"`
	Stages    Stages    `json:"stages"`
}

// NewJob creates a processing job for the given audio file.
func NewJob(audioFile string) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Status:    JobProcessing,
		CreatedAt: time.Now().UTC(),
		AudioFile: audioFile,
	}
}

// Clone returns a copy of the job. Stage payloads are treated as immutable
// once recorded, so the stage pointers are shared.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	cp := *j
	return &cp
}

// ObjectiveStatus is the lifecycle of a tracked objective.
type ObjectiveStatus string

const (
	ObjectivePending    ObjectiveStatus = "PENDING"
	ObjectiveInProgress ObjectiveStatus = "IN_PROGRESS"
	ObjectiveCompleted  ObjectiveStatus = "COMPLETED"
	ObjectiveCancelled  ObjectiveStatus = "CANCELLED"
)

// ParseObjectiveStatus converts a string into a known ObjectiveStatus.
func ParseObjectiveStatus(value string) (ObjectiveStatus, bool) {
	status := ObjectiveStatus(strings.ToUpper(strings.TrimSpace(value)))
	switch status {
	case ObjectivePending, ObjectiveInProgress, ObjectiveCompleted, ObjectiveCancelled:
		return status, true
	default:
		return "", false
	}
}

// TaskStatus is the lifecycle of a tracked task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "TODO"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskDone       TaskStatus = "DONE"
	TaskBlocked    TaskStatus = "BLOCKED"
)

// ParseTaskStatus converts a string into a known TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, bool) {
	status := TaskStatus(strings.ToUpper(strings.TrimSpace(value)))
	switch status {
	case TaskTodo, TaskInProgress, TaskDone, TaskBlocked:
		return status, true
	default:
		return "", false
	}
}

// Objective is a tracked unit of meeting follow-up work.
type Objective struct {
	ID           string          `json:"id"`
	Text         string          `json:"text"`
	Status       ObjectiveStatus `json:"status"`
	RelatedTasks []string        `json:"relatedTasks"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
	MeetingID    string          `json:"meetingId"`
}

// Task is an actionable item extracted from a meeting.
type Task struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Status    TaskStatus `json:"status"`
	Assignee  string     `json:"assignee"`
	DueDate   *Date      `json:"dueDate,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	MeetingID string     `json:"meetingId"`
}

// Tracking is the tracking stage payload.
type Tracking struct {
	MeetingID  string      `json:"meetingId"`
	Objectives []Objective `json:"objectives"`
	Tasks      []Task      `json:"tasks"`
}

// DependencyType describes how a Gantt dependency links two tasks.
type DependencyType string

// DependencyFinishToStart means the target task starts after the source ends.
const DependencyFinishToStart DependencyType = "finish_to_start"

// GanttTask is a scheduled task in the Gantt model.
type GanttTask struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	StartDate Date    `json:"startDate"`
	EndDate   Date    `json:"endDate"`
	Progress  float64 `json:"progress"`
	Assignee  string  `json:"assignee"`
}

// Dependency links two Gantt tasks. The dependency graph is a chain and must
// never form a cycle.
type Dependency struct {
	ID     string         `json:"id"`
	Source string         `json:"source"`
	Target string         `json:"target"`
	Type   DependencyType `json:"type"`
}

// GanttData bundles scheduled tasks with their dependency chain.
type GanttData struct {
	Tasks        []GanttTask  `json:"tasks"`
	Dependencies []Dependency `json:"dependencies"`
}

// PlanObjective groups the task ids bucketed under one objective.
type PlanObjective struct {
	ID    string   `json:"id"`
	Text  string   `json:"text"`
	Tasks []string `json:"tasks"`
}

// Plan is the planning stage payload.
type Plan struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	StartDate       Date            `json:"startDate"`
	EndDate         Date            `json:"endDate"`
	Objectives      []PlanObjective `json:"objectives"`
	UnassignedTasks []Task          `json:"unassignedTasks"`
	GanttData       GanttData       `json:"ganttData"`
}
