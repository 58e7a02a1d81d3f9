package planner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/services/openai"
)

const taskLeadDays = 3

// Planner turns tracking records into a scheduled plan with Gantt data.
type Planner struct {
	remote          *openai.Client
	defaultDuration int
	logger          *slog.Logger
	now             func() time.Time
}

// New builds a planner. defaultDurationDays bounds plans whose tasks carry no
// due dates.
func New(remote *openai.Client, defaultDurationDays int, logger *slog.Logger) *Planner {
	if defaultDurationDays <= 0 {
		defaultDurationDays = 14
	}
	return &Planner{
		remote:          remote,
		defaultDuration: defaultDurationDays,
		logger:          logging.NewComponentLogger(logger, "planner"),
		now:             time.Now,
	}
}

// WithClock overrides the time source (for testing).
func (p *Planner) WithClock(now func() time.Time) {
	if now != nil {
		p.now = now
	}
}

// RemoteEnabled reports whether the remote service can be attempted. The
// remote path also needs the raw transcript, which not every caller has.
func (p *Planner) RemoteEnabled(text string) bool {
	return p.remote != nil && p.remote.Configured() && text != ""
}

// Remote plans through the hosted AI service from the raw transcript.
func (p *Planner) Remote(ctx context.Context, text string) (meeting.Plan, error) {
	return p.remote.Plan(ctx, text)
}

// Local derives the plan from tracking records. The end date is the latest
// task due date, or start plus the default duration when no task has one.
func (p *Planner) Local(_ context.Context, meetingID string, tracking meeting.Tracking) (meeting.Plan, error) {
	start := meeting.DateOf(p.now())
	var latestDue *meeting.Date
	for _, task := range tracking.Tasks {
		if task.DueDate == nil {
			continue
		}
		if latestDue == nil || task.DueDate.After(*latestDue) {
			due := *task.DueDate
			latestDue = &due
		}
	}
	end := start.AddDays(p.defaultDuration)
	if latestDue != nil {
		end = *latestDue
	}

	plan := meeting.Plan{
		ID:          "plan-" + meetingID,
		Name:        "Meeting follow-up plan",
		Description: fmt.Sprintf("Plan derived from meeting %s", meetingID),
		StartDate:   start,
		EndDate:     end,
		GanttData:   GenerateGanttChart(tracking.Tasks, start),
	}

	assigned := make(map[string]struct{})
	for _, objective := range tracking.Objectives {
		planObjective := meeting.PlanObjective{
			ID:    objective.ID,
			Text:  objective.Text,
			Tasks: append([]string{}, objective.RelatedTasks...),
		}
		for _, taskID := range objective.RelatedTasks {
			assigned[taskID] = struct{}{}
		}
		plan.Objectives = append(plan.Objectives, planObjective)
	}
	for _, task := range tracking.Tasks {
		if _, ok := assigned[task.ID]; !ok {
			plan.UnassignedTasks = append(plan.UnassignedTasks, task)
		}
	}

	p.logger.Debug("local plan built",
		logging.String(logging.FieldJobID, meetingID),
		logging.Int("gantt_tasks", len(plan.GanttData.Tasks)))
	return plan, nil
}

// Contingency is the fallback plan recorded when planning fails entirely. It
// carries a single placeholder task so consumers always see a schedulable
// structure.
func (p *Planner) Contingency(meetingID string) meeting.Plan {
	start := meeting.DateOf(p.now())
	end := start.AddDays(p.defaultDuration)
	return meeting.Plan{
		ID:          "plan-contingency-" + meetingID,
		Name:        "Contingency plan",
		Description: "Automatic plan generation failed; review the meeting manually.",
		StartDate:   start,
		EndDate:     end,
		GanttData: meeting.GanttData{
			Tasks: []meeting.GanttTask{{
				ID:        "task-review",
				Text:      "Review meeting outcomes manually",
				StartDate: start,
				EndDate:   start.AddDays(taskLeadDays),
				Progress:  0,
				Assignee:  "unassigned",
			}},
			Dependencies: []meeting.Dependency{},
		},
	}
}
