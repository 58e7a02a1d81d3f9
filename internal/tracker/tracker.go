package tracker

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"recap/internal/logging"
	"recap/internal/meeting"
	"recap/internal/nlp"
)

const (
	defaultDueDays    = 14
	unassignedOwner   = "unassigned"
	minLinkWordLength = 3
	minSharedWords    = 2
)

var (
	explicitDatePattern = regexp.MustCompile(`(\d{1,2})[/-](\d{1,2})(?:[/-](\d{2,4}))?`)
	assigneePattern     = regexp.MustCompile(`(?i)(?:asignado a|assigned to|responsable:?)\s+(\p{L}+(?:\s+\p{L}+)?)`)
)

// Tracker mints objective and task records from an analysis. It always runs
// locally; there is no remote path for this stage.
type Tracker struct {
	store  *Store
	logger *slog.Logger
	now    func() time.Time
}

// New builds a tracker. The store is optional; when present every build is
// also persisted.
func New(store *Store, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		logger: logging.NewComponentLogger(logger, "tracker"),
		now:    time.Now,
	}
}

// WithClock overrides the time source (for testing).
func (t *Tracker) WithClock(now func() time.Time) {
	if now != nil {
		t.now = now
	}
}

// Build creates fresh tracking records for a meeting from its analysis.
// Objectives start PENDING and tasks start TODO; each run mints new ids.
func (t *Tracker) Build(ctx context.Context, meetingID string, analysis *meeting.Analysis) (meeting.Tracking, error) {
	tracking := meeting.Tracking{
		MeetingID:  meetingID,
		Objectives: []meeting.Objective{},
		Tasks:      []meeting.Task{},
	}
	if analysis == nil {
		return tracking, nil
	}

	now := t.now().UTC()
	for _, finding := range analysis.Objectives {
		tracking.Objectives = append(tracking.Objectives, meeting.Objective{
			ID:           uuid.NewString(),
			Text:         finding.Text,
			Status:       meeting.ObjectivePending,
			RelatedTasks: []string{},
			CreatedAt:    now,
			MeetingID:    meetingID,
		})
	}
	for _, finding := range analysis.Tasks {
		due := inferDueDate(finding.Text, now)
		task := meeting.Task{
			ID:        uuid.NewString(),
			Text:      finding.Text,
			Status:    meeting.TaskTodo,
			Assignee:  inferAssignee(finding.Text),
			DueDate:   &due,
			CreatedAt: now,
			MeetingID: meetingID,
		}
		linkTask(&tracking, task)
	}

	if t.store != nil {
		if err := t.store.SaveTracking(ctx, tracking); err != nil {
			return meeting.Tracking{}, err
		}
	}
	t.logger.Debug("tracking built",
		logging.String(logging.FieldJobID, meetingID),
		logging.Int("objectives", len(tracking.Objectives)),
		logging.Int("tasks", len(tracking.Tasks)))
	return tracking, nil
}

// Empty is the fallback payload recorded when tracking fails.
func Empty(meetingID string) meeting.Tracking {
	return meeting.Tracking{
		MeetingID:  meetingID,
		Objectives: []meeting.Objective{},
		Tasks:      []meeting.Task{},
	}
}

// linkTask appends the task and links it to the first objective sharing
// enough significant words. The objective's RelatedTasks is the single source
// of truth for the link.
func linkTask(tracking *meeting.Tracking, task meeting.Task) {
	taskWords := significantWords(task.Text)
	for i := range tracking.Objectives {
		if sharedWords(taskWords, significantWords(tracking.Objectives[i].Text)) >= minSharedWords {
			tracking.Objectives[i].RelatedTasks = append(tracking.Objectives[i].RelatedTasks, task.ID)
			break
		}
	}
	tracking.Tasks = append(tracking.Tasks, task)
}

func significantWords(text string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, token := range nlp.FoldTokens(nlp.Tokenize(text)) {
		if len([]rune(token)) > minLinkWordLength {
			words[token] = struct{}{}
		}
	}
	return words
}

func sharedWords(a, b map[string]struct{}) int {
	count := 0
	for word := range a {
		if _, ok := b[word]; ok {
			count++
		}
	}
	return count
}

// inferDueDate derives a due date from relative phrases or an explicit
// DD/MM[/YY[YY]] date; without a cue the task is due in two weeks.
func inferDueDate(text string, now time.Time) meeting.Date {
	folded := nlp.Fold(strings.ToLower(text))
	today := meeting.DateOf(now)

	switch {
	case strings.Contains(folded, "proxima semana") || strings.Contains(folded, "next week"):
		return today.AddDays(7)
	case strings.Contains(folded, "proximo mes") || strings.Contains(folded, "next month"):
		return today.AddMonths(1)
	}

	if match := explicitDatePattern.FindStringSubmatch(text); match != nil {
		day, _ := strconv.Atoi(match[1])
		month, _ := strconv.Atoi(match[2])
		year := today.Year()
		if match[3] != "" {
			year, _ = strconv.Atoi(match[3])
			if year < 100 {
				year += 2000
			}
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return meeting.NewDate(year, time.Month(month), day)
		}
	}

	return today.AddDays(defaultDueDays)
}

// inferAssignee extracts the owner named after an assignment phrase.
func inferAssignee(text string) string {
	if match := assigneePattern.FindStringSubmatch(text); match != nil {
		return strings.TrimSpace(match[1])
	}
	return unassignedOwner
}
