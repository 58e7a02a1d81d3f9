package planner

import (
	"fmt"
	"sort"

	"recap/internal/meeting"
)

const (
	undatedOffsetDays   = 2
	undatedDurationDays = 3
)

// GenerateGanttChart schedules tasks on a timeline. Tasks are ordered by due
// date ascending with undated tasks last; the relative order of ties is
// preserved. Due-dated tasks end on their due date and start three days
// earlier. Undated tasks start at staggered two-day offsets from planStart
// and run for three days. Consecutive tasks are chained finish-to-start.
func GenerateGanttChart(tasks []meeting.Task, planStart meeting.Date) meeting.GanttData {
	data := meeting.GanttData{
		Tasks:        []meeting.GanttTask{},
		Dependencies: []meeting.Dependency{},
	}
	if len(tasks) == 0 {
		return data
	}

	ordered := append([]meeting.Task{}, tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		left, right := ordered[i].DueDate, ordered[j].DueDate
		switch {
		case left == nil:
			return false
		case right == nil:
			return true
		default:
			return left.Before(*right)
		}
	})

	undated := 0
	for _, task := range ordered {
		var start, end meeting.Date
		if task.DueDate != nil {
			end = *task.DueDate
			start = end.AddDays(-taskLeadDays)
		} else {
			start = planStart.AddDays(undated * undatedOffsetDays)
			end = start.AddDays(undatedDurationDays)
			undated++
		}
		data.Tasks = append(data.Tasks, meeting.GanttTask{
			ID:        task.ID,
			Text:      task.Text,
			StartDate: start,
			EndDate:   end,
			Progress:  progressFor(task.Status),
			Assignee:  task.Assignee,
		})
	}

	for i := 1; i < len(data.Tasks); i++ {
		data.Dependencies = append(data.Dependencies, meeting.Dependency{
			ID:     fmt.Sprintf("dep-%d", i),
			Source: data.Tasks[i-1].ID,
			Target: data.Tasks[i].ID,
			Type:   meeting.DependencyFinishToStart,
		})
	}
	return data
}

func progressFor(status meeting.TaskStatus) float64 {
	switch status {
	case meeting.TaskDone:
		return 1.0
	case meeting.TaskInProgress:
		return 0.5
	default:
		return 0
	}
}
