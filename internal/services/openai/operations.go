package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"recap/internal/meeting"
)

// Analyze asks the service for a structured analysis of the transcript text.
func (c *Client) Analyze(ctx context.Context, text string) (meeting.Analysis, error) {
	var empty meeting.Analysis
	text = strings.TrimSpace(text)
	if text == "" {
		return empty, fmt.Errorf("openai analyze: text required")
	}
	content, err := c.completeJSON(ctx, "openai analyze", analysisSystemPrompt, fmt.Sprintf(analysisPromptTemplate, text), 1000)
	if err != nil {
		return empty, err
	}

	var wire struct {
		KeyTopics []struct {
			Term  string  `json:"term"`
			TFIDF float64 `json:"tfidf"`
		} `json:"keyTopics"`
		Sentiment struct {
			Score       float64 `json:"score"`
			Comparative float64 `json:"comparative"`
		} `json:"sentiment"`
		Questions []struct {
			Text   string `json:"text"`
			Answer string `json:"answer"`
		} `json:"questions"`
		Objectives []struct {
			Text string `json:"text"`
		} `json:"objectives"`
		Tasks []struct {
			Text string `json:"text"`
		} `json:"tasks"`
	}
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return empty, fmt.Errorf("openai analyze: parse payload: %w", err)
	}

	analysis := meeting.Analysis{
		Sentiment: meeting.Sentiment{
			Score:       clamp(wire.Sentiment.Score, -1, 1),
			Comparative: wire.Sentiment.Comparative,
		},
	}
	for _, topic := range wire.KeyTopics {
		if term := strings.TrimSpace(topic.Term); term != "" {
			analysis.KeyTopics = append(analysis.KeyTopics, meeting.Topic{Term: term, Score: topic.TFIDF})
		}
	}
	for _, question := range wire.Questions {
		if text := strings.TrimSpace(question.Text); text != "" {
			analysis.Questions = append(analysis.Questions, meeting.Question{Text: text, Answer: strings.TrimSpace(question.Answer), Confidence: 1})
		}
	}
	for _, objective := range wire.Objectives {
		if text := strings.TrimSpace(objective.Text); text != "" {
			analysis.Objectives = append(analysis.Objectives, meeting.Finding{Text: text, Confidence: 1})
		}
	}
	for _, task := range wire.Tasks {
		if text := strings.TrimSpace(task.Text); text != "" {
			analysis.Tasks = append(analysis.Tasks, meeting.Finding{Text: text, Confidence: 1})
		}
	}
	return analysis, nil
}

// Summarize asks the service for a structured summary of the transcript text.
func (c *Client) Summarize(ctx context.Context, text string) (meeting.Summary, error) {
	var empty meeting.Summary
	text = strings.TrimSpace(text)
	if text == "" {
		return empty, fmt.Errorf("openai summarize: text required")
	}
	content, err := c.completeJSON(ctx, "openai summarize", summarySystemPrompt, fmt.Sprintf(summaryPromptTemplate, text), 1000)
	if err != nil {
		return empty, err
	}
	var summary meeting.Summary
	if err := json.Unmarshal([]byte(content), &summary); err != nil {
		return empty, fmt.Errorf("openai summarize: parse payload: %w", err)
	}
	if strings.TrimSpace(summary.Executive) == "" {
		return empty, fmt.Errorf("openai summarize: payload missing executive summary")
	}
	return summary, nil
}

// Plan asks the service for a full work plan derived from the transcript text.
func (c *Client) Plan(ctx context.Context, text string) (meeting.Plan, error) {
	var empty meeting.Plan
	text = strings.TrimSpace(text)
	if text == "" {
		return empty, fmt.Errorf("openai plan: text required")
	}
	today := meeting.DateOf(time.Now())
	endOfMonth := meeting.NewDate(today.Year(), today.Month()+1, 0)
	prompt := fmt.Sprintf(planPromptTemplate, today, endOfMonth, text, today, endOfMonth)
	content, err := c.completeJSON(ctx, "openai plan", planSystemPrompt, prompt, 1500)
	if err != nil {
		return empty, err
	}

	var wire struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		Objectives  []struct {
			ID    string   `json:"id"`
			Text  string   `json:"text"`
			Tasks []string `json:"tasks"`
		} `json:"objectives"`
		GanttData struct {
			Tasks []struct {
				ID        string  `json:"id"`
				Text      string  `json:"text"`
				StartDate string  `json:"start_date"`
				EndDate   string  `json:"end_date"`
				Progress  float64 `json:"progress"`
				Assignee  string  `json:"assignee"`
			} `json:"tasks"`
			Dependencies []struct {
				ID     string `json:"id"`
				Source string `json:"source"`
				Target string `json:"target"`
			} `json:"dependencies"`
		} `json:"ganttData"`
	}
	if err := json.Unmarshal([]byte(content), &wire); err != nil {
		return empty, fmt.Errorf("openai plan: parse payload: %w", err)
	}
	if strings.TrimSpace(wire.Name) == "" {
		return empty, fmt.Errorf("openai plan: payload missing plan name")
	}

	plan := meeting.Plan{
		ID:          strings.TrimSpace(wire.ID),
		Name:        strings.TrimSpace(wire.Name),
		Description: strings.TrimSpace(wire.Description),
		StartDate:   parseDateOr(wire.StartDate, today),
		EndDate:     parseDateOr(wire.EndDate, endOfMonth),
	}
	if plan.ID == "" {
		plan.ID = "plan-remote"
	}
	for _, objective := range wire.Objectives {
		plan.Objectives = append(plan.Objectives, meeting.PlanObjective{
			ID:    objective.ID,
			Text:  objective.Text,
			Tasks: objective.Tasks,
		})
	}
	for _, task := range wire.GanttData.Tasks {
		plan.GanttData.Tasks = append(plan.GanttData.Tasks, meeting.GanttTask{
			ID:        task.ID,
			Text:      task.Text,
			StartDate: parseDateOr(task.StartDate, plan.StartDate),
			EndDate:   parseDateOr(task.EndDate, plan.EndDate),
			Progress:  clamp(task.Progress, 0, 1),
			Assignee:  task.Assignee,
		})
	}
	for _, dep := range wire.GanttData.Dependencies {
		plan.GanttData.Dependencies = append(plan.GanttData.Dependencies, meeting.Dependency{
			ID:     dep.ID,
			Source: dep.Source,
			Target: dep.Target,
			Type:   meeting.DependencyFinishToStart,
		})
	}
	return plan, nil
}

func parseDateOr(value string, fallback meeting.Date) meeting.Date {
	date, err := meeting.ParseDate(value)
	if err != nil {
		return fallback
	}
	return date
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
