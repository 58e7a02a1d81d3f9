package report

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"recap/internal/logging"
	"recap/internal/meeting"
)

// Exporter renders a processed job as an XLSX workbook with one sheet per
// resolved stage artifact.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter builds a report exporter.
func NewExporter(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logging.NewComponentLogger(logger, "report")}
}

// Export returns the workbook bytes for a job. Stages that produced no
// payload are skipped; the overview sheet is always present.
func (e *Exporter) Export(job *meeting.Job) ([]byte, error) {
	if job == nil {
		return nil, fmt.Errorf("report: job required")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := e.writeOverview(f, job); err != nil {
		return nil, err
	}
	if result := job.Stages.Transcription; result != nil && result.Transcript != nil {
		if err := e.writeTranscript(f, result.Transcript); err != nil {
			return nil, err
		}
	}
	if result := job.Stages.Analysis; result != nil && result.Analysis != nil {
		if err := e.writeAnalysis(f, result.Analysis); err != nil {
			return nil, err
		}
	}
	if result := job.Stages.Summary; result != nil && result.Summary != nil {
		if err := e.writeSummary(f, result.Summary); err != nil {
			return nil, err
		}
	}
	if result := job.Stages.Tracking; result != nil && result.Tracking != nil {
		if err := e.writeTracking(f, result.Tracking); err != nil {
			return nil, err
		}
	}
	if result := job.Stages.Planning; result != nil && result.Plan != nil {
		if err := e.writePlan(f, result.Plan); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	e.logger.Debug("report exported",
		logging.String(logging.FieldJobID, job.ID),
		logging.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("report: create sheet %s: %w", name, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, value := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func (e *Exporter) writeOverview(f *excelize.File, job *meeting.Job) error {
	const sheet = "Overview"
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return fmt.Errorf("report: rename sheet: %w", err)
	}

	writeRow(f, sheet, 1, "Field", "Value")
	writeRow(f, sheet, 2, "Job ID", job.ID)
	writeRow(f, sheet, 3, "Status", string(job.Status))
	writeRow(f, sheet, 4, "Created", job.CreatedAt.Format("2006-01-02 15:04:05"))
	writeRow(f, sheet, 5, "Audio file", job.AudioFile)
	if job.Error != "" {
		writeRow(f, sheet, 6, "Error", job.Error)
	}

	row := 8
	writeRow(f, sheet, row, "Stage", "Success", "Service", "Error")
	row++
	for _, name := range meeting.StageNames() {
		result := job.Stages.Get(name)
		if result == nil {
			continue
		}
		writeRow(f, sheet, row, string(name), result.Success, string(result.Metadata.Service), result.Error)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 16)
	_ = f.SetColWidth(sheet, "B", "D", 40)
	return nil
}

func (e *Exporter) writeTranscript(f *excelize.File, transcript *meeting.Transcript) error {
	const sheet = "Transcript"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Start", "End", "Text")
	if len(transcript.Segments) == 0 {
		writeRow(f, sheet, 2, "", "", transcript.PlainText())
	}
	for i, segment := range transcript.Segments {
		writeRow(f, sheet, i+2, segment.Start, segment.End, segment.Text)
	}
	_ = f.SetColWidth(sheet, "A", "B", 10)
	_ = f.SetColWidth(sheet, "C", "C", 90)
	return nil
}

func (e *Exporter) writeAnalysis(f *excelize.File, analysis *meeting.Analysis) error {
	const sheet = "Analysis"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Sentiment score", analysis.Sentiment.Score)
	writeRow(f, sheet, 2, "Sentiment comparative", analysis.Sentiment.Comparative)

	row := 4
	writeRow(f, sheet, row, "Topic", "Score")
	row++
	for _, topic := range analysis.KeyTopics {
		writeRow(f, sheet, row, topic.Term, topic.Score)
		row++
	}

	row++
	writeRow(f, sheet, row, "Question", "Answer")
	row++
	for _, question := range analysis.Questions {
		writeRow(f, sheet, row, question.Text, question.Answer)
		row++
	}

	row++
	writeRow(f, sheet, row, "Objectives", "Tasks")
	row++
	max := len(analysis.Objectives)
	if len(analysis.Tasks) > max {
		max = len(analysis.Tasks)
	}
	for i := 0; i < max; i++ {
		objective, task := "", ""
		if i < len(analysis.Objectives) {
			objective = analysis.Objectives[i].Text
		}
		if i < len(analysis.Tasks) {
			task = analysis.Tasks[i].Text
		}
		writeRow(f, sheet, row, objective, task)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "B", 60)
	return nil
}

func (e *Exporter) writeSummary(f *excelize.File, summary *meeting.Summary) error {
	const sheet = "Summary"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Executive summary")
	writeRow(f, sheet, 2, summary.Executive)

	row := 4
	writeRow(f, sheet, row, "Key points")
	row++
	for _, point := range summary.KeyPoints {
		writeRow(f, sheet, row, point)
		row++
	}

	row++
	writeRow(f, sheet, row, "Question", "Answer")
	row++
	for _, pair := range summary.QuestionsAndAnswers {
		writeRow(f, sheet, row, pair.Question, pair.Answer)
		row++
	}

	row++
	writeRow(f, sheet, row, "Objectives")
	row++
	for _, objective := range summary.Objectives {
		writeRow(f, sheet, row, objective)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "B", 70)
	return nil
}

func (e *Exporter) writeTracking(f *excelize.File, tracking *meeting.Tracking) error {
	const sheet = "Tracking"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Objective ID", "Text", "Status", "Related tasks")
	row := 2
	for _, objective := range tracking.Objectives {
		writeRow(f, sheet, row, objective.ID, objective.Text, string(objective.Status),
			strings.Join(objective.RelatedTasks, ", "))
		row++
	}

	row++
	writeRow(f, sheet, row, "Task ID", "Text", "Status", "Assignee", "Due date")
	row++
	for _, task := range tracking.Tasks {
		due := ""
		if task.DueDate != nil {
			due = task.DueDate.String()
		}
		writeRow(f, sheet, row, task.ID, task.Text, string(task.Status), task.Assignee, due)
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 38)
	_ = f.SetColWidth(sheet, "B", "B", 60)
	_ = f.SetColWidth(sheet, "C", "E", 18)
	return nil
}

func (e *Exporter) writePlan(f *excelize.File, plan *meeting.Plan) error {
	const sheet = "Plan"
	if err := newSheet(f, sheet); err != nil {
		return err
	}
	writeRow(f, sheet, 1, "Name", plan.Name)
	writeRow(f, sheet, 2, "Description", plan.Description)
	writeRow(f, sheet, 3, "Start", plan.StartDate.String())
	writeRow(f, sheet, 4, "End", plan.EndDate.String())

	row := 6
	writeRow(f, sheet, row, "Task", "Start", "End", "Progress", "Assignee")
	row++
	for _, task := range plan.GanttData.Tasks {
		writeRow(f, sheet, row, task.Text, task.StartDate.String(), task.EndDate.String(), task.Progress, task.Assignee)
		row++
	}

	row++
	writeRow(f, sheet, row, "Dependency", "Source", "Target", "Type")
	row++
	for _, dep := range plan.GanttData.Dependencies {
		writeRow(f, sheet, row, dep.ID, dep.Source, dep.Target, string(dep.Type))
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 50)
	_ = f.SetColWidth(sheet, "B", "E", 16)
	return nil
}
