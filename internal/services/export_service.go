package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/brightpath-edu/assessment-engine/internal/models"
	"github.com/brightpath-edu/assessment-engine/internal/utils"
)

// ExportService renders a learner's course standing as a downloadable report
// card: current breakdowns plus grade history.
type ExportService interface {
	ExportReportCardCSV(ctx context.Context, courseID, studentID uint) ([]byte, error)
	ExportReportCardExcel(ctx context.Context, courseID, studentID uint) ([]byte, error)
}

const historyExportLimit = 50

type exportService struct {
	grades GradeService
	logger utils.Logger
}

func NewExportService(grades GradeService, logger utils.Logger) ExportService {
	return &exportService{
		grades: grades,
		logger: logger,
	}
}

func (s *exportService) ExportReportCardCSV(ctx context.Context, courseID, studentID uint) ([]byte, error) {
	latest, history, err := s.loadReportCard(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Category", "Weight", "Earned", "Possible", "Percentage", "Contribution"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, b := range latest.Breakdowns {
		row := []string{
			string(b.Category),
			fmt.Sprintf("%.2f", b.Weight),
			fmt.Sprintf("%.1f", b.Earned),
			fmt.Sprintf("%.1f", b.Possible),
			fmt.Sprintf("%.1f", b.Percentage),
			fmt.Sprintf("%.2f", b.Contribution),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	overall := []string{"Overall", "", "", "", fmt.Sprintf("%.1f", latest.Overall), latest.Letter}
	if err := writer.Write(overall); err != nil {
		return nil, fmt.Errorf("failed to write CSV row: %w", err)
	}

	if err := writer.Write([]string{}); err != nil {
		return nil, fmt.Errorf("failed to write CSV row: %w", err)
	}
	if err := writer.Write([]string{"Computed At", "Overall", "Letter", "GPA", "Trend"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, h := range history {
		row := []string{
			h.ComputedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%.1f", h.Overall),
			h.Letter,
			fmt.Sprintf("%.1f", h.GradePoints),
			string(h.Trend),
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return []byte(buf.String()), nil
}

func (s *exportService) ExportReportCardExcel(ctx context.Context, courseID, studentID uint) ([]byte, error) {
	latest, history, err := s.loadReportCard(ctx, courseID, studentID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()

	breakdownSheet := "Breakdown"
	index, err := f.NewSheet(breakdownSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"Category", "Weight", "Earned", "Possible", "Percentage", "Contribution"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(breakdownSheet, cell, header)
	}
	for rowIndex, b := range latest.Breakdowns {
		row := []interface{}{string(b.Category), b.Weight, b.Earned, b.Possible, b.Percentage, b.Contribution}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(breakdownSheet, cell, value)
		}
	}
	summaryRow := len(latest.Breakdowns) + 2
	f.SetCellValue(breakdownSheet, fmt.Sprintf("A%d", summaryRow), "Overall")
	f.SetCellValue(breakdownSheet, fmt.Sprintf("E%d", summaryRow), latest.Overall)
	f.SetCellValue(breakdownSheet, fmt.Sprintf("F%d", summaryRow), latest.Letter)

	historySheet := "History"
	if _, err := f.NewSheet(historySheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	historyHeaders := []string{"Computed At", "Overall", "Letter", "GPA", "Trend"}
	for i, header := range historyHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(historySheet, cell, header)
	}
	for rowIndex, h := range history {
		row := []interface{}{
			h.ComputedAt.Format("2006-01-02 15:04:05"),
			h.Overall,
			h.Letter,
			h.GradePoints,
			string(h.Trend),
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(historySheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Report card exported",
		"course_id", courseID,
		"student_id", studentID,
		"history_rows", len(history))

	return buf.Bytes(), nil
}

func (s *exportService) loadReportCard(ctx context.Context, courseID, studentID uint) (*models.CourseGradeResult, []*models.CourseGradeResult, error) {
	latest, err := s.grades.GetLatest(ctx, courseID, studentID)
	if err != nil {
		return nil, nil, err
	}
	history, err := s.grades.History(ctx, courseID, studentID, historyExportLimit)
	if err != nil {
		return nil, nil, err
	}
	return latest, history, nil
}
