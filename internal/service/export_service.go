package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/hebdo-app/hebdo-api/internal/models"
	"github.com/hebdo-app/hebdo-api/pkg/export"
	appErrors "github.com/hebdo-app/hebdo-api/pkg/errors"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string, notes []string) ([]byte, error)
}

// ExportService renders the weekly plan as downloadable documents.
type ExportService struct {
	plans  planProvider
	csv    csvRenderer
	pdf    pdfRenderer
	logger *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(plans planProvider, csv csvRenderer, pdf pdfRenderer, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{plans: plans, csv: csv, pdf: pdf, logger: logger}
}

// ExportCSV renders the upcoming week's plan as CSV.
func (s *ExportService) ExportCSV(ctx context.Context) ([]byte, string, error) {
	plan, err := s.plans.GeneratePlan(ctx)
	if err != nil {
		return nil, "", err
	}
	payload, err := s.csv.Render(planDataset(plan))
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
	}
	return payload, exportFilename(plan, "csv"), nil
}

// ExportPDF renders the upcoming week's plan as a PDF document.
func (s *ExportService) ExportPDF(ctx context.Context) ([]byte, string, error) {
	plan, err := s.plans.GeneratePlan(ctx)
	if err != nil {
		return nil, "", err
	}

	title := fmt.Sprintf("Weekly plan %s", plan.WeekStart.Format("2006-01-02"))
	notes := append([]string{}, plan.Warnings...)
	for _, sf := range plan.Shortfalls {
		notes = append(notes, fmt.Sprintf("%s: %d minutes unscheduled", sf.Name, sf.MinutesMissing))
	}

	payload, err := s.pdf.Render(planDataset(plan), title, notes)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
	}
	return payload, exportFilename(plan, "pdf"), nil
}

// planDataset flattens scheduled events into a tabular dataset, with times
// shown in the plan timezone.
func planDataset(plan *models.WeeklyPlan) export.Dataset {
	loc, err := time.LoadLocation(plan.Timezone)
	if err != nil {
		loc = time.UTC
	}

	rows := make([][]string, 0, len(plan.Events))
	for _, ev := range plan.Events {
		start := ev.Start.In(loc)
		end := ev.End.In(loc)
		rows = append(rows, []string{
			start.Format("Monday"),
			start.Format("2006-01-02"),
			start.Format("15:04"),
			end.Format("15:04"),
			ev.Name,
			ev.Category,
			strconv.Itoa(int(ev.End.Sub(ev.Start).Minutes())),
		})
	}

	return export.Dataset{
		Headers: []string{"Day", "Date", "Start", "End", "Activity", "Category", "Minutes"},
		Rows:    rows,
	}
}

func exportFilename(plan *models.WeeklyPlan, ext string) string {
	return fmt.Sprintf("weekly-plan-%s.%s", plan.WeekStart.Format("2006-01-02"), ext)
}
