package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dentalbridge/dentalbridge/internal/repository"
)

// Service is a tiny façade over the plan repository that produces XLSX bytes
// for a saved treatment plan, so patients can take the plan home.
type Service struct {
	plans  repository.PlanRepository
	logger *slog.Logger
}

func NewService(plans repository.PlanRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{plans: plans, logger: logger}
}

// ExportPlanXLSX returns an XLSX workbook (as bytes) for the given plan.
func (s *Service) ExportPlanXLSX(ctx context.Context, planID string) ([]byte, error) {
	start := time.Now()

	plan, err := s.plans.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Treatment Plan"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	// Header block: who and when.
	write(1, 1, "Patient")
	write(2, 1, plan.PatientName)
	write(1, 2, "Created")
	write(2, 2, plan.CreatedAt.Format("2006-01-02"))

	headers := []string{
		"Code",
		"Procedure",
		"Friendly Name",
		"Explanation",
		"Urgency",
		"Price",
		"Note",
	}
	const headerRow = 4
	for i, h := range headers {
		write(i+1, headerRow, h)
	}

	row := headerRow + 1
	for _, item := range plan.Items {
		write(1, row, item.Code)
		write(2, row, item.TechnicalName)
		write(3, row, item.FriendlyName)
		write(4, row, item.Explanation)
		write(5, row, item.Urgency)
		if item.Price != nil {
			write(6, row, fmt.Sprintf("%.2f", *item.Price))
		}
		if item.UrgencyHook != nil {
			write(7, row, *item.UrgencyHook)
		}
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 10) // code
	_ = f.SetColWidth(sheet, "B", "C", 28) // names
	_ = f.SetColWidth(sheet, "D", "D", 48) // explanation
	_ = f.SetColWidth(sheet, "E", "F", 12) // urgency, price
	_ = f.SetColWidth(sheet, "G", "G", 48) // note

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"plan_id", planID,
		"rows", len(plan.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
