// Package export renders stored exam attempts as an Excel workbook.
package export

import (
	"fmt"
	"io"

	"github.com/stemsi/exam-platform/internal/model"
	"github.com/stemsi/exam-platform/internal/repository"
	"github.com/stemsi/exam-platform/internal/service"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the attempt rows.
const SheetName = "Attempts"

var header = []any{
	"Attempt ID", "Email", "Full Name", "Score", "Total Questions",
	"Percentage", "Grade", "Passed", "Time Taken (s)", "Completed At",
}

// WriteAttempts writes one row per attempt, preceded by a header row.
func WriteAttempts(w io.Writer, rows []repository.AttemptExportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, r := range rows {
		pct := service.Percentage(r.Score, r.TotalQuestions)
		row := []any{
			r.AttemptID.String(),
			r.Email,
			r.FullName,
			r.Score,
			r.TotalQuestions,
			pct,
			string(service.GradeFor(pct)),
			pct >= model.PassPercentage,
			r.TimeTaken,
			r.CompletedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}

	_, err := f.WriteTo(w)
	return err
}
