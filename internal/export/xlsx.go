package export

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	candidatesSheet = "Candidates"
	summarySheet    = "Summary"
)

// WriteXLSX writes a workbook with a Candidates sheet and a Summary sheet.
func WriteXLSX(w io.Writer, rows []Row, title string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	if err := writeCandidatesSheet(f, rows); err != nil {
		return fmt.Errorf("failed to write candidates sheet: %w", err)
	}
	if err := writeSummarySheet(f, rows, title); err != nil {
		return fmt.Errorf("failed to write summary sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func headerStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
}

func writeCandidatesSheet(f *excelize.File, rows []Row) error {
	evaluated := hasEvaluation(rows)
	headers := Columns(evaluated)

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(candidatesSheet, "A", lastCol, 25); err != nil {
		return err
	}

	if err := f.SetSheetRow(candidatesSheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(candidatesSheet, "A1", lastCol+"1", style); err != nil {
		return err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		rec := Record(r, evaluated)
		values := make([]any, len(rec))
		for j, v := range rec {
			values[j] = v
		}
		if err := f.SetSheetRow(candidatesSheet, cell, &values); err != nil {
			return err
		}
	}

	if len(rows) > 0 {
		if err := f.SetPanes(candidatesSheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, rows []Row, title string) error {
	if err := f.SetColWidth(summarySheet, "A", "A", 25); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "B", "B", 40); err != nil {
		return err
	}

	style, err := headerStyle(f)
	if err != nil {
		return err
	}
	if title == "" {
		title = "Candidate Export"
	}
	if err := f.SetCellValue(summarySheet, "A1", title); err != nil {
		return err
	}
	if err := f.MergeCell(summarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(summarySheet, "A1", "B1", style); err != nil {
		return err
	}

	var completed, passed, scored int
	var total float64
	for _, r := range rows {
		if r.Candidate != nil {
			completed++
			if v, ok := r.Candidate.ScoreValue(); ok {
				scored++
				total += v
			}
		}
		if r.Evaluation != nil && r.Evaluation.Passed {
			passed++
		}
	}

	lines := [][2]any{
		{"Generated", time.Now().UTC().Format("2006-01-02 15:04:05")},
		{"Candidates", len(rows)},
		{"Extracted", completed},
	}
	if hasEvaluation(rows) {
		lines = append(lines, [2]any{"Passed screening", passed})
	}
	if scored > 0 {
		lines = append(lines, [2]any{"Average score", fmt.Sprintf("%.2f", total/float64(scored))})
	}

	for i, line := range lines {
		row := i + 3
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), line[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), line[1]); err != nil {
			return err
		}
	}
	return nil
}
