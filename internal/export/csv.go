package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes rows with a header line. Cells that a spreadsheet would
// evaluate as a formula are prefixed with a quote.
func WriteCSV(w io.Writer, rows []Row) error {
	evaluated := hasEvaluation(rows)

	cw := csv.NewWriter(w)
	if err := cw.Write(Columns(evaluated)); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for i, r := range rows {
		if err := cw.Write(sanitize(Record(r, evaluated))); err != nil {
			return fmt.Errorf("failed to write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func sanitize(rec []string) []string {
	for i, cell := range rec {
		if cell == "" {
			continue
		}
		switch cell[0] {
		case '=', '+', '-', '@', '\t', '\r':
			rec[i] = "'" + cell
		}
	}
	return rec
}
