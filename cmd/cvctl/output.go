package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"recruitdesk/cv-intake/internal/export"
	"recruitdesk/cv-intake/internal/logger"
)

// writeOutput renders rows in the configured format to stdout or to the
// configured file.
func writeOutput(config *Config, rows []export.Row, title string) error {
	format := strings.ToLower(config.Output)
	if format == "" {
		format = "table"
	}
	if format == "xlsx" && config.Out == "" {
		return fmt.Errorf("xlsx output needs --out")
	}

	var w io.Writer = os.Stdout
	if config.Out != "" {
		f, err := os.Create(config.Out)
		if err != nil {
			return fmt.Errorf("creating %s: %w", config.Out, err)
		}
		defer f.Close()
		w = f
	}

	return render(w, format, rows, title)
}

func render(w io.Writer, format string, rows []export.Row, title string) error {
	switch format {
	case "table":
		return writeTable(w, rows)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "csv":
		return export.WriteCSV(w, rows)
	case "xlsx":
		return export.WriteXLSX(w, rows, title)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeTable(w io.Writer, rows []export.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "no candidates")
		return err
	}

	evaluated := false
	for _, r := range rows {
		if r.Evaluation != nil {
			evaluated = true
			break
		}
	}

	cols := export.Columns(evaluated)
	// name, score, degree, subject, experience, uploaded at, status
	picked := []int{0, 7, 4, 5, 6, 12, 13}
	if evaluated {
		picked = append(picked, len(cols)-3, len(cols)-2)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := make([]string, len(picked))
	for i, c := range picked {
		header[i] = strings.ToUpper(cols[c])
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, r := range rows {
		rec := export.Record(r, evaluated)
		cells := make([]string, len(picked))
		for i, c := range picked {
			cells[i] = logger.Truncate(strings.ReplaceAll(rec[c], "\t", " "), 60)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
