package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/screening"
)

func sampleRows() []models.CandidateRow {
	uploaded := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)
	return []models.CandidateRow{
		{
			ID:               "a",
			FileURL:          "http://localhost/files/cv_a.pdf",
			UploadedAt:       uploaded,
			ProcessingStatus: "completed",
			Candidate: &models.CandidateData{
				Name:                      "Ann Lee",
				Email:                     "ann@example.com",
				ContactNumber:             "+44 7700 900000",
				EducationalQualifications: "BSc Mathematics, PGCE",
				JobHistory:                "Maths teacher at Hill School; 6 years teaching experience",
				Score:                     "8/10",
				Countries:                 "United Kingdom",
			},
		},
		{
			ID:               "b",
			FileURL:          "http://localhost/files/cv_b.pdf",
			UploadedAt:       uploaded.Add(time.Hour),
			ProcessingStatus: "pending",
		},
	}
}

func readCSV(t *testing.T, data []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("failed to read csv: %v", err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, FromRows(sampleRows())); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	records := readCSV(t, buf.Bytes())
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}
	if got := strings.Join(records[0], ","); got != strings.Join(Columns(false), ",") {
		t.Errorf("header = %s", got)
	}

	ann := records[1]
	if ann[0] != "Ann Lee" {
		t.Errorf("name = %q", ann[0])
	}
	if ann[2] != "'+44 7700 900000" {
		t.Errorf("contact not escaped: %q", ann[2])
	}
	if ann[4] != "PGCE" || ann[5] != "Mathematics" || ann[6] != "6 years" {
		t.Errorf("extracted fields = %q, %q, %q", ann[4], ann[5], ann[6])
	}
	if ann[12] != "2024-01-15T09:30:00Z" {
		t.Errorf("uploaded at = %q", ann[12])
	}

	pending := records[2]
	if pending[0] != "" || pending[4] != "" || pending[13] != "pending" {
		t.Errorf("pending row = %q", pending)
	}
}

func TestWriteCSVWithEvaluation(t *testing.T) {
	rows := sampleRows()
	list := []screening.Evaluated{
		{CandidateRow: rows[0], Evaluation: screening.Evaluation{
			Passed:     false,
			Degree:     "Master of Education",
			Subject:    "Mathematics",
			Experience: "6 years",
			Failures:   []string{"country not allowed", "score missing"},
		}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, FromEvaluated(list)); err != nil {
		t.Fatalf("WriteCSV() failed: %v", err)
	}

	records := readCSV(t, buf.Bytes())
	header := records[0]
	if header[len(header)-3] != "Passed" {
		t.Fatalf("header = %q", header)
	}
	row := records[1]
	if row[4] != "Master of Education" {
		t.Errorf("degree should come from the evaluation, got %q", row[4])
	}
	if row[len(row)-3] != "false" || row[len(row)-2] != "country not allowed; score missing" {
		t.Errorf("evaluation cells = %q", row[len(row)-3:])
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"=HYPERLINK(\"x\")", "'=HYPERLINK(\"x\")"},
		{"+1", "'+1"},
		{"-1", "'-1"},
		{"@SUM(A1)", "'@SUM(A1)"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := sanitize([]string{tt.in})[0]; got != tt.want {
				t.Errorf("sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, FromRows(sampleRows()), "Candidates 2024-01-15"); err != nil {
		t.Fatalf("WriteXLSX() failed: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != candidatesSheet || sheets[1] != summarySheet {
		t.Fatalf("sheets = %v", sheets)
	}

	rows, err := f.GetRows(candidatesSheet)
	if err != nil {
		t.Fatalf("GetRows() failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "Name" || rows[1][0] != "Ann Lee" {
		t.Errorf("unexpected cells: %q / %q", rows[0][0], rows[1][0])
	}

	title, _ := f.GetCellValue(summarySheet, "A1")
	if title != "Candidates 2024-01-15" {
		t.Errorf("title = %q", title)
	}
	count, _ := f.GetCellValue(summarySheet, "B4")
	if count != "2" {
		t.Errorf("candidate count = %q", count)
	}
	avg, _ := f.GetCellValue(summarySheet, "B6")
	if avg != "8.00" {
		t.Errorf("average score = %q", avg)
	}
}

func TestWriteXLSXEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, nil, ""); err != nil {
		t.Fatalf("WriteXLSX() failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected a workbook")
	}
}
