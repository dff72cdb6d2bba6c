// Package export renders candidate listings as CSV or XLSX files.
package export

import (
	"strconv"
	"strings"
	"time"

	"recruitdesk/cv-intake/internal/models"
	"recruitdesk/cv-intake/internal/screening"
)

// Row is one exported candidate. Evaluation is set when the listing was
// screened against a rule set.
type Row struct {
	models.CandidateRow
	Evaluation *screening.Evaluation `json:"evaluation,omitempty"`
}

func FromRows(rows []models.CandidateRow) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{CandidateRow: r}
	}
	return out
}

func FromEvaluated(list []screening.Evaluated) []Row {
	out := make([]Row, len(list))
	for i := range list {
		ev := list[i].Evaluation
		out[i] = Row{CandidateRow: list[i].CandidateRow, Evaluation: &ev}
	}
	return out
}

var baseColumns = []string{
	"Name", "Email", "Contact", "Countries", "Degree", "Subject", "Experience",
	"Score", "Qualifications", "Job History", "Skills", "File URL", "Uploaded At", "Status",
}

var evaluationColumns = []string{"Passed", "Failures", "Warnings"}

func hasEvaluation(rows []Row) bool {
	for _, r := range rows {
		if r.Evaluation != nil {
			return true
		}
	}
	return false
}

// Columns returns the header for a listing.
func Columns(evaluated bool) []string {
	cols := append([]string{}, baseColumns...)
	if evaluated {
		cols = append(cols, evaluationColumns...)
	}
	return cols
}

// Record flattens r into cells matching Columns(evaluated). Degree,
// subject and experience come from the evaluation when there is one and
// are extracted from the candidate otherwise.
func Record(r Row, evaluated bool) []string {
	c := r.Candidate
	if c == nil {
		c = &models.CandidateData{}
	}

	var degree, subject, experience string
	switch {
	case r.Evaluation != nil:
		degree, subject, experience = r.Evaluation.Degree, r.Evaluation.Subject, r.Evaluation.Experience
	case r.Candidate != nil:
		edu := string(c.EducationalQualifications)
		degree = screening.ExtractDegree(edu)
		subject = screening.ExtractSubject(edu + "\n" + string(c.JobHistory))
		experience = screening.ExtractYearsExperience(c.ProfileText())
	}

	rec := []string{
		c.Name.String(),
		c.Email.String(),
		c.ContactNumber.String(),
		c.Countries.String(),
		degree,
		subject,
		experience,
		c.Score.String(),
		c.EducationalQualifications.String(),
		c.JobHistory.String(),
		c.SkillSet.String(),
		r.FileURL,
		r.UploadedAt.UTC().Format(time.RFC3339),
		r.ProcessingStatus,
	}
	if !evaluated {
		return rec
	}
	if r.Evaluation == nil {
		return append(rec, "", "", "")
	}
	return append(rec,
		strconv.FormatBool(r.Evaluation.Passed),
		strings.Join(r.Evaluation.Failures, "; "),
		strings.Join(r.Evaluation.Warnings, "; "),
	)
}
