package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Text is a free-text field produced by the extraction pipeline. The
// pipeline is not strict about types, so numbers, booleans and lists of
// strings are accepted and flattened into a single string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(string(item)); s != "" {
				parts = append(parts, s)
			}
		}
		*t = Text(strings.Join(parts, "; "))
	default:
		// numbers, booleans and nested objects are kept verbatim
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// CandidateData is the structured candidate extracted from a CV. Every
// field is untrusted free text.
type CandidateData struct {
	Name                      Text `json:"name"`
	Email                     Text `json:"email"`
	ContactNumber             Text `json:"contact_number"`
	EducationalQualifications Text `json:"educational_qualifications"`
	JobHistory                Text `json:"job_history"`
	SkillSet                  Text `json:"skill_set"`
	Score                     Text `json:"score"`
	Justification             Text `json:"justification"`
	Countries                 Text `json:"countries"`
}

var leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// ScoreValue parses the first number in the score field, so "7/10" and
// "Score: 8.5" both work.
func (c CandidateData) ScoreValue() (float64, bool) {
	m := leadingNumber.FindString(string(c.Score))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ProfileText joins every descriptive field for keyword matching.
func (c CandidateData) ProfileText() string {
	return strings.Join([]string{
		string(c.EducationalQualifications),
		string(c.JobHistory),
		string(c.SkillSet),
		string(c.Justification),
	}, "\n")
}

// CandidateRow is one entry returned by the date-bucketed query endpoints.
type CandidateRow struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	FileURL          string         `json:"file_url"`
	OriginalFilename string         `json:"original_filename"`
	Source           string         `json:"source,omitempty"`
	UploadedAt       time.Time      `json:"uploaded_at"`
	ReceivedAt       *time.Time     `json:"received_at,omitempty"`
	ProcessingStatus string         `json:"processing_status"`
	Candidate        *CandidateData `json:"extracted_json,omitempty"`
}

func (r CandidateRow) String() string {
	name := ""
	if r.Candidate != nil {
		name = string(r.Candidate.Name)
	}
	return fmt.Sprintf("%s (%s, %s)", r.OriginalFilename, name, r.ProcessingStatus)
}
