package services

import (
	"fmt"
	"strings"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildCandidateExtractionPrompt asks for the structured candidate record
// stored in cv_uploads.extracted_json.
func (pb *PromptBuilder) BuildCandidateExtractionPrompt(cvText, filename string) string {
	return fmt.Sprintf(`You are an experienced recruiter reading a candidate's CV.

FILE NAME:
%s

CANDIDATE CV:
%s

Extract the candidate's details and rate the CV. Return ONLY a JSON object with exactly these keys:
{
  "name": "<full name>",
  "email": "<email address or empty string>",
  "contact_number": "<phone number or empty string>",
  "educational_qualifications": "<every degree, diploma and certificate with institution, subject and status, one per line; mark unfinished studies as in progress>",
  "job_history": "<roles from most recent to oldest, one per line as 'Title at Employer (start - end)', mention total years of experience>",
  "skill_set": "<comma separated skills>",
  "score": "<overall CV quality from 1 to 10>",
  "justification": "<2-3 sentences explaining the score>",
  "countries": "<country of residence first, then nationalities, comma separated>"
}

Use empty strings for anything the CV does not state. Do not invent information.`,
		filename, cvText)
}

// BuildSearchQuery normalizes a free-text recruiter query before embedding.
func (pb *PromptBuilder) BuildSearchQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	return "Candidate CV matching: " + q
}

// FormatSearchContext renders index hits for logs and the search response.
func FormatSearchContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "[%d] upload %s (score %.3f)\n%s\n\n", i+1, r.UploadID, r.Score, r.Text)
	}
	return strings.TrimSpace(b.String())
}
