package screening

import (
	"testing"

	"recruitdesk/cv-intake/internal/models"
)

func TestHasQualifyingDegree_InProgressWins(t *testing.T) {
	tests := []string{
		"bachelor of education (in progress)",
		"currently studying for a bsc in mathematics",
		"ba english, expected graduation 2025",
		"final year bsc student at leeds",
		"msc data science - graduating 2026",
		"2nd year student of ba primary education",
		"pursuing a degree in history, tefl certificate",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if HasQualifyingDegree(text) {
				t.Errorf("HasQualifyingDegree(%q) = true, want false", text)
			}
			if got := ClassifyQualification(text); got != QualificationInProgress {
				t.Errorf("ClassifyQualification(%q) = %q, want %q", text, got, QualificationInProgress)
			}
		})
	}
}

func TestHasQualifyingDegree_CompletedDegree(t *testing.T) {
	tests := []string{
		"bsc mathematics",
		"ba (hons) english literature, tefl certificate",
		"pgce secondary science; celta",
		"master of arts in history",
		"phd in chemistry",
		"b.ed primary education",
		"BA History, University of Cape Town",
		"diploma in teaching, bachelor of science",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			if !HasQualifyingDegree(text) {
				t.Errorf("HasQualifyingDegree(%q) = false, want true", text)
			}
		})
	}
}

func TestClassifyQualification(t *testing.T) {
	tests := []struct {
		name string
		text string
		want QualificationStatus
	}{
		{name: "empty", text: "", want: QualificationNone},
		{name: "whitespace", text: "  \n\t ", want: QualificationNone},
		{name: "certificate only", text: "tefl certificate, 120 hours", want: QualificationCertificateOnly},
		{name: "diploma only", text: "level 3 diploma in childcare", want: QualificationCertificateOnly},
		{name: "school leaver", text: "gcse maths and english", want: QualificationNone},
		{name: "degree", text: "msc physics", want: QualificationCompleted},
		{name: "first year in a job", text: "bachelor of education, 2015. first year of teaching at st mary's school", want: QualificationCompleted},
		{name: "final year project", text: "bsc computer science (2018). final year project on compilers", want: QualificationCompleted},
		{name: "first year of degree", text: "ba primary education, first year of my degree", want: QualificationInProgress},
		{name: "final year of course", text: "bed foundation phase; final year of the course", want: QualificationInProgress},
		{name: "med as a word", text: "med school nurse", want: QualificationNone},
		{name: "ma as a name", text: "teacher at school ma", want: QualificationNone},
		{name: "bed as a word", text: "ward nurse, hospital bed manager", want: QualificationNone},
		{name: "med with subject", text: "med in educational leadership", want: QualificationCompleted},
		{name: "bed opening a clause", text: "bed foundation phase, university of pretoria; tefl certificate", want: QualificationCompleted},
		{name: "certificate with stray ma", text: "tefl certificate. reference: ma", want: QualificationCertificateOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyQualification(tt.text); got != tt.want {
				t.Errorf("ClassifyQualification(%q) = %q, want %q", tt.text, got, tt.want)
			}
			if tt.want != QualificationCompleted && HasQualifyingDegree(tt.text) {
				t.Errorf("HasQualifyingDegree(%q) = true, want false", tt.text)
			}
		})
	}
}

func TestQualificationTextLowercasesAndJoins(t *testing.T) {
	c := models.CandidateData{
		EducationalQualifications: "BSc Physics",
		JobHistory:                "Science Teacher",
		SkillSet:                  "Ignored",
	}

	got := QualificationText(c)
	if got != "bsc physics\nscience teacher" {
		t.Errorf("QualificationText() = %q", got)
	}
}
