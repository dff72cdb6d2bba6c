package screening

import (
	"regexp"
	"strings"

	"recruitdesk/cv-intake/internal/models"
)

type QualificationStatus string

const (
	QualificationNone            QualificationStatus = "none"
	QualificationInProgress      QualificationStatus = "in_progress"
	QualificationCompleted       QualificationStatus = "completed"
	QualificationCertificateOnly QualificationStatus = "certificate_only"
)

type qualificationRule struct {
	status   QualificationStatus
	patterns []*regexp.Regexp
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// Evaluated in order, first match wins. In-progress study must come before
// degrees: "bachelor of education (in progress)" is not a completed degree.
var qualificationRules = []qualificationRule{
	{
		status: QualificationInProgress,
		patterns: compileAll(
			`\bcurrently\s+(studying|enrolled|pursuing|completing|undertaking)\b`,
			`\bstudying\s+(for|towards|toward)\b`,
			`\bin[\s-]progress\b`,
			`\b(degree|studies|course)\s+ongoing\b`,
			`\bpursuing\s+(a\s+|an\s+|my\s+)?(degree|bachelor|master|ba|bsc|ma|msc|pgce|phd|qualification|studies)\b`,
			`\bexpected\s+(graduation|to\s+graduate|completion|to\s+complete|in\s+20\d\d|20\d\d)\b`,
			`\bgraduating\s+(in\s+)?20\d\d\b`,
			`\bfinal[\s-]year\s+([a-z.]+\s+)?(student|undergraduate)\b`,
			`\bfinal[\s-]year\s+of\s+(my\s+|a\s+|the\s+)?(degree|course|studies|study|university|ba|bsc|bed|ma|msc|pgce|bachelor'?s?|master'?s?)\b`,
			`\b(1st|2nd|3rd|first|second|third)[\s-]year\s+([a-z.]+\s+)?(student|undergraduate)\b`,
			`\b(1st|2nd|3rd|first|second|third)[\s-]year\s+of\s+(my\s+|a\s+|the\s+)?(degree|course|studies|study|university|ba|bsc|bed|ma|msc|pgce|bachelor'?s?|master'?s?)\b`,
			`\b(undergraduate|university|college)\s+student\b`,
			`\b(incomplete|uncompleted|not\s+completed|did\s+not\s+complete)\b`,
			`\bno\s+(university\s+|formal\s+)?degree\b`,
		),
	},
	{
		status: QualificationCompleted,
		patterns: compileAll(
			`\bbachelor('?s)?\b`,
			`\bmaster('?s)?\s+(of|in|degree)\b`,
			`\b(bsc|beng|bcom|btech|llb)\b`,
			`\bb\.\s?(a|sc|ed|eng|com|tech)\b`,
			`\b(msc|mba|meng|mphil|mres|llm)\b`,
			// ba, ma, bed and med are ordinary words or names too. They count
			// before "(hons)", "in" or "of"; ba, ma and bed also count when
			// they open a clause.
			`\b(ba|ma|bed|med)\s*\(`,
			`\b(ba|ma|bed|med)\s+(in|of|hons|honours)\b`,
			`(^|[\n,;:(/•-]\s*)(ba|ma|bed)\s+[a-z]{4,}`,
			`\bm\.\s?(a|sc|ed|ba|eng)\b`,
			`\b(pgce|pgde|pgdip)\b`,
			`\bph\.?\s?d\b`,
			`\bdoctorate\b`,
			`\b(honours|hons)\b`,
			`\b(university|undergraduate|postgraduate|bachelor'?s|master'?s)\s+degree\b`,
			`\bdegree\s+in\b`,
		),
	},
	{
		status: QualificationCertificateOnly,
		patterns: compileAll(
			`\btefl\b`,
			`\btesol\b`,
			`\bcelta\b`,
			`\bdiploma\b`,
			`\bcertificate\b`,
			`\bcertification\b`,
		),
	},
}

// ClassifyQualification reports what the free text says about the
// candidate's highest qualification.
func ClassifyQualification(text string) QualificationStatus {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return QualificationNone
	}

	for _, rule := range qualificationRules {
		for _, re := range rule.patterns {
			if re.MatchString(text) {
				return rule.status
			}
		}
	}
	return QualificationNone
}

// HasQualifyingDegree is true when the text mentions a completed degree and
// nothing suggesting the study is still in progress. Certificates alongside
// a degree do not matter.
func HasQualifyingDegree(text string) bool {
	return ClassifyQualification(text) == QualificationCompleted
}

// QualificationText is the lowercase education and employment text the
// matcher runs over.
func QualificationText(c models.CandidateData) string {
	return strings.ToLower(strings.Join([]string{
		string(c.EducationalQualifications),
		string(c.JobHistory),
	}, "\n"))
}
