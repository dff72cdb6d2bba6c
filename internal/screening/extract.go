package screening

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	NoDegree            = "No Degree"
	NewlyQualified      = "Newly Qualified"
	SubjectNotSpecified = "Subject not specified"
)

var degreePatterns = compileAll(
	`(?i)\b(bachelor(?:'?s)?(?:\s+degree)?\s+(?:of|in)\s+[a-z]+(?:\s+(?:in|of|and)\s+[a-z]+)?)`,
	`(?i)\b(master(?:'?s)?(?:\s+degree)?\s+(?:of|in)\s+[a-z]+(?:\s+(?:in|of|and)\s+[a-z]+)?)`,
	`(?i)\b(ph\.?\s?d\.?|doctorate)`,
	`(?i)\b(pgce|pgde)\b`,
	`(?i)\b(mba|m\.?sc|m\.ed|m\.a\.?|b\.ed|b\.?sc|b\.a\.?|b\.?eng|b\.?com|llb)\b`,
	`(?i)\b(ba|ma|bed|med)(?:\s*\(|\s+(?:in|of|hons|honours)\b)`,
	`(?i)(?:^|[\n,;:(/•-]\s*)(ba|ma|bed)\s+[a-z]{4,}`,
	`(?i)\b((?:university|undergraduate|postgraduate)\s+degree)\b`,
)

// ExtractDegree returns the first degree mentioned in text, trying the
// patterns from most to least specific.
func ExtractDegree(text string) string {
	for _, re := range degreePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return collapseSpace(m[1])
		}
	}
	return NoDegree
}

var experiencePatterns = compileAll(
	`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)['’]?\s+(?:of\s+)?(?:[a-z]+\s+)?experience`,
	`(?i)experience\s*(?:of|:)?\s*(\d{1,2})\+?\s*(?:years?|yrs?)['’]?`,
	`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)['’]?\s+(?:of\s+)?(?:teaching|working|industry|professional|clinical|commercial)`,
	`(?i)(\d{1,2})\+?\s*(?:years?|yrs?)['’]?\s+(?:as\s+an?|in\s+(?:the\s+)?(?:role|industry|field))`,
)

// YearsExperience returns the largest number of years found by any
// experience pattern, or 0.
func YearsExperience(text string) int {
	best := 0
	for _, re := range experiencePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			n, err := strconv.Atoi(m[1])
			if err == nil && n > best {
				best = n
			}
		}
	}
	return best
}

// ExtractYearsExperience formats YearsExperience for display.
func ExtractYearsExperience(text string) string {
	n := YearsExperience(text)
	switch {
	case n <= 0:
		return NewlyQualified
	case n == 1:
		return "1 year"
	default:
		return fmt.Sprintf("%d years", n)
	}
}

type subject struct {
	name     string
	keywords *regexp.Regexp
}

// Specific subjects come before the general ones they contain, e.g.
// computer science before science.
var subjects = []subject{
	{"Computer Science", regexp.MustCompile(`(?i)\b(computer science|computing|ict|information technology)\b`)},
	{"Mathematics", regexp.MustCompile(`(?i)\b(mathematics|maths|math|statistics)\b`)},
	{"Physics", regexp.MustCompile(`(?i)\bphysics\b`)},
	{"Chemistry", regexp.MustCompile(`(?i)\bchemistry\b`)},
	{"Biology", regexp.MustCompile(`(?i)\b(biology|biological sciences)\b`)},
	{"Science", regexp.MustCompile(`(?i)\b(science|sciences)\b`)},
	{"English", regexp.MustCompile(`(?i)\b(english|literature|esl|efl)\b`)},
	{"Modern Foreign Languages", regexp.MustCompile(`(?i)\b(french|spanish|german|italian|mandarin|mfl|modern languages)\b`)},
	{"History", regexp.MustCompile(`(?i)\bhistory\b`)},
	{"Geography", regexp.MustCompile(`(?i)\bgeography\b`)},
	{"Religious Education", regexp.MustCompile(`(?i)\b(religious education|religious studies|theology)\b`)},
	{"Economics", regexp.MustCompile(`(?i)\beconomics\b`)},
	{"Business Studies", regexp.MustCompile(`(?i)\b(business studies|business)\b`)},
	{"Physical Education", regexp.MustCompile(`(?i)\b(physical education|pe teacher|sports science)\b`)},
	{"Art and Design", regexp.MustCompile(`(?i)\b(art and design|fine art|art)\b`)},
	{"Music", regexp.MustCompile(`(?i)\bmusic\b`)},
	{"Drama", regexp.MustCompile(`(?i)\b(drama|theatre)\b`)},
	{"Special Educational Needs", regexp.MustCompile(`(?i)\b(sen|send|special educational needs|special needs)\b`)},
	{"Early Years", regexp.MustCompile(`(?i)\b(early years|eyfs|nursery|kindergarten)\b`)},
	{"Primary", regexp.MustCompile(`(?i)\bprimary\b`)},
}

// ExtractSubject returns the first subject in table order whose keywords
// appear in text.
func ExtractSubject(text string) string {
	for _, s := range subjects {
		if s.keywords.MatchString(text) {
			return s.name
		}
	}
	return SubjectNotSpecified
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
