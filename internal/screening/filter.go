package screening

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"recruitdesk/cv-intake/internal/models"
)

// Evaluation is the outcome of checking one candidate against a rule set.
type Evaluation struct {
	Passed          bool                `json:"passed"`
	Score           float64             `json:"score"`
	YearsExperience int                 `json:"years_experience"`
	Experience      string              `json:"experience"`
	Degree          string              `json:"degree"`
	Subject         string              `json:"subject"`
	Qualification   QualificationStatus `json:"qualification"`
	Failures        []string            `json:"failures,omitempty"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// Evaluated pairs a candidate row with its evaluation.
type Evaluated struct {
	models.CandidateRow
	Evaluation Evaluation `json:"evaluation"`
}

// Evaluate checks c against rules. Include-keyword and current-role misses
// only fail strict rule sets; otherwise they are reported as warnings.
func Evaluate(c models.CandidateData, rules Rules) Evaluation {
	profile := strings.ToLower(c.ProfileText())
	qualText := QualificationText(c)

	ev := Evaluation{
		YearsExperience: YearsExperience(profile),
		Experience:      ExtractYearsExperience(profile),
		Degree:          ExtractDegree(string(c.EducationalQualifications)),
		Subject:         ExtractSubject(string(c.EducationalQualifications) + "\n" + string(c.JobHistory)),
		Qualification:   ClassifyQualification(qualText),
	}
	if ev.Degree == NoDegree && ev.Qualification == QualificationCompleted {
		ev.Degree = ExtractDegree(qualText)
	}

	soft := func(msg string) {
		if rules.Strict {
			ev.Failures = append(ev.Failures, msg)
		} else {
			ev.Warnings = append(ev.Warnings, msg)
		}
	}

	score, ok := c.ScoreValue()
	ev.Score = score
	switch {
	case !ok:
		ev.Failures = append(ev.Failures, "score missing")
	case score < rules.MinScore:
		ev.Failures = append(ev.Failures, fmt.Sprintf("score %.1f below minimum %.1f", score, rules.MinScore))
	}

	if len(rules.AllowedCountries) > 0 && !containsAny(strings.ToLower(string(c.Countries)), rules.AllowedCountries) {
		ev.Failures = append(ev.Failures, "country not allowed")
	}

	if kw, hit := firstMatch(profile, rules.ExcludeKeywords); hit {
		ev.Failures = append(ev.Failures, fmt.Sprintf("excluded keyword %q", kw))
	}

	if len(rules.IncludeKeywords) > 0 && !containsAny(profile, rules.IncludeKeywords) {
		soft("no matching keywords")
	}

	for _, q := range rules.RequiredQualifications {
		q = strings.ToLower(strings.TrimSpace(q))
		if q == "" {
			continue
		}
		if q == QualificationDegree {
			if ev.Qualification != QualificationCompleted {
				ev.Failures = append(ev.Failures, fmt.Sprintf("no completed degree (%s)", ev.Qualification))
			}
			continue
		}
		if !containsAny(qualText, []string{q}) {
			ev.Failures = append(ev.Failures, fmt.Sprintf("missing qualification %q", q))
		}
	}

	if ev.YearsExperience < rules.MinYearsExperience {
		ev.Failures = append(ev.Failures, fmt.Sprintf("%d years experience, need %d", ev.YearsExperience, rules.MinYearsExperience))
	}

	if rules.RequireCurrentRole {
		role := CurrentRole(string(c.JobHistory))
		switch {
		case role == "":
			soft("no current role")
		case len(rules.CurrentRoleKeywords) > 0 && !containsAny(strings.ToLower(role), rules.CurrentRoleKeywords):
			soft(fmt.Sprintf("current role %q does not match", role))
		}
	}

	ev.Passed = len(ev.Failures) == 0
	return ev
}

// CurrentRole returns the first entry of a job history: the text up to the
// first line break or semicolon.
func CurrentRole(history string) string {
	history = strings.TrimSpace(history)
	if i := strings.IndexAny(history, "\n;"); i >= 0 {
		history = history[:i]
	}
	return strings.TrimSpace(history)
}

// Rank orders evaluated candidates: passed first, then by score, then by
// upload time, newest first.
func Rank(list []Evaluated) {
	sort.SliceStable(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Evaluation.Passed != b.Evaluation.Passed {
			return a.Evaluation.Passed
		}
		if a.Evaluation.Score != b.Evaluation.Score {
			return a.Evaluation.Score > b.Evaluation.Score
		}
		return a.UploadedAt.After(b.UploadedAt)
	})
}

var keywordCache sync.Map // lowercase keyword -> *regexp.Regexp

// keywordRegexp matches kw as a whole token. Letters, digits and underscore
// on either side break the match; anything else is a boundary, so keywords
// such as "c++" or ".net" work.
func keywordRegexp(kw string) *regexp.Regexp {
	if re, ok := keywordCache.Load(kw); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(`(?:^|[^\pL\pN_])` + regexp.QuoteMeta(kw) + `(?:$|[^\pL\pN_])`)
	actual, _ := keywordCache.LoadOrStore(kw, re)
	return actual.(*regexp.Regexp)
}

// compileKeywords warms the keyword cache for every list in rules.
func compileKeywords(rules Rules) {
	for _, list := range [][]string{
		rules.AllowedCountries,
		rules.IncludeKeywords,
		rules.ExcludeKeywords,
		rules.RequiredQualifications,
		rules.CurrentRoleKeywords,
	} {
		for _, kw := range list {
			if kw = normalizeKeyword(kw); kw != "" {
				keywordRegexp(kw)
			}
		}
	}
}

func normalizeKeyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

func containsAny(text string, keywords []string) bool {
	_, ok := firstMatch(text, keywords)
	return ok
}

// firstMatch looks for whole-word, case-insensitive keyword hits. text must
// already be lowercase.
func firstMatch(text string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		kw = normalizeKeyword(kw)
		if kw == "" {
			continue
		}
		if keywordRegexp(kw).MatchString(text) {
			return kw, true
		}
	}
	return "", false
}
