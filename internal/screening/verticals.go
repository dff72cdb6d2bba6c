// Package screening holds the rule tables and matchers used to filter and
// score extracted candidates: industry verticals, the presets layered on
// top of them, the qualification matcher and the free-text field
// extractors. Everything here is pure and safe for concurrent use.
package screening

import (
	"sort"
	"strings"
)

// QualificationDegree is the required-qualification token that is checked
// with the degree matcher instead of a keyword search.
const QualificationDegree = "degree"

// VerticalConfig is the default rule profile for one industry.
type VerticalConfig struct {
	ID                     string   `json:"id"`
	Name                   string   `json:"name"`
	AllowedCountries       []string `json:"allowed_countries"`
	MinScore               float64  `json:"min_score"`
	IncludeKeywords        []string `json:"include_keywords"`
	ExcludeKeywords        []string `json:"exclude_keywords"`
	RequiredQualifications []string `json:"required_qualifications"`
	MinYearsExperience     int      `json:"min_years_experience"`
	RequireCurrentRole     bool     `json:"require_current_role"`
	CurrentRoleKeywords    []string `json:"current_role_keywords"`
}

func (v VerticalConfig) clone() VerticalConfig {
	v.AllowedCountries = cloneStrings(v.AllowedCountries)
	v.IncludeKeywords = cloneStrings(v.IncludeKeywords)
	v.ExcludeKeywords = cloneStrings(v.ExcludeKeywords)
	v.RequiredQualifications = cloneStrings(v.RequiredQualifications)
	v.CurrentRoleKeywords = cloneStrings(v.CurrentRoleKeywords)
	return v
}

var verticals = buildVerticals(
	VerticalConfig{
		ID:                     "education",
		Name:                   "Education",
		AllowedCountries:       []string{"united kingdom", "uk", "ireland", "south africa", "australia", "new zealand", "canada", "united states", "usa"},
		MinScore:               6,
		IncludeKeywords:        []string{"teacher", "teaching", "tutor", "school", "classroom", "curriculum", "lesson"},
		ExcludeKeywords:        []string{"teaching assistant only"},
		RequiredQualifications: []string{QualificationDegree},
		MinYearsExperience:     0,
		RequireCurrentRole:     false,
		CurrentRoleKeywords:    []string{"teacher", "tutor", "lecturer", "head of"},
	},
	VerticalConfig{
		ID:                  "tech",
		Name:                "Technology",
		AllowedCountries:    []string{"united kingdom", "uk", "ireland", "germany", "netherlands", "poland", "portugal", "spain", "united states", "usa", "canada"},
		MinScore:            7,
		IncludeKeywords:     []string{"software", "developer", "engineer", "programming", "golang", "python", "javascript", "typescript", "cloud", "devops"},
		ExcludeKeywords:     []string{"internship only"},
		MinYearsExperience:  2,
		RequireCurrentRole:  true,
		CurrentRoleKeywords: []string{"engineer", "developer", "architect", "sre", "devops", "programmer"},
	},
	VerticalConfig{
		ID:                     "healthcare",
		Name:                   "Healthcare",
		AllowedCountries:       []string{"united kingdom", "uk", "ireland", "philippines", "india", "south africa", "nigeria", "kenya"},
		MinScore:               6,
		IncludeKeywords:        []string{"nurse", "nursing", "clinical", "patient", "hospital", "ward", "care"},
		RequiredQualifications: []string{"nursing"},
		MinYearsExperience:     1,
		RequireCurrentRole:     false,
		CurrentRoleKeywords:    []string{"nurse", "midwife", "carer", "practitioner"},
	},
	VerticalConfig{
		ID:                     "finance",
		Name:                   "Finance",
		AllowedCountries:       []string{"united kingdom", "uk", "ireland", "united states", "usa", "singapore", "united arab emirates", "uae"},
		MinScore:               7,
		IncludeKeywords:        []string{"finance", "accounting", "audit", "analyst", "investment", "banking", "risk"},
		ExcludeKeywords:        []string{"bookkeeping course"},
		RequiredQualifications: []string{QualificationDegree},
		MinYearsExperience:     2,
		RequireCurrentRole:     false,
		CurrentRoleKeywords:    []string{"analyst", "accountant", "auditor", "controller"},
	},
)

func buildVerticals(list ...VerticalConfig) map[string]VerticalConfig {
	m := make(map[string]VerticalConfig, len(list))
	for _, v := range list {
		if _, dup := m[v.ID]; dup {
			panic("screening: duplicate vertical " + v.ID)
		}
		m[v.ID] = v
	}
	return m
}

// Vertical returns a copy of the vertical with the given id.
func Vertical(id string) (VerticalConfig, bool) {
	v, ok := verticals[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return VerticalConfig{}, false
	}
	return v.clone(), true
}

// Verticals lists every built-in vertical ordered by id.
func Verticals() []VerticalConfig {
	out := make([]VerticalConfig, 0, len(verticals))
	for _, v := range verticals {
		out = append(out, v.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
