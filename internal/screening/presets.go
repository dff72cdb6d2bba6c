package screening

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnknownVertical        = errors.New("unknown vertical")
	ErrUnknownPreset          = errors.New("unknown preset")
	ErrPresetVerticalMismatch = errors.New("preset belongs to a different vertical")
)

// RuleOverrides is the subset of vertical rules a preset may replace. Nil
// pointers and nil slices mean "use the vertical's value".
type RuleOverrides struct {
	MinScore            *float64 `json:"min_score,omitempty"`
	AllowedCountries    []string `json:"allowed_countries,omitempty"`
	IncludeKeywords     []string `json:"include_keywords,omitempty"`
	ExcludeKeywords     []string `json:"exclude_keywords,omitempty"`
	MinYearsExperience  *int     `json:"min_years_experience,omitempty"`
	RequireCurrentRole  *bool    `json:"require_current_role,omitempty"`
	CurrentRoleKeywords []string `json:"current_role_keywords,omitempty"`
}

// FilterPreset is a named variant of a vertical's rules.
type FilterPreset struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	VerticalID  string         `json:"vertical_id"`
	Strict      bool           `json:"strict"`
	Overrides   *RuleOverrides `json:"overrides,omitempty"`
}

func (p FilterPreset) clone() FilterPreset {
	if p.Overrides != nil {
		o := *p.Overrides
		o.AllowedCountries = cloneStrings(o.AllowedCountries)
		o.IncludeKeywords = cloneStrings(o.IncludeKeywords)
		o.ExcludeKeywords = cloneStrings(o.ExcludeKeywords)
		o.CurrentRoleKeywords = cloneStrings(o.CurrentRoleKeywords)
		if o.MinScore != nil {
			o.MinScore = ptr(*o.MinScore)
		}
		if o.MinYearsExperience != nil {
			o.MinYearsExperience = ptr(*o.MinYearsExperience)
		}
		if o.RequireCurrentRole != nil {
			o.RequireCurrentRole = ptr(*o.RequireCurrentRole)
		}
		p.Overrides = &o
	}
	return p
}

func ptr[T any](v T) *T { return &v }

var presets = buildPresets(
	FilterPreset{
		ID:          "education-qualified-teachers",
		Name:        "Qualified teachers",
		Description: "Degree-holding teachers with classroom experience",
		VerticalID:  "education",
		Strict:      true,
		Overrides: &RuleOverrides{
			MinScore:           ptr(7.0),
			MinYearsExperience: ptr(1),
			RequireCurrentRole: ptr(true),
		},
	},
	FilterPreset{
		ID:          "education-newly-qualified",
		Name:        "Newly qualified teachers",
		Description: "Graduates starting their teaching career",
		VerticalID:  "education",
		Strict:      false,
		Overrides: &RuleOverrides{
			MinScore:           ptr(5.0),
			MinYearsExperience: ptr(0),
		},
	},
	FilterPreset{
		ID:          "tech-junior",
		Name:        "Junior engineers",
		Description: "Entry level developers, no experience threshold",
		VerticalID:  "tech",
		Strict:      false,
		Overrides: &RuleOverrides{
			MinScore:           ptr(5.0),
			MinYearsExperience: ptr(0),
			RequireCurrentRole: ptr(false),
		},
	},
	FilterPreset{
		ID:          "tech-senior",
		Name:        "Senior engineers",
		Description: "Five or more years in an engineering role",
		VerticalID:  "tech",
		Strict:      true,
		Overrides: &RuleOverrides{
			MinScore:           ptr(8.0),
			MinYearsExperience: ptr(5),
			RequireCurrentRole: ptr(true),
		},
	},
	FilterPreset{
		ID:          "tech-remote-europe",
		Name:        "Remote (Europe)",
		Description: "Engineers based in the EU or UK",
		VerticalID:  "tech",
		Strict:      false,
		Overrides: &RuleOverrides{
			AllowedCountries: []string{"united kingdom", "uk", "ireland", "germany", "netherlands", "poland", "portugal", "spain", "france", "romania"},
		},
	},
	FilterPreset{
		ID:          "healthcare-registered-nurses",
		Name:        "Registered nurses",
		Description: "Registered nurses currently in a clinical role",
		VerticalID:  "healthcare",
		Strict:      true,
		Overrides: &RuleOverrides{
			MinYearsExperience:  ptr(2),
			RequireCurrentRole:  ptr(true),
			IncludeKeywords:     []string{"registered nurse", "rn", "nmc", "nursing"},
			CurrentRoleKeywords: []string{"nurse"},
		},
	},
	FilterPreset{
		ID:          "finance-analysts",
		Name:        "Financial analysts",
		Description: "Analysts with modelling experience",
		VerticalID:  "finance",
		Strict:      false,
		Overrides: &RuleOverrides{
			IncludeKeywords: []string{"analyst", "financial modelling", "financial modeling", "excel", "valuation"},
		},
	},
)

func buildPresets(list ...FilterPreset) map[string]FilterPreset {
	m := make(map[string]FilterPreset, len(list))
	for _, p := range list {
		if _, ok := verticals[p.VerticalID]; !ok {
			panic("screening: preset " + p.ID + " references unknown vertical " + p.VerticalID)
		}
		if _, dup := m[p.ID]; dup {
			panic("screening: duplicate preset " + p.ID)
		}
		m[p.ID] = p
	}
	return m
}

// Preset returns a copy of the built-in preset with the given id.
func Preset(id string) (FilterPreset, bool) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return FilterPreset{}, false
	}
	return p.clone(), true
}

// Presets lists every built-in preset ordered by vertical, then id.
func Presets() []FilterPreset {
	return PresetsForVertical("")
}

// PresetsForVertical lists the presets owned by verticalID. An empty id
// returns all presets.
func PresetsForVertical(verticalID string) []FilterPreset {
	verticalID = strings.ToLower(strings.TrimSpace(verticalID))
	out := make([]FilterPreset, 0, len(presets))
	for _, p := range presets {
		if verticalID != "" && p.VerticalID != verticalID {
			continue
		}
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VerticalID != out[j].VerticalID {
			return out[i].VerticalID < out[j].VerticalID
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Rules is the effective rule set after a preset has been layered over
// its vertical.
type Rules struct {
	VerticalID             string   `json:"vertical_id"`
	PresetID               string   `json:"preset_id,omitempty"`
	Strict                 bool     `json:"strict"`
	AllowedCountries       []string `json:"allowed_countries"`
	MinScore               float64  `json:"min_score"`
	IncludeKeywords        []string `json:"include_keywords"`
	ExcludeKeywords        []string `json:"exclude_keywords"`
	RequiredQualifications []string `json:"required_qualifications"`
	MinYearsExperience     int      `json:"min_years_experience"`
	RequireCurrentRole     bool     `json:"require_current_role"`
	CurrentRoleKeywords    []string `json:"current_role_keywords"`
}

// ResolveRules merges the preset's overrides onto the vertical's defaults.
// An empty presetID yields the vertical defaults, which are evaluated
// strictly. Overridden fields are not checked for consistency with the
// rest of the vertical. Keyword matchers for the result are compiled here,
// once, rather than on every Evaluate.
func ResolveRules(verticalID, presetID string) (Rules, error) {
	rules, err := mergeRules(verticalID, presetID)
	if err != nil {
		return Rules{}, err
	}
	compileKeywords(rules)
	return rules, nil
}

func mergeRules(verticalID, presetID string) (Rules, error) {
	v, ok := Vertical(verticalID)
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownVertical, verticalID)
	}

	rules := Rules{
		VerticalID:             v.ID,
		Strict:                 true,
		AllowedCountries:       v.AllowedCountries,
		MinScore:               v.MinScore,
		IncludeKeywords:        v.IncludeKeywords,
		ExcludeKeywords:        v.ExcludeKeywords,
		RequiredQualifications: v.RequiredQualifications,
		MinYearsExperience:     v.MinYearsExperience,
		RequireCurrentRole:     v.RequireCurrentRole,
		CurrentRoleKeywords:    v.CurrentRoleKeywords,
	}

	if strings.TrimSpace(presetID) == "" {
		return rules, nil
	}

	p, ok := Preset(presetID)
	if !ok {
		return Rules{}, fmt.Errorf("%w: %q", ErrUnknownPreset, presetID)
	}
	if p.VerticalID != v.ID {
		return Rules{}, fmt.Errorf("%w: %q is a %s preset", ErrPresetVerticalMismatch, p.ID, p.VerticalID)
	}

	rules.PresetID = p.ID
	rules.Strict = p.Strict

	o := p.Overrides
	if o == nil {
		return rules, nil
	}
	if o.MinScore != nil {
		rules.MinScore = *o.MinScore
	}
	if o.AllowedCountries != nil {
		rules.AllowedCountries = o.AllowedCountries
	}
	if o.IncludeKeywords != nil {
		rules.IncludeKeywords = o.IncludeKeywords
	}
	if o.ExcludeKeywords != nil {
		rules.ExcludeKeywords = o.ExcludeKeywords
	}
	if o.MinYearsExperience != nil {
		rules.MinYearsExperience = *o.MinYearsExperience
	}
	if o.RequireCurrentRole != nil {
		rules.RequireCurrentRole = *o.RequireCurrentRole
	}
	if o.CurrentRoleKeywords != nil {
		rules.CurrentRoleKeywords = o.CurrentRoleKeywords
	}

	return rules, nil
}
