package validator

import (
	"errors"
	"testing"

	"recruitdesk/cv-intake/internal/models"
)

func TestValidateRangeQuery(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		query  models.RangeQuery
		fields []string
	}{
		{name: "valid", query: models.RangeQuery{From: "2024-01-15", To: "2024-01-16"}},
		{name: "missing", query: models.RangeQuery{}, fields: []string{"from", "to"}},
		{name: "bad format", query: models.RangeQuery{From: "15/01/2024", To: "2024-01-16"}, fields: []string{"from"}},
		{name: "limit too big", query: models.RangeQuery{From: "2024-01-15", To: "2024-01-16", Limit: 1000}, fields: []string{"limit"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.query)
			if len(tt.fields) == 0 {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if len(ve.Errors) != len(tt.fields) {
				t.Fatalf("errors = %v, want fields %v", ve.Errors, tt.fields)
			}
			for _, f := range tt.fields {
				if _, ok := ve.Errors[f]; !ok {
					t.Errorf("missing error for %s in %v", f, ve.Errors)
				}
			}
		})
	}
}

func TestValidateCustomRules(t *testing.T) {
	type screen struct {
		Vertical string `json:"vertical" validate:"required,vertical"`
		Preset   string `json:"preset" validate:"preset"`
	}
	v := New()

	if err := v.Validate(screen{Vertical: "tech", Preset: "tech-junior"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v.Validate(screen{Vertical: "tech"}); err != nil {
		t.Fatalf("empty preset should be allowed: %v", err)
	}

	err := v.Validate(screen{Vertical: "mining", Preset: "nope"})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Errors["vertical"] != "unknown vertical" || ve.Errors["preset"] != "unknown preset" {
		t.Errorf("unexpected errors: %v", ve.Errors)
	}
}
