package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"recruitdesk/cv-intake/internal/screening"
)

func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(fmt.Sprintf("failed to register validation tag %q: %v", tag, err))
		}
	}

	// vertical: the value names a built-in vertical
	mustRegister("vertical", validateVertical)

	// preset: the value names a built-in preset, empty allowed
	mustRegister("preset", validatePreset)
}

func validateVertical(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := screening.Vertical(value)
	return ok
}

func validatePreset(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	_, ok := screening.Preset(value)
	return ok
}
