package validation

import (
	"regexp"
	"slices"

	"family-registry/internal/authz"
	"family-registry/internal/entities"

	"github.com/go-playground/validator/v10"
)

var iinRegex = regexp.MustCompile(`^\d{12}$`)

// registerRules регистрирует теги, которые используются в struct tags DTO
func registerRules(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"iin":              isIIN,
		"risk_level":       oneOf(entities.RiskLevels),
		"support_category": oneOf(entities.SupportCategories),
		"support_status":   oneOf(entities.SupportStatuses),
		"relation":         oneOf(entities.Relations),
		"role":             isKnownRole,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}

// IsIIN - ровно 12 цифр.
func IsIIN(s string) bool {
	return iinRegex.MatchString(s)
}

func isIIN(fl validator.FieldLevel) bool {
	return IsIIN(fl.Field().String())
}

func isKnownRole(fl validator.FieldLevel) bool {
	return authz.ParseRole(fl.Field().String()).IsValid()
}

func oneOf(allowed []string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return slices.Contains(allowed, fl.Field().String())
	}
}
