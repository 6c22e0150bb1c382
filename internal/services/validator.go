package services

import (
	"strings"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/maoshanman/durian-order-bot/internal/models"
)

// fieldRule is one validation rule. normalize runs before the tag check only; the stored answer stays raw.
type fieldRule struct {
	tag       string
	reason    string
	normalize func(string) string
}

// FieldValidator checks raw answers against per-field rules. Fields without a rule always pass.
type FieldValidator struct {
	v     *validatorv10.Validate
	rules map[models.Field]fieldRule
}

// NewFieldValidator returns the validator with the default rule set:
// the address must be at least 10 characters once surrounding whitespace is trimmed.
func NewFieldValidator() *FieldValidator {
	fv := &FieldValidator{
		v:     validatorv10.New(),
		rules: map[models.Field]fieldRule{},
	}
	fv.Register(models.FieldAddress, "min=10", MsgInvalidAddress, strings.TrimSpace)
	return fv
}

// Register adds or replaces the rule for field. tag uses go-playground/validator syntax.
func (f *FieldValidator) Register(field models.Field, tag, reason string, normalize func(string) string) {
	f.rules[field] = fieldRule{tag: tag, reason: reason, normalize: normalize}
}

// Validate returns nil when raw is accepted, or a *ValidationError whose Reason is the re-prompt
func (f *FieldValidator) Validate(field models.Field, raw string) error {
	rule, ok := f.rules[field]
	if !ok {
		return nil
	}
	value := raw
	if rule.normalize != nil {
		value = rule.normalize(raw)
	}
	if err := f.v.Var(value, rule.tag); err != nil {
		return &ValidationError{Field: field, Reason: rule.reason}
	}
	return nil
}
