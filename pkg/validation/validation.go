// Package validation checks user-supplied bubble attributes before they reach the store.
//
// Only recognized fields are kept. Each field is checked for minimum length,
// maximum length and format, in that order, and the first failing check is
// reported. The individual checks are go-playground/validator tags so the
// same rules can be reused for struct-tag validation elsewhere.
package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/soundprediction/bubbles/pkg/types"
)

// TitleTag is the validator tag registered for the bubble title pattern.
const TitleTag = "bubbletitle"

var titlePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Rule describes the constraints on one recognized field.
type Rule struct {
	Field       string
	Required    bool
	MinLength   int
	MaxLength   int
	PatternTag  string
	Requirement string
}

// Rules lists the recognized fields. Anything not listed here is dropped.
var Rules = []Rule{
	{
		Field:       "title",
		Required:    true,
		MinLength:   2,
		MaxLength:   55,
		PatternTag:  TitleTag,
		Requirement: "2-55 characters; letters, numbers, and underscores.",
	},
}

// Validator applies Rules using a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
	rules    []Rule
}

var (
	instance *Validator
	once     sync.Once
)

// Default returns the shared validator instance.
func Default() *Validator {
	once.Do(func() {
		instance = New(Rules)
	})
	return instance
}

// New creates a validator for the given rules.
func New(rules []Rule) *Validator {
	v := validator.New()
	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation(TitleTag, func(fl validator.FieldLevel) bool {
		return titlePattern.MatchString(fl.Field().String())
	})
	return &Validator{validate: v, rules: rules}
}

// Validate runs the default validator. See (*Validator).Validate.
func Validate(attrs types.Attributes, requireAll bool) (types.Attributes, error) {
	return Default().Validate(attrs, requireAll)
}

// Validate returns the sanitized subset of attrs, or a validation error for
// the first field that fails. When requireAll is false, missing required
// fields are allowed so partial updates pass.
func (v *Validator) Validate(attrs types.Attributes, requireAll bool) (types.Attributes, error) {
	out := types.Attributes{}
	for _, rule := range v.rules {
		raw, present := attrs[rule.Field]
		if !present || raw == nil || raw == "" {
			if requireAll && rule.Required {
				return nil, types.NewValidationError(fmt.Sprintf("Missing %s (required).", rule.Field))
			}
			continue
		}

		value, ok := raw.(string)
		if !ok {
			return nil, v.failure(rule, "format")
		}
		if err := v.check(rule, value); err != nil {
			return nil, err
		}
		out[rule.Field] = value
	}
	return out, nil
}

func (v *Validator) check(rule Rule, value string) error {
	if rule.MinLength > 0 && v.validate.Var(value, "min="+strconv.Itoa(rule.MinLength)) != nil {
		return v.failure(rule, "too short")
	}
	if rule.MaxLength > 0 && v.validate.Var(value, "max="+strconv.Itoa(rule.MaxLength)) != nil {
		return v.failure(rule, "too long")
	}
	if rule.PatternTag != "" && v.validate.Var(value, rule.PatternTag) != nil {
		return v.failure(rule, "format")
	}
	return nil
}

func (v *Validator) failure(rule Rule, kind string) error {
	return types.NewValidationError(fmt.Sprintf("Invalid %s (%s). Requirements: %s", rule.Field, kind, rule.Requirement))
}
