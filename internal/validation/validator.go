// Package validation wraps go-playground/validator with the custom rules used
// by the link, folder and tag schemas.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rodstewart/savlink-cli/internal/urlutil"
)

var rgbHexRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Validator wraps go-playground/validator.
type Validator struct {
	v *validator.Validate
}

// Rule is a single check against one value. Message is reported when the
// value does not satisfy Tag.
type Rule struct {
	Value   any
	Tag     string
	Message string
}

// New creates a validator with the absurl, rgbhex and notblank tags registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("mapstructure")
		if name == "" {
			name = fld.Tag.Get("json")
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			name = name[:i]
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("absurl", func(fl validator.FieldLevel) bool {
		return urlutil.IsValidURL(fl.Field().String())
	})
	_ = v.RegisterValidation("rgbhex", func(fl validator.FieldLevel) bool {
		return rgbHexRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{v: v}
}

// Check reports whether value satisfies the validator tag expression.
func (v *Validator) Check(value any, tag string) bool {
	return v.v.Var(value, tag) == nil
}

// Collect runs every rule and returns the messages of the ones that failed,
// in rule order. It never stops at the first failure.
func (v *Validator) Collect(rules []Rule) []string {
	var msgs []string
	for _, r := range rules {
		if !v.Check(r.Value, r.Tag) {
			msgs = append(msgs, r.Message)
		}
	}
	return msgs
}

// Validate validates a struct using its `validate` tags.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msgs = append(msgs, e.Field()+" "+friendlyMessage(e))
	}
	sort.Strings(msgs)

	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		return "must be at least " + e.Param()
	case "max":
		return "must not exceed " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	case "absurl", "url":
		return "must be a valid URL"
	case "rgbhex":
		return "must be a #RRGGBB color"
	default:
		return "is invalid"
	}
}
