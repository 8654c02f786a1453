package filters

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)

var textFormats = newTextFormats()

// formatRule is the validator tag and message of a text sub-format.
type formatRule struct {
	tag     string
	message string
}

var formatRules = map[Format]formatRule{
	FormatEmail:     {tag: "email", message: "Enter a valid email address."},
	FormatSlug:      {tag: "slug", message: `Enter a valid "slug" consisting of letters, numbers, underscores or hyphens.`},
	FormatURL:       {tag: "url", message: "Enter a valid URL."},
	FormatIPAddress: {tag: "ip", message: "Enter a valid IPv4 or IPv6 address."},
}

func newTextFormats() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

func validateText(_ context.Context, f *Field, raw any) (any, error) {
	s, ok := scalarText(raw)
	if !ok {
		return nil, Invalid("Not a valid string.")
	}
	if f.trim {
		s = strings.TrimSpace(s)
	}
	if s == "" {
		if f.allowBlank {
			return "", nil
		}
		return nil, NewFieldError(CodeBlank, "This field may not be blank.")
	}

	errs := &FieldError{}
	n := utf8.RuneCountInString(s)
	if f.maxLength != nil && n > *f.maxLength {
		errs.merge(NewFieldError(CodeMaxLength, "Ensure this field has no more than %d characters.", *f.maxLength))
	}
	if f.minLength != nil && n < *f.minLength {
		errs.merge(NewFieldError(CodeMinLength, "Ensure this field has at least %d characters.", *f.minLength))
	}
	if rule, ok := formatRules[f.format]; ok {
		if err := textFormats.Var(s, rule.tag); err != nil {
			errs.merge(Invalid(rule.message))
		}
	}
	if len(errs.Details) > 0 {
		return nil, errs
	}
	return s, nil
}
