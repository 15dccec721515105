// Package schema implements the validation gate applied before any content
// store mutation. Checkers accumulate every failing field into one Error so
// callers receive the full field-level picture rather than the first
// failure. The package performs no I/O.
package schema

import (
	"fmt"
	"net/url"
	"strings"
)

// FieldError names one field that failed validation and why.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error carries every field failure found while validating one candidate
// record. A nil *Error (or one with no fields) means the record passed.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the named field is among the failures.
func (e *Error) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (e *Error) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Check is a single field validation applied during Validate.
type Check func(*Error)

// Validate runs every check and returns an *Error enumerating all failing
// fields, or nil when the candidate passes.
func Validate(checks ...Check) error {
	var e Error
	for _, c := range checks {
		c(&e)
	}
	if len(e.Fields) == 0 {
		return nil
	}
	return &e
}

// Required fails when value is empty after trimming whitespace.
func Required(field, value string) Check {
	return func(e *Error) {
		if strings.TrimSpace(value) == "" {
			e.add(field, "is required")
		}
	}
}

// MinLen fails when value is shorter than n characters. Empty values are
// left to Required so the two compose without duplicate reports.
func MinLen(field, value string, n int) Check {
	return func(e *Error) {
		if value != "" && len([]rune(value)) < n {
			e.add(field, fmt.Sprintf("must be at least %d characters", n))
		}
	}
}

// URL fails when value is present but does not parse as an absolute
// http(s) URL. Empty values pass; combine with Required for mandatory URLs.
func URL(field, value string) Check {
	return func(e *Error) {
		if value == "" {
			return
		}
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			e.add(field, "must be a valid http(s) URL")
		}
	}
}

// OneOf fails when value is not a member of the allowed enumeration.
func OneOf(field, value string, allowed []string) Check {
	return func(e *Error) {
		for _, a := range allowed {
			if value == a {
				return
			}
		}
		e.add(field, fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")))
	}
}

// Min fails when n is below the floor.
func Min(field string, n, floor int) Check {
	return func(e *Error) {
		if n < floor {
			e.add(field, fmt.Sprintf("must be at least %d", floor))
		}
	}
}

// Positive fails when n is not strictly greater than zero.
func Positive(field string, n int) Check {
	return func(e *Error) {
		if n <= 0 {
			e.add(field, "must be positive")
		}
	}
}

// NonEmptyList fails when the string slice has no entries or any entry is
// blank.
func NonEmptyList(field string, values []string) Check {
	return func(e *Error) {
		if len(values) == 0 {
			e.add(field, "must have at least one entry")
			return
		}
		for _, v := range values {
			if strings.TrimSpace(v) == "" {
				e.add(field, "entries must not be blank")
				return
			}
		}
	}
}

// Email fails when value does not look like a plausible address. The check
// is deliberately shallow: one @, non-empty local part, a dot in the domain.
func Email(field, value string) Check {
	return func(e *Error) {
		at := strings.IndexByte(value, '@')
		if at < 1 || at == len(value)-1 || !strings.Contains(value[at+1:], ".") {
			e.add(field, "must be a valid email address")
		}
	}
}
