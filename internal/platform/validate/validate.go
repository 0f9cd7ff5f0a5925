// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package validate turns malformed input into 400 [apperr.AppError] values.
//
// # Architecture
//
// This package is used in the service layer. Handlers only decode; services
// decide whether the decoded values are acceptable, and they do it before any
// store call.
package validate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/taibuivan/vidora/internal/platform/apperr"
	"github.com/taibuivan/vidora/pkg/pagination"
	"github.com/taibuivan/vidora/pkg/textnorm"
)

const msgInvalidPagination = "Invalid pagination parameters"

var (
	// uuidPattern matches a canonical hyphenated UUID string.
	uuidPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// # Field Collector

// Validator collects field-level failures and reports them together.
// It is not safe for concurrent use.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen fails if the rune count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// Custom records message against field when failed is true.
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// Err returns a VALIDATION_ERROR carrying every recorded failure, or nil.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// # Single-Field Checks

// RequiredError builds a one-field validation error whose message is also the
// top-level error text.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(message, apperr.FieldError{Field: field, Message: message})
}

/*
Text normalizes user-authored text and enforces presence and length.

Parameters:
  - field: JSON field reported in the error details
  - raw: The submitted value
  - max: Maximum length in runes after trimming
  - requiredMessage: Error text when nothing remains after trimming

Returns:
  - string: The trimmed, NFC-normalized text
  - error: 400 when blank or too long
*/
func Text(field, raw string, max int, requiredMessage string) (string, error) {
	text := textnorm.Clean(raw)
	if text == "" {
		return "", RequiredError(field, requiredMessage)
	}
	if err := (&Validator{}).MaxLen(field, text, max).Err(); err != nil {
		return "", err
	}
	return text, nil
}

// ID fails with "Invalid <label> ID" when value is not a hyphenated UUID.
// It returns the lowercase form, which is how ids are stored and compared.
//
//	videoID, err := validate.ID("video_id", "video", videoID)
func ID(field, label, value string) (string, error) {
	if !uuidPattern.MatchString(value) {
		return "", RequiredError(field, "Invalid "+label+" ID")
	}
	return strings.ToLower(value), nil
}

// # Paging

// Page checks paging input against a listing policy.
func Page(params pagination.Params, policy pagination.Policy) error {
	return PageError(policy.Check(params), policy)
}

// PageError converts a pagination parse or policy error into a 400 naming
// the offending parameter.
func PageError(err error, policy pagination.Policy) error {
	if err == nil {
		return nil
	}

	detail := apperr.FieldError{Field: "limit", Message: fmt.Sprintf("Must be between 1 and %d", policy.MaxLimit)}
	if errors.Is(err, pagination.ErrInvalidPage) {
		detail = apperr.FieldError{Field: "page", Message: "Must be a positive integer"}
	}
	return apperr.ValidationError(msgInvalidPagination, detail)
}
