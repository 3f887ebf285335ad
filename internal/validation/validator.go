// Package validation checks and sanitizes request input before it reaches the service layer.
//
// INTEGRATION POINTS:
// - internal/api/server.go: query parameters are parsed with ParseListParams / ParseSearchParams
// - internal/cli/cli.go: flags are validated with the same rules
// - internal/errors/errors.go: failures are returned as VALIDATION_ERROR AppErrors
package validation

import (
	stderrors "errors"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/reputable-tech/memory-bank/internal/errors"
)

const maxQueryLength = 200

// CLI output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// OutputFormats are the list renderings supported by the CLI
var OutputFormats = []interface{}{FormatTable, FormatJSON}

// ListParams are the optional filters of a template listing. Any type is
// accepted since templates may declare categories outside the known set.
type ListParams struct {
	Type  string `json:"type"`
	Query string `json:"q"`
}

// SearchParams are the inputs of a fuzzy search
type SearchParams struct {
	Query  string `json:"q"`
	Domain string `json:"domain"`
}

// Validate implements validation.Validatable
func (p SearchParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Query, validation.Required, validation.RuneLength(1, maxQueryLength)),
		validation.Field(&p.Domain, validation.By(safeSegment)),
	)
}

// ParseListParams reads the type and q query parameters. Values are used
// as given apart from control characters.
func ParseListParams(values url.Values) ListParams {
	return ListParams{
		Type:  StripControl(values.Get("type")),
		Query: StripControl(values.Get("q")),
	}
}

// ParseSearchParams reads and validates the q and domain query parameters
func ParseSearchParams(values url.Values) (SearchParams, error) {
	params := SearchParams{
		Query:  SanitizeString(values.Get("q")),
		Domain: SanitizeString(values.Get("domain")),
	}
	if err := params.Validate(); err != nil {
		return SearchParams{}, ToAppError(err)
	}
	return params, nil
}

// ValidateFormat checks a CLI output format
func ValidateFormat(format string) error {
	if err := validation.Validate(format, validation.Required, validation.In(OutputFormats...)); err != nil {
		return errors.ValidationError("format: must be one of table, json")
	}
	return nil
}

// ToAppError converts an ozzo validation error into a VALIDATION_ERROR AppError
func ToAppError(err error) *errors.AppError {
	if err == nil {
		return nil
	}

	var internal validation.InternalError
	if stderrors.As(err, &internal) {
		return errors.Wrap(err, errors.ErrCodeInternalError, "Internal error occurred.")
	}

	appErr := errors.ValidationError(err.Error())
	var fieldErrors validation.Errors
	if stderrors.As(err, &fieldErrors) {
		for field, fieldErr := range fieldErrors {
			appErr.WithContext(field, fieldErr.Error())
		}
	}
	return appErr
}

// SanitizeString removes control characters and surrounding whitespace
func SanitizeString(input string) string {
	return strings.TrimSpace(StripControl(input))
}

// StripControl removes control characters other than tabs and line breaks
func StripControl(input string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' || r >= 32 {
			return r
		}
		return -1
	}, input)
}

func safeSegment(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return validation.NewError("validation_path_segment", "must be a single path segment")
	}
	return nil
}
