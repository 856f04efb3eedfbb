package dataprocessing

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "bbbcli/internal/errors"
)

// ExtractionError reports a delivery that could not be flattened. The
// delivery's row is dropped; the rest of the match is unaffected.
type ExtractionError struct {
	Source  string
	MatchID int
	Pos     Position
	Missing []string
	Raw     json.RawMessage
	Cause   error
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	where := fmt.Sprintf("match %d innings %d over %d ball %d", e.MatchID, e.Pos.Innings, e.Pos.Over, e.Pos.Ball)
	if len(e.Missing) > 0 {
		return fmt.Sprintf("delivery extraction failed at %s: missing %s", where, strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("delivery extraction failed at %s: %v", where, e.Cause)
	}
	return "delivery extraction failed at " + where
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// AppError converts the error into the application taxonomy
func (e *ExtractionError) AppError() *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrTypeExtraction, e.Error(), e.Cause).
		WithContext("source", e.Source).
		WithContext("match_id", e.MatchID).
		WithContext("innings", e.Pos.Innings).
		WithContext("over", e.Pos.Over).
		WithContext("ball", e.Pos.Ball)
}

// SchemaError reports a match document whose structure cannot be walked.
// No rows are produced for the document.
type SchemaError struct {
	Source string
	// MatchID is zero when the document has no usable match number
	MatchID int
	Reason  string
	Missing []string
	Cause   error
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	msg := fmt.Sprintf("invalid match document %s: %s", e.Source, e.Reason)
	if len(e.Missing) > 0 {
		msg += " (" + strings.Join(e.Missing, ", ") + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// AppError converts the error into the application taxonomy
func (e *SchemaError) AppError() *apperrors.AppError {
	appErr := apperrors.NewAppError(apperrors.ErrTypeSchema, e.Error(), e.Cause).
		WithContext("source", e.Source)
	if e.MatchID != 0 {
		appErr.WithContext("match_id", e.MatchID)
	}
	if len(e.Missing) > 0 {
		appErr.WithContext("fields", e.Missing)
	}
	return appErr
}

// DateParseError reports a match date that could not be normalized
type DateParseError struct {
	MatchID int
	Value   string
	Rows    int
	Cause   error
}

// Error implements the error interface
func (e *DateParseError) Error() string {
	return fmt.Sprintf("cannot parse date %q of match %d (%d rows)", e.Value, e.MatchID, e.Rows)
}

// Unwrap returns the underlying error
func (e *DateParseError) Unwrap() error {
	return e.Cause
}

// AppError converts the error into the application taxonomy
func (e *DateParseError) AppError() *apperrors.AppError {
	return apperrors.NewAppError(apperrors.ErrTypeDateParse, e.Error(), e.Cause).
		WithContext("match_id", e.MatchID).
		WithContext("date", e.Value).
		WithContext("rows", e.Rows)
}
