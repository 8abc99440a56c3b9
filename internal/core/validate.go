package core

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MaxNameLength    = 200
	MaxNoteLength    = 1000
	MaxMessageLength = 5000
	MinMessageLength = 10
)

var (
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrEmptyName     = errors.New("name is required")
	ErrNameTooLong   = errors.New("name too long")
	ErrNoteTooLong   = errors.New("note too long")
)

// ValidationError carries the offending field so callers can render an
// inline message next to it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-scoped validation error.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ValidateValue rejects negative amounts. nil is allowed and means
// "clear the value".
func ValidateValue(field string, value *float64) error {
	if value != nil && *value < 0 {
		return NewValidationError(field, ErrNegativeValue.Error())
	}
	return nil
}

// ValidateName enforces the display-name constraints shared by custom
// item names and renames.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewValidationError("name", ErrEmptyName.Error())
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return NewValidationError("name", fmt.Sprintf("name too long (max %d characters)", MaxNameLength))
	}
	return nil
}

// ValidateNote caps the free-text annotation length. Empty is fine.
func ValidateNote(note string) error {
	if utf8.RuneCountInString(note) > MaxNoteLength {
		return NewValidationError("note", fmt.Sprintf("note too long (max %d characters)", MaxNoteLength))
	}
	return nil
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Feedback is one submission of the feedback form, delivered to the
// operators by email.
type Feedback struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Message   string `json:"message"`
}

// Validate checks the feedback fields and reports the first problem
// with its field name.
func (f Feedback) Validate() error {
	if strings.TrimSpace(f.FirstName) == "" {
		return NewValidationError("firstName", "first name is required")
	}
	if strings.TrimSpace(f.LastName) == "" {
		return NewValidationError("lastName", "last name is required")
	}
	if strings.TrimSpace(f.Email) == "" {
		return NewValidationError("email", "email is required")
	}
	if !emailPattern.MatchString(f.Email) {
		return NewValidationError("email", "invalid email format")
	}
	if strings.TrimSpace(f.Message) == "" {
		return NewValidationError("message", "message is required")
	}
	if utf8.RuneCountInString(f.Message) < MinMessageLength {
		return NewValidationError("message", fmt.Sprintf("message too short (min %d characters)", MinMessageLength))
	}
	if utf8.RuneCountInString(f.Message) > MaxMessageLength {
		return NewValidationError("message", fmt.Sprintf("message too long (max %d characters)", MaxMessageLength))
	}
	return nil
}
