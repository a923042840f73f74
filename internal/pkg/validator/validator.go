package validator

import (
	"strings"
	"time"
)

const (
	dateLayout      = "2006-01-02"
	clockTimeLayout = "15:04"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// Add records a failure for field.
func (v *ValidationErrors) Add(field, message string) {
	*v = append(*v, ValidationError{Field: field, Message: message})
}

// Required records "<field> is required" when value is blank.
func (v *ValidationErrors) Required(field, value string) {
	if IsEmpty(value) {
		v.Add(field, field+" is required")
	}
}

// Date records a failure when value is not a YYYY-MM-DD calendar date.
func (v *ValidationErrors) Date(field, value string) {
	if _, ok := IsValidDate(value); !ok {
		v.Add(field, field+" must be in YYYY-MM-DD format")
	}
}

// OptionalDate is Date for filters that may be unset.
func (v *ValidationErrors) OptionalDate(field string, value *string) {
	if value != nil {
		v.Date(field, *value)
	}
}

// Err returns nil when nothing was recorded so callers never return a typed nil.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Date validation
func IsValidDate(dateStr string) (time.Time, bool) {
	date, err := time.Parse(dateLayout, dateStr)
	return date, err == nil
}

// IsValidClockTime parses an HH:MM wall-clock time such as a job's daily run time.
func IsValidClockTime(value string) (hour, minute int, ok bool) {
	t, err := time.Parse(clockTimeLayout, value)
	if err != nil {
		return 0, 0, false
	}
	return t.Hour(), t.Minute(), true
}
