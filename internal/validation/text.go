package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const requiredMessage = "This field is required."

// Required reports an error when value is blank.
func Required(errs Errors, field, value string) {
	if strings.TrimSpace(value) == "" {
		errs.Add(field, requiredMessage)
	}
}

// MaxLength reports an error when value is longer than max characters.
func MaxLength(errs Errors, field, value string, max int) {
	if utf8.RuneCountInString(value) > max {
		errs.Add(field, fmt.Sprintf("Field cannot be longer than %d characters.", max))
	}
}
