// Package validation provides custom validation rules shared by request DTOs.
package validation

import (
	"regexp"
	"strings"

	"github.com/jellydator/validation"

	apperrors "github.com/natterhq/natter/internal/errors"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{1,29}$`)

// NotBlank checks that a string is not empty after trimming whitespace.
var NotBlank = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_not_blank", "must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return validation.NewError("validation_not_blank", "cannot be blank")
	}
	return nil
})

// Username checks the username shape: a letter followed by up to 29 letters
// or digits.
var Username = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_username", "must be a string")
	}
	if !usernamePattern.MatchString(s) {
		return validation.NewError("validation_username", "must start with a letter and contain only letters and digits (2-30 chars)")
	}
	return nil
})

// Perms checks that a permission string is a non-empty subset of "rwd"
// without repeated letters.
var Perms = validation.By(func(value any) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_perms", "must be a string")
	}
	if s == "" {
		return validation.NewError("validation_perms", "cannot be empty")
	}
	seen := map[rune]bool{}
	for _, r := range s {
		if r != 'r' && r != 'w' && r != 'd' {
			return validation.NewError("validation_perms", "must contain only the letters r, w and d")
		}
		if seen[r] {
			return validation.NewError("validation_perms", "must not repeat letters")
		}
		seen[r] = true
	}
	return nil
})

// WrapValidationError converts a validation error into a domain invalid-input
// error so handlers map it to a 422.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}
