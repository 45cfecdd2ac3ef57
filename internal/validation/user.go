package validation

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	// MaxUsernameLen bounds usernames; it matches the users.username column.
	MaxUsernameLen = 150
	// MinPasswordLen is the shortest accepted password.
	MinPasswordLen = 8
)

var usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)

// ErrRequired reports an empty value.
var ErrRequired = errors.New("This field is required.")

// ValidateUsername accepts 1-150 letters, digits and @.+-_ characters.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrRequired
	}
	if len([]rune(username)) > MaxUsernameLen {
		return fmt.Errorf("Ensure this value has at most %d characters.", MaxUsernameLen)
	}
	if !usernameRegex.MatchString(username) {
		return errors.New("Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
	}
	return nil
}

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrRequired
	}
	if len([]rune(password)) < MinPasswordLen {
		return fmt.Errorf("This password is too short. It must contain at least %d characters.", MinPasswordLen)
	}
	return nil
}
