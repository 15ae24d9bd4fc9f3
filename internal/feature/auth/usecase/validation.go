package usecase

import (
	"regexp"
	"strings"
	"unicode"

	"recipe_backend/internal/feature/auth/domain"
)

const (
	// minPasswordLength defines the minimum number of characters in a password.
	minPasswordLength = 6
	// maxPasswordBytes is the longest input bcrypt accepts.
	maxPasswordBytes = 72
	// minNameLength defines the minimum display name length after trimming.
	minNameLength = 2
	// passwordSymbols is the set of special characters a password must draw from.
	passwordSymbols = "!@#$%^&*"
)

const (
	msgMissingFields    = "missing required fields: name, email and password are required"
	msgPasswordTooShort = "Password must be at least 6 characters long."
	msgPasswordTooLong  = "Password must be at most 72 bytes long."
	msgInvalidEmail     = "Invalid email format."
	msgWeakPassword     = "Password must contain at least one uppercase letter, one lowercase letter, one number, and one special character."
	msgNameTooShort     = "Name must be at least 2 characters long."
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// validateRegistration runs the registration checks in order and stops at the first failure.
func validateRegistration(in RegisterInput) error {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || strings.TrimSpace(in.Name) == "" {
		return domain.Validation(msgMissingFields)
	}
	if err := validatePassword(in.Password); err != nil {
		return err
	}
	if !validEmail(in.Email) {
		return domain.Validation(msgInvalidEmail)
	}
	if !strongPassword(in.Password) {
		return domain.Validation(msgWeakPassword)
	}
	return nil
}

// validatePassword checks the length rules only. Strength is checked separately
// so that registration can report an email format error in between.
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return domain.Validation(msgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		return domain.Validation(msgPasswordTooLong)
	}
	return nil
}

func validEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// strongPassword requires a lowercase letter, an uppercase letter, a digit and a symbol.
func strongPassword(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

func validName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= minNameLength
}
