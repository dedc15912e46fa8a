package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLen   = 4
	MaxPasswordBytes = 72 // bcrypt input limit

	// CredentialAlphabet is used for generated usernames and temporary passwords.
	CredentialAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// BcryptCost is a variable so tests can lower it.
var BcryptCost = bcrypt.DefaultCost

// PasswordValidationError holds validation error details (internal use only)
type PasswordValidationError struct {
	Errors []string
}

func (e *PasswordValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "password validation failed"
	}
	return "invalid password: " + strings.Join(e.Errors, "; ")
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

func ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword enforces the password length policy.
func ValidatePassword(password string) error {
	errors := make([]string, 0)

	n := utf8.RuneCountInString(password)
	if n < MinPasswordLen {
		errors = append(errors, fmt.Sprintf("must be at least %d characters", MinPasswordLen))
	}
	if len(password) > MaxPasswordBytes {
		errors = append(errors, fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if strings.TrimSpace(password) == "" && password != "" {
		errors = append(errors, "must not be blank")
	}

	if len(errors) > 0 {
		return &PasswordValidationError{Errors: errors}
	}

	return nil
}

// GenerateRandomString returns length characters drawn uniformly from
// CredentialAlphabet using crypto/rand.
func GenerateRandomString(length int) (string, error) {
	max := big.NewInt(int64(len(CredentialAlphabet)))
	var b strings.Builder
	b.Grow(length)

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate random string: %w", err)
		}
		b.WriteByte(CredentialAlphabet[n.Int64()])
	}

	return b.String(), nil
}
