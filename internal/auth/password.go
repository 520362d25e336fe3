package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	adminNameMaxLen     = 32
	adminPasswordMinLen = 8
	// bcrypt refuses longer input.
	adminPasswordMaxLen = 72
)

var (
	ErrUsernameRequired = errors.New("username is required")
	ErrUsernameInvalid  = errors.New("invalid username")
	ErrPasswordShort    = fmt.Errorf("password must be at least %d characters", adminPasswordMinLen)
	ErrPasswordLong     = fmt.Errorf("password must be at most %d bytes", adminPasswordMaxLen)
)

// Lowercase ASCII, digits and inner . _ - separators.
var adminNamePattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9._-]*[a-z0-9])?$`)

// NormalizeUsername lowercases and trims an admin login name, then checks it
// against the accepted character set.
func NormalizeUsername(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case name == "":
		return "", ErrUsernameRequired
	case len(name) > adminNameMaxLen:
		return "", fmt.Errorf("%w: longer than %d characters", ErrUsernameInvalid, adminNameMaxLen)
	case !adminNamePattern.MatchString(name):
		return "", fmt.Errorf("%w: %q", ErrUsernameInvalid, name)
	}
	return name, nil
}

// ValidatePassword enforces the admin password length bounds.
func ValidatePassword(password string) error {
	if len(password) < adminPasswordMinLen {
		return ErrPasswordShort
	}
	if len(password) > adminPasswordMaxLen {
		return ErrPasswordLong
	}
	return nil
}

// HashPassword produces the value stored under admin.password_hash.
func HashPassword(password string) (string, error) {
	if err := ValidatePassword(password); err != nil {
		return "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash admin password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword reports whether candidate matches the stored admin hash.
// An empty hash never matches.
func VerifyPassword(storedHash, candidate string) bool {
	storedHash = strings.TrimSpace(storedHash)
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}

// IsPasswordHash reports whether value parses as a bcrypt hash.
func IsPasswordHash(value string) bool {
	_, err := bcrypt.Cost([]byte(strings.TrimSpace(value)))
	return err == nil
}
