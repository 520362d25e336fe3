package auth

import (
	"crypto/subtle"
	"strings"
)

// Credential is the single admin login accepted by basic auth.
type Credential struct {
	Username     string
	PasswordHash string
}

// NewCredential normalizes the configured username. An invalid or empty
// username yields an unconfigured credential.
func NewCredential(username, passwordHash string) Credential {
	normalized, err := NormalizeUsername(username)
	if err != nil {
		return Credential{}
	}
	return Credential{Username: normalized, PasswordHash: strings.TrimSpace(passwordHash)}
}

// Configured reports whether the credential can ever authenticate.
func (c Credential) Configured() bool {
	return c.Username != "" && IsPasswordHash(c.PasswordHash)
}

// Verify checks one basic-auth pair.
func (c Credential) Verify(username, password string) bool {
	if !c.Configured() {
		return false
	}
	normalized := strings.TrimSpace(strings.ToLower(username))
	userOK := subtle.ConstantTimeCompare([]byte(normalized), []byte(c.Username)) == 1
	passOK := VerifyPassword(c.PasswordHash, password)
	return userOK && passOK
}
