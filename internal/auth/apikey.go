package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// APIKeyVerifier checks the shared secret presented by scanning devices.
// The secret may be configured in plain text or as a bcrypt hash. With
// neither configured the check is disabled.
type APIKeyVerifier struct {
	plain []byte
	hash  []byte
}

// NewAPIKeyVerifier creates a verifier. At most one of plain and hash should
// be set; hash wins when both are.
func NewAPIKeyVerifier(plain, hash string) *APIKeyVerifier {
	v := &APIKeyVerifier{}
	if hash != "" {
		v.hash = []byte(hash)
	} else if plain != "" {
		v.plain = []byte(plain)
	}
	return v
}

// HashAPIKey produces the bcrypt hash expected in API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Enabled reports whether a secret is configured.
func (v *APIKeyVerifier) Enabled() bool {
	return v != nil && (len(v.plain) > 0 || len(v.hash) > 0)
}

// Verify reports whether candidate matches the configured secret. An empty
// candidate never matches.
func (v *APIKeyVerifier) Verify(candidate string) bool {
	if !v.Enabled() {
		return true
	}
	if candidate == "" {
		return false
	}
	if len(v.hash) > 0 {
		return bcrypt.CompareHashAndPassword(v.hash, []byte(candidate)) == nil
	}
	return subtle.ConstantTimeCompare(v.plain, []byte(candidate)) == 1
}
