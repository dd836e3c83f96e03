package auth

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned by a PasswordVerifier when the secret does not match.
var ErrMismatch = errors.New("secret mismatch")

// PasswordVerifier compares a candidate secret against the configured one.
type PasswordVerifier interface {
	// Verify returns nil when password matches, or an error otherwise.
	Verify(password string) error
}

// BcryptVerifier checks secrets against a bcrypt hash.
type BcryptVerifier struct {
	hash []byte
}

// NewBcryptVerifier creates a verifier for the given bcrypt hash.
func NewBcryptVerifier(hash string) *BcryptVerifier {
	return &BcryptVerifier{hash: []byte(hash)}
}

// Verify implements PasswordVerifier.
func (v *BcryptVerifier) Verify(password string) error {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}

// LiteralVerifier checks secrets by constant-time equality with a literal.
type LiteralVerifier struct {
	secret []byte
}

// NewLiteralVerifier creates a verifier for a literal secret.
func NewLiteralVerifier(secret string) *LiteralVerifier {
	return &LiteralVerifier{secret: []byte(secret)}
}

// Verify implements PasswordVerifier.
func (v *LiteralVerifier) Verify(password string) error {
	if subtle.ConstantTimeCompare(v.secret, []byte(password)) != 1 {
		return ErrMismatch
	}
	return nil
}

// HashPassword returns the bcrypt hash of password, for use as
// admin.password_hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
