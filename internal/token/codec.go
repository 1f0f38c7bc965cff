// Package token encodes and decodes the single-use credential tokens
// stored on the user row. A token is base64(JSON) with no signature:
// integrity comes from the exact-match comparison against the stored
// copy, not from the payload itself.
package token

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EmailVerification is the payload of an email verification token.
// It carries the address being verified so an email change can be
// confirmed with the same flow. It never expires.
type EmailVerification struct {
	Email string `json:"email"`
	Nonce string `json:"nonce"`
}

// PasswordReset is the payload of a password reset token. Expiry is
// embedded at generation time, so the token stays valid until replaced
// regardless of any storage metadata.
type PasswordReset struct {
	ExpiresAt int64  `json:"expires_at"`
	Nonce     string `json:"nonce"`
}

// Expired reports whether the embedded expiry has elapsed.
func (p *PasswordReset) Expired(now time.Time) bool {
	return !now.Before(time.Unix(p.ExpiresAt, 0))
}

// GenerateEmailVerification builds a verification token for the given
// address. The nonce exists only to make the token unguessable.
func GenerateEmailVerification(email string) string {
	return encode(EmailVerification{Email: email, Nonce: uuid.NewString()})
}

// DecodeEmailVerification returns nil for malformed input; callers must
// check before use.
func DecodeEmailVerification(tok string) *EmailVerification {
	var payload EmailVerification
	if !decode(tok, &payload) || payload.Email == "" {
		return nil
	}
	return &payload
}

// GeneratePasswordReset builds a reset token expiring ttl from now.
func GeneratePasswordReset(ttl time.Duration) string {
	return encode(PasswordReset{
		ExpiresAt: time.Now().Add(ttl).Unix(),
		Nonce:     uuid.NewString(),
	})
}

// DecodePasswordReset returns nil for malformed input.
func DecodePasswordReset(tok string) *PasswordReset {
	var payload PasswordReset
	if !decode(tok, &payload) || payload.ExpiresAt == 0 {
		return nil
	}
	return &payload
}

func encode(payload interface{}) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain structs of strings and ints; Marshal
		// cannot fail on them.
		panic(err)
	}
	return base64.StdEncoding.EncodeToString(raw)
}

func decode(tok string, into interface{}) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.StdEncoding.DecodeString(tok)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, into) == nil
}
