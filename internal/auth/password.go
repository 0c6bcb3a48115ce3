package auth

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// hashCost is the bcrypt work factor for both password hashes and
// refresh-token fingerprints.
const hashCost = 12

// Hasher wraps bcrypt with a fixed cost. Each Hash call salts independently,
// so equal inputs produce distinct hashes.
type Hasher struct{}

func (Hasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether plaintext matches the stored hash. It returns false
// on any mismatch, malformed hashes included.
func (Hasher) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

// HashToken fingerprints a refresh token for storage. Signed tokens exceed
// bcrypt's 72-byte input limit, so the token is reduced with SHA-256 first.
func (h Hasher) HashToken(token string) (string, error) {
	return h.Hash(digest(token))
}

// VerifyToken reports whether the raw token matches a stored fingerprint.
func (h Hasher) VerifyToken(token, hash string) bool {
	return h.Verify(digest(token), hash)
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
