package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	var h Hasher

	hash, err := h.Hash("abc12345")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "abc12345" {
		t.Fatalf("hash must not equal the plaintext")
	}
	if !h.Verify("abc12345", hash) {
		t.Fatalf("expected matching password to verify")
	}
	if h.Verify("abc12346", hash) {
		t.Fatalf("expected near-miss password to fail")
	}
	if h.Verify("abc12345", "not-a-bcrypt-hash") {
		t.Fatalf("expected malformed hash to fail verification")
	}
}

func TestHashSaltsIndependently(t *testing.T) {
	var h Hasher

	first, err := h.Hash("abc12345")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := h.Hash("abc12345")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatalf("two hashes of the same input must differ")
	}
	if !h.Verify("abc12345", first) || !h.Verify("abc12345", second) {
		t.Fatalf("both hashes must verify against the input")
	}
}

func TestTokenFingerprintHandlesLongTokens(t *testing.T) {
	var h Hasher

	// Signed JWTs are far beyond bcrypt's 72-byte input limit.
	token := strings.Repeat("eyJhbGciOiJIUzI1NiJ9.", 20)

	hash, err := h.HashToken(token)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	if !h.VerifyToken(token, hash) {
		t.Fatalf("expected token to match its fingerprint")
	}
	if h.VerifyToken(token+"x", hash) {
		t.Fatalf("expected altered token to fail")
	}
}
