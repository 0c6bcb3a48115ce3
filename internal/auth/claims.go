package auth

import "github.com/golang-jwt/jwt/v5"

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the only supported JWT claims shape for this service. Subject
// carries the user id.
//
// RefreshID is set on refresh tokens only. It is random per issuance, so two
// refresh tokens minted for the same user in the same second still differ
// and the stored fingerprint matches exactly one of them.
type Claims struct {
	jwt.RegisteredClaims

	Email     string    `json:"email"`
	RefreshID string    `json:"refreshId,omitempty"`
	TokenType TokenType `json:"token_type"`
}
