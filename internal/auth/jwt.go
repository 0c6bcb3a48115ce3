package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"commerce-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/errgroup"
)

// Manager mints and verifies the two token families. Access and refresh
// tokens are signed with separate HS256 secrets.
type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.AccessSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.RefreshSecret == "" {
		return nil, errors.New("JWT_REFRESH_SECRET is required")
	}

	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		issuer:        cfg.Issuer,
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

/* ===================== ISSUE TOKENS ===================== */

// IssuePair mints an access and a refresh token for the user. The two
// signatures are independent and run concurrently; both must succeed.
func (m *Manager) IssuePair(now time.Time, userID, email string) (TokenPair, error) {
	refreshID, err := newRefreshID()
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	var g errgroup.Group

	g.Go(func() error {
		tok, err := m.sign(now, TokenTypeAccess, userID, email, "", m.accessTTL, m.accessSecret)
		if err != nil {
			return err
		}
		pair.AccessToken = tok
		return nil
	})
	g.Go(func() error {
		tok, err := m.sign(now, TokenTypeRefresh, userID, email, refreshID, m.refreshTTL, m.refreshSecret)
		if err != nil {
			return err
		}
		pair.RefreshToken = tok
		return nil
	})

	if err := g.Wait(); err != nil {
		return TokenPair{}, err
	}
	return pair, nil
}

// newRefreshID returns 16 random bytes, hex-encoded.
func newRefreshID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

/* ===================== VERIFY TOKENS ===================== */

func (m *Manager) VerifyAccess(tokenString string, now time.Time) (Claims, error) {
	return m.verify(tokenString, TokenTypeAccess, m.accessSecret, now)
}

func (m *Manager) VerifyRefresh(tokenString string, now time.Time) (Claims, error) {
	return m.verify(tokenString, TokenTypeRefresh, m.refreshSecret, now)
}

func (m *Manager) verify(tokenString string, expected TokenType, secret []byte, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithLeeway(30 * time.Second), // clock skew tolerance
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	parser := jwt.NewParser(opts...)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	})
	if err != nil {
		return Claims{}, err
	}

	if claims.TokenType != expected {
		return Claims{}, errors.New("token_type mismatch")
	}
	if claims.Subject == "" {
		return Claims{}, errors.New("sub missing")
	}
	if claims.Email == "" {
		return Claims{}, errors.New("email missing")
	}
	if expected == TokenTypeRefresh && claims.RefreshID == "" {
		return Claims{}, errors.New("refreshId missing in refresh token")
	}

	return claims, nil
}

/* ===================== INTERNAL SIGN ===================== */

func (m *Manager) sign(
	now time.Time,
	tokenType TokenType,
	userID,
	email,
	refreshID string,
	ttl time.Duration,
	secret []byte,
) (string, error) {

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:     email,
		RefreshID: refreshID,
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(secret)
}
