package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"commerce-platform/internal/users"

	"github.com/google/uuid"
)

var (
	// ErrEmailTaken signals a registration conflict.
	ErrEmailTaken = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password so
	// login failures cannot be used to probe which emails are registered.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUnauthorized = errors.New("unauthorized")
)

// AuthResult is returned by register, login and refresh. User carries the
// sanitized projection only.
type AuthResult struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         users.Profile `json:"user"`
}

type RegisterRequest struct {
	Email     string
	Password  string
	Firstname string
	Lastname  string
}

// Service orchestrates register, login, refresh and logout on top of the
// credential store.
//
// Session invariants:
//   - at most one live refresh token per user: every issued pair overwrites
//     the stored fingerprint (rotation), logout clears it
//   - a refresh token is usable only while it matches the stored fingerprint,
//     so rotation invalidates all previously issued refresh tokens
type Service struct {
	repo   users.Repository
	tokens *Manager
	hasher Hasher
	clock  func() time.Time
}

func NewService(repo users.Repository, tokens *Manager) *Service {
	return &Service{repo: repo, tokens: tokens, clock: time.Now}
}

// Register creates a user with role USER and starts their first session.
// An existing email yields ErrEmailTaken; the existence check and the insert
// are not transactional, so a concurrent duplicate surfaces as ErrEmailTaken
// from the unique index instead.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (AuthResult, error) {
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid email", users.ErrInvalidArgument)
	}
	if err := users.ValidatePassword(req.Password); err != nil {
		return AuthResult{}, err
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return AuthResult{}, ErrEmailTaken
	} else if !errors.Is(err, users.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := s.clock().UTC()
	u, err := s.repo.Create(ctx, users.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         users.RoleUser,
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			return AuthResult{}, ErrEmailTaken
		}
		return AuthResult{}, err
	}

	return s.startSession(ctx, u)
}

// Login verifies credentials and starts a fresh session. Rotation happens on
// plain login too: any previously issued refresh token stops working.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}
	return s.startSession(ctx, u)
}

// Refresh issues a new pair for a user already authenticated by the refresh
// token guard. The just-used refresh token stops matching the stored
// fingerprint once the new one is persisted.
func (s *Service) Refresh(ctx context.Context, userID string) (AuthResult, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return AuthResult{}, ErrUnauthorized
		}
		return AuthResult{}, err
	}
	return s.startSession(ctx, u)
}

// Logout clears the stored refresh fingerprint. Logging out an already
// logged-out user is a no-op success.
func (s *Service) Logout(ctx context.Context, userID string) error {
	return s.repo.UpdateRefreshHash(ctx, userID, "")
}

// startSession issues a token pair and persists the refresh fingerprint.
func (s *Service) startSession(ctx context.Context, u users.User) (AuthResult, error) {
	pair, err := s.tokens.IssuePair(s.clock().UTC(), u.ID, u.Email)
	if err != nil {
		return AuthResult{}, err
	}

	fingerprint, err := s.hasher.HashToken(pair.RefreshToken)
	if err != nil {
		return AuthResult{}, err
	}
	if err := s.repo.UpdateRefreshHash(ctx, u.ID, fingerprint); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		User:         u.Profile(),
	}, nil
}
