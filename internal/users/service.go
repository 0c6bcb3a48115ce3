package users

import (
	"context"
	"errors"
	"fmt"
	"unicode"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrWrongPassword   = errors.New("current password is incorrect")
)

// PasswordHasher is the slice of the hashing service this package needs.
// auth.Hasher satisfies it.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// ValidatePassword enforces the password policy shared by registration and
// password change: at least 8 characters, with at least one letter and one
// digit.
func ValidatePassword(pw string) error {
	if len(pw) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters long", ErrInvalidArgument)
	}
	var hasLetter, hasDigit bool
	for _, r := range pw {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must contain at least one letter and one number", ErrInvalidArgument)
	}
	return nil
}

// Service provides profile operations for authenticated users. It never
// returns raw User records; everything outward is a Profile.
type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

func (s *Service) Get(ctx context.Context, id string) (Profile, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

func (s *Service) List(ctx context.Context) ([]Profile, error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Profile, 0, len(all))
	for _, u := range all {
		out = append(out, u.Profile())
	}
	return out, nil
}

func (s *Service) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (Profile, error) {
	if upd.Email != nil && *upd.Email == "" {
		return Profile{}, fmt.Errorf("%w: email must not be empty", ErrInvalidArgument)
	}
	u, err := s.repo.Update(ctx, id, upd)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

// ChangePassword verifies the caller's current password before storing the
// new hash.
func (s *Service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(currentPassword, u.PasswordHash) {
		return ErrWrongPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(ctx, id, hash)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
