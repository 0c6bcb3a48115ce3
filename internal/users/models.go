package users

import "time"

// Role is the stored role enum. Keep the values stable; they are part of the
// RBAC contract and of the database schema.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func IsValidRole(r Role) bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is the stored credential record.
//
// Session invariant: RefreshTokenHash holds the fingerprint of the single
// currently valid refresh token, or "" when no session is active. It is
// overwritten on every register/login/refresh and cleared on logout.
//
// PasswordHash and RefreshTokenHash must never leave this package unredacted;
// anything outward-facing goes through Profile().
type User struct {
	ID               string    `db:"id"`
	Email            string    `db:"email"`
	PasswordHash     string    `db:"password_hash"`
	RefreshTokenHash string    `db:"refresh_token_hash"`
	Role             Role      `db:"role"`
	Firstname        string    `db:"firstname"`
	Lastname         string    `db:"lastname"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

// Profile is the outward projection of a User with credential material
// stripped.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Firstname string    `json:"firstname,omitempty"`
	Lastname  string    `json:"lastname,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Firstname: u.Firstname,
		Lastname:  u.Lastname,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
