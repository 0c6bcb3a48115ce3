package rbac

import "commerce-platform/internal/users"

// Role values live in internal/users; they are part of the stored schema.
// This package only decides membership.

func IsAdmin(r users.Role) bool { return r == users.RoleAdmin }
