package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is a simple in-memory repository useful for tests and early
// development. Email uniqueness is enforced the way the Postgres unique
// index enforces it: case-sensitive, checked at write time.
//
// NOTE: This is not intended for production; use PostgresRepo.
type MemoryRepo struct {
	mu    sync.Mutex
	byID  map[string]User
	Clock func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]User), Clock: time.Now}
}

func (r *MemoryRepo) FindByEmail(ctx context.Context, email string) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (r *MemoryRepo) FindByID(ctx context.Context, id string) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepo) Create(ctx context.Context, u User) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return User{}, ErrEmailTaken
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := r.Clock().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}
	r.byID[u.ID] = u
	return u, nil
}

func (r *MemoryRepo) List(ctx context.Context) ([]User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, u)
	}
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, upd ProfileUpdate) (User, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	if upd.Email != nil && *upd.Email != u.Email {
		for _, existing := range r.byID {
			if existing.Email == *upd.Email {
				return User{}, ErrEmailTaken
			}
		}
		u.Email = *upd.Email
	}
	if upd.Firstname != nil {
		u.Firstname = *upd.Firstname
	}
	if upd.Lastname != nil {
		u.Lastname = *upd.Lastname
	}
	u.UpdatedAt = r.Clock().UTC()
	r.byID[id] = u
	return u, nil
}

func (r *MemoryRepo) UpdateRefreshHash(ctx context.Context, id, hash string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokenHash = hash
	u.UpdatedAt = r.Clock().UTC()
	r.byID[id] = u
	return nil
}

func (r *MemoryRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = r.Clock().UTC()
	r.byID[id] = u
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}
