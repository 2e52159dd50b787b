package repo

import (
	"context"
	"sync"

	"github.com/crucial707/userapi/internal/models"
)

// ==========================
// UserRepo
// ==========================

// UserRepo is the in-process record store. Records are only ever appended;
// lookups are linear scans. All methods are safe for concurrent use.
type UserRepo struct {
	mu    sync.RWMutex
	users []models.User
}

// ==========================
// Constructor
// ==========================
func NewUserRepo() *UserRepo {
	return &UserRepo{}
}

// ==========================
// Append User
// ==========================
func (r *UserRepo) Append(ctx context.Context, user models.User) {
	r.mu.Lock()
	r.users = append(r.users, user)
	r.mu.Unlock()
}

// ==========================
// List Users
// ==========================

// List returns a snapshot of all records in append order.
func (r *UserRepo) List(ctx context.Context) []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.User, len(r.users))
	copy(out, r.users)
	return out
}

// ==========================
// Find By Email
// ==========================

// FindByEmail returns the first record whose email matches exactly.
// Emails are not unique; later duplicates are never returned.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return u, true
		}
	}
	return models.User{}, false
}

// ==========================
// Get By ID
// ==========================
func (r *UserRepo) GetByID(ctx context.Context, id string) (models.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// ==========================
// Count
// ==========================
func (r *UserRepo) Count(ctx context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}
