package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"rentalshop-backend/internal/domain"
)

type ledgerRepository struct {
	db *db
}

func (r *ledgerRepository) Append(_ context.Context, e *domain.LedgerEntry) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e.CreatedOn.IsZero() {
		e.CreatedOn = time.Now().UTC()
	}
	r.db.ledger = append(r.db.ledger, *e)
	return nil
}

// ListByCustomer returns newest entries first.
func (r *ledgerRepository) ListByCustomer(_ context.Context, customerID string) ([]domain.LedgerEntry, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.LedgerEntry
	for i := len(r.db.ledger) - 1; i >= 0; i-- {
		if r.db.ledger[i].CustomerID == customerID {
			out = append(out, r.db.ledger[i])
		}
	}
	return out, nil
}

type userRepository struct {
	db *db
}

func (r *userRepository) Create(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.users {
		if existing.ID == u.ID || strings.EqualFold(existing.Username, u.Username) {
			return domain.ErrDuplicate
		}
	}
	u.CreatedOn = time.Now().UTC()
	r.db.users[u.ID] = *u
	return nil
}

func (r *userRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *userRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.users, id)
	return nil
}

func (r *userRepository) Count(_ context.Context) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.db.users)), nil
}
