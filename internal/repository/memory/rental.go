package memory

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"rentalshop-backend/internal/domain"
)

type rentalRepository struct {
	db *db
}

func (r *rentalRepository) openFor(customerID string) (domain.Rental, bool) {
	for _, rt := range r.db.rentals {
		if rt.CustomerID == customerID && rt.Status.IsOpen() {
			return rt, true
		}
	}
	return domain.Rental{}, false
}

func (r *rentalRepository) Create(_ context.Context, rt *domain.Rental) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.rentals[rt.ID]; ok {
		return domain.ErrDuplicate
	}
	if rt.Status.IsOpen() {
		if _, ok := r.openFor(rt.CustomerID); ok {
			return domain.ErrOpenRentalExists
		}
	}
	now := time.Now().UTC()
	rt.CreatedOn, rt.UpdatedOn = now, now
	r.db.rentals[rt.ID] = rt.Clone()
	return nil
}

func (r *rentalRepository) GetByID(_ context.Context, id string) (*domain.Rental, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rt, ok := r.db.rentals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rt.Clone()
	return &out, nil
}

func (r *rentalRepository) GetOpenByCustomer(_ context.Context, customerID string) (*domain.Rental, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	rt, ok := r.openFor(customerID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := rt.Clone()
	return &out, nil
}

func (r *rentalRepository) Update(_ context.Context, rt *domain.Rental) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.rentals[rt.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if rt.Status.IsOpen() && !cur.Status.IsOpen() {
		if other, ok := r.openFor(rt.CustomerID); ok && other.ID != rt.ID {
			return domain.ErrOpenRentalExists
		}
	}
	rt.CreatedOn = cur.CreatedOn
	rt.UpdatedOn = time.Now().UTC()
	r.db.rentals[rt.ID] = rt.Clone()
	return nil
}

func (r *rentalRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.rentals[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.rentals, id)
	return nil
}

func (r *rentalRepository) List(_ context.Context, f domain.RentalFilter) ([]domain.Rental, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	search := strings.ToLower(f.Search)
	var out []domain.Rental
	for _, rt := range r.db.rentals {
		if f.CustomerID != "" && rt.CustomerID != f.CustomerID {
			continue
		}
		if len(f.Statuses) > 0 && !slices.Contains(f.Statuses, rt.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rt.ID), search) &&
			!strings.Contains(strings.ToLower(rt.CustomerName), search) {
			continue
		}
		out = append(out, rt.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedOn.Equal(out[j].CreatedOn) {
			return out[i].CreatedOn.After(out[j].CreatedOn)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *rentalRepository) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	var n int64
	for id, rt := range r.db.rentals {
		if rt.Status != domain.RentalStatusActive && rt.Status != domain.RentalStatusPartialReturn {
			continue
		}
		if rt.ExpectedReturnDate == nil || !rt.ExpectedReturnDate.Before(asOf) {
			continue
		}
		rt.Status = domain.RentalStatusOverdue
		rt.UpdatedOn = time.Now().UTC()
		r.db.rentals[id] = rt
		n++
	}
	return n, nil
}
