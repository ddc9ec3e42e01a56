package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"rentalshop-backend/internal/domain"
)

type productRepository struct {
	db *db
}

func (r *productRepository) Create(_ context.Context, p *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[p.ID]; ok {
		return domain.ErrDuplicate
	}
	now := time.Now().UTC()
	p.CreatedOn, p.UpdatedOn = now, now
	r.db.products[p.ID] = *p
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := make([]domain.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *productRepository) Update(_ context.Context, p *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	available := cur.AvailableQuantity + (p.TotalQuantity - cur.TotalQuantity)
	if available < 0 {
		return domain.ErrInsufficientStock
	}
	p.AvailableQuantity = available
	p.CreatedOn = cur.CreatedOn
	p.UpdatedOn = time.Now().UTC()
	r.db.products[p.ID] = *p
	return nil
}

func (r *productRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.products, id)
	return nil
}

func (r *productRepository) AdjustAvailable(_ context.Context, id string, delta int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	next := p.AvailableQuantity + delta
	if next < 0 || next > p.TotalQuantity {
		return domain.ErrInsufficientStock
	}
	p.AvailableQuantity = next
	p.UpdatedOn = time.Now().UTC()
	r.db.products[id] = p
	return nil
}

type customerRepository struct {
	db *db
}

func (r *customerRepository) Create(_ context.Context, c *domain.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	now := time.Now().UTC()
	c.CreatedOn, c.UpdatedOn = now, now
	r.db.customers[c.ID] = *c
	return nil
}

func (r *customerRepository) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepository) List(_ context.Context, search string) ([]domain.Customer, error) {
	search = strings.ToLower(search)
	return r.filter(func(c domain.Customer) bool {
		return search == "" ||
			strings.Contains(strings.ToLower(c.Name), search) ||
			strings.Contains(strings.ToLower(c.Phone), search)
	}, func(a, b domain.Customer) bool { return a.Name < b.Name }), nil
}

func (r *customerRepository) ListDebtors(_ context.Context) ([]domain.Customer, error) {
	return r.filter(func(c domain.Customer) bool {
		return c.TotalDebt.IsPositive()
	}, func(a, b domain.Customer) bool { return a.TotalDebt.GreaterThan(b.TotalDebt) }), nil
}

func (r *customerRepository) filter(keep func(domain.Customer) bool, less func(a, b domain.Customer) bool) []domain.Customer {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.Customer
	for _, c := range r.db.customers {
		if keep(c) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (r *customerRepository) Update(_ context.Context, c *domain.Customer) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cur, ok := r.db.customers[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	c.CreatedOn = cur.CreatedOn
	c.UpdatedOn = time.Now().UTC()
	r.db.customers[c.ID] = *c
	return nil
}

func (r *customerRepository) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.customers, id)
	return nil
}
