// Package memory implements an in-memory invoice repository.
package memory

import (
	"context"
	"strconv"
	"sync"

	"invoiceflow/pkg/invoice"
)

// Repository provides an in-memory implementation of
// invoice.Repository.
type Repository struct {
	mu        sync.RWMutex
	seq       int
	invoices  map[string]invoice.Invoice
	customers []invoice.Customer
}

// New creates a new in-memory repository.
func New() *Repository {
	return &Repository{invoices: make(map[string]invoice.Invoice)}
}

// Create stores the invoice under a newly assigned id.
func (r *Repository) Create(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	inv.ID = "inv-" + strconv.Itoa(r.seq)
	r.invoices[inv.ID] = inv
	return inv, nil
}

// Get retrieves an invoice by id.
func (r *Repository) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, nil
}

// List returns all invoices.
func (r *Repository) List(ctx context.Context) ([]invoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]invoice.Invoice, 0, len(r.invoices))
	for _, inv := range r.invoices {
		out = append(out, inv)
	}
	return out, nil
}

// Update replaces the mutable fields of an existing invoice, keeping
// its date.
func (r *Repository) Update(ctx context.Context, inv invoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.invoices[inv.ID]
	if !ok {
		return invoice.ErrNotFound
	}
	inv.Date = cur.Date
	r.invoices[inv.ID] = inv
	return nil
}

// Delete removes an invoice by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.invoices[id]; !ok {
		return invoice.ErrNotFound
	}
	delete(r.invoices, id)
	return nil
}

// ListCustomers returns the seeded customers.
func (r *Repository) ListCustomers(ctx context.Context) ([]invoice.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]invoice.Customer(nil), r.customers...), nil
}

// SeedCustomers replaces the customer set.
func (r *Repository) SeedCustomers(customers ...invoice.Customer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = customers
}
