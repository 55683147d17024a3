package invoice

import (
	"context"
	"errors"
)

// Invoice represents a customer invoice. Amount is stored in minor
// currency units (cents) to avoid floating-point rounding; Date is the
// creation day in YYYY-MM-DD form and never changes after creation.
type Invoice struct {
	ID         string `json:"id"`
	CustomerID string `json:"customerId"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	Date       string `json:"date"`
}

// Customer is the read model used to populate the customer selector on
// the invoice forms.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Invoice statuses.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// Repository defines behavior for persisting invoices. Create assigns
// the id and returns it on the stored invoice.
type Repository interface {
	Create(ctx context.Context, inv Invoice) (Invoice, error)
	Get(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
	Update(ctx context.Context, inv Invoice) error
	Delete(ctx context.Context, id string) error
	ListCustomers(ctx context.Context) ([]Customer, error)
}

// ErrNotFound indicates the requested invoice does not exist.
var ErrNotFound = errors.New("invoice not found")
