// Package postgres implements the invoice repository on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"invoiceflow/pkg/invoice"
)

// Repository persists invoices in PostgreSQL. Referential integrity of
// customer_id against the customers table is enforced by the schema.
type Repository struct {
	db *sql.DB
}

// New creates a PostgreSQL repository.
func New(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new invoice, assigning its id.
func (r *Repository) Create(ctx context.Context, inv invoice.Invoice) (invoice.Invoice, error) {
	inv.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO invoices (id, customer_id, amount, status, date) VALUES ($1,$2,$3,$4,$5)",
		inv.ID, inv.CustomerID, inv.Amount, inv.Status, inv.Date)
	if err != nil {
		return invoice.Invoice{}, err
	}
	return inv, nil
}

// Get retrieves an invoice by id.
func (r *Repository) Get(ctx context.Context, id string) (invoice.Invoice, error) {
	var inv invoice.Invoice
	err := r.db.QueryRowContext(ctx,
		"SELECT id, customer_id, amount, status, date FROM invoices WHERE id=$1", id).
		Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &inv.Date)
	if err == sql.ErrNoRows {
		return invoice.Invoice{}, invoice.ErrNotFound
	}
	return inv, err
}

// List fetches all invoices, newest first.
func (r *Repository) List(ctx context.Context) ([]invoice.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, customer_id, amount, status, date FROM invoices ORDER BY date DESC, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invoices []invoice.Invoice
	for rows.Next() {
		var inv invoice.Invoice
		if err := rows.Scan(&inv.ID, &inv.CustomerID, &inv.Amount, &inv.Status, &inv.Date); err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Update rewrites customer_id, amount and status for the matching row.
// The id and date columns are immutable after creation.
func (r *Repository) Update(ctx context.Context, inv invoice.Invoice) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE invoices SET customer_id=$2, amount=$3, status=$4 WHERE id=$1",
		inv.ID, inv.CustomerID, inv.Amount, inv.Status)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return invoice.ErrNotFound
	}
	return nil
}

// Delete removes an invoice by id.
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id=$1", id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return invoice.ErrNotFound
	}
	return nil
}

// ListCustomers fetches the customers shown in the form selector.
func (r *Repository) ListCustomers(ctx context.Context) ([]invoice.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, email FROM customers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var customers []invoice.Customer
	for rows.Next() {
		var c invoice.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}
