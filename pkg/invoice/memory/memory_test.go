package memory

import (
	"context"
	"testing"

	"invoiceflow/pkg/invoice"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	inv, err := repo.Create(ctx, invoice.Invoice{CustomerID: "c-1", Amount: 4550, Status: "pending", Date: "2026-08-29"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if inv.ID == "" {
		t.Fatal("expected assigned id")
	}
	got, err := repo.Get(ctx, inv.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 4550 {
		t.Fatalf("expected 4550, got %d", got.Amount)
	}
	inv.Status = "paid"
	inv.Date = "2027-01-01"
	if err := repo.Update(ctx, inv); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = repo.Get(ctx, inv.ID)
	if got.Status != "paid" {
		t.Fatalf("expected paid, got %s", got.Status)
	}
	if got.Date != "2026-08-29" {
		t.Fatalf("date must not change on update, got %s", got.Date)
	}
	list, err := repo.List(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if err := repo.Delete(ctx, inv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, inv.ID); err != invoice.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	repo := New()
	if err := repo.Update(ctx, invoice.Invoice{ID: "missing"}); err != invoice.ErrNotFound {
		t.Fatalf("update: expected ErrNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, "missing"); err != invoice.ErrNotFound {
		t.Fatalf("delete: expected ErrNotFound, got %v", err)
	}
}

func TestRepositoryCustomers(t *testing.T) {
	ctx := context.Background()
	repo := New()
	repo.SeedCustomers(
		invoice.Customer{ID: "c-1", Name: "Acme", Email: "billing@acme.test"},
		invoice.Customer{ID: "c-2", Name: "Globex", Email: "ap@globex.test"},
	)
	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(customers) != 2 {
		t.Fatalf("expected 2 customers, got %d", len(customers))
	}
}
