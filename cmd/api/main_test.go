package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"invoiceflow/pkg/cache"
	"invoiceflow/pkg/invoice"
	"invoiceflow/pkg/invoice/memory"
	"invoiceflow/pkg/logger"
)

// An unreachable Redis makes every cache call fail, which must degrade
// to a logged warning and a fresh read from the store, never an error
// response.
func TestListInvoicesCacheUnavailable(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	logger.Log = zap.New(core)
	defer func() { logger.Log = zap.NewNop() }()

	m := memory.New()
	seeded, err := m.Create(context.Background(),
		invoice.Invoice{CustomerID: "c-1", Amount: 4550, Status: "pending", Date: "2026-08-29"})
	require.NoError(t, err)
	repo = m
	routeCache = cache.NewRouteCache(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/invoices", nil)
	listInvoicesHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []invoice.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, seeded.ID, got[0].ID)
	assert.Equal(t, 1, logs.FilterMessage("route cache").Len(),
		"a cache read failure is logged, not swallowed")
}

func TestWriteStateStatusCodes(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/dashboard/invoices", nil)

	rec := httptest.NewRecorder()
	writeState(rec, req, invoice.State{Message: "Database Error: Failed to Create Invoice."})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var st invoice.State
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &st))
	assert.Equal(t, "Database Error: Failed to Create Invoice.", st.Message)

	rec = httptest.NewRecorder()
	writeState(rec, req, invoice.State{
		Errors:  invoice.FieldErrors{"amount": {"Please enter an amount greater than $0."}},
		Message: "Missing Fields. Failed to Create Invoice.",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	writeState(rec, req, invoice.State{Redirect: invoice.ListRoute})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, invoice.ListRoute, rec.Header().Get("Location"))
}
