package invoice

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ListRoute is the cached route invalidated after every mutation and
// the navigation target after create and update.
const ListRoute = "/dashboard/invoices"

// Generic messages returned when a write fails. The cause is logged but
// never exposed to the caller.
const (
	msgMissingCreate = "Missing Fields. Failed to Create Invoice."
	msgMissingUpdate = "Missing Fields. Failed to Update Invoice."
	msgDBCreate      = "Database Error: Failed to Create Invoice."
	msgDBUpdate      = "Database Error: Failed to Update Invoice."
	msgDBDelete      = "The database failed to delete the invoice."
)

// Revalidator marks cached renderings of a route stale so the next read
// recomputes from the store.
type Revalidator interface {
	Revalidate(ctx context.Context, path string) error
}

// Service implements the invoice mutation operations: validate the form
// payload, persist, invalidate the list cache, and signal navigation.
type Service struct {
	repo  Repository
	reval Revalidator
	log   *zap.SugaredLogger
	now   func() time.Time
}

// NewService creates a Service around the given repository and
// revalidator.
func NewService(repo Repository, reval Revalidator, log *zap.SugaredLogger) *Service {
	return &Service{repo: repo, reval: reval, log: log, now: time.Now}
}

// Create validates the payload and inserts a new invoice. The store
// assigns the id; the date is today. On validation failure nothing is
// written and the field errors are returned for the form to re-render.
func (s *Service) Create(ctx context.Context, payload url.Values) State {
	fields, errs := ParseForm(payload)
	if errs != nil {
		return State{Errors: errs, Message: msgMissingCreate}
	}

	inv := Invoice{
		CustomerID: fields.CustomerID,
		Amount:     fields.ToCents(),
		Status:     fields.Status,
		Date:       s.now().UTC().Format("2006-01-02"),
	}
	if _, err := s.repo.Create(ctx, inv); err != nil {
		s.log.Errorw("create invoice", "error", err)
		return State{Message: msgDBCreate}
	}

	s.revalidateList(ctx)
	return State{Redirect: ListRoute}
}

// Update validates the payload and rewrites the mutable fields of the
// invoice matching id. The id and date are never touched. A missing id
// is a silent no-op: the row count is zero, no error is reported, and
// the caller still navigates away.
func (s *Service) Update(ctx context.Context, id string, payload url.Values) State {
	fields, errs := ParseForm(payload)
	if errs != nil {
		return State{Errors: errs, Message: msgMissingUpdate}
	}

	inv := Invoice{
		ID:         id,
		CustomerID: fields.CustomerID,
		Amount:     fields.ToCents(),
		Status:     fields.Status,
	}
	if err := s.repo.Update(ctx, inv); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Errorw("update invoice", "id", id, "error", err)
		return State{Message: msgDBUpdate}
	}

	s.revalidateList(ctx)
	return State{Redirect: ListRoute}
}

// Delete removes the invoice matching id and invalidates the list
// cache. There is no navigation signal: the list view re-renders in
// place. A missing id is a silent no-op, consistent with Update.
func (s *Service) Delete(ctx context.Context, id string) State {
	if err := s.repo.Delete(ctx, id); err != nil && !errors.Is(err, ErrNotFound) {
		s.log.Errorw("delete invoice", "id", id, "error", err)
		return State{Message: msgDBDelete}
	}

	s.revalidateList(ctx)
	return State{}
}

func (s *Service) revalidateList(ctx context.Context) {
	if err := s.reval.Revalidate(ctx, ListRoute); err != nil {
		// The write succeeded; a stale cache entry expires on its own.
		s.log.Warnw("revalidate route", "path", ListRoute, "error", err)
	}
}
