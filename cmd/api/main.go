package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "invoiceflow/docs"
	"invoiceflow/pkg/cache"
	"invoiceflow/pkg/invoice"
	pg "invoiceflow/pkg/invoice/postgres"
	"invoiceflow/pkg/logger"
	"invoiceflow/pkg/otel"
)

var (
	redisClient *redis.Client
	repo        invoice.Repository
	routeCache  *cache.RouteCache
	svc         *invoice.Service
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS invoices (
	id TEXT PRIMARY KEY,
	customer_id TEXT NOT NULL REFERENCES customers(id),
	amount INT NOT NULL,
	status TEXT NOT NULL,
	date TEXT NOT NULL
);`

// @title InvoiceFlow API
// @version 1.0
// @description API for managing invoices
// @host localhost:8443
// @BasePath /
func main() {
	logger.Init()
	defer logger.Log.Sync()
	log := logger.Sugar()

	shutdown, err := otel.InitTracing(otel.Config{
		ServiceName: "invoiceflow",
		Host:        os.Getenv("OTEL_HOST"),
		Probability: 1.0,
	})
	if err != nil {
		log.Fatalw("init tracing", "error", err)
	}
	defer shutdown(context.Background())

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatalw("db connect", "error", err)
	}
	if _, err := db.Exec(schema); err != nil {
		log.Fatalw("create tables", "error", err)
	}
	repo = pg.New(db)

	redisClient, err = cache.Connect(os.Getenv("REDIS_ADDR"))
	if err != nil {
		log.Fatalw("redis connect", "error", err)
	}
	routeCache = cache.NewRouteCache(redisClient)
	svc = invoice.NewService(repo, routeCache, log)

	r := mux.NewRouter()
	r.HandleFunc("/login", loginHandler).Methods(http.MethodPost)

	api := r.PathPrefix("/dashboard/invoices").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("", listInvoicesHandler).Methods(http.MethodGet)
	api.HandleFunc("", createInvoiceHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/edit", editInvoiceHandler).Methods(http.MethodGet)
	api.HandleFunc("/{id}", updateInvoiceHandler).Methods(http.MethodPost)
	api.HandleFunc("/{id}/delete", deleteInvoiceHandler).Methods(http.MethodPost)

	r.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

	log.Infow("listening", "addr", ":8443")
	if err := http.ListenAndServeTLS(":8443", "certs/server.crt", "certs/server.key", r); err != nil {
		log.Errorw("server closed", "error", err)
	}
}

// loginRequest represents login credentials.
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// loginHandler handles user login and session creation.
// @Summary Login
// @Description Authenticates user and sets session cookie
// @Accept json
// @Produce json
// @Param creds body loginRequest true "Credentials"
// @Success 200
// @Router /login [post]
func loginHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "loginHandler")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		http.Error(w, "invalid credentials", http.StatusBadRequest)
		return
	}
	sid := strconv.FormatInt(time.Now().UnixNano(), 10)
	if err := redisClient.Set(ctx, "session:"+sid, req.Username, time.Hour).Err(); err != nil {
		http.Error(w, "session error", http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: "session_id", Value: sid, Path: "/", Expires: time.Now().Add(time.Hour), HttpOnly: true})
	w.WriteHeader(http.StatusOK)
}

// authMiddleware ensures a valid session exists.
func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session_id")
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		user, err := redisClient.Get(r.Context(), "session:"+c.Value).Result()
		if err != nil || user == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), "user", user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// listInvoicesHandler lists invoices, served from the route cache when
// warm.
// @Summary List invoices
// @Produce json
// @Success 200 {array} invoice.Invoice
// @Security ApiKeyAuth
// @Router /dashboard/invoices [get]
func listInvoicesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listInvoicesHandler")
	defer span.End()

	log := logger.Sugar()
	w.Header().Set("Content-Type", "application/json")
	body, err := routeCache.Get(ctx, invoice.ListRoute)
	if err == nil {
		w.Write(body)
		return
	}
	if err != redis.Nil {
		log.Warnw("route cache", "error", err)
	}
	invoices, err := repo.List(ctx)
	if err != nil {
		log.Errorw("list invoices", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	body, err = json.Marshal(invoices)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := routeCache.Set(ctx, invoice.ListRoute, body); err != nil {
		log.Warnw("cache route", "error", err)
	}
	w.Write(body)
}

// createInvoiceHandler creates an invoice from a submitted form.
// @Summary Create invoice
// @Accept x-www-form-urlencoded
// @Produce json
// @Param customerId formData string true "Customer ID"
// @Param amount formData string true "Amount in dollars"
// @Param status formData string true "pending or paid"
// @Success 303
// @Failure 422 {object} invoice.State
// @Failure 500 {object} invoice.State
// @Security ApiKeyAuth
// @Router /dashboard/invoices [post]
func createInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createInvoiceHandler")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeState(w, r, svc.Create(ctx, r.PostForm))
}

// editInvoiceHandler returns the invoice and the customer list needed
// to render the edit form.
// @Summary Edit form data
// @Produce json
// @Param id path string true "Invoice ID"
// @Success 200
// @Failure 404
// @Security ApiKeyAuth
// @Router /dashboard/invoices/{id}/edit [get]
func editInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "editInvoiceHandler")
	defer span.End()

	inv, err := repo.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		if err == invoice.ErrNotFound {
			http.NotFound(w, r)
			return
		}
		logger.Sugar().Errorw("get invoice", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	customers, err := repo.ListCustomers(ctx)
	if err != nil {
		logger.Sugar().Errorw("list customers", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(struct {
		Invoice   invoice.Invoice    `json:"invoice"`
		Customers []invoice.Customer `json:"customers"`
	}{inv, customers})
}

// updateInvoiceHandler updates an existing invoice from a submitted
// form.
// @Summary Update invoice
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path string true "Invoice ID"
// @Param customerId formData string true "Customer ID"
// @Param amount formData string true "Amount in dollars"
// @Param status formData string true "pending or paid"
// @Success 303
// @Failure 422 {object} invoice.State
// @Failure 500 {object} invoice.State
// @Security ApiKeyAuth
// @Router /dashboard/invoices/{id} [post]
func updateInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateInvoiceHandler")
	defer span.End()

	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeState(w, r, svc.Update(ctx, mux.Vars(r)["id"], r.PostForm))
}

// deleteInvoiceHandler removes an invoice. The list view re-renders in
// place, so success carries no redirect.
// @Summary Delete invoice
// @Param id path string true "Invoice ID"
// @Success 204
// @Failure 500 {object} invoice.State
// @Security ApiKeyAuth
// @Router /dashboard/invoices/{id}/delete [post]
func deleteInvoiceHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteInvoiceHandler")
	defer span.End()

	st := svc.Delete(ctx, mux.Vars(r)["id"])
	if st.Message != "" {
		writeJSON(w, http.StatusInternalServerError, st)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeState renders a mutation outcome: redirect on success, the
// error state otherwise, so the client re-renders the form with the
// field errors and the values it already holds.
func writeState(w http.ResponseWriter, r *http.Request, st invoice.State) {
	if st.Redirect != "" {
		http.Redirect(w, r, st.Redirect, http.StatusSeeOther)
		return
	}
	status := http.StatusUnprocessableEntity
	if len(st.Errors) == 0 {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, st)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
