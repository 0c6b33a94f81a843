package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

// Services carries the domain services the API exposes.
type Services struct {
	Invoices *invoice.Service
	Entries  *timesheet.Service
	Activity *activity.Service
}

// ClientStore persists clients created through the intake endpoints.
type ClientStore interface {
	Create(ctx context.Context, tenantID string, cli *ticket.Client) error
}

// TicketStore persists tickets created through the intake endpoints.
type TicketStore interface {
	Create(ctx context.Context, tenantID string, tkt *ticket.Ticket) error
}

// Server wires HTTP handlers to the domain services.
type Server struct {
	services Services
	clients  ClientStore
	tickets  TicketStore
	logger   *slog.Logger
}

// NewRouter creates the API router with middleware. A nil authMiddleware
// leaves the API open, which only the tests use.
func NewRouter(services Services, clients ClientStore, tickets TicketStore, logger *slog.Logger, authMiddleware func(http.Handler) http.Handler) *chi.Mux {
	srv := &Server{
		services: services,
		clients:  clients,
		tickets:  tickets,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Get("/health", srv.handleHealth)

	r.Route("/api", func(r chi.Router) {
		if authMiddleware != nil {
			r.Use(authMiddleware)
		}
		r.Use(srv.requestLogger)

		r.Post("/clients", srv.handleCreateClient)
		r.Post("/tickets", srv.handleCreateTicket)
		r.Post("/estimates", srv.handleEstimate)

		r.Post("/tickets/{ticketID}/entries", srv.handleStartEntry)
		r.Get("/tickets/{ticketID}/entries", srv.handleListEntries)
		r.Post("/entries/{entryID}/stop", srv.handleStopEntry)

		r.Post("/tickets/{ticketID}/close", srv.handleCloseTicket)
		r.Get("/tickets/{ticketID}/invoice", srv.handleGetTicketInvoice)
		r.Get("/invoices/{invoiceID}", srv.handleGetInvoice)
		r.Get("/invoices/number/{invoiceNumber}", srv.handleGetInvoiceByNumber)
		r.Get("/clients/{clientID}/invoices", srv.handleListClientInvoices)
		r.Patch("/invoices/{invoiceID}/payment", srv.handleUpdatePayment)

		r.Get("/activity", srv.handleListActivity)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// tenant pulls the tenant ID resolved by the auth middleware. Without
// auth configured every request belongs to the default tenant.
func (s *Server) tenant(r *http.Request) string {
	if tenantID, ok := TenantFromContext(r.Context()); ok && tenantID != "" {
		return tenantID
	}
	return "default"
}
