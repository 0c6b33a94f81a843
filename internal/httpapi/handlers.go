package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/opsrate/fieldbill/internal/domain/activity"
	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/domain/ticket"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
)

type createClientRequest struct {
	Name       string           `json:"name"`
	HourlyRate *decimal.Decimal `json:"hourly_rate,omitempty"`
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req createClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "name is required")
		return
	}
	if req.HourlyRate != nil && !req.HourlyRate.IsPositive() {
		writeError(w, http.StatusUnprocessableEntity, "hourly_rate must be positive")
		return
	}

	cli := &ticket.Client{
		ID:         uuid.NewString(),
		Name:       req.Name,
		HourlyRate: req.HourlyRate,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.clients.Create(r.Context(), s.tenant(r), cli); err != nil {
		respondError(w, err)
		return
	}
	cli.TenantID = s.tenant(r)
	writeJSON(w, http.StatusCreated, cli)
}

type createTicketRequest struct {
	ClientID string `json:"client_id"`
	Title    string `json:"title"`
}

func (s *Server) handleCreateTicket(w http.ResponseWriter, r *http.Request) {
	var req createTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClientID == "" || req.Title == "" {
		writeError(w, http.StatusUnprocessableEntity, "client_id and title are required")
		return
	}

	tkt := &ticket.Ticket{
		ID:        uuid.NewString(),
		ClientID:  req.ClientID,
		Title:     req.Title,
		Status:    ticket.StatusOpen,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.tickets.Create(r.Context(), s.tenant(r), tkt); err != nil {
		respondError(w, err)
		return
	}
	tkt.TenantID = s.tenant(r)
	writeJSON(w, http.StatusCreated, tkt)
}

type estimateRequest struct {
	ClientID      string    `json:"client_id"`
	TicketID      string    `json:"ticket_id,omitempty"`
	Start         time.Time `json:"start"`
	DurationHours float64   `json:"duration_hours"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	estimate, err := s.services.Invoices.EstimateTicket(r.Context(), s.tenant(r), invoice.EstimateRequest{
		ClientID:      req.ClientID,
		TicketID:      req.TicketID,
		Start:         req.Start,
		DurationHours: req.DurationHours,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, estimate)
}

type startEntryRequest struct {
	TechnicianID string `json:"technician_id"`
}

func (s *Server) handleStartEntry(w http.ResponseWriter, r *http.Request) {
	var req startEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	entry, err := s.services.Entries.Start(r.Context(), s.tenant(r), timesheet.StartRequest{
		TicketID:     chi.URLParam(r, "ticketID"),
		TechnicianID: req.TechnicianID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.services.Entries.ListByTicket(r.Context(), s.tenant(r), chi.URLParam(r, "ticketID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []timesheet.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleStopEntry(w http.ResponseWriter, r *http.Request) {
	entry, err := s.services.Entries.Stop(r.Context(), s.tenant(r), chi.URLParam(r, "entryID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) handleCloseTicket(w http.ResponseWriter, r *http.Request) {
	inv, err := s.services.Invoices.CloseTicket(r.Context(), s.tenant(r), chi.URLParam(r, "ticketID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.services.Invoices.Get(r.Context(), s.tenant(r), chi.URLParam(r, "invoiceID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleGetInvoiceByNumber(w http.ResponseWriter, r *http.Request) {
	inv, err := s.services.Invoices.GetByNumber(r.Context(), s.tenant(r), chi.URLParam(r, "invoiceNumber"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleGetTicketInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := s.services.Invoices.GetByTicket(r.Context(), s.tenant(r), chi.URLParam(r, "ticketID"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleListClientInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.services.Invoices.ListByClient(r.Context(), s.tenant(r), chi.URLParam(r, "clientID"))
	if err != nil {
		respondError(w, err)
		return
	}
	if invoices == nil {
		invoices = []invoice.Invoice{}
	}
	writeJSON(w, http.StatusOK, invoices)
}

type paymentRequest struct {
	Status string     `json:"status"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := s.services.Invoices.SetPaymentStatus(r.Context(), s.tenant(r),
		chi.URLParam(r, "invoiceID"), invoice.PaymentStatus(req.Status), req.PaidAt)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, inv)
}

func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	opts := activity.ListActivityOptions{Limit: 50}
	q := r.URL.Query()
	if v := q.Get("ticket_id"); v != "" {
		opts.TicketID = &v
	}
	if v := q.Get("invoice_id"); v != "" {
		opts.InvoiceID = &v
	}
	if v := q.Get("type"); v != "" {
		at := activity.ActivityType(v)
		opts.ActivityType = &at
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			writeError(w, http.StatusUnprocessableEntity, "limit must be a positive integer")
			return
		}
		opts.Limit = limit
	}
	if v := q.Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			writeError(w, http.StatusUnprocessableEntity, "offset must be a non-negative integer")
			return
		}
		opts.Offset = offset
	}

	entries, err := s.services.Activity.GetRecentActivity(r.Context(), s.tenant(r), opts)
	if err != nil {
		respondError(w, err)
		return
	}
	if entries == nil {
		entries = []activity.ActivityEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
