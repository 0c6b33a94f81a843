package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opsrate/fieldbill/internal/domain/billing"
	"github.com/opsrate/fieldbill/internal/domain/invoice"
	"github.com/opsrate/fieldbill/internal/domain/rate"
	"github.com/opsrate/fieldbill/internal/domain/timesheet"
	"github.com/opsrate/fieldbill/internal/repository"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// statusFor maps domain errors onto HTTP statuses. Input and configuration
// problems are 422 so callers can tell "fix your data" from "not found"
// and from "already finalized".
func statusFor(err error) int {
	switch {
	case errors.Is(err, invoice.ErrTicketNotFound),
		errors.Is(err, invoice.ErrClientNotFound),
		errors.Is(err, invoice.ErrInvoiceNotFound),
		errors.Is(err, timesheet.ErrTicketNotFound),
		errors.Is(err, timesheet.ErrEntryNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, invoice.ErrTicketAlreadyClosed),
		errors.Is(err, timesheet.ErrEntryAlreadyOpen),
		errors.Is(err, timesheet.ErrEntryAlreadyClosed),
		errors.Is(err, repository.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, billing.ErrInvalidBaseRate),
		errors.Is(err, billing.ErrInvalidDuration),
		errors.Is(err, timesheet.ErrNoEntries),
		errors.Is(err, timesheet.ErrEntryInverted),
		errors.Is(err, timesheet.ErrEntriesOverlap),
		errors.Is(err, invoice.ErrTicketNotBillable),
		errors.Is(err, invoice.ErrInvalidPaymentStatus),
		errors.Is(err, invoice.ErrInvalidInput),
		errors.Is(err, timesheet.ErrInvalidInput),
		errors.Is(err, rate.ErrInvalidTier),
		errors.Is(err, repository.ErrInvalidInput),
		errors.Is(err, repository.ErrForeignKeyViolation):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func respondError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeError(w, status, message)
}
