package invoice

import "errors"

var (
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrClientNotFound indicates the ticket's client doesn't exist.
	ErrClientNotFound = errors.New("client not found")
	// ErrInvoiceNotFound indicates the invoice doesn't exist.
	ErrInvoiceNotFound = errors.New("invoice not found")
	// ErrTicketAlreadyClosed indicates the ticket was already invoiced.
	ErrTicketAlreadyClosed = errors.New("ticket is already closed")
	// ErrTicketNotBillable indicates a cancelled ticket cannot be invoiced.
	ErrTicketNotBillable = errors.New("ticket is not billable")
	// ErrInvalidPaymentStatus indicates an unknown payment status value.
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	// ErrInvalidInput indicates missing identifiers on a request.
	ErrInvalidInput = errors.New("invalid invoice input")
)
