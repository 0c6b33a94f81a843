package timesheet

import "errors"

var (
	// ErrNoEntries indicates a ticket was billed with no recorded work.
	ErrNoEntries = errors.New("ticket has no time entries")
	// ErrEntryInverted indicates an entry ends before it starts after rounding.
	ErrEntryInverted = errors.New("time entry ends before it starts")
	// ErrEntriesOverlap indicates two entries cover the same wall-clock span.
	ErrEntriesOverlap = errors.New("time entries overlap")
	// ErrEntryAlreadyOpen indicates the technician already has a running entry.
	ErrEntryAlreadyOpen = errors.New("an open time entry already exists for this ticket and technician")
	// ErrEntryAlreadyClosed indicates a stop on an entry that has ended.
	ErrEntryAlreadyClosed = errors.New("time entry is already closed")
	// ErrEntryNotFound indicates the entry doesn't exist.
	ErrEntryNotFound = errors.New("time entry not found")
	// ErrTicketNotFound indicates the ticket doesn't exist.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrInvalidInput indicates missing identifiers on a lifecycle request.
	ErrInvalidInput = errors.New("invalid time entry input")
)
