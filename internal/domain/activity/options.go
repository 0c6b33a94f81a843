package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	TicketID     *string
	InvoiceID    *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
