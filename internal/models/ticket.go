package models

// Ticket types.
const (
	TicketFree = "FREE"
	TicketPaid = "PAID"
)

// Ticket is one admission tier of an event. A ticket belongs to exactly
// one event and is never shared across events.
type Ticket struct {
	ID      string `json:"id,omitempty"`
	EventID string `json:"eventId,omitempty"`

	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`

	// Limit caps the quantity sold; zero means unlimited.
	Limit     int    `json:"limit"`
	UntilDate string `json:"untilDate"`
	SortOrder int    `json:"sortOrder"`
}
