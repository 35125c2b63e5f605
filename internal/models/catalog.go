package models

// Facilitator is a catalog entry from the Facilitators table.
type Facilitator struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Calendar is a catalog entry from the Calendars table.
type Calendar struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
