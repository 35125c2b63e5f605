package models

// Event formats as stored in the record store.
const (
	FormatOnline   = "Online"
	FormatInPerson = "In-person"
)

// Event statuses. The store keeps these as a single "Published" checkbox.
const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

// Time formats selectable per event.
const (
	TimeFormat24h  = "24h"
	TimeFormatAMPM = "ampm"
)

type Event struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title"`

	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`

	// Times are kept as entered ("18:30" or "6:30 PM" depending on
	// TimeFormat); validation normalizes before comparing.
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	StartTimeEndDate string `json:"startTimeEndDate"`
	EndTimeEndDate   string `json:"endTimeEndDate"`
	TimeFormat       string `json:"timeFormat"`

	Format              string `json:"format"`
	Location            string `json:"location"`
	LocationDescription string `json:"locationDescription"`
	LocationURL         string `json:"locationUrl"`
	ZoomLink            string `json:"zoomLink"`

	Description          string `json:"description"`
	Status               string `json:"status"`
	CalendarVisible      bool   `json:"calendarVisible"`
	TestMode             bool   `json:"testMode"`
	FacilitationLanguage string `json:"facilitationLanguage"`
	PageLanguage         string `json:"pageLanguage"`
	TimeZone             string `json:"timeZone"`
	Tags                 string `json:"tags"`
	Slug                 string `json:"slug"`

	FacilitatorIDs []string `json:"facilitatorIds"`
	CalendarIDs    []string `json:"calendarIds"`
	TicketIDs      []string `json:"ticketIds"`
	CouponIDs      []string `json:"couponIds"`
}

// Published reports whether the event status maps to the store's
// "Published" checkbox.
func (e *Event) Published() bool {
	return e.Status == StatusPublished
}
