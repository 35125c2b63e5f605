package gateway_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/gateway"
	"ms-event-dashboard/internal/models"
)

func TestEventToFieldsStripsEmptyStrings(t *testing.T) {
	ev := models.Event{
		Title:  "Breathwork Circle",
		Format: models.FormatInPerson,
		Status: models.StatusDraft,
	}

	fields := gateway.EventToFields(&ev)

	assert.Equal(t, "Breathwork Circle", fields["Event Title"])

	// Unset string fields must not travel at all.
	_, ok := fields["Start Date"]
	assert.False(t, ok)
	_, ok = fields["Description"]
	assert.False(t, ok)
	_, ok = fields["Slug"]
	assert.False(t, ok)

	// Booleans and id lists always travel, even when zero-valued.
	assert.Equal(t, false, fields["Published"])
	assert.Equal(t, false, fields["Calendar Visible"])
	assert.Equal(t, []string{}, fields["Host ID"])
	assert.Equal(t, []string{}, fields["Ticket ID"])
}

func TestEventToFieldsOnlineDropsLocation(t *testing.T) {
	ev := models.Event{
		Title:               "Remote Workshop",
		Format:              models.FormatOnline,
		Location:            "Community Hall",
		LocationDescription: "Second floor",
		LocationURL:         "https://maps.example.com/hall",
		ZoomLink:            "https://zoom.example.com/j/123",
	}

	fields := gateway.EventToFields(&ev)

	_, ok := fields["Location"]
	assert.False(t, ok)
	_, ok = fields["Location URL"]
	assert.False(t, ok)
	_, ok = fields["Location Description"]
	assert.False(t, ok)
	assert.Equal(t, "https://zoom.example.com/j/123", fields["Zoom link"])
}

func TestEventToFieldsInPersonDropsZoomLink(t *testing.T) {
	ev := models.Event{
		Title:    "City Meetup",
		Format:   models.FormatInPerson,
		Location: "Community Hall",
		ZoomLink: "https://zoom.example.com/j/123",
	}

	fields := gateway.EventToFields(&ev)

	_, ok := fields["Zoom link"]
	assert.False(t, ok)
	assert.Equal(t, "Community Hall", fields["Location"])
}

func TestEventFromRecordMapsPublishedCheckbox(t *testing.T) {
	rec := &airtable.Record{
		ID: "rec_evt1",
		Fields: map[string]any{
			"Event Title": "Published Event",
			"Published":   true,
			"Start Date":  "2026-09-01",
			"Host ID":     []any{"rec_fac1", "rec_fac2"},
		},
	}

	ev := gateway.EventFromRecord(rec)

	assert.Equal(t, "rec_evt1", ev.ID)
	assert.Equal(t, "Published Event", ev.Title)
	assert.Equal(t, models.StatusPublished, ev.Status)
	assert.Equal(t, "2026-09-01", ev.StartDate)
	assert.Equal(t, []string{"rec_fac1", "rec_fac2"}, ev.FacilitatorIDs)
}

func TestEventFromRecordDefaultsToDraft(t *testing.T) {
	rec := &airtable.Record{
		ID:     "rec_evt2",
		Fields: map[string]any{"Event Title": "Unpublished"},
	}

	ev := gateway.EventFromRecord(rec)
	assert.Equal(t, models.StatusDraft, ev.Status)
}

func TestEventFieldRoundTrip(t *testing.T) {
	ev := models.Event{
		Title:      "Round Trip",
		StartDate:  "2026-09-01",
		EndDate:    "2026-09-02",
		StartTime:  "6:30 PM",
		TimeFormat: models.TimeFormatAMPM,
		Format:     models.FormatInPerson,
		Location:   "The Barn",
		Status:     models.StatusPublished,
		TimeZone:   "Europe/Berlin",
		Slug:       "round-trip-ab12cd",
	}

	fields := gateway.EventToFields(&ev)
	back := gateway.EventFromRecord(&airtable.Record{ID: "rec_rt", Fields: fields})

	assert.Equal(t, ev.Title, back.Title)
	assert.Equal(t, ev.StartDate, back.StartDate)
	assert.Equal(t, ev.StartTime, back.StartTime)
	assert.Equal(t, ev.Format, back.Format)
	assert.Equal(t, ev.Location, back.Location)
	assert.Equal(t, ev.Status, back.Status)
	assert.Equal(t, ev.Slug, back.Slug)
}

func TestTicketToFieldsPriceOnlyForPaid(t *testing.T) {
	free := models.Ticket{Name: "Early Bird", Type: models.TicketFree, Price: 25}
	fields := gateway.TicketToFields(&free)
	_, ok := fields["Price"]
	assert.False(t, ok)
	assert.Equal(t, "Early Bird", fields["Ticket Name"])

	paid := models.Ticket{Name: "Standard", Type: models.TicketPaid, Price: 45.5, Currency: "EUR", EventID: "rec_evt1"}
	fields = gateway.TicketToFields(&paid)
	assert.Equal(t, 45.5, fields["Price"])
	assert.Equal(t, "EUR", fields["Currency"])
	assert.Equal(t, []string{"rec_evt1"}, fields["Event ID"])
}

func TestCouponToFieldsDiscountByType(t *testing.T) {
	amount := models.Coupon{Code: "TENOFF", Type: models.CouponAmount, Amount: 10}
	fields := gateway.CouponToFields(&amount)
	assert.Equal(t, 10.0, fields["Discount Amount"])
	_, ok := fields["Discount Percentage"]
	assert.False(t, ok)

	percentage := models.Coupon{Code: "HALF", Type: models.CouponPercentage, Percentage: 50}
	fields = gateway.CouponToFields(&percentage)
	assert.Equal(t, 50.0, fields["Discount Percentage"])
	_, ok = fields["Discount Amount"]
	assert.False(t, ok)
}

func TestCouponToFieldsOmitsTempLinkedTicket(t *testing.T) {
	c := models.Coupon{
		Code:           "LINKED",
		Type:           models.CouponFree,
		LinkedTicketID: models.NewTempID(),
	}
	fields := gateway.CouponToFields(&c)
	_, ok := fields["Linked Ticket"]
	assert.False(t, ok)

	c.LinkedTicketID = "rec_tkt1"
	fields = gateway.CouponToFields(&c)
	assert.Equal(t, []string{"rec_tkt1"}, fields["Linked Ticket"])
}

func TestTicketFromRecordCoercesNumbers(t *testing.T) {
	rec := &airtable.Record{
		ID: "rec_tkt1",
		Fields: map[string]any{
			"Ticket Name": "Standard",
			"Type":        models.TicketPaid,
			"Price":       45.0,
			"Limit":       100.0,
			"Event ID":    []any{"rec_evt1"},
		},
	}

	ticket := gateway.TicketFromRecord(rec)

	assert.Equal(t, "rec_tkt1", ticket.ID)
	assert.Equal(t, 45.0, ticket.Price)
	assert.Equal(t, 100, ticket.Limit)
	assert.Equal(t, "rec_evt1", ticket.EventID)
}
