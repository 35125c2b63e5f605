package gateway

import (
	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/models"
)

// Store-side table names.
const (
	TableEvents       = "Events"
	TableTickets      = "Tickets"
	TableCoupons      = "Coupons"
	TableFacilitators = "Facilitators"
	TableCalendars    = "Calendars"
	TableVendors      = "Vendors"
)

// eventField binds one internal Event field to its store-side name in
// both directions. read returns ok=false for values that must be
// stripped from outgoing payloads (the store mishandles null-ish values
// inconsistently across field types).
type eventField struct {
	external string
	read     func(e *models.Event) (any, bool)
	write    func(e *models.Event, v any)
}

func strField(external string, get func(e *models.Event) string, set func(e *models.Event, s string)) eventField {
	return eventField{
		external: external,
		read: func(e *models.Event) (any, bool) {
			s := get(e)
			return s, s != ""
		},
		write: func(e *models.Event, v any) {
			if s, ok := v.(string); ok {
				set(e, s)
			}
		},
	}
}

func boolField(external string, get func(e *models.Event) bool, set func(e *models.Event, b bool)) eventField {
	return eventField{
		external: external,
		read: func(e *models.Event) (any, bool) {
			return get(e), true
		},
		write: func(e *models.Event, v any) {
			if b, ok := v.(bool); ok {
				set(e, b)
			}
		},
	}
}

func idListField(external string, get func(e *models.Event) []string, set func(e *models.Event, ids []string)) eventField {
	return eventField{
		external: external,
		read: func(e *models.Event) (any, bool) {
			ids := get(e)
			if ids == nil {
				ids = []string{}
			}
			return ids, true
		},
		write: func(e *models.Event, v any) {
			set(e, asStringSlice(v))
		},
	}
}

// eventFields is the canonical bidirectional mapping between the editor's
// internal names and the store's human-readable field names.
var eventFields = []eventField{
	strField("Event Title",
		func(e *models.Event) string { return e.Title },
		func(e *models.Event, s string) { e.Title = s }),
	strField("Start Date",
		func(e *models.Event) string { return e.StartDate },
		func(e *models.Event, s string) { e.StartDate = s }),
	strField("End Date",
		func(e *models.Event) string { return e.EndDate },
		func(e *models.Event, s string) { e.EndDate = s }),
	strField("Start Time (Start Date)",
		func(e *models.Event) string { return e.StartTime },
		func(e *models.Event, s string) { e.StartTime = s }),
	strField("End Time (Start Date)",
		func(e *models.Event) string { return e.EndTime },
		func(e *models.Event, s string) { e.EndTime = s }),
	strField("Start Time (End Date)",
		func(e *models.Event) string { return e.StartTimeEndDate },
		func(e *models.Event, s string) { e.StartTimeEndDate = s }),
	strField("End Time (End Date)",
		func(e *models.Event) string { return e.EndTimeEndDate },
		func(e *models.Event, s string) { e.EndTimeEndDate = s }),
	strField("Time Format",
		func(e *models.Event) string { return e.TimeFormat },
		func(e *models.Event, s string) { e.TimeFormat = s }),
	strField("Format",
		func(e *models.Event) string { return e.Format },
		func(e *models.Event, s string) { e.Format = s }),
	strField("Location",
		func(e *models.Event) string { return e.Location },
		func(e *models.Event, s string) { e.Location = s }),
	strField("Location Description",
		func(e *models.Event) string { return e.LocationDescription },
		func(e *models.Event, s string) { e.LocationDescription = s }),
	strField("Location URL",
		func(e *models.Event) string { return e.LocationURL },
		func(e *models.Event, s string) { e.LocationURL = s }),
	strField("Zoom link",
		func(e *models.Event) string { return e.ZoomLink },
		func(e *models.Event, s string) { e.ZoomLink = s }),
	strField("Description",
		func(e *models.Event) string { return e.Description },
		func(e *models.Event, s string) { e.Description = s }),
	strField("Facilitation Language",
		func(e *models.Event) string { return e.FacilitationLanguage },
		func(e *models.Event, s string) { e.FacilitationLanguage = s }),
	strField("Page Language",
		func(e *models.Event) string { return e.PageLanguage },
		func(e *models.Event, s string) { e.PageLanguage = s }),
	strField("Time Zone",
		func(e *models.Event) string { return e.TimeZone },
		func(e *models.Event, s string) { e.TimeZone = s }),
	strField("Tags",
		func(e *models.Event) string { return e.Tags },
		func(e *models.Event, s string) { e.Tags = s }),
	strField("Slug",
		func(e *models.Event) string { return e.Slug },
		func(e *models.Event, s string) { e.Slug = s }),

	boolField("Published",
		func(e *models.Event) bool { return e.Published() },
		func(e *models.Event, b bool) {
			if b {
				e.Status = models.StatusPublished
			} else {
				e.Status = models.StatusDraft
			}
		}),
	boolField("Calendar Visible",
		func(e *models.Event) bool { return e.CalendarVisible },
		func(e *models.Event, b bool) { e.CalendarVisible = b }),
	boolField("Test Mode",
		func(e *models.Event) bool { return e.TestMode },
		func(e *models.Event, b bool) { e.TestMode = b }),

	idListField("Host ID",
		func(e *models.Event) []string { return e.FacilitatorIDs },
		func(e *models.Event, ids []string) { e.FacilitatorIDs = ids }),
	idListField("Calendar ID",
		func(e *models.Event) []string { return e.CalendarIDs },
		func(e *models.Event, ids []string) { e.CalendarIDs = ids }),
	idListField("Ticket ID",
		func(e *models.Event) []string { return e.TicketIDs },
		func(e *models.Event, ids []string) { e.TicketIDs = ids }),
	idListField("Coupon ID",
		func(e *models.Event) []string { return e.CouponIDs },
		func(e *models.Event, ids []string) { e.CouponIDs = ids }),
}

// EventToFields builds the outgoing payload for an event. Location
// fields and the zoom link are mutually exclusive on the wire: an
// Online event never persists location data and an In-person event
// never persists a zoom link.
func EventToFields(e *models.Event) map[string]any {
	fields := make(map[string]any, len(eventFields))
	for _, f := range eventFields {
		if v, ok := f.read(e); ok {
			fields[f.external] = v
		}
	}

	switch e.Format {
	case models.FormatOnline:
		delete(fields, "Location")
		delete(fields, "Location URL")
		delete(fields, "Location Description")
	case models.FormatInPerson:
		delete(fields, "Zoom link")
	}
	return fields
}

// EventFromRecord maps a store record back onto the internal shape.
func EventFromRecord(rec *airtable.Record) models.Event {
	var e models.Event
	e.ID = rec.ID
	e.Status = models.StatusDraft
	for _, f := range eventFields {
		if v, ok := rec.Fields[f.external]; ok {
			f.write(&e, v)
		}
	}
	return e
}

// TicketToFields builds the outgoing payload for a ticket. Price only
// travels for paid tickets.
func TicketToFields(t *models.Ticket) map[string]any {
	fields := map[string]any{
		"Type":       t.Type,
		"Sort Order": t.SortOrder,
	}
	if t.Name != "" {
		fields["Ticket Name"] = t.Name
	}
	if t.Type == models.TicketPaid {
		fields["Price"] = t.Price
	}
	if t.Currency != "" {
		fields["Currency"] = t.Currency
	}
	if t.Limit > 0 {
		fields["Limit"] = t.Limit
	}
	if t.UntilDate != "" {
		fields["Until Date"] = t.UntilDate
	}
	if t.EventID != "" {
		fields["Event ID"] = []string{t.EventID}
	}
	return fields
}

func TicketFromRecord(rec *airtable.Record) models.Ticket {
	t := models.Ticket{
		ID:        rec.ID,
		Name:      asString(rec.Fields["Ticket Name"]),
		Type:      asString(rec.Fields["Type"]),
		Price:     asFloat(rec.Fields["Price"]),
		Currency:  asString(rec.Fields["Currency"]),
		Limit:     int(asFloat(rec.Fields["Limit"])),
		UntilDate: asString(rec.Fields["Until Date"]),
		SortOrder: int(asFloat(rec.Fields["Sort Order"])),
	}
	if ids := asStringSlice(rec.Fields["Event ID"]); len(ids) > 0 {
		t.EventID = ids[0]
	}
	return t
}

// CouponToFields builds the outgoing payload for a coupon. Discount
// magnitude travels under the field matching the coupon type.
func CouponToFields(c *models.Coupon) map[string]any {
	fields := map[string]any{
		"Coupon Type": c.Type,
	}
	if c.Name != "" {
		fields["Coupon Name"] = c.Name
	}
	if c.Code != "" {
		fields["Coupon Code"] = c.Code
	}
	switch c.Type {
	case models.CouponAmount:
		fields["Discount Amount"] = c.Amount
	case models.CouponPercentage:
		fields["Discount Percentage"] = c.Percentage
	}
	if c.Limit > 0 {
		fields["Limit"] = c.Limit
	}
	if models.HasExternalID(c.LinkedTicketID) {
		fields["Linked Ticket"] = []string{c.LinkedTicketID}
	}
	if c.EventID != "" {
		fields["Event ID"] = []string{c.EventID}
	}
	return fields
}

func CouponFromRecord(rec *airtable.Record) models.Coupon {
	c := models.Coupon{
		ID:         rec.ID,
		Name:       asString(rec.Fields["Coupon Name"]),
		Code:       asString(rec.Fields["Coupon Code"]),
		Type:       asString(rec.Fields["Coupon Type"]),
		Amount:     asFloat(rec.Fields["Discount Amount"]),
		Percentage: asFloat(rec.Fields["Discount Percentage"]),
		Limit:      int(asFloat(rec.Fields["Limit"])),
	}
	if ids := asStringSlice(rec.Fields["Linked Ticket"]); len(ids) > 0 {
		c.LinkedTicketID = ids[0]
	}
	if ids := asStringSlice(rec.Fields["Event ID"]); len(ids) > 0 {
		c.EventID = ids[0]
	}
	return c
}

func FacilitatorFromRecord(rec *airtable.Record) models.Facilitator {
	return models.Facilitator{ID: rec.ID, Name: asString(rec.Fields["Name"])}
}

func CalendarFromRecord(rec *airtable.Record) models.Calendar {
	return models.Calendar{ID: rec.ID, Name: asString(rec.Fields["Calendar Name"])}
}

func VendorFromRecord(rec *airtable.Record) models.Vendor {
	return models.Vendor{
		ID:           rec.ID,
		Name:         asString(rec.Fields["Name"]),
		Email:        asString(rec.Fields["Email"]),
		PasswordHash: asString(rec.Fields["Password Hash"]),
	}
}

// Coercion helpers. The store's JSON decodes numbers as float64 and
// link fields as []any.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return 0
}

func asStringSlice(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
