package editor

import (
	"fmt"
	"strings"
	"time"

	"ms-event-dashboard/internal/models"
)

// FieldViolation names one field rule the draft breaks.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is the consolidated list of every violation found in
// one validation pass. It never reaches the record store.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

const dateLayout = "2006-01-02"

// ValidateDraft checks the whole aggregate and reports all violations
// at once rather than stopping at the first.
func ValidateDraft(agg *Aggregate) *ValidationError {
	var violations []FieldViolation
	add := func(field, message string) {
		violations = append(violations, FieldViolation{Field: field, Message: message})
	}

	ev := &agg.Event
	if strings.TrimSpace(ev.Title) == "" {
		add("title", "event title is required")
	}
	if ev.StartDate == "" {
		add("startDate", "start date is required")
	}
	if ev.EndDate == "" {
		add("endDate", "end date is required")
	}

	var start, end time.Time
	var startOK, endOK bool
	if ev.StartDate != "" {
		if parsed, err := time.Parse(dateLayout, ev.StartDate); err != nil {
			add("startDate", "start date must be YYYY-MM-DD")
		} else {
			start, startOK = parsed, true
		}
	}
	if ev.EndDate != "" {
		if parsed, err := time.Parse(dateLayout, ev.EndDate); err != nil {
			add("endDate", "end date must be YYYY-MM-DD")
		} else {
			end, endOK = parsed, true
		}
	}

	if startOK && endOK {
		if start.After(end) {
			add("startDate", "start date must not be after end date")
			add("endDate", "end date must not be before start date")
		} else if start.Equal(end) && ev.StartTime != "" && ev.EndTime != "" {
			startMin, serr := ClockMinutes(ev.StartTime, ev.TimeFormat)
			endMin, eerr := ClockMinutes(ev.EndTime, ev.TimeFormat)
			if serr != nil {
				add("startTime", "start time is not a valid time")
			}
			if eerr != nil {
				add("endTime", "end time is not a valid time")
			}
			if serr == nil && eerr == nil && startMin >= endMin {
				add("startTime", "start time must be before end time on same-day events")
				add("endTime", "end time must be after start time on same-day events")
			}
		}
	}

	for i := range agg.Tickets {
		t := &agg.Tickets[i]
		field := fmt.Sprintf("tickets[%d]", i)
		if strings.TrimSpace(t.Name) == "" {
			add(field+".name", "ticket name is required")
		}
		if t.Type == models.TicketPaid && t.Price <= 0 {
			add(field+".price", "price must be greater than 0 for paid tickets")
		}
	}

	ticketIDs := make(map[string]bool, len(agg.Tickets))
	for _, t := range agg.Tickets {
		ticketIDs[t.ID] = true
	}
	for i := range agg.Coupons {
		c := &agg.Coupons[i]
		field := fmt.Sprintf("coupons[%d]", i)
		if strings.TrimSpace(c.Code) == "" {
			add(field+".code", "coupon code is required")
		}
		switch c.Type {
		case models.CouponAmount:
			if c.Amount <= 0 {
				add(field+".amount", "discount amount must be greater than 0")
			}
		case models.CouponPercentage:
			if c.Percentage <= 0 || c.Percentage > 100 {
				add(field+".percentage", "discount percentage must be between 1 and 100")
			}
		}
		if c.LinkedTicketID != "" && !ticketIDs[c.LinkedTicketID] {
			add(field+".linkedTicketId", "linked ticket must belong to this event")
		}
	}

	if violations == nil {
		return nil
	}
	return &ValidationError{Violations: violations}
}

// ClockMinutes normalizes a clock string to minutes since midnight.
// 12-hour inputs ("6:30 PM") are converted before comparison so cross
// format comparisons stay numeric.
func ClockMinutes(clock, timeFormat string) (int, error) {
	clock = strings.TrimSpace(clock)

	layouts := []string{"15:04"}
	if timeFormat == models.TimeFormatAMPM {
		layouts = []string{"3:04 PM", "03:04 PM", "3:04PM", "15:04"}
	}

	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, strings.ToUpper(clock)); err == nil {
			return parsed.Hour()*60 + parsed.Minute(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized time %q", clock)
}
