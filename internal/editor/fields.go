package editor

import (
	"fmt"

	"ms-event-dashboard/internal/models"
)

// eventSetters maps internal field names, as the SPA sends them, onto
// draft mutations. Id-list fields go through here too so the editor can
// relink facilitators and calendars field-by-field.
var eventSetters = map[string]func(e *models.Event, v any) error{
	"title":                func(e *models.Event, v any) error { return setString(&e.Title, v) },
	"startDate":            func(e *models.Event, v any) error { return setString(&e.StartDate, v) },
	"endDate":              func(e *models.Event, v any) error { return setString(&e.EndDate, v) },
	"startTime":            func(e *models.Event, v any) error { return setString(&e.StartTime, v) },
	"endTime":              func(e *models.Event, v any) error { return setString(&e.EndTime, v) },
	"startTimeEndDate":     func(e *models.Event, v any) error { return setString(&e.StartTimeEndDate, v) },
	"endTimeEndDate":       func(e *models.Event, v any) error { return setString(&e.EndTimeEndDate, v) },
	"timeFormat":           func(e *models.Event, v any) error { return setString(&e.TimeFormat, v) },
	"format":               func(e *models.Event, v any) error { return setString(&e.Format, v) },
	"location":             func(e *models.Event, v any) error { return setString(&e.Location, v) },
	"locationDescription":  func(e *models.Event, v any) error { return setString(&e.LocationDescription, v) },
	"locationUrl":          func(e *models.Event, v any) error { return setString(&e.LocationURL, v) },
	"zoomLink":             func(e *models.Event, v any) error { return setString(&e.ZoomLink, v) },
	"description":          func(e *models.Event, v any) error { return setString(&e.Description, v) },
	"status":               func(e *models.Event, v any) error { return setString(&e.Status, v) },
	"facilitationLanguage": func(e *models.Event, v any) error { return setString(&e.FacilitationLanguage, v) },
	"pageLanguage":         func(e *models.Event, v any) error { return setString(&e.PageLanguage, v) },
	"timeZone":             func(e *models.Event, v any) error { return setString(&e.TimeZone, v) },
	"tags":                 func(e *models.Event, v any) error { return setString(&e.Tags, v) },
	"slug":                 func(e *models.Event, v any) error { return setString(&e.Slug, v) },
	"calendarVisible":      func(e *models.Event, v any) error { return setBool(&e.CalendarVisible, v) },
	"testMode":             func(e *models.Event, v any) error { return setBool(&e.TestMode, v) },
	"facilitatorIds":       func(e *models.Event, v any) error { return setStringList(&e.FacilitatorIDs, v) },
	"calendarIds":          func(e *models.Event, v any) error { return setStringList(&e.CalendarIDs, v) },
}

func setString(dst *string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", v)
	}
	*dst = s
	return nil
}

func setBool(dst *bool, v any) error {
	b, ok := v.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", v)
	}
	*dst = b
	return nil
}

func setStringList(dst *[]string, v any) error {
	switch list := v.(type) {
	case []string:
		*dst = list
		return nil
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("expected string list, got %T element", item)
			}
			out = append(out, s)
		}
		*dst = out
		return nil
	}
	return fmt.Errorf("expected string list, got %T", v)
}
