package gateway

import (
	"context"
	"fmt"
	"strings"

	"ms-event-dashboard/internal/airtable"
	"ms-event-dashboard/internal/logger"
	"ms-event-dashboard/internal/models"
)

// Gateway is the single translation point between the editor's internal
// shapes and the record store. It performs no caching and no retries;
// failed operations surface to the caller.
type Gateway struct {
	Client *airtable.Client
	Logger *logger.Logger
}

func New(client *airtable.Client, log *logger.Logger) *Gateway {
	return &Gateway{Client: client, Logger: log}
}

// FetchEvent loads one event record.
func (g *Gateway) FetchEvent(ctx context.Context, id string) (models.Event, error) {
	rec, err := g.Client.GetRecord(ctx, TableEvents, id)
	if err != nil {
		return models.Event{}, fmt.Errorf("fetch event %s: %w", id, err)
	}
	return EventFromRecord(rec), nil
}

// ListEvents returns every event in the base, for the dashboard list.
func (g *Gateway) ListEvents(ctx context.Context) ([]models.Event, error) {
	recs, err := g.Client.ListRecords(ctx, TableEvents, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]models.Event, 0, len(recs))
	for i := range recs {
		events = append(events, EventFromRecord(&recs[i]))
	}
	return events, nil
}

// fetchManyByID resolves an id set in a single round trip by collapsing
// the ids into one OR(RECORD_ID()=...) filter formula. An empty id set
// short-circuits without a network call.
func (g *Gateway) fetchManyByID(ctx context.Context, table string, ids []string) ([]airtable.Record, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	clauses := make([]string, 0, len(ids))
	for _, id := range ids {
		clauses = append(clauses, fmt.Sprintf("RECORD_ID()='%s'", escapeFormulaValue(id)))
	}
	formula := clauses[0]
	if len(clauses) > 1 {
		formula = fmt.Sprintf("OR(%s)", strings.Join(clauses, ","))
	}

	recs, err := g.Client.ListRecords(ctx, table, airtable.ListOptions{FilterByFormula: formula})
	if err != nil {
		return nil, fmt.Errorf("fetch %s by id: %w", table, err)
	}
	return recs, nil
}

// TicketsByID resolves a ticket id list in one batched call.
func (g *Gateway) TicketsByID(ctx context.Context, ids []string) ([]models.Ticket, error) {
	recs, err := g.fetchManyByID(ctx, TableTickets, ids)
	if err != nil {
		return nil, err
	}
	tickets := make([]models.Ticket, 0, len(recs))
	for i := range recs {
		tickets = append(tickets, TicketFromRecord(&recs[i]))
	}
	return tickets, nil
}

// CouponsByID resolves a coupon id list in one batched call.
func (g *Gateway) CouponsByID(ctx context.Context, ids []string) ([]models.Coupon, error) {
	recs, err := g.fetchManyByID(ctx, TableCoupons, ids)
	if err != nil {
		return nil, err
	}
	coupons := make([]models.Coupon, 0, len(recs))
	for i := range recs {
		coupons = append(coupons, CouponFromRecord(&recs[i]))
	}
	return coupons, nil
}

// Facilitators loads the full facilitator catalog.
func (g *Gateway) Facilitators(ctx context.Context) ([]models.Facilitator, error) {
	recs, err := g.Client.ListRecords(ctx, TableFacilitators, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list facilitators: %w", err)
	}
	out := make([]models.Facilitator, 0, len(recs))
	for i := range recs {
		out = append(out, FacilitatorFromRecord(&recs[i]))
	}
	return out, nil
}

// Calendars loads the full calendar catalog.
func (g *Gateway) Calendars(ctx context.Context) ([]models.Calendar, error) {
	recs, err := g.Client.ListRecords(ctx, TableCalendars, airtable.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}
	out := make([]models.Calendar, 0, len(recs))
	for i := range recs {
		out = append(out, CalendarFromRecord(&recs[i]))
	}
	return out, nil
}

// VendorByEmail finds one vendor account by email.
func (g *Gateway) VendorByEmail(ctx context.Context, email string) (models.Vendor, error) {
	formula := fmt.Sprintf("LOWER({Email})='%s'", escapeFormulaValue(strings.ToLower(email)))
	recs, err := g.Client.ListRecords(ctx, TableVendors, airtable.ListOptions{FilterByFormula: formula, MaxRecords: 1})
	if err != nil {
		return models.Vendor{}, fmt.Errorf("lookup vendor: %w", err)
	}
	if len(recs) == 0 {
		return models.Vendor{}, airtable.ErrNotFound
	}
	return VendorFromRecord(&recs[0]), nil
}

// UpsertEvent creates the event when it has no external id and updates
// exactly that record otherwise. Returns the event with its store id.
func (g *Gateway) UpsertEvent(ctx context.Context, ev models.Event) (models.Event, error) {
	fields := EventToFields(&ev)

	if models.HasExternalID(ev.ID) {
		_, err := g.Client.UpdateRecords(ctx, TableEvents, []airtable.RecordPatch{{ID: ev.ID, Fields: fields}})
		if err != nil {
			return ev, fmt.Errorf("update event %s: %w", ev.ID, err)
		}
		if g.Logger != nil {
			g.Logger.LogAirtable("UPDATE", TableEvents, ev.ID)
		}
		return ev, nil
	}

	created, err := g.Client.CreateRecords(ctx, TableEvents, []map[string]any{fields})
	if err != nil {
		return ev, fmt.Errorf("create event: %w", err)
	}
	if len(created) != 1 {
		return ev, fmt.Errorf("create event: expected 1 record, got %d", len(created))
	}
	ev.ID = created[0].ID
	if g.Logger != nil {
		g.Logger.LogAirtable("CREATE", TableEvents, ev.ID)
	}
	return ev, nil
}

// UpsertTickets persists a ticket list for an event: tickets without an
// external id go into one create batch, the rest into one update batch.
// The returned list preserves input order and carries assigned ids; the
// returned map translates temp ids to assigned ids.
func (g *Gateway) UpsertTickets(ctx context.Context, eventID string, tickets []models.Ticket) ([]models.Ticket, map[string]string, error) {
	result := make([]models.Ticket, len(tickets))
	copy(result, tickets)

	var creates []map[string]any
	var createIdx []int
	var updates []airtable.RecordPatch

	for i := range result {
		result[i].EventID = eventID
		if models.HasExternalID(result[i].ID) {
			updates = append(updates, airtable.RecordPatch{ID: result[i].ID, Fields: TicketToFields(&result[i])})
		} else {
			creates = append(creates, TicketToFields(&result[i]))
			createIdx = append(createIdx, i)
		}
	}

	if len(updates) > 0 {
		if _, err := g.Client.UpdateRecords(ctx, TableTickets, updates); err != nil {
			return nil, nil, fmt.Errorf("update tickets: %w", err)
		}
	}

	assigned := make(map[string]string)
	if len(creates) > 0 {
		created, err := g.Client.CreateRecords(ctx, TableTickets, creates)
		if err != nil {
			return nil, nil, fmt.Errorf("create tickets: %w", err)
		}
		if len(created) != len(creates) {
			return nil, nil, fmt.Errorf("create tickets: expected %d records, got %d", len(creates), len(created))
		}
		for n, rec := range created {
			i := createIdx[n]
			if result[i].ID != "" {
				assigned[result[i].ID] = rec.ID
			}
			result[i].ID = rec.ID
		}
	}

	return result, assigned, nil
}

// UpsertCoupons mirrors UpsertTickets for the coupon table.
func (g *Gateway) UpsertCoupons(ctx context.Context, eventID string, coupons []models.Coupon) ([]models.Coupon, error) {
	result := make([]models.Coupon, len(coupons))
	copy(result, coupons)

	var creates []map[string]any
	var createIdx []int
	var updates []airtable.RecordPatch

	for i := range result {
		result[i].EventID = eventID
		if models.HasExternalID(result[i].ID) {
			updates = append(updates, airtable.RecordPatch{ID: result[i].ID, Fields: CouponToFields(&result[i])})
		} else {
			creates = append(creates, CouponToFields(&result[i]))
			createIdx = append(createIdx, i)
		}
	}

	if len(updates) > 0 {
		if _, err := g.Client.UpdateRecords(ctx, TableCoupons, updates); err != nil {
			return nil, fmt.Errorf("update coupons: %w", err)
		}
	}

	if len(creates) > 0 {
		created, err := g.Client.CreateRecords(ctx, TableCoupons, creates)
		if err != nil {
			return nil, fmt.Errorf("create coupons: %w", err)
		}
		if len(created) != len(creates) {
			return nil, fmt.Errorf("create coupons: expected %d records, got %d", len(creates), len(created))
		}
		for n, rec := range created {
			result[createIdx[n]].ID = rec.ID
		}
	}

	return result, nil
}

// DeleteEntity removes one record from the named table.
func (g *Gateway) DeleteEntity(ctx context.Context, table, id string) error {
	if err := g.Client.DeleteRecord(ctx, table, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", table, id, err)
	}
	if g.Logger != nil {
		g.Logger.LogAirtable("DELETE", table, id)
	}
	return nil
}

// DuplicateEvent clones an event under a new title. Identity fields
// (record id, slug) and the owned ticket/coupon references are cleared:
// tickets are never shared across events, and the slug is regenerated
// on the copy's first save.
func (g *Gateway) DuplicateEvent(ctx context.Context, sourceID, newTitle string) (models.Event, error) {
	source, err := g.FetchEvent(ctx, sourceID)
	if err != nil {
		return models.Event{}, err
	}

	source.ID = ""
	source.Slug = ""
	source.Title = newTitle
	source.TicketIDs = nil
	source.CouponIDs = nil

	return g.UpsertEvent(ctx, source)
}

// escapeFormulaValue guards single-quoted literals inside a
// filterByFormula expression.
func escapeFormulaValue(v string) string {
	return strings.ReplaceAll(v, "'", "\\'")
}
